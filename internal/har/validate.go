package har

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// Validate checks the document-level shape of a capture without parsing
// any entries. Structural problems are fatal to the whole file and are
// reported before entry-level work begins.
func Validate(content []byte) error {
	_, err := extractEntries(content)
	return err
}

// extractEntries validates the overall document and returns the raw
// entries of log.entries, still undecoded. Entry-level problems are the
// parser's business, not the validator's: a broken entry must not abort
// its siblings, while a broken document aborts everything.
func extractEntries(content []byte) ([]json.RawMessage, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, &ValidationError{Msg: "capture is empty"}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(content, &doc); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, &ValidationError{
				Msg:  fmt.Sprintf("capture is not valid JSON: %v", syn),
				Line: lineOf(content, syn.Offset),
				Err:  err,
			}
		}
		return nil, &ValidationError{Msg: "capture is not a JSON object", Err: err}
	}

	logRaw, ok := doc["log"]
	if !ok || isNull(logRaw) {
		return nil, &ValidationError{Msg: "capture has no log object"}
	}
	var log map[string]json.RawMessage
	if err := json.Unmarshal(logRaw, &log); err != nil {
		return nil, &ValidationError{Msg: "log is not an object", Err: err}
	}

	entriesRaw, ok := log["entries"]
	if !ok || isNull(entriesRaw) {
		return nil, &ValidationError{Msg: "log has no entries array"}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(entriesRaw, &entries); err != nil {
		return nil, &ValidationError{Msg: "log.entries is not an array", Err: err}
	}
	if len(entries) == 0 {
		return nil, &ValidationError{Msg: "capture contains no entries"}
	}
	return entries, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// lineOf converts a byte offset from a JSON syntax error into a 1-based
// line number.
func lineOf(content []byte, offset int64) int {
	if offset <= 0 || offset > int64(len(content)) {
		return 0
	}
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
