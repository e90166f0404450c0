package har

import (
	"fmt"

	json "github.com/goccy/go-json"
)

const (
	// DefaultChunkThreshold is the entry count above which the chunked
	// path is used instead of parsing the whole list in one pass.
	DefaultChunkThreshold = 10000
	// DefaultChunkSize is the number of entries parsed per batch on the
	// chunked path.
	DefaultChunkSize = 1000

	errorSampleLimit = 5
)

// ProgressFunc reports parse progress after each batch.
type ProgressFunc func(done, total int)

// Parser converts raw capture content into a normalized Table. Zero knobs
// fall back to the defaults. Both paths produce identical output; the
// threshold only shapes memory and latency.
type Parser struct {
	ChunkThreshold int
	ChunkSize      int
	OnProgress     ProgressFunc
}

// NewParser returns a Parser with default chunking knobs.
func NewParser() *Parser {
	return &Parser{ChunkThreshold: DefaultChunkThreshold, ChunkSize: DefaultChunkSize}
}

// Parse is shorthand for NewParser().Parse.
func Parse(content []byte) (*Result, error) {
	return NewParser().Parse(content)
}

// Parse validates the document, parses every entry best-effort, and
// returns the assembled Result. Per-entry failures never abort the file;
// the single non-recoverable entry-level condition is zero usable entries.
// The error is a *ValidationError or *ParseError, never a raw panic.
func (p *Parser) Parse(content []byte) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ParseError{Msg: fmt.Sprintf("internal error while parsing capture: %v", r), Internal: true}
		}
	}()

	entries, verr := extractEntries(content)
	if verr != nil {
		return nil, verr
	}

	if len(entries) > p.threshold() {
		return p.parseChunked(entries)
	}
	table, entryErrs := parseBatch(entries, 0)
	if p.OnProgress != nil {
		p.OnProgress(len(entries), len(entries))
	}
	return finalize(table, entryErrs)
}

func (p *Parser) threshold() int {
	if p.ChunkThreshold > 0 {
		return p.ChunkThreshold
	}
	return DefaultChunkThreshold
}

func (p *Parser) batchSize() int {
	if p.ChunkSize > 0 {
		return p.ChunkSize
	}
	return DefaultChunkSize
}

// parseBatch runs the entry parser over a contiguous slice of raw
// entries. offset is the index of the first entry within the capture, so
// accumulated errors always carry capture-relative indices.
func parseBatch(entries []json.RawMessage, offset int) (*Table, []*EntryError) {
	table := newTable(len(entries))
	var errs []*EntryError
	for i, raw := range entries {
		entry, entryErr := parseEntry(offset+i, raw)
		if entryErr != nil {
			errs = append(errs, entryErr)
			continue
		}
		table.append(entry)
	}
	return table, errs
}

// finalize escalates total failure into a fatal ParseError and otherwise
// packages the table with its failure metadata. An empty success is never
// returned: downstream could not tell it apart from a capture that parsed.
func finalize(table *Table, errs []*EntryError) (*Result, error) {
	if table.Len() == 0 {
		sample := make([]string, 0, errorSampleLimit)
		for _, e := range errs {
			if len(sample) == errorSampleLimit {
				break
			}
			sample = append(sample, e.Error())
		}
		return nil, &ParseError{Msg: "no valid entries in capture", Sample: sample}
	}
	return &Result{Table: table, Skipped: len(errs), Errors: errs}, nil
}
