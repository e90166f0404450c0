package har

import (
	"fmt"
	"strings"
)

// ValidationError reports a document-level problem: the content is not a
// HAR capture at all, or its overall shape is wrong. Always fatal.
type ValidationError struct {
	Msg  string
	Line int // 1-based line of the JSON syntax error, 0 when unknown
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d)", e.Msg, e.Line)
	}
	return e.Msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ParseError reports that the capture passed structural validation but no
// usable entries could be produced, or that parsing blew up in an
// unanticipated way. Fatal. Sample holds at most errorSampleLimit
// entry-level reasons so the message stays bounded. Internal marks the
// recovered-panic case, so callers can log it as a bug rather than as a
// bad capture.
type ParseError struct {
	Msg      string
	Sample   []string
	Internal bool
}

func (e *ParseError) Error() string {
	if len(e.Sample) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, strings.Join(e.Sample, "; "))
}

// EntryError reports that one entry is individually malformed. Never fatal
// on its own: the entry is skipped and the error accumulated.
type EntryError struct {
	Index  int
	Reason string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d: %s", e.Index, e.Reason)
}
