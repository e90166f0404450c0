package har

// Timings is the per-phase breakdown of one request. Every field is
// normalized to a non-negative duration in milliseconds; absent or
// unusable raw values become 0.
type Timings struct {
	Blocked float64 `json:"blocked"`
	DNS     float64 `json:"dns"`
	Connect float64 `json:"connect"`
	Send    float64 `json:"send"`
	Wait    float64 `json:"wait"`
	Receive float64 `json:"receive"`
	SSL     float64 `json:"ssl"`
}

// Total sums the seven phases. Informational only: browsers compute the
// entry's top-level time independently, so this need not match TotalTime.
func (t Timings) Total() float64 {
	return t.Blocked + t.DNS + t.Connect + t.Send + t.Wait + t.Receive + t.SSL
}

// Entry is one normalized request/response pair. Immutable once built.
type Entry struct {
	URL        string  `json:"url"`
	Endpoint   string  `json:"endpoint"`
	Method     string  `json:"method"`
	Status     int     `json:"status"`
	StatusText string  `json:"status_text"`
	TotalTime  float64 `json:"total_time"`
	Timings
	StartedDateTime string `json:"started_datetime"`
	ResponseSize    int64  `json:"response_size"`
	MimeType        string `json:"mime_type"`
}

// Columns is the tabular contract consumed by analyzers and exporters,
// in order. Derived columns (problem tags) are added downstream and are
// not part of this list.
var Columns = []string{
	"url", "endpoint", "method", "status", "status_text", "total_time",
	"blocked", "dns", "connect", "send", "wait", "receive", "ssl",
	"started_datetime", "response_size", "mime_type",
}

// Table is an ordered collection of normalized entries. Row order matches
// the order of entries in the capture.
type Table struct {
	rows []Entry
}

func newTable(capacity int) *Table {
	return &Table{rows: make([]Entry, 0, capacity)}
}

// NewTable builds a table from already-normalized rows. Used by callers
// that derive views (filtering) from a parsed table.
func NewTable(rows []Entry) *Table {
	return &Table{rows: rows}
}

func (t *Table) append(e Entry) { t.rows = append(t.rows, e) }

func (t *Table) concat(other *Table) { t.rows = append(t.rows, other.rows...) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th row.
func (t *Table) Row(i int) Entry { return t.rows[i] }

// Rows returns the underlying rows. Callers must not mutate them.
func (t *Table) Rows() []Entry { return t.rows }

// Result is the outcome of parsing one capture. Table is never nil and
// never empty: a capture with zero usable entries fails with ParseError
// instead, so an empty success cannot be confused with a failure.
type Result struct {
	Table   *Table
	Skipped int
	Errors  []*EntryError
}
