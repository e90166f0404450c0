package analyzer

import (
	"strings"

	"github.com/yourorg/harscope/internal/har"
)

// Filter narrows an analyzed table to the rows a view cares about. Zero
// values match everything.
type Filter struct {
	Method           string  // exact, case-insensitive
	StatusClass      string  // "2xx", "3xx", "4xx", "5xx" or "error" (>=400)
	EndpointContains string  // substring match on the endpoint key
	MimeContains     string  // substring match on the MIME type
	MinTotalTime     float64 // ms
	ProblematicOnly  bool
}

// Apply returns the matching rows as a new table, with the annotation
// slice filtered in lockstep so derived columns stay index-aligned.
func (f Filter) Apply(t *har.Table, ann []Annotation) (*har.Table, []Annotation) {
	rows := make([]har.Entry, 0, t.Len())
	kept := make([]Annotation, 0, len(ann))
	for i, row := range t.Rows() {
		var a Annotation
		if i < len(ann) {
			a = ann[i]
		}
		if !f.matches(row, a) {
			continue
		}
		rows = append(rows, row)
		kept = append(kept, a)
	}
	return har.NewTable(rows), kept
}

func (f Filter) matches(row har.Entry, a Annotation) bool {
	if f.Method != "" && !strings.EqualFold(row.Method, f.Method) {
		return false
	}
	if !matchStatusClass(row.Status, f.StatusClass) {
		return false
	}
	if f.EndpointContains != "" && !strings.Contains(row.Endpoint, f.EndpointContains) {
		return false
	}
	if f.MimeContains != "" && !strings.Contains(strings.ToLower(row.MimeType), strings.ToLower(f.MimeContains)) {
		return false
	}
	if row.TotalTime < f.MinTotalTime {
		return false
	}
	if f.ProblematicOnly && !a.Problematic {
		return false
	}
	return true
}

func matchStatusClass(status int, class string) bool {
	switch strings.ToLower(strings.TrimSpace(class)) {
	case "":
		return true
	case "error":
		return status >= 400
	case "2xx":
		return status >= 200 && status < 300
	case "3xx":
		return status >= 300 && status < 400
	case "4xx":
		return status >= 400 && status < 500
	case "5xx":
		return status >= 500 && status < 600
	default:
		return true
	}
}
