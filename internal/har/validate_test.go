package har

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "empty", content: "", wantMsg: "capture is empty"},
		{name: "whitespace only", content: "  \n\t ", wantMsg: "capture is empty"},
		{name: "not json", content: "not json at all", wantMsg: "not valid JSON"},
		{name: "truncated json", content: `{"log": {"entries": [`, wantMsg: "not valid JSON"},
		{name: "root not object", content: `[1, 2, 3]`, wantMsg: "not a JSON object"},
		{name: "missing log", content: `{"version": "1.2"}`, wantMsg: "no log object"},
		{name: "null log", content: `{"log": null}`, wantMsg: "no log object"},
		{name: "log not object", content: `{"log": "yes"}`, wantMsg: "log is not an object"},
		{name: "missing entries", content: `{"log": {}}`, wantMsg: "no entries array"},
		{name: "null entries", content: `{"log": {"entries": null}}`, wantMsg: "no entries array"},
		{name: "entries not array", content: `{"log": {"entries": {}}}`, wantMsg: "not an array"},
		{name: "empty entries", content: `{"log": {"entries": []}}`, wantMsg: "contains no entries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.content))
			if err == nil {
				t.Fatalf("expected validation error for %q", tt.content)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateAcceptsMinimalCapture(t *testing.T) {
	content := `{"log": {"entries": [{"request": {"url": "https://a.com/"}, "response": {}}]}}`
	if err := Validate([]byte(content)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSyntaxErrorCarriesLine(t *testing.T) {
	content := "{\n\"log\": {\n\"entries\": [}\n}\n}"
	err := Validate([]byte(content))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Line != 3 {
		t.Fatalf("expected syntax error on line 3, got %d", verr.Line)
	}
}
