package har

import (
	"bytes"
	"fmt"
	"net/url"

	json "github.com/goccy/go-json"
)

// rawEntry is one untrusted element of log.entries. Request, Response and
// Timings stay undecoded so that "missing" and "wrong shape" can be told
// apart per field.
type rawEntry struct {
	StartedDateTime string          `json:"startedDateTime"`
	Time            any             `json:"time"`
	Request         json.RawMessage `json:"request"`
	Response        json.RawMessage `json:"response"`
	Timings         json.RawMessage `json:"timings"`
}

type rawRequest struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

type rawResponse struct {
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
	Content    struct {
		Size     int64  `json:"size"`
		MimeType string `json:"mimeType"`
	} `json:"content"`
}

// parseEntry converts one raw entry into a normalized Entry. It fails fast
// on the first structural violation; the caller skips the entry and keeps
// going. Pure: identical input yields identical output.
func parseEntry(index int, raw json.RawMessage) (Entry, *EntryError) {
	if !startsWith(raw, '{') {
		return Entry{}, &EntryError{Index: index, Reason: "entry is not an object"}
	}
	var re rawEntry
	if err := json.Unmarshal(raw, &re); err != nil {
		return Entry{}, &EntryError{Index: index, Reason: fmt.Sprintf("malformed entry: %v", err)}
	}

	if len(re.Request) == 0 || isNull(re.Request) {
		return Entry{}, &EntryError{Index: index, Reason: "missing request"}
	}
	var req rawRequest
	if err := json.Unmarshal(re.Request, &req); err != nil {
		return Entry{}, &EntryError{Index: index, Reason: fmt.Sprintf("request is not an object: %v", err)}
	}

	if len(re.Response) == 0 || isNull(re.Response) {
		return Entry{}, &EntryError{Index: index, Reason: "missing response"}
	}
	var resp rawResponse
	if err := json.Unmarshal(re.Response, &resp); err != nil {
		return Entry{}, &EntryError{Index: index, Reason: fmt.Sprintf("response is not an object: %v", err)}
	}

	// Absent timings are tolerated (all phases 0); present but non-object
	// timings are not.
	var phases map[string]any
	if len(re.Timings) > 0 && !isNull(re.Timings) {
		if err := json.Unmarshal(re.Timings, &phases); err != nil {
			return Entry{}, &EntryError{Index: index, Reason: fmt.Sprintf("timings is not an object: %v", err)}
		}
	}

	if req.URL == "" {
		return Entry{}, &EntryError{Index: index, Reason: "missing request URL"}
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		return Entry{}, &EntryError{Index: index, Reason: fmt.Sprintf("unparseable request URL %q", req.URL)}
	}
	if u.Host == "" {
		return Entry{}, &EntryError{Index: index, Reason: fmt.Sprintf("request URL %q has no host", req.URL)}
	}

	method := req.Method
	if method == "" {
		method = "GET"
	}
	totalTime, _ := re.Time.(float64)
	size := resp.Content.Size
	if size < 0 {
		// Browsers report -1 when the body size is unknown.
		size = 0
	}

	return Entry{
		URL:        req.URL,
		Endpoint:   u.Host + u.Path,
		Method:     method,
		Status:     resp.Status,
		StatusText: resp.StatusText,
		TotalTime:  totalTime,
		Timings: Timings{
			Blocked: normalizeTiming(phases["blocked"]),
			DNS:     normalizeTiming(phases["dns"]),
			Connect: normalizeTiming(phases["connect"]),
			Send:    normalizeTiming(phases["send"]),
			Wait:    normalizeTiming(phases["wait"]),
			Receive: normalizeTiming(phases["receive"]),
			SSL:     normalizeTiming(phases["ssl"]),
		},
		StartedDateTime: re.StartedDateTime,
		ResponseSize:    size,
		MimeType:        resp.Content.MimeType,
	}, nil
}

func startsWith(raw json.RawMessage, b byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == b
}
