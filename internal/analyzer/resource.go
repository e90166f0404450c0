package analyzer

import (
	"sort"
	"strings"

	"github.com/yourorg/harscope/internal/har"
	"github.com/yourorg/harscope/pkg/types"
)

// resourceClass maps a MIME type to a coarse resource bucket.
func resourceClass(mimeType string) string {
	mt := strings.ToLower(mimeType)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	switch {
	case mt == "":
		return "other"
	case strings.Contains(mt, "javascript"):
		return "script"
	case strings.Contains(mt, "css"):
		return "stylesheet"
	case strings.HasPrefix(mt, "image/"):
		return "image"
	case strings.HasPrefix(mt, "font/") || strings.Contains(mt, "font"):
		return "font"
	case strings.HasPrefix(mt, "audio/") || strings.HasPrefix(mt, "video/"):
		return "media"
	case strings.Contains(mt, "json") || strings.Contains(mt, "xml"):
		return "data"
	case strings.Contains(mt, "html"):
		return "document"
	default:
		return "other"
	}
}

// Resources buckets the capture by resource class with size totals,
// largest first.
func Resources(t *har.Table) []types.ResourceStat {
	type agg struct {
		count int
		size  int64
	}
	buckets := make(map[string]*agg)
	for _, row := range t.Rows() {
		class := resourceClass(row.MimeType)
		a := buckets[class]
		if a == nil {
			a = &agg{}
			buckets[class] = a
		}
		a.count++
		a.size += row.ResponseSize
	}
	out := make([]types.ResourceStat, 0, len(buckets))
	for class, a := range buckets {
		out = append(out, types.ResourceStat{
			Type:      class,
			Count:     a.count,
			TotalSize: a.size,
			AvgSize:   float64(a.size) / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSize != out[j].TotalSize {
			return out[i].TotalSize > out[j].TotalSize
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Domains buckets the capture by host with time shares, busiest first.
func Domains(t *har.Table) []types.DomainStat {
	type agg struct {
		count int
		time  float64
		size  int64
	}
	buckets := make(map[string]*agg)
	var totalTime float64
	for _, row := range t.Rows() {
		host := row.Endpoint
		if i := strings.IndexByte(host, '/'); i >= 0 {
			host = host[:i]
		}
		a := buckets[host]
		if a == nil {
			a = &agg{}
			buckets[host] = a
		}
		a.count++
		a.time += row.TotalTime
		a.size += row.ResponseSize
		totalTime += row.TotalTime
	}
	out := make([]types.DomainStat, 0, len(buckets))
	for host, a := range buckets {
		stat := types.DomainStat{
			Domain:       host,
			RequestCount: a.count,
			TotalTime:    a.time,
			TotalSize:    a.size,
		}
		if totalTime > 0 {
			stat.TimePercentage = a.time / totalTime * 100
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTime != out[j].TotalTime {
			return out[i].TotalTime > out[j].TotalTime
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}
