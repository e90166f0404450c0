package analyzer

import (
	"fmt"
	"path"
	"strings"

	"github.com/yourorg/harscope/internal/har"
	"github.com/yourorg/harscope/pkg/types"
)

// Static asset extensions that are typically safe to cache. HAR captures
// rarely carry full response headers, so cacheability is inferred from the
// URL, best-effort.
var cacheableExtensions = map[string]struct{}{
	".js": {}, ".css": {}, ".png": {}, ".jpg": {}, ".jpeg": {},
	".gif": {}, ".webp": {}, ".svg": {}, ".ico": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".otf": {},
	".mp4": {}, ".webm": {}, ".mp3": {}, ".pdf": {},
}

// Caching estimates how much of the capture could be served from cache on
// a repeat visit, and the bandwidth that would save.
func Caching(t *har.Table) types.CacheStats {
	n := t.Len()
	if n == 0 {
		return types.CacheStats{}
	}
	var cacheable int
	var savings int64
	for _, row := range t.Rows() {
		if !isCacheable(row) {
			continue
		}
		cacheable++
		savings += row.ResponseSize
	}
	return types.CacheStats{
		TotalRequests:       n,
		CacheableRequests:   cacheable,
		CacheablePercentage: float64(cacheable) / float64(n) * 100,
		PotentialSavings:    savings,
	}
}

func isCacheable(row har.Entry) bool {
	lower := strings.ToLower(row.Endpoint)
	if strings.Contains(lower, "/api/") || strings.Contains(lower, "/graphql") {
		return false
	}
	_, ok := cacheableExtensions[path.Ext(lower)]
	return ok
}

// CachingRecommendations derives caching suggestions.
func CachingRecommendations(cs types.CacheStats) []types.Recommendation {
	if cs.CacheableRequests == 0 {
		return nil
	}
	return []types.Recommendation{{
		Priority: "Medium",
		Title:    "Cache static assets",
		Description: fmt.Sprintf(
			"Static assets make up %.1f%% of requests. Serve them with long-lived Cache-Control headers to cut repeat-visit bandwidth.",
			cs.CacheablePercentage),
	}}
}
