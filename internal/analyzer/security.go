package analyzer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yourorg/harscope/internal/har"
	"github.com/yourorg/harscope/pkg/types"
)

// Query parameter names that suggest credentials leaking through URLs.
var sensitiveParams = []string{"token", "key", "password", "secret", "auth", "session"}

// Security inspects protocol usage and URL patterns. HAR captures often
// omit response headers, so header-based checks (CSP, HSTS) are out of
// reach; this is a best-effort pass over what the table guarantees.
func Security(t *har.Table) types.SecurityReport {
	n := t.Len()
	if n == 0 {
		return types.SecurityReport{}
	}

	var issues []types.Issue
	score := 100

	var insecure int
	hosts := make(map[string]struct{})
	hasHTTPS := false
	for _, row := range t.Rows() {
		if strings.HasPrefix(row.URL, "http://") {
			insecure++
		}
		if strings.HasPrefix(row.URL, "https://") {
			hasHTTPS = true
		}
		if u, err := url.Parse(row.URL); err == nil {
			hosts[u.Host] = struct{}{}
		}
	}
	if insecure > 0 {
		pct := float64(insecure) / float64(n) * 100
		issues = append(issues, types.Issue{
			Severity:    "High",
			Category:    "Insecure Protocol",
			Description: fmt.Sprintf("%d requests (%.1f%%) use HTTP instead of HTTPS", insecure, pct),
			Impact:      "Data transmitted in plain text, vulnerable to interception",
		})
		penalty := int(pct)
		if penalty > 30 {
			penalty = 30
		}
		score -= penalty
	}
	if insecure > 0 && hasHTTPS {
		issues = append(issues, types.Issue{
			Severity:    "High",
			Category:    "Mixed Content",
			Description: fmt.Sprintf("%d HTTP resources mixed into an HTTPS session", insecure),
			Impact:      "Browsers may block mixed content, breaking functionality",
		})
		score -= 20
	}

	if leaks := sensitiveQueryLeaks(t); leaks > 0 {
		issues = append(issues, types.Issue{
			Severity:    "Medium",
			Category:    "Credential In URL",
			Description: fmt.Sprintf("%d requests carry credential-like query parameters", leaks),
			Impact:      "URLs end up in logs, history and referrers; secrets in them leak",
		})
		score -= 15
	}

	if len(hosts) > 20 {
		issues = append(issues, types.Issue{
			Severity:    "Low",
			Category:    "Third-Party Spread",
			Description: fmt.Sprintf("Requests span %d distinct hosts", len(hosts)),
			Impact:      "Every third-party host widens the attack surface",
		})
		score -= 5
	}

	if score < 0 {
		score = 0
	}
	return types.SecurityReport{Score: score, Issues: issues}
}

func sensitiveQueryLeaks(t *har.Table) int {
	var leaks int
	for _, row := range t.Rows() {
		u, err := url.Parse(row.URL)
		if err != nil || u.RawQuery == "" {
			continue
		}
		q := u.Query()
		for name := range q {
			if isSensitiveParam(name) {
				leaks++
				break
			}
		}
	}
	return leaks
}

func isSensitiveParam(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range sensitiveParams {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
