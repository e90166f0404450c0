package types

import "time"

// Stats summarizes one analyzed capture.
type Stats struct {
	TotalRequests    int     `json:"total_requests"`
	UniqueEndpoints  int     `json:"unique_endpoints"`
	ErrorRate        float64 `json:"error_rate"`
	AvgResponseTime  float64 `json:"avg_response_time"`
	MaxResponseTime  float64 `json:"max_response_time"`
	MinResponseTime  float64 `json:"min_response_time"`
	ProblematicCount int     `json:"problematic_count"`
	TotalBytes       int64   `json:"total_bytes"`
}

// EndpointStat aggregates requests sharing one endpoint key.
type EndpointStat struct {
	Endpoint        string  `json:"endpoint"`
	AvgResponseTime float64 `json:"avg_response_time"`
	RequestCount    int     `json:"request_count"`
}

// DomainStat aggregates requests per host.
type DomainStat struct {
	Domain         string  `json:"domain"`
	RequestCount   int     `json:"request_count"`
	TotalTime      float64 `json:"total_time"`
	TimePercentage float64 `json:"time_percentage"`
	TotalSize      int64   `json:"total_size"`
}

// ResourceStat aggregates requests per resource class (script, image...).
type ResourceStat struct {
	Type      string  `json:"resource_type"`
	Count     int     `json:"count"`
	TotalSize int64   `json:"total_size"`
	AvgSize   float64 `json:"avg_size"`
}

// ConnectionStats describes connection setup behavior across the capture.
type ConnectionStats struct {
	TotalRequests     int     `json:"total_requests"`
	NewConnections    int     `json:"new_connections"`
	ReusedConnections int     `json:"reused_connections"`
	ReuseRatio        float64 `json:"connection_reuse_ratio"`
	AvgConnectTime    float64 `json:"avg_connect_time"`
	AvgSSLTime        float64 `json:"avg_ssl_time"`
	SSLOverheadMs     float64 `json:"ssl_overhead_ms"`
	ConnectPercentage float64 `json:"connect_time_percentage"`
}

// CacheStats describes caching opportunities in the capture.
type CacheStats struct {
	TotalRequests       int     `json:"total_requests"`
	CacheableRequests   int     `json:"cacheable_requests"`
	CacheablePercentage float64 `json:"cacheable_percentage"`
	PotentialSavings    int64   `json:"potential_savings_bytes"`
}

// Issue is one security or performance finding.
type Issue struct {
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// Recommendation is one actionable suggestion derived from the findings.
type Recommendation struct {
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SecurityReport is the outcome of the security analyzer.
type SecurityReport struct {
	Score  int     `json:"security_score"`
	Issues []Issue `json:"issues"`
}

// Score is the overall performance verdict.
type Score struct {
	Score   int    `json:"score"`
	Grade   string `json:"grade"`
	Summary string `json:"summary"`
}

// Report is the full analysis document for one capture.
type Report struct {
	File             string           `json:"file"`
	GeneratedAt      time.Time        `json:"generated_at"`
	Entries          int              `json:"entries"`
	Skipped          int              `json:"skipped"`
	Stats            Stats            `json:"stats"`
	Score            Score            `json:"score"`
	SlowestEndpoints []EndpointStat   `json:"slowest_endpoints"`
	Connections      ConnectionStats  `json:"connections"`
	Caching          CacheStats       `json:"caching"`
	Security         SecurityReport   `json:"security"`
	Resources        []ResourceStat   `json:"resources"`
	Domains          []DomainStat     `json:"domains"`
	Recommendations  []Recommendation `json:"recommendations"`
}

// RunSummary records one analysis run. Only derived numbers are persisted,
// never the parsed record set itself.
type RunSummary struct {
	ID              string    `json:"id"`
	FilePath        string    `json:"file_path"`
	FileHash        string    `json:"file_hash"`
	Entries         int       `json:"entries"`
	Skipped         int       `json:"skipped"`
	Score           int       `json:"score"`
	Grade           string    `json:"grade"`
	AvgResponseTime float64   `json:"avg_response_time"`
	ErrorRate       float64   `json:"error_rate"`
	CreatedAt       time.Time `json:"created_at"`
}

// Comparison is the delta between two analyzed captures.
type Comparison struct {
	Base        RunSummary         `json:"base"`
	Target      RunSummary         `json:"target"`
	ScoreDelta  int                `json:"score_delta"`
	Improvement bool               `json:"improvement"`
	Metrics     map[string]float64 `json:"metrics"`
}
