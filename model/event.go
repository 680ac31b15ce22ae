package model

import "time"

// RankEvent records a single rank invocation for analytics purposes.
type RankEvent struct {
	RankerName     string        `json:"ranker_name"`
	Ranking        string        `json:"ranking"`
	TraversalPaths string        `json:"traversal_paths"`
	DocumentCount  int           `json:"document_count"` // Target documents processed
	MatchCount     int           `json:"match_count"`    // Aggregated matches produced
	ResponseTime   time.Duration `json:"response_time"`
	Timestamp      time.Time     `json:"timestamp"`
}

// RankerUsage aggregates rank activity for one ranker pipeline.
type RankerUsage struct {
	RankerName string `json:"ranker_name"`
	RankCount  int    `json:"rank_count"`
	MatchCount int    `json:"match_count"`
}

// PolicyStats counts rank invocations per aggregation policy.
type PolicyStats struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	MeanMin int `json:"mean_min"`
	MeanMax int `json:"mean_max"`
}

// AnalyticsDashboard is the payload served by the analytics endpoint.
type AnalyticsDashboard struct {
	TotalRanks      int           `json:"total_ranks"`       // Last 24h
	AvgResponseTime int64         `json:"avg_response_time"` // Milliseconds, last 24h
	ActiveRankers   int           `json:"active_rankers"`
	Policies        PolicyStats   `json:"policies"`     // Last 24h
	RankerUsage     []RankerUsage `json:"ranker_usage"` // Last 7 days
}
