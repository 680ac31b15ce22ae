package services

import (
	"github.com/gosearchlabs/go-chunk-ranker/config"
	"github.com/gosearchlabs/go-chunk-ranker/model"
)

// RankParameters carries per-call overrides for a rank invocation.
type RankParameters struct {
	TraversalPaths string `json:"traversal_paths,omitempty"` // Overrides the configured selector for this call only
}

// RankQuery is a single rank invocation: a batch of document trees plus
// optional per-call parameters.
type RankQuery struct {
	Documents  []*model.Document `json:"documents"`
	Parameters RankParameters    `json:"parameters,omitempty"`
}

// RankResult returns the mutated document batch. Matches of every selected
// target document have been replaced by aggregated, sorted matches.
type RankResult struct {
	Documents []*model.Document `json:"documents"`
	Took      int64             `json:"took"`     // milliseconds
	QueryId   string            `json:"query_id"` // unique UUID for this rank query
}

// Ranker re-ranks matches across a batch of document trees in place.
type Ranker interface {
	Rank(docs []*model.Document, params RankParameters) error
	Settings() config.RankerSettings
}

// RankerManager manages the lifecycle of named ranker pipelines.
type RankerManager interface {
	CreateRanker(settings config.RankerSettings) error
	GetRanker(name string) (Ranker, error)
	GetRankerSettings(name string) (config.RankerSettings, error)
	UpdateRankerSettings(name string, settings config.RankerSettings) error
	DeleteRanker(name string) error
	ListRankers() []string
}
