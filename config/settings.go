// Package config provides configuration structures for the ranking service.
// It defines ranker pipeline settings: the score metric, the aggregation
// policy, and the traversal paths selecting which documents to re-rank.
package config

import "strings"

// Aggregation policies. The policy decides both which score represents a
// group of matches sharing a source document and the final ordering of the
// aggregated matches.
const (
	RankingMin     = "min"      // Keep the minimum score, sort ascending
	RankingMax     = "max"      // Keep the maximum score, sort descending
	RankingMeanMin = "mean_min" // Mean score, sort ascending
	RankingMeanMax = "mean_max" // Mean score, sort descending
)

const (
	// DefaultMetric is the score key used when none is configured.
	DefaultMetric = "cosine"

	// DefaultTraversalPaths selects the root documents of a batch.
	DefaultTraversalPaths = "@r"
)

// RankerSettings contains all configuration options for a ranker pipeline.
type RankerSettings struct {
	Name           string `json:"name"`            // Unique name for the pipeline
	Metric         string `json:"metric"`          // Score key used for ranking (e.g. "cosine")
	Ranking        string `json:"ranking"`         // One of min, max, mean_min, mean_max
	TraversalPaths string `json:"traversal_paths"` // Which documents to treat as targets (e.g. "@r", "@c")
}

// ValidRanking reports whether the given ranking policy is one of the four
// supported aggregation policies.
func ValidRanking(ranking string) bool {
	switch ranking {
	case RankingMin, RankingMax, RankingMeanMin, RankingMeanMax:
		return true
	}
	return false
}

// MeanRanking reports whether the policy replaces the representative's score
// with the group mean.
func MeanRanking(ranking string) bool {
	return ranking == RankingMeanMin || ranking == RankingMeanMax
}

// AscendingRanking reports whether the policy orders aggregated matches by
// ascending score. min and mean_min order ascending (distance semantics),
// max and mean_max descending.
func AscendingRanking(ranking string) bool {
	return ranking == RankingMin || ranking == RankingMeanMin
}

// Validate checks the settings and returns a list of problems, empty when the
// settings are usable. ApplyDefaults should be called first.
func (settings *RankerSettings) Validate() []string {
	var problems []string

	if strings.TrimSpace(settings.Name) == "" {
		problems = append(problems, "Ranker name cannot be empty or whitespace-only")
	}
	if strings.TrimSpace(settings.Metric) == "" {
		problems = append(problems, "Metric cannot be empty or whitespace-only")
	}
	if !ValidRanking(settings.Ranking) {
		problems = append(problems, "Invalid ranking '"+settings.Ranking+"' (must be one of 'min', 'max', 'mean_min', 'mean_max')")
	}
	if !validTraversalPaths(settings.TraversalPaths) {
		problems = append(problems, "Invalid traversal_paths '"+settings.TraversalPaths+"' (must be '@r' optionally followed by 'c' levels, e.g. '@r', '@c', '@cc')")
	}

	return problems
}

// validTraversalPaths accepts "@r" (root documents) or "@c", "@cc", ...
// (one or more chunk levels below the roots).
func validTraversalPaths(paths string) bool {
	if paths == DefaultTraversalPaths {
		return true
	}
	if len(paths) < 2 || paths[0] != '@' {
		return false
	}
	for _, r := range paths[1:] {
		if r != 'c' {
			return false
		}
	}
	return true
}

// ApplyDefaults applies default values to the ranker settings. The ranking
// policy has no safe default and is left untouched.
func (settings *RankerSettings) ApplyDefaults() {
	if settings.Metric == "" {
		settings.Metric = DefaultMetric
	}
	if settings.TraversalPaths == "" {
		settings.TraversalPaths = DefaultTraversalPaths
	}
}
