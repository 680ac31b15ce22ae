// Package ranker implements the match aggregation core. For each target
// document it collapses the matches scattered across the document and its
// immediate chunks into a single deduplicated list of matches on the
// document itself, one per source document, ordered by the configured
// metric under the configured aggregation policy.
package ranker

import (
	"fmt"
	"sort"

	"github.com/gosearchlabs/go-chunk-ranker/config"
	internalErrors "github.com/gosearchlabs/go-chunk-ranker/internal/errors"
	"github.com/gosearchlabs/go-chunk-ranker/internal/traversal"
	"github.com/gosearchlabs/go-chunk-ranker/model"
	"github.com/gosearchlabs/go-chunk-ranker/services"
)

// Service implements the match aggregation logic for a single ranker
// pipeline. It fulfills the services.Ranker interface. A Service holds no
// per-call state; concurrent Rank calls on disjoint document trees are safe.
type Service struct {
	settings *config.RankerSettings
}

// NewService creates a new ranker Service. An unrecognized ranking policy is
// rejected here, at construction time, never at call time.
func NewService(settings *config.RankerSettings) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	if !config.ValidRanking(settings.Ranking) {
		return nil, internalErrors.NewInvalidConfigurationError("ranking",
			"unrecognized ranking '"+settings.Ranking+"' (must be one of 'min', 'max', 'mean_min', 'mean_max')")
	}
	if settings.Metric == "" {
		return nil, internalErrors.NewInvalidConfigurationError("metric", "metric cannot be empty")
	}
	if _, err := traversal.Select(nil, settings.TraversalPaths); err != nil {
		return nil, err
	}
	return &Service{settings: settings}, nil
}

// Settings returns a copy of the pipeline settings.
func (s *Service) Settings() config.RankerSettings {
	return *s.settings
}

// Rank re-ranks every target document selected by the active traversal
// paths, mutating each target's matches in place. A traversal override in
// params applies to this call only.
func (s *Service) Rank(docs []*model.Document, params services.RankParameters) error {
	paths := s.settings.TraversalPaths
	if params.TraversalPaths != "" {
		paths = params.TraversalPaths
	}

	targets, err := traversal.Select(docs, paths)
	if err != nil {
		return err
	}

	for _, doc := range targets {
		if err := s.rankDocument(doc); err != nil {
			return err
		}
	}
	return nil
}

// rankDocument aggregates one target document's candidate pool: its own
// matches plus the matches of its immediate chunks. Matches nested deeper
// than one chunk level are not collected.
func (s *Service) rankDocument(doc *model.Document) error {
	metric := s.settings.Metric

	pool := make([]*model.Document, 0, len(doc.Matches))
	pool = append(pool, doc.Matches...)
	for _, chunk := range doc.Chunks {
		pool = append(pool, chunk.Matches...)
	}

	// Every candidate must carry the configured metric. Checked up front so
	// a failure never leaves the document half-aggregated.
	for _, match := range pool {
		if _, ok := match.Score(metric); !ok {
			return internalErrors.NewMissingScoreError(match.ID, metric)
		}
	}

	doc.Matches = nil

	// Deterministic grouping: order the pool by source key, then partition
	// into contiguous runs sharing that key.
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].SourceKey() < pool[j].SourceKey()
	})

	for start := 0; start < len(pool); {
		end := start + 1
		for end < len(pool) && pool[end].SourceKey() == pool[start].SourceKey() {
			end++
		}
		doc.Matches = append(doc.Matches, s.aggregateGroup(pool[start:end]))
		start = end
	}

	ascending := config.AscendingRanking(s.settings.Ranking)
	sort.SliceStable(doc.Matches, func(i, j int) bool {
		scoreI := doc.Matches[i].Scores[metric].Value
		scoreJ := doc.Matches[j].Scores[metric].Value
		if ascending {
			return scoreI < scoreJ
		}
		return scoreI > scoreJ
	})
	return nil
}

// aggregateGroup builds the promoted match for one group of candidates
// sharing a source key. The group slice is never reordered in place.
func (s *Service) aggregateGroup(group []*model.Document) *model.Document {
	metric := s.settings.Metric
	ranking := s.settings.Ranking

	representative := group[0]
	switch ranking {
	case config.RankingMin:
		ordered := append([]*model.Document(nil), group...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Scores[metric].Value < ordered[j].Scores[metric].Value
		})
		representative = ordered[0]
	case config.RankingMax:
		ordered := append([]*model.Document(nil), group...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Scores[metric].Value > ordered[j].Scores[metric].Value
		})
		representative = ordered[0]
	}
	// mean_min / mean_max keep the group's first element as representative:
	// only its identity and tags are reused, not its rank.

	promoted := representative.Copy()

	// A representative above granularity 0 came from a chunk's match. The
	// promoted match represents the chunk's parent document instead.
	if promoted.Granularity > 0 {
		promoted.ID = representative.ParentID
		promoted.Granularity = 0
		promoted.ParentID = ""
	}

	if config.MeanRanking(ranking) {
		sum := 0.0
		for _, member := range group {
			sum += member.Scores[metric].Value
		}
		promoted.SetScore(metric, model.NamedScore{
			Value:  sum / float64(len(group)),
			OpName: ranking,
		})
	}

	return promoted
}
