// Package testing provides utilities and helpers for testing the ranking service.
package testing

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosearchlabs/go-chunk-ranker/config"
	"github.com/gosearchlabs/go-chunk-ranker/internal/engine"
	"github.com/gosearchlabs/go-chunk-ranker/model"
	"github.com/gosearchlabs/go-chunk-ranker/services"
)

// TestDirRegistry tracks test directories for cleanup
type TestDirRegistry struct {
	mu   sync.Mutex
	dirs []string
}

var globalTestDirRegistry = &TestDirRegistry{}

// RegisterTestDir registers a test directory for cleanup
func (r *TestDirRegistry) RegisterTestDir(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirs = append(r.dirs, dir)
}

// CleanupAll removes all registered test directories
func (r *TestDirRegistry) CleanupAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dir := range r.dirs {
		if err := os.RemoveAll(dir); err != nil {
			fmt.Printf("Warning: Failed to remove test directory %s: %v\n", dir, err)
		}
	}
	r.dirs = nil
}

// CreateTestEngine creates a new engine instance for testing with automatic cleanup
func CreateTestEngine(t *testing.T) *engine.Engine {
	testDir := fmt.Sprintf("./test_data_%d", time.Now().UnixNano())
	globalTestDirRegistry.RegisterTestDir(testDir)

	return engine.NewEngine(testDir)
}

// CreateTestRanker creates a ranker pipeline with the given policy and
// otherwise default settings
func CreateTestRanker(t *testing.T, eng *engine.Engine, rankerName, ranking string) config.RankerSettings {
	settings := config.RankerSettings{
		Name:    rankerName,
		Ranking: ranking,
	}

	err := eng.CreateRanker(settings)
	require.NoError(t, err, "Failed to create test ranker")

	created, err := eng.GetRankerSettings(rankerName)
	require.NoError(t, err, "Failed to read back test ranker settings")

	return created
}

// MakeChunkMatch builds a chunk-level candidate match carrying a single
// cosine score
func MakeChunkMatch(id, parentID string, score float64) *model.Document {
	return &model.Document{
		ID:          id,
		ParentID:    parentID,
		Granularity: 1,
		Scores:      map[string]model.NamedScore{"cosine": {Value: score}},
	}
}

// MakeChunkedDocument builds a root document whose chunks carry the given
// match groups, one slice of matches per chunk
func MakeChunkedDocument(id string, chunkMatches ...[]*model.Document) *model.Document {
	doc := &model.Document{ID: id}
	for i, matches := range chunkMatches {
		doc.Chunks = append(doc.Chunks, &model.Document{
			ID:          fmt.Sprintf("%s-chunk-%d", id, i+1),
			ParentID:    id,
			Granularity: 1,
			Matches:     matches,
		})
	}
	return doc
}

// RankTestCase represents a test case for rank operations
type RankTestCase struct {
	Name           string
	Documents      []*model.Document
	Parameters     services.RankParameters
	ExpectedIDs    []string  // Aggregated match IDs, in final order
	ExpectedScores []float64 // Metric values in the same order
	ValidateFunc   func(t *testing.T, docs []*model.Document)
}

// RunRankTests runs a suite of rank test cases against a ranker
func RunRankTests(t *testing.T, ranker services.Ranker, tests []RankTestCase) {
	metric := ranker.Settings().Metric
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			err := ranker.Rank(tt.Documents, tt.Parameters)
			require.NoError(t, err, "Rank should not fail")

			require.NotEmpty(t, tt.Documents, "Test case needs at least one document")
			matches := tt.Documents[0].Matches

			if tt.ExpectedIDs != nil {
				ids := make([]string, len(matches))
				for i, match := range matches {
					ids[i] = match.ID
				}
				assert.Equal(t, tt.ExpectedIDs, ids, "Aggregated match order should match")
			}

			if tt.ExpectedScores != nil {
				scores := make([]float64, len(matches))
				for i, match := range matches {
					score, ok := match.Score(metric)
					require.True(t, ok, "Aggregated match should carry the metric score")
					scores[i] = score.Value
				}
				assert.Equal(t, tt.ExpectedScores, scores, "Aggregated scores should match")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, tt.Documents)
			}
		})
	}
}

// AssertPromotedMatches verifies that every aggregated match was lifted to
// root level
func AssertPromotedMatches(t *testing.T, matches []*model.Document) {
	for _, match := range matches {
		assert.Equal(t, 0, match.Granularity, "Aggregated match should be at root granularity")
		assert.Empty(t, match.ParentID, "Aggregated match should not keep a parent reference")
	}
}

// CleanupTestDirs should be called in TestMain to clean up all test directories
func CleanupTestDirs() {
	globalTestDirRegistry.CleanupAll()
}

// TestMain ensures proper cleanup of test directories
func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()

	// Cleanup test directories
	CleanupTestDirs()

	// Exit with the test result code
	os.Exit(code)
}
