// Package analytics tracks rank invocations and serves aggregate usage
// statistics for the dashboard endpoint.
package analytics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gosearchlabs/go-chunk-ranker/config"
	"github.com/gosearchlabs/go-chunk-ranker/model"
	"github.com/gosearchlabs/go-chunk-ranker/services"
)

const (
	analyticsFileName = "analytics.json"
	maxEventsToKeep   = 10000 // Keep last 10k events for performance
)

// Service implements analytics tracking and reporting
type Service struct {
	mutex         sync.RWMutex
	events        []model.RankEvent
	rankerManager services.RankerManager
	dataFilePath  string
}

// NewService creates a new analytics service persisting events under dataDir.
func NewService(rankerManager services.RankerManager, dataDir string) *Service {
	service := &Service{
		events:        make([]model.RankEvent, 0),
		rankerManager: rankerManager,
		dataFilePath:  filepath.Join(dataDir, analyticsFileName),
	}

	if err := service.loadData(); err != nil {
		log.Printf("Warning: Failed to load analytics data: %v", err)
	}

	return service
}

// TrackRankEvent records a new rank event
func (s *Service) TrackRankEvent(event model.RankEvent) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	event.Timestamp = time.Now()
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}

	// Persist data asynchronously
	go func() {
		if err := s.saveData(); err != nil {
			log.Printf("Warning: Failed to save analytics data: %v", err)
		}
	}()

	return nil
}

// GetDashboardData returns the analytics dashboard payload
func (s *Service) GetDashboardData() (model.AnalyticsDashboard, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := time.Now()
	last24hEvents := s.filterEventsByTime(s.events, now.Add(-24*time.Hour))
	lastWeekEvents := s.filterEventsByTime(s.events, now.Add(-7*24*time.Hour))

	dashboard := model.AnalyticsDashboard{
		TotalRanks:      len(last24hEvents),
		AvgResponseTime: s.calculateAvgResponseTime(last24hEvents),
		ActiveRankers:   len(s.rankerManager.ListRankers()),
		Policies:        s.getPolicyStats(last24hEvents),
		RankerUsage:     s.getRankerUsage(lastWeekEvents),
	}

	return dashboard, nil
}

// filterEventsByTime returns events after the given time
func (s *Service) filterEventsByTime(events []model.RankEvent, after time.Time) []model.RankEvent {
	var filtered []model.RankEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateAvgResponseTime calculates average response time in milliseconds
func (s *Service) calculateAvgResponseTime(events []model.RankEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// getPolicyStats counts events per aggregation policy
func (s *Service) getPolicyStats(events []model.RankEvent) model.PolicyStats {
	stats := model.PolicyStats{}

	for _, event := range events {
		switch event.Ranking {
		case config.RankingMin:
			stats.Min++
		case config.RankingMax:
			stats.Max++
		case config.RankingMeanMin:
			stats.MeanMin++
		case config.RankingMeanMax:
			stats.MeanMax++
		}
	}

	return stats
}

// getRankerUsage aggregates rank activity per pipeline, most active first
func (s *Service) getRankerUsage(events []model.RankEvent) []model.RankerUsage {
	byRanker := make(map[string]*model.RankerUsage)

	for _, event := range events {
		usage, ok := byRanker[event.RankerName]
		if !ok {
			usage = &model.RankerUsage{RankerName: event.RankerName}
			byRanker[event.RankerName] = usage
		}
		usage.RankCount++
		usage.MatchCount += event.MatchCount
	}

	result := make([]model.RankerUsage, 0, len(byRanker))
	for _, usage := range byRanker {
		result = append(result, *usage)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].RankCount != result[j].RankCount {
			return result[i].RankCount > result[j].RankCount
		}
		return result[i].RankerName < result[j].RankerName
	})
	return result
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	dir := filepath.Dir(s.dataFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %v", err)
	}

	if _, err := os.Stat(s.dataFilePath); os.IsNotExist(err) {
		return nil // File doesn't exist yet, that's okay
	}

	data, err := os.ReadFile(s.dataFilePath)
	if err != nil {
		return fmt.Errorf("failed to read analytics file: %v", err)
	}

	if err := json.Unmarshal(data, &s.events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %v", err)
	}

	return nil
}

// saveData saves analytics data to file
func (s *Service) saveData() error {
	dir := filepath.Dir(s.dataFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %v", err)
	}

	s.mutex.RLock()
	data, err := json.MarshalIndent(s.events, "", "  ")
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %v", err)
	}

	if err := os.WriteFile(s.dataFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write analytics file: %v", err)
	}

	return nil
}
