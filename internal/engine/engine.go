// Package engine manages named ranker pipelines: creation, lookup, settings
// updates, deletion, and persistence of settings across restarts.
package engine

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gosearchlabs/go-chunk-ranker/config"
	internalErrors "github.com/gosearchlabs/go-chunk-ranker/internal/errors"
	"github.com/gosearchlabs/go-chunk-ranker/internal/persistence"
	"github.com/gosearchlabs/go-chunk-ranker/internal/ranker"
	"github.com/gosearchlabs/go-chunk-ranker/services"
)

const (
	dataDirPerm  = 0755
	settingsFile = "settings.gob"
)

// Engine manages multiple ranker pipelines.
// It implements the services.RankerManager interface.
type Engine struct {
	mu      sync.RWMutex
	rankers map[string]*rankerInstance
	dataDir string
}

// rankerInstance pairs a pipeline's settings with its ranker service.
type rankerInstance struct {
	settings *config.RankerSettings
	ranker   *ranker.Service
}

// NewEngine creates a new ranking engine and loads previously persisted
// pipelines from the data directory.
func NewEngine(dataDir string) *Engine {
	eng := &Engine{
		rankers: make(map[string]*rankerInstance),
		dataDir: dataDir,
	}
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v. Proceeding without persistence for new rankers if loading fails.", dataDir, err)
	}
	eng.loadRankersFromDisk()
	return eng
}

func (e *Engine) loadRankersFromDisk() {
	log.Printf("Loading rankers from disk: %s", e.dataDir)
	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		log.Printf("Warning: Failed to read data directory %s: %v. No rankers loaded.", e.dataDir, err)
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		rankerName := item.Name()
		settingsPath := filepath.Join(e.dataDir, rankerName, settingsFile)

		var settings config.RankerSettings
		if err := persistence.LoadGob(settingsPath, &settings); err != nil {
			log.Printf("Warning: Failed to load settings for ranker %s from %s: %v. Skipping this ranker.", rankerName, settingsPath, err)
			continue
		}

		// Settings name should match directory name
		if settings.Name != rankerName {
			log.Printf("Warning: Ranker name in settings ('%s') does not match directory name ('%s'). Skipping this ranker.", settings.Name, rankerName)
			continue
		}

		instance, err := newRankerInstance(settings)
		if err != nil {
			log.Printf("Warning: Failed to initialize loaded ranker %s: %v. Skipping.", rankerName, err)
			continue
		}

		e.rankers[rankerName] = instance
		log.Printf("Successfully loaded ranker: %s", rankerName)
	}
}

func newRankerInstance(settings config.RankerSettings) (*rankerInstance, error) {
	settings.ApplyDefaults()
	service, err := ranker.NewService(&settings)
	if err != nil {
		return nil, err
	}
	return &rankerInstance{settings: &settings, ranker: service}, nil
}

// CreateRanker creates a new ranker pipeline with the given settings and
// persists it. Invalid settings are rejected here, not at rank time.
func (e *Engine) CreateRanker(settings config.RankerSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(settings.Name) == "" {
		return internalErrors.NewValidationError("name", "ranker name cannot be empty")
	}
	if _, exists := e.rankers[settings.Name]; exists {
		return internalErrors.NewRankerAlreadyExistsError(settings.Name)
	}

	instance, err := newRankerInstance(settings)
	if err != nil {
		return err
	}

	if err := e.persistSettings(instance.settings); err != nil {
		log.Printf("Warning: Failed to persist settings for new ranker '%s': %v. Ranker is available in memory only.", settings.Name, err)
	}

	e.rankers[settings.Name] = instance
	log.Printf("Created ranker: %s (metric=%s, ranking=%s, traversal_paths=%s)",
		instance.settings.Name, instance.settings.Metric, instance.settings.Ranking, instance.settings.TraversalPaths)
	return nil
}

// GetRanker returns the ranker service for the named pipeline.
func (e *Engine) GetRanker(name string) (services.Ranker, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.rankers[name]
	if !exists {
		return nil, internalErrors.NewRankerNotFoundError(name)
	}
	return instance.ranker, nil
}

// GetRankerSettings returns a copy of the named pipeline's settings.
func (e *Engine) GetRankerSettings(name string) (config.RankerSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.rankers[name]
	if !exists {
		return config.RankerSettings{}, internalErrors.NewRankerNotFoundError(name)
	}
	return *instance.settings, nil
}

// UpdateRankerSettings replaces the named pipeline's settings. The new
// settings are validated the same way as at creation.
func (e *Engine) UpdateRankerSettings(name string, settings config.RankerSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.rankers[name]; !exists {
		return internalErrors.NewRankerNotFoundError(name)
	}

	settings.Name = name
	instance, err := newRankerInstance(settings)
	if err != nil {
		return err
	}

	if err := e.persistSettings(instance.settings); err != nil {
		log.Printf("Warning: Failed to persist updated settings for ranker '%s': %v.", name, err)
	}

	e.rankers[name] = instance
	log.Printf("Updated ranker settings: %s", name)
	return nil
}

// DeleteRanker removes the named pipeline and its persisted settings.
func (e *Engine) DeleteRanker(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.rankers[name]; !exists {
		return internalErrors.NewRankerNotFoundError(name)
	}

	delete(e.rankers, name)
	if err := os.RemoveAll(filepath.Join(e.dataDir, name)); err != nil {
		log.Printf("Warning: Failed to remove persisted data for ranker '%s': %v", name, err)
	}
	log.Printf("Deleted ranker: %s", name)
	return nil
}

// ListRankers returns the names of all pipelines, unordered.
func (e *Engine) ListRankers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.rankers))
	for name := range e.rankers {
		names = append(names, name)
	}
	return names
}

func (e *Engine) persistSettings(settings *config.RankerSettings) error {
	settingsPath := filepath.Join(e.dataDir, settings.Name, settingsFile)
	return persistence.SaveGob(settingsPath, settings)
}
