// Package engine hosts the content engine: it owns the record store, enriches incoming documents,
// serialises corpus rebuilds and publishes each new snapshot atomically to concurrent readers.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gcbaptista/go-content-engine/config"
	"github.com/gcbaptista/go-content-engine/index"
	"github.com/gcbaptista/go-content-engine/internal/analytics"
	"github.com/gcbaptista/go-content-engine/internal/indexing"
	"github.com/gcbaptista/go-content-engine/internal/jobs"
	"github.com/gcbaptista/go-content-engine/internal/logging"
	"github.com/gcbaptista/go-content-engine/internal/search"
	"github.com/gcbaptista/go-content-engine/internal/similarity"
	"github.com/gcbaptista/go-content-engine/internal/tokenizer"
	"github.com/gcbaptista/go-content-engine/services"
	"github.com/gcbaptista/go-content-engine/store"
	"github.com/gcbaptista/go-content-engine/store/sqlite"
)

const (
	dataDirPerm   = 0750
	analyticsFile = "search_events.json"
	maxJobWorkers = 2
)

// published pairs a snapshot with the search service built over it so readers never mix the two.
type published struct {
	snapshot *index.Snapshot
	searcher *search.Service
}

// Engine is the content engine host.
// It implements the services.ContentEngine interface.
type Engine struct {
	settings   config.Settings
	store      store.Store
	normalizer *tokenizer.Normalizer
	enricher   *indexing.Service
	finder     *similarity.Finder
	events     *analytics.EventLog
	jobManager *jobs.Manager
	logger     *slog.Logger

	rebuildMu sync.Mutex // At most one rebuild in flight
	current   atomic.Pointer[published]
	closeOnce sync.Once
}

var _ services.ContentEngine = (*Engine)(nil)

// Options tune an Engine beyond its settings.
type Options struct {
	Logger *slog.Logger
	// EventLogPath persists search events between runs; empty keeps them in memory.
	EventLogPath string
}

// New creates an engine over an already opened store. The index is unavailable until the first Rebuild.
func New(settings config.Settings, st store.Store, opts Options) (*Engine, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	settings.ApplyDefaults()
	if conflicts := settings.Validate(); len(conflicts) > 0 {
		return nil, fmt.Errorf("invalid settings: %v", conflicts)
	}

	logger := logging.OrDiscard(opts.Logger)
	e := &Engine{
		settings:   settings,
		store:      st,
		normalizer: tokenizer.NewNormalizer(settings.Engine.Stopwords, settings.Engine.MinTokenLength),
		enricher:   indexing.NewService(settings.Engine, logger.With("component", "indexing")),
		finder:     similarity.NewFinder(settings.Engine.DefaultSimilarLimit),
		events:     analytics.NewEventLog(opts.EventLogPath, logger.With("component", "analytics")),
		jobManager: jobs.NewManager(maxJobWorkers, logger),
		logger:     logger.With("component", "engine"),
	}
	e.jobManager.Start()
	return e, nil
}

// Open creates the store selected by settings.Storage under its data directory and wraps it in an engine.
// Search events are persisted next to the store.
func Open(settings config.Settings, logger *slog.Logger) (*Engine, error) {
	settings.ApplyDefaults()
	logger = logging.OrDiscard(logger)

	if err := os.MkdirAll(settings.Storage.DataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", settings.Storage.DataDir, err)
	}

	var st store.Store
	switch settings.Storage.Backend {
	case config.BackendSQLite:
		s, err := sqlite.NewStore(settings.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		st = s
	case config.BackendMemory:
		s, err := store.OpenMemoryStore(settings.Storage.DataDir, logger.With("component", "store"))
		if err != nil {
			return nil, err
		}
		st = s
	default:
		return nil, fmt.Errorf("unknown storage backend '%s'", settings.Storage.Backend)
	}
	logger.Info("store opened", "backend", settings.Storage.Backend, "data_dir", settings.Storage.DataDir)

	e, err := New(settings, st, Options{
		Logger:       logger,
		EventLogPath: filepath.Join(settings.Storage.DataDir, analyticsFile),
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return e, nil
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() config.Settings {
	return e.settings
}

// Ready reports whether a snapshot has been published.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Close stops background jobs, flushes the search event log and closes the store.
func (e *Engine) Close() error {
	var errs []error
	e.closeOnce.Do(func() {
		e.jobManager.Stop()
		if err := e.events.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flush search events: %w", err))
		}
		if err := e.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		e.logger.Info("engine closed")
	})
	return errors.Join(errs...)
}
