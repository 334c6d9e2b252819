package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	contentErrors "github.com/gcbaptista/go-content-engine/internal/errors"
	"github.com/gcbaptista/go-content-engine/internal/logging"
	"github.com/gcbaptista/go-content-engine/internal/persistence"
	"github.com/gcbaptista/go-content-engine/model"
)

const memorySnapshotFile = "documents.gob"

// MemoryStore keeps documents in memory, optionally persisting them as a gob snapshot on Close.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     map[string]model.Document
	order    []string // Insertion order of ids
	dataPath string
	logger   *slog.Logger
}

// gobMemoryStoreData is a helper struct for Gob encoding/decoding MemoryStore data.
// It excludes the mutex.
type gobMemoryStoreData struct {
	Docs  map[string]model.Document
	Order []string
}

// NewMemoryStore creates an empty, non-persistent store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:   make(map[string]model.Document),
		order:  make([]string, 0),
		logger: logging.Discard(),
	}
}

// OpenMemoryStore creates a store backed by <dataDir>/documents.gob, loading the snapshot if it exists.
func OpenMemoryStore(dataDir string, logger *slog.Logger) (*MemoryStore, error) {
	s := NewMemoryStore()
	s.dataPath = filepath.Join(dataDir, memorySnapshotFile)
	s.logger = logging.OrDiscard(logger)

	var data gobMemoryStoreData
	err := persistence.LoadGob(s.dataPath, &data)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Info("no document snapshot found, starting empty", "path", s.dataPath)
		return s, nil
	case err != nil:
		return nil, contentErrors.NewStoreAccessError("load snapshot", err)
	}

	if data.Docs != nil {
		s.docs = data.Docs
	}
	if data.Order != nil {
		s.order = data.Order
	}
	s.logger.Info("loaded document snapshot", "path", s.dataPath, "documents", len(s.order))
	return s, nil
}

// ListAll returns every document in insertion order.
func (s *MemoryStore) ListAll(ctx context.Context) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, contentErrors.NewStoreAccessError("list documents", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]model.Document, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, s.docs[id].Clone())
	}
	return docs, nil
}

// FindByCategory returns the documents of one category in insertion order.
func (s *MemoryStore) FindByCategory(ctx context.Context, category model.Category) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, contentErrors.NewStoreAccessError("find by category", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]model.Document, 0)
	for _, id := range s.order {
		if doc := s.docs[id]; doc.Category == category {
			docs = append(docs, doc.Clone())
		}
	}
	return docs, nil
}

// FindByID returns the document with the given id.
func (s *MemoryStore) FindByID(ctx context.Context, id string) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, contentErrors.NewStoreAccessError("find document", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return model.Document{}, contentErrors.NewDocumentNotFoundError(id)
	}
	return doc.Clone(), nil
}

// Upsert inserts or replaces documents. Replaced documents keep their position and creation time.
func (s *MemoryStore) Upsert(ctx context.Context, docs ...model.Document) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, contentErrors.NewStoreAccessError("upsert documents", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(docs))
	for i, doc := range docs {
		stored := doc.Clone()
		if stored.ID == "" {
			stored.ID = uuid.New().String()
		}
		if existing, ok := s.docs[stored.ID]; ok {
			if stored.CreatedAt.IsZero() {
				stored.CreatedAt = existing.CreatedAt
			}
		} else {
			s.order = append(s.order, stored.ID)
		}
		s.docs[stored.ID] = stored
		ids[i] = stored.ID
	}
	return ids, nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Save writes the gob snapshot. It is a no-op for non-persistent stores.
func (s *MemoryStore) Save() error {
	if s.dataPath == "" {
		return nil
	}

	s.mu.RLock()
	data := gobMemoryStoreData{
		Docs:  make(map[string]model.Document, len(s.docs)),
		Order: append([]string(nil), s.order...),
	}
	for id, doc := range s.docs {
		// Decode failures are a property of a read, not of the stored record
		doc.DecodeErr = nil
		data.Docs[id] = doc
	}
	s.mu.RUnlock()

	if err := persistence.SaveGob(s.dataPath, data); err != nil {
		return contentErrors.NewStoreAccessError("save snapshot", fmt.Errorf("%s: %w", s.dataPath, err))
	}
	s.logger.Debug("saved document snapshot", "path", s.dataPath, "documents", len(data.Order))
	return nil
}

// Close persists the snapshot when the store is file-backed.
func (s *MemoryStore) Close() error {
	return s.Save()
}
