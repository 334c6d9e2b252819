// Package store defines the record store the engine reads its corpus from, plus an in-memory implementation.
package store

import (
	"context"

	"github.com/gcbaptista/go-content-engine/model"
)

// Reader is the read side of the record store.
type Reader interface {
	// ListAll returns every document in insertion order.
	ListAll(ctx context.Context) ([]model.Document, error)
	// FindByCategory returns the documents of one category in insertion order.
	FindByCategory(ctx context.Context, category model.Category) ([]model.Document, error)
	// FindByID returns one document or an *errors.DocumentNotFoundError.
	FindByID(ctx context.Context, id string) (model.Document, error)
}

// Writer is the write side of the record store.
type Writer interface {
	// Upsert inserts or replaces documents by id, assigning ids to documents without one.
	// It returns the ids in input order.
	Upsert(ctx context.Context, docs ...model.Document) ([]string, error)
}

// Store is a full record store.
type Store interface {
	Reader
	Writer
	Close() error
}
