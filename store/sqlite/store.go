// Package sqlite implements a durable record store on SQLite.
//
// Structured fields (keywords, category scores, auxiliary signals, transcripts) are stored as
// JSON text. A row whose JSON cannot be decoded is still returned, with Document.DecodeErr set,
// so one corrupt record never hides the rest of the corpus.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	contentErrors "github.com/gcbaptista/go-content-engine/internal/errors"
	"github.com/gcbaptista/go-content-engine/model"
	"github.com/gcbaptista/go-content-engine/store"
	"github.com/gcbaptista/go-content-engine/store/sqlite/migrations"
)

const databaseFile = "content.db"

// documentColumns is the column list shared by every SELECT.
const documentColumns = `id, primary_text, context_text, keywords, category, confidence, category_scores,
	auxiliary_signals, directory, duration_seconds, file_path, file_name, media_type, transcripts,
	created_at, processed_at, keywords_derived, context_derived`

// Store is a SQLite-backed store.Store.
type Store struct {
	db   *sql.DB
	path string
}

var _ store.Store = (*Store)(nil)

// NewStore opens (or creates) <dataDir>/content.db and applies pending migrations.
func NewStore(dataDir string) (*Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, databaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_documents.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ListAll returns every document in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+documentColumns+" FROM documents ORDER BY rowid")
	if err != nil {
		return nil, contentErrors.NewStoreAccessError("list documents", err)
	}
	return collectDocuments(rows, "list documents")
}

// FindByCategory returns the documents of one category in insertion order. Labels are
// normalised on write and by migration 003, so the column holds closed-set values only.
func (s *Store) FindByCategory(ctx context.Context, category model.Category) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE category = ? ORDER BY rowid", string(category))
	if err != nil {
		return nil, contentErrors.NewStoreAccessError("find by category", err)
	}
	return collectDocuments(rows, "find by category")
}

// FindByID returns the document with the given id.
func (s *Store) FindByID(ctx context.Context, id string) (model.Document, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, contentErrors.NewDocumentNotFoundError(id)
	}
	if err != nil {
		return model.Document{}, contentErrors.NewStoreAccessError("find document", err)
	}
	return doc, nil
}

// Upsert inserts or replaces documents in one transaction. Replaced rows keep their
// insertion position and creation time.
func (s *Store) Upsert(ctx context.Context, docs ...model.Document) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, contentErrors.NewStoreAccessError("upsert documents", fmt.Errorf("beginning transaction: %w", err))
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, primary_text, context_text, keywords, category, confidence, category_scores,
			auxiliary_signals, directory, duration_seconds, file_path, file_name, media_type, transcripts,
			created_at, processed_at, keywords_derived, context_derived)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			primary_text = excluded.primary_text,
			context_text = excluded.context_text,
			keywords = excluded.keywords,
			category = excluded.category,
			confidence = excluded.confidence,
			category_scores = excluded.category_scores,
			auxiliary_signals = excluded.auxiliary_signals,
			directory = excluded.directory,
			duration_seconds = excluded.duration_seconds,
			file_path = excluded.file_path,
			file_name = excluded.file_name,
			media_type = excluded.media_type,
			transcripts = excluded.transcripts,
			processed_at = excluded.processed_at,
			keywords_derived = excluded.keywords_derived,
			context_derived = excluded.context_derived
	`)
	if err != nil {
		return nil, contentErrors.NewStoreAccessError("upsert documents", fmt.Errorf("preparing statement: %w", err))
	}
	defer stmt.Close()

	ids := make([]string, len(docs))
	for i := range docs {
		doc := docs[i]
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = time.Now().UTC()
		}
		args, err := documentArgs(&doc)
		if err != nil {
			return nil, contentErrors.NewStoreAccessError("upsert documents", err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return nil, contentErrors.NewStoreAccessError("upsert documents", fmt.Errorf("saving document %s: %w", doc.ID, err))
		}
		ids[i] = doc.ID
	}

	if err := tx.Commit(); err != nil {
		return nil, contentErrors.NewStoreAccessError("upsert documents", fmt.Errorf("committing transaction: %w", err))
	}
	return ids, nil
}

func documentArgs(doc *model.Document) ([]any, error) {
	keywords := doc.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return nil, fmt.Errorf("marshalling keywords: %w", err)
	}
	scoresJSON, err := json.Marshal(nonNilScores(doc.CategoryScores))
	if err != nil {
		return nil, fmt.Errorf("marshalling category scores: %w", err)
	}
	transcriptsJSON, err := json.Marshal(nonNilTranscripts(doc.Transcripts))
	if err != nil {
		return nil, fmt.Errorf("marshalling transcripts: %w", err)
	}

	var signals sql.NullString
	if doc.Signals != nil {
		b, err := json.Marshal(doc.Signals)
		if err != nil {
			return nil, fmt.Errorf("marshalling auxiliary signals: %w", err)
		}
		signals = sql.NullString{String: string(b), Valid: true}
	}

	var duration sql.NullFloat64
	if d, ok := doc.Duration(); ok {
		duration = sql.NullFloat64{Float64: d, Valid: true}
	}

	var processedAt sql.NullTime
	if doc.ProcessedAt != nil {
		processedAt = sql.NullTime{Time: *doc.ProcessedAt, Valid: true}
	}

	return []any{
		doc.ID, doc.PrimaryText, doc.ContextText, string(keywordsJSON), string(model.ParseCategory(string(doc.Category))),
		doc.Confidence, string(scoresJSON), signals, doc.Directory, duration, doc.FilePath, doc.FileName,
		string(doc.MediaType), string(transcriptsJSON), doc.CreatedAt, processedAt, doc.KeywordsDerived,
		doc.ContextDerived,
	}, nil
}

func nonNilScores(m map[model.Category]int) map[model.Category]int {
	if m == nil {
		return map[model.Category]int{}
	}
	return m
}

func nonNilTranscripts(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func collectDocuments(rows *sql.Rows, operation string) ([]model.Document, error) {
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, contentErrors.NewStoreAccessError(operation, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, contentErrors.NewStoreAccessError(operation, fmt.Errorf("iterating documents: %w", err))
	}
	return docs, nil
}

// scanDocument scans one row. Undecodable JSON columns are reported through Document.DecodeErr.
func scanDocument(row rowScanner) (model.Document, error) {
	var doc model.Document
	var category, mediaType string
	var keywordsJSON, scoresJSON, transcriptsJSON string
	var signalsJSON sql.NullString
	var duration sql.NullFloat64
	var processedAt sql.NullTime

	if err := row.Scan(&doc.ID, &doc.PrimaryText, &doc.ContextText, &keywordsJSON, &category, &doc.Confidence,
		&scoresJSON, &signalsJSON, &doc.Directory, &duration, &doc.FilePath, &doc.FileName, &mediaType,
		&transcriptsJSON, &doc.CreatedAt, &processedAt, &doc.KeywordsDerived, &doc.ContextDerived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, err
		}
		return model.Document{}, fmt.Errorf("scanning document: %w", err)
	}

	doc.Category = model.ParseCategory(category)
	doc.MediaType = model.MediaType(mediaType)
	if duration.Valid {
		d := duration.Float64
		doc.DurationSeconds = &d
	}
	if processedAt.Valid {
		t := processedAt.Time
		doc.ProcessedAt = &t
	}

	var decodeErrs []error
	if err := json.Unmarshal([]byte(keywordsJSON), &doc.Keywords); err != nil {
		decodeErrs = append(decodeErrs, fmt.Errorf("keywords: %w", err))
	}
	if err := json.Unmarshal([]byte(scoresJSON), &doc.CategoryScores); err != nil {
		decodeErrs = append(decodeErrs, fmt.Errorf("category_scores: %w", err))
	}
	if err := json.Unmarshal([]byte(transcriptsJSON), &doc.Transcripts); err != nil {
		decodeErrs = append(decodeErrs, fmt.Errorf("transcripts: %w", err))
	}
	if signalsJSON.Valid && signalsJSON.String != "" {
		var signals model.AuxiliarySignals
		if err := json.Unmarshal([]byte(signalsJSON.String), &signals); err != nil {
			decodeErrs = append(decodeErrs, fmt.Errorf("auxiliary_signals: %w", err))
		} else {
			doc.Signals = &signals
		}
	}
	doc.DecodeErr = errors.Join(decodeErrs...)

	return doc, nil
}
