package sqlite

import (
	"context"
	"fmt"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentErrors "github.com/gcbaptista/go-content-engine/internal/errors"
	"github.com/gcbaptista/go-content-engine/model"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func sampleDocument(id string) model.Document {
	duration := 125.5
	processed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	return model.Document{
		ID:              id,
		PrimaryText:     "aula de violão para iniciantes",
		ContextText:     "Transcrição: aula de violão",
		Keywords:        []string{"aula", "violão", "iniciantes"},
		Category:        model.CategoryMusic,
		Confidence:      0.75,
		CategoryScores:  map[model.Category]int{model.CategoryMusic: 3, model.CategoryEducation: 1},
		Signals:         &model.AuxiliarySignals{HasFaces: true, AvgBrightness: 130.5, SceneChanges: 4},
		Directory:       "/videos/musica",
		DurationSeconds: &duration,
		FilePath:        "/videos/musica/violao.mp4",
		FileName:        "violao.mp4",
		MediaType:       model.MediaTypeVideo,
		Transcripts:     map[string]string{"pt": "aula de violão"},
		CreatedAt:       time.Date(2026, 3, 4, 5, 0, 0, 0, time.UTC),
		ProcessedAt:     &processed,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	ids, err := store.Upsert(ctx, sampleDocument("v1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, ids)

	got, err := store.FindByID(ctx, "v1")
	require.NoError(t, err)

	want := sampleDocument("v1")
	assert.NoError(t, got.DecodeErr)
	assert.Equal(t, want.PrimaryText, got.PrimaryText)
	assert.Equal(t, want.ContextText, got.ContextText)
	assert.Equal(t, want.Keywords, got.Keywords)
	assert.Equal(t, want.Category, got.Category)
	assert.InDelta(t, want.Confidence, got.Confidence, 1e-9)
	assert.Equal(t, want.CategoryScores, got.CategoryScores)
	assert.Equal(t, want.Signals, got.Signals)
	assert.Equal(t, want.Directory, got.Directory)
	assert.Equal(t, *want.DurationSeconds, *got.DurationSeconds)
	assert.Equal(t, want.FileName, got.FileName)
	assert.Equal(t, want.MediaType, got.MediaType)
	assert.Equal(t, want.Transcripts, got.Transcripts)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.ProcessedAt)
	assert.True(t, want.ProcessedAt.Equal(*got.ProcessedAt))
}

func TestStore_OptionalFields(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	ids, err := store.Upsert(ctx, model.Document{PrimaryText: "sem extras"})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.NotEmpty(t, ids[0])

	got, err := store.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Nil(t, got.Signals)
	assert.Nil(t, got.DurationSeconds)
	assert.Nil(t, got.ProcessedAt)
	assert.Empty(t, got.Keywords)
	assert.Equal(t, model.CategoryOther, got.Category)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_UpsertKeepsOrderAndCreation(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.Upsert(ctx, sampleDocument("a"), sampleDocument("b"), sampleDocument("c"))
	require.NoError(t, err)

	replacement := sampleDocument("a")
	replacement.PrimaryText = "texto novo"
	replacement.CreatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = store.Upsert(ctx, replacement)
	require.NoError(t, err)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "texto novo", all[0].PrimaryText)
	assert.True(t, sampleDocument("a").CreatedAt.Equal(all[0].CreatedAt), "creation time should not change on update")
}

func TestStore_FindByCategory(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	cooking := sampleDocument("c1")
	cooking.Category = model.CategoryCooking
	_, err := store.Upsert(ctx, sampleDocument("m1"), cooking, sampleDocument("m2"))
	require.NoError(t, err)

	music, err := store.FindByCategory(ctx, model.CategoryMusic)
	require.NoError(t, err)
	require.Len(t, music, 2)
	assert.Equal(t, "m1", music[0].ID)
	assert.Equal(t, "m2", music[1].ID)

	none, err := store.FindByCategory(ctx, model.CategoryNews)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, contentErrors.ErrDocumentNotFound))
}

func TestStore_CorruptRowIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.Upsert(ctx, sampleDocument("good"), sampleDocument("bad"))
	require.NoError(t, err)
	_, err = store.db.ExecContext(ctx, "UPDATE documents SET keywords = '[\"aula\",' WHERE id = 'bad'")
	require.NoError(t, err)

	all, err := store.ListAll(ctx)
	require.NoError(t, err, "a corrupt row must not fail the listing")
	require.Len(t, all, 2)

	assert.NoError(t, all[0].DecodeErr)
	assert.Error(t, all[1].DecodeErr)

	validateErr := all[1].Validate()
	assert.True(t, errors.Is(validateErr, contentErrors.ErrMalformedDocument))
}

func TestStore_ClosedDatabase(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.ListAll(context.Background())
	assert.True(t, errors.Is(err, contentErrors.ErrStoreAccess))
}

func TestStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	_, err = first.Upsert(context.Background(), sampleDocument("kept"))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var versions int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 3, versions)

	doc, err := second.FindByID(context.Background(), "kept")
	require.NoError(t, err)
	assert.Equal(t, "kept", doc.ID)
}

func TestStore_DerivedFlagsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	derived := sampleDocument("derived")
	derived.KeywordsDerived = true
	derived.ContextDerived = true
	_, err := store.Upsert(ctx, derived, sampleDocument("supplied"))
	require.NoError(t, err)

	got, err := store.FindByID(ctx, "derived")
	require.NoError(t, err)
	assert.True(t, got.KeywordsDerived)
	assert.True(t, got.ContextDerived)

	got, err = store.FindByID(ctx, "supplied")
	require.NoError(t, err)
	assert.False(t, got.KeywordsDerived)
	assert.False(t, got.ContextDerived)
}

func TestStore_UpsertNormalizesLegacyCategory(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	legacyOther := sampleDocument("o1")
	legacyOther.Category = model.Category("outros")
	legacyCooking := sampleDocument("c1")
	legacyCooking.Category = model.Category("Culinária")
	_, err := store.Upsert(ctx, legacyOther, legacyCooking)
	require.NoError(t, err)

	other, err := store.FindByCategory(ctx, model.CategoryOther)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "o1", other[0].ID)

	cooking, err := store.FindByCategory(ctx, model.CategoryCooking)
	require.NoError(t, err)
	require.Len(t, cooking, 1)
	assert.Equal(t, "c1", cooking[0].ID)
}

func TestStore_MigrationNormalizesStoredCategories(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	_, err = first.Upsert(ctx, sampleDocument("a"), sampleDocument("b"), sampleDocument("c"), sampleDocument("d"))
	require.NoError(t, err)

	// Rows written before labels were normalised on write.
	legacy := map[string]string{"a": "outros", "b": "música", "c": "Tecnologia", "d": "astronomia"}
	for id, label := range legacy {
		_, err = first.db.ExecContext(ctx, "UPDATE documents SET category = ? WHERE id = ?", label, id)
		require.NoError(t, err)
	}
	_, err = first.db.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version >= 3")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	want := map[string]model.Category{
		"a": model.CategoryOther,
		"b": model.CategoryMusic,
		"c": model.CategoryTechnology,
		"d": model.CategoryOther,
	}
	for id, category := range want {
		var stored string
		require.NoError(t, second.db.QueryRow("SELECT category FROM documents WHERE id = ?", id).Scan(&stored))
		assert.Equal(t, string(category), stored, fmt.Sprintf("document %s", id))
	}

	other, err := second.FindByCategory(ctx, model.CategoryOther)
	require.NoError(t, err)
	assert.Len(t, other, 2)
}
