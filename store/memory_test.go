package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentErrors "github.com/gcbaptista/go-content-engine/internal/errors"
	"github.com/gcbaptista/go-content-engine/model"
)

func TestMemoryStore_UpsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ids, err := s.Upsert(ctx,
		model.Document{ID: "a", PrimaryText: "aula", Category: model.CategoryEducation},
		model.Document{PrimaryText: "sem id", Category: model.CategoryOther},
		model.Document{ID: "c", PrimaryText: "receita", Category: model.CategoryCooking},
	)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, "a", ids[0])
	assert.NotEmpty(t, ids[1], "expected a generated id")

	doc, err := s.FindByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, "sem id", doc.PrimaryText)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", ids[1], "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	cooking, err := s.FindByCategory(ctx, model.CategoryCooking)
	require.NoError(t, err)
	require.Len(t, cooking, 1)
	assert.Equal(t, "c", cooking[0].ID)
}

func TestMemoryStore_ReplaceKeepsPosition(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.Upsert(ctx, model.Document{ID: "a", CreatedAt: created}, model.Document{ID: "b"})
	require.NoError(t, err)
	_, err = s.Upsert(ctx, model.Document{ID: "a", PrimaryText: "novo texto"})
	require.NoError(t, err)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "novo texto", all[0].PrimaryText)
	assert.True(t, all[0].CreatedAt.Equal(created), "creation time should survive replacement")
}

func TestMemoryStore_NotFound(t *testing.T) {
	_, err := NewMemoryStore().FindByID(context.Background(), "missing")

	var notFound *contentErrors.DocumentNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.DocumentID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Upsert(ctx, model.Document{ID: "a", Keywords: []string{"sol"}})
	require.NoError(t, err)

	doc, err := s.FindByID(ctx, "a")
	require.NoError(t, err)
	doc.Keywords[0] = "lua"

	again, err := s.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "sol", again.Keywords[0])
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().ListAll(ctx)
	assert.True(t, errors.Is(err, contentErrors.ErrStoreAccess))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMemoryStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	duration := 42.5

	s, err := OpenMemoryStore(dir, nil)
	require.NoError(t, err)
	_, err = s.Upsert(ctx,
		model.Document{
			ID:              "v1",
			PrimaryText:     "aula de violão",
			Keywords:        []string{"aula", "violão"},
			Category:        model.CategoryMusic,
			CategoryScores:  map[model.Category]int{model.CategoryMusic: 1},
			Signals:         &model.AuxiliarySignals{HasFaces: true, AvgBrightness: 120},
			DurationSeconds: &duration,
		},
		model.Document{ID: "v2", PrimaryText: "gol"},
	)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := OpenMemoryStore(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())

	doc, err := reopened.FindByID(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"aula", "violão"}, doc.Keywords)
	assert.Equal(t, model.CategoryMusic, doc.Category)
	require.NotNil(t, doc.Signals)
	assert.True(t, doc.Signals.HasFaces)
	d, ok := doc.Duration()
	assert.True(t, ok)
	assert.Equal(t, 42.5, d)

	all, err := reopened.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", all[0].ID)
	assert.Equal(t, "v2", all[1].ID)
}
