package indexfile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(path string, gender domain.Gender, category domain.Category, embedding []float32) domain.EmbeddingRecord {
	return domain.EmbeddingRecord{
		Path:      path,
		Gender:    gender,
		Category:  category,
		Embedding: embedding,
	}
}

func TestIndexRepo_SaveAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gob")
	ctx := context.Background()

	records := []domain.EmbeddingRecord{
		record("men/pants/a.jpg", domain.GenderMen, domain.CategoryPants, []float32{1, 0}),
		record("men/pants/b.jpg", domain.GenderMen, domain.CategoryPants, []float32{0, 1}),
		record("women/pants/c.jpg", domain.GenderWomen, domain.CategoryPants, []float32{1, 0}),
		record("men/jacket/d.jpg", domain.GenderMen, domain.CategoryJacket, []float32{1, 0}),
	}

	require.NoError(t, NewIndexRepo(path, 2).Save(ctx, records))

	// Query читает файл заново, как это делает отдельный процесс API
	repo := NewIndexRepo(path, 2)

	got, err := repo.Query(ctx, domain.GenderMen, domain.CategoryPants)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Порядок построения индекса сохраняется внутри секции
	assert.Equal(t, "men/pants/a.jpg", got[0].Path)
	assert.Equal(t, "men/pants/b.jpg", got[1].Path)

	got, err = repo.Query(ctx, domain.GenderWomen, domain.CategoryPants)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "women/pants/c.jpg", got[0].Path)

	got, err = repo.Query(ctx, domain.GenderWomen, domain.CategoryJacket)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIndexRepo_MissingFile(t *testing.T) {
	repo := NewIndexRepo(filepath.Join(t.TempDir(), "absent.gob"), 2)

	_, err := repo.Query(context.Background(), domain.GenderMen, domain.CategoryPants)
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrIndexNotBuilt))
}

func TestIndexRepo_SaveRejectsBadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gob")
	repo := NewIndexRepo(path, 2)
	ctx := context.Background()

	t.Run("empty embedding", func(t *testing.T) {
		err := repo.Save(ctx, []domain.EmbeddingRecord{
			record("men/pants/a.jpg", domain.GenderMen, domain.CategoryPants, nil),
		})
		assert.True(t, errors.Is(err, e.ErrEmptyVector))
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		err := repo.Save(ctx, []domain.EmbeddingRecord{
			record("men/pants/a.jpg", domain.GenderMen, domain.CategoryPants, []float32{1, 0, 0}),
		})
		assert.True(t, errors.Is(err, e.ErrDimensionMismatch))
	})
}

// Файл, построенный без нормализации, выправляется при загрузке.
func TestIndexRepo_NormalizesOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gob")
	ctx := context.Background()

	require.NoError(t, NewIndexRepo(path, 2).Save(ctx, []domain.EmbeddingRecord{
		record("men/pants/a.jpg", domain.GenderMen, domain.CategoryPants, []float32{3, 4}),
	}))

	got, err := NewIndexRepo(path, 2).Query(ctx, domain.GenderMen, domain.CategoryPants)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.6, got[0].Embedding[0], 1e-6)
	assert.InDelta(t, 0.8, got[0].Embedding[1], 1e-6)
}

// Save подменяет файл атомарно: повторная запись полностью заменяет индекс.
func TestIndexRepo_SaveReplacesIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gob")
	ctx := context.Background()

	require.NoError(t, NewIndexRepo(path, 2).Save(ctx, []domain.EmbeddingRecord{
		record("men/pants/old.jpg", domain.GenderMen, domain.CategoryPants, []float32{1, 0}),
	}))
	require.NoError(t, NewIndexRepo(path, 2).Save(ctx, []domain.EmbeddingRecord{
		record("men/pants/new.jpg", domain.GenderMen, domain.CategoryPants, []float32{0, 1}),
	}))

	got, err := NewIndexRepo(path, 2).Query(ctx, domain.GenderMen, domain.CategoryPants)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "men/pants/new.jpg", got[0].Path)
}
