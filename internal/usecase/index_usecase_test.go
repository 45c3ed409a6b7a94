package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInference отдаёт фиксированный вектор, для отдельных изображений
// можно задать ошибку по имени файла. Классификация отдаёт категории
// по порядку вызовов.
type fakeInference struct {
	vector        []float32
	errByName     map[string]error
	categories    []domain.BaseCategory
	classifyCalls int
}

func (f *fakeInference) Vectorize(_ context.Context, req *VectorizeReq) ([]VectorizeRes, error) {
	if len(req.Images) == 0 {
		return nil, fmt.Errorf("no images")
	}

	if err, ok := f.errByName[req.Images[0].Name]; ok {
		return nil, err
	}

	return []VectorizeRes{{Vector: f.vector}}, nil
}

func (f *fakeInference) Classify(_ context.Context, _ WardrobeImage) (*ClassifyRes, error) {
	category := f.categories[f.classifyCalls%len(f.categories)]
	f.classifyCalls++
	return &ClassifyRes{Category: category}, nil
}

// Датасет в раскладке {root}/{gender}/{category}/*.jpg.
func writeDataset(t *testing.T, files map[string][]byte) string {
	t.Helper()

	root := t.TempDir()
	for rel, data := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	return root
}

func TestBuildIndex_CollectsRecords(t *testing.T) {
	root := writeDataset(t, map[string][]byte{
		"men/pants/a.jpg":    {1},
		"men/pants/b.png":    {2},
		"women/jacket/c.jpg": {3},
		"men/pants/notes":    {4}, // не изображение, пропускается
	})

	repo := &fakeIndexRepo{}
	uc := NewIndexUC(repo, &fakeInference{vector: []float32{3, 4}}, 2, logger.NewSlogLogger())

	count, err := uc.BuildIndex(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, repo.saved, 3)

	// Векторы нормализуются перед сохранением
	assert.InDelta(t, 0.6, repo.saved[0].Embedding[0], 1e-6)
	assert.InDelta(t, 0.8, repo.saved[0].Embedding[1], 1e-6)
}

// Битое изображение пропускается, остальные попадают в индекс.
func TestBuildIndex_SkipsBrokenImages(t *testing.T) {
	root := writeDataset(t, map[string][]byte{
		"men/pants/broken.jpg": {1},
		"men/pants/good.jpg":   {2},
	})

	inference := &fakeInference{
		vector:    []float32{1, 0},
		errByName: map[string]error{"broken.jpg": fmt.Errorf("decode failed")},
	}

	repo := &fakeIndexRepo{}
	uc := NewIndexUC(repo, inference, 2, logger.NewSlogLogger())

	count, err := uc.BuildIndex(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, filepath.Join(root, "men/pants/good.jpg"), repo.saved[0].Path)
}

// Расхождение размерности с конфигурацией останавливает построение:
// это не дефект изображения, пропуск молча собрал бы пустой индекс.
func TestBuildIndex_DimensionMismatchIsFatal(t *testing.T) {
	root := writeDataset(t, map[string][]byte{
		"men/pants/a.jpg": {1},
		"men/pants/b.jpg": {2},
	})

	repo := &fakeIndexRepo{}
	uc := NewIndexUC(repo, &fakeInference{vector: []float32{1, 0, 0}}, 2, logger.NewSlogLogger())

	count, err := uc.BuildIndex(context.Background(), root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrDimensionMismatch))
	assert.Zero(t, count)
	assert.Empty(t, repo.saved)
}

func TestBuildIndex_EmptyDataset(t *testing.T) {
	repo := &fakeIndexRepo{}
	uc := NewIndexUC(repo, &fakeInference{vector: []float32{1, 0}}, 2, logger.NewSlogLogger())

	count, err := uc.BuildIndex(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, count)
}
