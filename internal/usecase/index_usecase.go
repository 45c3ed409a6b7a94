package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/shariq8055/ClosetCoach/pkg/vec"
)

// Раскладка датасета: {root}/{gender}/{category}/*.jpg
var (
	indexGenders = []domain.Gender{domain.GenderMen, domain.GenderWomen}

	indexCategories = []domain.Category{
		domain.CategoryTopFormal,
		domain.CategoryTopCasual,
		domain.CategoryPants,
		domain.CategoryJacket,
		domain.CategoryDress,
		domain.CategorySkirt,
		domain.CategoryShorts,
		domain.CategorySuit,
	}
)

// IndexUseCase строит глобальный embedding-индекс офлайн-проходом
// по датасету. Индекс перестраивается целиком, инкрементальных
// обновлений нет.
type IndexUseCase struct {
	indexRepo  IndexRepository
	inference  InferenceInfra
	vectorSize int
	logger     logger.Logger
}

func NewIndexUC(indexRepo IndexRepository, inference InferenceInfra, vectorSize int, logger logger.Logger) *IndexUseCase {
	return &IndexUseCase{
		indexRepo:  indexRepo,
		inference:  inference,
		vectorSize: vectorSize,
		logger:     logger,
	}
}

// BuildIndex обходит датасет, векторизует изображения и сохраняет индекс.
// Порядок записей детерминирован: пол, категория, имя файла.
// Битые изображения пропускаются с логом, расхождение размерности
// вектора с конфигурацией — фатальная ошибка.
func (u *IndexUseCase) BuildIndex(ctx context.Context, root string) (int, error) {
	const op = "IndexUseCase.BuildIndex"

	var records []domain.EmbeddingRecord

	for _, gender := range indexGenders {
		for _, category := range indexCategories {
			dir := filepath.Join(root, string(gender), string(category))

			entries, err := os.ReadDir(dir)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return 0, e.Wrap(op, err)
			}

			for _, entry := range entries {
				if entry.IsDir() || !isImageFile(entry.Name()) {
					continue
				}

				path := filepath.Join(dir, entry.Name())

				record, err := u.buildRecord(ctx, path, gender, category)
				if err != nil {
					// Расхождение размерности — ошибка конфигурации, а не
					// конкретного изображения: пропуск собрал бы пустой индекс.
					if errors.Is(err, e.ErrDimensionMismatch) {
						return 0, e.Wrap(op, err)
					}

					u.logger.Warnf("Skipping image. path: %s, error: %v", path, err)
					continue
				}

				records = append(records, *record)
			}
		}
	}

	err := u.indexRepo.Save(ctx, records)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	return len(records), nil
}

func (u *IndexUseCase) buildRecord(
	ctx context.Context,
	path string,
	gender domain.Gender,
	category domain.Category,
) (*domain.EmbeddingRecord, error) {
	const op = "IndexUseCase.buildRecord"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	image := NewWardrobeImage(data, mimeTypeFor(path), int64(len(data)), filepath.Base(path))

	vectors, err := u.inference.Vectorize(ctx, NewVectorizeReq([]WardrobeImage{*image}))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(vectors) == 0 || len(vectors[0].Vector) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyVectors)
	}

	embedding := vectors[0].Vector
	if len(embedding) != u.vectorSize {
		return nil, e.Wrap(op, fmt.Errorf(
			"got %d dimensions, configured %d: %w",
			len(embedding), u.vectorSize, e.ErrDimensionMismatch,
		))
	}

	// Индекс хранит только единичные векторы, это инвариант хранилища.
	return domain.NewEmbeddingRecord(path, vec.Normalize(embedding), gender, category), nil
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

func mimeTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return "image/png"
	}

	return "image/jpeg"
}
