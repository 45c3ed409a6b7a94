package indexfile

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/vec"
	"github.com/jimlawless/whereami"
)

// IndexRepo реализует глобальный embedding-индекс поверх одного
// gob-файла. Индекс строится офлайн и на время жизни процесса
// read-only: файл читается один раз при первом Query.
type IndexRepo struct {
	path       string
	vectorSize int

	once    sync.Once
	records []domain.EmbeddingRecord
	loadErr error
}

func NewIndexRepo(path string, vectorSize int) *IndexRepo {
	return &IndexRepo{
		path:       path,
		vectorSize: vectorSize,
	}
}

// Query возвращает записи секции (gender, category) в порядке построения
// индекса. Отсутствие кандидатов — пустой срез, не ошибка.
func (r *IndexRepo) Query(ctx context.Context, gender domain.Gender, category domain.Category) ([]domain.EmbeddingRecord, error) {
	r.once.Do(r.load)
	if r.loadErr != nil {
		return nil, e.Wrap(whereami.WhereAmI(), r.loadErr)
	}

	if err := ctx.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var out []domain.EmbeddingRecord
	for _, rec := range r.records {
		if rec.Gender == gender && rec.Category == category {
			out = append(out, rec)
		}
	}

	return out, nil
}

// Save перезаписывает индекс целиком. Файл сначала пишется во временный
// и подменяется через rename, читатели не видят частичной записи.
func (r *IndexRepo) Save(ctx context.Context, records []domain.EmbeddingRecord) error {
	if err := ctx.Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	for i := range records {
		if err := r.validateRecord(&records[i]); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s: failed to create index directory: %w", whereami.WhereAmI(), err)
	}

	tmp, err := os.CreateTemp(dir, "embedding_index_*.tmp")
	if err != nil {
		return fmt.Errorf("%s: failed to create temp file: %w", whereami.WhereAmI(), err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(records); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: failed to encode index: %w", whereami.WhereAmI(), err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: failed to close temp file: %w", whereami.WhereAmI(), err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("%s: failed to replace index file: %w", whereami.WhereAmI(), err)
	}

	return nil
}

func (r *IndexRepo) load() {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.loadErr = fmt.Errorf("%s: %w", r.path, e.ErrIndexNotBuilt)
			return
		}

		r.loadErr = fmt.Errorf("failed to open index file: %w", err)
		return
	}
	defer f.Close()

	var records []domain.EmbeddingRecord
	if err := gob.NewDecoder(f).Decode(&records); err != nil {
		r.loadErr = fmt.Errorf("failed to decode index file: %w", err)
		return
	}

	for i := range records {
		if err := r.validateRecord(&records[i]); err != nil {
			r.loadErr = err
			return
		}

		// Инвариант индекса — единичные векторы. Файл мог быть построен
		// старой версией индексатора, поэтому нормализация повторяется.
		records[i].Embedding = vec.Normalize(records[i].Embedding)
	}

	r.records = records
}

func (r *IndexRepo) validateRecord(rec *domain.EmbeddingRecord) error {
	if len(rec.Embedding) == 0 {
		return fmt.Errorf("record %q: %w", rec.Path, e.ErrEmptyVector)
	}

	if r.vectorSize > 0 && len(rec.Embedding) != r.vectorSize {
		return fmt.Errorf(
			"record %q has %d dimensions, configured %d: %w",
			rec.Path, len(rec.Embedding), r.vectorSize, e.ErrDimensionMismatch,
		)
	}

	return nil
}
