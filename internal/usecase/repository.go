package usecase

import (
	"context"

	"github.com/shariq8055/ClosetCoach/internal/domain"
)

// IndexRepository — глобальный embedding-индекс, построенный офлайн.
// Query лениво загружает индекс при первом обращении; порядок записей
// соответствует порядку построения индекса.
type IndexRepository interface {
	Query(ctx context.Context, gender domain.Gender, category domain.Category) ([]domain.EmbeddingRecord, error)
	Save(ctx context.Context, records []domain.EmbeddingRecord) error
}

// WardrobeRepository — персональный гардероб пользователя.
type WardrobeRepository interface {
	UpsertItem(ctx context.Context, userID string, item *domain.WardrobeItem) error
	GetItems(ctx context.Context, userID string) ([]domain.WardrobeItem, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

// CacheRepository кэширует полный гардероб пользователя.
type CacheRepository interface {
	GetWardrobe(ctx context.Context, userID string) ([]domain.WardrobeItem, bool, error)
	SetWardrobe(ctx context.Context, userID string, items []domain.WardrobeItem) error
	DeleteWardrobe(ctx context.Context, userID string) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}
