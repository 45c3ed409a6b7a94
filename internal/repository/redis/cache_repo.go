package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shariq8055/ClosetCoach/internal/cfg"
	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/clients"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// CacheRepo кэширует гардероб пользователя целиком одним ключом.
// Кэш не источник истины: любая ошибка деградирует до промаха.
type CacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// wardrobeCacheModel — сериализация вещи в кэше.
type wardrobeCacheModel struct {
	ItemName  string       `json:"item_name"`
	Category  string       `json:"category"`
	Colors    []domain.RGB `json:"colors"`
	Embedding []float32    `json:"embedding"`
}

// GetWardrobe возвращает гардероб из кэша. Второй результат — признак
// попадания: пустой гардероб и промах различаются.
func (r *CacheRepo) GetWardrobe(ctx context.Context, userID string) ([]domain.WardrobeItem, bool, error) {
	data, err := r.client.Client.Get(ctx, r.wardrobeKey(userID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}

		r.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []wardrobeCacheModel
	if err := json.Unmarshal(data, &models); err != nil {
		r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))

		// Битое значение удаляется, иначе промах будет повторяться до TTL
		if err := r.client.Client.Del(context.Background(), r.wardrobeKey(userID)).Err(); err != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}

		return nil, false, nil
	}

	items := make([]domain.WardrobeItem, 0, len(models))
	for _, model := range models {
		items = append(items, domain.WardrobeItem{
			ItemName:  model.ItemName,
			Category:  domain.BaseCategory(model.Category),
			Colors:    model.Colors,
			Embedding: model.Embedding,
		})
	}

	return items, true, nil
}

// SetWardrobe кэширует гардероб пользователя с TTL из конфигурации.
// Ошибки записи логируются и не возвращаются.
func (r *CacheRepo) SetWardrobe(ctx context.Context, userID string, items []domain.WardrobeItem) error {
	models := make([]wardrobeCacheModel, 0, len(items))
	for _, item := range items {
		models = append(models, wardrobeCacheModel{
			ItemName:  item.ItemName,
			Category:  string(item.Category),
			Colors:    item.Colors,
			Embedding: item.Embedding,
		})
	}

	data, err := json.Marshal(models)
	if err != nil {
		r.logger.Warnf("Failed to marshal wardrobe for caching (user_id: %s): %v", userID, e.Wrap(whereami.WhereAmI(), err))
		return nil
	}

	if err := r.client.Client.Set(ctx, r.wardrobeKey(userID), data, r.cfg.WardrobeTTL).Err(); err != nil {
		r.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// DeleteWardrobe инвалидирует кэш гардероба после записи в базу.
func (r *CacheRepo) DeleteWardrobe(ctx context.Context, userID string) error {
	if err := r.client.Client.Del(ctx, r.wardrobeKey(userID)).Err(); err != nil {
		r.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *CacheRepo) wardrobeKey(userID string) string {
	return fmt.Sprintf("wardrobe:%s", userID)
}
