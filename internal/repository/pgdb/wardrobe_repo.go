package pgdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// WardrobeRepo реализует репозиторий гардероба поверх PostgreSQL.
// Вещь хранится одной записью по ключу (user_id, item_name):
// категория, цвета и вектор не могут разойтись по построению.
type WardrobeRepo struct {
	pool *pgxpool.Pool
}

func NewWardrobeRepo(pool *pgxpool.Pool) *WardrobeRepo {
	return &WardrobeRepo{pool: pool}
}

// UpsertItem создаёт или целиком перезаписывает вещь пользователя.
// Выполняется только внутри транзакции из контекста.
func (w *WardrobeRepo) UpsertItem(ctx context.Context, userID string, item *domain.WardrobeItem) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	colors, err := json.Marshal(item.Colors)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal colors: %w", whereami.WhereAmI(), err)
	}

	embedding, err := json.Marshal(item.Embedding)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal embedding: %w", whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO wardrobe_items (user_id, item_name, category, colors, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, item_name)
		DO UPDATE SET
			category = EXCLUDED.category,
			colors = EXCLUDED.colors,
			embedding = EXCLUDED.embedding,
			updated_at = NOW();
	`

	_, err = tx.Exec(ctx, query, userID, item.ItemName, item.Category, colors, embedding)
	if err != nil {
		return fmt.Errorf("%s: failed to upsert wardrobe item: %w", whereami.WhereAmI(), err)
	}

	return nil
}

// GetItems возвращает полный гардероб пользователя в порядке добавления.
func (w *WardrobeRepo) GetItems(ctx context.Context, userID string) ([]domain.WardrobeItem, error) {
	query := `
		SELECT item_name, category, colors, embedding
		FROM wardrobe_items
		WHERE user_id = $1
		ORDER BY created_at, item_name;
	`

	rows, err := w.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query wardrobe items: %w", whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var items []domain.WardrobeItem
	for rows.Next() {
		var (
			item      domain.WardrobeItem
			colors    []byte
			embedding []byte
		)

		err := rows.Scan(&item.ItemName, &item.Category, &colors, &embedding)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan wardrobe item: %w", whereami.WhereAmI(), err)
		}

		if err := json.Unmarshal(colors, &item.Colors); err != nil {
			return nil, fmt.Errorf("%s: failed to unmarshal colors: %w", whereami.WhereAmI(), err)
		}

		if err := json.Unmarshal(embedding, &item.Embedding); err != nil {
			return nil, fmt.Errorf("%s: failed to unmarshal embedding: %w", whereami.WhereAmI(), err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iterator error: %w", whereami.WhereAmI(), err)
	}

	return items, nil
}
