package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWardrobeRepo struct {
	items map[string][]domain.WardrobeItem
	calls int
}

// UpsertItem повторяет контракт хранилища: (userID, itemName) — ключ,
// повторная запись заменяет вещь целиком.
func (f *fakeWardrobeRepo) UpsertItem(_ context.Context, userID string, item *domain.WardrobeItem) error {
	if f.items == nil {
		f.items = make(map[string][]domain.WardrobeItem)
	}

	for i := range f.items[userID] {
		if f.items[userID][i].ItemName == item.ItemName {
			f.items[userID][i] = *item
			return nil
		}
	}

	f.items[userID] = append(f.items[userID], *item)
	return nil
}

func (f *fakeWardrobeRepo) GetItems(_ context.Context, userID string) ([]domain.WardrobeItem, error) {
	f.calls++
	return f.items[userID], nil
}

type fakeCacheRepo struct {
	wardrobes map[string][]domain.WardrobeItem
	sets      int
}

func (f *fakeCacheRepo) GetWardrobe(_ context.Context, userID string) ([]domain.WardrobeItem, bool, error) {
	items, ok := f.wardrobes[userID]
	return items, ok, nil
}

func (f *fakeCacheRepo) SetWardrobe(_ context.Context, userID string, items []domain.WardrobeItem) error {
	if f.wardrobes == nil {
		f.wardrobes = make(map[string][]domain.WardrobeItem)
	}
	f.wardrobes[userID] = items
	f.sets++
	return nil
}

func (f *fakeCacheRepo) DeleteWardrobe(_ context.Context, userID string) error {
	delete(f.wardrobes, userID)
	return nil
}

func item(name string, category domain.BaseCategory, embedding []float32) domain.WardrobeItem {
	return domain.WardrobeItem{
		ItemName:  name,
		Category:  category,
		Embedding: embedding,
	}
}

func newTestWardrobeUC(repo *fakeWardrobeRepo, cache *fakeCacheRepo) *WardrobeUseCase {
	return NewWardrobeUC(
		repo, nil, cache, nil, nil, nil, nil,
		logger.NewSlogLogger(),
		rand.New(rand.NewSource(1)),
	)
}

func TestRetrieveUserCIR_MatchesMostCompatible(t *testing.T) {
	repo := &fakeWardrobeRepo{items: map[string][]domain.WardrobeItem{
		"u1": {
			item("blue-shirt.jpg", domain.BaseTop, []float32{1, 0}),
			item("chinos.jpg", domain.BasePants, []float32{0.9, 0.1}),
			item("cargo.jpg", domain.BasePants, []float32{0, 1}),
		},
	}}

	uc := newTestWardrobeUC(repo, &fakeCacheRepo{})

	res, err := uc.RetrieveUserCIR(context.Background(), &UserCirReq{UserID: "u1", ItemName: "blue-shirt.jpg"})
	require.NoError(t, err)
	require.NotNil(t, res.Match)
	assert.Equal(t, "chinos.jpg", res.Match.ItemName)
	assert.Contains(t, res.Reason, "Matched based on visual compatibility (cosine similarity = ")
}

func TestRetrieveUserCIR_ItemNotFound(t *testing.T) {
	repo := &fakeWardrobeRepo{items: map[string][]domain.WardrobeItem{
		"u1": {item("shirt.jpg", domain.BaseTop, []float32{1, 0})},
	}}

	uc := newTestWardrobeUC(repo, &fakeCacheRepo{})

	res, err := uc.RetrieveUserCIR(context.Background(), &UserCirReq{UserID: "u1", ItemName: "missing.jpg"})
	require.NoError(t, err)
	assert.Nil(t, res.Match)
	assert.Equal(t, "Item not found in user wardrobe", res.Reason)
}

func TestRetrieveUserCIR_NoCompletionRule(t *testing.T) {
	repo := &fakeWardrobeRepo{items: map[string][]domain.WardrobeItem{
		"u1": {item("skirt.jpg", domain.BaseSkirt, []float32{1, 0})},
	}}

	uc := newTestWardrobeUC(repo, &fakeCacheRepo{})

	res, err := uc.RetrieveUserCIR(context.Background(), &UserCirReq{UserID: "u1", ItemName: "skirt.jpg"})
	require.NoError(t, err)
	assert.Nil(t, res.Match)
	assert.Equal(t, "No completion rule for this category", res.Reason)
}

func TestRetrieveUserCIR_NoSuitableItem(t *testing.T) {
	repo := &fakeWardrobeRepo{items: map[string][]domain.WardrobeItem{
		"u1": {item("shirt.jpg", domain.BaseTop, []float32{1, 0})},
	}}

	uc := newTestWardrobeUC(repo, &fakeCacheRepo{})

	res, err := uc.RetrieveUserCIR(context.Background(), &UserCirReq{UserID: "u1", ItemName: "shirt.jpg"})
	require.NoError(t, err)
	assert.Nil(t, res.Match)
	assert.Equal(t, "No suitable item in wardrobe", res.Reason)
}

// При равных оценках выигрывает более ранняя вещь (строгое "больше").
func TestRetrieveUserCIR_TieKeepsEarlierItem(t *testing.T) {
	repo := &fakeWardrobeRepo{items: map[string][]domain.WardrobeItem{
		"u1": {
			item("shirt.jpg", domain.BaseTop, []float32{1, 0}),
			item("first-pants.jpg", domain.BasePants, []float32{1, 0}),
			item("second-pants.jpg", domain.BasePants, []float32{2, 0}),
		},
	}}

	uc := newTestWardrobeUC(repo, &fakeCacheRepo{})

	res, err := uc.RetrieveUserCIR(context.Background(), &UserCirReq{UserID: "u1", ItemName: "shirt.jpg"})
	require.NoError(t, err)
	require.NotNil(t, res.Match)
	assert.Equal(t, "first-pants.jpg", res.Match.ItemName)
}

func TestRetrieveUserCIR_UsesCache(t *testing.T) {
	repo := &fakeWardrobeRepo{}
	cache := &fakeCacheRepo{wardrobes: map[string][]domain.WardrobeItem{
		"u1": {
			item("shirt.jpg", domain.BaseTop, []float32{1, 0}),
			item("pants.jpg", domain.BasePants, []float32{1, 0}),
		},
	}}

	uc := newTestWardrobeUC(repo, cache)

	res, err := uc.RetrieveUserCIR(context.Background(), &UserCirReq{UserID: "u1", ItemName: "shirt.jpg"})
	require.NoError(t, err)
	require.NotNil(t, res.Match)
	assert.Zero(t, repo.calls)
}

func TestRetrieveUserCIR_FillsCacheOnMiss(t *testing.T) {
	repo := &fakeWardrobeRepo{items: map[string][]domain.WardrobeItem{
		"u1": {
			item("shirt.jpg", domain.BaseTop, []float32{1, 0}),
			item("pants.jpg", domain.BasePants, []float32{1, 0}),
		},
	}}
	cache := &fakeCacheRepo{}

	uc := newTestWardrobeUC(repo, cache)

	_, err := uc.RetrieveUserCIR(context.Background(), &UserCirReq{UserID: "u1", ItemName: "shirt.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.sets)
}

func TestGenerateOutfit_RequiredCategories(t *testing.T) {
	repo := &fakeWardrobeRepo{items: map[string][]domain.WardrobeItem{
		"u1": {
			item("shirt.jpg", domain.BaseTop, nil),
			item("pants.jpg", domain.BasePants, nil),
			item("jacket.jpg", domain.BaseJacket, nil),
		},
	}}

	uc := newTestWardrobeUC(repo, &fakeCacheRepo{})

	res, err := uc.GenerateOutfit(context.Background(), &OutfitReq{UserID: "u1", Weather: domain.WeatherWarm})
	require.NoError(t, err)
	require.False(t, res.Empty)

	assert.Equal(t, "shirt.jpg", res.Outfit[domain.BaseTop])
	assert.Equal(t, "pants.jpg", res.Outfit[domain.BasePants])
	// В тёплую погоду куртка не добавляется
	assert.NotContains(t, res.Outfit, domain.BaseJacket)

	assert.Contains(t, res.Reasoning, "Generated from your personal wardrobe")
	assert.Contains(t, res.Reasoning, "Optimized for warm weather")
}

func TestGenerateOutfit_ColdWeatherAddsJacket(t *testing.T) {
	repo := &fakeWardrobeRepo{items: map[string][]domain.WardrobeItem{
		"u1": {
			item("shirt.jpg", domain.BaseTop, nil),
			item("pants.jpg", domain.BasePants, nil),
			item("jacket.jpg", domain.BaseJacket, nil),
		},
	}}

	uc := newTestWardrobeUC(repo, &fakeCacheRepo{})

	res, err := uc.GenerateOutfit(context.Background(), &OutfitReq{UserID: "u1", Weather: domain.WeatherCold})
	require.NoError(t, err)
	assert.Equal(t, "jacket.jpg", res.Outfit[domain.BaseJacket])
}

// Категории без кандидатов пропускаются без ошибки.
func TestGenerateOutfit_MissingCategorySkipped(t *testing.T) {
	repo := &fakeWardrobeRepo{items: map[string][]domain.WardrobeItem{
		"u1": {item("shirt.jpg", domain.BaseTop, nil)},
	}}

	uc := newTestWardrobeUC(repo, &fakeCacheRepo{})

	res, err := uc.GenerateOutfit(context.Background(), &OutfitReq{UserID: "u1", Weather: domain.WeatherWarm})
	require.NoError(t, err)
	require.False(t, res.Empty)
	assert.Len(t, res.Outfit, 1)
	assert.Equal(t, "shirt.jpg", res.Outfit[domain.BaseTop])
}

func TestGenerateOutfit_EmptyWardrobe(t *testing.T) {
	uc := newTestWardrobeUC(&fakeWardrobeRepo{}, &fakeCacheRepo{})

	res, err := uc.GenerateOutfit(context.Background(), &OutfitReq{UserID: "u1", Weather: domain.WeatherWarm})
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Equal(t, "Your wardrobe is empty. Please upload some clothes first.", res.Message)
}

func TestGenerateOutfit_NoRequiredItems(t *testing.T) {
	repo := &fakeWardrobeRepo{items: map[string][]domain.WardrobeItem{
		"u1": {item("dress.jpg", domain.BaseDress, nil)},
	}}

	uc := newTestWardrobeUC(repo, &fakeCacheRepo{})

	res, err := uc.GenerateOutfit(context.Background(), &OutfitReq{UserID: "u1", Weather: domain.WeatherWarm})
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Equal(t, "Your wardrobe doesn't have the required items (top, pants). Please upload more clothes.", res.Message)
}

// Выбор внутри категории воспроизводим при фиксированном seed.
func TestGenerateOutfit_SeededSelectionIsReproducible(t *testing.T) {
	items := map[string][]domain.WardrobeItem{
		"u1": {
			item("shirt-a.jpg", domain.BaseTop, nil),
			item("shirt-b.jpg", domain.BaseTop, nil),
			item("shirt-c.jpg", domain.BaseTop, nil),
			item("pants.jpg", domain.BasePants, nil),
		},
	}

	run := func() map[domain.BaseCategory]string {
		uc := newTestWardrobeUC(&fakeWardrobeRepo{items: items}, &fakeCacheRepo{})
		res, err := uc.GenerateOutfit(context.Background(), &OutfitReq{UserID: "u1", Weather: domain.WeatherWarm})
		require.NoError(t, err)
		return res.Outfit
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)

	tops := map[string]bool{"shirt-a.jpg": true, "shirt-b.jpg": true, "shirt-c.jpg": true}
	assert.True(t, tops[first[domain.BaseTop]])
}

// fakeTx перехватывает только исходы транзакции, остальные методы
// pgx.Tx в этих сценариях не вызываются.
type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
}

func (f *fakeTx) Commit(_ context.Context) error   { f.commits++; return nil }
func (f *fakeTx) Rollback(_ context.Context) error { f.rollbacks++; return nil }

type fakeTxStarter struct {
	txs []*fakeTx
}

func (f *fakeTxStarter) BeginTx(_ context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	tx := &fakeTx{}
	f.txs = append(f.txs, tx)
	return tx, nil
}

type fakeImagesInfra struct {
	uploads int
	cleaned [][]string
}

func (f *fakeImagesInfra) UploadImage(_ context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	f.uploads++
	return NewUploadImageRes(fmt.Sprintf("%s/%s", req.UserID, req.ItemName)), nil
}

func (f *fakeImagesInfra) CleanupImages(keys []string) {
	f.cleaned = append(f.cleaned, keys)
}

func (f *fakeImagesInfra) WaitForCleanup(_ context.Context) error { return nil }

type fakeColorExtractor struct {
	colors []domain.RGB
}

func (f *fakeColorExtractor) ExtractColors(_ []byte) ([]domain.RGB, error) {
	return f.colors, nil
}

type fakeOutboxRepo struct {
	created []*OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.created = append(f.created, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, _ int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(_ context.Context, _ int64) error { return nil }

// Повторная загрузка вещи с тем же именем заменяет категорию, цвета
// и вектор, второй записи не появляется.
func TestAddItem_SecondUploadReplacesMetadata(t *testing.T) {
	repo := &fakeWardrobeRepo{}
	outbox := &fakeOutboxRepo{}
	txStarter := &fakeTxStarter{}
	images := &fakeImagesInfra{}
	inference := &fakeInference{
		vector:     []float32{1, 0},
		categories: []domain.BaseCategory{domain.BaseTop, domain.BasePants},
	}
	colors := &fakeColorExtractor{colors: []domain.RGB{{R: 200, G: 40, B: 40}}}

	uc := NewWardrobeUC(
		repo, outbox, &fakeCacheRepo{}, txStarter, inference, images, colors,
		logger.NewSlogLogger(),
		rand.New(rand.NewSource(1)),
	)

	req := &AddItemReq{
		UserID:   "u1",
		ItemName: "favorite.jpg",
		Image:    WardrobeImage{Data: []byte{1}, MimeType: "image/jpeg"},
	}

	first, err := uc.AddItem(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.BaseTop, first.Category)

	inference.vector = []float32{0, 1}
	colors.colors = []domain.RGB{{R: 20, G: 20, B: 230}}

	second, err := uc.AddItem(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.BasePants, second.Category)

	require.Len(t, repo.items["u1"], 1)
	stored := repo.items["u1"][0]
	assert.Equal(t, "favorite.jpg", stored.ItemName)
	assert.Equal(t, domain.BasePants, stored.Category)
	assert.Equal(t, []float32{0, 1}, stored.Embedding)
	assert.Equal(t, []domain.RGB{{R: 20, G: 20, B: 230}}, stored.Colors)

	// Оба вызова закоммичены, событие создано на каждый, чистка не нужна
	require.Len(t, txStarter.txs, 2)
	assert.Equal(t, 1, txStarter.txs[0].commits)
	assert.Equal(t, 1, txStarter.txs[1].commits)
	assert.Len(t, outbox.created, 2)
	assert.Empty(t, images.cleaned)
}

func TestAddItem_Validation(t *testing.T) {
	uc := newTestWardrobeUC(&fakeWardrobeRepo{}, &fakeCacheRepo{})

	tests := []struct {
		name string
		req  *AddItemReq
		want error
	}{
		{"missing user id", &AddItemReq{ItemName: "x", Image: WardrobeImage{Data: []byte{1}}}, e.ErrMissingUserID},
		{"missing item name", &AddItemReq{UserID: "u1", Image: WardrobeImage{Data: []byte{1}}}, e.ErrMissingItemName},
		{"missing image", &AddItemReq{UserID: "u1", ItemName: "x"}, e.ErrNoImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.AddItem(context.Background(), tt.req)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestRetrieveUserCIR_Validation(t *testing.T) {
	uc := newTestWardrobeUC(&fakeWardrobeRepo{}, &fakeCacheRepo{})

	_, err := uc.RetrieveUserCIR(context.Background(), &UserCirReq{ItemName: "x"})
	assert.True(t, errors.Is(err, e.ErrMissingUserID))

	_, err = uc.RetrieveUserCIR(context.Background(), &UserCirReq{UserID: "u1"})
	assert.True(t, errors.Is(err, e.ErrMissingItemName))
}
