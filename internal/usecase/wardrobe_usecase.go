package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/shariq8055/ClosetCoach/pkg/vec"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WardrobeUseCase реализует операции над персональным гардеробом:
// добавление вещи с анализом изображения, подбор дополняющей вещи
// и сборку полного образа.
type WardrobeUseCase struct {
	wardrobeRepo WardrobeRepository
	outboxRepo   OutboxRepository
	cacheRepo    CacheRepository
	dbPool       transaction.Transactional
	inference    InferenceInfra
	imagesInfra  ImagesInfra
	colors       ColorExtractor
	logger       logger.Logger

	// userLocks сериализует AddItem в пределах одного пользователя:
	// повторная загрузка вещи с тем же именем перезаписывает запись целиком.
	userLocks sync.Map

	// rng инжектируется, чтобы выбор вещей в образ был воспроизводим в тестах.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewWardrobeUC(
	wardrobeRepo WardrobeRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	dbPool transaction.Transactional,
	inference InferenceInfra,
	imagesInfra ImagesInfra,
	colors ColorExtractor,
	logger logger.Logger,
	rng *rand.Rand,
) *WardrobeUseCase {
	return &WardrobeUseCase{
		wardrobeRepo: wardrobeRepo,
		outboxRepo:   outboxRepo,
		cacheRepo:    cacheRepo,
		dbPool:       dbPool,
		inference:    inference,
		imagesInfra:  imagesInfra,
		colors:       colors,
		logger:       logger,
		rng:          rng,
	}
}

// AddItem анализирует изображение вещи (категория, вектор, цвета),
// загружает его в объектное хранилище и сохраняет вещь одной записью
// по ключу (user_id, item_name). Повторное имя перезаписывает вещь.
func (u *WardrobeUseCase) AddItem(ctx context.Context, req *AddItemReq) (*AddItemRes, error) {
	const op = "WardrobeUseCase.AddItem"

	var err error
	err = u.validateAddItem(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	mu := u.userLock(req.UserID)
	mu.Lock()
	defer mu.Unlock()

	// Анализ изображения выполняется до открытия транзакции:
	// inference может занимать секунды, держать соединение незачем.
	clsRes, err := u.inference.Classify(ctx, req.Image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !domain.ValidBaseCategory(clsRes.Category) {
		return nil, e.Wrap(op, fmt.Errorf("classifier returned %q: %w", clsRes.Category, e.ErrUnknownCategory))
	}

	embedding, err := u.vectorizeOne(ctx, req.Image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	itemColors, err := u.colors.ExtractColors(req.Image.Data)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imageRes *UploadImageRes
		uploaded bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// При ошибке откатывается транзакция и удаляется загруженное изображение
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded && imageRes != nil {
				u.logger.Warnf(
					"Cleaning up orphaned image after transaction failure. user_id: %s, item_name: %s, error: %v",
					req.UserID,
					req.ItemName,
					e.Wrap(op, err),
				)

				u.imagesInfra.CleanupImages([]string{imageRes.ObjectKey})
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	imageRes, err = u.imagesInfra.UploadImage(ctx, NewUploadImageReq(req.UserID, req.ItemName, req.Image))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	uploaded = true

	item := domain.NewWardrobeItem(req.ItemName, clsRes.Category, itemColors, embedding)
	err = u.wardrobeRepo.UpsertItem(ctx, req.UserID, item)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = u.createOutboxEvent(ctx, req.UserID, item)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Инвалидация кэша после коммита. Ошибка кэша не откатывает запись:
	// TTL выправит рассинхронизацию.
	err = u.cacheRepo.DeleteWardrobe(ctx, req.UserID)
	if err != nil {
		u.logger.Warnf("Failed to invalidate wardrobe cache. user_id: %s, error: %v", req.UserID, err)
		err = nil
	}

	return &AddItemRes{
		ItemName: item.ItemName,
		Category: item.Category,
		Colors:   item.Colors,
	}, nil
}

// RetrieveUserCIR подбирает наиболее совместимую дополняющую вещь
// строго из гардероба пользователя. Все отказы мягкие: Match == nil
// и причина в Reason.
func (u *WardrobeUseCase) RetrieveUserCIR(ctx context.Context, req *UserCirReq) (*UserCirRes, error) {
	const op = "WardrobeUseCase.RetrieveUserCIR"

	if req.UserID == "" {
		return nil, e.Wrap(op, e.ErrMissingUserID)
	}
	if req.ItemName == "" {
		return nil, e.Wrap(op, e.ErrMissingItemName)
	}

	items, err := u.loadWardrobe(ctx, req.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var given *domain.WardrobeItem
	for i := range items {
		if items[i].ItemName == req.ItemName {
			given = &items[i]
			break
		}
	}
	if given == nil {
		return &UserCirRes{Reason: "Item not found in user wardrobe"}, nil
	}

	missing, ok := domain.ComplementaryCategory(given.Category)
	if !ok {
		return &UserCirRes{Reason: "No completion rule for this category"}, nil
	}

	// Нормализация на стороне сравнения: гардероб не гарантирует
	// единичную длину векторов.
	query := vec.Normalize(given.Embedding)

	var (
		best      *domain.WardrobeItem
		bestScore = -1.0
		found     bool
	)
	for i := range items {
		if items[i].Category != missing {
			continue
		}
		found = true

		// Строгое "больше": при равных оценках побеждает более ранняя вещь.
		score := vec.Cosine(query, items[i].Embedding)
		if score > bestScore {
			bestScore = score
			best = &items[i]
		}
	}

	if !found {
		return &UserCirRes{Reason: "No suitable item in wardrobe"}, nil
	}

	return &UserCirRes{
		Match: &UserMatch{
			ItemName: best.ItemName,
			Score:    bestScore,
		},
		Reason: fmt.Sprintf("Matched based on visual compatibility (cosine similarity = %.2f)", bestScore),
	}, nil
}

// GenerateOutfit собирает образ из гардероба: верх и низ обязательны,
// в холодную погоду добавляется куртка. Внутри категории вещь
// выбирается случайно. Недостающие категории пропускаются.
func (u *WardrobeUseCase) GenerateOutfit(ctx context.Context, req *OutfitReq) (*OutfitRes, error) {
	const op = "WardrobeUseCase.GenerateOutfit"

	if req.UserID == "" {
		return nil, e.Wrap(op, e.ErrMissingUserID)
	}

	items, err := u.loadWardrobe(ctx, req.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(items) == 0 {
		return &OutfitRes{
			Outfit:  map[domain.BaseCategory]string{},
			Empty:   true,
			Message: "Your wardrobe is empty. Please upload some clothes first.",
		}, nil
	}

	required := []domain.BaseCategory{domain.BaseTop, domain.BasePants}
	if req.Weather == domain.WeatherCold {
		required = append(required, domain.BaseJacket)
	}

	byCategory := make(map[domain.BaseCategory][]string)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item.ItemName)
	}

	outfit := make(map[domain.BaseCategory]string)
	var selected []string
	for _, cat := range required {
		candidates := byCategory[cat]
		if len(candidates) == 0 {
			continue
		}

		name := u.pick(candidates)
		outfit[cat] = name
		selected = append(selected, name)
	}

	if len(outfit) == 0 {
		return &OutfitRes{
			Outfit:  map[domain.BaseCategory]string{},
			Empty:   true,
			Message: "Your wardrobe doesn't have the required items (top, pants). Please upload more clothes.",
		}, nil
	}

	return &OutfitRes{
		Outfit: outfit,
		Reasoning: []string{
			"Generated from your personal wardrobe",
			fmt.Sprintf("Optimized for %s weather", req.Weather),
			fmt.Sprintf("Selected items: %s", strings.Join(selected, ", ")),
		},
	}, nil
}

// loadWardrobe читает гардероб через кэш. Ошибки Redis деградируют
// до чтения из базы, промах заполняет кэш.
func (u *WardrobeUseCase) loadWardrobe(ctx context.Context, userID string) ([]domain.WardrobeItem, error) {
	const op = "WardrobeUseCase.loadWardrobe"

	items, hit, err := u.cacheRepo.GetWardrobe(ctx, userID)
	if err != nil {
		u.logger.Warnf("Failed to read wardrobe cache. user_id: %s, error: %v", userID, err)
	}
	if err == nil && hit {
		return items, nil
	}

	items, err = u.wardrobeRepo.GetItems(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = u.cacheRepo.SetWardrobe(ctx, userID, items)
	if err != nil {
		u.logger.Warnf("Failed to fill wardrobe cache. user_id: %s, error: %v", userID, err)
	}

	return items, nil
}

func (u *WardrobeUseCase) createOutboxEvent(ctx context.Context, userID string, item *domain.WardrobeItem) error {
	const op = "WardrobeUseCase.createOutboxEvent"

	event := WardrobeItemAddedEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		ItemName:   item.ItemName,
		Category:   item.Category,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return e.Wrap(op, err)
	}

	_, err = u.outboxRepo.Create(ctx, NewOutboxEvent(event.EventID, WardrobeItemAdded, userID, payload))
	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (u *WardrobeUseCase) validateAddItem(req *AddItemReq) error {
	if req.UserID == "" {
		return e.ErrMissingUserID
	}

	if req.ItemName == "" {
		return e.ErrMissingItemName
	}

	if len(req.Image.Data) == 0 {
		return e.ErrNoImage
	}

	return nil
}

func (u *WardrobeUseCase) vectorizeOne(ctx context.Context, image WardrobeImage) ([]float32, error) {
	const op = "WardrobeUseCase.vectorizeOne"

	vectors, err := u.inference.Vectorize(ctx, NewVectorizeReq([]WardrobeImage{image}))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(vectors) == 0 || len(vectors[0].Vector) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyVectors)
	}

	return vectors[0].Vector, nil
}

func (u *WardrobeUseCase) userLock(userID string) *sync.Mutex {
	mu, _ := u.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (u *WardrobeUseCase) pick(candidates []string) string {
	u.rngMu.Lock()
	defer u.rngMu.Unlock()

	return candidates[u.rng.Intn(len(candidates))]
}
