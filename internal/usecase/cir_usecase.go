package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/shariq8055/ClosetCoach/pkg/vec"
)

const defaultTopK = 1

// Слоты результата в терминах фронтенда.
const (
	slotTop    = "Top"
	slotBottom = "Bottom"
	slotLayer  = "Layer"
)

// CirUseCase реализует подбор дополняющей вещи по глобальному индексу
// (Composed Image Retrieval) с учётом формальности и погоды.
type CirUseCase struct {
	indexRepo IndexRepository
	logger    logger.Logger
}

func NewCirUC(indexRepo IndexRepository, logger logger.Logger) *CirUseCase {
	return &CirUseCase{
		indexRepo: indexRepo,
		logger:    logger,
	}
}

// RetrieveComplementary подбирает вещи, дополняющие загруженную.
// Правило дополнения выбирает недостающую категорию, повод уточняет
// формальность верха, холодная погода добавляет слой независимо от
// основного совпадения. Пустой результат — мягкий отказ, не ошибка.
func (c *CirUseCase) RetrieveComplementary(ctx context.Context, req *CirReq) (*CirRes, error) {
	const op = "CirUseCase.RetrieveComplementary"

	err := c.validate(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	// Запрос нормализуется всегда: индекс хранит единичные векторы,
	// но вход может прийти ненормализованным.
	query := vec.Normalize(req.QueryEmbedding)

	missing, ok := domain.ComplementaryCategory(req.Category)
	if !ok {
		return &CirRes{
			Recommendations: map[string][]Recommendation{},
			NoMatch:         true,
			Message:         "No completion rule for this category",
		}, nil
	}

	res := &CirRes{
		Recommendations: make(map[string][]Recommendation),
	}

	target := domain.ResolveFormality(missing, req.Occasion)

	primary, err := c.retrieveSimilar(ctx, query, req.Gender, target, topK)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(primary) > 0 {
		res.Recommendations[slotFor(missing)] = primary
		res.Reasoning = append(res.Reasoning, completionReason(missing))
	}

	// Слой добавляется к основной рекомендации, не вместо неё.
	// Если куртка уже подобрана правилом дополнения, второй раз не ищем.
	if req.Weather == domain.WeatherCold && missing != domain.BaseJacket {
		layer, err := c.retrieveSimilar(ctx, query, req.Gender, domain.CategoryJacket, topK)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		if len(layer) > 0 {
			res.Recommendations[slotLayer] = layer
			res.Reasoning = append(res.Reasoning, "Layer added due to cold weather")
		}
	}

	if len(res.Recommendations) == 0 {
		c.logger.Infof(
			"CIR found no candidates. gender: %s, category: %s, target: %s",
			req.Gender, req.Category, target,
		)

		res.NoMatch = true
		res.Message = "No matching items found in the catalog"
		return res, nil
	}

	res.Reasoning = append(res.Reasoning,
		fmt.Sprintf("Styled specifically for %s occasion", req.Occasion),
		fmt.Sprintf("Color harmony aligned with %s mood", req.Mood),
	)

	return res, nil
}

// retrieveSimilar ранжирует кандидатов строгой категории по косинусной
// близости. Сортировка стабильная: при равных оценках сохраняется
// порядок записей индекса.
func (c *CirUseCase) retrieveSimilar(
	ctx context.Context,
	query []float32,
	gender domain.Gender,
	category domain.Category,
	topK int,
) ([]Recommendation, error) {
	const op = "CirUseCase.retrieveSimilar"

	records, err := c.indexRepo.Query(ctx, gender, category)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	scored := make([]Recommendation, 0, len(records))
	for _, rec := range records {
		if len(rec.Embedding) != len(query) {
			return nil, e.Wrap(op, fmt.Errorf(
				"record %q has %d dimensions, query has %d: %w",
				rec.Path, len(rec.Embedding), len(query), e.ErrDimensionMismatch,
			))
		}

		scored = append(scored, Recommendation{
			Path:  rec.Path,
			Score: vec.Cosine(query, rec.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	return scored, nil
}

func (c *CirUseCase) validate(req *CirReq) error {
	if len(req.QueryEmbedding) == 0 {
		return e.ErrEmptyVector
	}

	if !domain.ValidGender(req.Gender) {
		return e.ErrUnknownGender
	}

	if !domain.ValidBaseCategory(req.Category) {
		return e.ErrUnknownCategory
	}

	return nil
}

func slotFor(missing domain.BaseCategory) string {
	switch missing {
	case domain.BaseTop:
		return slotTop
	case domain.BasePants:
		return slotBottom
	default:
		return slotLayer
	}
}

func completionReason(missing domain.BaseCategory) string {
	switch missing {
	case domain.BaseTop:
		return "Selected appropriate top based on occasion"
	case domain.BasePants:
		return "Added bottom to balance outfit"
	default:
		return "Added a jacket to layer over the dress"
	}
}
