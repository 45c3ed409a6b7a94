package http

import (
	"net/http"
	"strconv"

	"github.com/shariq8055/ClosetCoach/internal/usecase"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
)

type CirHandler struct {
	cirUsecase usecase.CirUC
	inference  usecase.InferenceInfra
	logger     logger.Logger
}

func NewCirHandler(cirUsecase usecase.CirUC, inference usecase.InferenceInfra, logger logger.Logger) *CirHandler {
	return &CirHandler{cirUsecase: cirUsecase, inference: inference, logger: logger}
}

type recommendationResponse struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

type cirResponse struct {
	Success         bool                                `json:"success"`
	Recommendations map[string][]recommendationResponse `json:"recommendations,omitempty"`
	Reasoning       []string                            `json:"reasoning,omitempty"`
	Error           string                              `json:"error,omitempty"`
}

// retrieveComplementary
//
//	@Summary		Подбор дополняющей вещи по каталогу
//	@Description	Векторизует загруженное изображение и возвращает визуально совместимые вещи недостающей категории
//	@Tags			cir
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image		formData	file	true	"Изображение вещи"
//	@Param			category	formData	string	true	"Категория загруженной вещи"
//	@Param			gender		formData	string	true	"Пол (men/women)"
//	@Param			weather		formData	string	false	"Погода"
//	@Param			mood		formData	string	false	"Настроение"
//	@Param			occasion	formData	string	false	"Повод"
//	@Param			top_k		formData	integer	false	"Сколько кандидатов вернуть на слот"
//	@Success		200			{object}	cirResponse
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/cir [post]
func (h *CirHandler) retrieveComplementary(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	meta, err := parseCirForm(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	image, err := parseImage(r.MultipartForm)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	topK, _ := strconv.Atoi(r.FormValue("top_k"))

	vectors, err := h.inference.Vectorize(r.Context(), usecase.NewVectorizeReq([]usecase.WardrobeImage{*image}))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}
	if len(vectors) == 0 {
		WriteError(w, e.ErrInternalServerError)
		return
	}

	res, err := h.cirUsecase.RetrieveComplementary(r.Context(), usecase.NewCirReq(
		vectors[0].Vector, meta.Category, meta.Gender, meta.Weather, meta.Mood, meta.Occasion, topK,
	))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	if res.NoMatch {
		WriteSuccess(w, http.StatusOK, cirResponse{
			Success: false,
			Error:   res.Message,
		})
		return
	}

	recommendations := make(map[string][]recommendationResponse, len(res.Recommendations))
	for slot, recs := range res.Recommendations {
		out := make([]recommendationResponse, 0, len(recs))
		for _, rec := range recs {
			out = append(out, recommendationResponse{Path: rec.Path, Score: rec.Score})
		}
		recommendations[slot] = out
	}

	WriteSuccess(w, http.StatusOK, cirResponse{
		Success:         true,
		Recommendations: recommendations,
		Reasoning:       res.Reasoning,
	})
}
