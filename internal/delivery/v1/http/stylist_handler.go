package http

import (
	"net/http"

	"github.com/shariq8055/ClosetCoach/internal/usecase"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
)

type StylistHandler struct {
	stylistUsecase usecase.StylistUC
	logger         logger.Logger
}

func NewStylistHandler(stylistUsecase usecase.StylistUC, logger logger.Logger) *StylistHandler {
	return &StylistHandler{stylistUsecase: stylistUsecase, logger: logger}
}

type stylistRequest struct {
	Gender   string `json:"gender"`
	Weather  string `json:"weather"`
	Mood     string `json:"mood"`
	Occasion string `json:"occasion"`
}

type stylistOutfitResponse struct {
	Top          string   `json:"top"`
	Bottom       string   `json:"bottom"`
	Layer        string   `json:"layer,omitempty"`
	Fabric       string   `json:"fabric"`
	ColorPalette []string `json:"colorPalette"`
	Trend        string   `json:"trend"`
}

type stylistResponse struct {
	Success   bool                  `json:"success"`
	Outfit    stylistOutfitResponse `json:"outfit"`
	Reasoning []string              `json:"reasoning"`
}

// recommend
//
//	@Summary		Текстовая рекомендация стилиста
//	@Description	Rule-engine стилиста: собирает текстовое описание образа по полу, погоде, настроению и поводу
//	@Tags			outfits
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stylistRequest	true	"Контекст запроса"
//	@Success		200		{object}	stylistResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/outfits [post]
func (h *StylistHandler) recommend(w http.ResponseWriter, r *http.Request) {
	var req stylistRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res := h.stylistUsecase.Recommend(&usecase.StylistReq{
		Gender:   req.Gender,
		Weather:  req.Weather,
		Mood:     req.Mood,
		Occasion: req.Occasion,
	})

	WriteSuccess(w, http.StatusOK, stylistResponse{
		Success: true,
		Outfit: stylistOutfitResponse{
			Top:          res.Outfit.Top,
			Bottom:       res.Outfit.Bottom,
			Layer:        res.Outfit.Layer,
			Fabric:       res.Outfit.Fabric,
			ColorPalette: res.Outfit.ColorPalette,
			Trend:        res.Outfit.Trend,
		},
		Reasoning: res.Reasoning,
	})
}
