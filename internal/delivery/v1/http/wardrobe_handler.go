package http

import (
	"net/http"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/internal/usecase"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type WardrobeHandler struct {
	wardrobeUsecase usecase.WardrobeUC
	logger          logger.Logger
}

func NewWardrobeHandler(wardrobeUsecase usecase.WardrobeUC, logger logger.Logger) *WardrobeHandler {
	return &WardrobeHandler{wardrobeUsecase: wardrobeUsecase, logger: logger}
}

type addItemResponse struct {
	Success  bool         `json:"success"`
	ItemName string       `json:"itemName"`
	Category string       `json:"category"`
	Colors   []domain.RGB `json:"colors"`
}

// addItem
//
//	@Summary		Добавление вещи в гардероб
//	@Description	Классифицирует изображение, извлекает вектор и цвета, сохраняет вещь в гардеробе пользователя
//	@Tags			wardrobe
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			userID		path		string	true	"ID пользователя"
//	@Param			item_name	formData	string	true	"Имя вещи"
//	@Param			image		formData	file	true	"Изображение вещи"
//	@Success		201			{object}	addItemResponse
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/wardrobe/{userID}/items [post]
func (h *WardrobeHandler) addItem(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		WriteError(w, e.ErrMissingUserID)
		return
	}

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	itemName := r.FormValue("item_name")
	if itemName == "" {
		WriteError(w, e.ErrMissingItemName)
		return
	}

	image, err := parseImage(r.MultipartForm)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.wardrobeUsecase.AddItem(r.Context(), &usecase.AddItemReq{
		UserID:   userID,
		ItemName: itemName,
		Image:    *image,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, addItemResponse{
		Success:  true,
		ItemName: res.ItemName,
		Category: string(res.Category),
		Colors:   res.Colors,
	})
}

type userCirRequest struct {
	UserID   string `json:"userId"`
	ItemName string `json:"itemName"`
}

type userMatchResponse struct {
	ItemName string  `json:"itemName"`
	Score    float64 `json:"score"`
}

type userCirResponse struct {
	Success   bool               `json:"success"`
	Match     *userMatchResponse `json:"match"`
	Reasoning string             `json:"reasoning,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// retrieveUserCIR
//
//	@Summary		Подбор дополняющей вещи из гардероба
//	@Description	Возвращает наиболее визуально совместимую вещь недостающей категории из гардероба пользователя
//	@Tags			cir
//	@Accept			json
//	@Produce		json
//	@Param			request	body		userCirRequest	true	"Пользователь и имя вещи"
//	@Success		200		{object}	userCirResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/cir/user [post]
func (h *WardrobeHandler) retrieveUserCIR(w http.ResponseWriter, r *http.Request) {
	var req userCirRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.wardrobeUsecase.RetrieveUserCIR(r.Context(), &usecase.UserCirReq{
		UserID:   req.UserID,
		ItemName: req.ItemName,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	// Мягкий отказ — не ошибка HTTP: фронтенд показывает причину пользователю
	if res.Match == nil {
		WriteSuccess(w, http.StatusOK, userCirResponse{
			Success: false,
			Error:   res.Reason,
		})
		return
	}

	WriteSuccess(w, http.StatusOK, userCirResponse{
		Success: true,
		Match: &userMatchResponse{
			ItemName: res.Match.ItemName,
			Score:    res.Match.Score,
		},
		Reasoning: res.Reason,
	})
}

type userOutfitRequest struct {
	UserID  string `json:"userId"`
	Weather string `json:"weather"`
}

type userOutfitResponse struct {
	Success   bool              `json:"success"`
	Outfit    map[string]string `json:"outfit"`
	Reasoning []string          `json:"reasoning,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// generateOutfit
//
//	@Summary		Сборка образа из гардероба
//	@Description	Собирает полный образ из вещей пользователя: верх и низ, в холодную погоду куртка
//	@Tags			outfits
//	@Accept			json
//	@Produce		json
//	@Param			request	body		userOutfitRequest	true	"Пользователь и погода"
//	@Success		200		{object}	userOutfitResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/outfits/user [post]
func (h *WardrobeHandler) generateOutfit(w http.ResponseWriter, r *http.Request) {
	var req userOutfitRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.wardrobeUsecase.GenerateOutfit(r.Context(), &usecase.OutfitReq{
		UserID:  req.UserID,
		Weather: usecase.MapWeather(req.Weather),
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	if res.Empty {
		WriteSuccess(w, http.StatusOK, userOutfitResponse{
			Success: false,
			Outfit:  map[string]string{},
			Error:   res.Message,
		})
		return
	}

	outfit := make(map[string]string, len(res.Outfit))
	for category, itemName := range res.Outfit {
		outfit[string(category)] = itemName
	}

	WriteSuccess(w, http.StatusOK, userOutfitResponse{
		Success:   true,
		Outfit:    outfit,
		Reasoning: res.Reasoning,
	})
}
