package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/internal/usecase"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/jimlawless/whereami"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrNoImage):
		return http.StatusBadRequest, e.ErrNoImage.Error()
	case errors.Is(err, e.ErrMissingItemName):
		return http.StatusBadRequest, e.ErrMissingItemName.Error()
	case errors.Is(err, e.ErrMissingUserID):
		return http.StatusBadRequest, e.ErrMissingUserID.Error()
	case errors.Is(err, e.ErrUnknownCategory):
		return http.StatusBadRequest, e.ErrUnknownCategory.Error()
	case errors.Is(err, e.ErrUnknownGender):
		return http.StatusBadRequest, e.ErrUnknownGender.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}
	return nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// CirFormMetadata — форма запроса подбора по глобальному индексу.
type CirFormMetadata struct {
	Category domain.BaseCategory
	Gender   domain.Gender
	Weather  domain.Weather
	Mood     domain.Mood
	Occasion domain.Occasion
}

func parseCirForm(r *http.Request) (*CirFormMetadata, error) {
	category := strings.ToLower(r.FormValue("category"))
	gender := strings.ToLower(r.FormValue("gender"))

	if category == "" || gender == "" {
		return nil, e.Wrap(fmt.Sprintf("category: %s, gender: %s", category, gender), e.ErrMissingFields)
	}

	if !domain.ValidBaseCategory(domain.BaseCategory(category)) {
		return nil, e.Wrap(category, e.ErrUnknownCategory)
	}
	if !domain.ValidGender(domain.Gender(gender)) {
		return nil, e.Wrap(gender, e.ErrUnknownGender)
	}

	return &CirFormMetadata{
		Category: domain.BaseCategory(category),
		Gender:   domain.Gender(gender),
		Weather:  usecase.MapWeather(r.FormValue("weather")),
		Mood:     usecase.MapMood(r.FormValue("mood")),
		Occasion: usecase.MapOccasion(r.FormValue("occasion")),
	}, nil
}

func parseImage(form *multipart.Form) (*usecase.WardrobeImage, error) {
	const maxFileSize = 15 << 20

	files := form.File["image"]
	if len(files) == 0 {
		return nil, e.ErrNoImage
	}

	fh := files[0]
	data, mimeType, err := readFile(fh, maxFileSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewWardrobeImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
