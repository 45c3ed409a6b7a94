package usecase

import (
	"time"

	"github.com/shariq8055/ClosetCoach/internal/domain"
)

// CIR USECASE

// CirReq — запрос на подбор дополняющей вещи по глобальному индексу.
type CirReq struct {
	QueryEmbedding []float32
	Category       domain.BaseCategory
	Gender         domain.Gender
	Weather        domain.Weather
	Mood           domain.Mood
	Occasion       domain.Occasion
	TopK           int
}

// Recommendation — одна подобранная вещь с оценкой визуальной совместимости.
type Recommendation struct {
	Path  string
	Score float64
}

// CirRes — результат подбора. Слоты: "Top", "Bottom", "Layer".
// Пустой результат — не ошибка: NoMatch и Message объясняют причину.
type CirRes struct {
	Recommendations map[string][]Recommendation
	Reasoning       []string
	NoMatch         bool
	Message         string
}

// WARDROBE USECASE

// WardrobeImage представляет изображение, загруженное через multipart/form-data.
type WardrobeImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла
}

// AddItemReq — запрос на добавление вещи в гардероб пользователя.
type AddItemReq struct {
	UserID   string
	ItemName string
	Image    WardrobeImage
}

// AddItemRes — результат анализа и сохранения вещи.
type AddItemRes struct {
	ItemName string
	Category domain.BaseCategory
	Colors   []domain.RGB
}

// UserCirReq — запрос на подбор дополняющей вещи из гардероба пользователя.
type UserCirReq struct {
	UserID   string
	ItemName string
}

// UserMatch — найденная вещь гардероба.
type UserMatch struct {
	ItemName string
	Score    float64
}

// UserCirRes — результат подбора по гардеробу.
// Match == nil означает мягкий отказ, Reason объясняет его пользователю.
type UserCirRes struct {
	Match  *UserMatch
	Reason string
}

// OutfitReq — запрос на сборку полного образа из гардероба.
type OutfitReq struct {
	UserID  string
	Weather domain.Weather
}

// OutfitRes — собранный образ: категория -> имя вещи.
type OutfitRes struct {
	Outfit    map[domain.BaseCategory]string
	Reasoning []string
	Empty     bool
	Message   string
}

// STYLIST USECASE

// StylistReq — контекст для текстового rule-engine стилиста.
// Значения принимаются в терминах фронтенда и нормализуются внутри.
type StylistReq struct {
	Gender   string
	Weather  string
	Mood     string
	Occasion string
}

// StylistOutfit — текстовое описание образа.
type StylistOutfit struct {
	Top          string
	Bottom       string
	Layer        string // пустая строка, если слой не нужен
	Fabric       string
	ColorPalette []string
	Trend        string
}

// StylistRes — результат работы rule-engine.
type StylistRes struct {
	Outfit    StylistOutfit
	Reasoning []string
}

// INFRASTRUCTURE

// VectorizeReq — запрос на векторизацию изображений.
type VectorizeReq struct {
	Images []WardrobeImage
}

// VectorizeRes — результат векторизации одного изображения.
type VectorizeRes struct {
	Vector       []float32
	ModelVersion string
}

// ClassifyRes — результат классификации одного изображения.
type ClassifyRes struct {
	Category domain.BaseCategory
}

// UploadImageReq — запрос на загрузку изображения вещи в объектное хранилище.
type UploadImageReq struct {
	UserID   string
	ItemName string
	Image    WardrobeImage
}

// UploadImageRes — результат загрузки (ключ объекта).
type UploadImageRes struct {
	ObjectKey string
}

type WriteRawMessageReq struct {
	UserID  string
	Payload []byte
}

// WardrobeItemAddedEvent — полезная нагрузка события изменения гардероба.
type WardrobeItemAddedEvent struct {
	EventID    string              `json:"event_id"`
	UserID     string              `json:"user_id"`
	ItemName   string              `json:"item_name"`
	Category   domain.BaseCategory `json:"category"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// MAPPERS

func NewCirReq(embedding []float32, category domain.BaseCategory, gender domain.Gender,
	weather domain.Weather, mood domain.Mood, occasion domain.Occasion, topK int) *CirReq {
	return &CirReq{
		QueryEmbedding: embedding,
		Category:       category,
		Gender:         gender,
		Weather:        weather,
		Mood:           mood,
		Occasion:       occasion,
		TopK:           topK,
	}
}

func NewWardrobeImage(data []byte, mimeType string, size int64, name string) *WardrobeImage {
	return &WardrobeImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewVectorizeReq(images []WardrobeImage) *VectorizeReq {
	return &VectorizeReq{Images: images}
}

func NewVectorizeRes(vector []float32, modelVersion string) *VectorizeRes {
	return &VectorizeRes{
		Vector:       vector,
		ModelVersion: modelVersion,
	}
}

func NewUploadImageReq(userID string, itemName string, image WardrobeImage) *UploadImageReq {
	return &UploadImageReq{
		UserID:   userID,
		ItemName: itemName,
		Image:    image,
	}
}

func NewUploadImageRes(objectKey string) *UploadImageRes {
	return &UploadImageRes{ObjectKey: objectKey}
}

func NewWriteRawMessageReq(userID string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		UserID:  userID,
		Payload: payload,
	}
}
