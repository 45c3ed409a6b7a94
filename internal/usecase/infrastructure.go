package usecase

import (
	"context"

	"github.com/shariq8055/ClosetCoach/internal/domain"
)

// InferenceInfra — клиент inference-сервиса с моделями.
// Vectorize и Classify — единственный контракт с ML-слоем:
// обе функции принимают сырые байты изображения, препроцессинг
// (resize 224x224, RGB, [0,1]) выполняется на стороне сервиса
// одинаково для построения индекса и для запросов.
type InferenceInfra interface {
	Vectorize(ctx context.Context, req *VectorizeReq) ([]VectorizeRes, error)
	Classify(ctx context.Context, image WardrobeImage) (*ClassifyRes, error)
}

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
	CleanupImages(keys []string)
	WaitForCleanup(ctx context.Context) error
}

// ColorExtractor выделяет доминантные цвета вещи.
type ColorExtractor interface {
	ExtractColors(imageData []byte) ([]domain.RGB, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
