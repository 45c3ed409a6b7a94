package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/shariq8055/ClosetCoach/internal/cfg"
	"github.com/shariq8055/ClosetCoach/internal/domain"
	"github.com/shariq8055/ClosetCoach/internal/usecase"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/jitter"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
)

const (
	embedPath    = "/v1/embed"
	classifyPath = "/v1/classify"
)

// Client — HTTP-клиент inference-сервиса с моделями (embedding + классификатор).
// Препроцессинг изображений (resize, RGB, [0,1]) выполняется на стороне
// сервиса одинаково для построения индекса и запросов.
type Client struct {
	httpClient    *http.Client
	addr          string
	maxConcurrent int
	maxRetries    int
	logger        logger.Logger
}

func NewClient(cfg *cfg.InferenceCfg, logger logger.Logger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		addr:          cfg.Addr,
		maxConcurrent: cfg.MaxConcurrent,
		maxRetries:    cfg.MaxRetries,
		logger:        logger,
	}
}

type embedRequest struct {
	ImageData []byte `json:"image_data"`
	MimeType  string `json:"mime_type"`
}

type embedResponse struct {
	Vector       []float32 `json:"vector"`
	ModelVersion string    `json:"model_version"`
}

type classifyRequest struct {
	ImageData []byte `json:"image_data"`
	MimeType  string `json:"mime_type"`
}

type classifyResponse struct {
	Category string `json:"category"`
}

// Vectorize выполняет векторизацию изображений с retry-логикой и экспоненциальной задержкой
func (c *Client) Vectorize(ctx context.Context, req *usecase.VectorizeReq) ([]usecase.VectorizeRes, error) {
	const (
		op         = "inference.Client.Vectorize"
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		vectors, err := c.vectorizeBatch(ctx, req)
		if err == nil {
			return vectors, nil
		}

		if attempt == c.maxRetries-1 {
			return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", c.maxRetries, err))
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		c.logger.Warnf("vectorization failed, retrying in %v (attempt %d)", sleepTime, attempt+1)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("unreachable"))
}

// vectorizeBatch отправляет батч изображений на векторизацию параллельно с ограничением конкурентности
func (c *Client) vectorizeBatch(ctx context.Context, req *usecase.VectorizeReq) ([]usecase.VectorizeRes, error) {
	const op = "inference.Client.vectorizeBatch"

	vectorCh := make(chan usecase.VectorizeRes, len(req.Images))
	errCh := make(chan error, len(req.Images))
	sem := make(chan struct{}, c.maxConcurrent)

	var wg sync.WaitGroup
	for _, image := range req.Images {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			var res embedResponse
			err := c.post(ctx, embedPath, embedRequest{
				ImageData: image.Data,
				MimeType:  image.MimeType,
			}, &res)
			if err != nil {
				errCh <- err
				return
			}

			vectorCh <- *usecase.NewVectorizeRes(res.Vector, res.ModelVersion)
		}()
	}

	go func() {
		wg.Wait()
		close(errCh)
		close(vectorCh)
	}()

	vectors := make([]usecase.VectorizeRes, 0, len(req.Images))
	for completed := 0; completed < len(req.Images); {
		select {
		case vector, ok := <-vectorCh:
			if ok {
				vectors = append(vectors, vector)
				completed++
			}
		case err, ok := <-errCh:
			if ok {
				return nil, e.Wrap(op, err)
			}
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return vectors, nil
}

// Classify определяет категорию вещи по изображению.
func (c *Client) Classify(ctx context.Context, image usecase.WardrobeImage) (*usecase.ClassifyRes, error) {
	const op = "inference.Client.Classify"

	var res classifyResponse
	err := c.post(ctx, classifyPath, classifyRequest{
		ImageData: image.Data,
		MimeType:  image.MimeType,
	}, &res)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &usecase.ClassifyRes{Category: domain.BaseCategory(res.Category)}, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody any, resBody any) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpRes, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer httpRes.Body.Close()

	if httpRes.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpRes.Body, 1024))
		return fmt.Errorf("request %s failed with status %d: %s", path, httpRes.StatusCode, body)
	}

	if err := json.NewDecoder(httpRes.Body).Decode(resBody); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
