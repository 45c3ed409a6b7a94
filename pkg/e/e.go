package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Фатальные ошибки конфигурации и индекса
	ErrIndexNotBuilt        = fmt.Errorf("embedding index file not found, run the indexer first")
	ErrDimensionMismatch    = fmt.Errorf("embedding dimension mismatch")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// Внутренние ошибки с векторами
	ErrEmptyVector  = fmt.Errorf("embedding vector is empty")
	ErrEmptyVectors = fmt.Errorf("empty vectors")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrNoImage              = fmt.Errorf("no image provided")
	ErrMissingItemName      = fmt.Errorf("no item name provided")
	ErrMissingUserID        = fmt.Errorf("no user id provided")
	ErrUnknownCategory      = fmt.Errorf("unknown garment category")
	ErrUnknownGender        = fmt.Errorf("unknown gender")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrFileTooLarge         = fmt.Errorf("file too large")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
