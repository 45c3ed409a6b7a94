package domain

// EmbeddingRecord — запись глобального embedding-индекса.
// Инвариант: Embedding нормализован к единичной длине при построении индекса.
type EmbeddingRecord struct {
	Path      string
	Embedding []float32
	Gender    Gender
	Category  Category
}

func NewEmbeddingRecord(path string, embedding []float32, gender Gender, category Category) *EmbeddingRecord {
	return &EmbeddingRecord{
		Path:      path,
		Embedding: embedding,
		Gender:    gender,
		Category:  category,
	}
}
