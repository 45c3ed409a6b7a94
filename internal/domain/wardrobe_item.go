package domain

// RGB — доминантный цвет вещи (центр кластера).
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// WardrobeItem — вещь из персонального гардероба пользователя.
// Категория, цвета и вектор хранятся одной записью по ключу ItemName,
// рассинхронизация метаданных и векторов исключена по построению.
type WardrobeItem struct {
	ItemName  string
	Category  BaseCategory
	Colors    []RGB
	Embedding []float32 // не обязан быть нормализованным, сравнение нормализует
}

func NewWardrobeItem(itemName string, category BaseCategory, colors []RGB, embedding []float32) *WardrobeItem {
	return &WardrobeItem{
		ItemName:  itemName,
		Category:  category,
		Colors:    colors,
		Embedding: embedding,
	}
}
