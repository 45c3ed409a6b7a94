package usecase

import "time"

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	WardrobeItemAdded OutboxEventType = "wardrobe_item_added"
)

// OutboxEvent — событие изменения гардероба, ожидающее отправки в Kafka.
// Создаётся в одной транзакции с изменением данных (outbox pattern).
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	UserID      string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, userID string, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		UserID:    userID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}
}
