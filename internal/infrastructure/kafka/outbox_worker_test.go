package kafka

import (
	"context"
	"fmt"
	"testing"

	"github.com/shariq8055/ClosetCoach/internal/usecase"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutboxRepo struct {
	batches   [][]*usecase.OutboxEvent
	processed []int64
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, _ int) ([]*usecase.OutboxEvent, error) {
	if len(f.batches) == 0 {
		return nil, nil
	}

	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	f.processed = append(f.processed, id)
	return nil
}

type fakeProducer struct {
	written   []*usecase.WriteRawMessageReq
	errByUser map[string]error
}

func (f *fakeProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	if err, ok := f.errByUser[req.UserID]; ok {
		return err
	}

	f.written = append(f.written, req)
	return nil
}

func event(id int64, userID string) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:      id,
		EventID: fmt.Sprintf("event-%d", id),
		UserID:  userID,
		Payload: []byte(`{}`),
	}
}

func TestOutboxWorker_DrainsAllBatches(t *testing.T) {
	repo := &fakeOutboxRepo{batches: [][]*usecase.OutboxEvent{
		{event(1, "u1"), event(2, "u2")},
		{event(3, "u1")},
	}}
	producer := &fakeProducer{}

	w := NewOutboxWorker(repo, logger.NewSlogLogger(), producer, "")
	w.drainOutbox(context.Background())

	require.Len(t, producer.written, 3)
	assert.Equal(t, []int64{1, 2, 3}, repo.processed)
	assert.Empty(t, repo.batches)
}

// Недоставленное событие не помечается обработанным, остальные из пачки
// доставляются.
func TestOutboxWorker_FailedEventStaysUnprocessed(t *testing.T) {
	repo := &fakeOutboxRepo{batches: [][]*usecase.OutboxEvent{
		{event(1, "broken"), event(2, "u2")},
	}}
	producer := &fakeProducer{
		errByUser: map[string]error{"broken": fmt.Errorf("connection refused")},
	}

	w := NewOutboxWorker(repo, logger.NewSlogLogger(), producer, "")
	w.drainOutbox(context.Background())

	require.Len(t, producer.written, 1)
	assert.Equal(t, "u2", producer.written[0].UserID)
	assert.Equal(t, []int64{2}, repo.processed)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(fmt.Errorf("dial tcp: connection refused")))
	assert.True(t, isRetryableError(fmt.Errorf("read: i/o timeout")))
	assert.False(t, isRetryableError(fmt.Errorf("invalid topic")))
	assert.False(t, isRetryableError(nil))
}
