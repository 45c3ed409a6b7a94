package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shariq8055/ClosetCoach/internal/usecase"
	"github.com/shariq8055/ClosetCoach/pkg/e"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	outboxChannel = "outbox_pending"
	outboxBatch   = 10

	notifyWaitTimeout = 30 * time.Second
	reconnectDelay    = 2 * time.Second
	reconnectBackoff  = 5 * time.Second
)

// OutboxWorker доставляет события гардероба из outbox-таблицы в Kafka.
// Просыпается по NOTIFY outbox_pending, при старте выгребает накопившееся.
// Недоставленные события остаются в статусе processing и не теряются.
type OutboxWorker struct {
	outboxRepo usecase.OutboxRepository
	producer   usecase.MessageProducer
	logger     logger.Logger
	dbConnStr  string

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewOutboxWorker(
	outboxRepo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
		dbConnStr:  dbConnStr,
		stop:       make(chan struct{}),
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(2)

	go func() {
		defer w.wg.Done()
		w.drainAndWait(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenNotifications(ctx)
	}()
}

func (w *OutboxWorker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

// drainAndWait отправляет события, накопившиеся пока воркер не работал,
// и ждёт остановки. Новые события дальше обрабатывает слушатель NOTIFY.
func (w *OutboxWorker) drainAndWait(ctx context.Context) {
	w.logger.Infof("Draining pending outbox events on startup")
	w.drainOutbox(ctx)

	<-ctx.Done()
	w.logger.Infof("Outbox worker stopped")
}

// listenNotifications держит выделенное соединение под LISTEN.
// Потерянное соединение восстанавливается, пропущенные за время
// реконнекта события добираются следующим drainOutbox.
func (w *OutboxWorker) listenNotifications(ctx context.Context) {
	conn, err := w.subscribe(ctx)
	if err != nil {
		w.logger.Warnf("Failed to subscribe to outbox notifications. error: %v", err)
		return
	}
	defer conn.Close(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		waitCtx, cancel := context.WithTimeout(ctx, notifyWaitTimeout)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}

			w.logger.Warnf("Outbox listener connection lost, reconnecting. error: %v", err)
			conn.Close(ctx)

			time.Sleep(reconnectDelay)
			conn, err = w.subscribe(ctx)
			if err != nil {
				w.logger.Warnf("Failed to resubscribe to outbox notifications. error: %v", err)
				time.Sleep(reconnectBackoff)
				conn, err = w.subscribe(ctx)
				if err != nil {
					return
				}
			}
			continue
		}

		if notif != nil && notif.Channel == outboxChannel {
			w.logger.Debugf("Outbox notification received, draining events")
			w.drainOutbox(ctx)
		}
	}
}

func (w *OutboxWorker) subscribe(ctx context.Context) (*pgx.Conn, error) {
	const op = "OutboxWorker.subscribe"

	conn, err := pgx.Connect(ctx, w.dbConnStr)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+outboxChannel); err != nil {
		conn.Close(ctx)
		return nil, e.Wrap(op, err)
	}

	w.logger.Infof("Subscribed to outbox notifications. channel: %s", outboxChannel)
	return conn, nil
}

// drainOutbox забирает события пачками, пока очередь не опустеет.
func (w *OutboxWorker) drainOutbox(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Failed to process outbox batch. error: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.outboxRepo.GetAndMarkAsProcessing(ctx, outboxBatch)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.UserID, event.Payload))
		if err != nil {
			// Событие остаётся в processing и будет добрано позже
			if isRetryableError(err) {
				w.logger.Warnf("Temporary Kafka failure, event will be retried. event_id: %s, error: %v", event.EventID, err)
			} else {
				w.logger.Errorf(err, "Permanent Kafka failure. event_id: %s", event.EventID)
			}
			continue
		}

		if err := w.outboxRepo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("Failed to mark outbox event as processed. event_id: %s, error: %v", event.EventID, err)
		}
	}

	return true, nil
}

// isRetryableError отличает сетевые сбои от постоянных ошибок брокера.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}

	return false
}
