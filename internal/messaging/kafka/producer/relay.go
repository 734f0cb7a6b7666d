// Package producer relays committed outbox rows to Kafka.
package producer

import (
	"context"
	"time"

	"go-payroll/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = 3 * time.Second
)

// MessageWriter is the part of *kafkago.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Relay polls the outbox and publishes pending rows one by one. A row that
// fails to publish is marked failed and retried later by the repository's
// backoff; it never blocks the rest of the batch.
type Relay struct {
	repo     kafka.OutboxRepository
	writer   MessageWriter
	logger   *zap.Logger
	batch    int
	interval time.Duration
}

func NewRelay(repo kafka.OutboxRepository, writer MessageWriter, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		repo:     repo,
		writer:   writer,
		logger:   logger.Named("kafka.outbox_relay"),
		batch:    defaultBatchSize,
		interval: defaultPollInterval,
	}
}

// WithBatchSize ignores non-positive values.
func (r *Relay) WithBatchSize(n int) *Relay {
	if n > 0 {
		r.batch = n
	}
	return r
}

// WithInterval ignores non-positive values.
func (r *Relay) WithInterval(d time.Duration) *Relay {
	if d > 0 {
		r.interval = d
	}
	return r
}

// Run flushes on every tick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started", zap.Duration("interval", r.interval), zap.Int("batch", r.batch))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil {
				r.logger.Error("outbox flush failed", zap.Error(err))
			}
		}
	}
}

// Flush publishes one batch and returns how many rows were marked sent.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	events, err := r.repo.ListPending(ctx, r.batch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, event := range events {
		log := r.logger.With(
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)

		if err := r.writer.WriteMessages(ctx, toMessage(event)); err != nil {
			log.Warn("publish outbox event failed", zap.Int("retry_count", event.RetryCount), zap.Error(err))
			if markErr := r.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error("mark outbox event failed", zap.Error(markErr))
			}
			continue
		}
		if err := r.repo.MarkSent(ctx, event.ID); err != nil {
			// Published but still pending, so consumers may see it twice.
			log.Error("mark outbox event sent", zap.Error(err))
			continue
		}
		sent++
	}

	if len(events) > 0 {
		r.logger.Debug("outbox batch done", zap.Int("pending", len(events)), zap.Int("sent", sent))
	}
	return sent, nil
}

func toMessage(event kafka.OutboxEvent) kafkago.Message {
	return kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
			{Key: "request_id", Value: []byte(event.RequestID)},
		},
	}
}
