package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-payroll/internal/audit"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Retry delays for failed fetches and failed stores, doubling up to the max.
var (
	retryInitial = 500 * time.Millisecond
	retryMax     = 30 * time.Second
)

// ConsumeAuditEvents persists audit events to audit_logs until ctx is done.
// Messages are handled strictly in order: a message that cannot be stored is
// retried until it is, and nothing after it is fetched meanwhile. Committing
// a later offset would otherwise commit past the failed one.
func ConsumeAuditEvents(
	ctx context.Context,
	reader MessageReader,
	repo audit.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.audit")
	log.Info("audit consumer started")

	fetchDelay := retryInitial
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("audit consumer stopped")
				return
			}
			log.Error("fetch audit message failed", zap.Duration("retry_in", fetchDelay), zap.Error(err))
			if !sleep(ctx, fetchDelay) {
				log.Info("audit consumer stopped")
				return
			}
			fetchDelay = nextDelay(fetchDelay)
			continue
		}
		fetchDelay = retryInitial

		if !handleAuditMessage(ctx, reader, repo, log, msg) {
			log.Info("audit consumer stopped")
			return
		}
	}
}

// handleAuditMessage reports false only when ctx ended before msg was stored.
func handleAuditMessage(ctx context.Context, reader MessageReader, repo audit.Repository, log *zap.Logger, msg kafkago.Message) bool {
	var event audit.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.ID == "" {
		log.Error("decode audit event failed, skipping",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		commit(ctx, reader, log, msg)
		return true
	}

	row := audit.FromEvent(event)
	delay := retryInitial
	for {
		err := repo.Save(ctx, &row)
		if err == nil {
			break
		}
		log.Error("store audit event failed",
			zap.String("event_id", event.ID),
			zap.String("action", event.Action),
			zap.Int64("offset", msg.Offset),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		if !sleep(ctx, delay) {
			return false
		}
		delay = nextDelay(delay)
	}

	commit(ctx, reader, log, msg)
	log.Debug("audit event stored",
		zap.String("event_id", event.ID),
		zap.String("action", event.Action),
		zap.Int64("target_id", event.TargetID),
	)
	return true
}

func commit(ctx context.Context, reader MessageReader, log *zap.Logger, msg kafkago.Message) {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit audit message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
	}
}

// sleep waits d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func nextDelay(d time.Duration) time.Duration {
	if d *= 2; d > retryMax {
		return retryMax
	}
	return d
}
