package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

//go:generate mockgen -source=audit_recorder.go -destination=mock/audit_recorder_mock.go -package=mock

// Recorder is fire-and-forget: implementations report their own failures and
// never fail the caller.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

const publishTimeout = 5 * time.Second

type KafkaRecorder struct {
	writer   MessageWriter
	topic    string
	logger   *zap.Logger
	failures prometheus.Counter
	wg       sync.WaitGroup
}

func NewKafkaRecorder(writer MessageWriter, topic string, reg prometheus.Registerer, logger ...*zap.Logger) *KafkaRecorder {
	l := zap.L().Named("audit.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.recorder")
	}

	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_events_failed_total",
		Help: "Audit events that could not be published",
	})
	if reg != nil {
		if err := reg.Register(failures); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				failures = are.ExistingCollector.(prometheus.Counter)
			}
		}
	}

	return &KafkaRecorder{writer: writer, topic: topic, logger: l, failures: failures}
}

func (r *KafkaRecorder) Record(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.fail(event, err)
		return
	}

	msg := kafkago.Message{
		Topic: r.topic,
		Key:   []byte(strconv.FormatInt(event.TargetID, 10)),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "action", Value: []byte(event.Action)},
		},
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		if err := r.writer.WriteMessages(pubCtx, msg); err != nil {
			r.fail(event, err)
		}
	}()
}

func (r *KafkaRecorder) fail(event Event, err error) {
	r.failures.Inc()
	r.logger.Error("audit event not published",
		zap.String("action", event.Action),
		zap.String("target_type", event.TargetType),
		zap.Int64("target_id", event.TargetID),
		zap.Int64("actor_id", event.ActorID),
		zap.Error(err),
	)
}

// Close waits for in-flight publishes.
func (r *KafkaRecorder) Close() {
	r.wg.Wait()
}

// LogRecorder writes audit events to the "audit" logger. Used when Kafka is
// not configured and for process-level events.
type LogRecorder struct {
	logger *zap.Logger
}

func NewLogRecorder(logger *zap.Logger) *LogRecorder {
	if logger == nil {
		logger = zap.L()
	}
	return &LogRecorder{logger: logger.Named("audit")}
}

func (l *LogRecorder) Record(ctx context.Context, event Event) {
	l.logger.Info("audit event",
		zap.String("timestamp", event.OccurredAt.Format(time.RFC3339)),
		zap.String("action", event.Action),
		zap.Int64("actor_id", event.ActorID),
		zap.String("actor_role", event.ActorRole),
		zap.String("target_type", event.TargetType),
		zap.Int64("target_id", event.TargetID),
		zap.String("request_id", event.RequestID),
		zap.Any("meta", event.Meta),
	)
}
