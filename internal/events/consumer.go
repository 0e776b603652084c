package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Reconciler re-derives status and alerts for a product changed elsewhere.
type Reconciler interface {
	ReconcileProduct(ctx context.Context, productID string) error
}

// messageReader is the part of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	retryBackoffMin = 200 * time.Millisecond
	retryBackoffMax = 10 * time.Second
)

// KafkaConsumer listens for product changes written by other services and
// reconciles them. Events carrying this service's own source are skipped.
// A message that fails to reconcile is retried until it succeeds, so its
// offset is never committed past.
type KafkaConsumer struct {
	reader     messageReader
	brokers    []string
	source     string
	reconciler Reconciler
	logger     *zap.Logger
	backoffMin time.Duration
	backoffMax time.Duration
	cancel     context.CancelFunc
	done       chan struct{}
	stopOnce   sync.Once
}

func NewKafkaConsumer(brokers []string, topic, groupID, source string, reconciler Reconciler, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       1e6,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0,
	})

	return &KafkaConsumer{
		reader:     reader,
		brokers:    brokers,
		source:     source,
		reconciler: reconciler,
		logger:     logger,
		backoffMin: retryBackoffMin,
		backoffMax: retryBackoffMax,
	}
}

func (kc *KafkaConsumer) Start(ctx context.Context) {
	ctx, kc.cancel = context.WithCancel(ctx)
	kc.done = make(chan struct{})

	kc.logger.Info("Kafka consumer started", zap.Strings("brokers", kc.brokers))
	go kc.consume(ctx)
}

func (kc *KafkaConsumer) consume(ctx context.Context) {
	defer close(kc.done)

	for {
		msg, err := kc.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				kc.logger.Info("Kafka consumer stopped")
				return
			}
			kc.logger.Error("Error reading message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if !kc.processWithRetry(ctx, msg) {
			return
		}

		if err := kc.reader.CommitMessages(ctx, msg); err != nil {
			kc.logger.Error("Error committing message", zap.Error(err))
		}
	}
}

// processWithRetry processes msg until it succeeds, backing off between
// attempts. It reports false when ctx ended first.
func (kc *KafkaConsumer) processWithRetry(ctx context.Context, msg kafka.Message) bool {
	backoff := kc.backoffMin
	if backoff <= 0 {
		backoff = retryBackoffMin
	}
	for attempt := 1; ; attempt++ {
		err := kc.processMessage(ctx, msg)
		if err == nil {
			return true
		}
		kc.logger.Error("Error processing message, will retry",
			zap.Error(err),
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff *= 2
		if kc.backoffMax > 0 && backoff > kc.backoffMax {
			backoff = kc.backoffMax
		}
	}
}

func (kc *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event ChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// A malformed message will never parse; log it and move on.
		kc.logger.Warn("Skipping malformed event",
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		return nil
	}

	if event.Source == kc.source || event.Entity != EntityProduct {
		return nil
	}

	// Deletions reconcile too: a missing product has its open alerts resolved.
	kc.logger.Info("Reconciling product changed elsewhere",
		zap.String("product_id", event.EntityID),
		zap.String("source", event.Source),
		zap.String("event_id", event.EventID))

	if err := kc.reconciler.ReconcileProduct(ctx, event.EntityID); err != nil {
		return fmt.Errorf("reconcile product %s: %w", event.EntityID, err)
	}
	return nil
}

// Stop cancels consumption, waits for the loop to exit and closes the reader.
func (kc *KafkaConsumer) Stop() {
	kc.stopOnce.Do(func() {
		kc.logger.Info("Stopping Kafka consumer")
		if kc.cancel != nil {
			kc.cancel()
			<-kc.done
		}
		if err := kc.reader.Close(); err != nil {
			kc.logger.Error("Failed to close Kafka reader", zap.Error(err))
		}
	})
}

// HealthCheck dials the first reachable broker and asks for cluster metadata.
func (kc *KafkaConsumer) HealthCheck(ctx context.Context) error {
	var lastErr error
	for _, broker := range kc.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		brokers, err := conn.Brokers()
		conn.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if len(brokers) == 0 {
			lastErr = errors.New("no kafka brokers available")
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no kafka brokers configured")
	}
	return fmt.Errorf("kafka consumer health check failed: %w", lastErr)
}
