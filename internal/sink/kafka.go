package sink

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/measurelens/internal/config"
	"github.com/sanspareilsmyn/measurelens/internal/message"
)

type kafkaZapLogger struct {
	log *zap.Logger
}

func (l kafkaZapLogger) Printf(msg string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(msg, args...))
}

type kafkaZapErrorLogger struct {
	log *zap.Logger
}

func (l kafkaZapErrorLogger) Printf(msg string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(msg, args...))
}

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes one message per key to a Kafka topic. The message key is the
// result key, so all results for a key land in the same partition.
type KafkaPublisher struct {
	writer    messageWriter
	batchSize int
	cfg       config.KafkaConfig
	logger    *zap.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.BatchSize <= 0 {
		logger.Error("Kafka sink configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
			zap.Int("batch_size", cfg.BatchSize),
		)
		return nil, ErrInvalidKafkaConfig
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		RequiredAcks: kafka.RequireAll,
		Logger:       kafkaZapLogger{logger.Named("kafka-writer").WithOptions(zap.AddCallerSkip(1))},
		ErrorLogger:  kafkaZapErrorLogger{logger.Named("kafka-writer-error").WithOptions(zap.AddCallerSkip(1))},
	}

	logger.Info("Kafka publisher created",
		zap.String("topic", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers),
		zap.Int("batch_size", cfg.BatchSize),
	)
	return newKafkaPublisher(w, cfg, logger), nil
}

func newKafkaPublisher(w messageWriter, cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, batchSize: cfg.BatchSize, cfg: cfg, logger: logger}
}

// Publish writes the batch in chunks of batchSize messages.
func (p *KafkaPublisher) Publish(ctx context.Context, batch Batch) error {
	msgs := make([]kafka.Message, 0, min(p.batchSize, len(batch.Results)))
	flush := func() error {
		if len(msgs) == 0 {
			return nil
		}
		if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
			p.logger.Error("Error writing results to Kafka", zap.Int("messages", len(msgs)), zap.Error(err))
			return fmt.Errorf("%w: %w", ErrKafkaWriteFailed, err)
		}
		msgs = msgs[:0]
		return nil
	}

	for _, r := range batch.Results {
		value, err := message.EncodeJSON(message.FromResult(r, batch.Source, batch.RunAt))
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{Key: []byte(r.Key), Value: value})
		if len(msgs) == p.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	p.logger.Info("Results published to Kafka",
		zap.String("topic", p.cfg.Topic),
		zap.Int("results", len(batch.Results)),
	)
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer cleanly", zap.Error(err))
		return err
	}
	p.logger.Debug("Kafka writer closed")
	return nil
}
