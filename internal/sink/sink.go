// Package sink delivers a finished result sequence to its consumers.
package sink

import (
	"context"
	"errors"
	"time"

	"github.com/sanspareilsmyn/measurelens/internal/stats"
)

var (
	ErrInvalidKafkaConfig = errors.New("invalid Kafka sink configuration")
	ErrKafkaWriteFailed   = errors.New("failed to write results to Kafka")
	ErrWriteFailed        = errors.New("failed to write results")
)

// Batch is one run's output.
type Batch struct {
	Source  string
	RunAt   time.Time
	Results []stats.Result
}

// Publisher delivers batches somewhere.
type Publisher interface {
	Publish(ctx context.Context, batch Batch) error
	Close() error
}
