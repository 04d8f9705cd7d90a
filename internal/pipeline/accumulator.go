package pipeline

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/measurelens/internal/config"
	"github.com/sanspareilsmyn/measurelens/internal/partition"
	"github.com/sanspareilsmyn/measurelens/internal/record"
	"github.com/sanspareilsmyn/measurelens/internal/stats"
)

const (
	// initialKeyCapacity sizes every partition's map; real inputs hold a few hundred to a few
	// thousand distinct keys.
	initialKeyCapacity = 1024
	snippetLength      = 50
)

// Accumulator folds the records of one partition into a private Aggregate.
// It holds no mutable state, so one Accumulator serves every worker.
type Accumulator struct {
	data      []byte
	separator byte
	policy    config.MalformedPolicy
	metrics   *Metrics
	logger    *zap.Logger
}

// NewAccumulator creates an Accumulator reading from data.
func NewAccumulator(data []byte, cfg config.PipelineConfig, metrics *Metrics, logger *zap.Logger) *Accumulator {
	return &Accumulator{
		data:      data,
		separator: cfg.SeparatorByte(),
		policy:    cfg.MalformedPolicy,
		metrics:   metrics,
		logger:    logger,
	}
}

// Accumulate processes the lines of r in file order.
func (a *Accumulator) Accumulate(index int, r partition.Range) PartitionResult {
	start := time.Now()
	agg := stats.NewAggregate(initialKeyCapacity)
	res := PartitionResult{Index: index, Range: r}

	partition.Lines(a.data, r, func(offset int, line []byte) {
		res.Lines++
		rec, err := record.Parse(line, a.separator)
		if err != nil {
			a.handleMalformed(&res, offset, line, err)
			return
		}
		agg.Observe(rec.Key, rec.Measurement)
	})

	res.Aggregate = agg
	res.Elapsed = time.Since(start)
	a.metrics.observePartition(res)

	a.logger.Debug("Partition accumulated",
		zap.Int("partition", index),
		zap.Int("start", r.Start),
		zap.Int("end", r.End),
		zap.Int64("lines", res.Lines),
		zap.Int64("malformed", res.Malformed),
		zap.Int("keys", agg.Len()),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}

// handleMalformed applies the configured policy to one unparsable line.
func (a *Accumulator) handleMalformed(res *PartitionResult, offset int, line []byte, err error) {
	if a.policy == config.MalformedIgnore {
		return
	}
	res.Malformed++
	a.metrics.observeMalformed(err)

	if a.policy == config.MalformedLog {
		a.logger.Warn("Skipping malformed line",
			zap.Int("partition", res.Index),
			zap.Int("offset", offset),
			zap.String("line_snippet", snippet(line, snippetLength)),
			zap.Error(err),
		)
	}
}

// malformedReason is the metric label for a parse error.
func malformedReason(err error) string {
	switch {
	case errors.Is(err, record.ErrMissingSeparator):
		return "missing_separator"
	case errors.Is(err, record.ErrInvalidMeasurement):
		return "invalid_measurement"
	default:
		return "other"
	}
}

// snippet returns line truncated to maxLength bytes, for logging.
func snippet(line []byte, maxLength int) string {
	if len(line) > maxLength {
		return string(line[:maxLength]) + "..."
	}
	return string(line)
}
