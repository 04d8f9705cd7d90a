package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanspareilsmyn/measurelens/internal/config"
	"github.com/sanspareilsmyn/measurelens/internal/partition"
	"github.com/sanspareilsmyn/measurelens/internal/source"
	"github.com/sanspareilsmyn/measurelens/internal/stats"
)

// Pipeline splits an input into line-aligned partitions, accumulates them in parallel,
// reduces the partial aggregates and projects the ordered result.
type Pipeline struct {
	cfg      config.PipelineConfig
	metrics  *Metrics
	reporter Reporter
	logger   *zap.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithMetrics records partition and run metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithReporter sends the duration of every completed run to r.
func WithReporter(r Reporter) Option {
	return func(p *Pipeline) { p.reporter = r }
}

// New validates cfg and creates a Pipeline.
func New(cfg config.PipelineConfig, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if cfg.Workers <= 0 || cfg.ChunkSize < 0 || len(cfg.Separator) != 1 || cfg.Separator == "\n" {
		return nil, fmt.Errorf("%w: workers=%d chunkSize=%d separator=%q",
			ErrInvalidPipelineConfig, cfg.Workers, cfg.ChunkSize, cfg.Separator)
	}
	if cfg.MalformedPolicy == "" {
		cfg.MalformedPolicy = config.MalformedCount
	}

	p := &Pipeline{
		cfg:      cfg,
		reporter: nopReporter{},
		logger:   logger.Named("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.logger.Debug("Pipeline created",
		zap.Int("workers", cfg.Workers),
		zap.Int("chunk_size", cfg.ChunkSize),
		zap.String("separator", cfg.Separator),
		zap.String("malformed_policy", string(cfg.MalformedPolicy)),
	)
	return p, nil
}

// RunFile maps the file at path, runs the pipeline over it and releases the mapping. The
// returned results own their keys and stay valid after the file is unmapped.
func (p *Pipeline) RunFile(ctx context.Context, path string) (*Summary, error) {
	view, err := source.Open(path)
	if err != nil {
		p.logger.Error("Failed to open input", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrOpenSourceFailed, err)
	}
	defer func() {
		if err := view.Close(); err != nil {
			p.logger.Warn("Failed to release input mapping", zap.String("path", path), zap.Error(err))
		}
	}()
	return p.Run(ctx, view)
}

// Run processes view. Cancelling ctx stops further partitions from being dispatched;
// partitions already running finish, and Run then returns ctx.Err().
func (p *Pipeline) Run(ctx context.Context, view *source.View) (*Summary, error) {
	sugar := p.logger.Sugar()
	start := time.Now()
	data := view.Bytes()

	ranges := p.split(data)
	sugar.Infow("Pipeline run starting",
		"path", view.Path(),
		"bytes", len(data),
		"partitions", len(ranges),
		"workers", p.cfg.Workers,
	)

	parts, err := p.accumulate(ctx, data, ranges)
	if err != nil {
		sugar.Infow("Pipeline run cancelled before all partitions were dispatched", zap.Error(err))
		return nil, err
	}

	summary := &Summary{Partitions: len(ranges), Bytes: len(data)}
	aggs := make([]*stats.Aggregate, len(parts))
	for i, part := range parts {
		aggs[i] = part.Aggregate
		summary.Lines += part.Lines
		summary.Malformed += part.Malformed
	}

	summary.Results = stats.Project(Reduce(aggs, p.cfg.Workers))
	summary.Elapsed = time.Since(start)

	p.metrics.observeSummary(summary)
	p.reporter.Report(summary.Elapsed)

	sugar.Infow("Pipeline run completed",
		"keys", len(summary.Results),
		"lines", summary.Lines,
		"malformed", summary.Malformed,
		"elapsed", summary.Elapsed,
	)
	return summary, nil
}

// split picks the partitioning scheme: fixed-size chunks when ChunkSize is set, one
// partition per worker otherwise.
func (p *Pipeline) split(data []byte) []partition.Range {
	if p.cfg.ChunkSize > 0 {
		return partition.SplitBySize(data, p.cfg.ChunkSize)
	}
	return partition.Split(data, p.cfg.Workers)
}

// accumulate runs one Accumulator call per range on at most Workers goroutines. Results are
// indexed by partition so the reduction order is independent of scheduling.
func (p *Pipeline) accumulate(ctx context.Context, data []byte, ranges []partition.Range) ([]PartitionResult, error) {
	acc := NewAccumulator(data, p.cfg, p.metrics, p.logger.Named("accumulator"))
	parts := make([]PartitionResult, len(ranges))

	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)

	var dispatchErr error
	for i, r := range ranges {
		if err := ctx.Err(); err != nil {
			dispatchErr = err
			break
		}
		g.Go(func() error {
			parts[i] = acc.Accumulate(i, r)
			return nil
		})
	}
	_ = g.Wait()

	if dispatchErr != nil {
		return nil, dispatchErr
	}
	return parts, nil
}
