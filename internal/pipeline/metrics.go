package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/sanspareilsmyn/measurelens/internal/config"
)

// Metrics holds the pipeline's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	linesTotal        prometheus.Counter
	malformedTotal    *prometheus.CounterVec
	partitionsTotal   prometheus.Counter
	bytesTotal        prometheus.Counter
	keys              prometheus.Gauge
	partitionDuration prometheus.Histogram
	runDuration       prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		linesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "measurelens_lines_total",
			Help: "Total number of input lines read, well-formed or not.",
		}),
		malformedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "measurelens_malformed_lines_total",
				Help: "Total number of lines skipped because they could not be parsed.",
			},
			[]string{"reason"}, // missing_separator, invalid_measurement
		),
		partitionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "measurelens_partitions_total",
			Help: "Total number of partitions accumulated.",
		}),
		bytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "measurelens_input_bytes_total",
			Help: "Total number of input bytes processed.",
		}),
		keys: factory.NewGauge(prometheus.GaugeOpts{
			Name: "measurelens_result_keys",
			Help: "Number of distinct keys in the last result.",
		}),
		partitionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "measurelens_partition_duration_seconds",
			Help:    "Time spent accumulating one partition.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "measurelens_run_duration_seconds",
			Help:    "Wall time of a complete run, from partitioning to projection.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
	}
}

// Report records the duration of a run.
func (m *Metrics) Report(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) observePartition(res PartitionResult) {
	if m == nil {
		return
	}
	m.partitionsTotal.Inc()
	m.linesTotal.Add(float64(res.Lines))
	m.bytesTotal.Add(float64(res.Range.Len()))
	m.partitionDuration.Observe(res.Elapsed.Seconds())
}

func (m *Metrics) observeMalformed(err error) {
	if m == nil {
		return
	}
	m.malformedTotal.WithLabelValues(malformedReason(err)).Inc()
}

func (m *Metrics) observeSummary(s *Summary) {
	if m == nil {
		return
	}
	m.keys.Set(float64(len(s.Results)))
}

// Push sends everything gathered by g to the Pushgateway configured in cfg. It is a no-op
// when no gateway is configured.
func Push(ctx context.Context, cfg config.MetricsConfig, g prometheus.Gatherer) error {
	if cfg.PushGatewayURL == "" {
		return nil
	}
	if err := push.New(cfg.PushGatewayURL, cfg.JobName).Gatherer(g).PushContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrMetricsPushFailed, err)
	}
	return nil
}
