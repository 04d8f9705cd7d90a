package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/measurelens/internal/config"
	"github.com/sanspareilsmyn/measurelens/internal/logging"
	"github.com/sanspareilsmyn/measurelens/internal/pipeline"
	"github.com/sanspareilsmyn/measurelens/internal/sink"
	"github.com/sanspareilsmyn/measurelens/internal/stats"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Initialize Configuration
	flags := pflag.NewFlagSet("measurelens", pflag.ContinueOnError)
	configFile := flags.StringP("config", "c", "", "Path to an optional YAML configuration file")
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() > 0 && !flags.Changed("input") {
		_ = flags.Set("input", flags.Arg(0))
	}

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize Logger
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync() // Flush buffered logs on exit
	}()

	sugar := logger.Sugar()
	sugar.Infow("Configuration loaded",
		"config_file", *configFile,
		"input", cfg.Input.Path,
		"workers", cfg.Pipeline.Workers,
		"chunk_size", cfg.Pipeline.ChunkSize,
		"malformed_policy", cfg.Pipeline.MalformedPolicy,
	)

	// Handle Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, cfg, logger); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			sugar.Warnw("Run cancelled", zap.Error(err))
		default:
			sugar.Errorw("Run failed", zap.Error(err))
		}
		return 1
	}
	return 0
}

// execute runs the pipeline once and hands the result to every configured sink.
func execute(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := pipeline.NewMetrics(registry)

	pipe, err := pipeline.New(cfg.Pipeline, logger,
		pipeline.WithMetrics(metrics),
		pipeline.WithReporter(metrics),
	)
	if err != nil {
		return err
	}

	runAt := time.Now()
	summary, err := pipe.RunFile(ctx, cfg.Input.Path)
	if err != nil {
		return err
	}
	logger.Info("Result ready",
		zap.Int("keys", len(summary.Results)),
		zap.Int64("lines", summary.Lines),
		zap.Int64("malformed", summary.Malformed),
		zap.Int("partitions", summary.Partitions),
		zap.Duration("elapsed", summary.Elapsed),
		zap.String("fingerprint", fmt.Sprintf("%016x", stats.Fingerprint(summary.Results))),
	)

	publishers, closeOutput, err := buildPublishers(cfg, logger)
	if err != nil {
		return err
	}
	defer closeOutput()

	batch := sink.Batch{Source: cfg.Input.Path, RunAt: runAt, Results: summary.Results}
	var publishErr *multierror.Error
	for _, pub := range publishers {
		if err := pub.Publish(ctx, batch); err != nil {
			publishErr = multierror.Append(publishErr, err)
		}
		if err := pub.Close(); err != nil {
			publishErr = multierror.Append(publishErr, err)
		}
	}

	if err := pipeline.Push(ctx, cfg.Metrics, registry); err != nil {
		logger.Warn("Metrics were not pushed", zap.Error(err))
	}
	return publishErr.ErrorOrNil()
}

// buildPublishers creates the output publisher and, when configured, the Kafka publisher.
// The returned func closes the output file if one was opened.
func buildPublishers(cfg *config.Config, logger *zap.Logger) ([]sink.Publisher, func(), error) {
	closeOutput := func() {}
	var out io.Writer = os.Stdout
	if cfg.Output.Path != "" && cfg.Output.Format != "none" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return nil, closeOutput, fmt.Errorf("%w: %w", sink.ErrWriteFailed, err)
		}
		out = f
		closeOutput = func() {
			if err := f.Close(); err != nil {
				logger.Warn("Failed to close output file", zap.String("path", cfg.Output.Path), zap.Error(err))
			}
		}
	}

	var publishers []sink.Publisher
	switch cfg.Output.Format {
	case "text":
		publishers = append(publishers, sink.NewTextPublisher(out))
	case "jsonl":
		publishers = append(publishers, sink.NewJSONLinesPublisher(out))
	}

	if cfg.Sink.Kafka.Enabled() {
		kp, err := sink.NewKafkaPublisher(cfg.Sink.Kafka, logger.Named("sink.kafka"))
		if err != nil {
			closeOutput()
			return nil, func() {}, err
		}
		publishers = append(publishers, kp)
	}
	return publishers, closeOutput, nil
}
