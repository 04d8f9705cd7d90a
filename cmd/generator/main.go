package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/measurelens/internal/config"
	"github.com/sanspareilsmyn/measurelens/internal/logging"
)

// station is a key with the mean of its generated measurements.
type station struct {
	name string
	mean float64
}

var stations = []station{
	{"Abha", 18.0}, {"Abidjan", 26.0}, {"Accra", 26.4}, {"Addis Ababa", 16.0},
	{"Bulawayo", 18.9}, {"Cracow", 9.3}, {"Dakar", 24.0}, {"Hamburg", 9.7},
	{"Istanbul", 13.9}, {"Jakarta", 26.7}, {"Kyiv", 8.4}, {"Lima", 19.9},
	{"Ouagadougou", 28.3}, {"Palembang", 27.3}, {"Petropavlovsk-Kamchatsky", 1.9},
	{"Reykjavík", 4.3}, {"St. John's", 5.0}, {"São Paulo", 19.3}, {"Zürich", 9.3},
	{"İzmir", 17.9},
}

func main() {
	flags := pflag.NewFlagSet("generator", pflag.ExitOnError)
	output := flags.StringP("output", "o", "measurements.txt", "File to write")
	rows := flags.Int64P("rows", "n", 1_000_000, "Number of lines to write")
	malformedRatio := flags.Float64("malformed-ratio", 0, "Fraction of lines written without a valid measurement")
	trailingNewline := flags.Bool("trailing-newline", true, "Terminate the last line")
	seed := flags.Int64("seed", 1, "Random seed")
	_ = flags.Parse(os.Args[1:])

	logger, err := logging.NewLogger(config.LogConfig{Level: "info", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Generating measurements",
		zap.String("output", *output),
		zap.Int64("rows", *rows),
		zap.Float64("malformed_ratio", *malformedRatio),
		zap.Int64("seed", *seed),
	)
	if err := generate(ctx, *output, *rows, *malformedRatio, *trailingNewline, *seed); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Generation interrupted", zap.Error(err))
		} else {
			logger.Error("Generation failed", zap.Error(err))
		}
		os.Exit(1)
	}
	logger.Info("Generation finished", zap.String("output", *output))
}

func generate(ctx context.Context, path string, rows int64, malformedRatio float64, trailingNewline bool, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	rng := rand.New(rand.NewSource(seed))
	buf := make([]byte, 0, 64)

	for i := int64(0); i < rows; i++ {
		if i%(1<<20) == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		s := stations[rng.Intn(len(stations))]

		buf = append(buf[:0], s.name...)
		if rng.Float64() < malformedRatio {
			buf = append(buf, " n/a"...)
		} else {
			buf = append(buf, ';')
			buf = strconv.AppendFloat(buf, clamp(s.mean+rng.NormFloat64()*10, -99.9, 99.9), 'f', 1, 64)
		}
		if trailingNewline || i < rows-1 {
			buf = append(buf, '\n')
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
