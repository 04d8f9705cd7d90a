package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sanspareilsmyn/measurelens/internal/config"
	"github.com/sanspareilsmyn/measurelens/internal/pipeline"
)

func TestGenerateFeedsPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measurements.txt")
	require.NoError(t, generate(context.Background(), path, 2000, 0.05, false, 3))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEqual(t, byte('\n'), raw[len(raw)-1])

	p, err := pipeline.New(config.PipelineConfig{Workers: 4, Separator: ";", MalformedPolicy: config.MalformedCount}, zaptest.NewLogger(t))
	require.NoError(t, err)
	summary, err := p.RunFile(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, int64(2000), summary.Lines)
	require.Greater(t, summary.Malformed, int64(0))
	require.Less(t, summary.Malformed, int64(300))
	require.LessOrEqual(t, len(summary.Results), len(stations))

	var total int64
	for _, r := range summary.Results {
		total += r.Count
		require.GreaterOrEqual(t, r.Min, -99.9)
		require.LessOrEqual(t, r.Max, 99.9)
	}
	require.Equal(t, summary.Lines-summary.Malformed, total)
}

func TestGenerateIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")
	require.NoError(t, generate(context.Background(), a, 500, 0, true, 9))
	require.NoError(t, generate(context.Background(), b, 500, 0, true, 9))

	rawA, err := os.ReadFile(a)
	require.NoError(t, err)
	rawB, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, rawA, rawB)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := generate(ctx, filepath.Join(t.TempDir(), "m.txt"), 10, 0, true, 1)
	require.ErrorIs(t, err, context.Canceled)
}
