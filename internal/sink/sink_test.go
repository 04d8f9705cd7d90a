package sink

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sanspareilsmyn/measurelens/internal/config"
	"github.com/sanspareilsmyn/measurelens/internal/message"
	"github.com/sanspareilsmyn/measurelens/internal/stats"
)

var exampleBatch = Batch{
	Source: "measurements.txt",
	RunAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	Results: []stats.Result{
		{Key: "A", Min: 10, Max: 20, Average: 15, Sum: 30, Count: 2},
		{Key: "B", Min: 5.5, Max: 5.5, Average: 5.5, Sum: 5.5, Count: 1},
	},
}

func TestTextPublisher(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextPublisher(&buf).Publish(context.Background(), exampleBatch))
	require.Equal(t, "{A=10.0/15.0/20.0, B=5.5/5.5/5.5}\n", buf.String())
}

func TestTextPublisherEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextPublisher(&buf).Publish(context.Background(), Batch{}))
	require.Equal(t, "{}\n", buf.String())
}

func TestFormatTenths(t *testing.T) {
	require.Equal(t, "-3.2", formatTenths(-3.2))
	require.Equal(t, "0.0", formatTenths(-0.04))
	require.Equal(t, "12.0", formatTenths(12))
}

func TestJSONLinesPublisher(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONLinesPublisher(&buf).Publish(context.Background(), exampleBatch))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	msg, err := message.ParseJSON([]byte(lines[1]))
	require.NoError(t, err)
	require.Equal(t, "B", msg.Key)
	require.Equal(t, int64(1), msg.Count)
	require.Equal(t, "measurements.txt", msg.Source)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPublisherWriteError(t *testing.T) {
	err := NewTextPublisher(failingWriter{}).Publish(context.Background(), exampleBatch)
	require.ErrorIs(t, err, ErrWriteFailed)
	err = NewJSONLinesPublisher(failingWriter{}).Publish(context.Background(), exampleBatch)
	require.ErrorIs(t, err, ErrWriteFailed)
}

type fakeWriter struct {
	calls  [][]kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.calls = append(w.calls, append([]kafka.Message(nil), msgs...))
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherBatches(t *testing.T) {
	results := make([]stats.Result, 5)
	for i := range results {
		results[i] = stats.Result{Key: string(rune('a' + i)), Min: 1, Max: 1, Average: 1, Sum: 1, Count: 1}
	}

	w := &fakeWriter{}
	p := newKafkaPublisher(w, config.KafkaConfig{Topic: "stats", BatchSize: 2}, zaptest.NewLogger(t))
	require.NoError(t, p.Publish(context.Background(), Batch{Source: "m.txt", Results: results}))
	require.NoError(t, p.Close())

	require.True(t, w.closed)
	require.Len(t, w.calls, 3)
	require.Len(t, w.calls[2], 1)
	require.Equal(t, "e", string(w.calls[2][0].Key))

	msg, err := message.ParseJSON(w.calls[0][1].Value)
	require.NoError(t, err)
	require.Equal(t, "b", msg.Key)
}

func TestKafkaPublisherWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, config.KafkaConfig{Topic: "stats", BatchSize: 10}, zaptest.NewLogger(t))
	err := p.Publish(context.Background(), exampleBatch)
	require.ErrorIs(t, err, ErrKafkaWriteFailed)
}

func TestNewKafkaPublisherValidates(t *testing.T) {
	_, err := NewKafkaPublisher(config.KafkaConfig{Topic: "stats", BatchSize: 1}, zaptest.NewLogger(t))
	require.ErrorIs(t, err, ErrInvalidKafkaConfig)
}
