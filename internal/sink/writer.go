package sink

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/sanspareilsmyn/measurelens/internal/message"
)

// TextPublisher writes "{key=min/avg/max, ...}" on a single line, one decimal per value.
type TextPublisher struct {
	w io.Writer
}

func NewTextPublisher(w io.Writer) *TextPublisher {
	return &TextPublisher{w: w}
}

func (p *TextPublisher) Publish(_ context.Context, batch Batch) error {
	bw := bufio.NewWriter(p.w)
	bw.WriteByte('{')
	for i, r := range batch.Results {
		if i > 0 {
			bw.WriteString(", ")
		}
		bw.WriteString(r.Key)
		bw.WriteByte('=')
		bw.WriteString(formatTenths(r.Min))
		bw.WriteByte('/')
		bw.WriteString(formatTenths(r.Average))
		bw.WriteByte('/')
		bw.WriteString(formatTenths(r.Max))
	}
	bw.WriteString("}\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

func (p *TextPublisher) Close() error { return nil }

// formatTenths prints v with one decimal. "-0.0" is printed as "0.0".
func formatTenths(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

// JSONLinesPublisher writes one message.ResultMessage per line.
type JSONLinesPublisher struct {
	w io.Writer
}

func NewJSONLinesPublisher(w io.Writer) *JSONLinesPublisher {
	return &JSONLinesPublisher{w: w}
}

func (p *JSONLinesPublisher) Publish(ctx context.Context, batch Batch) error {
	bw := bufio.NewWriter(p.w)
	for _, r := range batch.Results {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := message.EncodeJSON(message.FromResult(r, batch.Source, batch.RunAt))
		if err != nil {
			return err
		}
		bw.Write(data)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

func (p *JSONLinesPublisher) Close() error { return nil }
