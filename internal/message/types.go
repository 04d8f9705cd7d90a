package message

import (
	"time"

	"github.com/sanspareilsmyn/measurelens/internal/stats"
)

// ResultMessage is the published form of one key's final statistics.
type ResultMessage struct {
	Key     string    `json:"key"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Average float64   `json:"avg"`
	Count   int64     `json:"count"`
	Source  string    `json:"source,omitempty"`
	RunAt   time.Time `json:"run_at"`
}

// FromResult builds the message for r. source names the input file.
func FromResult(r stats.Result, source string, runAt time.Time) ResultMessage {
	return ResultMessage{
		Key:     r.Key,
		Min:     r.Min,
		Max:     r.Max,
		Average: r.Average,
		Count:   r.Count,
		Source:  source,
		RunAt:   runAt.UTC(),
	}
}
