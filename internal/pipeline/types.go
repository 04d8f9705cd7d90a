package pipeline

import (
	"time"

	"github.com/sanspareilsmyn/measurelens/internal/partition"
	"github.com/sanspareilsmyn/measurelens/internal/stats"
)

// PartitionResult is what one Accumulator produces for one partition.
type PartitionResult struct {
	Index     int
	Range     partition.Range
	Aggregate *stats.Aggregate
	Lines     int64
	Malformed int64
	Elapsed   time.Duration
}

// Summary is the outcome of a complete run.
type Summary struct {
	Results    []stats.Result
	Partitions int
	Bytes      int
	Lines      int64
	Malformed  int64
	Elapsed    time.Duration
}
