package pipeline

import (
	"golang.org/x/sync/errgroup"

	"github.com/sanspareilsmyn/measurelens/internal/stats"
)

// Reduce merges aggs pairwise, level by level: (0,1), (2,3), ... with an odd tail carried up
// unchanged. Merges within a level run on up to workers goroutines. The tree shape depends only
// on len(aggs), so a fixed partitioning always adds sums in the same order.
// The inputs are consumed.
func Reduce(aggs []*stats.Aggregate, workers int) *stats.Aggregate {
	if len(aggs) == 0 {
		return stats.NewAggregate(0)
	}
	if workers < 1 {
		workers = 1
	}

	level := aggs
	for len(level) > 1 {
		next := make([]*stats.Aggregate, (len(level)+1)/2)

		var g errgroup.Group
		g.SetLimit(workers)
		for i := 0; i+1 < len(level); i += 2 {
			left, right := level[i], level[i+1]
			g.Go(func() error {
				next[i/2] = stats.Merge(left, right)
				return nil
			})
		}
		if len(level)%2 == 1 {
			next[len(next)-1] = level[len(level)-1]
		}
		_ = g.Wait()

		level = next
	}
	return level[0]
}
