package worker

import (
	"context"
	"iter"
	"time"

	buildaggregates "github.com/forgeboard/server/pkg/build/aggregates"
	"github.com/forgeboard/server/pkg/dutycycle"
)

// DutyCycle computes the worker's per-bucket utilization fractions over
// the trailing window, most recent bucket first. Now is snapshotted
// once so the whole pass works against one consistent partition: the
// running builds are closed at that snapshot and the finished builds
// are swept newest-first until they fall behind the horizon.
func (s *Service) DutyCycle(ctx context.Context, workerID string) ([]float64, error) {
	if _, err := s.store.GetWorker(ctx, workerID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	cfg := dutycycle.Config{
		Count: s.buckets,
		Size:  s.bucketSize,
		Now:   now,
	}
	running, err := s.store.ListRunningBuilds(ctx, workerID)
	if err != nil {
		return nil, err
	}
	current := make([]dutycycle.Interval, 0, len(running))
	for _, build := range running {
		current = append(current, dutycycle.Interval{Start: build.StartedAt, End: now})
	}
	finished, err := s.store.ListFinishedBuilds(ctx, workerID, cfg.Horizon())
	if err != nil {
		return nil, err
	}
	totals, err := dutycycle.Aggregate(cfg, current, buildIntervals(finished))
	if err != nil {
		return nil, err
	}
	return totals.DutyCycle(cfg.Size), nil
}

// buildIntervals exposes finished builds as a lazy interval sequence.
// The store returns them ordered by end time descending, which is what
// lets the aggregation sweep stop early.
func buildIntervals(builds []*buildaggregates.Build) iter.Seq[dutycycle.Interval] {
	return func(yield func(dutycycle.Interval) bool) {
		for _, build := range builds {
			if build.EndedAt == nil {
				continue
			}
			if !yield(dutycycle.Interval{Start: build.StartedAt, End: *build.EndedAt}) {
				return
			}
		}
	}
}
