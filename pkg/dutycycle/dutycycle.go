// Package dutycycle computes per-bucket utilization fractions for a
// worker from its build intervals. The recent past is partitioned into
// Count contiguous half-open buckets of Size each, tiling backward from
// Now; each interval contributes its overlap with every bucket, and the
// totals are normalized into fractions of the bucket span.
package dutycycle

import (
	"iter"
	"time"

	"github.com/forgeboard/server/internal/validator"
)

// Interval is one period during which a worker was busy. Both
// timestamps are concrete: for an in-progress build the caller sets End
// to its snapshot of "now" before aggregating. Intervals are never
// mutated. A malformed interval (Start after End) contributes nothing.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Config describes the bucket partition. Bucket n (0 = most recent)
// spans [Now-(n+1)*Size, Now-n*Size). Now must be snapshotted once per
// aggregation so the partition stays consistent for the whole pass.
type Config struct {
	Count int           `validate:"gte=1"`
	Size  time.Duration `validate:"gt=0"`
	Now   time.Time
}

// Horizon returns the start of the oldest bucket. Intervals ending
// before it cannot overlap any bucket.
func (c Config) Horizon() time.Time {
	return c.Now.Add(-time.Duration(c.Count) * c.Size)
}

// Totals holds the accumulated busy duration per bucket, index 0 being
// the most recent bucket.
type Totals []time.Duration

// DutyCycle normalizes the totals into fractions of the bucket size.
// Fractions are not clamped: overlapping input intervals accumulate
// independently and can push a bucket past 1.0.
func (t Totals) DutyCycle(size time.Duration) []float64 {
	result := make([]float64, len(t))
	for n := range t {
		result[n] = float64(t[n]) / float64(size)
	}
	return result
}

// Aggregate sweeps the given intervals and returns the busy duration
// accumulated in each bucket. current holds in-progress work and may be
// in any order; history holds finished work and must be ordered by End
// descending (most recently finished first): the sweep stops as soon as
// a finished interval ends before the horizon, since no older interval
// can overlap any bucket. The early exit is an optimization only, a
// full sweep yields the same totals.
func Aggregate(cfg Config, current []Interval, history iter.Seq[Interval]) (Totals, error) {
	if err := validator.Validator.Struct(cfg); err != nil {
		return nil, err
	}
	totals := make(Totals, cfg.Count)
	for _, interval := range current {
		addToBuckets(totals, cfg, interval)
	}
	if history != nil {
		horizon := cfg.Horizon()
		for interval := range history {
			if interval.End.Before(horizon) {
				break
			}
			addToBuckets(totals, cfg, interval)
		}
	}
	return totals, nil
}

// AggregateSlice is Aggregate over an already materialized history.
func AggregateSlice(cfg Config, current []Interval, history []Interval) (Totals, error) {
	return Aggregate(cfg, current, func(yield func(Interval) bool) {
		for _, interval := range history {
			if !yield(interval) {
				return
			}
		}
	})
}

// addToBuckets classifies one interval against every bucket and
// accumulates its overlap. Exactly one case applies per bucket:
// disjoint, fully inside, overlapping the bucket's end, overlapping its
// start, or covering the whole bucket. A fall-through (interval
// touching a bucket boundary from outside, or Start after End) carries
// zero overlap and adds nothing.
func addToBuckets(totals Totals, cfg Config, interval Interval) {
	for n := range totals {
		bucketStart := cfg.Now.Add(-time.Duration(n+1) * cfg.Size)
		bucketEnd := cfg.Now.Add(-time.Duration(n) * cfg.Size)

		if interval.End.Before(bucketStart) || interval.Start.After(bucketEnd) {
			continue
		}

		startIn := inBucket(interval.Start, bucketStart, bucketEnd)
		endIn := inBucket(interval.End, bucketStart, bucketEnd)

		switch {
		case startIn && endIn:
			totals[n] += interval.End.Sub(interval.Start)
		case startIn:
			totals[n] += bucketEnd.Sub(interval.Start)
		case endIn:
			totals[n] += interval.End.Sub(bucketStart)
		case interval.Start.Before(bucketStart) && !interval.End.Before(bucketEnd):
			// The interval swallows the bucket entirely: the bucket is
			// busy for its full span, not for one arbitrary unit. End
			// exactly on the bucket's upper bound still covers the whole
			// half-open bucket, an in-progress interval ends exactly at
			// Now, which is bucket 0's upper bound.
			totals[n] += cfg.Size
		}
	}
}

// inBucket is the half-open membership test: bucketStart <= t < bucketEnd.
func inBucket(t, bucketStart, bucketEnd time.Time) bool {
	return !t.Before(bucketStart) && t.Before(bucketEnd)
}
