package dutycycle_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/forgeboard/server/pkg/dutycycle"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func config(count int, size time.Duration) dutycycle.Config {
	return dutycycle.Config{
		Count: count,
		Size:  size,
		Now:   now,
	}
}

func TestAggregateInvalidConfig(t *testing.T) {
	cases := []dutycycle.Config{
		{Count: 0, Size: time.Hour, Now: now},
		{Count: -1, Size: time.Hour, Now: now},
		{Count: 7, Size: 0, Now: now},
		{Count: 7, Size: -time.Second, Now: now},
	}
	for _, cfg := range cases {
		_, err := dutycycle.Aggregate(cfg, nil, nil)
		assert.Error(t, err)
	}
}

func TestAggregateEmpty(t *testing.T) {
	totals, err := dutycycle.Aggregate(config(7, 24*time.Hour), nil, nil)
	assert.NoError(t, err)
	assert.Len(t, totals, 7)
	for _, total := range totals {
		assert.Equal(t, time.Duration(0), total)
	}
}

func TestAggregateExactBucketSpan(t *testing.T) {
	size := time.Hour
	interval := dutycycle.Interval{
		Start: now.Add(-2 * size),
		End:   now.Add(-1 * size),
	}
	totals, err := dutycycle.AggregateSlice(config(3, size), nil, []dutycycle.Interval{interval})
	assert.NoError(t, err)
	assert.Equal(t, dutycycle.Totals{0, size, 0}, totals)
}

func TestAggregateFullWindowSaturation(t *testing.T) {
	size := 24 * time.Hour
	interval := dutycycle.Interval{
		Start: now.Add(-30 * 24 * time.Hour),
		End:   now.Add(time.Minute),
	}
	totals, err := dutycycle.AggregateSlice(config(7, size), nil, []dutycycle.Interval{interval})
	assert.NoError(t, err)
	for n := range totals {
		assert.Equal(t, size, totals[n], "bucket %d", n)
	}
}

func TestAggregateInProgressEndingAtNow(t *testing.T) {
	// An in-progress interval ends exactly at the Now snapshot. It must
	// still fill bucket 0 completely when it started before the bucket.
	size := 24 * time.Hour
	current := []dutycycle.Interval{
		{Start: now.Add(-3 * size), End: now},
	}
	totals, err := dutycycle.Aggregate(config(7, size), current, nil)
	assert.NoError(t, err)
	assert.Equal(t, dutycycle.Totals{size, size, size, 0, 0, 0, 0}, totals)
}

func TestAggregateZeroLengthInterval(t *testing.T) {
	size := time.Hour
	intervals := []dutycycle.Interval{
		{Start: now.Add(-30 * time.Minute), End: now.Add(-30 * time.Minute)},
	}
	totals, err := dutycycle.AggregateSlice(config(4, size), nil, intervals)
	assert.NoError(t, err)
	assert.Equal(t, dutycycle.Totals{0, 0, 0, 0}, totals)
}

func TestAggregateMalformedInterval(t *testing.T) {
	// Start after End: degraded contribution, never an error.
	size := time.Hour
	intervals := []dutycycle.Interval{
		{Start: now.Add(-10 * time.Minute), End: now.Add(-50 * time.Minute)},
	}
	totals, err := dutycycle.AggregateSlice(config(2, size), nil, intervals)
	assert.NoError(t, err)
	assert.Len(t, totals, 2)
}

func TestAggregateOutOfWindow(t *testing.T) {
	size := time.Hour
	cfg := config(3, size)
	intervals := []dutycycle.Interval{
		// Entirely before the window.
		{Start: now.Add(-10 * size), End: now.Add(-8 * size)},
		// Entirely after now.
		{Start: now.Add(time.Minute), End: now.Add(time.Hour)},
	}
	totals, err := dutycycle.Aggregate(cfg, intervals, nil)
	assert.NoError(t, err)
	assert.Equal(t, dutycycle.Totals{0, 0, 0}, totals)
}

func TestAggregateWeekScenario(t *testing.T) {
	// count=7, size=86400s, one interval [now-90000s, now-3600s):
	// bucket 0 gets 82800s, bucket 1 gets 3600s, the rest stay zero.
	size := 86400 * time.Second
	intervals := []dutycycle.Interval{
		{Start: now.Add(-90000 * time.Second), End: now.Add(-3600 * time.Second)},
	}
	totals, err := dutycycle.AggregateSlice(config(7, size), nil, intervals)
	assert.NoError(t, err)
	expected := dutycycle.Totals{82800 * time.Second, 3600 * time.Second, 0, 0, 0, 0, 0}
	assert.Equal(t, expected, totals)
}

func TestAggregateSplitAdditivity(t *testing.T) {
	// Aggregating [a,m) and [m,b) separately then summing must equal
	// aggregating [a,b), including when m sits on a bucket boundary.
	size := time.Hour
	cfg := config(5, size)
	a := now.Add(-4*time.Hour - 30*time.Minute)
	b := now.Add(-20 * time.Minute)
	for _, m := range []time.Time{
		now.Add(-2*time.Hour - 17*time.Minute),
		now.Add(-3 * time.Hour), // bucket boundary
	} {
		whole, err := dutycycle.AggregateSlice(cfg, nil, []dutycycle.Interval{{Start: a, End: b}})
		assert.NoError(t, err)
		split, err := dutycycle.AggregateSlice(cfg, nil, []dutycycle.Interval{
			{Start: a, End: m},
			{Start: m, End: b},
		})
		assert.NoError(t, err)
		assert.Equal(t, whole, split)
	}
}

func TestAggregateOverlappingInputsExceedBucket(t *testing.T) {
	// Overlapping intervals are accepted: contributions accumulate and
	// the fraction can exceed 1.0.
	size := time.Hour
	interval := dutycycle.Interval{Start: now.Add(-time.Hour), End: now}
	totals, err := dutycycle.AggregateSlice(config(2, size), nil, []dutycycle.Interval{interval, interval})
	assert.NoError(t, err)
	assert.Equal(t, 2*size, totals[0])
	fractions := totals.DutyCycle(size)
	assert.Equal(t, 2.0, fractions[0])
	assert.Equal(t, 0.0, fractions[1])
}

func TestAggregateIdempotent(t *testing.T) {
	size := time.Hour
	cfg := config(4, size)
	intervals := []dutycycle.Interval{
		{Start: now.Add(-90 * time.Minute), End: now.Add(-10 * time.Minute)},
		{Start: now.Add(-3 * time.Hour), End: now.Add(-2 * time.Hour)},
	}
	first, err := dutycycle.AggregateSlice(cfg, nil, intervals)
	assert.NoError(t, err)
	second, err := dutycycle.AggregateSlice(cfg, nil, intervals)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregateEarlyTerminationStopsSweep(t *testing.T) {
	size := time.Hour
	cfg := config(2, size)
	horizon := cfg.Horizon()
	consumed := 0
	history := func(yield func(dutycycle.Interval) bool) {
		intervals := []dutycycle.Interval{
			{Start: now.Add(-30 * time.Minute), End: now.Add(-10 * time.Minute)},
			{Start: horizon.Add(-2 * time.Hour), End: horizon.Add(-time.Hour)},
			{Start: horizon.Add(-4 * time.Hour), End: horizon.Add(-3 * time.Hour)},
		}
		for _, interval := range intervals {
			consumed++
			if !yield(interval) {
				return
			}
		}
	}
	totals, err := dutycycle.Aggregate(cfg, nil, history)
	assert.NoError(t, err)
	assert.Equal(t, dutycycle.Totals{20 * time.Minute, 0}, totals)
	// The sweep must stop on the first interval older than the horizon.
	assert.Equal(t, 2, consumed)
}

func TestAggregateEarlyTerminationMatchesFullSweep(t *testing.T) {
	// For any End-descending history, the truncated sweep and a full
	// unterminated sweep must agree.
	rng := rand.New(rand.NewSource(42))
	size := time.Hour
	cfg := config(6, size)
	for i := 0; i < 100; i++ {
		count := rng.Intn(30)
		intervals := make([]dutycycle.Interval, 0, count)
		for j := 0; j < count; j++ {
			end := now.Add(-time.Duration(rng.Intn(20*3600)) * time.Second)
			start := end.Add(-time.Duration(rng.Intn(8*3600)) * time.Second)
			intervals = append(intervals, dutycycle.Interval{Start: start, End: end})
		}
		// Sort by End descending, the ordering the early exit relies on.
		for a := range intervals {
			for b := a + 1; b < len(intervals); b++ {
				if intervals[b].End.After(intervals[a].End) {
					intervals[a], intervals[b] = intervals[b], intervals[a]
				}
			}
		}
		truncated, err := dutycycle.AggregateSlice(cfg, nil, intervals)
		assert.NoError(t, err)
		// Passing the intervals as current work disables the early exit.
		full, err := dutycycle.Aggregate(cfg, intervals, nil)
		assert.NoError(t, err)
		assert.Equal(t, full, truncated)
	}
}

func TestDutyCycleFractions(t *testing.T) {
	size := time.Hour
	totals := dutycycle.Totals{time.Hour, 30 * time.Minute, 0}
	fractions := totals.DutyCycle(size)
	assert.Equal(t, []float64{1.0, 0.5, 0.0}, fractions)
}

func TestHorizon(t *testing.T) {
	cfg := config(7, 24*time.Hour)
	assert.Equal(t, now.Add(-7*24*time.Hour), cfg.Horizon())
}
