package worker_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	mocks "github.com/forgeboard/server/mocks/github.com/forgeboard/server/pkg/worker"
	buildaggregates "github.com/forgeboard/server/pkg/build/aggregates"
	"github.com/forgeboard/server/pkg/worker"
	"github.com/forgeboard/server/pkg/worker/aggregates"
	er "github.com/mcorbin/corbierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDutyCycle(t *testing.T) {
	store := new(mocks.MockStore)
	logger := slog.Default()
	service := worker.New(logger, store, 4, time.Hour)

	now := time.Now().UTC()
	ended := now.Add(-90 * time.Minute)
	stale := now.Add(-10 * time.Hour)

	store.On("GetWorker", mock.Anything, "w1").Return(&aggregates.Worker{ID: "w1", Name: "worker-1"}, nil)
	store.On("ListRunningBuilds", mock.Anything, "w1").Return([]*buildaggregates.Build{
		{ID: "b1", WorkerID: "w1", BuilderID: "builder-1", StartedAt: now.Add(-30 * time.Minute)},
	}, nil)
	store.On("ListFinishedBuilds", mock.Anything, "w1", mock.Anything).Return([]*buildaggregates.Build{
		{ID: "b2", WorkerID: "w1", BuilderID: "builder-1", StartedAt: now.Add(-110 * time.Minute), EndedAt: &ended},
		// Ended before the horizon: must not contribute.
		{ID: "b3", WorkerID: "w1", BuilderID: "builder-1", StartedAt: stale.Add(-time.Hour), EndedAt: &stale},
	}, nil)

	fractions, err := service.DutyCycle(context.Background(), "w1")
	assert.NoError(t, err)
	assert.Len(t, fractions, 4)
	// Running build covers the last 30 minutes of bucket 0.
	assert.InDelta(t, 0.5, fractions[0], 0.01)
	// Finished build covers 20 minutes of bucket 1.
	assert.InDelta(t, 1.0/3, fractions[1], 0.01)
	assert.InDelta(t, 0.0, fractions[2], 0.01)
	assert.InDelta(t, 0.0, fractions[3], 0.01)
	store.AssertExpectations(t)
}

func TestDutyCycleIdle(t *testing.T) {
	store := new(mocks.MockStore)
	service := worker.New(slog.Default(), store, 0, 0)

	store.On("GetWorker", mock.Anything, "w1").Return(&aggregates.Worker{ID: "w1", Name: "worker-1"}, nil)
	store.On("ListRunningBuilds", mock.Anything, "w1").Return([]*buildaggregates.Build{}, nil)
	store.On("ListFinishedBuilds", mock.Anything, "w1", mock.Anything).Return([]*buildaggregates.Build{}, nil)

	fractions, err := service.DutyCycle(context.Background(), "w1")
	assert.NoError(t, err)
	assert.Len(t, fractions, worker.DefaultDutyCycleBuckets)
	for _, fraction := range fractions {
		assert.Equal(t, 0.0, fraction)
	}
}

func TestDutyCycleUnknownWorker(t *testing.T) {
	store := new(mocks.MockStore)
	service := worker.New(slog.Default(), store, 0, 0)

	store.On("GetWorker", mock.Anything, "missing").Return(nil, er.New("worker not found", er.NotFound, true))

	_, err := service.DutyCycle(context.Background(), "missing")
	assert.ErrorContains(t, err, "not found")
}
