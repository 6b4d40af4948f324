package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/forgeboard/server/internal/util"
	buildaggregates "github.com/forgeboard/server/pkg/build/aggregates"
	"github.com/forgeboard/server/pkg/worker/aggregates"
	"github.com/stretchr/testify/assert"
)

func createBuildFixtures(t *testing.T) (*aggregates.Worker, *aggregates.Builder) {
	t.Helper()
	worker := aggregates.Worker{
		ID:        util.NewUUID(),
		CreatedAt: time.Now().UTC(),
		Name:      "build-worker-" + util.NewUUID(),
	}
	err := TestComponent.CreateWorker(context.Background(), &worker)
	assert.NoError(t, err)
	builder := aggregates.Builder{
		ID:        util.NewUUID(),
		CreatedAt: time.Now().UTC(),
		Name:      "build-builder-" + util.NewUUID(),
	}
	err = TestComponent.CreateBuilder(context.Background(), &builder)
	assert.NoError(t, err)
	return &worker, &builder
}

func TestBuildLifecycle(t *testing.T) {
	worker, builder := createBuildFixtures(t)
	branch := "main"
	revision := "a1b2c3d"

	build := buildaggregates.Build{
		ID:        util.NewUUID(),
		WorkerID:  worker.ID,
		BuilderID: builder.ID,
		Branch:    &branch,
		Revision:  &revision,
		StartedAt: time.Now().UTC().Add(-10 * time.Minute),
	}
	err := TestComponent.CreateBuild(context.Background(), &build)
	assert.NoError(t, err)

	running, err := TestComponent.ListRunningBuilds(context.Background(), worker.ID)
	assert.NoError(t, err)
	assert.Len(t, running, 1)
	assert.True(t, running[0].Running())

	checkGet, err := TestComponent.GetBuild(context.Background(), build.ID)
	assert.NoError(t, err)
	assert.Equal(t, build.WorkerID, checkGet.WorkerID)
	assert.Equal(t, build.BuilderID, checkGet.BuilderID)
	assert.Nil(t, checkGet.EndedAt)

	endedAt := time.Now().UTC()
	err = TestComponent.FinishBuild(context.Background(), build.ID, endedAt)
	assert.NoError(t, err)

	err = TestComponent.FinishBuild(context.Background(), build.ID, endedAt)
	assert.ErrorContains(t, err, "already finished")

	running, err = TestComponent.ListRunningBuilds(context.Background(), worker.ID)
	assert.NoError(t, err)
	assert.Len(t, running, 0)

	err = TestComponent.FinishBuild(context.Background(), util.NewUUID(), endedAt)
	assert.ErrorContains(t, err, "not found")
}

func TestListFinishedBuildsOrdering(t *testing.T) {
	worker, builder := createBuildFixtures(t)
	now := time.Now().UTC()

	// Three finished builds plus one too old for the window.
	ends := []time.Time{
		now.Add(-3 * time.Hour),
		now.Add(-30 * time.Minute),
		now.Add(-90 * time.Minute),
		now.Add(-10 * 24 * time.Hour),
	}
	for _, end := range ends {
		started := end.Add(-20 * time.Minute)
		ended := end
		build := buildaggregates.Build{
			ID:        util.NewUUID(),
			WorkerID:  worker.ID,
			BuilderID: builder.ID,
			StartedAt: started,
			EndedAt:   &ended,
		}
		err := TestComponent.CreateBuild(context.Background(), &build)
		assert.NoError(t, err)
	}

	since := now.Add(-7 * 24 * time.Hour)
	finished, err := TestComponent.ListFinishedBuilds(context.Background(), worker.ID, since)
	assert.NoError(t, err)
	assert.Len(t, finished, 3)
	// Most recently ended first: the ordering the duty-cycle sweep needs.
	for i := 1; i < len(finished); i++ {
		assert.False(t, finished[i].EndedAt.After(*finished[i-1].EndedAt))
	}
}
