package database_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/forgeboard/server/internal/util"
	"github.com/forgeboard/server/pkg/worker/aggregates"
	"github.com/stretchr/testify/assert"
)

func TestWorkerCRUD(t *testing.T) {
	labels := map[string]string{"pool": "linux", "arch": "amd64"}
	description := "test worker"
	version := "2.4.1"
	admin := "ops@example.com"
	host := "worker-1.internal"

	worker := aggregates.Worker{
		ID:          util.NewUUID(),
		CreatedAt:   time.Now().UTC(),
		Name:        "test-worker",
		Description: &description,
		Labels:      labels,
		Version:     &version,
		Admin:       &admin,
		Host:        &host,
	}

	err := TestComponent.CreateWorker(context.Background(), &worker)
	assert.NoError(t, err)

	count, err := TestComponent.CountWorkers(context.Background())
	assert.NoError(t, err)
	assert.True(t, count > 0)

	err = TestComponent.CreateWorker(context.Background(), &worker)
	assert.ErrorContains(t, err, "already exists")

	checkGet, err := TestComponent.GetWorker(context.Background(), worker.ID)
	assert.NoError(t, err)
	if checkGet.ID == "" || checkGet.Name != worker.Name || !reflect.DeepEqual(checkGet.Description, worker.Description) || !reflect.DeepEqual(checkGet.Labels, worker.Labels) || checkGet.CreatedAt.IsZero() {
		t.Fatalf("Invalid worker returned by GetWorker\n%+v", checkGet)
	}
	assert.False(t, checkGet.Paused)
	assert.False(t, checkGet.Graceful)
	assert.False(t, checkGet.Connected)
	assert.Equal(t, 0, checkGet.ConnectCount)
	assert.Nil(t, checkGet.LastHeardFrom)

	checkGetByName, err := TestComponent.GetWorkerByName(context.Background(), worker.Name)
	assert.NoError(t, err)
	assert.Equal(t, worker.ID, checkGetByName.ID)

	listWorkers, err := TestComponent.ListWorkers(context.Background())
	assert.NoError(t, err)
	assert.True(t, len(listWorkers) > 0)

	err = TestComponent.SetWorkerPaused(context.Background(), worker.ID, true)
	assert.NoError(t, err)
	checkGet, err = TestComponent.GetWorker(context.Background(), worker.ID)
	assert.NoError(t, err)
	assert.True(t, checkGet.Paused)

	err = TestComponent.SetWorkerPaused(context.Background(), worker.ID, false)
	assert.NoError(t, err)
	checkGet, err = TestComponent.GetWorker(context.Background(), worker.ID)
	assert.NoError(t, err)
	assert.False(t, checkGet.Paused)

	err = TestComponent.SetWorkerGraceful(context.Background(), worker.ID, true)
	assert.NoError(t, err)
	checkGet, err = TestComponent.GetWorker(context.Background(), worker.ID)
	assert.NoError(t, err)
	assert.True(t, checkGet.Graceful)

	err = TestComponent.MarkWorkerConnected(context.Background(), worker.ID)
	assert.NoError(t, err)
	checkGet, err = TestComponent.GetWorker(context.Background(), worker.ID)
	assert.NoError(t, err)
	assert.True(t, checkGet.Connected)
	// Connecting again clears a pending graceful shutdown.
	assert.False(t, checkGet.Graceful)
	assert.Equal(t, 1, checkGet.ConnectCount)
	assert.NotNil(t, checkGet.LastHeardFrom)

	firstContact := *checkGet.LastHeardFrom
	err = TestComponent.RefreshWorkerContact(context.Background(), worker.ID)
	assert.NoError(t, err)
	checkGet, err = TestComponent.GetWorker(context.Background(), worker.ID)
	assert.NoError(t, err)
	assert.False(t, checkGet.LastHeardFrom.Before(firstContact))

	err = TestComponent.MarkWorkerDisconnected(context.Background(), worker.ID)
	assert.NoError(t, err)
	checkGet, err = TestComponent.GetWorker(context.Background(), worker.ID)
	assert.NoError(t, err)
	assert.False(t, checkGet.Connected)
	assert.Equal(t, 1, checkGet.ConnectCount)

	err = TestComponent.DeleteWorker(context.Background(), worker.ID)
	assert.NoError(t, err)

	err = TestComponent.DeleteWorker(context.Background(), worker.ID)
	assert.ErrorContains(t, err, "not found")
}

func TestBuilderAssignment(t *testing.T) {
	worker := aggregates.Worker{
		ID:        util.NewUUID(),
		CreatedAt: time.Now().UTC(),
		Name:      "assignment-worker",
	}
	err := TestComponent.CreateWorker(context.Background(), &worker)
	assert.NoError(t, err)

	builder := aggregates.Builder{
		ID:        util.NewUUID(),
		CreatedAt: time.Now().UTC(),
		Name:      "assignment-builder",
	}
	err = TestComponent.CreateBuilder(context.Background(), &builder)
	assert.NoError(t, err)

	err = TestComponent.CreateBuilder(context.Background(), &builder)
	assert.ErrorContains(t, err, "already exists")

	listBuilders, err := TestComponent.ListBuilders(context.Background())
	assert.NoError(t, err)
	assert.True(t, len(listBuilders) > 0)

	builders, err := TestComponent.ListBuildersForWorker(context.Background(), worker.ID)
	assert.NoError(t, err)
	assert.Len(t, builders, 0)

	err = TestComponent.AssignWorker(context.Background(), builder.ID, worker.ID)
	assert.NoError(t, err)

	err = TestComponent.AssignWorker(context.Background(), builder.ID, worker.ID)
	assert.ErrorContains(t, err, "already assigned")

	builders, err = TestComponent.ListBuildersForWorker(context.Background(), worker.ID)
	assert.NoError(t, err)
	assert.Len(t, builders, 1)
	assert.Equal(t, builder.ID, builders[0].ID)
}
