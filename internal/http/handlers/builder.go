package handlers

import (
	"context"
	"time"

	buildaggregates "github.com/forgeboard/server/pkg/build/aggregates"
	"github.com/forgeboard/server/pkg/worker/aggregates"
)

type WorkerService interface {
	RegisterWorker(ctx context.Context, worker *aggregates.Worker) error
	GetWorker(ctx context.Context, id string) (*aggregates.Worker, error)
	GetWorkerByName(ctx context.Context, name string) (*aggregates.Worker, error)
	ListWorkers(ctx context.Context) ([]*aggregates.Worker, error)
	DeleteWorker(ctx context.Context, id string) error
	PauseWorker(ctx context.Context, id string, paused bool) error
	GracefulShutdown(ctx context.Context, id string) error
	MarkConnected(ctx context.Context, id string) error
	MarkDisconnected(ctx context.Context, id string) error
	Heartbeat(ctx context.Context, id string) error
	CreateBuilder(ctx context.Context, builder *aggregates.Builder) error
	ListBuilders(ctx context.Context) ([]*aggregates.Builder, error)
	AssignWorker(ctx context.Context, builderID string, workerID string) error
	ListBuildersForWorker(ctx context.Context, workerID string) ([]*aggregates.Builder, error)
	DutyCycle(ctx context.Context, workerID string) ([]float64, error)
}

type BuildService interface {
	StartBuild(ctx context.Context, build *buildaggregates.Build) error
	FinishBuild(ctx context.Context, id string) error
	ListRunningBuilds(ctx context.Context, workerID string) ([]*buildaggregates.Build, error)
	ListFinishedBuilds(ctx context.Context, workerID string, since time.Time) ([]*buildaggregates.Build, error)
}

type Builder struct {
	worker WorkerService
	build  BuildService
}

func NewBuilder(worker WorkerService, build BuildService) *Builder {
	return &Builder{
		worker: worker,
		build:  build,
	}
}
