package worker

import (
	"context"
	"log/slog"
	"time"

	buildaggregates "github.com/forgeboard/server/pkg/build/aggregates"
	"github.com/forgeboard/server/pkg/worker/aggregates"
)

type Store interface {
	CreateWorker(ctx context.Context, worker *aggregates.Worker) error
	GetWorker(ctx context.Context, id string) (*aggregates.Worker, error)
	GetWorkerByName(ctx context.Context, name string) (*aggregates.Worker, error)
	ListWorkers(ctx context.Context) ([]*aggregates.Worker, error)
	DeleteWorker(ctx context.Context, id string) error
	SetWorkerPaused(ctx context.Context, id string, paused bool) error
	SetWorkerGraceful(ctx context.Context, id string, graceful bool) error
	MarkWorkerConnected(ctx context.Context, id string) error
	MarkWorkerDisconnected(ctx context.Context, id string) error
	RefreshWorkerContact(ctx context.Context, id string) error
	CountWorkers(ctx context.Context) (int, error)
	CreateBuilder(ctx context.Context, builder *aggregates.Builder) error
	ListBuilders(ctx context.Context) ([]*aggregates.Builder, error)
	AssignWorker(ctx context.Context, builderID string, workerID string) error
	ListBuildersForWorker(ctx context.Context, workerID string) ([]*aggregates.Builder, error)
	ListRunningBuilds(ctx context.Context, workerID string) ([]*buildaggregates.Build, error)
	ListFinishedBuilds(ctx context.Context, workerID string, since time.Time) ([]*buildaggregates.Build, error)
}

const (
	// A trailing week of day-sized buckets, the partition the duty
	// cycle pages have always shown.
	DefaultDutyCycleBuckets    = 7
	DefaultDutyCycleBucketSize = 24 * time.Hour
)

type Service struct {
	logger     *slog.Logger
	store      Store
	buckets    int
	bucketSize time.Duration
}

func New(logger *slog.Logger, store Store, buckets int, bucketSize time.Duration) *Service {
	if buckets == 0 {
		buckets = DefaultDutyCycleBuckets
	}
	if bucketSize == 0 {
		bucketSize = DefaultDutyCycleBucketSize
	}
	return &Service{
		logger:     logger,
		store:      store,
		buckets:    buckets,
		bucketSize: bucketSize,
	}
}
