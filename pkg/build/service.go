package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/forgeboard/server/pkg/build/aggregates"
)

type Store interface {
	CreateBuild(ctx context.Context, build *aggregates.Build) error
	GetBuild(ctx context.Context, id string) (*aggregates.Build, error)
	FinishBuild(ctx context.Context, id string, endedAt time.Time) error
	ListRunningBuilds(ctx context.Context, workerID string) ([]*aggregates.Build, error)
	ListFinishedBuilds(ctx context.Context, workerID string, since time.Time) ([]*aggregates.Build, error)
}

type Service struct {
	logger *slog.Logger
	store  Store
}

func New(logger *slog.Logger, store Store) *Service {
	return &Service{
		logger: logger,
		store:  store,
	}
}
