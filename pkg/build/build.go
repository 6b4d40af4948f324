// Package build records the work intervals of the workers: one row per
// build, opened when a worker picks up work and closed when it reports
// the build finished. These rows are the input the duty-cycle
// aggregation consumes.
package build

import (
	"context"
	"fmt"
	"time"

	"github.com/forgeboard/server/internal/util"
	"github.com/forgeboard/server/internal/validator"
	"github.com/forgeboard/server/pkg/build/aggregates"
)

func InitBuild(build *aggregates.Build) {
	build.ID = util.NewUUID()
	build.StartedAt = time.Now().UTC()
}

func (s *Service) StartBuild(ctx context.Context, build *aggregates.Build) error {
	s.logger.Info(fmt.Sprintf("starting build %s on worker %s", build.ID, build.WorkerID))
	err := validator.Validator.Struct(*build)
	if err != nil {
		return err
	}
	return s.store.CreateBuild(ctx, build)
}

// FinishBuild closes the build's work interval. The end timestamp is
// taken server-side so intervals stay consistent with the clock the
// duty-cycle buckets are derived from.
func (s *Service) FinishBuild(ctx context.Context, id string) error {
	s.logger.Info(fmt.Sprintf("finishing build %s", id))
	return s.store.FinishBuild(ctx, id, time.Now().UTC())
}

func (s *Service) GetBuild(ctx context.Context, id string) (*aggregates.Build, error) {
	return s.store.GetBuild(ctx, id)
}

func (s *Service) ListRunningBuilds(ctx context.Context, workerID string) ([]*aggregates.Build, error) {
	return s.store.ListRunningBuilds(ctx, workerID)
}

func (s *Service) ListFinishedBuilds(ctx context.Context, workerID string, since time.Time) ([]*aggregates.Build, error) {
	return s.store.ListFinishedBuilds(ctx, workerID, since)
}
