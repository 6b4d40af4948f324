package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/forgeboard/server/internal/util"
	"github.com/forgeboard/server/internal/validator"
	"github.com/forgeboard/server/pkg/worker/aggregates"
	er "github.com/mcorbin/corbierror"
)

func InitWorker(worker *aggregates.Worker) {
	worker.ID = util.NewUUID()
	worker.CreatedAt = time.Now().UTC()
}

func InitBuilder(builder *aggregates.Builder) {
	builder.ID = util.NewUUID()
	builder.CreatedAt = time.Now().UTC()
}

func (s *Service) RegisterWorker(ctx context.Context, worker *aggregates.Worker) error {
	s.logger.Info(fmt.Sprintf("registering worker %s", worker.Name))
	err := validator.Validator.Struct(*worker)
	if err != nil {
		return err
	}
	return s.store.CreateWorker(ctx, worker)
}

func (s *Service) GetWorker(ctx context.Context, id string) (*aggregates.Worker, error) {
	return s.store.GetWorker(ctx, id)
}

func (s *Service) GetWorkerByName(ctx context.Context, name string) (*aggregates.Worker, error) {
	return s.store.GetWorkerByName(ctx, name)
}

func (s *Service) ListWorkers(ctx context.Context) ([]*aggregates.Worker, error) {
	return s.store.ListWorkers(ctx)
}

func (s *Service) DeleteWorker(ctx context.Context, id string) error {
	s.logger.Info(fmt.Sprintf("deleting worker %s", id))
	return s.store.DeleteWorker(ctx, id)
}

// PauseWorker toggles the paused flag. A paused worker stays connected
// but should not be handed new builds.
func (s *Service) PauseWorker(ctx context.Context, id string, paused bool) error {
	s.logger.Info(fmt.Sprintf("setting worker %s paused=%t", id, paused))
	return s.store.SetWorkerPaused(ctx, id, paused)
}

// GracefulShutdown flags the worker to disconnect once its running
// builds are finished. The flag is one-way, connecting again clears it
// on the worker side.
func (s *Service) GracefulShutdown(ctx context.Context, id string) error {
	s.logger.Info(fmt.Sprintf("requesting graceful shutdown of worker %s", id))
	return s.store.SetWorkerGraceful(ctx, id, true)
}

func (s *Service) MarkConnected(ctx context.Context, id string) error {
	s.logger.Info(fmt.Sprintf("worker %s connected", id))
	return s.store.MarkWorkerConnected(ctx, id)
}

func (s *Service) MarkDisconnected(ctx context.Context, id string) error {
	s.logger.Info(fmt.Sprintf("worker %s disconnected", id))
	return s.store.MarkWorkerDisconnected(ctx, id)
}

// Heartbeat refreshes the worker's last-heard-from timestamp.
func (s *Service) Heartbeat(ctx context.Context, id string) error {
	return s.store.RefreshWorkerContact(ctx, id)
}

func (s *Service) CountWorkers(ctx context.Context) (int, error) {
	return s.store.CountWorkers(ctx)
}

func (s *Service) CreateBuilder(ctx context.Context, builder *aggregates.Builder) error {
	s.logger.Info(fmt.Sprintf("creating builder %s", builder.Name))
	err := validator.Validator.Struct(*builder)
	if err != nil {
		return err
	}
	return s.store.CreateBuilder(ctx, builder)
}

func (s *Service) ListBuilders(ctx context.Context) ([]*aggregates.Builder, error) {
	return s.store.ListBuilders(ctx)
}

// AssignWorker attaches a worker to a builder. Which builds belong to
// which worker is derived from these assignments plus the build
// records, never from the aggregation core.
func (s *Service) AssignWorker(ctx context.Context, builderID string, workerID string) error {
	s.logger.Info(fmt.Sprintf("assigning worker %s to builder %s", workerID, builderID))
	if builderID == workerID {
		return er.New("builder and worker identifiers must differ", er.BadRequest, true)
	}
	return s.store.AssignWorker(ctx, builderID, workerID)
}

func (s *Service) ListBuildersForWorker(ctx context.Context, workerID string) ([]*aggregates.Builder, error) {
	return s.store.ListBuildersForWorker(ctx, workerID)
}

func MatchLabels(worker *aggregates.Worker, labels map[string]string) bool {
	for labelKey, labelVal := range labels {
		val, ok := worker.Labels[labelKey]
		if !ok {
			return false
		}
		if val != labelVal {
			return false
		}
	}
	return true
}
