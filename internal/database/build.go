package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/forgeboard/server/pkg/build/aggregates"
	er "github.com/mcorbin/corbierror"
)

type build struct {
	ID        string
	WorkerID  string `db:"worker_id"`
	BuilderID string `db:"builder_id"`
	Branch    *string
	Revision  *string
	StartedAt time.Time  `db:"started_at"`
	EndedAt   *time.Time `db:"ended_at"`
}

const buildColumns = "build.id, build.worker_id, build.builder_id, build.branch, build.revision, build.started_at, build.ended_at"

func toBuild(b *build) *aggregates.Build {
	result := &aggregates.Build{
		ID:        b.ID,
		WorkerID:  b.WorkerID,
		BuilderID: b.BuilderID,
		Branch:    b.Branch,
		Revision:  b.Revision,
		StartedAt: b.StartedAt.UTC(),
	}
	if b.EndedAt != nil {
		ended := b.EndedAt.UTC()
		result.EndedAt = &ended
	}
	return result
}

func (c *Database) CreateBuild(ctx context.Context, bd *aggregates.Build) error {
	dbBuild := build{
		ID:        bd.ID,
		WorkerID:  bd.WorkerID,
		BuilderID: bd.BuilderID,
		Branch:    bd.Branch,
		Revision:  bd.Revision,
		StartedAt: bd.StartedAt,
		EndedAt:   bd.EndedAt,
	}
	result, err := c.db.NamedExecContext(ctx, "INSERT INTO build (id, worker_id, builder_id, branch, revision, started_at, ended_at) VALUES (:id, :worker_id, :builder_id, :branch, :revision, :started_at, :ended_at)", dbBuild)
	if err != nil {
		return fmt.Errorf("fail to create build %s: %w", bd.ID, err)
	}
	return checkResult(result, 1)
}

func (c *Database) GetBuild(ctx context.Context, id string) (*aggregates.Build, error) {
	dbBuild := build{}
	err := c.db.GetContext(ctx, &dbBuild, fmt.Sprintf("SELECT %s FROM build WHERE id=$1", buildColumns), id)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("fail to get build %s: %w", id, err)
		}
		return nil, er.New("build not found", er.NotFound, true)
	}
	return toBuild(&dbBuild), nil
}

// FinishBuild closes a running build. Finishing an already finished
// build is a conflict, the original end timestamp is kept.
func (c *Database) FinishBuild(ctx context.Context, id string, endedAt time.Time) error {
	existing, err := c.GetBuild(ctx, id)
	if err != nil {
		return err
	}
	if existing.EndedAt != nil {
		return er.New("the build is already finished", er.Conflict, true)
	}
	result, err := c.db.ExecContext(ctx, "UPDATE build SET ended_at=$1 WHERE id=$2 AND ended_at IS NULL", endedAt, id)
	if err != nil {
		return fmt.Errorf("fail to finish build %s: %w", id, err)
	}
	return checkResult(result, 1)
}

func (c *Database) ListRunningBuilds(ctx context.Context, workerID string) ([]*aggregates.Build, error) {
	builds := []build{}
	err := c.db.SelectContext(ctx, &builds, fmt.Sprintf("SELECT %s FROM build WHERE worker_id=$1 AND ended_at IS NULL ORDER BY started_at DESC", buildColumns), workerID)
	if err != nil {
		return nil, fmt.Errorf("fail to list running builds for worker %s: %w", workerID, err)
	}
	return toBuilds(builds), nil
}

// ListFinishedBuilds returns the worker's finished builds ending at or
// after since, most recently ended first. The duty-cycle sweep relies
// on this ordering.
func (c *Database) ListFinishedBuilds(ctx context.Context, workerID string, since time.Time) ([]*aggregates.Build, error) {
	builds := []build{}
	err := c.db.SelectContext(ctx, &builds, fmt.Sprintf("SELECT %s FROM build WHERE worker_id=$1 AND ended_at IS NOT NULL AND ended_at >= $2 ORDER BY ended_at DESC", buildColumns), workerID, since)
	if err != nil {
		return nil, fmt.Errorf("fail to list finished builds for worker %s: %w", workerID, err)
	}
	return toBuilds(builds), nil
}

func toBuilds(builds []build) []*aggregates.Build {
	result := []*aggregates.Build{}
	for i := range builds {
		dbBuild := builds[i]
		result = append(result, toBuild(&dbBuild))
	}
	return result
}
