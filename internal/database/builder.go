package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/forgeboard/server/pkg/worker/aggregates"
	er "github.com/mcorbin/corbierror"
)

type builder struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time `db:"created_at"`
}

func toBuilder(b *builder) *aggregates.Builder {
	return &aggregates.Builder{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		CreatedAt:   b.CreatedAt.UTC(),
	}
}

func (c *Database) CreateBuilder(ctx context.Context, bd *aggregates.Builder) error {
	var checkExists builder
	tx := c.db.MustBegin()
	shouldRollback := true
	defer func() {
		if shouldRollback {
			err := tx.Rollback()
			if err != nil {
				c.Logger.Error(err.Error())
			}
		}
	}()
	_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", bd.Name)
	if err != nil {
		return err
	}
	err = tx.GetContext(ctx, &checkExists, "SELECT builder.id, builder.name FROM builder WHERE name=$1", bd.Name)
	if err != nil {
		if err != sql.ErrNoRows {
			return fmt.Errorf("fail to get builder %s: %w", bd.Name, err)
		}
	} else {
		return er.Newf("a builder named %s already exists", er.Conflict, true, bd.Name)
	}
	dbBuilder := builder{
		ID:          bd.ID,
		Name:        bd.Name,
		Description: bd.Description,
		CreatedAt:   bd.CreatedAt,
	}
	result, err := tx.NamedExecContext(ctx, "INSERT INTO builder (id, name, description, created_at) VALUES (:id, :name, :description, :created_at)", dbBuilder)
	if err != nil {
		return fmt.Errorf("fail to create builder %s: %w", bd.Name, err)
	}
	err = checkResult(result, 1)
	if err != nil {
		return err
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	shouldRollback = false
	return nil
}

func (c *Database) ListBuilders(ctx context.Context) ([]*aggregates.Builder, error) {
	builders := []builder{}
	err := c.db.SelectContext(ctx, &builders, "SELECT builder.id, builder.name, builder.description, builder.created_at FROM builder ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("fail to list builders: %w", err)
	}
	result := []*aggregates.Builder{}
	for i := range builders {
		dbBuilder := builders[i]
		result = append(result, toBuilder(&dbBuilder))
	}
	return result, nil
}

func (c *Database) AssignWorker(ctx context.Context, builderID string, workerID string) error {
	var count int
	row := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM builder_worker WHERE builder_id=$1 AND worker_id=$2", builderID, workerID)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("fail to check builder assignment: %w", err)
	}
	if count != 0 {
		return er.New("the worker is already assigned to this builder", er.Conflict, true)
	}
	result, err := c.db.ExecContext(ctx, "INSERT INTO builder_worker (builder_id, worker_id) VALUES ($1, $2)", builderID, workerID)
	if err != nil {
		return fmt.Errorf("fail to assign worker %s to builder %s: %w", workerID, builderID, err)
	}
	return checkResult(result, 1)
}

func (c *Database) ListBuildersForWorker(ctx context.Context, workerID string) ([]*aggregates.Builder, error) {
	builders := []builder{}
	err := c.db.SelectContext(ctx, &builders, "SELECT builder.id, builder.name, builder.description, builder.created_at FROM builder JOIN builder_worker ON builder_worker.builder_id = builder.id WHERE builder_worker.worker_id=$1 ORDER BY builder.name", workerID)
	if err != nil {
		return nil, fmt.Errorf("fail to list builders for worker %s: %w", workerID, err)
	}
	result := []*aggregates.Builder{}
	for i := range builders {
		dbBuilder := builders[i]
		result = append(result, toBuilder(&dbBuilder))
	}
	return result, nil
}
