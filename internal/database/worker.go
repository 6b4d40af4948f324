package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/forgeboard/server/pkg/worker/aggregates"
	er "github.com/mcorbin/corbierror"
)

type worker struct {
	ID            string
	Name          string
	Description   *string
	Labels        *string
	Version       *string
	Admin         *string
	Host          *string
	Paused        bool
	Graceful      bool
	Connected     bool
	ConnectCount  int        `db:"connect_count"`
	LastHeardFrom *time.Time `db:"last_heard_from"`
	CreatedAt     time.Time  `db:"created_at"`
}

const workerColumns = "worker.id, worker.name, worker.description, worker.labels, worker.version, worker.admin, worker.host, worker.paused, worker.graceful, worker.connected, worker.connect_count, worker.last_heard_from, worker.created_at"

func toWorker(w *worker) (*aggregates.Worker, error) {
	labels, err := stringToLabels(w.Labels)
	if err != nil {
		return nil, err
	}
	return &aggregates.Worker{
		ID:            w.ID,
		Name:          w.Name,
		Description:   w.Description,
		Labels:        labels,
		Version:       w.Version,
		Admin:         w.Admin,
		Host:          w.Host,
		Paused:        w.Paused,
		Graceful:      w.Graceful,
		Connected:     w.Connected,
		ConnectCount:  w.ConnectCount,
		LastHeardFrom: w.LastHeardFrom,
		CreatedAt:     w.CreatedAt.UTC(),
	}, nil
}

func (c *Database) CreateWorker(ctx context.Context, wk *aggregates.Worker) error {
	var checkExists worker
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
	_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", wk.Name)
	if err != nil {
		return err
	}
	err = tx.GetContext(ctx, &checkExists, "SELECT worker.id, worker.name FROM worker WHERE name=$1", wk.Name)
	if err != nil {
		if err != sql.ErrNoRows {
			return fmt.Errorf("fail to get worker %s: %w", wk.Name, err)
		}
	} else {
		return er.Newf("a worker named %s already exists", er.Conflict, true, wk.Name)
	}
	labels, err := labelsToString(wk.Labels)
	if err != nil {
		return err
	}
	dbWorker := worker{
		ID:            wk.ID,
		Name:          wk.Name,
		Description:   wk.Description,
		Labels:        labels,
		Version:       wk.Version,
		Admin:         wk.Admin,
		Host:          wk.Host,
		Paused:        wk.Paused,
		Graceful:      wk.Graceful,
		Connected:     wk.Connected,
		ConnectCount:  wk.ConnectCount,
		LastHeardFrom: wk.LastHeardFrom,
		CreatedAt:     wk.CreatedAt,
	}
	result, err := tx.NamedExecContext(ctx, "INSERT INTO worker (id, name, description, labels, version, admin, host, paused, graceful, connected, connect_count, last_heard_from, created_at) VALUES (:id, :name, :description, :labels, :version, :admin, :host, :paused, :graceful, :connected, :connect_count, :last_heard_from, :created_at)", dbWorker)
	if err != nil {
		return fmt.Errorf("fail to create worker %s: %w", wk.Name, err)
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

func (c *Database) GetWorker(ctx context.Context, id string) (*aggregates.Worker, error) {
	dbWorker := worker{}
	err := c.db.GetContext(ctx, &dbWorker, fmt.Sprintf("SELECT %s FROM worker WHERE id=$1", workerColumns), id)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("fail to get worker %s: %w", id, err)
		}
		return nil, er.New("worker not found", er.NotFound, true)
	}
	return toWorker(&dbWorker)
}

func (c *Database) GetWorkerByName(ctx context.Context, name string) (*aggregates.Worker, error) {
	dbWorker := worker{}
	err := c.db.GetContext(ctx, &dbWorker, fmt.Sprintf("SELECT %s FROM worker WHERE name=$1", workerColumns), name)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("fail to get worker %s: %w", name, err)
		}
		return nil, er.New("worker not found", er.NotFound, true)
	}
	return toWorker(&dbWorker)
}

func (c *Database) ListWorkers(ctx context.Context) ([]*aggregates.Worker, error) {
	workers := []worker{}
	err := c.db.SelectContext(ctx, &workers, fmt.Sprintf("SELECT %s FROM worker ORDER BY name", workerColumns))
	if err != nil {
		return nil, fmt.Errorf("fail to list workers: %w", err)
	}
	result := []*aggregates.Worker{}
	for i := range workers {
		dbWorker := workers[i]
		wk, err := toWorker(&dbWorker)
		if err != nil {
			return nil, err
		}
		result = append(result, wk)
	}
	return result, nil
}

func (c *Database) DeleteWorker(ctx context.Context, id string) error {
	_, err := c.GetWorker(ctx, id)
	if err != nil {
		return err
	}
	result, err := c.db.ExecContext(ctx, "DELETE FROM worker WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("fail to delete worker: %w", err)
	}
	return checkResult(result, 1)
}

func (c *Database) SetWorkerPaused(ctx context.Context, id string, paused bool) error {
	result, err := c.db.ExecContext(ctx, "UPDATE worker SET paused=$1 WHERE id=$2", paused, id)
	if err != nil {
		return fmt.Errorf("fail to update worker paused flag: %w", err)
	}
	return checkResult(result, 1)
}

func (c *Database) SetWorkerGraceful(ctx context.Context, id string, graceful bool) error {
	result, err := c.db.ExecContext(ctx, "UPDATE worker SET graceful=$1 WHERE id=$2", graceful, id)
	if err != nil {
		return fmt.Errorf("fail to update worker graceful flag: %w", err)
	}
	return checkResult(result, 1)
}

// MarkWorkerConnected also clears the graceful-shutdown flag: a worker
// coming back counts as a fresh session.
func (c *Database) MarkWorkerConnected(ctx context.Context, id string) error {
	now := time.Now().UTC()
	result, err := c.db.ExecContext(ctx, "UPDATE worker SET connected=true, graceful=false, connect_count=connect_count+1, last_heard_from=$1 WHERE id=$2", now, id)
	if err != nil {
		return fmt.Errorf("fail to mark worker connected: %w", err)
	}
	return checkResult(result, 1)
}

func (c *Database) MarkWorkerDisconnected(ctx context.Context, id string) error {
	result, err := c.db.ExecContext(ctx, "UPDATE worker SET connected=false WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("fail to mark worker disconnected: %w", err)
	}
	return checkResult(result, 1)
}

func (c *Database) RefreshWorkerContact(ctx context.Context, id string) error {
	now := time.Now().UTC()
	result, err := c.db.ExecContext(ctx, "UPDATE worker SET last_heard_from=$1 WHERE id=$2", now, id)
	if err != nil {
		return fmt.Errorf("fail to refresh worker contact: %w", err)
	}
	return checkResult(result, 1)
}

func (c *Database) CountWorkers(ctx context.Context) (int, error) {
	var count int
	row := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM worker")
	err := row.Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
