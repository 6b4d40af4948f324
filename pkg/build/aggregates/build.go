package aggregates

import "time"

type Build struct {
	ID        string `validate:"required"`
	WorkerID  string `db:"worker_id" validate:"required"`
	BuilderID string `db:"builder_id" validate:"required"`
	Branch    *string
	Revision  *string
	StartedAt time.Time  `db:"started_at"`
	EndedAt   *time.Time `db:"ended_at"`
}

// Running reports whether the build is still in progress.
func (b *Build) Running() bool {
	return b.EndedAt == nil
}
