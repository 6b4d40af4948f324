package aggregates

import "time"

type Worker struct {
	ID            string `validate:"required"`
	Name          string `validate:"required"`
	Description   *string
	Labels        map[string]string
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
