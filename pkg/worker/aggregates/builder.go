package aggregates

import "time"

type Builder struct {
	ID          string `validate:"required"`
	Name        string `validate:"required"`
	Description *string
	CreatedAt   time.Time `db:"created_at"`
}
