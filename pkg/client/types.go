// Package client contains the input and output types of the Forgeboard
// HTTP API.
package client

import "time"

type Response struct {
	Messages []string `json:"messages"`
}

type RegisterWorkerInput struct {
	Name        string            `json:"name" validate:"required,max=255"`
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Version     string            `json:"version,omitempty"`
	Admin       string            `json:"admin,omitempty"`
	Host        string            `json:"host,omitempty"`
}

type GetWorkerInput struct {
	Identifier string `param:"identifier" validate:"required,max=255"`
}

type DeleteWorkerInput struct {
	ID string `param:"id" validate:"required,uuid"`
}

type WorkerActionInput struct {
	ID string `param:"id" validate:"required,uuid"`
}

type ListWorkersInput struct {
	// Comma-separated key=value pairs, for example "os=linux,arch=amd64".
	Labels string `query:"labels"`
}

type Worker struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Labels           map[string]string `json:"labels,omitempty"`
	Version          string            `json:"version,omitempty"`
	Admin            string            `json:"admin,omitempty"`
	Host             string            `json:"host,omitempty"`
	Paused           bool              `json:"paused"`
	Graceful         bool              `json:"graceful"`
	Connected        bool              `json:"connected"`
	ConnectCount     int               `json:"connect-count"`
	LastHeardFrom    *time.Time        `json:"last-heard-from,omitempty"`
	LastHeardFromAge string            `json:"last-heard-from-age,omitempty"`
	Builders         []string          `json:"builders,omitempty"`
	RunningBuilds    int               `json:"running-builds"`
	DutyCycles       []float64         `json:"duty-cycles,omitempty"`
	CreatedAt        time.Time         `json:"created-at"`
}

type ListWorkersOutput struct {
	Result []Worker `json:"result"`
}

type GetDutyCycleInput struct {
	Identifier string `param:"identifier" validate:"required,max=255"`
}

type DutyCycleOutput struct {
	WorkerID   string    `json:"worker-id"`
	DutyCycles []float64 `json:"duty-cycles"`
}

type CreateBuilderInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
}

type Builder struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created-at"`
}

type ListBuildersOutput struct {
	Result []Builder `json:"result"`
}

type AssignWorkerInput struct {
	BuilderID string `param:"id" validate:"required,uuid"`
	WorkerID  string `param:"worker_id" validate:"required,uuid"`
}

type StartBuildInput struct {
	WorkerID  string `json:"worker-id" validate:"required,uuid"`
	BuilderID string `json:"builder-id" validate:"required,uuid"`
	Branch    string `json:"branch,omitempty"`
	Revision  string `json:"revision,omitempty"`
}

type FinishBuildInput struct {
	ID string `param:"id" validate:"required,uuid"`
}

type Build struct {
	ID        string     `json:"id"`
	WorkerID  string     `json:"worker-id"`
	BuilderID string     `json:"builder-id"`
	Branch    string     `json:"branch,omitempty"`
	Revision  string     `json:"revision,omitempty"`
	StartedAt time.Time  `json:"started-at"`
	EndedAt   *time.Time `json:"ended-at,omitempty"`
}

type ListWorkerBuildsInput struct {
	Identifier string `param:"identifier" validate:"required,max=255"`
}

type ListWorkerBuildsOutput struct {
	Current []Build `json:"current"`
	Recent  []Build `json:"recent"`
}
