package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/forgeboard/server/pkg/client"
	"github.com/forgeboard/server/pkg/worker"
	"github.com/forgeboard/server/pkg/worker/aggregates"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	er "github.com/mcorbin/corbierror"
)

func toWorker(wk aggregates.Worker) client.Worker {
	result := client.Worker{
		ID:            wk.ID,
		Name:          wk.Name,
		Labels:        wk.Labels,
		Paused:        wk.Paused,
		Graceful:      wk.Graceful,
		Connected:     wk.Connected,
		ConnectCount:  wk.ConnectCount,
		LastHeardFrom: wk.LastHeardFrom,
		CreatedAt:     wk.CreatedAt,
	}
	if wk.Description != nil {
		result.Description = *wk.Description
	}
	if wk.Version != nil {
		result.Version = *wk.Version
	}
	if wk.Admin != nil {
		result.Admin = *wk.Admin
	}
	if wk.Host != nil {
		result.Host = *wk.Host
	}
	if wk.LastHeardFrom != nil {
		result.LastHeardFromAge = worker.AbbreviateAge(time.Since(*wk.LastHeardFrom))
	}
	return result
}

// resolveWorker accepts either a worker UUID or a worker name.
func (b *Builder) resolveWorker(ec echo.Context, identifier string) (*aggregates.Worker, error) {
	if _, err := uuid.Parse(identifier); err == nil {
		return b.worker.GetWorker(ec.Request().Context(), identifier)
	}
	return b.worker.GetWorkerByName(ec.Request().Context(), identifier)
}

func (b *Builder) RegisterWorker(ec echo.Context) error {
	var payload client.RegisterWorkerInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	labels := payload.Labels
	if labels == nil {
		labels = make(map[string]string)
	}

	wk := aggregates.Worker{
		Name:   payload.Name,
		Labels: labels,
	}
	if payload.Description != "" {
		wk.Description = &payload.Description
	}
	if payload.Version != "" {
		wk.Version = &payload.Version
	}
	if payload.Admin != "" {
		wk.Admin = &payload.Admin
	}
	if payload.Host != "" {
		wk.Host = &payload.Host
	}

	worker.InitWorker(&wk)
	err := b.worker.RegisterWorker(ec.Request().Context(), &wk)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, NewResponse(fmt.Sprintf("Worker %s registered", wk.Name)))
}

func (b *Builder) GetWorker(ec echo.Context) error {
	var payload client.GetWorkerInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	wk, err := b.resolveWorker(ec, payload.Identifier)
	if err != nil {
		return err
	}
	result := toWorker(*wk)
	if err := b.enrichWorker(ec, &result); err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, &result)
}

// enrichWorker attaches the builder names, the running build count and
// the duty cycles, the values the worker overview pages show.
func (b *Builder) enrichWorker(ec echo.Context, result *client.Worker) error {
	ctx := ec.Request().Context()
	builders, err := b.worker.ListBuildersForWorker(ctx, result.ID)
	if err != nil {
		return err
	}
	names := []string{}
	for _, bd := range builders {
		names = append(names, bd.Name)
	}
	result.Builders = names
	running, err := b.build.ListRunningBuilds(ctx, result.ID)
	if err != nil {
		return err
	}
	result.RunningBuilds = len(running)
	dutyCycles, err := b.worker.DutyCycle(ctx, result.ID)
	if err != nil {
		return err
	}
	result.DutyCycles = dutyCycles
	return nil
}

func (b *Builder) ListWorkers(ec echo.Context) error {
	var payload client.ListWorkersInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	// foo=bar,a=b
	labels := make(map[string]string)
	if payload.Labels != "" {
		for _, pair := range strings.Split(payload.Labels, ",") {
			kv := strings.Split(pair, "=")
			if len(kv) != 2 {
				return er.New("invalid labels parameter", er.BadRequest, true)
			}
			labels[kv[0]] = kv[1]
		}
	}
	workers, err := b.worker.ListWorkers(ec.Request().Context())
	if err != nil {
		return err
	}
	result := client.ListWorkersOutput{
		Result: []client.Worker{},
	}
	for i := range workers {
		if !worker.MatchLabels(workers[i], labels) {
			continue
		}
		wk := toWorker(*workers[i])
		if err := b.enrichWorker(ec, &wk); err != nil {
			return err
		}
		result.Result = append(result.Result, wk)
	}
	return ec.JSON(http.StatusOK, &result)
}

func (b *Builder) DeleteWorker(ec echo.Context) error {
	var payload client.DeleteWorkerInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	err := b.worker.DeleteWorker(ec.Request().Context(), payload.ID)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("Worker deleted"))
}

func (b *Builder) PauseWorker(ec echo.Context) error {
	return b.setPaused(ec, true, "Worker paused")
}

func (b *Builder) UnpauseWorker(ec echo.Context) error {
	return b.setPaused(ec, false, "Worker unpaused")
}

func (b *Builder) setPaused(ec echo.Context, paused bool, message string) error {
	var payload client.WorkerActionInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	err := b.worker.PauseWorker(ec.Request().Context(), payload.ID, paused)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse(message))
}

func (b *Builder) ShutdownWorker(ec echo.Context) error {
	var payload client.WorkerActionInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	err := b.worker.GracefulShutdown(ec.Request().Context(), payload.ID)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("Worker graceful shutdown requested"))
}

func (b *Builder) WorkerHeartbeat(ec echo.Context) error {
	var payload client.WorkerActionInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	err := b.worker.Heartbeat(ec.Request().Context(), payload.ID)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("Worker heartbeat received"))
}

func (b *Builder) WorkerConnect(ec echo.Context) error {
	var payload client.WorkerActionInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	err := b.worker.MarkConnected(ec.Request().Context(), payload.ID)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("Worker connected"))
}

func (b *Builder) WorkerDisconnect(ec echo.Context) error {
	var payload client.WorkerActionInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	err := b.worker.MarkDisconnected(ec.Request().Context(), payload.ID)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("Worker disconnected"))
}

func (b *Builder) GetWorkerDutyCycle(ec echo.Context) error {
	var payload client.GetDutyCycleInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	wk, err := b.resolveWorker(ec, payload.Identifier)
	if err != nil {
		return err
	}
	dutyCycles, err := b.worker.DutyCycle(ec.Request().Context(), wk.ID)
	if err != nil {
		return err
	}
	result := client.DutyCycleOutput{
		WorkerID:   wk.ID,
		DutyCycles: dutyCycles,
	}
	return ec.JSON(http.StatusOK, &result)
}
