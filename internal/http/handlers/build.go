package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/forgeboard/server/pkg/build"
	buildaggregates "github.com/forgeboard/server/pkg/build/aggregates"
	"github.com/forgeboard/server/pkg/client"
	"github.com/labstack/echo/v4"
)

// recentBuildsWindow bounds the "recent" list on the worker page.
const recentBuildsWindow = 7 * 24 * time.Hour

func toBuildOutput(bd buildaggregates.Build) client.Build {
	result := client.Build{
		ID:        bd.ID,
		WorkerID:  bd.WorkerID,
		BuilderID: bd.BuilderID,
		StartedAt: bd.StartedAt,
		EndedAt:   bd.EndedAt,
	}
	if bd.Branch != nil {
		result.Branch = *bd.Branch
	}
	if bd.Revision != nil {
		result.Revision = *bd.Revision
	}
	return result
}

func (b *Builder) StartBuild(ec echo.Context) error {
	var payload client.StartBuildInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	bd := buildaggregates.Build{
		WorkerID:  payload.WorkerID,
		BuilderID: payload.BuilderID,
	}
	if payload.Branch != "" {
		bd.Branch = &payload.Branch
	}
	if payload.Revision != "" {
		bd.Revision = &payload.Revision
	}

	build.InitBuild(&bd)
	err := b.build.StartBuild(ec.Request().Context(), &bd)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, NewResponse(fmt.Sprintf("Build %s started", bd.ID)))
}

func (b *Builder) FinishBuild(ec echo.Context) error {
	var payload client.FinishBuildInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	err := b.build.FinishBuild(ec.Request().Context(), payload.ID)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("Build finished"))
}

func (b *Builder) ListWorkerBuilds(ec echo.Context) error {
	var payload client.ListWorkerBuildsInput
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
	ctx := ec.Request().Context()
	running, err := b.build.ListRunningBuilds(ctx, wk.ID)
	if err != nil {
		return err
	}
	since := time.Now().UTC().Add(-recentBuildsWindow)
	recent, err := b.build.ListFinishedBuilds(ctx, wk.ID, since)
	if err != nil {
		return err
	}
	result := client.ListWorkerBuildsOutput{
		Current: []client.Build{},
		Recent:  []client.Build{},
	}
	for i := range running {
		result.Current = append(result.Current, toBuildOutput(*running[i]))
	}
	for i := range recent {
		result.Recent = append(result.Recent, toBuildOutput(*recent[i]))
	}
	return ec.JSON(http.StatusOK, &result)
}
