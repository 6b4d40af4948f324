package handlers

import (
	"fmt"
	"net/http"

	"github.com/forgeboard/server/pkg/client"
	"github.com/forgeboard/server/pkg/worker"
	"github.com/forgeboard/server/pkg/worker/aggregates"
	"github.com/labstack/echo/v4"
)

func toBuilderOutput(builder aggregates.Builder) client.Builder {
	result := client.Builder{
		ID:        builder.ID,
		Name:      builder.Name,
		CreatedAt: builder.CreatedAt,
	}
	if builder.Description != nil {
		result.Description = *builder.Description
	}
	return result
}

func (b *Builder) CreateBuilder(ec echo.Context) error {
	var payload client.CreateBuilderInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	bd := aggregates.Builder{
		Name: payload.Name,
	}
	if payload.Description != "" {
		bd.Description = &payload.Description
	}

	worker.InitBuilder(&bd)
	err := b.worker.CreateBuilder(ec.Request().Context(), &bd)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, NewResponse(fmt.Sprintf("Builder %s created", bd.Name)))
}

func (b *Builder) ListBuilders(ec echo.Context) error {
	builders, err := b.worker.ListBuilders(ec.Request().Context())
	if err != nil {
		return err
	}
	result := client.ListBuildersOutput{
		Result: []client.Builder{},
	}
	for i := range builders {
		result.Result = append(result.Result, toBuilderOutput(*builders[i]))
	}
	return ec.JSON(http.StatusOK, &result)
}

func (b *Builder) AssignWorker(ec echo.Context) error {
	var payload client.AssignWorkerInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	err := b.worker.AssignWorker(ec.Request().Context(), payload.BuilderID, payload.WorkerID)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("Worker assigned to builder"))
}
