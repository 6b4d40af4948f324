package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgeboard/server/config"
	"github.com/forgeboard/server/internal/database"
	"github.com/forgeboard/server/internal/http"
	"github.com/forgeboard/server/internal/http/handlers"
	"github.com/forgeboard/server/internal/traces"
	"github.com/forgeboard/server/pkg/build"
	"github.com/forgeboard/server/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func buildServerCmd(logger *slog.Logger) *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Runs the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			err := runServer(logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(2)
			}

		},
	}
	return serverCmd
}

func runServer(logger *slog.Logger) error {
	file, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("fail to read configuration file: %w", err)
	}
	var config config.Configuration
	if err := yaml.Unmarshal(file, &config); err != nil {
		return fmt.Errorf("fail to parse yaml configuration file: %w", err)
	}
	var bucketSize time.Duration
	if config.Workers.DutyCycleBucketSize != "" {
		bucketSize, err = time.ParseDuration(config.Workers.DutyCycleBucketSize)
		if err != nil {
			return fmt.Errorf("invalid duty cycle bucket size: %w", err)
		}
	}
	tracesShutdown, err := traces.Setup(context.Background(), config.Tracing)
	if err != nil {
		return err
	}
	config.HTTP.Tracing = config.Tracing.Enabled
	store, err := database.New(logger, config.Database)
	if err != nil {
		return err
	}
	workerService := worker.New(logger, store, config.Workers.DutyCycleBuckets, bucketSize)
	buildService := build.New(logger, store)
	handlersBuilder := handlers.NewBuilder(workerService, buildService)
	server, err := http.NewServer(logger, config.HTTP, prometheus.DefaultRegisterer.(*prometheus.Registry), handlersBuilder)
	if err != nil {
		return err
	}
	signals := make(chan os.Signal, 1)
	errChan := make(chan error)

	signal.Notify(
		signals,
		syscall.SIGINT,
		syscall.SIGTERM)

	server.Start()
	go func() {
		for sig := range signals {
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				logger.Info(fmt.Sprintf("received signal %s, starting shutdown", sig))
				signal.Stop(signals)
				err := server.Stop()
				if err != nil {
					errChan <- err
				}
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracesShutdown(ctx); err != nil {
					logger.Error(fmt.Sprintf("fail to stop the tracer provider: %s", err.Error()))
				}
				errChan <- nil
			}

		}
	}()
	exitErr := <-errChan
	return exitErr
}
