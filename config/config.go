package config

import (
	"github.com/forgeboard/server/internal/database"
	"github.com/forgeboard/server/internal/http"
	"github.com/forgeboard/server/internal/traces"
)

// Workers configures the duty-cycle aggregation shown on the worker
// pages. A zero value falls back to 7 buckets of one day each.
type Workers struct {
	DutyCycleBuckets    int    `yaml:"duty-cycle-buckets"`
	DutyCycleBucketSize string `yaml:"duty-cycle-bucket-size"`
}

type Configuration struct {
	HTTP     http.Configuration
	Database database.Configuration
	Workers  Workers
	Tracing  traces.Configuration
}
