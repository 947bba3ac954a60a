// Package config provides configuration loading and validation for the
// ranking engine. It uses koanf to merge built-in defaults, an optional
// YAML file, and RANKPIPE_* environment variables, with the environment
// taking precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all engine-level configuration values.
type Config struct {
	// Workers is the collect-stage worker pool width.
	Workers int `koanf:"workers"`

	// SourceLimit caps how many candidates each source may return.
	SourceLimit int `koanf:"source_limit"`

	// FailOpen selects the failure policy: true degrades failing stages to
	// no-ops, false aborts the run on the first failure.
	FailOpen bool `koanf:"fail_open"`

	// CalibrationPath points at the JSON scoring calibration file.
	// Empty keeps the built-in defaults.
	CalibrationPath string `koanf:"calibration_path"`

	// Env names the runtime environment (development, production).
	Env string `koanf:"env"`

	// Tracing settings.
	Tracing Tracing `koanf:"tracing"`
}

// Tracing holds OpenTelemetry exporter settings.
type Tracing struct {
	Enabled      bool    `koanf:"enabled"`
	ServiceName  string  `koanf:"service_name"`
	ExporterType string  `koanf:"exporter_type"`
	OTLPEndpoint string  `koanf:"otlp_endpoint"`
	SamplingRate float64 `koanf:"sampling_rate"`
	Insecure     bool    `koanf:"insecure"`
}

// Configuration validation errors.
var (
	ErrInvalidWorkers      = errors.New("workers must be a positive integer")
	ErrInvalidSourceLimit  = errors.New("source_limit must be a positive integer")
	ErrInvalidSamplingRate = errors.New("tracing.sampling_rate must be between 0 and 1")
)

// Default values.
const (
	DefaultWorkers      = 4
	DefaultSourceLimit  = 100
	DefaultFailOpen     = true
	DefaultEnv          = "development"
	DefaultServiceName  = "rankpipe"
	DefaultExporterType = "otlp-http"
	DefaultSamplingRate = 0.1
)

// Load reads configuration from an optional YAML file and RANKPIPE_*
// environment variables. Environment variables take precedence over file
// values. Returns the loaded config and a slice of validation errors
// (empty if valid). If a config file path is provided and the file cannot
// be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	workers, workersErr := getEnvIntOrDefault("RANKPIPE_WORKERS", k.Int("workers"), DefaultWorkers)
	if workersErr != nil {
		loadErrs = append(loadErrs, workersErr)
	}

	sourceLimit, limitErr := getEnvIntOrDefault("RANKPIPE_SOURCE_LIMIT", k.Int("source_limit"), DefaultSourceLimit)
	if limitErr != nil {
		loadErrs = append(loadErrs, limitErr)
	}

	failOpen := DefaultFailOpen
	if k.Exists("fail_open") {
		failOpen = k.Bool("fail_open")
	}
	if val, ok := parseEnvBool("RANKPIPE_FAIL_OPEN"); ok {
		failOpen = val
	}

	samplingRate, rateErr := getEnvFloatOrDefault("RANKPIPE_TRACING_SAMPLING_RATE", k.Float64("tracing.sampling_rate"), DefaultSamplingRate)
	if rateErr != nil {
		loadErrs = append(loadErrs, rateErr)
	}

	tracingEnabled := k.Bool("tracing.enabled")
	if val, ok := parseEnvBool("RANKPIPE_TRACING_ENABLED"); ok {
		tracingEnabled = val
	}

	cfg := &Config{
		Workers:         workers,
		SourceLimit:     sourceLimit,
		FailOpen:        failOpen,
		CalibrationPath: getEnvOrKoanf("RANKPIPE_CALIBRATION_PATH", k, "calibration_path"),
		Env:             getEnvOrDefault("RANKPIPE_ENV", k.String("env"), DefaultEnv),
		Tracing: Tracing{
			Enabled:      tracingEnabled,
			ServiceName:  getEnvOrDefault("RANKPIPE_TRACING_SERVICE_NAME", k.String("tracing.service_name"), DefaultServiceName),
			ExporterType: getEnvOrDefault("RANKPIPE_TRACING_EXPORTER", k.String("tracing.exporter_type"), DefaultExporterType),
			OTLPEndpoint: getEnvOrKoanf("RANKPIPE_TRACING_OTLP_ENDPOINT", k, "tracing.otlp_endpoint"),
			SamplingRate: samplingRate,
			Insecure:     k.Bool("tracing.insecure"),
		},
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// Validate checks the configuration and returns every violation found.
func (c *Config) Validate() []error {
	var errs []error
	if c.Workers <= 0 {
		errs = append(errs, ErrInvalidWorkers)
	}
	if c.SourceLimit <= 0 {
		errs = append(errs, ErrInvalidSourceLimit)
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		errs = append(errs, ErrInvalidSamplingRate)
	}
	return errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise
// the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise
// the koanf value, or the default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault parses an integer from the environment, falling back
// to the koanf value and then the default.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return defaultVal, fmt.Errorf("%s must be an integer, got %q", envKey, val)
		}
		return parsed, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault parses a float from the environment, falling back to
// the koanf value and then the default.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return defaultVal, fmt.Errorf("%s must be a number, got %q", envKey, val)
		}
		return parsed, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// parseEnvBool reads a boolean environment variable. The second return
// value reports whether the variable was set to a recognized value.
func parseEnvBool(envKey string) (bool, bool) {
	val := os.Getenv(envKey)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}
