package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/skillsenselab/scopekit/logger"
	"github.com/skillsenselab/scopekit/observability"
	"github.com/skillsenselab/scopekit/registry"
	"github.com/skillsenselab/scopekit/verify"
	"github.com/skillsenselab/scopekit/version"
)

// Settings holds everything a host process can tune about the resolution
// registry: logging, per-function caching policy, verification behavior,
// and the OTLP export targets.
//
// Hosts embed or load this once at process start and hand the derived
// options to registry.New and verify.Configuration.
type Settings struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Version     string `yaml:"version" mapstructure:"version"`

	Logging  logger.Config    `yaml:"logging" mapstructure:"logging"`
	Registry RegistrySettings `yaml:"registry" mapstructure:"registry"`
	Verify   VerifySettings   `yaml:"verify" mapstructure:"verify"`
	Tracing  TracingSettings  `yaml:"tracing" mapstructure:"tracing"`
	Metrics  MetricsSettings  `yaml:"metrics" mapstructure:"metrics"`
}

// RegistrySettings controls registry-wide policy.
type RegistrySettings struct {
	// DefaultCaching is the caching policy applied to functions that
	// register without an explicit choice.
	DefaultCaching bool `yaml:"default_caching" mapstructure:"default_caching"`
}

// VerifySettings controls the configuration verification pass.
type VerifySettings struct {
	// UnnecessaryConfig turns declarations with config but no injection
	// points into verification failures.
	UnnecessaryConfig bool `yaml:"unnecessary_config" mapstructure:"unnecessary_config"`
	// Directory is passed to constructors that accept a working directory.
	Directory string `yaml:"directory" mapstructure:"directory"`
}

// TracingSettings controls span export.
type TracingSettings struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// MetricsSettings controls metric export.
type MetricsSettings struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint        string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure        bool   `yaml:"insecure" mapstructure:"insecure"`
	IntervalSeconds int    `yaml:"interval_seconds" mapstructure:"interval_seconds" validate:"gte=0"`
}

var validate = validator.New()

// DefaultSettings returns the zero-configuration settings: console logging,
// caching enabled, verification strictness off, exporters pointed at the
// local OTLP endpoint but disabled.
func DefaultSettings() Settings {
	s := Settings{
		Name:        "scopekit",
		Environment: "development",
		Registry:    RegistrySettings{DefaultCaching: true},
		Tracing:     TracingSettings{Endpoint: "localhost:4318", Insecure: true, SampleRate: 1.0},
		Metrics:     MetricsSettings{Endpoint: "localhost:4318", Insecure: true, IntervalSeconds: 30},
	}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills unset fields with usable values.
func (s *Settings) ApplyDefaults() {
	if s.Environment == "" {
		s.Environment = "development"
	}
	if s.Version == "" {
		s.Version = version.Short()
	}
	if s.Logging.ServiceName == "" && s.Name != "" {
		s.Logging.ServiceName = s.Name
	}
	s.Logging.ApplyDefaults()
	if s.Tracing.SampleRate == 0 && s.Tracing.Enabled {
		s.Tracing.SampleRate = 1.0
	}
	if s.Metrics.IntervalSeconds == 0 {
		s.Metrics.IntervalSeconds = 30
	}
}

// Validate checks field constraints and the nested logging configuration.
func (s *Settings) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := s.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// RegistryOptions translates the settings into registry construction options.
func (s *Settings) RegistryOptions() []registry.Option {
	return []registry.Option{
		registry.WithDefaultCaching(s.Registry.DefaultCaching),
		registry.WithTracing(s.Tracing.Enabled),
		registry.WithLogger(logger.NewDefault(s.Logging.ServiceName)),
	}
}

// VerifyOptions translates the settings into verification options.
func (s *Settings) VerifyOptions() []verify.Option {
	opts := []verify.Option{
		verify.WithVerifyUnnecessaryConfig(s.Verify.UnnecessaryConfig),
	}
	if s.Verify.Directory != "" {
		opts = append(opts, verify.WithDirectory(s.Verify.Directory))
	}
	return opts
}

// TracerConfig builds the tracer initialization config.
func (s *Settings) TracerConfig() observability.TracerConfig {
	return observability.TracerConfig{
		ServiceName:    s.Name,
		ServiceVersion: s.Version,
		Environment:    s.Environment,
		Endpoint:       s.Tracing.Endpoint,
		Insecure:       s.Tracing.Insecure,
		SampleRate:     s.Tracing.SampleRate,
	}
}

// MeterConfig builds the meter initialization config.
func (s *Settings) MeterConfig() observability.MeterConfig {
	return observability.MeterConfig{
		ServiceName:    s.Name,
		ServiceVersion: s.Version,
		Environment:    s.Environment,
		Endpoint:       s.Metrics.Endpoint,
		Insecure:       s.Metrics.Insecure,
		Interval:       time.Duration(s.Metrics.IntervalSeconds) * time.Second,
	}
}
