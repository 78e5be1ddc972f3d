package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/skillsenselab/scopekit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the host service.
	ServiceName string
	// ServiceVersion is the version of the host service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds metric instruments for registry observability.
type Metrics struct {
	containerBuilds  metric.Int64Counter
	containerBuildMs metric.Float64Histogram
	scopesActive     metric.Int64UpDownCounter
	resolveTotal     metric.Int64Counter
	resolveDuration  metric.Float64Histogram
	errorTotal       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	containerBuilds, err := meter.Int64Counter("container.builds.total",
		metric.WithDescription("Total number of root container builds"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating container.builds.total counter: %w", err)
	}

	containerBuildMs, err := meter.Float64Histogram("container.build.duration",
		metric.WithDescription("Duration of root container builds in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating container.build.duration histogram: %w", err)
	}

	scopesActive, err := meter.Int64UpDownCounter("scope.active",
		metric.WithDescription("Number of currently active invocation scopes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating scope.active gauge: %w", err)
	}

	resolveTotal, err := meter.Int64Counter("resolve.total",
		metric.WithDescription("Total number of resolutions through the registry"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resolve.total counter: %w", err)
	}

	resolveDuration, err := meter.Float64Histogram("resolve.duration",
		metric.WithDescription("Duration of resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resolve.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		containerBuilds:  containerBuilds,
		containerBuildMs: containerBuildMs,
		scopesActive:     scopesActive,
		resolveTotal:     resolveTotal,
		resolveDuration:  resolveDuration,
		errorTotal:       errorTotal,
	}, nil
}

// RecordContainerBuild records one root container build.
func (m *Metrics) RecordContainerBuild(ctx context.Context, configID string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrConfigID, configID))
	m.containerBuilds.Add(ctx, 1, attrs)
	m.containerBuildMs.Record(ctx, duration.Seconds(), attrs)
}

// RecordScopeOpened increments the active scope count.
func (m *Metrics) RecordScopeOpened(ctx context.Context) {
	m.scopesActive.Add(ctx, 1)
}

// RecordScopeClosed decrements the active scope count.
func (m *Metrics) RecordScopeClosed(ctx context.Context) {
	m.scopesActive.Add(ctx, -1)
}

// RecordResolve records one resolution through the registry.
func (m *Metrics) RecordResolve(ctx context.Context, functionName, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(AttrFunctionName, functionName),
		attribute.String(AttrStatus, status),
	)
	m.resolveTotal.Add(ctx, 1, attrs)
	m.resolveDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrFunctionName, functionName),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
