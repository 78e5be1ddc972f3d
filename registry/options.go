package registry

import (
	"github.com/skillsenselab/scopekit/container"
	"github.com/skillsenselab/scopekit/logger"
	"github.com/skillsenselab/scopekit/observability"
)

// Option customizes a Registry at construction time.
type Option func(*Registry)

// WithLogger sets the logger used by the registry.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithMetrics enables metric recording on the registry.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithTracing toggles span emission around container builds and resolutions.
func WithTracing(enabled bool) Option {
	return func(r *Registry) { r.tracing = enabled }
}

// WithDefaultCaching sets the caching policy applied when Initialize is
// called without an explicit WithCaching option. The zero-configuration
// default is caching enabled.
func WithDefaultCaching(enabled bool) Option {
	return func(r *Registry) { r.defaultCaching = enabled }
}

// PostBuildHook runs once after a fresh container build, for registering
// cross-cutting setup. On the non-cached path it runs for every build.
type PostBuildHook func(*container.Container) error

// InitOption customizes a single Initialize call.
type InitOption func(*initOptions)

type initOptions struct {
	hook    PostBuildHook
	caching bool
}

// WithPostBuildHook registers a hook invoked after each fresh container
// build for this function.
func WithPostBuildHook(hook PostBuildHook) InitOption {
	return func(o *initOptions) { o.hook = hook }
}

// WithCaching sets the caching policy for this function. When disabled, the
// function's container is rebuilt for every invocation scope and nothing is
// shared across invocations.
func WithCaching(enabled bool) InitOption {
	return func(o *initOptions) { o.caching = enabled }
}
