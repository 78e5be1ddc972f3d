package verify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skillsenselab/scopekit/container"
	"github.com/skillsenselab/scopekit/errors"
	"github.com/skillsenselab/scopekit/logger"
	"github.com/skillsenselab/scopekit/registry"
)

// InjectionPoint is one (type, name) pair a function's handler resolves
// from the container. An empty Name means the default binding.
type InjectionPoint struct {
	Type container.TypeKey
	Name string
}

// Declaration describes one function type's configuration surface: its
// configuration constructors (nil when the type declares none) and the
// injection points found across its handlers.
type Declaration struct {
	TypeName string
	Config   *Constructors
	Points   []InjectionPoint
}

// Option customizes a verification run.
type Option func(*options)

type options struct {
	verifyUnnecessaryConfig bool
	directory               string
	loggerFactory           LoggerFactory
	registry                *registry.Registry
}

// WithVerifyUnnecessaryConfig makes a configuration declaration with no
// injection points a failure.
func WithVerifyUnnecessaryConfig(enabled bool) Option {
	return func(o *options) { o.verifyUnnecessaryConfig = enabled }
}

// WithDirectory supplies the function app directory to configuration
// constructors that take one.
func WithDirectory(dir string) Option {
	return func(o *options) { o.directory = dir }
}

// WithLoggerFactory supplies a logger factory to configuration constructors
// that take one.
func WithLoggerFactory(lf LoggerFactory) Option {
	return func(o *options) { o.loggerFactory = lf }
}

// WithRegistry verifies against an existing registry instead of a
// throwaway one. The synthetic function name still isolates the run from
// production bindings.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) { o.registry = r }
}

// Configuration checks a declaration: injection points require a
// configuration declaration, and every point must resolve through a
// synthetic registry entry. Resolution errors from the container propagate
// unchanged.
func Configuration(ctx context.Context, decl Declaration, opts ...Option) error {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if len(decl.Points) > 0 && decl.Config == nil {
		return errors.ConfigMismatch(decl.TypeName)
	}
	if decl.Config == nil {
		return nil
	}
	if len(decl.Points) == 0 {
		if o.verifyUnnecessaryConfig {
			return errors.UnnecessaryConfig(decl.TypeName)
		}
		return nil
	}

	functionName := fmt.Sprintf("verify-%s-%s", decl.TypeName, uuid.NewString())
	invocationID := uuid.NewString()

	configure, err := decl.Config.construct(factoryInputs{
		name:          functionName,
		directory:     o.directory,
		loggerFactory: o.loggerFactory,
	})
	if err != nil {
		return err
	}

	reg := o.registry
	if reg == nil {
		reg = registry.New(WithQuietLogger())
	}

	if err := reg.Initialize(configure, functionName); err != nil {
		return err
	}
	defer reg.RemoveScope(ctx, invocationID)

	for _, point := range decl.Points {
		if _, err := reg.Resolve(ctx, point.Type, point.Name, functionName, invocationID); err != nil {
			return err
		}
	}
	return nil
}

// All verifies every declaration and returns the first failure.
func All(ctx context.Context, decls []Declaration, opts ...Option) error {
	for _, decl := range decls {
		if err := Configuration(ctx, decl, opts...); err != nil {
			return fmt.Errorf("verify %s: %w", decl.TypeName, err)
		}
	}
	return nil
}

// WithQuietLogger returns a registry option that keeps throwaway
// verification registries from chattering at info level.
func WithQuietLogger() registry.Option {
	return registry.WithLogger(logger.New(&logger.Config{
		Level:  "error",
		Format: "json",
		Output: "stderr",
	}, "verify"))
}
