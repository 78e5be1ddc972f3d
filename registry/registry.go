package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/skillsenselab/scopekit/container"
	"github.com/skillsenselab/scopekit/errors"
	"github.com/skillsenselab/scopekit/logger"
	"github.com/skillsenselab/scopekit/observability"
)

// ConfigureFunc populates a container builder with a function's
// registrations. The func value itself is the configuration identity:
// functions that Initialize with the same stored func value share a
// configuration, while every closure created from a function literal is
// its own configuration.
type ConfigureFunc func(*container.Builder) error

// Registry manages the lifecycle of containers shared across invocations.
// Construct one per process and inject it where needed; all methods are safe
// for concurrent use.
type Registry struct {
	mu          sync.Mutex
	roots       map[configID]*rootEntry
	rootGuards  map[configID]*sync.Mutex
	functions   map[string]*functionBinding
	scopes      map[string]*scopeEntry
	scopeGuards map[string]*sync.Mutex

	log            *logger.Logger
	metrics        *observability.Metrics
	tracing        bool
	defaultCaching bool
}

// functionBinding is a function name's registered state. Once stored it is
// never mutated.
type functionBinding struct {
	name     string
	caching  bool
	identity configID
	root     *container.Container                 // caching enabled
	build    func() (*container.Container, error) // caching disabled
}

// rootEntry is one cached root container together with the configure value
// whose address keys it. The func value must stay reachable for as long as
// the identity is keyed; dropping it would let the runtime hand the address
// to an unrelated configuration later.
type rootEntry struct {
	container *container.Container
	configure ConfigureFunc
}

// scopeEntry is one active invocation scope, plus the fresh container it
// owns on the non-cached path.
type scopeEntry struct {
	scope *container.Scope
	owned *container.Container
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		roots:          make(map[configID]*rootEntry),
		rootGuards:     make(map[configID]*sync.Mutex),
		functions:      make(map[string]*functionBinding),
		scopes:         make(map[string]*scopeEntry),
		scopeGuards:    make(map[string]*sync.Mutex),
		log:            logger.Get(logger.ComponentRegistry),
		tracing:        true,
		defaultCaching: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize records a function's container configuration. It is idempotent
// per function name: the first registration wins and later calls are no-ops.
//
// With caching enabled (the default), functions registering the same
// configure func value share one root container, built at most once per
// process. Distinct func values never share, so hosts that want sharing
// must pass the same stored ConfigureFunc rather than fresh closures of one
// literal. With caching disabled, a fresh container is built for every
// invocation scope instead.
func (r *Registry) Initialize(configure ConfigureFunc, functionName string, opts ...InitOption) error {
	if functionName == "" {
		return errors.InvalidInput("function name must not be empty")
	}
	if configure == nil {
		return errors.InvalidInput("configure procedure must not be nil")
	}

	o := initOptions{caching: r.defaultCaching}
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	if _, ok := r.functions[functionName]; ok {
		r.mu.Unlock()
		r.log.Debug("function already initialized", logger.Fields(
			logger.FieldFunction, functionName,
		))
		return nil
	}
	r.mu.Unlock()

	binding := &functionBinding{name: functionName, caching: o.caching}
	if o.caching {
		binding.identity = identityOf(configure)
		root, err := r.rootFor(binding.identity, configure, o.hook)
		if err != nil {
			return err
		}
		binding.root = root
	} else {
		hook := o.hook
		binding.build = func() (*container.Container, error) {
			return r.buildContainer(identityOf(configure), configure, hook)
		}
	}

	r.mu.Lock()
	if _, ok := r.functions[functionName]; !ok {
		r.functions[functionName] = binding
	}
	r.mu.Unlock()

	fields := logger.Fields(
		logger.FieldFunction, functionName,
		logger.FieldCached, o.caching,
	)
	if o.caching {
		fields[logger.FieldConfigID] = binding.identity.String()
	}
	r.log.Info("function initialized", fields)
	return nil
}

// rootFor returns the shared root container for a configuration identity,
// building it on first use. A per-identity guard serializes construction so
// the configure procedure runs at most once per identity even when
// cold-start Initialize calls race.
func (r *Registry) rootFor(id configID, configure ConfigureFunc, hook PostBuildHook) (*container.Container, error) {
	r.mu.Lock()
	if entry, ok := r.roots[id]; ok {
		r.mu.Unlock()
		return entry.container, nil
	}
	guard, ok := r.rootGuards[id]
	if !ok {
		guard = &sync.Mutex{}
		r.rootGuards[id] = guard
	}
	r.mu.Unlock()

	guard.Lock()
	defer guard.Unlock()

	r.mu.Lock()
	if entry, ok := r.roots[id]; ok {
		r.mu.Unlock()
		return entry.container, nil
	}
	r.mu.Unlock()

	root, err := r.buildContainer(id, configure, hook)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.roots[id] = &rootEntry{container: root, configure: configure}
	r.mu.Unlock()
	return root, nil
}

// buildContainer runs the configure procedure against a fresh builder and
// applies the post-build hook. Configuration and hook errors surface to the
// caller unchanged.
func (r *Registry) buildContainer(id configID, configure ConfigureFunc, hook PostBuildHook) (*container.Container, error) {
	ctx := context.Background()
	if r.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, observability.SpanContainerBuild)
		defer span.End()
	}

	start := time.Now()
	c, err := container.Build(configure)
	if err != nil {
		observability.SetSpanError(ctx, err)
		if r.metrics != nil {
			r.metrics.RecordError(ctx, "CONTAINER_BUILD", "registry")
		}
		return nil, err
	}
	if hook != nil {
		if err := hook(c); err != nil {
			observability.SetSpanError(ctx, err)
			_ = c.Dispose()
			return nil, err
		}
	}

	duration := time.Since(start)
	if r.metrics != nil {
		r.metrics.RecordContainerBuild(ctx, id.String(), duration)
	}
	r.log.Info("container built", logger.Fields(
		logger.FieldConfigID, id.String(),
		logger.FieldDuration, duration.Milliseconds(),
	))
	return c, nil
}

// Resolve resolves an instance of typeKey for one invocation of
// functionName. The invocation scope is created lazily on the first Resolve
// for invocationID and must be released later via RemoveScope.
//
// A blank name resolves the default binding; anything else resolves the
// named binding. Resolution errors from the container propagate unchanged.
func (r *Registry) Resolve(ctx context.Context, typeKey container.TypeKey, name, functionName, invocationID string) (interface{}, error) {
	start := time.Now()
	if r.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, observability.SpanResolve)
		defer span.End()
	}

	r.mu.Lock()
	binding, ok := r.functions[functionName]
	r.mu.Unlock()
	if !ok {
		err := errors.NotInitialized(functionName)
		observability.SetSpanError(ctx, err)
		if r.metrics != nil {
			r.metrics.RecordError(ctx, string(errors.ErrCodeNotInitialized), "registry")
			r.metrics.RecordResolve(ctx, functionName, "error", time.Since(start))
		}
		return nil, err
	}
	if invocationID == "" {
		return nil, errors.InvalidInput("invocation id must not be empty")
	}

	scope, err := r.scopeFor(ctx, binding, invocationID)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	var instance interface{}
	if strings.TrimSpace(name) == "" {
		instance, err = scope.Resolve(typeKey)
	} else {
		instance, err = scope.ResolveNamed(name, typeKey)
	}

	status := "ok"
	if err != nil {
		status = "error"
		observability.SetSpanError(ctx, err)
	}
	if r.metrics != nil {
		r.metrics.RecordResolve(ctx, functionName, status, time.Since(start))
	}
	return instance, err
}

// scopeFor returns the invocation scope for an id, creating it lazily. A
// per-id guard single-flights creation so concurrent first resolvers for one
// invocation converge on a single scope.
func (r *Registry) scopeFor(ctx context.Context, binding *functionBinding, invocationID string) (*container.Scope, error) {
	r.mu.Lock()
	if entry, ok := r.scopes[invocationID]; ok {
		r.mu.Unlock()
		return entry.scope, nil
	}
	guard, ok := r.scopeGuards[invocationID]
	if !ok {
		guard = &sync.Mutex{}
		r.scopeGuards[invocationID] = guard
	}
	r.mu.Unlock()

	guard.Lock()
	defer guard.Unlock()

	r.mu.Lock()
	if entry, ok := r.scopes[invocationID]; ok {
		r.mu.Unlock()
		return entry.scope, nil
	}
	r.mu.Unlock()

	entry := &scopeEntry{}
	if binding.caching {
		entry.scope = binding.root.BeginScope()
	} else {
		fresh, err := binding.build()
		if err != nil {
			return nil, err
		}
		entry.owned = fresh
		entry.scope = fresh.BeginScope()
	}

	r.mu.Lock()
	if winner, ok := r.scopes[invocationID]; ok {
		// A racer slipped in between guard generations (RemoveScope ran
		// concurrently). Adopt its scope and discard ours.
		r.mu.Unlock()
		_ = entry.scope.Dispose()
		if entry.owned != nil {
			_ = entry.owned.Dispose()
		}
		return winner.scope, nil
	}
	r.scopes[invocationID] = entry
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.RecordScopeOpened(ctx)
	}
	r.log.Debug("scope created", logger.Fields(
		logger.FieldFunction, binding.name,
		logger.FieldInvocationID, invocationID,
		logger.FieldCached, binding.caching,
	))
	return entry.scope, nil
}

// RemoveScope removes and disposes the invocation scope for an id,
// releasing every instance the scope owns. Unknown ids are a no-op.
func (r *Registry) RemoveScope(ctx context.Context, invocationID string) error {
	r.mu.Lock()
	entry, ok := r.scopes[invocationID]
	if ok {
		delete(r.scopes, invocationID)
		delete(r.scopeGuards, invocationID)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}

	if r.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, observability.SpanScopeDispose)
		defer span.End()
	}

	err := entry.scope.Dispose()
	if entry.owned != nil {
		if derr := entry.owned.Dispose(); err == nil {
			err = derr
		}
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
	}

	if r.metrics != nil {
		r.metrics.RecordScopeClosed(ctx)
	}
	r.log.Debug("scope removed", logger.Fields(
		logger.FieldInvocationID, invocationID,
	))
	return err
}

// ActiveScopes returns the number of invocation scopes currently open.
func (r *Registry) ActiveScopes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scopes)
}

// FunctionInfo describes one registered function for introspection.
type FunctionInfo struct {
	Name     string
	Caching  bool
	ConfigID string
}

// Functions returns the registered functions for introspection.
func (r *Registry) Functions() []FunctionInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]FunctionInfo, 0, len(r.functions))
	for _, binding := range r.functions {
		info := FunctionInfo{Name: binding.name, Caching: binding.caching}
		if binding.caching {
			info.ConfigID = binding.identity.String()
		}
		result = append(result, info)
	}
	return result
}

// ResolveAs resolves the default or named binding for T with type safety.
//
// Example:
//
//	mailer, err := registry.ResolveAs[Mailer](ctx, reg, "primary", "ProcessOrder", invocationID)
func ResolveAs[T any](ctx context.Context, r *Registry, name, functionName, invocationID string) (T, error) {
	var zero T
	instance, err := r.Resolve(ctx, container.KeyOf[T](), name, functionName, invocationID)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.Internal(fmt.Errorf("binding for %s is %T, expected %T", container.KeyOf[T](), instance, zero))
	}
	return result, nil
}
