package container

import (
	"reflect"
	"sync"

	"github.com/skillsenselab/scopekit/errors"
)

// Lifetime determines how long a resolved instance lives.
type Lifetime int

const (
	Transient Lifetime = iota // New instance on every resolution
	Scoped                    // One instance per scope
	Singleton                 // One instance per container
)

// String returns the lifetime name for logs and introspection.
func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// TypeKey identifies a registered type. Derive it with KeyOf.
type TypeKey string

// KeyOf returns the TypeKey for T.
func KeyOf[T any]() TypeKey {
	return TypeKey(reflect.TypeOf((*T)(nil)).Elem().String())
}

// bindingKey is the composite map key for a (type, name) pair.
// An empty name is the default binding for the type.
type bindingKey struct {
	typeKey TypeKey
	name    string
}

// binding holds one registration.
type binding struct {
	key         bindingKey
	lifetime    Lifetime
	constructor interface{}
	instance    interface{} // pre-built instance, constructor is nil
}

// BindOption customizes a registration.
type BindOption func(*binding)

// Named registers the binding under a name instead of as the type default.
func Named(name string) BindOption {
	return func(b *binding) { b.key.name = name }
}

// WithLifetime sets the binding lifetime explicitly.
func WithLifetime(l Lifetime) BindOption {
	return func(b *binding) { b.lifetime = l }
}

// AsSingleton marks the binding as one instance per container.
func AsSingleton() BindOption { return WithLifetime(Singleton) }

// AsScoped marks the binding as one instance per scope.
func AsScoped() BindOption { return WithLifetime(Scoped) }

// AsTransient marks the binding as a fresh instance per resolution.
func AsTransient() BindOption { return WithLifetime(Transient) }

// Builder accumulates registrations before Build seals them into an
// immutable Container.
type Builder struct {
	mu       sync.Mutex
	bindings map[bindingKey]*binding
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{bindings: make(map[bindingKey]*binding)}
}

// Register registers a constructor for the given type key. The constructor
// must be a function returning the instance, optionally with an error, and
// may take a *Scope to resolve its own dependencies:
//
//	func() T
//	func() (T, error)
//	func(*Scope) T
//	func(*Scope) (T, error)
//
// The default lifetime is Scoped. Constructors that form a dependency cycle
// fail at resolve time with ErrCodeDependencyCycle.
func (b *Builder) Register(key TypeKey, constructor interface{}, opts ...BindOption) error {
	if constructor == nil {
		return errors.InvalidInput("constructor must not be nil")
	}
	if reflect.ValueOf(constructor).Kind() != reflect.Func {
		return errors.InvalidInput("constructor must be a function")
	}
	reg := &binding{
		key:         bindingKey{typeKey: key},
		lifetime:    Scoped,
		constructor: constructor,
	}
	return b.add(reg, opts)
}

// RegisterInstance registers a pre-built instance. The lifetime is always
// Singleton regardless of options.
func (b *Builder) RegisterInstance(key TypeKey, instance interface{}, opts ...BindOption) error {
	reg := &binding{
		key:      bindingKey{typeKey: key},
		instance: instance,
	}
	for _, opt := range opts {
		opt(reg)
	}
	reg.lifetime = Singleton
	return b.add(reg, nil)
}

func (b *Builder) add(reg *binding, opts []BindOption) error {
	for _, opt := range opts {
		opt(reg)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// Last registration wins, matching the override behavior hosts expect
	// when tests replace production bindings.
	b.bindings[reg.key] = reg
	return nil
}

// Provide registers a constructor under T's type key.
func Provide[T any](b *Builder, constructor interface{}, opts ...BindOption) error {
	return b.Register(KeyOf[T](), constructor, opts...)
}

// ProvideInstance registers a pre-built instance under T's type key.
func ProvideInstance[T any](b *Builder, instance T, opts ...BindOption) error {
	return b.RegisterInstance(KeyOf[T](), instance, opts...)
}

// Build seals the builder into an immutable Container. The builder must not
// be used after Build returns.
func (b *Builder) Build() *Container {
	b.mu.Lock()
	defer b.mu.Unlock()

	bindings := make(map[bindingKey]*binding, len(b.bindings))
	for k, v := range b.bindings {
		bindings[k] = v
	}
	return &Container{
		bindings:   bindings,
		singletons: make(map[bindingKey]interface{}),
		guards:     make(map[bindingKey]*sync.Mutex),
	}
}

// Build runs a configuration procedure against a fresh Builder and returns
// the sealed container. This is the build-from-configuration entry point the
// registry uses.
func Build(configure func(*Builder) error) (*Container, error) {
	b := NewBuilder()
	if err := configure(b); err != nil {
		return nil, err
	}
	return b.Build(), nil
}
