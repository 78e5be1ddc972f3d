package container

import (
	"reflect"
	"sync"

	"github.com/skillsenselab/scopekit/errors"
	"github.com/skillsenselab/scopekit/logger"
)

// Container is an immutable set of bindings plus the singleton instances
// built from them. It is safe for concurrent use; create one Scope per unit
// of work and dispose it when the work completes.
type Container struct {
	bindings map[bindingKey]*binding

	mu         sync.Mutex
	singletons map[bindingKey]interface{}
	guards     map[bindingKey]*sync.Mutex
	disposed   bool
}

// BeginScope opens a child scope. The caller owns the scope and must call
// Dispose when finished with it.
func (c *Container) BeginScope() *Scope {
	return &Scope{
		container: c,
		state:     &scopeState{instances: make(map[bindingKey]interface{})},
	}
}

// lookup returns the binding for a (type, name) pair.
func (c *Container) lookup(key TypeKey, name string) (*binding, bool) {
	b, ok := c.bindings[bindingKey{typeKey: key, name: name}]
	return b, ok
}

// singleton returns the singleton instance for a binding, constructing it on
// first use. A per-binding guard serializes construction so a binding's
// constructor runs at most once, while constructors remain free to resolve
// other bindings through the scope. Cycles among constructors are caught by
// the scope's resolution path before the guard would self-deadlock.
func (c *Container) singleton(reg *binding, s *Scope) (interface{}, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil, errors.ScopeDisposed("container")
	}
	if instance, ok := c.singletons[reg.key]; ok {
		c.mu.Unlock()
		return instance, nil
	}
	guard, ok := c.guards[reg.key]
	if !ok {
		guard = &sync.Mutex{}
		c.guards[reg.key] = guard
	}
	c.mu.Unlock()

	guard.Lock()
	defer guard.Unlock()

	c.mu.Lock()
	if instance, ok := c.singletons[reg.key]; ok {
		c.mu.Unlock()
		return instance, nil
	}
	c.mu.Unlock()

	instance := reg.instance
	if instance == nil {
		built, err := callConstructor(reg.constructor, s.forConstructor(reg.key))
		if err != nil {
			return nil, errors.ConstructorFailed(string(reg.key.typeKey), err)
		}
		instance = built
	}

	c.mu.Lock()
	c.singletons[reg.key] = instance
	c.mu.Unlock()
	return instance, nil
}

// Dispose releases every singleton the container owns. Instances that
// implement Close() error are closed. Scopes opened from the container must
// be disposed before the container itself.
func (c *Container) Dispose() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return nil
	}
	c.disposed = true

	var errs []error
	for key, instance := range c.singletons {
		if err := closeInstance(instance); err != nil {
			errs = append(errs, err)
			logger.Get(logger.ComponentContainer).Warn("singleton close failed", logger.Fields(
				logger.FieldTypeKey, string(key.typeKey),
				logger.FieldError, err.Error(),
			))
		}
	}
	c.singletons = make(map[bindingKey]interface{})

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Bindings returns introspection info for every registration.
func (c *Container) Bindings() []BindingInfo {
	result := make([]BindingInfo, 0, len(c.bindings))
	for key, reg := range c.bindings {
		result = append(result, BindingInfo{
			TypeKey:  key.typeKey,
			Name:     key.name,
			Lifetime: reg.lifetime,
		})
	}
	return result
}

// BindingInfo describes a registration for introspection.
type BindingInfo struct {
	TypeKey  TypeKey
	Name     string
	Lifetime Lifetime
}

// callConstructor invokes a registered constructor via reflection.
// Supported signatures:
//
//	func() T
//	func() (T, error)
//	func(*Scope) T
//	func(*Scope) (T, error)
func callConstructor(constructor interface{}, s *Scope) (interface{}, error) {
	fn := reflect.ValueOf(constructor)
	fnType := fn.Type()

	var args []reflect.Value
	if fnType.NumIn() == 1 {
		args = []reflect.Value{reflect.ValueOf(s)}
	} else if fnType.NumIn() > 1 {
		return nil, errors.InvalidInput("constructor must take no arguments or a single *Scope")
	}

	return handleConstructorResults(fn.Call(args))
}

func handleConstructorResults(results []reflect.Value) (interface{}, error) {
	switch len(results) {
	case 1:
		return results[0].Interface(), nil
	case 2:
		instance := results[0].Interface()
		if err := results[1].Interface(); err != nil {
			return nil, err.(error)
		}
		return instance, nil
	default:
		return nil, errors.InvalidInput("constructor must return (instance) or (instance, error)")
	}
}

// closeInstance closes instances implementing Close() error or Close().
func closeInstance(instance interface{}) error {
	switch v := instance.(type) {
	case interface{ Close() error }:
		return v.Close()
	case interface{ Close() }:
		v.Close()
		return nil
	default:
		return nil
	}
}
