package container

import (
	"sync"

	"github.com/google/uuid"

	"github.com/skillsenselab/scopekit/errors"
	"github.com/skillsenselab/scopekit/logger"
)

// Scope is a child lifetime of a Container. It owns every Scoped and
// Transient instance created through it and releases them on Dispose.
// A Scope is safe for concurrent use by callers sharing one unit of work.
//
// Each Scope value is a view onto shared per-scope state. The view handed
// to a constructor carries the resolution path that led to it, so cyclic
// constructor dependencies fail with ErrCodeDependencyCycle instead of
// deadlocking.
type Scope struct {
	container *Container
	state     *scopeState
	// chain is the path of bindings currently under construction on this
	// view; empty on the scope returned by BeginScope.
	chain []bindingKey
}

// scopeState is the mutable state shared by every view of one scope.
type scopeState struct {
	mu        sync.Mutex
	id        string
	instances map[bindingKey]interface{}
	owned     []interface{} // disposal order: reverse of creation
	disposed  bool
}

// ID returns the scope's identity, generating one lazily.
func (s *Scope) ID() string {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.id == "" {
		st.id = uuid.NewString()
	}
	return st.id
}

// Resolve returns the default (unnamed) binding for the type key.
func (s *Scope) Resolve(key TypeKey) (interface{}, error) {
	return s.resolve(key, "")
}

// ResolveNamed returns the named binding for the type key. An empty name
// resolves the default binding.
func (s *Scope) ResolveNamed(name string, key TypeKey) (interface{}, error) {
	return s.resolve(key, name)
}

func (s *Scope) resolve(key TypeKey, name string) (interface{}, error) {
	st := s.state
	st.mu.Lock()
	if st.disposed {
		id := st.id
		st.mu.Unlock()
		return nil, errors.ScopeDisposed(id)
	}
	st.mu.Unlock()

	reg, ok := s.container.lookup(key, name)
	if !ok {
		return nil, errors.NotRegistered(string(key), name)
	}
	if s.onPath(reg.key) {
		return nil, errors.DependencyCycle(string(key), name)
	}

	switch reg.lifetime {
	case Singleton:
		return s.container.singleton(reg, s)
	case Scoped:
		return s.scoped(reg)
	default:
		return s.transient(reg)
	}
}

// forConstructor returns the scope view handed to a binding's constructor,
// extending the resolution path with the binding under construction.
func (s *Scope) forConstructor(key bindingKey) *Scope {
	chain := make([]bindingKey, len(s.chain)+1)
	copy(chain, s.chain)
	chain[len(s.chain)] = key
	return &Scope{container: s.container, state: s.state, chain: chain}
}

// onPath reports whether a binding is already under construction on this
// view's resolution path.
func (s *Scope) onPath(key bindingKey) bool {
	for _, k := range s.chain {
		if k == key {
			return true
		}
	}
	return false
}

// scoped returns the per-scope instance for a binding, constructing it on
// first use. Concurrent first-use may invoke the constructor more than once;
// exactly one result is retained and the loser is closed, not leaked.
func (s *Scope) scoped(reg *binding) (interface{}, error) {
	st := s.state
	st.mu.Lock()
	if instance, ok := st.instances[reg.key]; ok {
		st.mu.Unlock()
		return instance, nil
	}
	st.mu.Unlock()

	instance, err := callConstructor(reg.constructor, s.forConstructor(reg.key))
	if err != nil {
		return nil, errors.ConstructorFailed(string(reg.key.typeKey), err)
	}

	st.mu.Lock()
	if st.disposed {
		st.mu.Unlock()
		_ = closeInstance(instance)
		return nil, errors.ScopeDisposed(st.id)
	}
	if winner, ok := st.instances[reg.key]; ok {
		st.mu.Unlock()
		_ = closeInstance(instance)
		return winner, nil
	}
	st.instances[reg.key] = instance
	st.owned = append(st.owned, instance)
	st.mu.Unlock()
	return instance, nil
}

// transient builds a fresh instance and records it for disposal with the
// scope.
func (s *Scope) transient(reg *binding) (interface{}, error) {
	st := s.state
	instance, err := callConstructor(reg.constructor, s.forConstructor(reg.key))
	if err != nil {
		return nil, errors.ConstructorFailed(string(reg.key.typeKey), err)
	}

	st.mu.Lock()
	if st.disposed {
		st.mu.Unlock()
		_ = closeInstance(instance)
		return nil, errors.ScopeDisposed(st.id)
	}
	st.owned = append(st.owned, instance)
	st.mu.Unlock()
	return instance, nil
}

// Dispose releases every instance the scope owns, closing them in reverse
// creation order. Dispose is idempotent.
func (s *Scope) Dispose() error {
	st := s.state
	st.mu.Lock()
	if st.disposed {
		st.mu.Unlock()
		return nil
	}
	st.disposed = true
	owned := st.owned
	st.owned = nil
	st.instances = nil
	id := st.id
	st.mu.Unlock()

	var firstErr error
	for i := len(owned) - 1; i >= 0; i-- {
		if err := closeInstance(owned[i]); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			logger.Get(logger.ComponentContainer).Warn("scoped instance close failed", logger.Fields(
				logger.FieldScope, id,
				logger.FieldError, err.Error(),
			))
		}
	}
	return firstErr
}
