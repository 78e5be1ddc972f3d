package container

import (
	"fmt"

	"github.com/skillsenselab/scopekit/errors"
)

// Resolve resolves the default binding for T with type safety.
//
// Example:
//
//	pool, err := container.Resolve[*db.Pool](scope)
func Resolve[T any](s *Scope) (T, error) {
	var zero T
	instance, err := s.Resolve(KeyOf[T]())
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.Internal(fmt.Errorf("binding for %s is %T, expected %T", KeyOf[T](), instance, zero))
	}
	return result, nil
}

// ResolveNamed resolves the named binding for T with type safety.
func ResolveNamed[T any](s *Scope, name string) (T, error) {
	var zero T
	instance, err := s.ResolveNamed(name, KeyOf[T]())
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.Internal(fmt.Errorf("binding %q for %s is %T, expected %T", name, KeyOf[T](), instance, zero))
	}
	return result, nil
}

// MustResolve resolves the default binding for T, panicking on error.
// Use this in glue code where a missing binding is a programming error.
func MustResolve[T any](s *Scope) T {
	result, err := Resolve[T](s)
	if err != nil {
		panic(fmt.Sprintf("container: failed to resolve %s: %v", KeyOf[T](), err))
	}
	return result
}

// TryResolve resolves the default binding for T, returning false if the
// binding is missing or of the wrong type. Use this for optional deps.
func TryResolve[T any](s *Scope) (T, bool) {
	result, err := Resolve[T](s)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}
