package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/skillsenselab/scopekit/registry"
	"github.com/skillsenselab/scopekit/verify"
)

// THelper ties registry fixtures to a testing.T so scopes and state are
// torn down automatically when the test ends.
type THelper struct {
	t   *testing.T
	ctx context.Context
}

// T wraps a testing.T.
//
//	reg := testutil.T(t).Registry()
//	id := testutil.T(t).Invocation(reg)
func T(t *testing.T) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets a custom context for the helper.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Registry returns a quiet registry suitable for tests. Additional options
// are applied after the quiet logger, so they can override it.
func (h *THelper) Registry(opts ...registry.Option) *registry.Registry {
	all := append([]registry.Option{verify.WithQuietLogger(), registry.WithTracing(false)}, opts...)
	return registry.New(all...)
}

// Invocation returns a fresh invocation ID and registers its scope removal
// as test cleanup. Removal of a scope that was never created is a no-op,
// so the cleanup is safe even if the test never resolves anything.
func (h *THelper) Invocation(r *registry.Registry) string {
	id := uuid.NewString()
	h.t.Cleanup(func() {
		if err := r.RemoveScope(h.ctx, id); err != nil {
			h.t.Errorf("failed to remove scope %s: %v", id, err)
		}
	})
	return id
}

// Initialize registers a function with the registry, failing the test on
// error.
func (h *THelper) Initialize(r *registry.Registry, configure registry.ConfigureFunc, functionName string, opts ...registry.InitOption) {
	if err := r.Initialize(configure, functionName, opts...); err != nil {
		h.t.Fatalf("failed to initialize function %s: %v", functionName, err)
	}
}
