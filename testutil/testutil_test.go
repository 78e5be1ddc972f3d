package testutil_test

import (
	"context"
	"testing"

	"github.com/skillsenselab/scopekit/container"
	"github.com/skillsenselab/scopekit/registry"
	"github.com/skillsenselab/scopekit/testutil"
)

func TestCountingConfigCountsBuildsAndSessions(t *testing.T) {
	h := testutil.T(t)
	reg := h.Registry()
	cfg := testutil.NewCountingConfig()
	h.Initialize(reg, cfg.Configure, "fn")
	h.Initialize(reg, cfg.Configure, "fn")

	if got := cfg.Builds(); got != 1 {
		t.Fatalf("expected 1 build after idempotent initialize, got %d", got)
	}

	id := h.Invocation(reg)
	first, err := registry.ResolveAs[*testutil.Session](context.Background(), reg, "", "fn", id)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	second, err := registry.ResolveAs[*testutil.Session](context.Background(), reg, "", "fn", id)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if first != second {
		t.Error("expected the same session within one invocation")
	}
	if got := cfg.Sessions(); got != 1 {
		t.Errorf("expected 1 session construction, got %d", got)
	}
}

func TestDisposalProbeRecordsOrder(t *testing.T) {
	probe := testutil.NewDisposalProbe()
	a := probe.Closer("a")
	b := probe.Closer("b")

	c, err := container.Build(func(bld *container.Builder) error {
		if err := container.ProvideInstance[*testutil.DisposalProbe](bld, probe); err != nil {
			return err
		}
		if err := container.Provide[*testutil.NamedCloser](bld, func() *testutil.NamedCloser { return a }, container.AsScoped()); err != nil {
			return err
		}
		return container.Provide[*testutil.NamedCloser](bld, func() *testutil.NamedCloser { return b }, container.Named("b"), container.AsScoped())
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	scope := c.BeginScope()
	if _, err := container.Resolve[*testutil.NamedCloser](scope); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if _, err := container.ResolveNamed[*testutil.NamedCloser](scope, "b"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if err := scope.Dispose(); err != nil {
		t.Fatalf("dispose failed: %v", err)
	}

	closed := probe.Closed()
	if len(closed) != 2 || closed[0] != "b" || closed[1] != "a" {
		t.Errorf("expected reverse creation order [b a], got %v", closed)
	}
	if a.CloseCount() != 1 || b.CloseCount() != 1 {
		t.Error("expected each closer to be closed exactly once")
	}
}

func TestInvocationCleanupRemovesScope(t *testing.T) {
	cfg := testutil.NewCountingConfig()
	reg := testutil.T(t).Registry()
	if err := reg.Initialize(cfg.Configure, "fn"); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	t.Run("inner", func(t *testing.T) {
		h := testutil.T(t)
		id := h.Invocation(reg)
		if _, err := registry.ResolveAs[*testutil.Session](context.Background(), reg, "", "fn", id); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if reg.ActiveScopes() != 1 {
			t.Fatalf("expected 1 active scope, got %d", reg.ActiveScopes())
		}
	})

	if reg.ActiveScopes() != 0 {
		t.Errorf("expected scope to be removed after subtest cleanup, got %d", reg.ActiveScopes())
	}
}
