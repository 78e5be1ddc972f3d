package testutil

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/skillsenselab/scopekit/container"
)

// Session is a scoped service used as the unit of observation in tests.
// Each invocation scope gets its own instance.
type Session struct {
	ID string
}

// CountingConfig is a configuration builder that counts container builds
// and service constructions, so tests can assert on caching behavior.
type CountingConfig struct {
	builds   atomic.Int64
	sessions atomic.Int64
}

// NewCountingConfig returns a fresh counting configuration.
func NewCountingConfig() *CountingConfig {
	return &CountingConfig{}
}

// Configure registers a scoped *Session and the config itself as a
// singleton. Pass the method value to Registry.Initialize.
func (c *CountingConfig) Configure(b *container.Builder) error {
	c.builds.Add(1)
	if err := container.Provide[*Session](b, func() *Session {
		c.sessions.Add(1)
		return &Session{ID: uuid.NewString()}
	}, container.AsScoped()); err != nil {
		return err
	}
	return container.ProvideInstance[*CountingConfig](b, c)
}

// Builds reports how many times Configure ran to completion of a container
// build request.
func (c *CountingConfig) Builds() int64 { return c.builds.Load() }

// Sessions reports how many *Session instances were constructed.
func (c *CountingConfig) Sessions() int64 { return c.sessions.Load() }

// DisposalProbe records the order in which its closers are closed.
type DisposalProbe struct {
	mu     sync.Mutex
	closed []string
}

// NewDisposalProbe returns an empty probe.
func NewDisposalProbe() *DisposalProbe {
	return &DisposalProbe{}
}

// Closer returns a named closer that reports to the probe.
func (p *DisposalProbe) Closer(name string) *NamedCloser {
	return &NamedCloser{probe: p, name: name}
}

// Closed returns the names of closed closers in close order.
func (p *DisposalProbe) Closed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.closed))
	copy(out, p.closed)
	return out
}

// NamedCloser implements io.Closer and reports each Close to its probe.
type NamedCloser struct {
	probe *DisposalProbe
	name  string
	count atomic.Int64
}

func (nc *NamedCloser) Close() error {
	nc.count.Add(1)
	nc.probe.mu.Lock()
	nc.probe.closed = append(nc.probe.closed, nc.name)
	nc.probe.mu.Unlock()
	return nil
}

// CloseCount reports how many times Close was called.
func (nc *NamedCloser) CloseCount() int64 { return nc.count.Load() }
