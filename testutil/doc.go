// Package testutil provides fixtures for testing code built on the
// resolution registry.
//
// CountingConfig is a configuration builder that counts container builds
// and service constructions, DisposalProbe records disposal order, and
// THelper ties registry scopes to testing.T cleanup:
//
//	func TestHandler(t *testing.T) {
//	    h := testutil.T(t)
//	    reg := h.Registry()
//	    cfg := testutil.NewCountingConfig()
//	    h.Initialize(reg, cfg.Configure, "handler")
//	    id := h.Invocation(reg)
//	    // resolve through reg with id; the scope is removed when
//	    // the test ends
//	}
package testutil
