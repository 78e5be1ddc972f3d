// Package registry provides a process-wide dependency-resolution registry
// for hosts that run many short-lived invocations of the same logical
// function.
//
// A function's glue code declares its container configuration once via
// Initialize. Each invocation then resolves dependencies through Resolve,
// scoped to the invocation id the host supplies, and releases the scope with
// RemoveScope when the invocation completes.
//
// Containers are shared aggressively: two functions registering the same
// configuration procedure share one root container, and that container is
// built exactly once even when many cold-start invocations race. Disabling
// caching for a function makes every resolution build a fresh container
// instead, trading sharing for isolation.
//
//	reg := registry.New()
//	err := reg.Initialize(wireServices, "ProcessOrder")
//
//	// per invocation:
//	mailer, err := registry.ResolveAs[Mailer](ctx, reg, "", "ProcessOrder", invocationID)
//	defer reg.RemoveScope(ctx, invocationID)
package registry
