// Package scopekit manages dependency-resolution containers across
// short-lived function invocations.
//
// A process hosts many functions. Each function registers a configuration
// once (registry.Initialize), and the registry builds one container per
// distinct configuration, shared by every function that registers the same
// configuration. Each invocation gets its own scope keyed by invocation ID;
// scoped services live for one invocation and are disposed when the host
// calls RemoveScope.
//
// The packages:
//
//   - container: the DI container (builder, lifetimes, scopes)
//   - registry: the process-wide registry keyed by function and invocation
//   - verify: the configuration verification pass for test suites
//   - config: host-level settings loading
//   - logger, observability, errors, testutil: supporting infrastructure
//
// See examples/httphost for an end-to-end HTTP host.
package scopekit
