// Package container provides the dependency-injection container consumed by
// the scopekit registry.
//
// A container is built once from a configuration procedure and is immutable
// afterwards. Resolution happens through child scopes: each scope owns the
// instances it creates for Scoped and Transient bindings and releases them on
// Dispose. Singleton bindings are created at most once per container and are
// shared by every scope.
//
// # Building
//
//	c, err := container.Build(func(b *container.Builder) error {
//	    container.Provide[*db.Pool](b, db.NewPool, container.AsSingleton())
//	    container.Provide[Mailer](b, NewSMTPMailer, container.Named("primary"))
//	    return nil
//	})
//
// # Resolving
//
//	scope := c.BeginScope()
//	defer scope.Dispose()
//	pool, err := container.Resolve[*db.Pool](scope)
package container
