// Package verify provides a design-time check that a function's declared
// container configuration actually satisfies its injection points.
//
// Function glue code registers a Declaration naming its configuration
// constructors and the (type, name) pairs its handler takes from the
// container. Configuration then runs the declared configuration through a
// throwaway registry entry under a synthetic function name and invocation
// id, and resolves every injection point once.
//
// This is a validation-time facility for tests and startup checks; do not
// call it on the invocation hot path.
//
//	decl := verify.Declaration{
//	    TypeName: "OrderFunctions",
//	    Config:   &verify.Constructors{NameOnly: newOrderConfig},
//	    Points:   []verify.InjectionPoint{{Type: container.KeyOf[Mailer]()}},
//	}
//	if err := verify.Configuration(ctx, decl); err != nil { ... }
package verify
