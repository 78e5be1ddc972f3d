// Package config loads and validates host-level settings for the
// resolution registry.
//
// Settings come from defaults, an optional scopekit.yml file, an optional
// .env file, and SCOPEKIT_-prefixed environment variables, with later
// sources overriding earlier ones:
//
//	settings, err := config.Load()
//	if err != nil {
//	    ...
//	}
//	reg := registry.New(settings.RegistryOptions()...)
//
// Environment variables use underscore-separated paths, so
// SCOPEKIT_REGISTRY_DEFAULT_CACHING=false disables caching by default.
package config
