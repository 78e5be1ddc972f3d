// Package logger provides structured logging for scopekit using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields
// for function names, invocation ids, and container identities.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("registry")
//	log.Info("container built", logger.Fields(logger.FieldConfigID, id))
package logger
