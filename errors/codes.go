package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registry misuse errors
const (
	// ErrCodeNotInitialized indicates Resolve was called for a function name
	// that was never passed to Initialize.
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"
	// ErrCodeInvalidInput indicates a malformed argument (empty function
	// name, nil configure procedure).
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Verification errors
const (
	// ErrCodeConfigMismatch indicates an injection point exists without an
	// enclosing configuration declaration.
	ErrCodeConfigMismatch ErrorCode = "CONFIG_MISMATCH"
	// ErrCodeUnnecessaryConfig indicates a configuration declaration exists
	// with no injection points anywhere on the declaring type.
	ErrCodeUnnecessaryConfig ErrorCode = "UNNECESSARY_CONFIG"
)

// Container errors
const (
	// ErrCodeNotRegistered indicates the requested type key or named
	// binding is not registered in the container.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
	// ErrCodeConstructorFailed indicates a registered constructor returned
	// an error or an unusable value.
	ErrCodeConstructorFailed ErrorCode = "CONSTRUCTOR_FAILED"
	// ErrCodeScopeDisposed indicates a resolve was attempted against a
	// scope that was already disposed.
	ErrCodeScopeDisposed ErrorCode = "SCOPE_DISPOSED"
	// ErrCodeDependencyCycle indicates a constructor resolves a binding
	// that is already under construction on the same resolution path.
	ErrCodeDependencyCycle ErrorCode = "DEPENDENCY_CYCLE"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal library error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
