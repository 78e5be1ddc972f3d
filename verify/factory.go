package verify

import (
	"github.com/skillsenselab/scopekit/errors"
	"github.com/skillsenselab/scopekit/logger"
	"github.com/skillsenselab/scopekit/registry"
)

// LoggerFactory produces component-tagged loggers for configuration
// constructors that want one.
type LoggerFactory func(component string) *logger.Logger

// Constructors holds the known configuration construction signatures.
// At least one must be set; richer signatures are preferred when their
// inputs are available.
type Constructors struct {
	// NameOnly builds the configuration from the function name alone.
	NameOnly func(name string) registry.ConfigureFunc
	// NameDir additionally receives the function app directory.
	NameDir func(name, dir string) registry.ConfigureFunc
	// NameLogger additionally receives a logger factory.
	NameLogger func(name string, lf LoggerFactory) registry.ConfigureFunc
	// NameDirLogger receives both the directory and a logger factory.
	NameDirLogger func(name, dir string, lf LoggerFactory) registry.ConfigureFunc
}

// factoryInputs are the values available for constructor selection.
type factoryInputs struct {
	name          string
	directory     string
	loggerFactory LoggerFactory
}

// construct selects a constructor by ranked available-parameter matching:
// name+directory+logger factory, then name+directory, then name+logger
// factory, falling back to name alone.
func (c *Constructors) construct(in factoryInputs) (registry.ConfigureFunc, error) {
	switch {
	case c.NameDirLogger != nil && in.directory != "" && in.loggerFactory != nil:
		return c.NameDirLogger(in.name, in.directory, in.loggerFactory), nil
	case c.NameDir != nil && in.directory != "":
		return c.NameDir(in.name, in.directory), nil
	case c.NameLogger != nil && in.loggerFactory != nil:
		return c.NameLogger(in.name, in.loggerFactory), nil
	case c.NameOnly != nil:
		return c.NameOnly(in.name), nil
	default:
		return nil, errors.InvalidInput("no configuration constructor matches the available inputs")
	}
}
