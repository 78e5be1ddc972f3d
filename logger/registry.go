package logger

import (
	"sync"
)

// Component names used by this module's own packages. Hosts may register
// loggers for them to redirect library output.
const (
	ComponentRegistry  = "registry"
	ComponentContainer = "container"
	ComponentVerify    = "verify"
)

// components holds the named component loggers.
var components = struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register stores the logger used for a component. Later registrations for
// the same component replace earlier ones.
func Register(component string, l *Logger) {
	components.mu.Lock()
	defer components.mu.Unlock()
	components.loggers[component] = l
}

// Get returns the logger for a component. Unregistered components fall back
// to a component-tagged view of the global logger, so library packages can
// log without any host setup.
func Get(component string) *Logger {
	components.mu.RLock()
	l, ok := components.loggers[component]
	components.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(component)
}

// SeedComponents registers this module's component loggers from a base
// logger. Call it after Init when the host wants every library line to
// carry its service tag.
func SeedComponents(base *Logger) {
	for _, component := range []string{ComponentRegistry, ComponentContainer, ComponentVerify} {
		Register(component, base.WithComponent(component))
	}
}
