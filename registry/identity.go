package registry

import (
	"fmt"
	"reflect"
)

// configID is the configuration identity: the key deciding whether two
// Initialize calls share one root container. It is the address of the
// configure func value, so registrations passing the same stored func value
// share a container, while distinct func values are distinct configurations
// even when they were created from the same function literal. The registry
// retains every keyed func value (see rootEntry) so the runtime cannot
// recycle an address for an unrelated configuration.
type configID uintptr

// identityOf derives the configuration identity of a configure procedure.
func identityOf(configure ConfigureFunc) configID {
	return configID(reflect.ValueOf(configure).Pointer())
}

// String renders the identity for logs and metric attributes.
func (id configID) String() string {
	return fmt.Sprintf("cfg-%x", uintptr(id))
}
