package common

import (
	"fmt"
	"reflect"
	"sync"
)

// TypeRegistry hands out small, dense ids for Go types. Ids are assigned on
// first request and never change for the lifetime of the process.
type TypeRegistry struct {
	name  string
	limit int

	mu  sync.Mutex
	ids map[reflect.Type]uint32
}

// NewTypeRegistry creates a registry. A limit of zero means unbounded.
func NewTypeRegistry(name string, limit int) *TypeRegistry {
	return &TypeRegistry{name: name, limit: limit, ids: make(map[reflect.Type]uint32)}
}

var (
	ComponentTypes = NewTypeRegistry("component", 32)
	SystemTypes    = NewTypeRegistry("system", 0)
	LayerTypes     = NewTypeRegistry("layer", 0)
)

// TypeID returns the id of T in r, assigning the next free id when T has not
// been seen before. Running out of ids on a bounded registry is a
// configuration error and panics.
func TypeID[T any](r *TypeRegistry) uint32 {
	return r.idOf(reflect.TypeFor[T]())
}

func (r *TypeRegistry) idOf(t reflect.Type) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.ids[t]; ok {
		return id
	}
	id := uint32(len(r.ids))
	if r.limit > 0 && int(id) >= r.limit {
		panic(fmt.Sprintf("common: %s type limit %d exceeded registering %s", r.name, r.limit, t))
	}
	r.ids[t] = id
	return id
}

// Len reports how many types have been registered.
func (r *TypeRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

// Limit reports the registry capacity, zero when unbounded.
func (r *TypeRegistry) Limit() int {
	return r.limit
}
