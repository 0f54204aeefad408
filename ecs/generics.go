package ecs

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// poolFor is the only place a type-erased pool is turned back into its
// concrete type. With create false it returns nil for unseen types.
func poolFor[T any](o *Orchestrator, create bool) *ComponentPool[T] {
	id := ComponentTypeID[T]()
	p := o.pools[id]
	if p == nil {
		if !create {
			return nil
		}
		typed := NewComponentPool[T](o.capacity)
		o.pools[id] = typed
		return typed
	}
	return p.(*ComponentPool[T])
}

// Pool returns the pool holding every T, creating it on first use.
func Pool[T any](o *Orchestrator) *ComponentPool[T] {
	return poolFor[T](o, true)
}

// AddComponent attaches value to e, overwriting an existing T. System
// membership follows at the next commit.
func AddComponent[T any](o *Orchestrator, e Entity, value T) error {
	if !e.Valid() {
		return ErrInvalidEntity
	}
	if !o.entities.isAlive(e) {
		return fmt.Errorf("add %T to %s: %w", value, e, ErrEntityNotAlive)
	}
	id := ComponentTypeID[T]()
	poolFor[T](o, true).AddComp(e, value)
	o.signatures[e].Set(id)
	o.toRefresh = append(o.toRefresh, e)
	return nil
}

// RemoveComponent detaches T from e. Removing an absent component only
// clears the bit.
func RemoveComponent[T any](o *Orchestrator, e Entity) error {
	if !o.entities.isAlive(e) {
		return fmt.Errorf("remove component from %s: %w", e, ErrEntityNotAlive)
	}
	id := ComponentTypeID[T]()
	if p := poolFor[T](o, false); p != nil {
		p.RemoveComp(e)
	}
	o.signatures[e].Clear(id)
	o.toRefresh = append(o.toRefresh, e)
	return nil
}

// HasComponent reads the signature table, so it reflects adds and removes
// immediately.
func HasComponent[T any](o *Orchestrator, e Entity) bool {
	if !o.entities.isAlive(e) {
		return false
	}
	return o.signatures[e].Test(ComponentTypeID[T]())
}

// GetComponent returns a pointer into T's pool. It is invalidated by the
// next add or remove of T on any entity.
func GetComponent[T any](o *Orchestrator, e Entity) (*T, error) {
	if !o.entities.isAlive(e) {
		return nil, fmt.Errorf("get component of %s: %w", e, ErrEntityNotAlive)
	}
	v, ok := poolFor[T](o, false).Get(e)
	if !ok {
		var zero T
		return nil, fmt.Errorf("get %T of %s: %w", zero, e, ErrComponentNotFound)
	}
	return v, nil
}

// MustGetComponent panics when e has no T. Use it where the caller already
// checked membership.
func MustGetComponent[T any](o *Orchestrator, e Entity) *T {
	v, err := GetComponent[T](o, e)
	if err != nil {
		panic(err)
	}
	return v
}

// AddSystem registers s, replacing any system of the same type. Entities
// already committed that match join immediately; entities still waiting in
// the to-add queue join at the next commit.
func AddSystem[T System](o *Orchestrator, s T) T {
	id := SystemTypeID[T]()
	if old, ok := o.systems[id]; ok {
		o.systemOrder = slices.DeleteFunc(o.systemOrder, func(x System) bool { return x == old })
	}
	o.systems[id] = s
	o.systemOrder = append(o.systemOrder, s)

	base := s.Base()
	pending := o.pendingAdds()
	for i := range o.signatures {
		e := Entity(i)
		if _, queued := pending[e]; queued || !o.entities.isAlive(e) {
			continue
		}
		if base.interested(o.signatures[e]) {
			base.AddEntityToSystem(e)
		}
	}
	o.log.Debug("system registered", zap.String("system", fmt.Sprintf("%T", s)), zap.Int("members", base.Len()))
	return s
}

func GetSystem[T System](o *Orchestrator) (T, error) {
	s, ok := o.systems[SystemTypeID[T]()]
	if !ok {
		var zero T
		return zero, fmt.Errorf("get %T: %w", zero, ErrSystemNotFound)
	}
	return s.(T), nil
}

func MustGetSystem[T System](o *Orchestrator) T {
	s, err := GetSystem[T](o)
	if err != nil {
		panic(err)
	}
	return s
}

func HasSystem[T System](o *Orchestrator) bool {
	_, ok := o.systems[SystemTypeID[T]()]
	return ok
}

func RemoveSystem[T System](o *Orchestrator) {
	id := SystemTypeID[T]()
	old, ok := o.systems[id]
	if !ok {
		return
	}
	delete(o.systems, id)
	o.systemOrder = slices.DeleteFunc(o.systemOrder, func(x System) bool { return x == old })
}
