package ecs

// componentPool is the type-erased view the orchestrator keeps per component
// id. Only removal and membership are needed without knowing T.
type componentPool interface {
	removeEntity(e Entity) bool
	has(e Entity) bool
	size() int
}

// ComponentPool stores the T components of all entities densely. Values are
// packed at the front of data; sparse maps an entity id to its dense index,
// or -1 when the entity has no T.
type ComponentPool[T any] struct {
	data          []T
	denseEntities []Entity
	sparse        []int32
}

// NewComponentPool creates a pool with room for capacity entity ids.
func NewComponentPool[T any](capacity int) *ComponentPool[T] {
	p := &ComponentPool[T]{}
	if capacity > 0 {
		p.data = make([]T, 0, capacity)
		p.denseEntities = make([]Entity, 0, capacity)
		p.grow(capacity)
	}
	return p
}

func (p *ComponentPool[T]) grow(n int) {
	for len(p.sparse) < n {
		p.sparse = append(p.sparse, -1)
	}
}

// Has reports whether e has a value in the pool.
func (p *ComponentPool[T]) Has(e Entity) bool {
	if p == nil || !e.Valid() || int(e) >= len(p.sparse) {
		return false
	}
	idx := p.sparse[e]
	return idx >= 0 && int(idx) < len(p.denseEntities) && p.denseEntities[idx] == e
}

// AddComp stores value for e. An existing value is overwritten in place so
// the dense arrays never hold e twice.
func (p *ComponentPool[T]) AddComp(e Entity, value T) {
	if p == nil || !e.Valid() {
		return
	}
	if p.Has(e) {
		p.data[p.sparse[e]] = value
		return
	}
	p.grow(int(e) + 1)
	p.data = append(p.data, value)
	p.denseEntities = append(p.denseEntities, e)
	p.sparse[e] = int32(len(p.denseEntities) - 1)
}

// RemoveComp deletes e's value by moving the last value into its slot.
// It reports whether anything was removed.
func (p *ComponentPool[T]) RemoveComp(e Entity) bool {
	if !p.Has(e) {
		return false
	}
	idx := p.sparse[e]
	last := int32(len(p.denseEntities) - 1)
	lastEntity := p.denseEntities[last]

	p.data[idx] = p.data[last]
	p.denseEntities[idx] = lastEntity
	p.sparse[lastEntity] = idx

	var zero T
	p.data[last] = zero
	p.data = p.data[:last]
	p.denseEntities = p.denseEntities[:last]
	p.sparse[e] = -1
	return true
}

// Get returns a pointer to e's value. The pointer is valid until the next
// add or remove on this pool.
func (p *ComponentPool[T]) Get(e Entity) (*T, bool) {
	if !p.Has(e) {
		return nil, false
	}
	return &p.data[p.sparse[e]], true
}

// GetAllData returns the packed values. Index i belongs to Entities()[i].
func (p *ComponentPool[T]) GetAllData() []T {
	if p == nil {
		return nil
	}
	return p.data
}

// Entities returns the dense entity list.
func (p *ComponentPool[T]) Entities() []Entity {
	if p == nil {
		return nil
	}
	return p.denseEntities
}

func (p *ComponentPool[T]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.data)
}

func (p *ComponentPool[T]) removeEntity(e Entity) bool { return p.RemoveComp(e) }
func (p *ComponentPool[T]) has(e Entity) bool          { return p.Has(e) }
func (p *ComponentPool[T]) size() int                  { return p.Len() }
