package ecs

import "github.com/milk9111/alphaengine/common"

// System is anything that embeds SystemBase. The orchestrator only needs the
// base to keep membership current; behaviour lives on the concrete type.
type System interface {
	Base() *SystemBase
}

// SystemID is the dense per-type index of a registered system type.
type SystemID uint32

// SystemTypeID returns the process-wide id of system type T.
func SystemTypeID[T System]() SystemID {
	return SystemID(common.TypeID[T](common.SystemTypes))
}

const defaultSystemCapacity = 1024

// SystemBase tracks the entities whose signature satisfies the system's
// requirement. Members are kept densely; index maps an entity id to its
// position in entities, or -1.
type SystemBase struct {
	required Signature
	entities []Entity
	index    []int32
}

// Base lets a *SystemBase satisfy System on its own, and concrete systems
// satisfy it by embedding.
func (b *SystemBase) Base() *SystemBase { return b }

// Require adds T to b's required signature. Call it while constructing the
// system, before it is registered.
func Require[T any](b *SystemBase) {
	b.required.Set(ComponentTypeID[T]())
}

// GetComponentSignature returns the required signature.
func (b *SystemBase) GetComponentSignature() Signature {
	return b.required
}

// GetSystemEntities returns the current members. The order is insertion
// order disturbed by swap-removal, and the slice must not be retained across
// a life-cycle commit.
func (b *SystemBase) GetSystemEntities() []Entity {
	if b == nil {
		return nil
	}
	return b.entities
}

func (b *SystemBase) HasEntity(e Entity) bool {
	if b == nil || !e.Valid() || int(e) >= len(b.index) {
		return false
	}
	idx := b.index[e]
	return idx >= 0 && int(idx) < len(b.entities) && b.entities[idx] == e
}

// AddEntityToSystem adds e as a member. Adding a member twice is a no-op.
func (b *SystemBase) AddEntityToSystem(e Entity) {
	if b == nil || !e.Valid() || b.HasEntity(e) {
		return
	}
	if int(e) >= len(b.index) {
		n := max(len(b.index)*2, int(e)+1, defaultSystemCapacity)
		grown := make([]int32, n)
		copy(grown, b.index)
		for i := len(b.index); i < n; i++ {
			grown[i] = -1
		}
		b.index = grown
	}
	b.entities = append(b.entities, e)
	b.index[e] = int32(len(b.entities) - 1)
}

// RemoveEntityFromSystem drops e, moving the last member into its slot.
func (b *SystemBase) RemoveEntityFromSystem(e Entity) {
	if !b.HasEntity(e) {
		return
	}
	idx := b.index[e]
	last := int32(len(b.entities) - 1)
	moved := b.entities[last]
	b.entities[idx] = moved
	b.index[moved] = idx
	b.entities = b.entities[:last]
	b.index[e] = -1
}

// Len reports how many entities are members.
func (b *SystemBase) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entities)
}

func (b *SystemBase) interested(sig Signature) bool {
	return sig.Matches(b.required)
}
