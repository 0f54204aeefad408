package ecs

import (
	"github.com/TheBitDrifter/mask"

	"github.com/milk9111/alphaengine/common"
)

// MaxComponents is the number of distinct component types a process may use.
const MaxComponents = 32

// ComponentID is the dense per-type index used as a signature bit.
type ComponentID uint32

// ComponentTypeID returns the process-wide id of T, assigning one on first use.
// Registering more than MaxComponents types panics.
func ComponentTypeID[T any]() ComponentID {
	return ComponentID(common.TypeID[T](common.ComponentTypes))
}

// Signature records which component types an entity has, or a system needs.
type Signature struct {
	bits mask.Mask
}

// SignatureOf builds a signature from component ids.
func SignatureOf(ids ...ComponentID) Signature {
	var s Signature
	for _, id := range ids {
		s.Set(id)
	}
	return s
}

func (s *Signature) Set(id ComponentID) {
	s.bits.Mark(uint32(id))
}

func (s *Signature) Clear(id ComponentID) {
	s.bits.Unmark(uint32(id))
}

func (s Signature) Test(id ComponentID) bool {
	var probe mask.Mask
	probe.Mark(uint32(id))
	return s.bits.ContainsAll(probe)
}

// Matches reports whether s contains every bit of required, i.e.
// (s & required) == required.
func (s Signature) Matches(required Signature) bool {
	return s.bits.ContainsAll(required.bits)
}

func (s Signature) IsEmpty() bool {
	return s.bits == mask.Mask{}
}

// Reset clears all bits.
func (s *Signature) Reset() {
	s.bits = mask.Mask{}
}
