package ecs

import (
	"fmt"

	"github.com/milk9111/alphaengine/event"
)

// CollisionEvent is published once per physics contact change, after the
// physics step has finished.
type CollisionEvent struct {
	event.Base
	A, B   Entity
	Start  bool
	Sensor bool
}

func (*CollisionEvent) Name() string { return "Collision" }

func (e *CollisionEvent) String() string {
	phase := "end"
	if e.Start {
		phase = "begin"
	}
	return fmt.Sprintf("Collision %s: %s <-> %s", phase, e.A, e.B)
}

// Other returns the entity paired with self, or NullEntity when self is not
// part of the contact.
func (e *CollisionEvent) Other(self Entity) Entity {
	switch self {
	case e.A:
		return e.B
	case e.B:
		return e.A
	}
	return NullEntity
}
