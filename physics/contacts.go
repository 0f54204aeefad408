package physics

import "github.com/jakecoffman/cp"

// Contact is a begin or end of touching between two bodies, recorded during
// a step and handed out by DrainContacts afterwards.
type Contact struct {
	A, B   BodyID
	Start  bool
	Sensor bool
}

func (w *World) setupHandlers() {
	handler := w.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		w.recordContact(arb, true)
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		w.recordContact(arb, false)
	}
}

func (w *World) recordContact(arb *cp.Arbiter, start bool) {
	shapeA, shapeB := arb.Shapes()
	a, okA := shapeA.UserData.(BodyID)
	b, okB := shapeB.UserData.(BodyID)
	if !okA || !okB {
		return
	}
	w.contacts.Push(Contact{
		A:      a,
		B:      b,
		Start:  start,
		Sensor: w.IsSensor(a) || w.IsSensor(b),
	})
}

// DrainContacts returns every contact recorded since the last drain.
func (w *World) DrainContacts() []Contact {
	if w == nil {
		return nil
	}
	return w.contacts.Drain()
}
