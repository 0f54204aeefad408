package system

import (
	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/ecs/component"
)

// MovementSystem integrates kinematic velocity for entities that physics
// does not own, landing them on a flat ground plane.
type MovementSystem struct {
	ecs.SystemBase
	GroundHeight float32
}

func NewMovementSystem() *MovementSystem {
	s := &MovementSystem{}
	ecs.Require[component.Transform](&s.SystemBase)
	ecs.Require[component.Velocity](&s.SystemBase)
	return s
}

func (s *MovementSystem) Update(o *ecs.Orchestrator, dt float32) {
	for _, e := range s.GetSystemEntities() {
		transform, err := ecs.GetComponent[component.Transform](o, e)
		if err != nil {
			continue
		}
		vel, err := ecs.GetComponent[component.Velocity](o, e)
		if err != nil {
			continue
		}

		if vel.UseGravity && !vel.Grounded {
			vel.Linear[1] += vel.Gravity * dt
		}
		transform.Position = transform.Position.Add(vel.Linear.Mul(dt))

		if transform.Position.Y() <= s.GroundHeight {
			transform.Position[1] = s.GroundHeight
			vel.Linear[1] = 0
			vel.Grounded = true
		} else {
			vel.Grounded = false
		}
	}
}
