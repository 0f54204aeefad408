package system

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/ecs/component"
	"github.com/milk9111/alphaengine/input"
)

// PlayerControllerSystem turns WASD and space into velocity.
type PlayerControllerSystem struct {
	ecs.SystemBase
	input *input.State
}

func NewPlayerControllerSystem(in *input.State) *PlayerControllerSystem {
	s := &PlayerControllerSystem{input: in}
	ecs.Require[component.PlayerController](&s.SystemBase)
	ecs.Require[component.Velocity](&s.SystemBase)
	return s
}

func (s *PlayerControllerSystem) Update(o *ecs.Orchestrator, _ float32) {
	if s.input == nil {
		return
	}

	dir := mgl32.Vec3{
		s.input.Axis(input.KeyA, input.KeyD),
		0,
		s.input.Axis(input.KeyW, input.KeyS),
	}
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	jump := s.input.Pressed(input.KeySpace)

	for _, e := range s.GetSystemEntities() {
		pc, err := ecs.GetComponent[component.PlayerController](o, e)
		if err != nil {
			continue
		}
		vel, err := ecs.GetComponent[component.Velocity](o, e)
		if err != nil {
			continue
		}

		vel.Linear[0] = dir.X() * pc.MoveSpeed
		vel.Linear[2] = dir.Z() * pc.MoveSpeed
		if jump && vel.Grounded {
			vel.Linear[1] = pc.JumpForce
			vel.Grounded = false
		}

		if in, err := ecs.GetComponent[component.Input](o, e); err == nil {
			in.MoveX = dir.X()
			in.MoveZ = dir.Z()
			in.Jump = s.input.Down(input.KeySpace)
			in.JumpPressed = jump
		}
	}
}
