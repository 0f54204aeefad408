package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/milk9111/alphaengine/physics"
)

// RigidBody links an entity to a body in the physics world.
type RigidBody struct {
	Body physics.BodyID
}

// Velocity drives kinematic movement for entities not owned by physics.
type Velocity struct {
	Linear     mgl32.Vec3
	Gravity    float32
	UseGravity bool
	Grounded   bool
}
