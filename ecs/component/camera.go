package component

import "github.com/go-gl/mathgl/mgl32"

// Camera is a perspective camera. The camera system fills View, Projection
// and ViewProjection each frame from the entity's transform.
type Camera struct {
	Target mgl32.Vec3
	Up     mgl32.Vec3
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	View           mgl32.Mat4
	Projection     mgl32.Mat4
	ViewProjection mgl32.Mat4
}

// NewCamera returns a camera with a 45 degree field of view looking at
// target.
func NewCamera(target mgl32.Vec3, aspect float32) Camera {
	return Camera{
		Target:         target,
		Up:             mgl32.Vec3{0, 1, 0},
		FOV:            45,
		Aspect:         aspect,
		Near:           0.1,
		Far:            1000,
		View:           mgl32.Ident4(),
		Projection:     mgl32.Ident4(),
		ViewProjection: mgl32.Ident4(),
	}
}
