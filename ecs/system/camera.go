package system

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/ecs/component"
	"github.com/milk9111/alphaengine/event"
)

const defaultAspect = 16.0 / 9.0

// CameraSystem rebuilds every camera's matrices from its transform. The
// aspect ratio follows window resizes published on the bus.
type CameraSystem struct {
	ecs.SystemBase
	aspect float32
}

func NewCameraSystem(bus *event.Bus) *CameraSystem {
	s := &CameraSystem{aspect: defaultAspect}
	ecs.Require[component.Transform](&s.SystemBase)
	ecs.Require[component.Camera](&s.SystemBase)

	event.On(bus, func(e *event.WindowResize) bool {
		if e.Width > 0 && e.Height > 0 {
			s.aspect = float32(e.Width) / float32(e.Height)
		}
		return false
	})
	return s
}

func (s *CameraSystem) Aspect() float32 {
	return s.aspect
}

func (s *CameraSystem) Update(o *ecs.Orchestrator, _ float32) {
	for _, e := range s.GetSystemEntities() {
		transform, err := ecs.GetComponent[component.Transform](o, e)
		if err != nil {
			continue
		}
		cam, err := ecs.GetComponent[component.Camera](o, e)
		if err != nil {
			continue
		}

		cam.Aspect = s.aspect
		up := cam.Up
		if up.Len() == 0 {
			up = mgl32.Vec3{0, 1, 0}
		}
		cam.View = mgl32.LookAtV(transform.Position, cam.Target, up)
		cam.Projection = mgl32.Perspective(mgl32.DegToRad(cam.FOV), cam.Aspect, cam.Near, cam.Far)
		cam.ViewProjection = cam.Projection.Mul4(cam.View)
	}
}
