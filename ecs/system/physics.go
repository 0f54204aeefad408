package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/ecs/component"
	"github.com/milk9111/alphaengine/event"
	"github.com/milk9111/alphaengine/physics"
)

// MeshSource is the part of the asset manager physics needs to build mesh
// bodies.
type MeshSource interface {
	IsMeshLoaded(h asset.Handle) bool
	MeshVertices(h asset.Handle) []mgl32.Vec3
	MeshIndices(h asset.Handle) []uint32
}

type meshRequest struct {
	entity ecs.Entity
	mesh   asset.Handle
	pos    mgl32.Vec3
	scale  mgl32.Vec3
}

// PhysicsSystem steps the physics world on a fixed timestep and copies the
// result into transforms. Contacts are turned into CollisionEvents on the
// bus after the step.
type PhysicsSystem struct {
	ecs.SystemBase

	world  *physics.World
	meshes MeshSource
	bus    *event.Bus
	log    *zap.Logger

	pending []meshRequest
	bodies  map[ecs.Entity]physics.BodyID
}

func NewPhysicsSystem(world *physics.World, meshes MeshSource, bus *event.Bus, log *zap.Logger) *PhysicsSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &PhysicsSystem{
		world:  world,
		meshes: meshes,
		bus:    bus,
		log:    log,
		bodies: make(map[ecs.Entity]physics.BodyID),
	}
	ecs.Require[component.RigidBody](&s.SystemBase)
	ecs.Require[component.Transform](&s.SystemBase)
	return s
}

func (s *PhysicsSystem) World() *physics.World {
	return s.world
}

// track records id as e's body. A body left behind by an earlier entity
// with the same id is removed.
func (s *PhysicsSystem) track(e ecs.Entity, id physics.BodyID) physics.BodyID {
	if !id.Valid() {
		return id
	}
	if old, ok := s.bodies[e]; ok && old != id {
		s.world.RemoveBody(old)
	}
	s.bodies[e] = id
	return id
}

func (s *PhysicsSystem) CreateSphereBody(e ecs.Entity, pos mgl32.Vec3, radius float32, static bool) physics.BodyID {
	return s.track(e, s.world.CreateSphereBody(uint64(e), pos, radius, static))
}

func (s *PhysicsSystem) CreateBoxBody(e ecs.Entity, pos, halfExtents mgl32.Vec3, static bool, restitution float32) physics.BodyID {
	return s.track(e, s.world.CreateBoxBody(uint64(e), pos, halfExtents, static, restitution))
}

func (s *PhysicsSystem) CreateSensorBox(e ecs.Entity, pos, halfExtents mgl32.Vec3) physics.BodyID {
	return s.track(e, s.world.CreateSensorBox(uint64(e), pos, halfExtents))
}

// CreateMeshBody builds a static body from mesh data that is already in
// memory. Failures are logged and yield an invalid id.
func (s *PhysicsSystem) CreateMeshBody(e ecs.Entity, vertices []mgl32.Vec3, indices []uint32, pos, scale mgl32.Vec3) physics.BodyID {
	id, err := s.world.CreateMeshBody(uint64(e), vertices, indices, pos, scale)
	if err != nil {
		s.log.Error("mesh body creation failed", zap.Stringer("entity", e), zap.Error(err))
		return physics.InvalidBody
	}
	return s.track(e, id)
}

// RequestMeshBody defers a mesh body until the mesh has finished loading.
// The entity's RigidBody is filled in when the body exists.
func (s *PhysicsSystem) RequestMeshBody(e ecs.Entity, mesh asset.Handle, pos, scale mgl32.Vec3) {
	s.pending = append(s.pending, meshRequest{entity: e, mesh: mesh, pos: pos, scale: scale})
}

// CancelMeshRequests drops e's pending mesh bodies. Call it when e is
// destroyed before its mesh loaded, so a recycled id does not inherit them.
func (s *PhysicsSystem) CancelMeshRequests(e ecs.Entity) int {
	kept := s.pending[:0]
	for _, req := range s.pending {
		if req.entity != e {
			kept = append(kept, req)
		}
	}
	n := len(s.pending) - len(kept)
	s.pending = kept
	return n
}

func (s *PhysicsSystem) PendingMeshRequests() int {
	return len(s.pending)
}

// CastRay returns the entity of the closest solid body along the ray.
func (s *PhysicsSystem) CastRay(origin, dir mgl32.Vec3, maxDistance float32) (ecs.Entity, physics.RayHit, bool) {
	hit, ok := s.world.CastRay(origin, dir, maxDistance)
	if !ok {
		return ecs.NullEntity, hit, false
	}
	data, ok := s.world.UserData(hit.Body)
	if !ok {
		return ecs.NullEntity, hit, false
	}
	return ecs.Entity(data), hit, true
}

func (s *PhysicsSystem) Update(o *ecs.Orchestrator, dt float32) {
	s.reap(o)
	s.world.Advance(float64(dt))
	s.resolveMeshRequests(o)
	s.publishContacts()
	s.syncTransforms(o)
}

// reap removes bodies no entity owns any more. An id can be destroyed and
// handed out again between two updates, so ownership is the entity's
// RigidBody still naming the body, not liveness alone.
func (s *PhysicsSystem) reap(o *ecs.Orchestrator) {
	for e, id := range s.bodies {
		if rb, err := ecs.GetComponent[component.RigidBody](o, e); err == nil && rb.Body == id {
			continue
		}
		s.world.RemoveBody(id)
		delete(s.bodies, e)
	}
}

func (s *PhysicsSystem) resolveMeshRequests(o *ecs.Orchestrator) {
	if s.meshes == nil {
		return
	}
	remaining := s.pending[:0]
	for _, req := range s.pending {
		if !o.IsAlive(req.entity) {
			continue
		}
		if !s.meshes.IsMeshLoaded(req.mesh) {
			remaining = append(remaining, req)
			continue
		}

		id := s.CreateMeshBody(req.entity, s.meshes.MeshVertices(req.mesh), s.meshes.MeshIndices(req.mesh), req.pos, req.scale)
		if !id.Valid() {
			continue
		}
		if rb, err := ecs.GetComponent[component.RigidBody](o, req.entity); err == nil {
			rb.Body = id
			s.log.Debug("mesh body linked", zap.Stringer("entity", req.entity), zap.Uint32("body", uint32(id)))
		}
	}
	s.pending = remaining
}

func (s *PhysicsSystem) publishContacts() {
	for _, c := range s.world.DrainContacts() {
		a, okA := s.world.UserData(c.A)
		b, okB := s.world.UserData(c.B)
		if !okA || !okB {
			continue
		}
		s.bus.Publish(&ecs.CollisionEvent{
			A:      ecs.Entity(a),
			B:      ecs.Entity(b),
			Start:  c.Start,
			Sensor: c.Sensor,
		})
	}
}

func (s *PhysicsSystem) syncTransforms(o *ecs.Orchestrator) {
	for _, e := range s.GetSystemEntities() {
		rb, err := ecs.GetComponent[component.RigidBody](o, e)
		if err != nil || !rb.Body.Valid() {
			continue
		}
		transform, err := ecs.GetComponent[component.Transform](o, e)
		if err != nil {
			continue
		}
		pos, rot, ok := s.world.Transform(rb.Body)
		if !ok {
			continue
		}
		transform.Position = pos
		transform.Rotation = rot
	}
}
