package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/common"
)

// BodyID identifies a body in a World. The zero value is invalid.
type BodyID uint32

const InvalidBody BodyID = 0

func (id BodyID) Valid() bool {
	return id != InvalidBody
}

var (
	ErrNoVertices = errors.New("physics: mesh has no vertices")
	ErrNoIndices  = errors.New("physics: mesh has no indices")
	ErrDegenerate = errors.New("physics: mesh hull is degenerate")
)

const collisionTypeBody cp.CollisionType = 1

const (
	categorySolid  uint = 1 << 0
	categorySensor uint = 1 << 1
)

type Config struct {
	Gravity      float64
	Iterations   int
	FixedStep    float64
	MaxFrameTime float64
}

func DefaultConfig() Config {
	return Config{
		Gravity:      -9.81,
		Iterations:   10,
		FixedStep:    1.0 / 60.0,
		MaxFrameTime: 0.25,
	}
}

type body struct {
	body     *cp.Body
	shape    *cp.Shape
	z        float32
	userData uint64
	sensor   bool
}

// World simulates bodies on the XY plane. Each body keeps the Z coordinate
// it was created with, so a 3D scene laid out on that plane keeps its depth.
type World struct {
	log   *zap.Logger
	cfg   Config
	space *cp.Space

	bodies map[BodyID]*body
	nextID BodyID

	contacts    common.Queue[Contact]
	accumulator float64
}

func NewWorld(cfg Config, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.FixedStep <= 0 {
		cfg.FixedStep = def.FixedStep
	}
	if cfg.MaxFrameTime <= 0 {
		cfg.MaxFrameTime = def.MaxFrameTime
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = def.Iterations
	}

	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})

	w := &World{
		log:    log,
		cfg:    cfg,
		space:  space,
		bodies: make(map[BodyID]*body),
	}
	w.setupHandlers()
	return w
}

// Advance feeds real elapsed time into the fixed-timestep accumulator and
// steps the space as many times as it allows. It returns the step count.
func (w *World) Advance(frameTime float64) int {
	if w == nil {
		return 0
	}
	w.accumulator += min(max(frameTime, 0), w.cfg.MaxFrameTime)
	steps := 0
	for w.accumulator >= w.cfg.FixedStep {
		w.space.Step(w.cfg.FixedStep)
		w.accumulator -= w.cfg.FixedStep
		steps++
	}
	return steps
}

// Step advances the simulation by exactly dt, bypassing the accumulator.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	w.space.Step(dt)
}

func (w *World) FixedStep() float64 {
	return w.cfg.FixedStep
}

func (w *World) add(b *cp.Body, shape *cp.Shape, z float32, userData uint64, sensor bool) BodyID {
	w.nextID++
	id := w.nextID

	shape.SetCollisionType(collisionTypeBody)
	shape.UserData = id
	if sensor {
		shape.SetSensor(true)
		shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: categorySensor, Mask: cp.ALL_CATEGORIES})
	} else {
		shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: categorySolid, Mask: cp.ALL_CATEGORIES})
	}
	b.UserData = userData

	w.space.AddBody(b)
	w.space.AddShape(shape)
	w.bodies[id] = &body{body: b, shape: shape, z: z, userData: userData, sensor: sensor}
	return id
}

func newBody(static bool, mass, moment float64, pos mgl32.Vec3) *cp.Body {
	var b *cp.Body
	if static {
		b = cp.NewStaticBody()
	} else {
		b = cp.NewBody(mass, moment)
	}
	b.SetPosition(cp.Vector{X: float64(pos.X()), Y: float64(pos.Y())})
	return b
}

// CreateSphereBody adds a circle of the given radius. Dynamic spheres are
// bouncy with unit mass.
func (w *World) CreateSphereBody(userData uint64, pos mgl32.Vec3, radius float32, static bool) BodyID {
	if w == nil || radius <= 0 {
		return InvalidBody
	}
	const mass = 1.0
	r := float64(radius)
	b := newBody(static, mass, cp.MomentForCircle(mass, 0, r, cp.Vector{}), pos)
	shape := cp.NewCircle(b, r, cp.Vector{})
	shape.SetFriction(0.5)
	if !static {
		shape.SetElasticity(0.7)
	}
	return w.add(b, shape, pos.Z(), userData, false)
}

// CreateBoxBody adds a box with the given half extents.
func (w *World) CreateBoxBody(userData uint64, pos, halfExtents mgl32.Vec3, static bool, restitution float32) BodyID {
	if w == nil || halfExtents.X() <= 0 || halfExtents.Y() <= 0 {
		return InvalidBody
	}
	const mass = 1.0
	width, height := 2*float64(halfExtents.X()), 2*float64(halfExtents.Y())
	b := newBody(static, mass, cp.MomentForBox(mass, width, height), pos)
	shape := cp.NewBox(b, width, height, 0)
	shape.SetFriction(0.2)
	shape.SetElasticity(float64(restitution))
	return w.add(b, shape, pos.Z(), userData, false)
}

// CreateSensorBox adds a static trigger volume. Sensors report contacts but
// never push bodies and are ignored by CastRay.
func (w *World) CreateSensorBox(userData uint64, pos, halfExtents mgl32.Vec3) BodyID {
	if w == nil || halfExtents.X() <= 0 || halfExtents.Y() <= 0 {
		return InvalidBody
	}
	b := newBody(true, 0, 0, pos)
	shape := cp.NewBox(b, 2*float64(halfExtents.X()), 2*float64(halfExtents.Y()), 0)
	return w.add(b, shape, pos.Z(), userData, true)
}

// CreateMeshBody adds a static body shaped like the convex hull of the
// mesh's scaled vertices projected onto the XY plane.
func (w *World) CreateMeshBody(userData uint64, vertices []mgl32.Vec3, indices []uint32, pos, scale mgl32.Vec3) (BodyID, error) {
	if w == nil {
		return InvalidBody, nil
	}
	if len(vertices) == 0 {
		return InvalidBody, ErrNoVertices
	}
	if len(indices) == 0 {
		return InvalidBody, ErrNoIndices
	}
	points := make([]cp.Vector, 0, len(indices))
	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			continue
		}
		v := vertices[idx]
		points = append(points, cp.Vector{X: float64(v.X() * scale.X()), Y: float64(v.Y() * scale.Y())})
	}
	hull := ConvexHull(points)
	if len(hull) < 3 {
		return InvalidBody, ErrDegenerate
	}

	b := newBody(true, 0, 0, pos)
	shape := cp.NewPolyShapeRaw(b, len(hull), hull, 0)
	shape.SetFriction(0.5)
	return w.add(b, shape, pos.Z(), userData, false), nil
}

// RemoveBody takes id out of the simulation. Unknown ids are ignored.
func (w *World) RemoveBody(id BodyID) {
	if w == nil {
		return
	}
	b, ok := w.bodies[id]
	if !ok {
		return
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	delete(w.bodies, id)
}

// RayHit describes the closest non-sensor body hit by CastRay.
type RayHit struct {
	Body     BodyID
	Point    mgl32.Vec3
	Distance float32
}

// CastRay returns the closest solid body along dir within maxDistance.
// Only the XY part of the ray is considered.
func (w *World) CastRay(origin, dir mgl32.Vec3, maxDistance float32) (RayHit, bool) {
	if w == nil || maxDistance <= 0 {
		return RayHit{}, false
	}
	flat := mgl32.Vec2{dir.X(), dir.Y()}
	if flat.Len() == 0 {
		return RayHit{}, false
	}
	flat = flat.Normalize().Mul(maxDistance)

	start := cp.Vector{X: float64(origin.X()), Y: float64(origin.Y())}
	end := cp.Vector{X: start.X + float64(flat.X()), Y: start.Y + float64(flat.Y())}
	filter := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: categorySolid}
	info := w.space.SegmentQueryFirst(start, end, 0, filter)
	if info.Shape == nil {
		return RayHit{}, false
	}
	id, ok := info.Shape.UserData.(BodyID)
	if !ok {
		return RayHit{}, false
	}
	return RayHit{
		Body:     id,
		Point:    mgl32.Vec3{float32(info.Point.X), float32(info.Point.Y), origin.Z()},
		Distance: float32(info.Alpha) * maxDistance,
	}, true
}

// Transform returns the simulated position and rotation of id.
func (w *World) Transform(id BodyID) (mgl32.Vec3, mgl32.Quat, bool) {
	if w == nil {
		return mgl32.Vec3{}, mgl32.QuatIdent(), false
	}
	b, ok := w.bodies[id]
	if !ok {
		return mgl32.Vec3{}, mgl32.QuatIdent(), false
	}
	p := b.body.Position()
	rot := mgl32.QuatRotate(float32(b.body.Angle()), mgl32.Vec3{0, 0, 1})
	return mgl32.Vec3{float32(p.X), float32(p.Y), b.z}, rot, true
}

// SetPosition teleports id, keeping its Z.
func (w *World) SetPosition(id BodyID, pos mgl32.Vec3) {
	if b, ok := w.lookup(id); ok {
		b.body.SetPosition(cp.Vector{X: float64(pos.X()), Y: float64(pos.Y())})
		b.z = pos.Z()
	}
}

func (w *World) Velocity(id BodyID) mgl32.Vec3 {
	b, ok := w.lookup(id)
	if !ok {
		return mgl32.Vec3{}
	}
	v := b.body.Velocity()
	return mgl32.Vec3{float32(v.X), float32(v.Y), 0}
}

func (w *World) SetVelocity(id BodyID, v mgl32.Vec3) {
	if b, ok := w.lookup(id); ok {
		b.body.SetVelocity(float64(v.X()), float64(v.Y()))
	}
}

// ApplyImpulse pushes id through its centre of mass.
func (w *World) ApplyImpulse(id BodyID, impulse mgl32.Vec3) {
	if b, ok := w.lookup(id); ok {
		b.body.ApplyImpulseAtWorldPoint(cp.Vector{X: float64(impulse.X()), Y: float64(impulse.Y())}, b.body.Position())
	}
}

// UserData returns the value attached to id at creation.
func (w *World) UserData(id BodyID) (uint64, bool) {
	b, ok := w.lookup(id)
	if !ok {
		return 0, false
	}
	return b.userData, true
}

func (w *World) IsSensor(id BodyID) bool {
	b, ok := w.lookup(id)
	return ok && b.sensor
}

// EachShape calls fn for every shape in the world with the Z its body
// keeps off the simulation plane.
func (w *World) EachShape(fn func(shape *cp.Shape, z float32)) {
	if w == nil {
		return
	}
	for _, b := range w.bodies {
		fn(b.shape, b.z)
	}
}

func (w *World) BodyCount() int {
	if w == nil {
		return 0
	}
	return len(w.bodies)
}

func (w *World) lookup(id BodyID) (*body, bool) {
	if w == nil {
		return nil, false
	}
	b, ok := w.bodies[id]
	return b, ok
}
