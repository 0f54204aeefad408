package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/ecs/component"
	"github.com/milk9111/alphaengine/ecs/system"
	"github.com/milk9111/alphaengine/engine"
	"github.com/milk9111/alphaengine/physics"
	"github.com/milk9111/alphaengine/prefabs"
	"github.com/milk9111/alphaengine/render"
)

type buildContext struct {
	Name      string
	Offset    mgl32.Vec3
	Transform *component.Transform
}

type componentBuildFn func(b *Builder, e ecs.Entity, raw any, bc *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"transform": addTransform,
	"render":    addRender,
	"camera":    addCamera,
	"velocity":  addVelocity,
	"player":    addPlayer,
	"input":     addInput,
	"script":    addScript,
	"ttl":       addTTL,
	"body":      addBody,
}

// body goes last so it can read the transform.
var componentBuildOrder = []string{
	"transform",
	"render",
	"camera",
	"velocity",
	"player",
	"input",
	"script",
	"ttl",
	"body",
}

// proceduralMeshes are mesh names that are generated instead of loaded.
var proceduralMeshes = map[string]func() *asset.MeshData{
	"cube":  asset.Cube,
	"plane": func() *asset.MeshData { return asset.Plane(1) },
}

// Builder turns prefab specs into entities.
type Builder struct {
	ctx     *engine.Context
	physics *system.PhysicsSystem
	log     *zap.Logger
}

// NewBuilder needs physics only for specs that carry a body.
func NewBuilder(ctx *engine.Context, physics *system.PhysicsSystem) *Builder {
	return &Builder{ctx: ctx, physics: physics, log: ctx.Log.Named("scene")}
}

// BuildEntity creates one entity from spec, shifted by offset. On failure
// the half-built entity is destroyed.
func (b *Builder) BuildEntity(spec prefabs.EntitySpec, offset mgl32.Vec3) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return ecs.NullEntity, fmt.Errorf("build entity %q: no components", spec.Name)
	}

	o := b.ctx.ECS
	e, err := o.CreateEntity()
	if err != nil {
		return ecs.NullEntity, fmt.Errorf("build entity %q: %w", spec.Name, err)
	}
	bc := &buildContext{Name: spec.Name, Offset: offset}

	names := make([]string, 0, len(spec.Components))
	for name := range spec.Components {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return buildRank(names[i]) < buildRank(names[j]) })

	for _, name := range names {
		builder, ok := componentRegistry[name]
		if !ok {
			b.destroy(e)
			return ecs.NullEntity, fmt.Errorf("build entity %q: no builder for component %q", spec.Name, name)
		}
		if err := builder(b, e, spec.Components[name], bc); err != nil {
			b.destroy(e)
			return ecs.NullEntity, fmt.Errorf("build entity %q: add %q: %w", spec.Name, name, err)
		}
	}
	return e, nil
}

// destroy queues e for destruction along with anything physics still owes
// it.
func (b *Builder) destroy(e ecs.Entity) {
	if !b.ctx.ECS.IsAlive(e) {
		return
	}
	b.ctx.ECS.DestroyEntity(e)
	if b.physics != nil {
		b.physics.CancelMeshRequests(e)
	}
}

func buildRank(name string) int {
	for i, n := range componentBuildOrder {
		if n == name {
			return i
		}
	}
	return len(componentBuildOrder)
}

func addTransform(b *Builder, e ecs.Entity, raw any, bc *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := component.NewTransform(mgl32.Vec3(spec.Position).Add(bc.Offset))
	if spec.Rotation != (prefabs.Vec3Spec{}) {
		t.Rotation = mgl32.AnglesToQuat(
			mgl32.DegToRad(spec.Rotation[0]),
			mgl32.DegToRad(spec.Rotation[1]),
			mgl32.DegToRad(spec.Rotation[2]),
			mgl32.XYZ,
		)
	}
	if spec.Scale != nil {
		t.Scale = mgl32.Vec3(*spec.Scale)
	}
	if err := ecs.AddComponent(b.ctx.ECS, e, t); err != nil {
		return err
	}
	bc.Transform = &t
	return nil
}

func addRender(b *Builder, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render spec: %w", err)
	}
	if spec.Mesh == "" {
		return fmt.Errorf("render needs a mesh")
	}
	mesh, err := b.mesh(spec.Mesh)
	if err != nil {
		return err
	}

	rc := component.Render{
		Mesh:           mesh,
		Layer:          spec.Layer,
		BoundingRadius: spec.BoundingRadius,
	}
	switch spec.Kind {
	case "", "mesh":
		rc.Kind = render.DrawMesh
	case "skybox":
		rc.Kind = render.DrawSkybox
	default:
		return fmt.Errorf("unknown render kind %q", spec.Kind)
	}
	if spec.Shader != "" {
		rc.Shader = b.ctx.Assets.LoadShader(spec.Shader)
	}
	if spec.Texture != "" {
		rc.Texture = b.ctx.Assets.LoadTexture(spec.Texture)
	}
	return ecs.AddComponent(b.ctx.ECS, e, rc)
}

// mesh resolves a procedural mesh name or starts loading a mesh file.
func (b *Builder) mesh(name string) (asset.Handle, error) {
	gen, ok := proceduralMeshes[name]
	if !ok {
		return b.ctx.Assets.LoadMesh(name), nil
	}
	h := asset.HandleOf(name)
	if b.ctx.Assets.IsMeshLoaded(h) {
		return h, nil
	}
	return b.ctx.Assets.RegisterMesh(name, gen())
}

func addCamera(b *Builder, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CameraComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	win := b.ctx.Config.Window
	cam := component.NewCamera(mgl32.Vec3(spec.Target), float32(win.Width)/float32(win.Height))
	if spec.FOV > 0 {
		cam.FOV = spec.FOV
	}
	if spec.Near > 0 {
		cam.Near = spec.Near
	}
	if spec.Far > cam.Near {
		cam.Far = spec.Far
	}
	if err := ecs.AddComponent(b.ctx.ECS, e, cam); err != nil {
		return err
	}
	if spec.Primary && !b.ctx.ECS.SetPrimaryCamera(e) {
		return fmt.Errorf("set primary camera %s", e)
	}
	return nil
}

func addVelocity(b *Builder, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.VelocityComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode velocity spec: %w", err)
	}
	return ecs.AddComponent(b.ctx.ECS, e, component.Velocity{
		Linear:     mgl32.Vec3(spec.Linear),
		Gravity:    spec.Gravity,
		UseGravity: spec.UseGravity,
	})
}

func addPlayer(b *Builder, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	return ecs.AddComponent(b.ctx.ECS, e, component.PlayerController{
		MoveSpeed: spec.MoveSpeed,
		JumpForce: spec.JumpForce,
	})
}

func addInput(b *Builder, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.AddComponent(b.ctx.ECS, e, component.Input{})
}

func addScript(b *Builder, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ScriptComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode script spec: %w", err)
	}
	if spec.Path == "" && spec.Source == "" {
		return fmt.Errorf("script needs a path or source")
	}
	return ecs.AddComponent(b.ctx.ECS, e, component.Script{Path: spec.Path, Source: spec.Source})
}

func addTTL(b *Builder, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TTLComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ttl spec: %w", err)
	}
	if spec.Seconds <= 0 {
		return fmt.Errorf("ttl seconds must be positive, got %v", spec.Seconds)
	}
	return ecs.AddComponent(b.ctx.ECS, e, component.TTL{Seconds: spec.Seconds})
}

func addBody(b *Builder, e ecs.Entity, raw any, bc *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode body spec: %w", err)
	}
	if b.physics == nil {
		return fmt.Errorf("body needs a physics system")
	}
	if bc.Transform == nil {
		return fmt.Errorf("body needs a transform")
	}
	pos, scale := bc.Transform.Position, bc.Transform.Scale

	var id physics.BodyID
	switch spec.Shape {
	case "sphere":
		id = b.physics.CreateSphereBody(e, pos, spec.Radius, spec.Static)
	case "box":
		id = b.physics.CreateBoxBody(e, pos, mgl32.Vec3(spec.HalfExtents), spec.Static, spec.Restitution)
	case "sensor":
		id = b.physics.CreateSensorBox(e, pos, mgl32.Vec3(spec.HalfExtents))
	case "mesh":
		if spec.Mesh == "" {
			return fmt.Errorf("mesh body needs a mesh")
		}
		mesh, err := b.mesh(spec.Mesh)
		if err != nil {
			return err
		}
		b.physics.RequestMeshBody(e, mesh, pos, scale)
		return ecs.AddComponent(b.ctx.ECS, e, component.RigidBody{})
	default:
		return fmt.Errorf("unknown body shape %q", spec.Shape)
	}
	if !id.Valid() {
		return fmt.Errorf("%s body rejected by physics", spec.Shape)
	}
	return ecs.AddComponent(b.ctx.ECS, e, component.RigidBody{Body: id})
}
