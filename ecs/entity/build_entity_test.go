package entity

import (
	"image"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/config"
	"github.com/milk9111/alphaengine/ecs"
	"github.com/milk9111/alphaengine/ecs/component"
	"github.com/milk9111/alphaengine/ecs/system"
	"github.com/milk9111/alphaengine/engine"
	"github.com/milk9111/alphaengine/prefabs"
	"github.com/milk9111/alphaengine/render"
)

type nopUploader struct{ next uint32 }

func (u *nopUploader) id() (uint32, error) {
	u.next++
	return u.next, nil
}

func (u *nopUploader) UploadTexture(image.Image) (uint32, error)  { return u.id() }
func (u *nopUploader) UploadMesh(*asset.MeshData) (uint32, error) { return u.id() }
func (u *nopUploader) UploadShader([]byte) (uint32, error)        { return u.id() }

const wedge = `
vertices: [[-1, 0, 0], [1, 0, 0], [1, 1, 0]]
indices: [0, 1, 2]
`

func newTestBuilder(t *testing.T) (*Builder, *engine.Context, *system.PhysicsSystem) {
	t.Helper()
	fsys := fstest.MapFS{
		"meshes/wedge.yaml": {Data: []byte(wedge)},
		"shaders/lit.kage":  {Data: []byte("//kage:unit pixels\npackage main\n")},
	}
	assets, err := asset.NewManager(fsys, &nopUploader{}, nil)
	require.NoError(t, err)

	ctx := engine.NewContext(config.Default(), nil, assets, nil)
	ps := ecs.AddSystem(ctx.ECS, system.NewPhysicsSystem(ctx.Physics, assets, ctx.Events, nil))
	return NewBuilder(ctx, ps), ctx, ps
}

func entitySpec(t *testing.T, src string) prefabs.EntitySpec {
	t.Helper()
	var spec prefabs.EntitySpec
	require.NoError(t, yaml.Unmarshal([]byte(src), &spec))
	return spec
}

func TestBuildEntityAddsEveryComponent(t *testing.T) {
	b, ctx, _ := newTestBuilder(t)
	spec := entitySpec(t, `
name: player
components:
  transform:
    position: [1, 2, 3]
    rotation: [0, 90, 0]
    scale: [2, 2, 2]
  render:
    mesh: cube
    shader: shaders/lit.kage
    layer: 2
  velocity:
    gravity: -20
    use_gravity: true
  player:
    move_speed: 5
    jump_force: 8
  input: {}
  script:
    source: "x := 1"
  ttl:
    seconds: 3
`)
	e, err := b.BuildEntity(spec, mgl32.Vec3{10, 0, 0})
	require.NoError(t, err)

	tr := ecs.MustGetComponent[component.Transform](ctx.ECS, e)
	assert.Equal(t, mgl32.Vec3{11, 2, 3}, tr.Position)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, tr.Scale)
	forward := tr.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, -1, forward.Z(), 1e-5, "90 degrees about Y turns +X into -Z")

	rc := ecs.MustGetComponent[component.Render](ctx.ECS, e)
	assert.Equal(t, asset.HandleOf("cube"), rc.Mesh)
	assert.Equal(t, asset.HandleOf("shaders/lit.kage"), rc.Shader)
	assert.Equal(t, uint32(2), rc.Layer)
	assert.Equal(t, render.DrawMesh, rc.Kind)
	assert.True(t, ctx.Assets.IsMeshLoaded(rc.Mesh), "procedural meshes are registered at once")

	assert.True(t, ecs.MustGetComponent[component.Velocity](ctx.ECS, e).UseGravity)
	assert.Equal(t, float32(5), ecs.MustGetComponent[component.PlayerController](ctx.ECS, e).MoveSpeed)
	assert.True(t, ecs.HasComponent[component.Input](ctx.ECS, e))
	assert.Equal(t, "x := 1", ecs.MustGetComponent[component.Script](ctx.ECS, e).Source)
	assert.Equal(t, float32(3), ecs.MustGetComponent[component.TTL](ctx.ECS, e).Seconds)
}

func TestBuildEntityFailuresDestroyTheEntity(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"no_components", `name: empty`},
		{"unknown_component", "components:\n  health: {max: 3}"},
		{"render_without_mesh", "components:\n  render: {layer: 1}"},
		{"bad_render_kind", "components:\n  render: {mesh: cube, kind: sprite}"},
		{"ttl_not_positive", "components:\n  ttl: {seconds: 0}"},
		{"script_without_source", "components:\n  script: {}"},
		{"body_without_transform", "components:\n  body: {shape: sphere, radius: 1}"},
		{"unknown_shape", "components:\n  transform: {}\n  body: {shape: capsule}"},
		{"rejected_box", "components:\n  transform: {}\n  body: {shape: box, half_extents: [0, 1, 1]}"},
		{"mesh_body_without_mesh", "components:\n  transform: {}\n  body: {shape: mesh}"},
		{"bad_transform", "components:\n  transform: {position: [1, 2]}"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, ctx, _ := newTestBuilder(t)
			e, err := b.BuildEntity(entitySpec(t, c.src), mgl32.Vec3{})
			require.Error(t, err)
			assert.Equal(t, ecs.NullEntity, e)

			ctx.ECS.UpdateEntitiesLifeTime()
			assert.Zero(t, ctx.ECS.EntityCount())
		})
	}
}

func TestBuildEntityBodies(t *testing.T) {
	b, ctx, ps := newTestBuilder(t)

	ball, err := b.BuildEntity(entitySpec(t, `
components:
  transform: {position: [0, 5, -2]}
  body: {shape: sphere, radius: 0.5}
`), mgl32.Vec3{})
	require.NoError(t, err)
	assert.True(t, ecs.MustGetComponent[component.RigidBody](ctx.ECS, ball).Body.Valid())

	ramp, err := b.BuildEntity(entitySpec(t, `
components:
  transform: {position: [4, 0, 0], scale: [2, 2, 2]}
  body: {shape: mesh, mesh: meshes/wedge.yaml, static: true}
`), mgl32.Vec3{})
	require.NoError(t, err)
	assert.False(t, ecs.MustGetComponent[component.RigidBody](ctx.ECS, ramp).Body.Valid())
	assert.Equal(t, 1, ps.PendingMeshRequests())

	ctx.Assets.Wait()
	ctx.Assets.Update()
	ctx.ECS.UpdateEntitiesLifeTime()
	ps.Update(ctx.ECS, 0)

	assert.Zero(t, ps.PendingMeshRequests())
	assert.True(t, ecs.MustGetComponent[component.RigidBody](ctx.ECS, ramp).Body.Valid())
	assert.Equal(t, 2, ctx.Physics.BodyCount())
}

func TestBuildEntityPrimaryCamera(t *testing.T) {
	b, ctx, _ := newTestBuilder(t)
	e, err := b.BuildEntity(entitySpec(t, `
components:
  transform: {position: [0, 2, 10]}
  camera: {fov: 60, far: 200, primary: true}
`), mgl32.Vec3{})
	require.NoError(t, err)

	cam := ecs.MustGetComponent[component.Camera](ctx.ECS, e)
	assert.Equal(t, float32(60), cam.FOV)
	assert.Equal(t, float32(200), cam.Far)
	assert.InDelta(t, 1280.0/720.0, cam.Aspect, 1e-5)
	assert.Equal(t, e, ctx.ECS.GetPrimaryCamera())
}

func TestReloadCancelsPendingMeshBodies(t *testing.T) {
	b, _, ps := newTestBuilder(t)
	scene, err := b.BuildScene(sceneSpec(t, `
name: ramps
entities:
  - name: ramp
    components:
      transform: {}
      body: {shape: mesh, mesh: meshes/wedge.yaml}
`))
	require.NoError(t, err)
	require.Equal(t, 1, ps.PendingMeshRequests())

	_, err = b.Reload(scene, sceneSpec(t, "name: empty\nentities:\n  - components: {transform: {}}"))
	require.NoError(t, err)
	assert.Zero(t, ps.PendingMeshRequests())
}
