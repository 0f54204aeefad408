package ebitengfx

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/alphaengine/asset"
)

func testCamera() mgl32.Mat4 {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	return proj.Mul4(view)
}

func TestToScreen(t *testing.T) {
	cases := []struct {
		name   string
		clip   mgl32.Vec4
		x, y   float32
		inView bool
	}{
		{"centre", mgl32.Vec4{0, 0, 0, 1}, 50, 50, true},
		{"top_left", mgl32.Vec4{-1, 1, 0, 1}, 0, 0, true},
		{"bottom_right_divided", mgl32.Vec4{2, -2, 0, 2}, 100, 100, true},
		{"behind_camera", mgl32.Vec4{0, 0, 0, -1}, 0, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sv, ok := toScreen(c.clip, 100, 100)
			require.Equal(t, c.inView, ok)
			if ok {
				assert.InDelta(t, c.x, sv.X, 1e-4)
				assert.InDelta(t, c.y, sv.Y, 1e-4)
			}
		})
	}
}

func TestProjectCubeKeepsFacingTriangles(t *testing.T) {
	cube := asset.Cube()
	tris := projectMesh(nil, cube, len(cube.Indices), testCamera(), mgl32.Ident4(), 200, 200)
	require.Len(t, tris, 2, "only the face towards the camera survives")
	for _, tri := range tris {
		for _, v := range tri.v {
			assert.Greater(t, v.X, float32(0))
			assert.Less(t, v.X, float32(200))
		}
		assert.InDelta(t, ambient+(1-ambient)*lightDir.Z(), tri.shade, 1e-5)
	}
}

func TestProjectDropsTrianglesBehindCamera(t *testing.T) {
	cube := asset.Cube()
	behind := mgl32.Translate3D(0, 0, 10)
	tris := projectMesh(nil, cube, len(cube.Indices), testCamera().Mul4(behind), behind, 200, 200)
	assert.Empty(t, tris)
}

func TestProjectHonoursIndexCount(t *testing.T) {
	mesh := &asset.MeshData{
		Vertices: []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		Indices:  []uint32{0, 1, 2, 0, 2, 3, 0, 9, 1},
	}
	assert.Len(t, projectMesh(nil, mesh, 3, testCamera(), mgl32.Ident4(), 100, 100), 1)
	assert.Len(t, projectMesh(nil, mesh, 100, testCamera(), mgl32.Ident4(), 100, 100), 2, "out of range indices are skipped")
}

func TestShade(t *testing.T) {
	facingLight := [3]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	assert.InDelta(t, ambient+(1-ambient)*lightDir.Z(), shade(facingLight), 1e-5)

	away := [3]mgl32.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}}
	assert.InDelta(t, ambient, shade(away), 1e-5)

	assert.InDelta(t, ambient, shade([3]mgl32.Vec3{}), 1e-5)
}

func TestFColorToRGBA(t *testing.T) {
	cases := []struct {
		name string
		in   cp.FColor
		want color.RGBA
	}{
		{"opaque_white", cp.FColor{R: 1, G: 1, B: 1, A: 1}, color.RGBA{255, 255, 255, 255}},
		{"clamped", cp.FColor{R: 2, G: -1, B: 0.5, A: 1}, color.RGBA{255, 0, 127, 255}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, fcolorToRGBA(c.in))
		})
	}
}

func TestPhysicsOutlineUsesBodyDepth(t *testing.T) {
	cases := []struct {
		name string
		z    float32
	}{
		{"on_plane", 0},
		{"towards_camera", 2},
		{"away_from_camera", -4},
	}
	vp := testCamera()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := &physicsDrawer{viewProj: vp, width: 100, height: 100, z: c.z}
			x, y, ok := d.project(cp.Vector{X: 1, Y: 0})
			require.True(t, ok)
			want, ok := toScreen(vp.Mul4x1(mgl32.Vec4{1, 0, c.z, 1}), 100, 100)
			require.True(t, ok)
			assert.InDelta(t, want.X, x, 1e-4)
			assert.InDelta(t, want.Y, y, 1e-4)
		})
	}

	near := &physicsDrawer{viewProj: vp, width: 100, height: 100, z: 2}
	far := &physicsDrawer{viewProj: vp, width: 100, height: 100}
	nx, _, _ := near.project(cp.Vector{X: 1})
	fx, _, _ := far.project(cp.Vector{X: 1})
	assert.Greater(t, nx, fx, "closer outlines spread further from the centre")
}
