package ebitengfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/milk9111/alphaengine/asset"
)

// lightDir points towards the light, in world space.
var lightDir = mgl32.Vec3{0.4, 0.8, 0.45}.Normalize()

const ambient = 0.35

// screenVertex is a projected vertex in pixels.
type screenVertex struct {
	X, Y  float32
	Depth float32
	U, V  float32
}

// triangle is one projected triangle waiting for the end-of-frame flush.
type triangle struct {
	v       [3]screenVertex
	depth   float32
	shade   float32
	shader  uint32
	texture uint32
}

// projectMesh transforms the first indexCount indices of mesh by mvp and
// model and appends the triangles that survive to out. Triangles with a
// vertex behind the near plane or facing away from the camera are dropped.
func projectMesh(out []triangle, mesh *asset.MeshData, indexCount int, mvp, model mgl32.Mat4, width, height int) []triangle {
	n := min(indexCount, len(mesh.Indices))
	n -= n % 3
	for i := 0; i < n; i += 3 {
		var tri triangle
		var world [3]mgl32.Vec3
		visible := true
		for k := 0; k < 3; k++ {
			idx := mesh.Indices[i+k]
			if int(idx) >= len(mesh.Vertices) {
				visible = false
				break
			}
			p := mesh.Vertices[idx]
			sv, ok := toScreen(mvp.Mul4x1(p.Vec4(1)), width, height)
			if !ok {
				visible = false
				break
			}
			if int(idx) < len(mesh.UVs) {
				sv.U, sv.V = mesh.UVs[idx].X(), mesh.UVs[idx].Y()
			}
			tri.v[k] = sv
			world[k] = model.Mul4x1(p.Vec4(1)).Vec3()
		}
		if !visible || !frontFacing(tri.v) {
			continue
		}
		tri.depth = (tri.v[0].Depth + tri.v[1].Depth + tri.v[2].Depth) / 3
		tri.shade = shade(world)
		out = append(out, tri)
	}
	return out
}

// toScreen maps a clip-space position to pixels with Y pointing down.
func toScreen(clip mgl32.Vec4, width, height int) (screenVertex, bool) {
	w := clip.W()
	if w <= 1e-5 {
		return screenVertex{}, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	return screenVertex{
		X:     (ndc.X() + 1) * 0.5 * float32(width),
		Y:     (1 - ndc.Y()) * 0.5 * float32(height),
		Depth: ndc.Z(),
	}, true
}

// frontFacing reports counter-clockwise winding as seen on screen.
func frontFacing(v [3]screenVertex) bool {
	ax, ay := v[1].X-v[0].X, v[1].Y-v[0].Y
	bx, by := v[2].X-v[0].X, v[2].Y-v[0].Y
	// Screen Y points down, so counter-clockwise has a negative cross.
	return ax*by-ay*bx < 0
}

func shade(world [3]mgl32.Vec3) float32 {
	n := world[1].Sub(world[0]).Cross(world[2].Sub(world[0]))
	if n.Len() == 0 {
		return ambient
	}
	diffuse := max(n.Normalize().Dot(lightDir), 0)
	return min(ambient+(1-ambient)*diffuse, 1)
}
