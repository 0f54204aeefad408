package render

import "github.com/go-gl/mathgl/mgl32"

// DrawKind separates ordinary meshes from draws that need special state.
// Only DrawMesh commands are merged into instanced batches.
type DrawKind uint8

const (
	DrawMesh DrawKind = iota
	DrawSkybox
)

func (k DrawKind) String() string {
	switch k {
	case DrawMesh:
		return "mesh"
	case DrawSkybox:
		return "skybox"
	}
	return "unknown"
}

// RenderCommand is one entity's draw request for the current frame.
type RenderCommand struct {
	Layer   uint32
	Shader  uint32
	Texture uint32
	Depth   float32

	VertexArray uint32
	IndexCount  uint32
	Kind        DrawKind

	Transform mgl32.Mat4
}

func (c RenderCommand) batchesWith(o RenderCommand) bool {
	return c.Kind == DrawMesh && o.Kind == DrawMesh &&
		c.VertexArray == o.VertexArray && c.Shader == o.Shader && c.Texture == o.Texture
}

func compareCommands(a, b RenderCommand) int {
	switch {
	case a.Layer != b.Layer:
		return cmpUint(a.Layer, b.Layer)
	case a.Shader != b.Shader:
		return cmpUint(a.Shader, b.Shader)
	}
	return cmpUint(a.Texture, b.Texture)
}

func cmpUint(a, b uint32) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
