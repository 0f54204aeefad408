package component

import (
	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/render"
)

// Render describes how to draw an entity. A zero BoundingRadius means the
// mesh's own radius is used once the mesh is loaded.
type Render struct {
	Mesh    asset.Handle
	Shader  asset.Handle
	Texture asset.Handle

	Layer          uint32
	Kind           render.DrawKind
	BoundingRadius float32
}
