package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Device is the graphics backend the Renderer drives. Ids are whatever the
// backend handed out when the resource was uploaded.
type Device interface {
	Clear(c color.Color)
	SetViewport(width, height int)
	SetCamera(viewProj, view mgl32.Mat4)

	BindShader(id uint32)
	BindTexture(id uint32)
	BindVertexArray(id uint32)

	DrawElements(kind DrawKind, indexCount uint32, model mgl32.Mat4)
	DrawInstanced(indexCount uint32, models []mgl32.Mat4)

	// Unbind resets bound state at the end of a frame.
	Unbind()
}
