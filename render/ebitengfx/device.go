// Package ebitengfx draws render commands with ebiten. Meshes are projected
// on the CPU and submitted as textured triangles, sorted back to front at
// the end of the frame.
package ebitengfx

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/asset"
	"github.com/milk9111/alphaengine/render"
)

// maxBatchVertices keeps a flush within ebiten's 16-bit index range.
const maxBatchVertices = 65535 / 3 * 3

// Device implements render.Device and asset.Uploader.
type Device struct {
	log    *zap.Logger
	target *ebiten.Image

	width, height int
	viewProj      mgl32.Mat4

	nextID   uint32
	textures map[uint32]*ebiten.Image
	meshes   map[uint32]*asset.MeshData
	shaders  map[uint32]*ebiten.Shader

	shader  uint32
	texture uint32
	mesh    uint32

	tris     []triangle
	vertices []ebiten.Vertex
	indices  []uint16
}

var (
	_ render.Device  = (*Device)(nil)
	_ asset.Uploader = (*Device)(nil)
)

func NewDevice(width, height int, log *zap.Logger) *Device {
	if log == nil {
		log = zap.NewNop()
	}
	return &Device{
		log:      log,
		width:    width,
		height:   height,
		viewProj: mgl32.Ident4(),
		textures: make(map[uint32]*ebiten.Image),
		meshes:   make(map[uint32]*asset.MeshData),
		shaders:  make(map[uint32]*ebiten.Shader),
	}
}

// SetTarget sets the image the next frame is drawn into.
func (d *Device) SetTarget(img *ebiten.Image) {
	d.target = img
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) UploadTexture(img image.Image) (uint32, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, fmt.Errorf("ebitengfx: empty texture")
	}
	id := d.id()
	d.textures[id] = ebiten.NewImageFromImage(img)
	return id, nil
}

// UploadMesh keeps the mesh in memory; projection happens per draw.
func (d *Device) UploadMesh(mesh *asset.MeshData) (uint32, error) {
	if mesh == nil || len(mesh.Indices) == 0 {
		return 0, fmt.Errorf("ebitengfx: empty mesh")
	}
	id := d.id()
	d.meshes[id] = mesh
	return id, nil
}

// UploadShader compiles Kage source.
func (d *Device) UploadShader(src []byte) (uint32, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return 0, fmt.Errorf("ebitengfx: compile shader: %w", err)
	}
	id := d.id()
	d.shaders[id] = s
	return id, nil
}

func (d *Device) Clear(c color.Color) {
	d.tris = d.tris[:0]
	if d.target != nil {
		d.target.Fill(c)
	}
}

func (d *Device) SetViewport(width, height int) {
	d.width, d.height = width, height
}

func (d *Device) SetCamera(viewProj, _ mgl32.Mat4) {
	d.viewProj = viewProj
}

func (d *Device) BindShader(id uint32)      { d.shader = id }
func (d *Device) BindTexture(id uint32)     { d.texture = id }
func (d *Device) BindVertexArray(id uint32) { d.mesh = id }

func (d *Device) DrawElements(kind render.DrawKind, indexCount uint32, model mgl32.Mat4) {
	if kind == render.DrawSkybox {
		d.drawSkybox()
		return
	}
	d.project(indexCount, model)
}

func (d *Device) DrawInstanced(indexCount uint32, models []mgl32.Mat4) {
	for _, m := range models {
		d.project(indexCount, m)
	}
}

// Unbind flushes the frame's triangles and resets bound state.
func (d *Device) Unbind() {
	d.flush()
	d.shader, d.texture, d.mesh = 0, 0, 0
}

func (d *Device) project(indexCount uint32, model mgl32.Mat4) {
	mesh, ok := d.meshes[d.mesh]
	if !ok {
		d.log.Debug("draw with unknown mesh", zap.Uint32("mesh", d.mesh))
		return
	}
	start := len(d.tris)
	d.tris = projectMesh(d.tris, mesh, int(indexCount), d.viewProj.Mul4(model), model, d.width, d.height)
	for i := start; i < len(d.tris); i++ {
		d.tris[i].shader = d.shader
		d.tris[i].texture = d.texture
	}
}

// drawSkybox stretches the bound texture over the whole target. It is
// drawn straight away so every mesh of the frame lands on top of it.
func (d *Device) drawSkybox() {
	tex, ok := d.textures[d.texture]
	if !ok || d.target == nil {
		return
	}
	b := tex.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(d.width)/float64(b.Dx()), float64(d.height)/float64(b.Dy()))
	op.Filter = ebiten.FilterLinear
	d.target.DrawImage(tex, op)
}

// flush draws the buffered triangles farthest first, merging runs that
// share shader and texture into one call.
func (d *Device) flush() {
	if d.target == nil || len(d.tris) == 0 {
		d.tris = d.tris[:0]
		return
	}
	slices.SortStableFunc(d.tris, func(a, b triangle) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})

	for i := 0; i < len(d.tris); {
		end := i + 1
		for end < len(d.tris) && end-i < maxBatchVertices/3 &&
			d.tris[end].shader == d.tris[i].shader && d.tris[end].texture == d.tris[i].texture {
			end++
		}
		d.drawRun(d.tris[i:end])
		i = end
	}
	d.tris = d.tris[:0]
}

func (d *Device) drawRun(run []triangle) {
	tex, ok := d.textures[run[0].texture]
	if !ok {
		d.log.Debug("draw with unknown texture", zap.Uint32("texture", run[0].texture))
		return
	}
	size := tex.Bounds().Size()

	d.vertices = d.vertices[:0]
	d.indices = d.indices[:0]
	for _, t := range run {
		for _, v := range t.v {
			d.indices = append(d.indices, uint16(len(d.vertices)))
			d.vertices = append(d.vertices, ebiten.Vertex{
				DstX:   v.X,
				DstY:   v.Y,
				SrcX:   v.U * float32(size.X),
				SrcY:   v.V * float32(size.Y),
				ColorR: t.shade,
				ColorG: t.shade,
				ColorB: t.shade,
				ColorA: 1,
			})
		}
	}

	if s, ok := d.shaders[run[0].shader]; ok {
		op := &ebiten.DrawTrianglesShaderOptions{}
		op.Images[0] = tex
		d.target.DrawTrianglesShader(d.vertices, d.indices, s, op)
		return
	}
	op := &ebiten.DrawTrianglesOptions{Filter: ebiten.FilterLinear, Address: ebiten.AddressRepeat}
	d.target.DrawTriangles(d.vertices, d.indices, tex, op)
}
