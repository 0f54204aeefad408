package render

import (
	"image/color"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/alphaengine/geom"
)

// MaxInstancesPerBatch caps how many commands one instanced draw may merge.
const MaxInstancesPerBatch = 10000

const unbound = math.MaxUint32

// Stats describes the work done by the last EndFrame.
type Stats struct {
	Commands         int
	DrawCalls        int
	InstancedDraws   int
	Instances        int
	ShaderBinds      int
	TextureBinds     int
	VertexArrayBinds int
}

// Renderer collects render commands during a frame, then sorts, batches and
// submits them to a Device in EndFrame.
type Renderer struct {
	dev          Device
	log          *zap.Logger
	maxInstances int
	clearColor   color.Color

	queue     []RenderCommand
	instances []mgl32.Mat4

	viewProj mgl32.Mat4
	view     mgl32.Mat4
	width    int
	height   int

	stats Stats
}

type Option func(*Renderer)

func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithMaxInstances lowers or raises the per-batch instance cap.
func WithMaxInstances(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxInstances = n
		}
	}
}

func WithClearColor(c color.Color) Option {
	return func(r *Renderer) {
		if c != nil {
			r.clearColor = c
		}
	}
}

func NewRenderer(dev Device, opts ...Option) *Renderer {
	r := &Renderer{
		dev:          dev,
		log:          zap.NewNop(),
		maxInstances: MaxInstancesPerBatch,
		clearColor:   colornames.Darkslategray,
		viewProj:     mgl32.Ident4(),
		view:         mgl32.Ident4(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BeginFrame clears the target and drops last frame's commands.
func (r *Renderer) BeginFrame() {
	r.dev.Clear(r.clearColor)
	r.queue = r.queue[:0]
}

// SetClearColor changes the colour BeginFrame clears to. Nil is ignored.
func (r *Renderer) SetClearColor(c color.Color) {
	if c != nil {
		r.clearColor = c
	}
}

func (r *Renderer) FuelRenderCommands(cmd RenderCommand) {
	r.queue = append(r.queue, cmd)
}

func (r *Renderer) SetViewProjection(viewProj, view mgl32.Mat4) {
	r.viewProj = viewProj
	r.view = view
}

func (r *Renderer) ViewProjection() mgl32.Mat4 {
	return r.viewProj
}

// Frustum returns the clip volume of the current view-projection.
func (r *Renderer) Frustum() geom.Frustum {
	return geom.FrustumFromMatrix(r.viewProj)
}

// EndFrame orders the queued commands by layer, shader and texture, keeping
// submission order for ties, and submits them. Binds are skipped when the
// handle is already bound, and runs of mesh commands sharing vertex array,
// shader and texture become instanced draws of at most maxInstances.
func (r *Renderer) EndFrame() {
	r.stats = Stats{Commands: len(r.queue)}
	r.dev.SetCamera(r.viewProj, r.view)

	slices.SortStableFunc(r.queue, compareCommands)

	shader, texture, vao := uint32(unbound), uint32(unbound), uint32(unbound)
	for i := 0; i < len(r.queue); {
		cmd := r.queue[i]
		if cmd.Shader != shader {
			r.dev.BindShader(cmd.Shader)
			shader = cmd.Shader
			r.stats.ShaderBinds++
		}
		if cmd.Texture != texture {
			r.dev.BindTexture(cmd.Texture)
			texture = cmd.Texture
			r.stats.TextureBinds++
		}
		if cmd.VertexArray != vao {
			r.dev.BindVertexArray(cmd.VertexArray)
			vao = cmd.VertexArray
			r.stats.VertexArrayBinds++
		}

		end := i + 1
		for end < len(r.queue) && end-i < r.maxInstances && cmd.batchesWith(r.queue[end]) {
			end++
		}

		r.stats.DrawCalls++
		if end-i == 1 {
			r.dev.DrawElements(cmd.Kind, cmd.IndexCount, cmd.Transform)
			r.stats.Instances++
			i = end
			continue
		}

		r.instances = r.instances[:0]
		for _, c := range r.queue[i:end] {
			r.instances = append(r.instances, c.Transform)
		}
		r.dev.DrawInstanced(cmd.IndexCount, r.instances)
		r.stats.InstancedDraws++
		r.stats.Instances += end - i
		i = end
	}

	r.dev.Unbind()
}

// OnWindowResize updates the device viewport. Zero sizes, as reported
// while minimised, are ignored.
func (r *Renderer) OnWindowResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.dev.SetViewport(width, height)
	r.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Stats returns the counters of the last EndFrame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Pending returns the commands queued so far this frame.
func (r *Renderer) Pending() []RenderCommand {
	return r.queue
}
