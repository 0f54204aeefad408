package render

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one Device call captured by a Recorder.
type Call struct {
	Op        string
	ID        uint32
	Kind      DrawKind
	Count     uint32
	Instances int
}

func (c Call) String() string {
	switch c.Op {
	case "draw":
		return fmt.Sprintf("draw(%s, %d)", c.Kind, c.Count)
	case "instanced":
		return fmt.Sprintf("instanced(%d x%d)", c.Count, c.Instances)
	}
	return fmt.Sprintf("%s(%d)", c.Op, c.ID)
}

// Recorder is a headless Device that remembers every call. It is used by
// tests and by the -headless run mode.
type Recorder struct {
	Calls      []Call
	ViewProj   mgl32.Mat4
	ClearColor color.Color
	Width      int
	Height     int
}

func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

func (r *Recorder) Clear(c color.Color) {
	r.ClearColor = c
	r.Calls = append(r.Calls, Call{Op: "clear"})
}

func (r *Recorder) SetViewport(width, height int) {
	r.Width, r.Height = width, height
	r.Calls = append(r.Calls, Call{Op: "viewport"})
}

func (r *Recorder) SetCamera(viewProj, _ mgl32.Mat4) { r.ViewProj = viewProj }

func (r *Recorder) BindShader(id uint32) {
	r.Calls = append(r.Calls, Call{Op: "shader", ID: id})
}

func (r *Recorder) BindTexture(id uint32) {
	r.Calls = append(r.Calls, Call{Op: "texture", ID: id})
}

func (r *Recorder) BindVertexArray(id uint32) {
	r.Calls = append(r.Calls, Call{Op: "vao", ID: id})
}

func (r *Recorder) DrawElements(kind DrawKind, indexCount uint32, _ mgl32.Mat4) {
	r.Calls = append(r.Calls, Call{Op: "draw", Kind: kind, Count: indexCount})
}

func (r *Recorder) DrawInstanced(indexCount uint32, models []mgl32.Mat4) {
	r.Calls = append(r.Calls, Call{Op: "instanced", Count: indexCount, Instances: len(models)})
}

func (r *Recorder) Unbind() { r.Calls = append(r.Calls, Call{Op: "unbind"}) }

// Draws returns only the draw calls, in order.
func (r *Recorder) Draws() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == "draw" || c.Op == "instanced" {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}
