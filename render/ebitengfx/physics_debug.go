package ebitengfx

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/alphaengine/physics"
)

// DrawPhysics outlines every shape of world on top of screen. Each outline
// sits at the depth its body keeps off the simulation plane.
func DrawPhysics(screen *ebiten.Image, world *physics.World, viewProj mgl32.Mat4) {
	if screen == nil || world == nil {
		return
	}
	b := screen.Bounds()
	d := &physicsDrawer{
		screen:   screen,
		viewProj: viewProj,
		width:    b.Dx(),
		height:   b.Dy(),
	}
	world.EachShape(func(shape *cp.Shape, z float32) {
		d.z = z
		cp.DrawShape(shape, d)
	})
}

type physicsDrawer struct {
	screen   *ebiten.Image
	viewProj mgl32.Mat4
	width    int
	height   int
	z        float32
}

func (d *physicsDrawer) project(v cp.Vector) (float32, float32, bool) {
	sv, ok := toScreen(d.viewProj.Mul4x1(mgl32.Vec4{float32(v.X), float32(v.Y), d.z, 1}), d.width, d.height)
	return sv.X, sv.Y, ok
}

func (d *physicsDrawer) line(a, b cp.Vector, c color.Color) {
	ax, ay, okA := d.project(a)
	bx, by, okB := d.project(b)
	if !okA || !okB {
		return
	}
	vector.StrokeLine(d.screen, ax, ay, bx, by, 1, c, true)
}

func (d *physicsDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	const steps = 20
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= steps; i++ {
		th := float64(i) * (2 * math.Pi / steps)
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		d.line(prev, cur, c)
		prev = cur
	}
	d.line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, c)
}

func (d *physicsDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(fill))
}

func (d *physicsDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(outline))
	if radius > 0 {
		d.DrawCircle(a, 0, radius, outline, fill, data)
		d.DrawCircle(b, 0, radius, outline, fill, data)
	}
}

func (d *physicsDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *physicsDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y, ok := d.project(pos)
	if !ok {
		return
	}
	vector.DrawFilledCircle(d.screen, x, y, float32(size/2), fcolorToRGBA(fill), true)
}

func (d *physicsDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

// ShapeColor tells sensors, static bodies and dynamic bodies apart.
func (d *physicsDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	switch {
	case shape == nil:
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	case shape.Sensor():
		return cp.FColor{R: 1.0, G: 0.85, B: 0.2, A: 1.0}
	case shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC:
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *physicsDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *physicsDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *physicsDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		return uint8(min(max(v, 0), 1) * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
