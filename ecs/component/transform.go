package component

import "github.com/go-gl/mathgl/mgl32"

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// NewTransform returns an identity transform at pos.
func NewTransform(pos mgl32.Vec3) Transform {
	return Transform{
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix composes translation, rotation and scale into a world matrix.
func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Normalize().Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

// MaxScale is the largest absolute per-axis scale, used to grow bounding
// spheres.
func (t Transform) MaxScale() float32 {
	m := abs(t.Scale.X())
	m = max(m, abs(t.Scale.Y()))
	return max(m, abs(t.Scale.Z()))
}

// Degenerate reports a transform that would collapse geometry.
func (t Transform) Degenerate() bool {
	return t.Scale.X() == 0 || t.Scale.Y() == 0 || t.Scale.Z() == 0
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
