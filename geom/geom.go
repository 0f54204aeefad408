package geom

import "github.com/go-gl/mathgl/mgl32"

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

type AABB struct {
	Min, Max mgl32.Vec3
}

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Plane satisfies dot(Normal, p) + Distance == 0 for points p on it. The
// side the normal points to is inside.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

func (p Plane) SignedDistance(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.Distance
}

func planeFromRow(v mgl32.Vec4) Plane {
	n := mgl32.Vec3{v.X(), v.Y(), v.Z()}
	l := n.Len()
	if l == 0 {
		return Plane{Normal: n, Distance: v.W()}
	}
	return Plane{Normal: n.Mul(1 / l), Distance: v.W() / l}
}
