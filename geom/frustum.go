package geom

import "github.com/go-gl/mathgl/mgl32"

const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts the six clip planes of a view-projection
// matrix (Gribb and Hartmann). Every plane normal is unit length and faces
// into the frustum.
func FrustumFromMatrix(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)

	var f Frustum
	f.Planes[PlaneLeft] = planeFromRow(r3.Add(r0))
	f.Planes[PlaneRight] = planeFromRow(r3.Sub(r0))
	f.Planes[PlaneBottom] = planeFromRow(r3.Add(r1))
	f.Planes[PlaneTop] = planeFromRow(r3.Sub(r1))
	f.Planes[PlaneNear] = planeFromRow(r3.Add(r2))
	f.Planes[PlaneFar] = planeFromRow(r3.Sub(r2))
	return f
}

// IntersectsSphere reports whether any part of s may be inside f.
func (f Frustum) IntersectsSphere(s Sphere) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// IntersectsAABB tests the box corner furthest along each plane normal.
func (f Frustum) IntersectsAABB(b AABB) bool {
	for _, p := range f.Planes {
		v := b.Min
		if p.Normal.X() >= 0 {
			v[0] = b.Max.X()
		}
		if p.Normal.Y() >= 0 {
			v[1] = b.Max.Y()
		}
		if p.Normal.Z() >= 0 {
			v[2] = b.Max.Z()
		}
		if p.SignedDistance(v) < 0 {
			return false
		}
	}
	return true
}
