package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testFrustum() Frustum {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	return FrustumFromMatrix(proj.Mul4(view))
}

func TestPlanesAreNormalized(t *testing.T) {
	f := testFrustum()
	for i, p := range f.Planes {
		if l := p.Normal.Len(); l < 0.999 || l > 1.001 {
			t.Fatalf("plane %d normal length %v", i, l)
		}
	}
}

func TestSphereCulling(t *testing.T) {
	f := testFrustum()
	cases := []struct {
		name   string
		sphere Sphere
		want   bool
	}{
		{"ahead", Sphere{Center: mgl32.Vec3{0, 0, -5}, Radius: 1}, true},
		{"far_right", Sphere{Center: mgl32.Vec3{1000, 0, -5}, Radius: 1}, false},
		{"behind", Sphere{Center: mgl32.Vec3{0, 0, 5}, Radius: 1}, false},
		{"straddles_near", Sphere{Center: mgl32.Vec3{0, 0, 0.5}, Radius: 1}, true},
		{"beyond_far", Sphere{Center: mgl32.Vec3{0, 0, -200}, Radius: 1}, false},
		{"touching_far", Sphere{Center: mgl32.Vec3{0, 0, -100.5}, Radius: 1}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := f.IntersectsSphere(c.sphere); got != c.want {
				t.Fatalf("IntersectsSphere(%v) = %v, want %v", c.sphere, got, c.want)
			}
		})
	}
}

func TestAABBCulling(t *testing.T) {
	f := testFrustum()
	cases := []struct {
		name string
		box  AABB
		want bool
	}{
		{"ahead", AABB{Min: mgl32.Vec3{-1, -1, -6}, Max: mgl32.Vec3{1, 1, -4}}, true},
		{"partly_outside", AABB{Min: mgl32.Vec3{-50, -1, -6}, Max: mgl32.Vec3{0, 1, -4}}, true},
		{"left_outside", AABB{Min: mgl32.Vec3{-60, -1, -6}, Max: mgl32.Vec3{-50, 1, -4}}, false},
		{"behind", AABB{Min: mgl32.Vec3{-1, -1, 2}, Max: mgl32.Vec3{1, 1, 4}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := f.IntersectsAABB(c.box); got != c.want {
				t.Fatalf("IntersectsAABB(%v) = %v, want %v", c.box, got, c.want)
			}
		})
	}
}
