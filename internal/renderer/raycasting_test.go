package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestScreenToRayCentre(t *testing.T) {
	cam := NewDefaultCamera(33, 33)
	ray := ScreenToRay(cam, 16, 16, 33, 33)
	if !near(ray.Direction, mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("centre ray = %v, want -z", ray.Direction)
	}
	if ray.Origin != cam.Position {
		t.Errorf("origin = %v", ray.Origin)
	}

	// top-left pixel looks up and to the left
	corner := ScreenToRay(cam, 0, 0, 33, 33)
	if corner.Direction.X() >= 0 || corner.Direction.Y() <= 0 {
		t.Errorf("corner ray = %v", corner.Direction)
	}
}

func TestRayIntersectTriangle(t *testing.T) {
	v0, v1, v2 := mgl32.Vec3{-1, -1, -5}, mgl32.Vec3{1, -1, -5}, mgl32.Vec3{-1, 1, -5}
	ray := Ray{Direction: mgl32.Vec3{0, 0, -1}}

	tt, u, v, ok := RayIntersectTriangle(ray, v0, v1, v2)
	if !ok || abs32(tt-5) > 1e-5 {
		t.Fatalf("hit = %v at %v", ok, tt)
	}
	if abs32(u-0.5) > 1e-5 || abs32(v-0.5) > 1e-5 {
		t.Errorf("barycentrics = %v, %v", u, v)
	}

	if _, _, _, ok := RayIntersectTriangle(Ray{Origin: mgl32.Vec3{3, 0, 0}, Direction: ray.Direction}, v0, v1, v2); ok {
		t.Error("ray beside the triangle hit it")
	}
	if _, _, _, ok := RayIntersectTriangle(Ray{Direction: mgl32.Vec3{0, 0, 1}}, v0, v1, v2); ok {
		t.Error("triangle behind the ray was hit")
	}
	if _, _, _, ok := RayIntersectTriangle(Ray{Direction: mgl32.Vec3{1, 0, 0}}, v0, v1, v2); ok {
		t.Error("parallel ray hit")
	}
}

func TestSurfaceIntersectInterpolates(t *testing.T) {
	s := quad(t, 2, solid(red), -5)
	hit, ok := s.Intersect(Ray{Direction: mgl32.Vec3{0, 0, -1}})
	if !ok {
		t.Fatal("missed the quad")
	}
	if abs32(hit.Distance-5) > 1e-5 || !near(hit.Position, mgl32.Vec3{0, 0, -5}, 1e-5) {
		t.Errorf("hit at %v, distance %v", hit.Position, hit.Distance)
	}
	if !near(hit.Normal, mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Errorf("normal = %v", hit.Normal)
	}
	if abs32(hit.UV.X()-0.5) > 1e-5 || abs32(hit.UV.Y()-0.5) > 1e-5 {
		t.Errorf("uv = %v", hit.UV)
	}

	s.Rotate(0, 180, 0)
	if _, ok := s.Intersect(Ray{Direction: mgl32.Vec3{0, 0, -1}}); ok {
		t.Error("back face hit on a single-sided surface")
	}
	s.DoubleSided = true
	if _, ok := s.Intersect(Ray{Direction: mgl32.Vec3{0, 0, -1}}); !ok {
		t.Error("double-sided back face missed")
	}
}

func TestPickAgreesWithVisibilityBuffer(t *testing.T) {
	backdrop := quad(t, 40, solid(blue), -30)
	backdrop.DepthWrite = false
	far := quad(t, 8, solid(blue), -20)
	nearQuad := quad(t, 4, solid(red), -10)
	r := newTestRenderer(t, backdrop, far, nearQuad)
	cam := NewDefaultCamera(32, 32)
	if _, err := r.Render(cam, 0); err != nil {
		t.Fatal(err)
	}

	for _, p := range [][2]int{{16, 16}, {3, 16}, {0, 0}, {16, 29}} {
		hit, ok := r.Pick(cam, p[0], p[1])
		got := -1
		if ok {
			got = hit.Index
		}
		if want := r.vb.SurfaceAt(p[0], p[1]); got != want {
			t.Errorf("pixel %v: picked surface %d, rasterized %d", p, got, want)
		}
	}
}

func TestPickKeepsEarlierSurfaceOnDepthTie(t *testing.T) {
	first := quad(t, 8, solid(red), -10)
	second := quad(t, 8, solid(blue), -10)
	r := newTestRenderer(t, first, second)
	cam := NewDefaultCamera(32, 32)
	if _, err := r.Render(cam, 0); err != nil {
		t.Fatal(err)
	}

	hit, ok := r.Pick(cam, 16, 16)
	if !ok {
		t.Fatal("centre pixel missed both quads")
	}
	if hit.Index != 0 {
		t.Errorf("picked surface %d, want the first drawn", hit.Index)
	}
	if want := r.vb.SurfaceAt(16, 16); hit.Index != want {
		t.Errorf("picked surface %d, rasterized %d", hit.Index, want)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
