package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // unit length
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is a ray/surface intersection with the attributes the fragment stage
// would have interpolated there.
type Hit struct {
	Surface  *Surface
	Index    int // position of Surface in the renderer's draw order
	Distance float32
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// ScreenToRay returns the ray from the camera through the centre of pixel
// (x, y) of a width x height image, matching the rasterizer's sampling.
func ScreenToRay(camera *Camera, x, y, width, height int) Ray {
	ndcX := 2*(float32(x)+0.5)/float32(width) - 1
	ndcY := 1 - 2*(float32(y)+0.5)/float32(height)

	// Unproject onto the near plane; the eye is the origin
	invViewProjection := camera.GetViewProjection().Inv()
	onNear := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, -1}, invViewProjection)

	return Ray{
		Origin:    camera.Position,
		Direction: onNear.Sub(camera.Position).Normalize(),
	}
}

// RayIntersectTriangle tests if a ray intersects a triangle from either
// side. Returns the distance and the barycentric weights of v1 and v2.
// Uses Möller-Trumbore algorithm
func RayIntersectTriangle(ray Ray, v0, v1, v2 mgl32.Vec3) (t, u, v float32, ok bool) {
	const epsilon = 0.0000001

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, 0, 0, false // Ray is parallel to triangle
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	t = f * edge2.Dot(q)
	if t <= epsilon {
		return 0, 0, 0, false // Line intersection but not ray intersection
	}
	return t, u, v, true
}

// Intersect returns the nearest point where ray meets the displaced,
// transformed surface. Back faces only count on double-sided surfaces.
func (s *Surface) Intersect(ray Ray) (Hit, bool) {
	world, normals := s.VertexStage()
	idx := s.Mesh.Indices
	hit := Hit{Surface: s, Distance: float32(math.Inf(1))}
	found := false

	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := idx[i], idx[i+1], idx[i+2]
		if !s.DoubleSided {
			faceNormal := world[b].Sub(world[a]).Cross(world[c].Sub(world[a]))
			if ray.Direction.Dot(faceNormal) >= 0 {
				continue
			}
		}
		t, u, v, ok := RayIntersectTriangle(ray, world[a], world[b], world[c])
		if !ok || t >= hit.Distance {
			continue
		}
		w := 1 - u - v
		hit.Distance = t
		hit.Normal = normals[a].Mul(w).Add(normals[b].Mul(u)).Add(normals[c].Mul(v))
		hit.UV = s.Mesh.UVs[a].Mul(w).Add(s.Mesh.UVs[b].Mul(u)).Add(s.Mesh.UVs[c].Mul(v))
		found = true
	}
	if !found {
		return Hit{}, false
	}
	hit.Position = ray.At(hit.Distance)
	if hit.Normal.Len() > 0 {
		hit.Normal = hit.Normal.Normalize()
	}
	return hit, true
}

// Pick returns the surface visible at pixel (x, y) by replaying the draw
// order along the pixel's ray with the rasterizer's depth rules.
func (r *SoftwareRenderer) Pick(camera *Camera, x, y int) (Hit, bool) {
	ray := ScreenToRay(camera, x, y, r.vb.Width, r.vb.Height)
	depth := float32(math.Inf(1))
	var visible Hit
	found := false
	for i, s := range r.Surfaces {
		hit, ok := s.Intersect(ray)
		if !ok || hit.Distance < camera.Near || hit.Distance >= depth {
			continue
		}
		hit.Index = i
		visible, found = hit, true
		if s.DepthWrite {
			depth = hit.Distance
		}
	}
	return visible, found
}
