package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// sample is one visibility-buffer texel: which surface covers the pixel and
// the interpolated attributes the fragment program needs.
type sample struct {
	surface int32 // -1 when uncovered
	pos     mgl32.Vec3
	normal  mgl32.Vec3
	uv      mgl32.Vec2
}

// VisibilityBuffer resolves coverage and depth for a frame before any
// fragment is shaded.
type VisibilityBuffer struct {
	Width, Height int
	depth         []float32
	samples       []sample
}

func NewVisibilityBuffer(width, height int) *VisibilityBuffer {
	vb := &VisibilityBuffer{
		Width:   width,
		Height:  height,
		depth:   make([]float32, width*height),
		samples: make([]sample, width*height),
	}
	vb.Clear()
	return vb
}

func (vb *VisibilityBuffer) Clear() {
	for i := range vb.samples {
		vb.samples[i] = sample{surface: -1}
		vb.depth[i] = math.MaxFloat32
	}
}

// SurfaceAt returns the index of the surface covering pixel (x, y), or -1.
func (vb *VisibilityBuffer) SurfaceAt(x, y int) int {
	return int(vb.samples[y*vb.Width+x].surface)
}

// DrawTriangles clips and rasterizes an indexed triangle list for surface
// id. It returns the number of triangles that reached the rasterizer.
func (vb *VisibilityBuffer) DrawTriangles(id int32, verts []vertex, indices []uint32, depthWrite, doubleSided bool) int {
	drawn := 0
	var poly [4]vertex
	for i := 0; i+2 < len(indices); i += 3 {
		tri := [3]vertex{verts[indices[i]], verts[indices[i+1]], verts[indices[i+2]]}
		if outsideClipVolume(tri) {
			continue
		}
		n := clipNear(tri, &poly)
		if n < 3 {
			continue
		}
		drawn++
		for k := 1; k+1 < n; k++ {
			vb.rasterize(id, [3]vertex{poly[0], poly[k], poly[k+1]}, depthWrite, doubleSided)
		}
	}
	return drawn
}

// outsideClipVolume reports whether all three vertices lie beyond the same
// side plane or the far plane.
func outsideClipVolume(tri [3]vertex) bool {
	var left, right, bottom, top, far int
	for _, v := range tri {
		c := v.clip
		if c[0] < -c[3] {
			left++
		}
		if c[0] > c[3] {
			right++
		}
		if c[1] < -c[3] {
			bottom++
		}
		if c[1] > c[3] {
			top++
		}
		if c[2] > c[3] {
			far++
		}
	}
	return left == 3 || right == 3 || bottom == 3 || top == 3 || far == 3
}

// clipNear clips the triangle against z >= -w and writes the resulting
// polygon to out, returning its vertex count.
func clipNear(tri [3]vertex, out *[4]vertex) int {
	n := 0
	for i := 0; i < 3; i++ {
		a, b := tri[i], tri[(i+1)%3]
		da, db := a.clip[2]+a.clip[3], b.clip[2]+b.clip[3]
		if da >= 0 {
			out[n] = a
			n++
		}
		if (da >= 0) != (db >= 0) {
			out[n] = lerpVertex(a, b, da/(da-db))
			n++
		}
	}
	return n
}

type screenVertex struct {
	x, y float64
	z    float32
	invW float32
}

func (vb *VisibilityBuffer) toScreen(v vertex) screenVertex {
	invW := 1 / v.clip[3]
	return screenVertex{
		x:    (float64(v.clip[0]*invW)*0.5 + 0.5) * float64(vb.Width),
		y:    (0.5 - float64(v.clip[1]*invW)*0.5) * float64(vb.Height),
		z:    v.clip[2]*invW*0.5 + 0.5,
		invW: invW,
	}
}

func edge(a, b screenVertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func (vb *VisibilityBuffer) rasterize(id int32, v [3]vertex, depthWrite, doubleSided bool) {
	s0, s1, s2 := vb.toScreen(v[0]), vb.toScreen(v[1]), vb.toScreen(v[2])

	area := edge(s0, s1, s2.x, s2.y)
	if area == 0 || math.IsNaN(area) {
		return
	}
	// screen y points down, so front faces have negative area
	if area > 0 && !doubleSided {
		return
	}
	sign := 1.0
	if area < 0 {
		sign = -1
	}
	area *= sign

	minX := max(0, int(math.Floor(min(s0.x, s1.x, s2.x))))
	maxX := min(vb.Width-1, int(math.Ceil(max(s0.x, s1.x, s2.x))))
	minY := max(0, int(math.Floor(min(s0.y, s1.y, s2.y))))
	maxY := min(vb.Height-1, int(math.Ceil(max(s0.y, s1.y, s2.y))))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := sign * edge(s1, s2, px, py)
			w1 := sign * edge(s2, s0, px, py)
			w2 := sign * edge(s0, s1, px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			b0, b1, b2 := float32(w0/area), float32(w1/area), float32(w2/area)

			z := b0*s0.z + b1*s1.z + b2*s2.z
			idx := y*vb.Width + x
			if z < 0 || z > 1 || z >= vb.depth[idx] {
				continue
			}

			// perspective-correct attribute weights
			p0, p1, p2 := b0*s0.invW, b1*s1.invW, b2*s2.invW
			inv := 1 / (p0 + p1 + p2)
			p0, p1, p2 = p0*inv, p1*inv, p2*inv

			vb.samples[idx] = sample{
				surface: id,
				pos:     v[0].world.Mul(p0).Add(v[1].world.Mul(p1)).Add(v[2].world.Mul(p2)),
				normal:  v[0].normal.Mul(p0).Add(v[1].normal.Mul(p1)).Add(v[2].normal.Mul(p2)),
				uv:      v[0].uv.Mul(p0).Add(v[1].uv.Mul(p1)).Add(v[2].uv.Mul(p2)),
			}
			if depthWrite {
				vb.depth[idx] = z
			}
		}
	}
}
