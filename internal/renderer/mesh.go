package renderer

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list with per-vertex normals and UVs.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// NewPlane builds a width x height grid in the XY plane facing +z, split
// into widthSegments x heightSegments quads. Vertex rows run top to bottom
// with u = ix/gx and v = 1 - iy/gy, so v = 1 is the top edge.
func NewPlane(width, height float32, widthSegments, heightSegments int) (*Mesh, error) {
	if widthSegments < 1 || heightSegments < 1 {
		return nil, errors.New("plane needs at least one segment per side")
	}
	gx, gy := widthSegments, heightSegments
	segW, segH := width/float32(gx), height/float32(gy)
	count := (gx + 1) * (gy + 1)

	m := &Mesh{
		Positions: make([]mgl32.Vec3, 0, count),
		Normals:   make([]mgl32.Vec3, 0, count),
		UVs:       make([]mgl32.Vec2, 0, count),
		Indices:   make([]uint32, 0, gx*gy*6),
	}

	for iy := 0; iy <= gy; iy++ {
		y := float32(iy)*segH - height/2
		for ix := 0; ix <= gx; ix++ {
			x := float32(ix)*segW - width/2
			m.Positions = append(m.Positions, mgl32.Vec3{x, -y, 0})
			m.Normals = append(m.Normals, mgl32.Vec3{0, 0, 1})
			m.UVs = append(m.UVs, mgl32.Vec2{float32(ix) / float32(gx), 1 - float32(iy)/float32(gy)})
		}
	}

	// Two counter-clockwise triangles per quad
	row := uint32(gx + 1)
	for iy := 0; iy < gy; iy++ {
		for ix := 0; ix < gx; ix++ {
			a := uint32(ix) + row*uint32(iy)
			b := uint32(ix) + row*uint32(iy+1)
			c := uint32(ix+1) + row*uint32(iy+1)
			d := uint32(ix+1) + row*uint32(iy)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	return m, nil
}

// RotateX bakes a rotation about the x axis into positions and normals.
func (m *Mesh) RotateX(angle float32) {
	rot := mgl32.HomogRotate3DX(angle)
	for i := range m.Positions {
		m.Positions[i] = rot.Mul4x1(m.Positions[i].Vec4(1)).Vec3()
		m.Normals[i] = rot.Mul4x1(m.Normals[i].Vec4(0)).Vec3()
	}
}

// Triangles returns the triangle count.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Bounds returns the centre and radius of a sphere enclosing positions.
func Bounds(positions []mgl32.Vec3) (center mgl32.Vec3, radius float32) {
	if len(positions) == 0 {
		return center, 0
	}
	for _, p := range positions {
		center = center.Add(p)
	}
	center = center.Mul(1.0 / float32(len(positions)))

	var maxDistanceSq float32
	for _, p := range positions {
		if d := p.Sub(center).LenSqr(); d > maxDistanceSq {
			maxDistanceSq = d
		}
	}
	return center, float32(math.Sqrt(float64(maxDistanceSq)))
}

// RecalculateNormals averages the face normals around each vertex.
// Out-of-range indices are skipped.
func RecalculateNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	n := uint32(len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		v0, v1, v2 := positions[i0], positions[i1], positions[i2]
		face := v1.Sub(v0).Cross(v2.Sub(v0))
		if face.Len() == 0 {
			continue
		}
		face = face.Normalize()
		normals[i0] = normals[i0].Add(face)
		normals[i1] = normals[i1].Add(face)
		normals[i2] = normals[i2].Add(face)
	}

	for i, nv := range normals {
		if nv.Len() > 0 {
			normals[i] = nv.Normalize()
		}
	}
	return normals
}
