package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// vertex is the output of the vertex stage: clip position plus the
// attributes the fragment stage interpolates.
type vertex struct {
	clip   mgl32.Vec4
	world  mgl32.Vec3
	normal mgl32.Vec3
	uv     mgl32.Vec2
}

func lerpVertex(a, b vertex, t float32) vertex {
	return vertex{
		clip:   a.clip.Add(b.clip.Sub(a.clip).Mul(t)),
		world:  a.world.Add(b.world.Sub(a.world).Mul(t)),
		normal: a.normal.Add(b.normal.Sub(a.normal).Mul(t)),
		uv:     a.uv.Add(b.uv.Sub(a.uv).Mul(t)),
	}
}

// VertexStage displaces the mesh along its local normals by the sampled
// height times scale plus bias, then moves positions and normals to world
// space. Only the height field and the material's displacement terms are
// read, never the fragment program.
func (s *Surface) VertexStage() (world, normals []mgl32.Vec3) {
	m := s.Mesh
	local := m.Positions
	localNormals := m.Normals

	if scale, bias, ok := s.displacement(); ok {
		local = make([]mgl32.Vec3, len(m.Positions))
		for i, p := range m.Positions {
			h := s.HeightField.Sample(m.UVs[i])*scale + bias
			local[i] = p.Add(m.Normals[i].Mul(h))
		}
		if s.RecalculateNormals {
			localNormals = RecalculateNormals(local, m.Indices)
		}
	}

	world = make([]mgl32.Vec3, len(local))
	normals = make([]mgl32.Vec3, len(local))
	for i := range local {
		world[i] = s.ModelMatrix.Mul4x1(local[i].Vec4(1)).Vec3()
		n := s.ModelMatrix.Mul4x1(localNormals[i].Vec4(0)).Vec3()
		if n.Len() > 0 {
			n = n.Normalize()
		}
		normals[i] = n
	}
	return world, normals
}

// transform runs the vertex stage and projects into clip space.
func (s *Surface) transform(viewProjection mgl32.Mat4) []vertex {
	world, normals := s.VertexStage()
	out := make([]vertex, len(world))
	for i := range world {
		out[i] = vertex{
			clip:   viewProjection.Mul4x1(world[i].Vec4(1)),
			world:  world[i],
			normal: normals[i],
			uv:     s.Mesh.UVs[i],
		}
	}
	return out
}
