package renderer

import (
	"Terrashade/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
)

// Material supplies the fragment program of a surface. Program is called
// once per frame and must return a program bound to a snapshot of the
// material's parameters.
type Material interface {
	Program() shading.Program
}

// Displacer is implemented by materials that push vertices along their
// normal by a height-field sample.
type Displacer interface {
	Displacement() (scale, bias float32)
}

// MaterialFunc adapts a program constructor to Material.
type MaterialFunc func() shading.Program

func (fn MaterialFunc) Program() shading.Program { return fn() }

type Surface struct {
	// HOT DATA - read every frame by the vertex stage
	ModelMatrix mgl32.Mat4 // Transformation matrix
	Position    mgl32.Vec3 // Position in world space
	Scale       mgl32.Vec3 // Scale factors
	Rotation    mgl32.Quat // Rotation quaternion
	Material    Material   // Fragment program source
	Mesh        *Mesh
	HeightField shading.HeightSampler // Displacement source, nil for none

	// MEDIUM DATA - raster state
	DepthWrite         bool // false draws without occluding later surfaces
	DoubleSided        bool // false culls back faces
	RecalculateNormals bool // rebuild normals from displaced positions

	// COLD DATA
	Name string
}

// NewSurface returns an untransformed, depth-writing, single-sided surface.
func NewSurface(name string, mesh *Mesh, material Material) *Surface {
	s := &Surface{
		Name:       name,
		Mesh:       mesh,
		Material:   material,
		Scale:      mgl32.Vec3{1, 1, 1},
		Rotation:   mgl32.QuatIdent(),
		DepthWrite: true,
	}
	s.updateModelMatrix()
	return s
}

// Rotate composes rotations in degrees about x, then y, then z.
func (s *Surface) Rotate(angleX, angleY, angleZ float32) {
	if s.Rotation == (mgl32.Quat{}) {
		s.Rotation = mgl32.QuatIdent()
	}
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	s.Rotation = s.Rotation.Mul(rotationX).Mul(rotationY).Mul(rotationZ)
	s.updateModelMatrix()
}

// SetPosition sets the position of the surface
func (s *Surface) SetPosition(x, y, z float32) {
	s.Position = mgl32.Vec3{x, y, z}
	s.updateModelMatrix()
}

func (s *Surface) SetScale(x, y, z float32) {
	s.Scale = mgl32.Vec3{x, y, z}
	s.updateModelMatrix()
}

func (s *Surface) updateModelMatrix() {
	// ModelMatrix = translation * rotation * scale: scale first, then rotate, then translate
	scaleMatrix := mgl32.Scale3D(s.Scale[0], s.Scale[1], s.Scale[2])
	rotationMatrix := s.Rotation.Mat4()
	translationMatrix := mgl32.Translate3D(s.Position[0], s.Position[1], s.Position[2])
	s.ModelMatrix = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
}

// displacement reports the vertex-stage scale and bias, or ok=false when
// the surface is not displaced.
func (s *Surface) displacement() (scale, bias float32, ok bool) {
	if s.HeightField == nil {
		return 0, 0, false
	}
	d, isDisplacer := s.Material.(Displacer)
	if !isDisplacer {
		return 0, 0, false
	}
	scale, bias = d.Displacement()
	return scale, bias, true
}
