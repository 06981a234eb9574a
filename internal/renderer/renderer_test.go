package renderer

import (
	"image/color"
	"testing"

	"Terrashade/internal/heightfield"
	"Terrashade/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
)

func solid(c mgl32.Vec3) Material {
	return MaterialFunc(func() shading.Program {
		return func(*shading.Fragment) mgl32.Vec4 { return c.Vec4(1) }
	})
}

var (
	red  = mgl32.Vec3{1, 0, 0}
	blue = mgl32.Vec3{0, 0, 1}
)

func quad(t *testing.T, size float32, material Material, z float32) *Surface {
	t.Helper()
	m, err := NewPlane(size, size, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSurface("quad", m, material)
	s.SetPosition(0, 0, z)
	return s
}

func newTestRenderer(t *testing.T, surfaces ...*Surface) *SoftwareRenderer {
	t.Helper()
	r := NewSoftwareRenderer(Options{Workers: 2, ClearColor: mgl32.Vec3{0, 0, 0}, FrustumCulling: true})
	r.Init(32, 32)
	t.Cleanup(r.Cleanup)
	for _, s := range surfaces {
		r.AddSurface(s)
	}
	return r
}

func render(t *testing.T, r *SoftwareRenderer) *colorGrid {
	t.Helper()
	cam := NewDefaultCamera(32, 32)
	img, err := r.Render(cam, 0)
	if err != nil {
		t.Fatal(err)
	}
	return &colorGrid{at: func(x, y int) color.RGBA { return img.RGBAAt(x, y) }}
}

type colorGrid struct {
	at func(x, y int) color.RGBA
}

func (g *colorGrid) is(x, y int, c mgl32.Vec3) bool {
	want := toRGBA(c.Vec4(1))
	return g.at(x, y) == color.RGBA{want[0], want[1], want[2], want[3]}
}

func TestRenderCoversCentreOnly(t *testing.T) {
	r := newTestRenderer(t, quad(t, 2, solid(red), -5))
	img := render(t, r)

	if !img.is(16, 16, red) {
		t.Errorf("centre = %v, want red", img.at(16, 16))
	}
	if !img.is(0, 0, mgl32.Vec3{}) {
		t.Errorf("corner = %v, want the clear colour", img.at(0, 0))
	}
	if s := r.Stats(); s.Fragments == 0 || s.Triangles != 2 || s.Culled != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestRenderCullsBackFaces(t *testing.T) {
	back := quad(t, 2, solid(red), -5)
	back.Rotate(0, 180, 0)
	r := newTestRenderer(t, back)

	if img := render(t, r); img.is(16, 16, red) {
		t.Error("a back-facing quad should be culled")
	}

	back.DoubleSided = true
	if img := render(t, r); !img.is(16, 16, red) {
		t.Error("a double-sided quad should be drawn from behind")
	}
}

func TestRenderDepthOrder(t *testing.T) {
	far := quad(t, 8, solid(blue), -20)
	near := quad(t, 4, solid(red), -10)

	for _, order := range [][]*Surface{{far, near}, {near, far}} {
		img := render(t, newTestRenderer(t, order...))
		if !img.is(16, 16, red) {
			t.Errorf("nearer quad should win, centre = %v", img.at(16, 16))
		}
	}
}

func TestRenderWithoutDepthWrite(t *testing.T) {
	backdrop := quad(t, 4, solid(blue), -10)
	backdrop.DepthWrite = false
	behind := quad(t, 8, solid(red), -20)

	img := render(t, newTestRenderer(t, backdrop, behind))
	if !img.is(16, 16, red) {
		t.Errorf("a surface drawn after a non-writing backdrop should show, centre = %v", img.at(16, 16))
	}
}

func TestRenderClipsGroundPlane(t *testing.T) {
	m, _ := NewPlane(1200, 1200, 1, 1)
	m.RotateX(-3.14159265 / 2)
	ground := NewSurface("ground", m, solid(red))
	ground.SetPosition(0, -2, 0)

	img := render(t, newTestRenderer(t, ground))
	if !img.is(16, 31, red) {
		t.Errorf("ground should cover the bottom row, got %v", img.at(16, 31))
	}
	if img.is(16, 0, red) {
		t.Error("ground should not cover the top row")
	}
}

func TestRenderFrustumCulling(t *testing.T) {
	r := newTestRenderer(t, quad(t, 2, solid(red), 50))
	render(t, r)
	if s := r.Stats(); s.Culled != 1 || s.Fragments != 0 {
		t.Errorf("stats = %+v, want the quad behind the camera culled", s)
	}
}

func TestRemoveSurface(t *testing.T) {
	a, b := quad(t, 2, solid(red), -5), quad(t, 2, solid(blue), -6)
	r := newTestRenderer(t, a, b)
	r.RemoveSurface(a)
	if len(r.Surfaces) != 1 || r.Surfaces[0] != b {
		t.Errorf("surfaces = %v", r.Surfaces)
	}
}

type displaced struct{ scale, bias float32 }

func (d displaced) Program() shading.Program { return solid(red).Program() }

func (d displaced) Displacement() (float32, float32) { return d.scale, d.bias }

func TestVertexStageDisplaces(t *testing.T) {
	m, _ := NewPlane(2, 2, 1, 1)
	s := NewSurface("d", m, displaced{scale: 4, bias: 1})
	s.HeightField = heightfield.Constant(0.5)

	world, normals := s.VertexStage()
	for i, p := range world {
		if !approxEq(p.Z(), 3) {
			t.Errorf("vertex %d z = %f, want 0.5*4+1", i, p.Z())
		}
		if normals[i] != (mgl32.Vec3{0, 0, 1}) {
			t.Errorf("normal %d = %v", i, normals[i])
		}
	}

	s.HeightField = nil
	world, _ = s.VertexStage()
	if world[0].Z() != 0 {
		t.Error("without a height field the mesh stays flat")
	}
}

func TestVariantSwitchKeepsGeometry(t *testing.T) {
	m, _ := NewPlane(80, 50, 12, 8)
	params := shading.DefaultTerrainParams()
	s := NewSurface("terrain", m, &params)
	s.HeightField = heightfield.Fallback(32)
	s.Rotate(-90, 0, 0)
	s.SetPosition(0, -0.5, -18)
	s.SetScale(1.35, 1.35, 1.35)

	before, _ := s.VertexStage()
	matrix := s.ModelMatrix

	params.Variant = shading.VariantFlatLit
	after, _ := s.VertexStage()

	if s.ModelMatrix != matrix {
		t.Error("variant switch changed the transform")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("vertex %d moved from %v to %v", i, before[i], after[i])
		}
	}
}

func approxEq(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}
