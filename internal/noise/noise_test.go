package noise

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestHashRange(t *testing.T) {
	for x := -50; x <= 50; x++ {
		for y := -50; y <= 50; y++ {
			h := Hash(mgl32.Vec2{float32(x) * 0.37, float32(y) * 1.91})
			if h < 0 || h >= 1 {
				t.Fatalf("Hash(%d,%d) = %f, want [0,1)", x, y, h)
			}
		}
	}
}

func TestHashDeterministic(t *testing.T) {
	p := mgl32.Vec2{12.5, -3.25}
	first := Hash(p)
	for i := 0; i < 10; i++ {
		if got := Hash(p); got != first {
			t.Fatalf("Hash not deterministic: %f != %f", got, first)
		}
	}
}

func TestHashVaries(t *testing.T) {
	if Hash(mgl32.Vec2{0, 1}) == Hash(mgl32.Vec2{1, 0}) {
		t.Error("Hash should not be symmetric in its inputs")
	}
}

func TestValueMatchesLatticeCorners(t *testing.T) {
	corner := mgl32.Vec2{3, 7}
	if got, want := Value(corner), Hash(corner); got != want {
		t.Errorf("Value at lattice point = %f, want hash %f", got, want)
	}
}

func TestValueContinuity(t *testing.T) {
	const step = 1e-3
	// Slide across several cell boundaries on both axes.
	for i := 0; i < 4000; i++ {
		x := float32(-2 + float64(i)*step)
		p := mgl32.Vec2{x, x*0.5 + 0.25}
		q := mgl32.Vec2{x + step, (x+step)*0.5 + 0.25}
		d := math.Abs(float64(Value(q) - Value(p)))
		// The smoothstep slope peaks at 1.5 per axis times a corner spread below 1.
		if d > 3*step*1.2 {
			t.Fatalf("Value jumps by %f between %v and %v", d, p, q)
		}
	}
}

func TestFBMContinuityAndRange(t *testing.T) {
	const step = 1e-4
	for i := 0; i < 2000; i++ {
		x := float32(float64(i) * 0.0137)
		p := mgl32.Vec2{x, 1.3 - x}
		v := FBM(p, TerrainOctaves)
		if v < 0 || v >= 1 {
			t.Fatalf("FBM(%v) = %f out of range", p, v)
		}
		w := FBM(p.Add(mgl32.Vec2{step, 0}), TerrainOctaves)
		// Octave k contributes slope at most 0.5^k * 2^k * 1.5 * 2.
		if d := math.Abs(float64(w - v)); d > float64(TerrainOctaves)*3*step*1.5 {
			t.Fatalf("FBM jumps by %f at %v", d, p)
		}
	}
}

func TestTurbulenceRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		p := mgl32.Vec2{float32(i) * 0.173, float32(i) * -0.091}
		v := Turbulence(p, TurbulenceOctaves)
		if v < 0 || v >= 1 {
			t.Fatalf("Turbulence(%v) = %f out of range", p, v)
		}
	}
}

func TestFBMZeroOctaves(t *testing.T) {
	if v := FBM(mgl32.Vec2{1, 2}, 0); v != 0 {
		t.Errorf("FBM with no octaves = %f, want 0", v)
	}
}

func TestVec3Channels(t *testing.T) {
	p := mgl32.Vec2{4.2, 1.7}
	offs := [3]mgl32.Vec2{{0, 0}, {5, 2.5}, {10, 5}}
	v := Vec3(p, offs)
	for i := 0; i < 3; i++ {
		if want := Value(p.Add(offs[i])); v[i] != want {
			t.Errorf("channel %d = %f, want %f", i, v[i], want)
		}
	}
}
