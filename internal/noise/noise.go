// Package noise implements the deterministic scalar fields every shading
// stage is built from: a sine hash, smoothstep value noise, fbm and
// turbulence. All functions are pure and safe for concurrent use.
package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// TerrainOctaves is the fbm depth used by every terrain pattern and fog sample
	TerrainOctaves = 5
	// FogOctaves is the fbm depth used by the water surface
	FogOctaves = 4
	// TurbulenceOctaves is the depth of every turbulence sample
	TurbulenceOctaves = 4
)

// belowOne is the largest float32 strictly less than 1.
var belowOne = math.Nextafter32(1, 0)

// Hash scrambles a 2D coordinate into [0,1).
// fract(sin(dot(p, (127.1, 311.7))) * 43758.5453)
func Hash(p mgl32.Vec2) float32 {
	d := float64(p[0])*127.1 + float64(p[1])*311.7
	s := math.Sin(d) * 43758.5453
	f := float32(s - math.Floor(s))
	// Rounding to float32 can land exactly on 1
	if f >= 1 {
		return belowOne
	}
	return f
}

// fade is the cubic smoothstep curve 3t^2 - 2t^3
func fade(t float32) float32 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Value returns bilinearly interpolated lattice noise in [0,1).
// The smoothstep weights make it continuous across cell boundaries.
func Value(p mgl32.Vec2) float32 {
	ix := float32(math.Floor(float64(p[0])))
	iy := float32(math.Floor(float64(p[1])))
	fx := fade(p[0] - ix)
	fy := fade(p[1] - iy)

	a := Hash(mgl32.Vec2{ix, iy})
	b := Hash(mgl32.Vec2{ix + 1, iy})
	c := Hash(mgl32.Vec2{ix, iy + 1})
	d := Hash(mgl32.Vec2{ix + 1, iy + 1})

	return lerp(lerp(a, b, fx), lerp(c, d, fx), fy)
}

// FBM sums octaves of value noise at doubling frequency and halving
// amplitude, starting at amplitude 0.5. The result stays below 1.
func FBM(p mgl32.Vec2, octaves int) float32 {
	var v float32
	a := float32(0.5)
	f := float32(1.0)
	for i := 0; i < octaves; i++ {
		v += a * Value(p.Mul(f))
		f *= 2
		a *= 0.5
	}
	return v
}

// Turbulence accumulates folded octaves |noise-0.5| and doubles the sum,
// giving creased ridge-like variation in [0,1).
func Turbulence(p mgl32.Vec2, octaves int) float32 {
	var v float32
	a := float32(0.5)
	f := float32(1.0)
	for i := 0; i < octaves; i++ {
		v += a * float32(math.Abs(float64(Value(p.Mul(f))-0.5)))
		f *= 2
		a *= 0.5
	}
	return v * 2
}

// Vec3 samples three phase-shifted value noise channels at p, used for
// shimmer and colour breathing.
func Vec3(p mgl32.Vec2, offsets [3]mgl32.Vec2) mgl32.Vec3 {
	return mgl32.Vec3{
		Value(p.Add(offsets[0])),
		Value(p.Add(offsets[1])),
		Value(p.Add(offsets[2])),
	}
}
