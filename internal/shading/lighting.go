package shading

import (
	"Terrashade/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

// LightDir is the single fixed light of the procedural programs.
var LightDir = mgl32.Vec3{-0.5, 1.0, 0.3}.Normalize()

const (
	shimmerRate      = 0.3
	shimmerScale     = 0.8
	shimmerAmplitude = 0.08
)

// Shimmer is the slow three-channel normal perturbation at world position p.
// It must be added to the normal before the pattern and ridge stages.
func Shimmer(p mgl32.Vec3, time float32) mgl32.Vec3 {
	st := time * shimmerRate
	n := noise.Vec3(xz(p).Mul(shimmerScale), [3]mgl32.Vec2{
		{st, 0},
		{st + 5, 2.5},
		{st + 10, 5},
	})
	return n.Sub(splat(0.5)).Mul(shimmerAmplitude)
}

// Shadow holds the diffuse-derived darkening terms.
type Shadow struct {
	Diffuse float32
	Shadow  float32 // (1 - diffuse)^1.5
	Deep    float32 // shadow^2.5
}

// Light evaluates the fixed light against the unit normal n.
func Light(n mgl32.Vec3) Shadow {
	diffuse := maxf(n.Dot(LightDir), 0)
	// diffuse <= 1 for unit normals; clamp guards the pow base anyway
	shadow := powf(clamp01(1-diffuse), 1.5)
	return Shadow{
		Diffuse: diffuse,
		Shadow:  shadow,
		Deep:    powf(shadow, 2.5),
	}
}

// Grayscale darkens t with three multiplicative passes. The order matters:
// each pass compounds on the previous one.
func Grayscale(t, slope float32, s Shadow) float32 {
	gray := t
	gray *= 1 - s.Shadow*0.7
	gray *= 1 - slope*s.Shadow*0.25
	gray *= 1 - s.Deep*0.5
	return clamp01(gray)
}
