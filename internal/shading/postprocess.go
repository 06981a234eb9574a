package shading

import (
	"Terrashade/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	invGamma        = 1 / 2.2
	colorNoiseRate  = 0.3
	colorNoiseScale = 0.15
	grainRate       = 0.1
)

// PostProcess is the temporal stack shared by terrain and water. Only the
// amplitudes and the brightness floor differ between surfaces.
type PostProcess struct {
	ColorNoise    float32 // breathing amplitude
	GradeRed      float32
	GradeBlue     float32
	Grain         float32
	Dither        float32
	MinBrightness float32
}

// Apply runs the stack on a composited colour in [0,1] at world position p.
func (pp PostProcess) Apply(c, p mgl32.Vec3, time float32) mgl32.Vec3 {
	w := xz(p)

	// Reinhard; c >= 0 so the denominator is at least 1
	for i := 0; i < 3; i++ {
		c[i] = c[i] / (c[i] + 1)
		c[i] = powf(c[i], invGamma)
	}

	ct := time * colorNoiseRate
	breath := noise.Vec3(w.Mul(colorNoiseScale), [3]mgl32.Vec2{
		{ct, 0},
		{ct + 10, 5},
		{ct + 20, 10},
	})
	c = c.Add(breath.Sub(splat(0.5)).Mul(pp.ColorNoise))

	gradeR := 1 + (c[1]-c[0])*pp.GradeRed
	gradeB := 1 + (c[1]-c[2])*pp.GradeBlue
	c[0] *= gradeR
	c[2] *= gradeB
	c = clampVec3(c)

	gt := time * grainRate
	grain := noise.Value(w.Mul(3).Add(mgl32.Vec2{gt * 5, gt * 3}))
	c = c.Add(splat((grain - 0.5) * pp.Grain))

	dither := noise.Value(w.Mul(2).Add(mgl32.Vec2{gt * 2, gt * 1.5}))
	c = c.Add(splat((dither - 0.5) * pp.Dither))

	c = clampVec3(c)
	for i := 0; i < 3; i++ {
		c[i] = maxf(c[i], pp.MinBrightness)
	}
	return c
}
