package shading

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// GradientStop is one colour stop of a vertical gradient. Offset 0 is the
// top edge.
type GradientStop struct {
	Offset float32
	Color  mgl32.Vec3
}

// SkyParams shades the backdrop plane: a vertical colour gradient under
// exponential-squared scene fog.
type SkyParams struct {
	Stops      []GradientStop
	FogColor   mgl32.Vec3
	FogDensity float32
}

// DefaultSkyParams returns the olive backdrop.
func DefaultSkyParams() SkyParams {
	return SkyParams{
		Stops: []GradientStop{
			{0, Hex(0x7e8701)},
			{0.2, Hex(0x6b7501)},
			{0.4, Hex(0x5a6201)},
			{0.6, Hex(0x4a5001)},
			{0.8, Hex(0x3a3f01)},
			{1, Hex(0x2a2801)},
		},
		FogColor:   Hex(0x2a2801),
		FogDensity: 0.012,
	}
}

// Gradient evaluates the stops at t, clamping outside the first and last.
func (p *SkyParams) Gradient(t float32) mgl32.Vec3 {
	stops := p.Stops
	if len(stops) == 0 {
		return mgl32.Vec3{}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	i := sort.Search(len(stops), func(i int) bool { return stops[i].Offset >= t })
	if i == len(stops) {
		return stops[len(stops)-1].Color
	}
	a, b := stops[i-1], stops[i]
	span := b.Offset - a.Offset
	if span <= 0 {
		return b.Color
	}
	return mixVec3(a.Color, b.Color, (t-a.Offset)/span)
}

// FogFactor is the exponential-squared fog weight at distance d.
func (p *SkyParams) FogFactor(d float32) float32 {
	x := float64(p.FogDensity * d)
	return clamp01(float32(1 - math.Exp(-x*x)))
}

// Program returns the backdrop program bound to a copy of p. The gradient
// runs top to bottom in texture space, so v = 1 is offset 0.
func (p SkyParams) Program() Program {
	p.Stops = append([]GradientStop(nil), p.Stops...)
	return func(f *Fragment) mgl32.Vec4 {
		c := p.Gradient(1 - f.UV[1])
		c = mixVec3(c, p.FogColor, p.FogFactor(f.Distance()))
		return clampVec3(c).Vec4(1)
	}
}
