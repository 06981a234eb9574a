package shading

import (
	"Terrashade/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

var warpPhase = mgl32.Vec2{1.3, 0.2}

// TriplanarWeights returns |n|^4 normalized to sum to one. The fourth power
// sharpens axis dominance so near-45 degree slopes show no seams.
func TriplanarWeights(n mgl32.Vec3) mgl32.Vec3 {
	var w mgl32.Vec3
	for i := 0; i < 3; i++ {
		a := absf(n[i])
		a *= a
		w[i] = a * a
	}
	total := w[0] + w[1] + w[2]
	if total == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return w.Mul(1 / total)
}

// marblePlane domain-warps one projected coordinate: a warp vector from
// two phase-offset fbm taps, then fbm on the warped coordinate plus a
// turbulence term on a lighter warp.
func marblePlane(c mgl32.Vec2) float32 {
	base := c.Mul(1.8)
	q := mgl32.Vec2{
		noise.FBM(base, noise.TerrainOctaves),
		noise.FBM(base.Add(warpPhase), noise.TerrainOctaves),
	}
	r := c.Mul(4.2).Add(q.Mul(2))
	turb := noise.Turbulence(c.Mul(3).Add(q.Mul(0.5)), noise.TurbulenceOctaves)
	return noise.FBM(r, noise.TerrainOctaves) + 0.2*turb
}

// MarbleTriplanar blends the xz, xy and yz marble projections of p by the
// normal weights. The weights are cross-wired on purpose: xz takes the y
// weight, xy the z weight and yz the x weight. The result is not clamped.
func MarbleTriplanar(p, n mgl32.Vec3, scale float32) float32 {
	w := TriplanarWeights(n)
	sXZ := marblePlane(xz(p).Mul(scale))
	sXY := marblePlane(xy(p).Mul(scale))
	sYZ := marblePlane(yz(p).Mul(scale))
	return sXZ*w[1] + sXY*w[2] + sYZ*w[0]
}

// slopeTurbulence is the creased term that grows with slope. absN is the
// unperturbed normal magnitude.
func slopeTurbulence(p, absN mgl32.Vec3) float32 {
	c := xz(p).Mul(0.12).
		Add(xy(p).Mul(0.08 * absN[0])).
		Add(yz(p).Mul(0.08 * absN[1]))
	return noise.Turbulence(c, noise.TurbulenceOctaves)
}

// PatternIntensity maps the marble sample to the clamped intensity t.
// Slope feeds turbulence in and remixes toward it; raw height h moves the
// dark and light anchors and the contrast passes.
func PatternIntensity(marble, turb, slope, h float32) (splotch, t float32) {
	splotch = clamp01(marble)

	slopeBreak := slope * slope
	splotch += turb * (0.12 + 0.18*slopeBreak)
	splotch = mix(splotch, splotch*0.7+0.3*turb, slopeBreak*0.4)
	splotch = clamp01(splotch)

	baseDark := 0.05 + 0.15*(1-h)
	baseLight := 0.82 + 0.18*h
	t = mix(baseDark, baseLight, splotch)
	t = mix(t, t*0.26, (1-smoothstep(0.35, 0.58, splotch))*(0.55+0.45*(1-h)))
	t = mix(t, t*1.22, smoothstep(0.58, 0.82, splotch)*(0.3+0.4*h))
	return splotch, clamp01(t)
}
