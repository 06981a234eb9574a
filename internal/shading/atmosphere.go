package shading

import (
	"Terrashade/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

// Atmosphere is the two-curve distance compositor. The shade curve grades
// the surface itself (silhouette darkening for terrain, lift and
// desaturation for water); the fog curve mixes toward a noisy fog colour
// over a farther window.
type Atmosphere struct {
	ShadeNear, ShadeFar float32

	BoostRange float32 // distance below which the near boost applies; 0 disables
	Boost      float32
	Darken     float32 // multiplicative darkening at full fade
	ToBlack    float32 // mix weight toward black at full fade
	Lift       float32 // additive brightening at full fade
	Desaturate float32 // mix weight toward luminance at full fade

	FogNear, FogFar float32
	FogCap          float32
	FogScale        float32
	FogOctaves      int
	FogColor        mgl32.Vec3
}

// ShadeCurve returns the fade and near-boost weights at distance d.
func (a Atmosphere) ShadeCurve(d float32) (fade, boost float32) {
	fade = smoothstep(a.ShadeNear, a.ShadeFar, d)
	if a.BoostRange > 0 {
		boost = 1 - smoothstep(0, a.BoostRange, d)
	}
	return fade, boost
}

// Shade applies the near/far curve to c. Unused terms are identities at
// their zero value.
func (a Atmosphere) Shade(c mgl32.Vec3, d float32) mgl32.Vec3 {
	fade, boost := a.ShadeCurve(d)

	c = c.Mul(1 + boost*a.Boost)
	c = c.Mul(1 - fade*a.Darken)
	c = mixVec3(c, mgl32.Vec3{}, fade*a.ToBlack)
	c = c.Add(splat(fade * a.Lift))

	if a.Desaturate > 0 {
		desaturated := mixVec3(c, splat(luminance(c)), fade*a.Desaturate)
		c = mixVec3(c, desaturated, fade)
	}
	return clampVec3(c)
}

// FogFactor returns the capped fog weight and the low-frequency fog noise
// at world position p and distance d.
func (a Atmosphere) FogFactor(p mgl32.Vec3, d float32) (factor, fogNoise float32) {
	fogNoise = smoothstep(0.3, 0.7, noise.FBM(xz(p).Mul(a.FogScale), a.FogOctaves))
	factor = smoothstep(a.FogNear, a.FogFar, d) * (0.7 + fogNoise*0.3)
	return clamp01(minf(factor, a.FogCap)), fogNoise
}

// Fog mixes c toward the jittered fog colour.
func (a Atmosphere) Fog(c, p mgl32.Vec3, d float32) mgl32.Vec3 {
	factor, fogNoise := a.FogFactor(p, d)
	fog := a.FogColor.Add(splat((fogNoise - 0.5) * 0.02))
	return clampVec3(mixVec3(c, fog, factor))
}

// Tint lifts a grayscale value toward a dark-to-light colour ramp.
type Tint struct {
	Dark, Light mgl32.Vec3
	Weight      float32
}

// Apply overlays the ramp colour at gray onto the grayscale colour.
func (t Tint) Apply(gray float32) mgl32.Vec3 {
	ramp := mixVec3(t.Dark, t.Light, gray)
	return clampVec3(mixVec3(splat(gray), ramp, t.Weight))
}
