package shading

import (
	"Terrashade/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	warmLight      = mgl32.Vec3{0.95, 0.9, 0.7}
	mountainMirror = mgl32.Vec3{0.15, 0.18, 0.12}
	shadowPhase    = mgl32.Vec2{10, 5}
)

const rippleRate = 0.8

// WaterTrace records the intermediate stages of one water fragment.
type WaterTrace struct {
	Rippled    mgl32.Vec2 // rippled xz coordinate
	Proximity  float32    // closeness to the terrain anchor
	Glow       float32    // warm light weight
	ShadowMix  float32
	Reflection float32
	Base       mgl32.Vec3 // body colour after the reflections
	Shaded     mgl32.Vec3
	Fogged     mgl32.Vec3
	Color      mgl32.Vec4
}

// ShadeWater runs the procedural water program on f with params p.
func ShadeWater(f *Fragment, p WaterParams) mgl32.Vec4 {
	return TraceWater(f, p).Color
}

// TraceWater runs the procedural water program and keeps the stages.
func TraceWater(f *Fragment, p WaterParams) WaterTrace {
	return traceWater(f, &p, p.Atmosphere(), p.PostProcess())
}

func traceWater(f *Fragment, p *WaterParams, atmo Atmosphere, post PostProcess) WaterTrace {
	var tr WaterTrace
	w := xz(f.Position)
	rt := p.Time * rippleRate

	tr.Rippled = w.Add(mgl32.Vec2{
		sinf(w[0]*0.5+rt) * 0.3,
		cosf(w[1]*0.5+rt*0.9) * 0.3,
	})

	anchorDist := w.Sub(p.Anchor).Len()
	tr.Proximity = 1 - smoothstep(0, p.AnchorRange, anchorDist)

	base := p.BaseColor
	tr.Glow = tr.Proximity * smoothstep(0, 20, anchorDist) * (1 + sinf(rt*2.5)*0.5)
	base = mixVec3(base, warmLight, tr.Glow*0.4)

	tr.ShadowMix = smoothstep(0.3, 0.8, noise.FBM(tr.Rippled.Mul(0.2).Add(shadowPhase), noise.FogOctaves))
	base = mixVec3(base, mgl32.Vec3{}, tr.ShadowMix*tr.Proximity*0.5)

	r := tr.Rippled
	r = r.Add(mgl32.Vec2{
		sinf(rt*2 + r[0]*0.3),
		cosf(rt*1.8 + r[1]*0.3),
	})
	tr.Reflection = noise.FBM(r.Mul(0.15), noise.FogOctaves)
	base = mixVec3(base, mountainMirror.Mul(tr.Reflection), tr.Proximity*0.4)
	tr.Base = clampVec3(base)

	d := f.Distance()
	tr.Shaded = atmo.Shade(tr.Base, d)
	tr.Fogged = atmo.Fog(tr.Shaded, f.Position, d)
	tr.Color = post.Apply(tr.Fogged, f.Position, p.Time).Vec4(1)
	return tr
}
