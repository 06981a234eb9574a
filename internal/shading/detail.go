package shading

import (
	"Terrashade/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	ridgeEdge     = 0.02
	ridgeFloorLo  = 0.12
	ridgeFloorHi  = 0.4
	ridgeCeilLo   = 0.88
	ridgeCeilHi   = 0.98
	dotCellScale  = 0.8
	dotGate       = 0.88
	dotRadiusMin  = 0.04
	dotRadiusSpan = 0.06
	ridgeInk      = 0.04
	splatterInk   = 0.05
	ridgeStrength = 0.88
	splatStrength = 0.9
)

// RidgeMask fires where the centre height stands above both neighbours on
// either axis. It is zero at local minima and outside the mid-height window.
func RidgeMask(h HeightSamples) float32 {
	ridgeX := smoothstep(0, ridgeEdge, h.Center-maxf(h.Left, h.Right))
	ridgeY := smoothstep(0, ridgeEdge, h.Center-maxf(h.Up, h.Down))
	window := smoothstep(ridgeFloorLo, ridgeFloorHi, h.Center) *
		(1 - smoothstep(ridgeCeilLo, ridgeCeilHi, h.Center))
	return maxf(ridgeX, ridgeY) * window
}

// Splatter is the stochastic dot coverage at one fragment.
type Splatter struct {
	Dot     float32 // soft dot coverage, 0 outside a live dot
	Rand    float32 // per-cell random used for gating
	Radius  float32 // dot radius of the cell
	OnWhite float32 // weight of dots painted over bright high ground
}

// SampleSplatter scatters dots on a jittered world-space grid. Each cell
// draws a radius and an occurrence gate from its hash, so about one cell in
// eight carries a dot.
func SampleSplatter(p mgl32.Vec3, h float32) Splatter {
	w := xz(p)
	jitter := mgl32.Vec2{
		noise.Hash(w) * 0.3,
		noise.Hash(w.Add(mgl32.Vec2{0.3, 0.3})) * 0.3,
	}
	cellUV := w.Mul(dotCellScale).Add(jitter)
	cell := mgl32.Vec2{floorf(cellUV[0]), floorf(cellUV[1])}
	local := cellUV.Sub(cell).Sub(mgl32.Vec2{0.5, 0.5})

	radius := dotRadiusMin + dotRadiusSpan*noise.Hash(cell)
	rnd := noise.Hash(cell.Add(mgl32.Vec2{0.1, 0.1}))
	dot := (1 - smoothstep(radius-0.01, radius, local.Len())) * step(dotGate, rnd)

	zone := noise.FBM(w.Mul(0.15).Add(mgl32.Vec2{7.1, 13.2}), noise.TerrainOctaves)
	onWhite := dot * step(0.78, rnd+0.1) * smoothstep(0.5, 0.85, h) * smoothstep(0.45, 0.7, zone)

	return Splatter{Dot: dot, Rand: rnd, Radius: radius, OnWhite: onWhite}
}

// ApplyDetail darkens t toward near-black by ridge dots and by splatter on
// bright ground. Both passes may apply.
func ApplyDetail(t, ridgeMask float32, s Splatter) float32 {
	ridgeDots := s.Dot * (ridgeMask*0.95 + (1-ridgeMask)*0.15)
	t = mix(t, ridgeInk, ridgeDots*ridgeStrength)
	t = mix(t, splatterInk, s.OnWhite*splatStrength)
	return clamp01(t)
}

// ApplyGrain adds static two-tap value-noise grain to t.
func ApplyGrain(t float32, p mgl32.Vec3) float32 {
	w := xz(p)
	grain := noise.Value(w.Mul(1.2))*0.5 + noise.Value(w.Mul(2.5).Add(mgl32.Vec2{1.5, 1.5}))*0.5
	return clamp01(t + (grain-0.5)*0.08)
}
