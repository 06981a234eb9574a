package shading

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TerrainTrace records every intermediate stage of one terrain fragment.
type TerrainTrace struct {
	Normal    mgl32.Vec3 // shimmer-perturbed unit normal
	Slope     float32    // from the unperturbed normal
	Splotch   float32
	Intensity float32 // pattern intensity after detail and grain
	RidgeMask float32
	Splatter  Splatter
	Shadow    Shadow
	Gray      float32 // lit grayscale before the atmosphere
	Shaded    float32 // grayscale after the shade curve
	Tinted    mgl32.Vec3
	Fogged    mgl32.Vec3
	Color     mgl32.Vec4
}

// ShadeTerrain runs the procedural terrain program on f with params p.
func ShadeTerrain(f *Fragment, p TerrainParams) mgl32.Vec4 {
	return TraceTerrain(f, p).Color
}

// TraceTerrain runs the procedural terrain program and keeps the stages.
func TraceTerrain(f *Fragment, p TerrainParams) TerrainTrace {
	return traceTerrain(f, &p, p.Atmosphere(), p.Tint(), p.PostProcess())
}

func traceTerrain(f *Fragment, p *TerrainParams, atmo Atmosphere, tint Tint, post PostProcess) TerrainTrace {
	var tr TerrainTrace
	h := f.Heights

	n := normalize(f.Normal)
	absN := mgl32.Vec3{absf(n[0]), absf(n[1]), absf(n[2])}
	tr.Slope = 1 - absN[1]
	tr.Normal = normalize(n.Add(Shimmer(f.Position, p.Time)))

	marble := MarbleTriplanar(f.Position, tr.Normal, p.PatternScale)
	turb := slopeTurbulence(f.Position, absN)
	var t float32
	tr.Splotch, t = PatternIntensity(marble, turb, tr.Slope, h.Center)

	tr.RidgeMask = RidgeMask(h)
	tr.Splatter = SampleSplatter(f.Position, h.Center)
	t = ApplyDetail(t, tr.RidgeMask, tr.Splatter)
	tr.Intensity = ApplyGrain(t, f.Position)

	d := f.Distance()
	tr.Shadow = Light(tr.Normal)
	tr.Gray = Grayscale(tr.Intensity, tr.Slope, tr.Shadow)
	tr.Shaded = atmo.Shade(splat(tr.Gray), d)[0]
	tr.Tinted = tint.Apply(tr.Shaded)
	tr.Fogged = atmo.Fog(tr.Tinted, f.Position, d)

	c := post.Apply(tr.Fogged, f.Position, p.Time)
	tr.Color = c.Vec4(1)
	return tr
}
