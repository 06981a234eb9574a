package engine

import (
	"Terrashade/internal/renderer"
	"Terrashade/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
)

// Probe is the shading of a single pixel with every intermediate stage
// exposed, for inspecting the pipeline.
type Probe struct {
	Surface  string
	Hit      renderer.Hit
	Fragment shading.Fragment
	Color    mgl32.Vec4

	// Set for the matching procedural surface only
	Terrain *shading.TerrainTrace
	Water   *shading.WaterTrace
}

// Probe shades pixel (x, y) of the current frame state. ok is false when
// the pixel shows only the background.
func (e *Engine) Probe(x, y int) (p Probe, ok bool) {
	hit, ok := e.Renderer.Pick(e.Camera, x, y)
	if !ok {
		return Probe{}, false
	}

	f := shading.Fragment{
		Position: hit.Position,
		Normal:   hit.Normal,
		UV:       hit.UV,
		Camera:   e.Camera.Position,
	}
	if hit.Surface.HeightField != nil {
		f.Heights = shading.SampleHeights(hit.Surface.HeightField, hit.UV)
	}

	p = Probe{Surface: hit.Surface.Name, Hit: hit, Fragment: f}
	p.Color = hit.Surface.Material.Program()(&f)

	switch {
	case hit.Surface == e.Terrain && e.TerrainParams.Variant == shading.VariantProcedural:
		tr := shading.TraceTerrain(&f, *e.TerrainParams)
		p.Terrain = &tr
	case hit.Surface == e.Water && e.WaterParams.Variant == shading.VariantProcedural:
		tr := shading.TraceWater(&f, *e.WaterParams)
		p.Water = &tr
	}
	return p, true
}
