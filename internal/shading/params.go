package shading

import (
	"fmt"

	"Terrashade/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

// Variant selects the fragment program of a surface.
type Variant string

const (
	VariantProcedural Variant = "procedural"
	VariantFlatLit    Variant = "flat-lit"
)

// ParseVariant accepts the configuration spelling of a variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantProcedural, "":
		return VariantProcedural, nil
	case VariantFlatLit:
		return VariantFlatLit, nil
	}
	return "", fmt.Errorf("unknown material variant %q", s)
}

// FogColor is the olive background haze shared by both surfaces.
var FogColor = mgl32.Vec3{0.184, 0.224, 0.051}

// TerrainParams is the terrain shading block. The renderer copies it at
// frame start, so callers may reconfigure it between frames.
type TerrainParams struct {
	DisplacementScale float32
	DisplacementBias  float32
	PatternScale      float32

	FogColor      mgl32.Vec3
	ShadeNear     float32
	ShadeFar      float32
	FogNear       float32
	FogFar        float32
	MinBrightness float32

	Variant   Variant
	FlatColor mgl32.Vec3
	Lighting  FlatLighting

	Time float32
}

// DefaultTerrainParams returns the tuned terrain look.
func DefaultTerrainParams() TerrainParams {
	return TerrainParams{
		DisplacementScale: 5.5,
		DisplacementBias:  0,
		PatternScale:      0.08,
		FogColor:          FogColor,
		ShadeNear:         12,
		ShadeFar:          45,
		FogNear:           25,
		FogFar:            70,
		MinBrightness:     0.05,
		Variant:           VariantProcedural,
		FlatColor:         Hex(0x6b7501),
		Lighting:          DefaultFlatLighting(),
	}
}

// SetTime receives the animation clock once per frame.
func (p *TerrainParams) SetTime(t float32) {
	p.Time = t
}

// Displacement returns the vertex-stage scale and bias. The vertex stage
// reads nothing else from the block, so switching variants never moves
// geometry.
func (p *TerrainParams) Displacement() (scale, bias float32) {
	return p.DisplacementScale, p.DisplacementBias
}

// Atmosphere returns the terrain compositor: silhouette darkening toward
// black with a near boost, then fog capped at 0.65.
func (p *TerrainParams) Atmosphere() Atmosphere {
	return Atmosphere{
		ShadeNear:  p.ShadeNear,
		ShadeFar:   p.ShadeFar,
		BoostRange: 25,
		Boost:      0.4,
		Darken:     0.9,
		ToBlack:    0.85,
		FogNear:    p.FogNear,
		FogFar:     p.FogFar,
		FogCap:     0.65,
		FogScale:   0.08,
		FogOctaves: noise.TerrainOctaves,
		FogColor:   p.FogColor,
	}
}

// Tint is the green overlay laid over the grayscale terrain.
func (p *TerrainParams) Tint() Tint {
	return Tint{
		Dark:   mgl32.Vec3{0.15, 0.22, 0.08},
		Light:  mgl32.Vec3{0.45, 0.55, 0.2},
		Weight: 0.75,
	}
}

// PostProcess returns the terrain amplitudes of the temporal stack.
func (p *TerrainParams) PostProcess() PostProcess {
	return PostProcess{
		ColorNoise:    0.08,
		GradeRed:      0.02,
		GradeBlue:     0.015,
		Grain:         0.015,
		Dither:        0.01,
		MinBrightness: p.MinBrightness,
	}
}

// Program returns the fragment program for the current variant, bound to a
// copy of p.
func (p TerrainParams) Program() Program {
	if p.Variant == VariantFlatLit {
		return func(f *Fragment) mgl32.Vec4 {
			return floorColor(ShadeFlat(f, p.FlatColor, p.Lighting), p.MinBrightness)
		}
	}
	atmo, tint, post := p.Atmosphere(), p.Tint(), p.PostProcess()
	return func(f *Fragment) mgl32.Vec4 {
		return traceTerrain(f, &p, atmo, tint, post).Color
	}
}

// WaterParams is the water shading block.
type WaterParams struct {
	BaseColor     mgl32.Vec3
	FogColor      mgl32.Vec3
	ShadeNear     float32
	ShadeFar      float32
	FogNear       float32
	FogFar        float32
	MinBrightness float32

	// Anchor is the xz point the terrain stands on, for light and
	// shadow reflections.
	Anchor      mgl32.Vec2
	AnchorRange float32

	Variant   Variant
	FlatColor mgl32.Vec3
	Lighting  FlatLighting

	Time float32
}

// DefaultWaterParams returns the tuned water look.
func DefaultWaterParams() WaterParams {
	return WaterParams{
		BaseColor:     mgl32.Vec3{0.165, 0.157, 0.055},
		FogColor:      FogColor,
		ShadeNear:     10,
		ShadeFar:      60,
		FogNear:       15,
		FogFar:        70,
		MinBrightness: 0.06,
		Anchor:        mgl32.Vec2{0, -18},
		AnchorRange:   25,
		Variant:       VariantProcedural,
		FlatColor:     Hex(0x2a280e),
		Lighting:      DefaultFlatLighting(),
	}
}

// SetTime receives the animation clock once per frame.
func (p *WaterParams) SetTime(t float32) {
	p.Time = t
}

// Atmosphere returns the water compositor: lift and desaturation with
// distance, then fog capped at 0.7.
func (p *WaterParams) Atmosphere() Atmosphere {
	return Atmosphere{
		ShadeNear:  p.ShadeNear,
		ShadeFar:   p.ShadeFar,
		Lift:       0.25,
		Desaturate: 0.5,
		FogNear:    p.FogNear,
		FogFar:     p.FogFar,
		FogCap:     0.7,
		FogScale:   0.08,
		FogOctaves: noise.FogOctaves,
		FogColor:   p.FogColor,
	}
}

// PostProcess returns the water amplitudes of the temporal stack.
func (p *WaterParams) PostProcess() PostProcess {
	return PostProcess{
		ColorNoise:    0.06,
		GradeRed:      0.015,
		GradeBlue:     0.01,
		Grain:         0.012,
		Dither:        0.008,
		MinBrightness: p.MinBrightness,
	}
}

// Program returns the fragment program for the current variant, bound to a
// copy of p.
func (p WaterParams) Program() Program {
	if p.Variant == VariantFlatLit {
		return func(f *Fragment) mgl32.Vec4 {
			return floorColor(ShadeFlat(f, p.FlatColor, p.Lighting), p.MinBrightness)
		}
	}
	atmo, post := p.Atmosphere(), p.PostProcess()
	return func(f *Fragment) mgl32.Vec4 {
		return traceWater(f, &p, atmo, post).Color
	}
}
