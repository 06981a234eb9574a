package shading

import "github.com/go-gl/mathgl/mgl32"

// Hex converts a 0xRRGGBB colour to [0,1] channels.
func Hex(rgb uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((rgb>>16)&0xff) / 255,
		float32((rgb>>8)&0xff) / 255,
		float32(rgb&0xff) / 255,
	}
}

// FlatLighting is the conventional scene lighting used by the flat-lit
// variant: a directional sun, a sky/ground hemisphere and an ambient term.
type FlatLighting struct {
	SunDir       mgl32.Vec3 // toward the light
	SunColor     mgl32.Vec3
	SunIntensity float32

	SkyColor         mgl32.Vec3
	GroundColor      mgl32.Vec3
	HemiIntensity    float32
	AmbientColor     mgl32.Vec3
	AmbientIntensity float32
}

// DefaultFlatLighting is the olive-green scene rig.
func DefaultFlatLighting() FlatLighting {
	return FlatLighting{
		SunDir:           mgl32.Vec3{-12, 22, 8}.Normalize(),
		SunColor:         Hex(0x8fa85a),
		SunIntensity:     0.9,
		SkyColor:         Hex(0x5d7311),
		GroundColor:      Hex(0x2f390d),
		HemiIntensity:    0.6,
		AmbientColor:     Hex(0x4a5a0f),
		AmbientIntensity: 0.3,
	}
}

// Irradiance returns the light reaching a surface with unit normal n.
func (l FlatLighting) Irradiance(n mgl32.Vec3) mgl32.Vec3 {
	hemi := mixVec3(l.GroundColor, l.SkyColor, n[1]*0.5+0.5).Mul(l.HemiIntensity)
	ambient := l.AmbientColor.Mul(l.AmbientIntensity)
	sun := l.SunColor.Mul(l.SunIntensity * maxf(n.Dot(l.SunDir), 0))
	return hemi.Add(ambient).Add(sun)
}

// ShadeFlat lights a single base colour with standard diffuse terms.
func ShadeFlat(f *Fragment, base mgl32.Vec3, l FlatLighting) mgl32.Vec4 {
	e := l.Irradiance(normalize(f.Normal))
	c := clampVec3(mgl32.Vec3{base[0] * e[0], base[1] * e[1], base[2] * e[2]})
	return c.Vec4(1)
}

// floorColor raises every colour channel of c to at least lo.
func floorColor(c mgl32.Vec4, lo float32) mgl32.Vec4 {
	for i := 0; i < 3; i++ {
		c[i] = maxf(c[i], lo)
	}
	return c
}
