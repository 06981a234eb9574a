// Package config loads the renderer and shading configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"Terrashade/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable of a Terrashade run.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Camera      CameraConfig      `yaml:"camera"`
	Render      RenderConfig      `yaml:"render"`
	Sky         SkyConfig         `yaml:"sky"`
	Terrain     TerrainConfig     `yaml:"terrain"`
	Water       WaterConfig       `yaml:"water"`
	HeightField HeightFieldConfig `yaml:"heightfield"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CameraConfig places the camera on a sphere around Target.
type CameraConfig struct {
	Target    mgl32.Vec3 `yaml:"target"`
	Distance  float32    `yaml:"distance"`
	Elevation float32    `yaml:"elevation"` // height above the target
	Azimuth   float32    `yaml:"azimuth"`   // radians around +y, from +z
	Fov       float32    `yaml:"fov"`       // vertical, degrees
	Near      float32    `yaml:"near"`
	Far       float32    `yaml:"far"`
}

type RenderConfig struct {
	Workers        int     `yaml:"workers"`
	FrameDT        float32 `yaml:"frame_dt"` // animation time added per frame
	ClearColor     Color   `yaml:"clear_color"`
	FrustumCulling bool    `yaml:"frustum_culling"`
}

type StopConfig struct {
	Offset float32 `yaml:"offset"`
	Color  Color   `yaml:"color"`
}

// SkyConfig is the gradient backdrop plane.
type SkyConfig struct {
	Width      float32      `yaml:"width"`
	Height     float32      `yaml:"height"`
	Position   mgl32.Vec3   `yaml:"position"`
	FogColor   Color        `yaml:"fog_color"`
	FogDensity float32      `yaml:"fog_density"`
	Stops      []StopConfig `yaml:"stops"`
}

// TerrainConfig holds the terrain shading block and its placement.
type TerrainConfig struct {
	Variant           string  `yaml:"variant"`
	FlatColor         Color   `yaml:"flat_color"`
	DisplacementScale float32 `yaml:"displacement_scale"`
	DisplacementBias  float32 `yaml:"displacement_bias"`
	PatternScale      float32 `yaml:"pattern_scale"`
	FogColor          Color   `yaml:"fog_color"`
	ShadeNear         float32 `yaml:"shade_near"`
	ShadeFar          float32 `yaml:"shade_far"`
	FogNear           float32 `yaml:"fog_near"`
	FogFar            float32 `yaml:"fog_far"`
	MinBrightness     float32 `yaml:"min_brightness"`

	Width         float32    `yaml:"width"`
	Depth         float32    `yaml:"depth"`
	WidthSegments int        `yaml:"width_segments"`
	DepthSegments int        `yaml:"depth_segments"`
	Position      mgl32.Vec3 `yaml:"position"`
	RotationX     float32    `yaml:"rotation_x"` // degrees
	Scale         float32    `yaml:"scale"`
}

// WaterConfig holds the water shading block and its placement.
type WaterConfig struct {
	Variant       string     `yaml:"variant"`
	FlatColor     Color      `yaml:"flat_color"`
	BaseColor     Color      `yaml:"base_color"`
	FogColor      Color      `yaml:"fog_color"`
	ShadeNear     float32    `yaml:"shade_near"`
	ShadeFar      float32    `yaml:"shade_far"`
	FogNear       float32    `yaml:"fog_near"`
	FogFar        float32    `yaml:"fog_far"`
	MinBrightness float32    `yaml:"min_brightness"`
	Anchor        mgl32.Vec2 `yaml:"anchor"`
	AnchorRange   float32    `yaml:"anchor_range"`

	Size     float32    `yaml:"size"`
	Segments int        `yaml:"segments"`
	Position mgl32.Vec3 `yaml:"position"`
}

// HeightFieldConfig controls where the displacement map comes from.
type HeightFieldConfig struct {
	Locations          []string      `yaml:"locations"`
	Root               string        `yaml:"root"` // confines absolute file paths
	Timeout            time.Duration `yaml:"timeout"`
	MaxResolution      int           `yaml:"max_resolution"`
	FallbackSize       int           `yaml:"fallback_size"`
	RecalculateNormals bool          `yaml:"recalculate_normals"`
}

type TelemetryConfig struct {
	CSVPath string `yaml:"csv_path"` // empty disables frame statistics
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Polar          float32 // camera polar angle from +y
	Aspect         float32
	TerrainVariant shading.Variant
	WaterVariant   shading.Variant
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse merges data over the embedded defaults, validates the result and
// computes derived values.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		// Unmarshal into same struct - only overwrites fields present in data
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) computeDerived() error {
	var err error
	if c.Derived.TerrainVariant, err = shading.ParseVariant(c.Terrain.Variant); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	if c.Derived.WaterVariant, err = shading.ParseVariant(c.Water.Variant); err != nil {
		return fmt.Errorf("water: %w", err)
	}
	if c.Camera.Distance > 0 {
		ratio := math.Max(-1, math.Min(1, float64(c.Camera.Elevation/c.Camera.Distance)))
		c.Derived.Polar = float32(math.Acos(ratio))
	}
	if c.Screen.Height > 0 {
		c.Derived.Aspect = float32(c.Screen.Width) / float32(c.Screen.Height)
	}
	return nil
}

// Validate reports every out-of-range value at once.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, msg string) {
		if !ok {
			err = multierr.Append(err, errors.New(msg))
		}
	}
	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen size must be positive")
	check(c.Camera.Distance > 0, "camera.distance must be positive")
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera clip range must satisfy 0 < near < far")
	check(c.Camera.Fov > 0 && c.Camera.Fov < 180, "camera.fov must be within (0, 180)")
	check(c.Render.Workers >= 0, "render.workers must not be negative")
	check(c.Render.FrameDT >= 0, "render.frame_dt must not be negative")
	check(len(c.Sky.Stops) > 0, "sky.stops must not be empty")
	for i := 1; i < len(c.Sky.Stops); i++ {
		check(c.Sky.Stops[i].Offset >= c.Sky.Stops[i-1].Offset, "sky.stops offsets must be ascending")
	}
	check(c.Terrain.ShadeFar > c.Terrain.ShadeNear, "terrain shade range must satisfy near < far")
	check(c.Terrain.FogFar > c.Terrain.FogNear, "terrain fog range must satisfy near < far")
	check(c.Terrain.MinBrightness >= 0 && c.Terrain.MinBrightness <= 1, "terrain.min_brightness must be within [0, 1]")
	check(c.Terrain.WidthSegments >= 1 && c.Terrain.DepthSegments >= 1, "terrain segments must be at least 1")
	check(c.Water.ShadeFar > c.Water.ShadeNear, "water shade range must satisfy near < far")
	check(c.Water.FogFar > c.Water.FogNear, "water fog range must satisfy near < far")
	check(c.Water.MinBrightness >= 0 && c.Water.MinBrightness <= 1, "water.min_brightness must be within [0, 1]")
	check(c.Water.Segments >= 1, "water.segments must be at least 1")
	check(c.HeightField.FallbackSize > 0, "heightfield.fallback_size must be positive")
	check(c.HeightField.MaxResolution >= 0, "heightfield.max_resolution must not be negative")
	return err
}

// TerrainParams builds the terrain shading block.
func (c *Config) TerrainParams() shading.TerrainParams {
	p := shading.DefaultTerrainParams()
	t := c.Terrain
	p.Variant = c.Derived.TerrainVariant
	p.FlatColor = t.FlatColor.Vec3()
	p.DisplacementScale = t.DisplacementScale
	p.DisplacementBias = t.DisplacementBias
	p.PatternScale = t.PatternScale
	p.FogColor = t.FogColor.Vec3()
	p.ShadeNear, p.ShadeFar = t.ShadeNear, t.ShadeFar
	p.FogNear, p.FogFar = t.FogNear, t.FogFar
	p.MinBrightness = t.MinBrightness
	return p
}

// WaterParams builds the water shading block.
func (c *Config) WaterParams() shading.WaterParams {
	p := shading.DefaultWaterParams()
	w := c.Water
	p.Variant = c.Derived.WaterVariant
	p.FlatColor = w.FlatColor.Vec3()
	p.BaseColor = w.BaseColor.Vec3()
	p.FogColor = w.FogColor.Vec3()
	p.ShadeNear, p.ShadeFar = w.ShadeNear, w.ShadeFar
	p.FogNear, p.FogFar = w.FogNear, w.FogFar
	p.MinBrightness = w.MinBrightness
	p.Anchor = w.Anchor
	p.AnchorRange = w.AnchorRange
	return p
}

// SkyParams builds the backdrop shading block.
func (c *Config) SkyParams() shading.SkyParams {
	p := shading.SkyParams{
		FogColor:   c.Sky.FogColor.Vec3(),
		FogDensity: c.Sky.FogDensity,
		Stops:      make([]shading.GradientStop, len(c.Sky.Stops)),
	}
	for i, s := range c.Sky.Stops {
		p.Stops[i] = shading.GradientStop{Offset: s.Offset, Color: s.Color.Vec3()}
	}
	return p
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
