package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"Terrashade/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
)

func TestDefaultsMatchShadingDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	terrain := shading.DefaultTerrainParams()
	got := cfg.TerrainParams()
	if got.DisplacementScale != terrain.DisplacementScale || got.PatternScale != terrain.PatternScale {
		t.Errorf("terrain displacement/pattern = %v/%v", got.DisplacementScale, got.PatternScale)
	}
	if got.ShadeNear != 12 || got.ShadeFar != 45 || got.FogNear != 25 || got.FogFar != 70 {
		t.Errorf("terrain breakpoints = %v %v %v %v", got.ShadeNear, got.ShadeFar, got.FogNear, got.FogFar)
	}
	if got.FlatColor != terrain.FlatColor {
		t.Errorf("terrain flat colour = %v, want %v", got.FlatColor, terrain.FlatColor)
	}
	if got.FogColor != shading.FogColor {
		t.Errorf("terrain fog colour = %v, want %v", got.FogColor, shading.FogColor)
	}
	if got.Variant != shading.VariantProcedural {
		t.Errorf("terrain variant = %q", got.Variant)
	}

	water := cfg.WaterParams()
	if water.BaseColor != shading.DefaultWaterParams().BaseColor {
		t.Errorf("water base colour = %v", water.BaseColor)
	}
	if water.Anchor != (mgl32.Vec2{0, -18}) || water.AnchorRange != 25 {
		t.Errorf("water anchor = %v range %v", water.Anchor, water.AnchorRange)
	}

	sky := cfg.SkyParams()
	want := shading.DefaultSkyParams()
	if !reflect.DeepEqual(sky, want) {
		t.Errorf("sky = %+v, want %+v", sky, want)
	}
}

func TestDerivedCameraPolar(t *testing.T) {
	cfg := Default()
	want := float32(math.Acos(2.0 / 15.0))
	if math.Abs(float64(cfg.Derived.Polar-want)) > 1e-6 {
		t.Errorf("polar = %v, want %v", cfg.Derived.Polar, want)
	}
	if cfg.Derived.Aspect != 800.0/600.0 {
		t.Errorf("aspect = %v", cfg.Derived.Aspect)
	}
	if cfg.Camera.Target != (mgl32.Vec3{10, 0, -16}) {
		t.Errorf("target = %v", cfg.Camera.Target)
	}
}

func TestUserFileOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrashade.yaml")
	data := "screen:\n  width: 320\nterrain:\n  variant: flat-lit\n  flat_color: \"0x102030\"\nheightfield:\n  locations: [a.png]\n  timeout: 250ms\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Screen.Width != 320 || cfg.Screen.Height != 600 {
		t.Errorf("screen = %dx%d, want 320x600", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Derived.TerrainVariant != shading.VariantFlatLit {
		t.Errorf("terrain variant = %q", cfg.Derived.TerrainVariant)
	}
	if cfg.Derived.WaterVariant != shading.VariantProcedural {
		t.Errorf("water variant = %q", cfg.Derived.WaterVariant)
	}
	if cfg.Terrain.FlatColor.Vec3() != shading.Hex(0x102030) {
		t.Errorf("flat colour = %v", cfg.Terrain.FlatColor)
	}
	if !reflect.DeepEqual(cfg.HeightField.Locations, []string{"a.png"}) {
		t.Errorf("locations = %v", cfg.HeightField.Locations)
	}
	if cfg.HeightField.Timeout != 250*time.Millisecond {
		t.Errorf("timeout = %v", cfg.HeightField.Timeout)
	}
	if cfg.HeightField.FallbackSize != 256 {
		t.Errorf("fallback size = %d", cfg.HeightField.FallbackSize)
	}
}

func TestColorForms(t *testing.T) {
	cfg, err := Parse([]byte("render:\n  clear_color: [0.25, 0.5, 1]\nsky:\n  fog_color: \"#ff0000\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Render.ClearColor.Vec3() != (mgl32.Vec3{0.25, 0.5, 1}) {
		t.Errorf("clear colour = %v", cfg.Render.ClearColor)
	}
	if cfg.Sky.FogColor.Vec3() != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("fog colour = %v", cfg.Sky.FogColor)
	}

	if _, err := Parse([]byte("render:\n  clear_color: \"#12345\"\n")); err == nil {
		t.Error("short hex colour accepted")
	}
	if _, err := Parse([]byte("render:\n  clear_color: \"#gg0000\"\n")); err == nil {
		t.Error("non-hex colour accepted")
	}
}

func TestUnknownVariant(t *testing.T) {
	_, err := Parse([]byte("water:\n  variant: chrome\n"))
	if err == nil || !strings.Contains(err.Error(), "water") {
		t.Fatalf("err = %v, want a water variant error", err)
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	_, err := Parse([]byte("screen:\n  width: 0\ncamera:\n  near: 0\nterrain:\n  fog_far: 1\n  min_brightness: 1.5\nwater:\n  min_brightness: -2\n"))
	if err == nil {
		t.Fatal("invalid config accepted")
	}
	problems := multierr.Errors(errorsUnwrap(err))
	if len(problems) != 5 {
		t.Errorf("got %d problems, want 5: %v", len(problems), err)
	}
	for _, key := range []string{"terrain.min_brightness", "water.min_brightness"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("no problem reported for %s: %v", key, err)
		}
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Terrain.Variant = "flat-lit"
	cfg.Water.Position = mgl32.Vec3{1, 2, 3}
	if err := cfg.computeDerived(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, back) {
		t.Errorf("round trip changed the config:\n got %+v\nwant %+v", back, cfg)
	}
}

// errorsUnwrap strips one level of %w wrapping.
func errorsUnwrap(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return err
}
