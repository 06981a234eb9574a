package engine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Terrashade/internal/config"
	"Terrashade/internal/heightfield"
	"Terrashade/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
)

const smallScene = `
screen: {width: 48, height: 32}
render: {workers: 2}
terrain: {width_segments: 24, depth_segments: 16}
heightfield: {locations: [], fallback_size: 32}
`

func testConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(smallScene + extra))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config, fetcher heightfield.Fetcher) *Engine {
	t.Helper()
	e, err := New(context.Background(), cfg, fetcher)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

type clock struct{ got []float32 }

func (c *clock) SetTime(t float32) { c.got = append(c.got, t) }

func TestAnimatorAdvancesEveryTarget(t *testing.T) {
	a, b := &clock{}, &clock{}
	anim := NewAnimator(0.5, a, b)
	anim.Advance()
	if got := anim.Advance(); got != 1 {
		t.Errorf("time after two steps = %v, want 1", got)
	}
	for _, c := range []*clock{a, b} {
		if len(c.got) != 2 || c.got[0] != 0.5 || c.got[1] != 1 {
			t.Errorf("target saw %v, want [0.5 1]", c.got)
		}
	}
}

func TestAnimatorNeverRunsBackwards(t *testing.T) {
	anim := NewAnimator(-1)
	if got := anim.Advance(); got != 0 {
		t.Errorf("time = %v, want 0", got)
	}
}

func TestNewFallsBackWithoutLocations(t *testing.T) {
	e := newTestEngine(t, testConfig(t, ""), nil)
	if e.Source != "fallback" {
		t.Errorf("source = %q, want fallback", e.Source)
	}
	if e.Field == nil || e.Field.Width != 32 {
		t.Fatalf("field = %+v, want 32x32 fallback", e.Field)
	}

	names := make([]string, len(e.Renderer.Surfaces))
	for i, s := range e.Renderer.Surfaces {
		names[i] = s.Name
	}
	if strings.Join(names, ",") != "sky,terrain,water" {
		t.Errorf("draw order = %v", names)
	}
	if e.Sky.DepthWrite {
		t.Error("sky writes depth")
	}
	if e.Terrain.HeightField == nil || e.Water.HeightField != nil {
		t.Error("only the terrain is displaced")
	}
}

func TestNewUsesFetchedField(t *testing.T) {
	field, err := heightfield.New(2, 2, []float32{0, 0.25, 0.5, 1})
	if err != nil {
		t.Fatal(err)
	}
	var png bytes.Buffer
	if err := heightfield.EncodePNG(&png, field); err != nil {
		t.Fatal(err)
	}
	fetcher := heightfield.FetcherFunc(func(ctx context.Context, location string) (io.ReadCloser, error) {
		if location != "maps/h2.png" {
			return nil, os.ErrNotExist
		}
		return io.NopCloser(bytes.NewReader(png.Bytes())), nil
	})

	cfg := testConfig(t, "")
	cfg.HeightField.Locations = []string{"missing.png", "maps/h2.png"}
	e := newTestEngine(t, cfg, fetcher)
	if e.Source != "maps/h2.png" {
		t.Errorf("source = %q", e.Source)
	}
	if e.Field.Width != 2 || e.Field.Height != 2 {
		t.Errorf("field = %dx%d, want 2x2", e.Field.Width, e.Field.Height)
	}
}

func TestSceneLayout(t *testing.T) {
	e := newTestEngine(t, testConfig(t, ""), nil)

	if want := (mgl32.Vec3{0, -0.5, -18}); e.Terrain.Position != want {
		t.Errorf("terrain position = %v", e.Terrain.Position)
	}
	if e.Terrain.Scale != (mgl32.Vec3{1.35, 1.35, 1.35}) {
		t.Errorf("terrain scale = %v", e.Terrain.Scale)
	}
	// The terrain plane faces up after its rotation
	up := e.Terrain.ModelMatrix.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3().Normalize()
	if up.Sub(mgl32.Vec3{0, 1, 0}).Len() > 1e-5 {
		t.Errorf("terrain normal = %v, want +y", up)
	}
	// Water is rotated in the mesh, not the model matrix
	if n := e.Water.Mesh.Normals[0]; n.Sub(mgl32.Vec3{0, 1, 0}).Len() > 1e-5 {
		t.Errorf("water normal = %v, want +y", n)
	}
	if e.Water.Position != (mgl32.Vec3{0, -0.2, -8}) {
		t.Errorf("water position = %v", e.Water.Position)
	}

	// Camera sits 2 above and 15 away from the target, aimed at it
	target := mgl32.Vec3{10, 0, -16}
	offset := e.Camera.Position.Sub(target)
	if abs32(offset.Len()-15) > 1e-4 || abs32(offset[1]-2) > 1e-4 {
		t.Errorf("camera offset = %v", offset)
	}
	if e.Camera.Fov != 50 || e.Camera.Near != 0.1 || e.Camera.Far != 2000 {
		t.Errorf("lens = %v %v %v", e.Camera.Fov, e.Camera.Near, e.Camera.Far)
	}
}

func TestRenderFrameAdvancesTime(t *testing.T) {
	e := newTestEngine(t, testConfig(t, ""), nil)

	for i := 1; i <= 2; i++ {
		img, err := e.RenderFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if img.Bounds() != image.Rect(0, 0, 48, 32) {
			t.Fatalf("bounds = %v", img.Bounds())
		}
		want := float32(i) * 0.016
		if abs32(e.TerrainParams.Time-want) > 1e-6 || abs32(e.WaterParams.Time-want) > 1e-6 {
			t.Errorf("frame %d time = %v/%v, want %v", i, e.TerrainParams.Time, e.WaterParams.Time, want)
		}
	}
	if e.Frame() != 2 {
		t.Errorf("frame counter = %d", e.Frame())
	}
	if st := e.Renderer.Stats(); st.Fragments == 0 || st.Triangles == 0 {
		t.Errorf("nothing drawn: %+v", st)
	}
}

func TestFramesAreDeterministic(t *testing.T) {
	first := func() []byte {
		e := newTestEngine(t, testConfig(t, ""), nil)
		img, err := e.RenderFrame()
		if err != nil {
			t.Fatal(err)
		}
		return img.Pix
	}
	if !bytes.Equal(first(), first()) {
		t.Error("identical engines rendered different frames")
	}
}

func TestSetVariantKeepsGeometry(t *testing.T) {
	e := newTestEngine(t, testConfig(t, ""), nil)
	before, _ := e.Terrain.VertexStage()
	procedural, err := e.RenderFrame()
	if err != nil {
		t.Fatal(err)
	}
	procedural = cloneRGBA(procedural)

	e.SetVariant(shading.VariantFlatLit, shading.VariantFlatLit)
	after, _ := e.Terrain.VertexStage()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("vertex %d moved: %v -> %v", i, before[i], after[i])
		}
	}
	flat, err := e.RenderFrame()
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(procedural.Pix, flat.Pix) {
		t.Error("variant switch did not change the image")
	}
}

func TestRunWritesTelemetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.csv")
	e := newTestEngine(t, testConfig(t, "telemetry: {csv_path: "+path+"}\n"), nil)

	var frames []int
	err := e.Run(context.Background(), 3, func(frame int, img *image.RGBA) error {
		frames = append(frames, frame)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 || frames[0] != 0 || frames[2] != 2 {
		t.Errorf("sink saw frames %v", frames)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 4 {
		t.Errorf("telemetry has %d lines, want header + 3", len(lines))
	}
}

func TestRunStops(t *testing.T) {
	e := newTestEngine(t, testConfig(t, ""), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx, 5, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if e.Frame() != 0 {
		t.Errorf("rendered %d frames after cancel", e.Frame())
	}

	boom := errors.New("disk full")
	err := e.Run(context.Background(), 5, func(int, *image.RGBA) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want sink error", err)
	}
	if e.Frame() != 1 {
		t.Errorf("rendered %d frames, want 1", e.Frame())
	}
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestProbeMatchesPrograms(t *testing.T) {
	e := newTestEngine(t, testConfig(t, ""), nil)
	if _, err := e.RenderFrame(); err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	for y := 0; y < e.Height; y += 4 {
		for x := 0; x < e.Width; x += 4 {
			p, ok := e.Probe(x, y)
			if !ok {
				continue
			}
			seen[p.Surface] = true
			switch p.Surface {
			case "terrain":
				if p.Terrain == nil || p.Terrain.Color != p.Color {
					t.Fatalf("pixel (%d,%d): terrain trace %v disagrees with colour %v", x, y, p.Terrain, p.Color)
				}
			case "water":
				if p.Water == nil || p.Water.Color != p.Color {
					t.Fatalf("pixel (%d,%d): water trace %v disagrees with colour %v", x, y, p.Water, p.Color)
				}
			case "sky":
				if p.Color[3] != 1 {
					t.Errorf("sky alpha = %v", p.Color[3])
				}
			default:
				t.Fatalf("pixel (%d,%d): unknown surface %q", x, y, p.Surface)
			}
		}
	}
	if len(seen) == 0 {
		t.Fatal("no pixel hit a surface")
	}

	e.SetVariant(shading.VariantFlatLit, shading.VariantFlatLit)
	for y := 0; y < e.Height; y += 4 {
		for x := 0; x < e.Width; x += 4 {
			if p, ok := e.Probe(x, y); ok && (p.Terrain != nil || p.Water != nil) {
				t.Fatalf("flat-lit probe carries a procedural trace at (%d,%d)", x, y)
			}
		}
	}
}
