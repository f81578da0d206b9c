package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// recordingWriter counts writes per pixel and keeps the last color
type recordingWriter struct {
	*Image
	writes []atomic.Int32
}

func newRecordingWriter(width, height int) *recordingWriter {
	return &recordingWriter{Image: NewImage(width, height), writes: make([]atomic.Int32, width*height)}
}

func (w *recordingWriter) WritePixel(x, y int, c core.Color) {
	w.writes[y*w.Width()+x].Add(1)
	w.Image.WritePixel(x, y, c)
}

// bufferLogger collects log lines
type bufferLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *bufferLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// renderScene is a small lit scene with reflection, transparency and a soft shadow
func renderScene(t *testing.T) *testScene {
	t.Helper()
	light, err := lights.NewPointLight(core.NewColor(255, 255, 255), core.NewPoint(50, 100, 200), lights.Attenuation{KC: 1, KL: 0.0001, KQ: 0.00001}, 10)
	if err != nil {
		t.Fatalf("NewPointLight: %v", err)
	}
	return &testScene{
		root: geometry.NewContainer(geometry.AccelerationHierarchy,
			sphereOf(t, core.NewPoint(0, 0, -100), 30, material.NewPlastic(0.6, 0.3, 30)),
			sphereOf(t, core.NewPoint(40, 10, -80), 15, material.NewGlass(0.6)),
			sphereOf(t, core.NewPoint(-40, 0, -90), 20, material.NewMirror(0.8)),
			geometry.NewPlane(core.NewPoint(0, -30, 0), core.AxisY, geometry.NewSurface(material.NewMatte(0.8), core.Black)),
		),
		lights:     []lights.Light{light, lights.NewDirectional(core.NewColor(50, 50, 50), core.MustVector(1, -1, -1))},
		ambient:    lights.NewAmbient(core.NewColor(20, 20, 20), core.Uniform(1)),
		background: core.NewColor(10, 20, 40),
	}
}

func newTestRenderer(t *testing.T, mode RenderMode, samples int, logger core.Logger) *Renderer {
	t.Helper()
	config := DefaultTracerConfig()
	config.ShadowSamples = 3
	tracer := newTracer(t, renderScene(t), config)

	cameraConfig := CameraConfig{
		Position:    core.NewPoint(0, 0, 100),
		Target:      core.NewPoint(0, 0, -100),
		Up:          core.AxisY,
		Width:       120,
		Height:      90,
		Distance:    100,
		ResolutionX: 16,
		ResolutionY: 12,
		Samples:     samples,
	}
	camera, err := NewCamera(cameraConfig)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	renderConfig := RenderConfig{Mode: mode, Workers: 4, ProgressStep: 25}
	r, err := NewRenderer(tracer, camera, renderConfig, logger)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRender_EveryPixelOnce(t *testing.T) {
	for _, mode := range []RenderMode{RenderSequential, RenderPool, RenderScanline} {
		t.Run(mode.String(), func(t *testing.T) {
			out := newRecordingWriter(16, 12)
			stats, err := newTestRenderer(t, mode, 1, nil).Render(context.Background(), out)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for i := range out.writes {
				if n := out.writes[i].Load(); n != 1 {
					t.Fatalf("pixel %d written %d times", i, n)
				}
			}
			if stats.TotalPixels != 16*12 || stats.PrimaryRays != 16*12 {
				t.Errorf("unexpected stats %+v", stats)
			}
			if stats.RaysTraced < int64(stats.PrimaryRays) {
				t.Errorf("every primary ray should be traced, got %d", stats.RaysTraced)
			}
		})
	}
}

func TestRender_ModesProduceIdenticalImages(t *testing.T) {
	var reference *Image
	for _, mode := range []RenderMode{RenderSequential, RenderPool, RenderScanline} {
		out := NewImage(16, 12)
		if _, err := newTestRenderer(t, mode, 2, nil).Render(context.Background(), out); err != nil {
			t.Fatalf("%v: %v", mode, err)
		}
		if reference == nil {
			reference = out
			continue
		}
		for y := 0; y < 12; y++ {
			for x := 0; x < 16; x++ {
				if out.At(x, y) != reference.At(x, y) {
					t.Fatalf("%v: pixel (%d,%d) differs: %v vs %v", mode, x, y, out.At(x, y), reference.At(x, y))
				}
			}
		}
	}

	// The scene is not uniform
	if reference.At(8, 6) == reference.At(0, 0) {
		t.Error("expected the center sphere to differ from the corner")
	}
}

func TestRender_Progress(t *testing.T) {
	logger := &bufferLogger{}
	if _, err := newTestRenderer(t, RenderPool, 1, logger).Render(context.Background(), NewImage(16, 12)); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var progress []string
	for _, line := range logger.lines {
		if strings.HasPrefix(line, "Rendered ") {
			progress = append(progress, line)
		}
	}
	if len(progress) != 4 {
		t.Fatalf("expected 4 progress lines at 25%% steps, got %q", progress)
	}
	if !strings.HasPrefix(progress[3], "Rendered 100%") {
		t.Errorf("last progress line should be 100%%, got %q", progress[3])
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, mode := range []RenderMode{RenderSequential, RenderPool, RenderScanline} {
		out := newRecordingWriter(16, 12)
		_, err := newTestRenderer(t, mode, 1, nil).Render(ctx, out)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%v: expected context.Canceled, got %v", mode, err)
		}
	}
}

func TestImage_EncodePNG(t *testing.T) {
	img := NewImage(2, 1)
	img.WritePixel(0, 0, core.NewColor(300, 127.6, 0))
	img.WritePixel(1, 0, core.NewColor(10, 20, 30))

	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	r, g, b, _ := decoded.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 128 || b>>8 != 0 {
		t.Errorf("expected clamped (255,128,0), got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	path := t.TempDir() + "/out.png"
	if err := img.SavePNG(path); err != nil {
		t.Errorf("SavePNG: %v", err)
	}
}

func TestParseRenderMode(t *testing.T) {
	for name, expected := range map[string]RenderMode{"pool": RenderPool, "sequential": RenderSequential, "Scanline": RenderScanline} {
		got, err := ParseRenderMode(name)
		if err != nil || got != expected {
			t.Errorf("%q: expected %v, got %v (%v)", name, expected, got, err)
		}
	}
	if _, err := ParseRenderMode("gpu"); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestProgress_StepsLoggedOnce(t *testing.T) {
	logger := &bufferLogger{}
	p := NewProgress(1000, 10, logger)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 125; i++ {
				p.Increment()
			}
		}()
	}
	wg.Wait()

	if p.Done() != 1000 {
		t.Errorf("expected 1000 pixels, got %d", p.Done())
	}
	if len(logger.lines) != 10 {
		t.Errorf("expected 10 progress lines, got %d: %q", len(logger.lines), logger.lines)
	}
}
