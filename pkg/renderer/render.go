package renderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Renderer traces every pixel of a camera through a tracer into an image writer
type Renderer struct {
	tracer *Tracer
	camera *Camera
	config RenderConfig
	logger core.Logger
	seed   uint64 // Base seed for per-pixel jitter
}

// NewRenderer creates a renderer. A nil logger discards progress output.
func NewRenderer(tracer *Tracer, camera *Camera, config RenderConfig, logger core.Logger) (*Renderer, error) {
	if tracer == nil || camera == nil {
		return nil, fmt.Errorf("%w: renderer needs a tracer and a camera", core.ErrInvalidConfig)
	}
	if config.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must be non-negative, got %d", core.ErrInvalidConfig, config.Workers)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{tracer: tracer, camera: camera, config: config, logger: logger, seed: 42}, nil
}

// Render writes one color per pixel to out. Cancellation is checked between
// pixels; a cancelled render returns the context error and a partial image.
func (r *Renderer) Render(ctx context.Context, out ImageWriter) (RenderStats, error) {
	width, height := r.camera.ResolutionX(), r.camera.ResolutionY()
	progress := NewProgress(width*height, r.config.ProgressStep, r.logger)
	raysBefore := r.tracer.RaysTraced()
	start := time.Now()

	stats := RenderStats{Mode: r.config.Mode, TotalPixels: width * height}

	var err error
	switch r.config.Mode {
	case RenderSequential:
		stats.Workers = 1
		err = r.renderSequential(ctx, out, progress)
	case RenderPool:
		pool := NewPixelPool(r, out, progress, r.config.Workers)
		stats.Workers = pool.NumWorkers()
		err = pool.Run(ctx)
	case RenderScanline:
		stats.Workers = height
		err = r.renderScanlines(ctx, out, progress)
	default:
		return RenderStats{}, fmt.Errorf("%w: unknown render mode %v", core.ErrInvalidConfig, r.config.Mode)
	}

	stats.Duration = time.Since(start)
	stats.PrimaryRays = stats.TotalPixels * r.camera.samples * r.camera.samples
	stats.RaysTraced = r.tracer.RaysTraced() - raysBefore
	if err != nil {
		return stats, err
	}
	r.logger.Printf("Render complete: %v\n", stats)
	return stats, nil
}

// renderPixel averages the camera rays of one pixel. The jitter stream is
// keyed by the pixel index so the result does not depend on scheduling.
func (r *Renderer) renderPixel(x, y int) core.Color {
	index := uint64(y*r.camera.ResolutionX() + x)
	sampler := core.NewSeededSampler(r.seed, index)

	rays := r.camera.Rays(x, y, sampler)
	sum := core.Black
	for _, ray := range rays {
		sum = sum.Add(r.tracer.TraceRay(ray, sampler))
	}
	return sum.Reduce(len(rays))
}

func (r *Renderer) renderSequential(ctx context.Context, out ImageWriter, progress *Progress) error {
	for y := 0; y < r.camera.ResolutionY(); y++ {
		for x := 0; x < r.camera.ResolutionX(); x++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			out.WritePixel(x, y, r.renderPixel(x, y))
			progress.Increment()
		}
	}
	return nil
}

// renderScanlines starts one goroutine per row
func (r *Renderer) renderScanlines(ctx context.Context, out ImageWriter, progress *Progress) error {
	var wg sync.WaitGroup
	for y := 0; y < r.camera.ResolutionY(); y++ {
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			for x := 0; x < r.camera.ResolutionX(); x++ {
				if ctx.Err() != nil {
					return
				}
				out.WritePixel(x, y, r.renderPixel(x, y))
				progress.Increment()
			}
		}(y)
	}
	wg.Wait()
	return ctx.Err()
}
