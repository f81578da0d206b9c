package renderer

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// PixelPool distributes pixels across a fixed set of workers. Each worker
// claims the next pixel index from a shared atomic counter and writes only
// the pixel it claimed, so no pixel is written twice.
type PixelPool struct {
	renderer   *Renderer
	out        ImageWriter
	progress   *Progress
	numWorkers int
	next       atomic.Int64
	total      int64
}

// NewPixelPool creates a pool with the specified number of workers (0 = CPU count)
func NewPixelPool(renderer *Renderer, out ImageWriter, progress *Progress, numWorkers int) *PixelPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	total := int64(renderer.camera.ResolutionX() * renderer.camera.ResolutionY())
	return &PixelPool{
		renderer:   renderer,
		out:        out,
		progress:   progress,
		numWorkers: numWorkers,
		total:      total,
	}
}

// NumWorkers returns the number of workers in the pool
func (p *PixelPool) NumWorkers() int {
	return p.numWorkers
}

// Run starts all workers and waits until every pixel is claimed or ctx is done
func (p *PixelPool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < p.numWorkers; i++ {
		wg.Add(1)
		go p.work(ctx, &wg)
	}
	wg.Wait()
	return ctx.Err()
}

// work is the main worker loop
func (p *PixelPool) work(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	width := int64(p.renderer.camera.ResolutionX())
	for ctx.Err() == nil {
		index := p.next.Add(1) - 1
		if index >= p.total {
			return
		}
		x, y := int(index%width), int(index/width)
		p.out.WritePixel(x, y, p.renderer.renderPixel(x, y))
		p.progress.Increment()
	}
}
