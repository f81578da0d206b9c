package renderer

import (
	"sync"
	"sync/atomic"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Progress counts finished pixels and logs every step percent.
// Increment may be called from any goroutine.
type Progress struct {
	total  int64
	step   int
	done   atomic.Int64
	mu     sync.Mutex
	next   atomic.Int64 // Next percentage to report; written under mu
	logger core.Logger
}

// NewProgress creates a progress reporter. A step of 0 disables logging.
func NewProgress(total, step int, logger core.Logger) *Progress {
	p := &Progress{total: int64(total), step: step, logger: logger}
	p.next.Store(int64(step))
	return p
}

// Increment records one finished pixel
func (p *Progress) Increment() {
	done := p.done.Add(1)
	if p.step <= 0 || p.total == 0 {
		return
	}

	percent := done * 100 / p.total
	if percent < p.next.Load() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for next := p.next.Load(); next <= percent && next <= 100; next = p.next.Load() {
		p.logger.Printf("Rendered %d%% (%d/%d pixels)\n", next, done, p.total)
		p.next.Store(next + int64(p.step))
	}
}

// Done returns the number of finished pixels
func (p *Progress) Done() int64 {
	return p.done.Load()
}
