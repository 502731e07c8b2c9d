package renderer

import (
	"context"
	"sync"
	"time"

	"github.com/Kyz7/landing/internal/sections"
)

// Carousel tracks the visible slide of a slider section.
type Carousel struct {
	mu       sync.Mutex
	count    int
	current  int
	autoplay bool
	interval time.Duration
}

// NewCarousel builds a carousel over count slides. intervalMs goes through
// the same normalization as a stored slider section.
func NewCarousel(count int, autoplay bool, intervalMs int) *Carousel {
	return &Carousel{
		count:    count,
		autoplay: autoplay,
		interval: time.Duration(sections.NormalizeInterval(intervalMs)) * time.Millisecond,
	}
}

func (c *Carousel) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Carousel) Count() int { return c.count }

func (c *Carousel) Interval() time.Duration { return c.interval }

// Tick is one autoplay firing: it advances with wraparound and returns the
// new index. Without autoplay it leaves the position alone.
func (c *Carousel) Tick() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.autoplay && c.count > 0 {
		c.current = (c.current + 1) % c.count
	}
	return c.current
}

// GoTo jumps to slide i, as an indicator click would. Out of range indexes
// are ignored.
func (c *Carousel) GoTo(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= c.count {
		return false
	}
	c.current = i
	return true
}

// Run ticks at the configured interval until ctx ends.
func (c *Carousel) Run(ctx context.Context, onAdvance func(int)) error {
	if !c.autoplay || c.count < 2 {
		return nil
	}
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	return c.RunWith(ctx, ticker.C, onAdvance)
}

// RunWith advances once per value received on ticks.
func (c *Carousel) RunWith(ctx context.Context, ticks <-chan time.Time, onAdvance func(int)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			current := c.Tick()
			if onAdvance != nil {
				onAdvance(current)
			}
		}
	}
}
