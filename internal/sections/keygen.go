package sections

import (
	"fmt"
	"sync"
	"time"
)

// KeyGenerator issues "<type>_<millis>" keys. The millisecond part is
// strictly increasing, so two keys are never equal even when requested in
// the same millisecond or after the clock steps back.
type KeyGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewKeyGenerator(now func() time.Time) *KeyGenerator {
	if now == nil {
		now = time.Now
	}
	return &KeyGenerator{now: now}
}

func (g *KeyGenerator) Next(kind string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("%s_%d", kind, ms)
}

var defaultKeys = NewKeyGenerator(nil)
