package sections_test

import (
	"sync"
	"testing"
	"time"

	"github.com/Kyz7/landing/internal/sections"
	"github.com/stretchr/testify/assert"
)

func TestKeyGenerator(t *testing.T) {
	t.Run("Success - strictly increasing under a frozen clock", func(t *testing.T) {
		keys := sections.NewKeyGenerator(frozenClock())
		assert.Equal(t, "slider_1700000000000", keys.Next("slider"))
		assert.Equal(t, "textBlock_1700000000001", keys.Next("textBlock"))
	})

	t.Run("Success - clock stepping back", func(t *testing.T) {
		now := time.UnixMilli(5000)
		keys := sections.NewKeyGenerator(func() time.Time { return now })
		assert.Equal(t, "slider_5000", keys.Next("slider"))
		now = time.UnixMilli(1000)
		assert.Equal(t, "slider_5001", keys.Next("slider"))
	})

	t.Run("Success - unique across goroutines", func(t *testing.T) {
		keys := sections.NewKeyGenerator(nil)
		var mu sync.Mutex
		seen := map[string]bool{}
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					key := keys.Next("slider")
					mu.Lock()
					seen[key] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Len(t, seen, 800)
	})
}
