package mission

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContext_Advance(t *testing.T) {
	ctx := NewContext()
	assert.Equal(t, uint(0), ctx.Frame())
	assert.WithinDuration(t, time.Now(), ctx.StartTime(), time.Second)

	assert.Equal(t, uint(1), ctx.Advance())
	assert.Equal(t, uint(2), ctx.Advance())
	assert.Equal(t, uint(2), ctx.Frame())

	ctx.Reset()
	assert.Equal(t, uint(0), ctx.Frame())
}

func TestContext_ThreadSafe(t *testing.T) {
	ctx := NewContext()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				ctx.Advance()
				_ = ctx.Frame()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint(800), ctx.Frame())
}
