// Package mission tracks the running session: when it started and the capture
// frame the registry is on.
package mission

import (
	"sync"
	"time"
)

// Context holds the current session state
type Context struct {
	mu    sync.RWMutex
	start time.Time
	frame uint
}

// NewContext creates a Context starting now at frame zero
func NewContext() *Context {
	return &Context{start: time.Now()}
}

// StartTime returns when the session started
func (mc *Context) StartTime() time.Time {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.start
}

// Frame returns the current capture frame
func (mc *Context) Frame() uint {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.frame
}

// Advance moves to the next capture frame and returns it
func (mc *Context) Advance() uint {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.frame++
	return mc.frame
}

// Reset starts a new session
func (mc *Context) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.start = time.Now()
	mc.frame = 0
}
