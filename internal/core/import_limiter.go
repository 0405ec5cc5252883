package core

// import_limiter.go bounds how many spreadsheet imports run at once.
//
// Each import holds its parsed workbook and every validated record in memory
// until the batch insert returns, so the process caps parallel imports with a
// semaphore. When all slots are taken, callers wait up to maxWait and then get
// ErrTooManyImports. WaitForDrain lets shutdown wait for in-flight imports.

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxConcurrentImports is the default limit for parallel imports.
const DefaultMaxConcurrentImports = 5

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// ImportLimiter controls concurrent import processing.
type ImportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu      sync.Mutex
	active  int
	drained chan struct{} // closed whenever active drops to zero
}

// NewImportLimiter creates a limiter that allows at most maxConcurrent simultaneous imports.
// Non-positive arguments fall back to the defaults.
func NewImportLimiter(maxConcurrent int, maxWait time.Duration) *ImportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	drained := make(chan struct{})
	close(drained)

	return &ImportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		drained: drained,
	}
}

// Acquire waits for an import slot.
// Returns ErrTooManyImports when maxWait expires, or the context error if ctx ends first.
// The caller MUST call Release when the import completes.
func (l *ImportLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.enter()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyImports
	}
}

// TryAcquire takes a slot without blocking.
func (l *ImportLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.enter()
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *ImportLimiter) Release() {
	l.mu.Lock()
	l.active--
	if l.active == 0 {
		close(l.drained)
	}
	l.mu.Unlock()

	<-l.slots
}

func (l *ImportLimiter) enter() {
	l.mu.Lock()
	if l.active == 0 {
		l.drained = make(chan struct{})
	}
	l.active++
	l.mu.Unlock()
}

// ActiveCount returns the number of imports currently holding a slot.
func (l *ImportLimiter) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// MaxConcurrent returns the slot count.
func (l *ImportLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *ImportLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no import is active or ctx ends.
func (l *ImportLimiter) WaitForDrain(ctx context.Context) error {
	for {
		l.mu.Lock()
		if l.active == 0 {
			l.mu.Unlock()
			return nil
		}
		drained := l.drained
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-drained:
		}
	}
}

// ImportLimiterStatus is a snapshot of the limiter state.
type ImportLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *ImportLimiter) Status() ImportLimiterStatus {
	return ImportLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: cap(l.slots),
	}
}
