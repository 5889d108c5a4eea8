package sandbox

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrPoolClosed = errors.New("sandbox pool is closed")
	ErrTimeout    = errors.New("sandbox acquisition timeout")
)

// Pool manages a set of reusable runtimes. Discovery runs on every accepted
// project, so VMs are pre-created and recycled rather than built per call.
type Pool struct {
	config   Config
	runtimes chan *Runtime
	size     int
	mu       sync.RWMutex
	closed   bool
}

// NewPool creates a runtime pool.
func NewPool(config Config, size int) (*Pool, error) {
	if size <= 0 {
		size = 2
	}

	pool := &Pool{
		config:   config,
		runtimes: make(chan *Runtime, size),
		size:     size,
	}

	for i := 0; i < size; i++ {
		rt, err := New(config)
		if err != nil {
			pool.Close()
			return nil, err
		}
		pool.runtimes <- rt
	}

	return pool, nil
}

// Acquire gets a runtime from the pool with timeout.
func (p *Pool) Acquire(ctx context.Context) (*Runtime, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	select {
	case rt := <-p.runtimes:
		return rt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, ErrTimeout
	}
}

// Release returns a runtime to the pool after resetting it.
func (p *Pool) Release(rt *Runtime) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return rt.Close()
	}

	if err := rt.Reset(); err != nil {
		rt.Close()
		if fresh, err := New(p.config); err == nil {
			p.runtimes <- fresh
		}
		return err
	}

	select {
	case p.runtimes <- rt:
		return nil
	default:
		return rt.Close()
	}
}

// Execute runs script using a pooled runtime.
func (p *Pool) Execute(ctx context.Context, script string) (*Result, error) {
	rt, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(rt)

	return rt.Execute(ctx, script)
}

// Close closes the pool and all runtimes.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	close(p.runtimes)

	for rt := range p.runtimes {
		rt.Close()
	}

	return nil
}

// Stats returns pool statistics.
func (p *Pool) Stats() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]any{
		"size":      p.size,
		"available": len(p.runtimes),
		"in_use":    p.size - len(p.runtimes),
		"closed":    p.closed,
	}
}
