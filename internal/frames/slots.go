// Package frames bounds the number of frames the CPU may queue ahead of the GPU.
package frames

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultInFlight is the number of frames that may be queued at once.
const DefaultInFlight = 3

// Pool hands out a fixed number of frame slots.
type Pool struct {
	sem  *semaphore.Weighted
	size int

	mu       sync.Mutex
	free     []int
	inFlight int
}

// Slot is one acquired frame. Release it once the GPU is done with the frame.
type Slot struct {
	pool     *Pool
	index    int
	released atomic.Bool
}

// NewPool creates a pool with n slots.
func NewPool(n int) *Pool {
	if n < 1 {
		panic(fmt.Sprintf("frames: invalid pool size %d", n))
	}
	free := make([]int, n)
	for i := range free {
		free[i] = n - 1 - i // pop from the end so slot 0 goes first
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(n)),
		size: n,
		free: free,
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (*Slot, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquiring frame slot: %w", err)
	}
	return p.take(), nil
}

// TryAcquire returns a slot without blocking, or nil if all are in use.
func (p *Pool) TryAcquire() *Slot {
	if !p.sem.TryAcquire(1) {
		return nil
	}
	return p.take()
}

func (p *Pool) take() *Slot {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.inFlight++
	return &Slot{pool: p, index: idx}
}

// Size returns the number of slots.
func (p *Pool) Size() int { return p.size }

// InFlight returns the number of slots currently held.
func (p *Pool) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Index returns the slot's position in [0, Size).
func (s *Slot) Index() int { return s.index }

// Release returns the slot to its pool. Calls after the first do nothing.
func (s *Slot) Release() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}

	p := s.pool
	p.mu.Lock()
	p.free = append(p.free, s.index)
	p.inFlight--
	p.mu.Unlock()

	p.sem.Release(1)
}
