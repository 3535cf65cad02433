package device

import (
	"fmt"
	"sync"
)

// Pool owns the physical storage behind intermediate buffers and recycles
// freed blocks across all groups it serves. Safe for concurrent use by
// multiple groups.
type Pool struct {
	mu   sync.Mutex
	free [][]byte

	// Statistics
	totalAllocated uint64
	poolHits       uint64
	poolMisses     uint64
}

// NewPool creates an empty buffer pool.
func NewPool() *Pool {
	return &Pool{}
}

// allocate returns a block of at least size bytes, reusing a freed block
// when one is large enough.
func (p *Pool) allocate(size int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalAllocated++

	for i, block := range p.free {
		if cap(block) >= size {
			p.free = append(p.free[:i], p.free[i+1:]...)
			p.poolHits++
			block = block[:size]
			for j := range block {
				block[j] = 0
			}
			return block
		}
	}

	p.poolMisses++
	return make([]byte, size)
}

// recycle returns a block to the pool for reuse.
func (p *Pool) recycle(block []byte) {
	if block == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, block)
}

// Stats returns pool usage counters.
func (p *Pool) Stats() (allocated, hits, misses uint64, freeCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalAllocated, p.poolHits, p.poolMisses, len(p.free)
}

// Group tracks the intermediate buffers of one pipeline and the claim window
// a run holds over them. Registration and allocation happen once at
// configuration time; ClaimAll/ReleaseAll bracket each run.
//
// The claim window is a logical exclusive hold, not a completion barrier:
// releasing after the last submission only ends this group's right to the
// storage, and cross-pipeline reuse safety stays with the pool and the
// device queue.
type Group struct {
	pool *Pool

	mu      sync.Mutex
	buffers []*Buffer
	claimed bool
}

// NewGroup creates a group drawing storage from the given pool.
func NewGroup(pool *Pool) *Group {
	return &Group{pool: pool}
}

// Register adds a buffer to the group's claim window. Must precede Allocate.
func (g *Group) Register(b *Buffer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.buffers = append(g.buffers, b)
}

// Allocate eagerly binds pool storage to a buffer. The buffer's descriptor
// and border padding are fixed from this point on.
func (g *Group) Allocate(b *Buffer) {
	if b.Allocated() {
		return
	}
	b.bind(g.pool.allocate(b.AllocSize()))
}

// ClaimAll opens the exclusive-use window over every registered buffer.
// Claiming an already claimed group is a programmer error.
func (g *Group) ClaimAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.claimed {
		panic("device: group already claimed")
	}
	for _, b := range g.buffers {
		if !b.Allocated() {
			panic(fmt.Sprintf("device: claim of unallocated buffer %s", b.Descriptor()))
		}
	}
	g.claimed = true
}

// ReleaseAll closes the exclusive-use window.
func (g *Group) ReleaseAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.claimed {
		panic("device: release without claim")
	}
	g.claimed = false
}

// Claimed reports whether the group's window is currently open.
func (g *Group) Claimed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.claimed
}

// FreeAll recycles the storage of every registered buffer back to the pool
// and empties the group. Called when the owning pipeline is destroyed or
// reconfigured.
func (g *Group) FreeAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.claimed {
		panic("device: free while claimed")
	}
	for _, b := range g.buffers {
		if b.Allocated() {
			g.pool.recycle(b.unbind())
		}
	}
	g.buffers = nil
}

// Size returns the number of registered buffers.
func (g *Group) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.buffers)
}
