// File: pool/mpipool.go
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// MpiPool is a bump allocator over a fixed page-multiple region. TLS
// handshakes run many public-key operations producing short-lived big-number
// values; per-value heap allocation is a throughput tax under concurrent
// handshake load, so values are carved from a pool and the whole pool is
// recycled at once. Individual values are never freed.
//
// Two pool kinds share this type: long-lived profile pools built once per
// key-exchange family, and per-CPU scratch pools reset after each handshake
// step.

package pool

import (
	"log"

	"github.com/momentics/hioload-tls/api"
)

// MpiPool is a single bump-allocation arena.
//
// Invariant: curr <= size <= cap(buf). curr is the offset of the next free
// byte; size is the high-water committed byte count, which survives Reset so
// profile copies and zeroize-on-free know the used extent.
type MpiPool struct {
	buf  []byte
	curr int
	size int

	allocs uint64
	resets uint64

	overflowLogged bool
}

// New acquires a zeroed page-multiple region of at least capacity bytes and
// initializes an empty pool over it. Page acquisition may block; never call
// this from a receive path.
func New(capacity int) (*MpiPool, error) {
	buf, err := pagesAlloc(pagesFor(capacity))
	if err != nil {
		log.Printf("[mpool] page allocation failed for capacity %d: %v", capacity, err)
		return nil, api.ErrOutOfMemory
	}
	p := &MpiPool{}
	p.Init(buf)
	return p, nil
}

// NewReserved creates a pool with its first n bytes already reserved, for
// callers embedding a context object at the pool head.
func NewReserved(n int) (*MpiPool, Mpi, error) {
	p, err := New(n)
	if err != nil {
		return nil, Mpi{}, err
	}
	m, err := p.Alloc(n)
	if err != nil {
		p.Free()
		return nil, Mpi{}, err
	}
	return p, m, nil
}

// Init rebinds the pool over the given backing storage with an empty state.
// The storage is not zeroed here; the page allocator already delivered it
// zeroed on first acquisition.
func (p *MpiPool) Init(buf []byte) {
	p.buf = buf
	p.curr = 0
	p.size = 0
}

// Alloc reserves n bytes and returns them as an Mpi value carrying its
// owning arena handle. Fails with ErrOutOfCapacity when the request does not
// fit the remaining region; the pool never grows and never compacts. Alloc
// itself never blocks and never allocates.
func (p *MpiPool) Alloc(n int) (Mpi, error) {
	if n < 0 {
		api.ContractViolation("negative pool allocation %d", n)
	}
	if n > len(p.buf)-p.curr {
		if !p.overflowLogged {
			p.overflowLogged = true
			log.Printf("[mpool] capacity exceeded: want %d, used %d of %d"+
				" (statically mis-sized profile?)", n, p.curr, len(p.buf))
		}
		return Mpi{}, api.ErrOutOfCapacity
	}
	off := p.curr
	p.curr += n
	if p.curr > p.size {
		p.size = p.curr
	}
	p.allocs++
	return Mpi{pool: p, off: off, n: n}, nil
}

// Reset zeroes the used region and rewinds the cursor, recycling the pool
// for the next handshake step. Cryptographic intermediates must not leak
// into the next user, hence the explicit wipe. The committed high-water mark
// is kept. Only scratch pools reset; profile pools never do.
func (p *MpiPool) Reset() {
	wipe(p.buf[:p.curr])
	p.curr = 0
	p.resets++
}

// Free wipes the whole committed region and returns the backing pages to the
// allocator. The pool must not be used afterwards.
func (p *MpiPool) Free() {
	if p.buf == nil {
		return
	}
	wipe(p.buf[:p.size])
	pagesFree(p.buf)
	p.buf = nil
	p.curr = 0
	p.size = 0
}

// Cap returns the fixed capacity of the backing region.
func (p *MpiPool) Cap() int { return len(p.buf) }

// Cursor returns the offset of the next free byte.
func (p *MpiPool) Cursor() int { return p.curr }

// Committed returns the high-water committed byte count.
func (p *MpiPool) Committed() int { return p.size }

// Stats reports allocation counters for observability probes.
func (p *MpiPool) Stats() PoolStats {
	return PoolStats{
		Cap:       len(p.buf),
		Cursor:    p.curr,
		Committed: p.size,
		Allocs:    p.allocs,
		Resets:    p.resets,
	}
}

// PoolStats is a point-in-time snapshot of one pool.
type PoolStats struct {
	Cap       int
	Cursor    int
	Committed int
	Allocs    uint64
	Resets    uint64
}

// Mpi is one big-number value carved from a pool. It carries an explicit
// arena handle instead of inferring ownership from its address, keeping the
// zero-pointer-chasing property of the arena design without address-range
// tricks.
type Mpi struct {
	pool *MpiPool
	off  int
	n    int
}

// Bytes returns the value's storage window inside its arena.
func (m Mpi) Bytes() []byte { return m.pool.buf[m.off : m.off+m.n] }

// Pool returns the arena this value was carved from.
func (m Mpi) Pool() *MpiPool { return m.pool }

// Len returns the value size in bytes.
func (m Mpi) Len() int { return m.n }

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
