// File: connection/cache.go
// Package connection
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-size per-CPU connection object cache. A connection is processed on
// one core for its whole life, so each slot's free list is an intentionally
// unsynchronized queue owned by that core; slots are only padded against
// false sharing.

package connection

import (
	"github.com/eapache/queue"
	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-tls/api"
	"github.com/momentics/hioload-tls/internal/concurrency"
)

// DefaultCacheLimit caps live connections per CPU slot; exceeding it fails
// the accept/connect with ErrOutOfMemory instead of growing unboundedly.
const DefaultCacheLimit = 1 << 16

type connCache struct {
	free  *queue.Queue
	live  int
	limit int

	hits   uint64
	misses uint64

	_ cpu.CacheLinePad
}

var caches []connCache

// Init provisions the per-CPU connection caches. Idempotent; called once at
// process start.
func Init() error {
	return InitLimit(DefaultCacheLimit)
}

// InitLimit is Init with an explicit per-CPU live-connection cap.
func InitLimit(limit int) error {
	if caches != nil {
		return nil
	}
	if limit <= 0 {
		api.ContractViolation("non-positive connection cache limit %d", limit)
	}
	slots := make([]connCache, concurrency.MaxCPUs())
	for i := range slots {
		slots[i].free = queue.New()
		slots[i].limit = limit
	}
	caches = slots
	return nil
}

// Exit destroys the caches at process teardown.
func Exit() {
	caches = nil
}

func allocConn() (*Conn, error) {
	if caches == nil {
		return nil, api.ErrPoolClosed
	}
	c := &caches[concurrency.CurrentCPU()]
	if c.live >= c.limit {
		return nil, api.ErrOutOfMemory
	}
	c.live++
	if c.free.Length() > 0 {
		conn := c.free.Remove().(*Conn)
		*conn = Conn{}
		c.hits++
		return conn, nil
	}
	c.misses++
	return &Conn{}, nil
}

func freeConn(conn *Conn) {
	if caches == nil {
		return
	}
	c := &caches[concurrency.CurrentCPU()]
	*conn = Conn{}
	c.free.Add(conn)
	if c.live > 0 {
		c.live--
	}
}

// CacheStats is a point-in-time snapshot of one per-CPU cache slot.
type CacheStats struct {
	Live   int
	Free   int
	Hits   uint64
	Misses uint64
}

// Stats snapshots every per-CPU cache slot for debug probes.
func Stats() []CacheStats {
	out := make([]CacheStats, 0, len(caches))
	for i := range caches {
		c := &caches[i]
		out = append(out, CacheStats{
			Live:   c.live,
			Free:   c.free.Length(),
			Hits:   c.hits,
			Misses: c.misses,
		})
	}
	return out
}
