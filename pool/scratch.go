// File: pool/scratch.go
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-CPU scratch pools for stack-like temporary big-number values that live
// only through one call of the handshake state machine. Each pool is touched
// only by the core owning it (event-loop threads are pinned), so slots carry
// no locks, only cache-line padding against false sharing.

package pool

import (
	"log"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-tls/api"
	"github.com/momentics/hioload-tls/internal/concurrency"
)

type scratchSlot struct {
	mp *MpiPool
	_  cpu.CacheLinePad
}

var scratch []scratchSlot

// scratchOrder is the page multiple of one scratch pool.
const scratchOrder = 1

// MpoolInit provisions one scratch pool per CPU slot. Called once at process
// start from a blocking context; partial failure rolls back fully.
func MpoolInit() error {
	if scratch != nil {
		return nil
	}
	slots := make([]scratchSlot, concurrency.MaxCPUs())
	for i := range slots {
		mp, err := New(scratchOrder * pageSize)
		if err != nil {
			for j := 0; j < i; j++ {
				slots[j].mp.Free()
			}
			return err
		}
		slots[i].mp = mp
	}
	scratch = slots
	log.Printf("[mpool] %d per-cpu scratch pools of %d bytes", len(slots), scratchOrder*pageSize)
	return nil
}

// MpoolExit wipes and releases every scratch pool and all populated
// profiles. Process teardown only.
func MpoolExit() {
	for i := range scratch {
		if scratch[i].mp != nil {
			scratch[i].mp.Free()
		}
	}
	scratch = nil
	DefaultProfiles.free()
}

// ScratchPool returns the scratch pool of the executing core.
func ScratchPool() (*MpiPool, error) {
	if scratch == nil {
		return nil, api.ErrPoolClosed
	}
	return scratch[concurrency.CurrentCPU()].mp, nil
}

// CleanupCtx recycles the executing core's scratch pool at the end of a
// handshake step: used bytes are wiped, the cursor rewinds.
func CleanupCtx() {
	if scratch == nil {
		return
	}
	scratch[concurrency.CurrentCPU()].mp.Reset()
}

// ScratchStats snapshots every per-CPU scratch pool for debug probes.
func ScratchStats() []PoolStats {
	out := make([]PoolStats, 0, len(scratch))
	for i := range scratch {
		out = append(out, scratch[i].mp.Stats())
	}
	return out
}
