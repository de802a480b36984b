// File: internal/concurrency/cpu.go
// Package concurrency provides CPU identification for per-CPU structures.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-CPU pools and caches are indexed by the executing core. Event-loop
// threads are expected to be pinned, so the index is stable across one
// connection's or one handshake step's lifetime.

package concurrency

import "runtime"

// MaxCPUs returns the number of per-CPU slots to provision.
func MaxCPUs() int {
	return runtime.NumCPU()
}

// CurrentCPU returns the slot index of the executing core, always within
// [0, MaxCPUs): raw CPU ids above the slot count wrap around.
func CurrentCPU() int {
	n := MaxCPUs()
	if n <= 1 {
		return 0
	}
	return platformCurrentCPU() % n
}
