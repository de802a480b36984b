//go:build !linux
// +build !linux

// File: internal/concurrency/cpu_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback for platforms without a cheap current-CPU query. Slot 0 serves
// all cores; correctness is kept, per-CPU locality is not.

package concurrency

func platformCurrentCPU() int { return 0 }
