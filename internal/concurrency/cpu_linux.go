//go:build linux
// +build linux

// File: internal/concurrency/cpu_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// platformCurrentCPU queries the kernel for the executing core id via the
// getcpu syscall. The vDSO fast path makes this cheap enough for per-event
// slot selection.
func platformCurrentCPU() int {
	var cpu, node uint32
	_, _, errno := unix.RawSyscall(unix.SYS_GETCPU,
		uintptr(unsafe.Pointer(&cpu)),
		uintptr(unsafe.Pointer(&node)), 0)
	if errno != 0 {
		return 0
	}
	return int(cpu)
}
