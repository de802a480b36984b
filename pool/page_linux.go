//go:build linux
// +build linux

// File: pool/page_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux page acquisition via anonymous mmap: page-aligned, zero-filled,
// outside the Go heap so a released pool returns memory to the OS.

package pool

import "golang.org/x/sys/unix"

func pagesAlloc(n int) ([]byte, error) {
	b, err := unix.Mmap(-1, 0, n,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func pagesFree(b []byte) {
	if b != nil {
		_ = unix.Munmap(b)
	}
}
