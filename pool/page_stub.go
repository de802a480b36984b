//go:build !linux
// +build !linux

// File: pool/page_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable fallback: heap-backed regions. Go zeroes fresh allocations, so
// the "pages arrive zeroed" contract holds here too.

package pool

func pagesAlloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func pagesFree(b []byte) {}
