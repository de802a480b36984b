// File: pool/page.go
// Package pool implements the handshake memory pools: bump arenas backed by
// whole pages, per-CPU scratch pools, and the profile registry.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "os"

// pageSize is the platform page size; pool backing regions are always a
// whole multiple of it and arrive zeroed from the page allocator.
var pageSize = os.Getpagesize()

// PageSize reports the page granularity pool capacities are rounded to.
func PageSize() int { return pageSize }

// pagesFor rounds a byte requirement up to a page multiple. Zero and
// negative requirements still reserve one page.
func pagesFor(n int) int {
	if n <= 0 {
		return pageSize
	}
	return (n + pageSize - 1) / pageSize * pageSize
}
