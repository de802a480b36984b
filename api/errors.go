// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types shared by the pool and connection subsystems.

package api

import "fmt"

// Common errors used across the library.
//
// Per-connection failures (ErrOutOfMemory on message or connection
// allocation) are returned up to the socket layer as status values and never
// terminate the process. ErrOutOfCapacity signals a mis-sized memory profile
// and is logged loudly by the pool subsystem before propagation.
var (
	ErrOutOfMemory        = fmt.Errorf("out of memory")
	ErrOutOfCapacity      = fmt.Errorf("pool capacity exceeded")
	ErrUnsupportedKeyType = fmt.Errorf("unsupported public key type")
	ErrPoolClosed         = fmt.Errorf("pool subsystem is not initialized")
)

// ContractViolation aborts on a programming error: invalid connection
// direction, double hook registration, registry index out of range. These
// only occur at startup wiring, never under runtime load, so a hard panic is
// preferable to a silent overwrite.
func ContractViolation(format string, args ...any) {
	panic(fmt.Sprintf("contract violation: "+format, args...))
}
