// File: connection/hooks.go
// Package connection
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Protocol modules plug into the connection lifecycle through a hook set
// registered once per protocol family at startup. The table is written only
// during startup wiring and read-only afterwards.

package connection

import "github.com/momentics/hioload-tls/api"

// Hooks is the capability set a protocol module exposes to the connection
// core: one implementation per protocol family.
type Hooks interface {
	// Init prepares protocol state on a freshly established connection.
	Init(c *Conn) error

	// Destruct tears protocol state down before the connection is freed.
	Destruct(c *Conn)

	// AllocMsg allocates an empty message to accumulate inbound fragments
	// into. Returns nil on allocation failure.
	AllocMsg(c *Conn) *api.Msg
}

var connHooks [api.NumProtoFamilies]Hooks

// RegisterHooks installs the hook set for a protocol family. Registering
// into an occupied slot or with an out-of-range family is a startup wiring
// bug and aborts.
func RegisterHooks(h Hooks, family api.ProtoFamily) {
	if family < 0 || family >= api.NumProtoFamilies {
		api.ContractViolation("protocol family %d out of range", family)
	}
	if h == nil {
		api.ContractViolation("nil hook set for family %v", family)
	}
	if connHooks[family] != nil {
		api.ContractViolation("hooks already registered for family %v", family)
	}
	connHooks[family] = h
}

func hooksFor(t api.ConnType) Hooks {
	h := connHooks[t.Family()]
	if h == nil {
		api.ContractViolation("no hooks registered for family %v", t.Family())
	}
	return h
}
