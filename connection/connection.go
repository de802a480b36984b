// File: connection/connection.go
// Package connection manages the per-socket connection lifecycle: creation
// on the socket layer's establish callback, typed teardown on close, and
// bridging of inbound bytes to the protocol dispatcher.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A connection object exists if and only if the underlying socket completed
// its connection handshake. Before that the socket's user-data slot holds
// only an api.SockProto placeholder recorded by the socket layer. Each
// connection lives on a single core, so its fields need no synchronization.

package connection

import (
	"log"

	"github.com/momentics/hioload-tls/api"
)

// Conn is the per-socket connection state.
type Conn struct {
	// Proto carries the combined direction|family type tag copied from
	// the placeholder when the connection was established.
	Proto api.SockProto

	// Peer is a non-owning reference to the client or server object
	// owning the opposite socket; used only to route outbound sends.
	Peer api.Peer

	// msg accumulates not-yet-fully-parsed inbound data. Created lazily
	// on the first received fragment, dropped when the parser consumes a
	// complete message.
	msg *api.Msg

	// sockDestruct is the previously installed socket teardown callback.
	// The connection's own teardown must call through it so socket-layer
	// invariants hold.
	sockDestruct func()
}

// Type returns the combined direction|family tag.
func (c *Conn) Type() api.ConnType { return c.Proto.Type }

// Msg returns the pending message, nil if none is in progress.
func (c *Conn) Msg() *api.Msg { return c.msg }

var dispatcher api.Dispatcher

// SetDispatcher installs the protocol FSM dispatcher. Startup wiring only.
func SetDispatcher(d api.Dispatcher) {
	if d == nil {
		api.ContractViolation("nil dispatcher")
	}
	dispatcher = d
}

// New transitions a socket from placeholder to established: it validates the
// direction, merges it into the placeholder's protocol tag, allocates a
// connection from the per-CPU cache, installs it as the socket's user
// context, chains the previous teardown callback, and runs the protocol
// family's Init hook.
//
// dir must be exactly api.ConnClnt or api.ConnSrv; anything else is a
// contract violation by the caller. ErrOutOfMemory propagates to the caller,
// which must abort the accept/connect.
func New(sk api.Socket, dir api.ConnType, destructor func()) (*Conn, error) {
	proto, ok := sk.UserData().(*api.SockProto)
	if !ok || proto == nil {
		api.ContractViolation("socket carries no protocol placeholder")
	}
	if dir != api.ConnClnt && dir != api.ConnSrv {
		api.ContractViolation("invalid connection direction %#x", uint32(dir))
	}

	proto.Type |= dir

	conn, err := allocConn()
	if err != nil {
		return nil, err
	}
	conn.Proto = *proto
	sk.SetUserData(conn)

	conn.sockDestruct = sk.Destructor()
	sk.SetDestructor(destructor)

	if err := hooksFor(conn.Proto.Type).Init(conn); err != nil {
		log.Printf("[conn] %v init hook failed: %v", conn.Proto.Type.Family(), err)
		// Unwind everything the establish did: the socket layer's own
		// destructor must stay reachable and the socket returns to its
		// pre-handshake placeholder state.
		sk.SetDestructor(conn.sockDestruct)
		proto.Type &^= dir
		sk.SetUserData(proto)
		freeConn(conn)
		return nil, err
	}
	return conn, nil
}

// Close tears an established connection down: protocol Destruct hook,
// release to the cache, detach from the socket. A socket that never reached
// the established state still holds its placeholder (or nothing), and Close
// is a no-op for it. Idempotent: a second call on an already-detached socket
// does nothing.
func Close(sk api.Socket) {
	conn, ok := sk.UserData().(*Conn)
	if !ok || conn == nil || !conn.Proto.Type.Established() {
		return
	}
	hooksFor(conn.Proto.Type).Destruct(conn)
	freeConn(conn)
	sk.SetUserData(nil)
}

// Recv forwards received bytes to the protocol dispatcher and returns its
// status verbatim: 0 fully handled, negative values are dispatcher-defined
// failure kinds the socket layer acts on.
func Recv(sk api.Socket, data []byte) int {
	if dispatcher == nil {
		api.ContractViolation("no dispatcher installed")
	}
	return dispatcher.Dispatch(sk.UserData(), data)
}

// SockDestruct runs the teardown callback that was installed on the socket
// before this connection took it over. Connection teardown hooks must invoke
// it exactly once.
func (c *Conn) SockDestruct() {
	if c.sockDestruct != nil {
		c.sockDestruct()
	}
}

// PutToMsg appends an inbound fragment to the pending message, lazily
// allocating the message through the protocol family's AllocMsg hook on the
// first fragment. Fails with ErrOutOfMemory when the hook cannot allocate.
func (c *Conn) PutToMsg(chunk []byte) error {
	if c.msg == nil {
		m := hooksFor(c.Proto.Type).AllocMsg(c)
		if m == nil {
			return api.ErrOutOfMemory
		}
		c.msg = m
	}
	c.msg.Chain.Append(chunk)
	return nil
}

// Postpone appends a fragment to an already-existing pending message. The
// dispatcher uses it once a message is known to be in progress; calling it
// with no pending message is a caller bug.
func (c *Conn) Postpone(chunk []byte) {
	if c.msg == nil {
		api.ContractViolation("postpone with no pending message")
	}
	c.msg.Chain.Append(chunk)
}

// MsgConsumed detaches and returns the completed pending message; the next
// fragment starts a fresh one.
func (c *Conn) MsgConsumed() *api.Msg {
	m := c.msg
	c.msg = nil
	return m
}

// SendToCli routes a complete message's buffer chain to the client peer's
// socket unchanged. Pure routing; buffering and backpressure belong to the
// socket layer.
func (c *Conn) SendToCli(msg *api.Msg) error {
	return c.Peer.Sock().Send(&msg.Chain)
}

// SendToSrv routes a complete message's buffer chain to the backend server
// peer's socket unchanged.
func (c *Conn) SendToSrv(msg *api.Msg) error {
	return c.Peer.Sock().Send(&msg.Chain)
}
