// File: api/socket.go
// Author: momentics <momentics@gmail.com>
//
// Collaborator contracts of the connection core: the socket event layer
// below it and the protocol FSM dispatcher above it. Both are external;
// only their minimal surfaces appear here.

package api

// Socket abstracts one endpoint owned by the socket event layer. The layer
// delivers establish/close/receive events for it and owns all locking and
// lifetime rules; the connection core only reads and writes the opaque
// user-data slot and the teardown callback chain.
type Socket interface {
	// UserData returns the opaque per-socket context: a *SockProto
	// placeholder before the connection handshake completes, the
	// established connection object afterwards, nil once detached.
	UserData() any

	// SetUserData replaces the opaque per-socket context.
	SetUserData(v any)

	// Destructor returns the currently installed teardown callback.
	Destructor() func()

	// SetDestructor installs a teardown callback. An installer must save
	// the previous callback and invoke it from its own, so socket-layer
	// invariants are preserved.
	SetDestructor(fn func())

	// Send forwards a buffer chain to the peer unchanged. Backpressure is
	// the socket layer's business.
	Send(ch *Chain) error
}

// SockProto is the lightweight placeholder living in a socket's user-data
// slot before the connection handshake completes. The socket layer records
// the protocol family here at accept/connect time; the direction bit is ORed
// in when a full connection object replaces the placeholder.
type SockProto struct {
	Type ConnType
}

// Peer is the higher-level client or server object owning a socket. The
// connection core holds a non-owning reference and uses it only to route
// outbound sends.
type Peer interface {
	Sock() Socket
}

// Dispatcher is the generic FSM dispatcher that routes received bytes to a
// protocol parser. Status 0 means the data was fully handled; negative
// values are protocol-defined failure kinds propagated verbatim to the
// socket layer.
type Dispatcher interface {
	Dispatch(conn any, data []byte) int
}

// DispatchOK is the dispatcher success status.
const DispatchOK = 0
