// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and constants.

package api

// ProtoFamily identifies which protocol module owns a connection. It is a
// closed enumeration: each family registers exactly one hook set at startup.
type ProtoFamily int

const (
	ProtoHTTP ProtoFamily = iota
	ProtoTLS

	// NumProtoFamilies bounds the hook registry.
	NumProtoFamilies
)

func (f ProtoFamily) String() string {
	switch f {
	case ProtoHTTP:
		return "http"
	case ProtoTLS:
		return "tls"
	default:
		return "unknown"
	}
}

// ConnType combines a connection direction bit with a ProtoFamily tag.
// The family occupies the low bits; direction bits are ORed in when the
// socket handshake completes.
type ConnType uint32

const (
	// ConnClnt marks a connection accepted from a client.
	ConnClnt ConnType = 1 << 16
	// ConnSrv marks a connection established to a backend server.
	ConnSrv ConnType = 1 << 17

	connDirMask    = ConnClnt | ConnSrv
	connFamilyMask = ConnClnt - 1
)

// TypeFor builds the placeholder type tag for a protocol family.
func TypeFor(f ProtoFamily) ConnType { return ConnType(f) }

// Family extracts the protocol family from a combined type tag.
func (t ConnType) Family() ProtoFamily { return ProtoFamily(t & connFamilyMask) }

// IsClnt reports whether the client direction bit is set.
func (t ConnType) IsClnt() bool { return t&ConnClnt != 0 }

// IsSrv reports whether the server direction bit is set.
func (t ConnType) IsSrv() bool { return t&ConnSrv != 0 }

// Established reports whether either direction bit is set, i.e. whether the
// socket completed its connection handshake and a full connection object was
// attached.
func (t ConnType) Established() bool { return t&connDirMask != 0 }

// ProfileID enumerates the public-key algorithm families a handshake memory
// profile is built for. One profile pool exists per identifier for the whole
// process lifetime.
type ProfileID int

const (
	ProfileECDH ProfileID = iota
	ProfileDHM
	ProfileECDHESecp256
	ProfileECDHESecp384
	ProfileECDHESecp521
	ProfileECDHEBp256
	ProfileECDHEBp384
	ProfileECDHEBp512

	// NumProfiles bounds the profile registry.
	NumProfiles
)

func (p ProfileID) String() string {
	switch p {
	case ProfileECDH:
		return "ecdh"
	case ProfileDHM:
		return "dhm"
	case ProfileECDHESecp256:
		return "ecdhe-secp256"
	case ProfileECDHESecp384:
		return "ecdhe-secp384"
	case ProfileECDHESecp521:
		return "ecdhe-secp521"
	case ProfileECDHEBp256:
		return "ecdhe-bp256"
	case ProfileECDHEBp384:
		return "ecdhe-bp384"
	case ProfileECDHEBp512:
		return "ecdhe-bp512"
	default:
		return "unknown"
	}
}
