// File: api/key.go
// Author: momentics <momentics@gmail.com>
//
// Public-key descriptor types used by profile classification.
// Parsing from raw SubjectPublicKeyInfo lives in package keydesc.

package api

// KeyAlg is the algorithm identifier of a certificate's public key.
type KeyAlg int

const (
	KeyAlgUnknown KeyAlg = iota
	// KeyAlgEC is id-ecPublicKey: an EC key usable for ECDSA signing and
	// ephemeral ECDHE exchanges.
	KeyAlgEC
	// KeyAlgECDH is id-ecDH: an EC key restricted to static ECDH.
	KeyAlgECDH
	// KeyAlgRSA is rsaEncryption; RSA certificates pair with DHE key
	// exchange in this profile model.
	KeyAlgRSA
)

func (a KeyAlg) String() string {
	switch a {
	case KeyAlgEC:
		return "ec"
	case KeyAlgECDH:
		return "ecdh"
	case KeyAlgRSA:
		return "rsa"
	default:
		return "unknown"
	}
}

// CurveID identifies a named elliptic curve supported by the profile table.
type CurveID int

const (
	CurveNone CurveID = iota
	CurveSecp256
	CurveSecp384
	CurveSecp521
	CurveBp256
	CurveBp384
	CurveBp512
)

// Bits returns the curve group order bit length, used to size precomputed
// combination tables.
func (c CurveID) Bits() int {
	switch c {
	case CurveSecp256, CurveBp256:
		return 256
	case CurveSecp384, CurveBp384:
		return 384
	case CurveSecp521:
		return 521
	case CurveBp512:
		return 512
	default:
		return 0
	}
}

func (c CurveID) String() string {
	switch c {
	case CurveSecp256:
		return "secp256r1"
	case CurveSecp384:
		return "secp384r1"
	case CurveSecp521:
		return "secp521r1"
	case CurveBp256:
		return "brainpoolP256r1"
	case CurveBp384:
		return "brainpoolP384r1"
	case CurveBp512:
		return "brainpoolP512r1"
	default:
		return "none"
	}
}

// PublicKey is the parsed algorithm descriptor of a certificate key. It
// carries exactly what profile classification needs, nothing else.
type PublicKey struct {
	Alg   KeyAlg
	Curve CurveID
}
