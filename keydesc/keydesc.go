// File: keydesc/keydesc.go
// Package keydesc parses certificate public keys into the algorithm
// descriptors profile classification works on.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Parsing works on the raw SubjectPublicKeyInfo rather than on the parsed
// crypto/x509 key object: the profile table covers Brainpool curves, which
// the standard library cannot represent as a key type. Only the algorithm
// and named-curve identifiers are extracted; key material stays untouched.

package keydesc

import (
	"crypto/x509"
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	casn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/momentics/hioload-tls/api"
)

// ErrMalformed reports a SubjectPublicKeyInfo that does not parse as DER.
var ErrMalformed = fmt.Errorf("malformed SubjectPublicKeyInfo")

var (
	oidRSAEncryption = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	oidECPublicKey   = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidECDH          = asn1.ObjectIdentifier{1, 3, 132, 1, 12}

	oidSecp256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidSecp384 = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	oidSecp521 = asn1.ObjectIdentifier{1, 3, 132, 0, 35}
	oidBp256   = asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 7}
	oidBp384   = asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 11}
	oidBp512   = asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 13}
)

// Parse extracts the key algorithm descriptor from a DER-encoded
// SubjectPublicKeyInfo. Unknown algorithms and unknown named curves return
// api.ErrUnsupportedKeyType: such certificates cannot be handshaken with and
// must be rejected at load time.
func Parse(der []byte) (*api.PublicKey, error) {
	input := cryptobyte.String(der)
	var spki, algID cryptobyte.String
	if !input.ReadASN1(&spki, casn1.SEQUENCE) ||
		!spki.ReadASN1(&algID, casn1.SEQUENCE) {
		return nil, ErrMalformed
	}
	var algOID asn1.ObjectIdentifier
	if !algID.ReadASN1ObjectIdentifier(&algOID) {
		return nil, ErrMalformed
	}

	switch {
	case algOID.Equal(oidRSAEncryption):
		return &api.PublicKey{Alg: api.KeyAlgRSA}, nil
	case algOID.Equal(oidECPublicKey), algOID.Equal(oidECDH):
		alg := api.KeyAlgEC
		if algOID.Equal(oidECDH) {
			alg = api.KeyAlgECDH
		}
		var curveOID asn1.ObjectIdentifier
		if !algID.ReadASN1ObjectIdentifier(&curveOID) {
			// EC keys without namedCurve parameters (explicit curve
			// encodings) are not supported.
			return nil, api.ErrUnsupportedKeyType
		}
		curve := curveFromOID(curveOID)
		if curve == api.CurveNone {
			return nil, api.ErrUnsupportedKeyType
		}
		return &api.PublicKey{Alg: alg, Curve: curve}, nil
	}
	return nil, api.ErrUnsupportedKeyType
}

// FromCertificate parses the key descriptor of an already-parsed
// certificate.
func FromCertificate(crt *x509.Certificate) (*api.PublicKey, error) {
	return Parse(crt.RawSubjectPublicKeyInfo)
}

func curveFromOID(oid asn1.ObjectIdentifier) api.CurveID {
	switch {
	case oid.Equal(oidSecp256):
		return api.CurveSecp256
	case oid.Equal(oidSecp384):
		return api.CurveSecp384
	case oid.Equal(oidSecp521):
		return api.CurveSecp521
	case oid.Equal(oidBp256):
		return api.CurveBp256
	case oid.Equal(oidBp384):
		return api.CurveBp384
	case oid.Equal(oidBp512):
		return api.CurveBp512
	}
	return api.CurveNone
}
