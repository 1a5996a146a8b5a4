// Package oid collects the dotted-decimal object identifiers used across
// the curve, signature, container, and certificate layers. Values come from
// GOST R 34.10-2012, GOST R 34.11-2012, R 50.1.x/R 1323565.1.x, and the
// library-private container/extension markers named in the container and
// certificate specifications.
package oid

// OID is a dotted-decimal object identifier, e.g. "1.2.643.7.1.1.2.2".
type OID string

// Hash algorithms (GOST R 34.11-2012).
const (
	Streebog256 OID = "1.2.643.7.1.1.2.2"
	Streebog512 OID = "1.2.643.7.1.1.2.3"
)

// Block cipher (GOST R 34.12-2015).
const (
	Kuznyechik OID = "1.2.643.7.1.1.5.2"
	Magma      OID = "1.2.643.7.1.1.5.1"
)

// Signature algorithms (GOST R 34.10-2012), paired with the hash they bind.
const (
	SignWithStreebog256 OID = "1.2.643.7.1.1.3.2"
	SignWithStreebog512 OID = "1.2.643.7.1.1.3.3"
	PublicKey256        OID = "1.2.643.7.1.1.1.1"
	PublicKey512        OID = "1.2.643.7.1.1.1.2"
)

// Named elliptic curve parameter sets.
const (
	CurveTC26GOST341012256ParamSetA    OID = "1.2.643.7.1.2.1.1.1"
	CurveTC26GOST341012256ParamSetB    OID = "1.2.643.7.1.2.1.1.2"
	CurveTC26GOST341012256ParamSetTest OID = "1.2.643.2.2.35.0"
	CurveTC26GOST341012512ParamSetTest OID = "1.2.643.7.1.2.1.2.0"
	CurveTC26GOST341012512ParamSetA    OID = "1.2.643.7.1.2.1.2.1"
	CurveTC26GOST341012512ParamSetB    OID = "1.2.643.7.1.2.1.2.2"
	CurveTC26GOST341012512ParamSetC    OID = "1.2.643.7.1.2.1.2.3"
)

// Key-derivation and key-wrap algorithms.
const (
	PBKDF2BasicKey OID = "1.2.643.7.1.1.4.1"
	NoBasicKey     OID = "1.2.643.2.52.1.127.1"
	KExp15         OID = "1.2.643.7.1.1.5.2.15"
)

// Container content markers.
const (
	Container            OID = "1.2.643.2.52.1.127.2"
	SymmetricKeyContent  OID = "1.2.643.2.52.1.127.3.1"
	SecretKeyContent     OID = "1.2.643.2.52.1.127.3.2"
)

// X.509 attribute/name OIDs used while building subject/issuer Name trees.
const (
	CommonName         OID = "2.5.4.3"
	Country            OID = "2.5.4.6"
	Locality           OID = "2.5.4.7"
	StateOrProvince    OID = "2.5.4.8"
	Organization       OID = "2.5.4.10"
	OrganizationalUnit OID = "2.5.4.11"
	EMail              OID = "1.2.840.113549.1.9.1"
)

// X.509 v3 extension OIDs.
const (
	ExtSubjectKeyIdentifier   OID = "2.5.29.14"
	ExtKeyUsage               OID = "2.5.29.15"
	ExtBasicConstraints       OID = "2.5.29.19"
	ExtAuthorityKeyIdentifier OID = "2.5.29.35"
	ExtExtKeyUsage            OID = "2.5.29.37"
	// ExtSecretKeyNumber is a library-private extension binding a
	// certificate to the internal key number of the secret key that
	// corresponds to the certified public key.
	ExtSecretKeyNumber OID = "1.2.643.2.52.1.98.1"
)

// HashSizeOf returns the digest size in octets for a known hash OID, and
// false if the OID is not a recognized hash algorithm.
func HashSizeOf(o OID) (int, bool) {
	switch o {
	case Streebog256:
		return 32, true
	case Streebog512:
		return 64, true
	default:
		return 0, false
	}
}

// CurveSizeOf returns the field size in limbs (4 or 8) for a signature
// algorithm OID.
func CurveSizeOf(o OID) (int, bool) {
	switch o {
	case SignWithStreebog256, PublicKey256:
		return 4, true
	case SignWithStreebog512, PublicKey512:
		return 8, true
	default:
		return 0, false
	}
}
