// Package gosterr defines the typed error taxonomy surfaced at the
// boundary of every other package in this module: a stable symbolic code
// plus the failing operation and, where available, the underlying cause.
// Nothing in this module keeps ambient errno-style global state; every
// fallible call returns (or wraps) a *Error value instead.
package gosterr

import "fmt"

// Code is a stable symbolic error identifier. The numeric values are
// implementation-defined but stable within this module's lifetime.
type Code int

const (
	_ Code = iota
	NullPointer
	InvalidValue
	WrongLength
	WrongOID
	OIDEngine
	OIDMode
	CurveNotSupported
	CurvePoint
	CurvePointOrder
	CurveDiscriminant
	KeyValue
	WrongKeyLength
	NotEqualData
	InvalidASN1Tag
	InvalidASN1Length
	InvalidASN1Content
	InvalidASN1Count
	WrongASN1Encode
	WrongASN1Decode
	CertificateVerifyKey
	CertificateVerifyNames
	CertificateValidity
	CertificateCA
	CertificateSignature
	Signature
)

var names = map[Code]string{
	NullPointer:            "null_pointer",
	InvalidValue:           "invalid_value",
	WrongLength:            "wrong_length",
	WrongOID:               "wrong_oid",
	OIDEngine:              "oid_engine",
	OIDMode:                "oid_mode",
	CurveNotSupported:      "curve_not_supported",
	CurvePoint:             "curve_point",
	CurvePointOrder:        "curve_point_order",
	CurveDiscriminant:      "curve_discriminant",
	KeyValue:               "key_value",
	WrongKeyLength:         "wrong_key_length",
	NotEqualData:           "not_equal_data",
	InvalidASN1Tag:         "invalid_asn1_tag",
	InvalidASN1Length:      "invalid_asn1_length",
	InvalidASN1Content:     "invalid_asn1_content",
	InvalidASN1Count:       "invalid_asn1_count",
	WrongASN1Encode:        "wrong_asn1_encode",
	WrongASN1Decode:        "wrong_asn1_decode",
	CertificateVerifyKey:   "certificate_verify_key",
	CertificateVerifyNames: "certificate_verify_names",
	CertificateValidity:    "certificate_validity",
	CertificateCA:          "certificate_ca",
	CertificateSignature:   "certificate_signature",
	Signature:              "signature",
}

// certPhrases holds the human-readable phrases spec.md §7 requires for the
// certificate-family errors specifically; every other code surfaces as
// "code: message" without a dedicated phrase.
var certPhrases = map[Code]string{
	CertificateVerifyKey:   "no verifying key available for the issuer of this certificate",
	CertificateVerifyNames: "issuer name on the certificate does not match the issuing certificate's subject",
	CertificateValidity:    "current time falls outside the certificate's validity window",
	CertificateCA:          "issuer certificate is not marked as a certificate authority",
	CertificateSignature:   "certificate signature does not verify against the issuer's key",
}

// String returns the stable symbolic name of the code.
func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return "unknown_error"
}

// Phrase returns the human-readable phrase for certificate-family codes,
// and false for every other code (callers fall back to Error()/String()).
func (c Code) Phrase() (string, bool) {
	p, ok := certPhrases[c]
	return p, ok
}

// Error is the typed error value returned across this module's boundary.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no wrapped cause.
func New(op string, code Code) *Error {
	return &Error{Code: code, Op: op}
}

// Wrap builds an *Error wrapping an existing cause.
func Wrap(op string, code Code, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// Is reports whether err is a *Error carrying the given code. It lets
// callers write `if gosterr.Is(err, gosterr.NotEqualData) { ... }`.
func Is(err error, code Code) bool {
	var e *Error
	if err == nil {
		return false
	}
	for {
		if ge, ok := err.(*Error); ok {
			e = ge
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
		if err == nil {
			return false
		}
	}
	return e.Code == code
}
