package x509gost

import (
	"time"

	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/signature"
)

// Status records the outcome of Validate, per spec.md §4.6's
// Imported/ImportedUnverified/Failed trio.
type Status int

const (
	// Failed means the certificate did not parse, or parsed but failed a
	// structural or signature check Validate is able to perform.
	Failed Status = iota
	// Imported means the certificate parsed and its signature verified
	// against a resolved issuer key.
	Imported
	// ImportedUnverified means the certificate parsed but no issuer key
	// could be resolved, so the signature was never checked.
	ImportedUnverified
)

func (s Status) String() string {
	switch s {
	case Imported:
		return "imported"
	case ImportedUnverified:
		return "imported_unverified"
	default:
		return "failed"
	}
}

// IssuerResolver looks up the subject Name, verifying key, and extensions
// of a certificate's issuer, keyed by the fingerprint carried in the
// subject certificate's AuthorityKeyIdentifier extension. ok is false
// when no issuer is known, which Validate treats as ImportedUnverified
// rather than Failed: an unresolved issuer is not itself a validation
// failure. The resolved name is compared against the certificate's
// Issuer field (the verify_names check) before the signature itself is
// checked.
type IssuerResolver func(fingerprint [32]byte) (name Name, vk *signature.VerifyKey, ext Extensions, ok bool)

// Validate runs the parsing and validation state machine spec.md §4.6
// describes: AwaitTopSequence -> AwaitTbs -> AwaitExtensions, followed by
// issuer resolution and, when an issuer is found, the Name comparison,
// the issuer CA-flag check (skipped for a self-signed certificate) and
// the signature check itself. now is compared against the subject
// certificate's own validity window only; the issuer's validity window
// is not checked.
func Validate(tr *asn1.Tree, now time.Time, resolve IssuerResolver) (*Certificate, Status, error) {
	// AwaitTopSequence -> AwaitTbs -> AwaitExtensions: ParseCertificate
	// walks exactly this sequence internally and returns a non-nil
	// *Certificate once the TBS fields (extensions included) and the
	// signature algorithm have parsed, even if the signature value
	// itself is malformed.
	cert, err := ParseCertificate(tr)
	if err != nil {
		return cert, Failed, err
	}

	if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
		return cert, Failed, gosterr.New("x509gost.Validate", gosterr.CertificateValidity)
	}

	selfSigned := isSelfSigned(cert)

	var issuerName Name
	var issuerVK *signature.VerifyKey
	var issuerExt Extensions
	var haveIssuer bool
	if selfSigned {
		issuerName, issuerVK, issuerExt, haveIssuer = cert.Subject, cert.Public, cert.Extensions, true
	} else if resolve != nil && cert.Extensions.AuthorityKeyIdentifier != nil {
		issuerName, issuerVK, issuerExt, haveIssuer = resolve(cert.Extensions.AuthorityKeyIdentifier.Fingerprint)
	}

	if !haveIssuer {
		return cert, ImportedUnverified, nil
	}

	if !cert.Issuer.Equal(issuerName) {
		return cert, Failed, gosterr.New("x509gost.Validate", gosterr.CertificateVerifyNames)
	}

	if !selfSigned {
		if issuerExt.BasicConstraints == nil || !issuerExt.BasicConstraints.CA {
			return cert, Failed, gosterr.New("x509gost.Validate", gosterr.CertificateCA)
		}
	}

	ok, err := signature.Verify(issuerVK, cert.TBSDER, cert.Signature)
	if err != nil {
		return cert, Failed, err
	}
	if !ok {
		return cert, Failed, gosterr.New("x509gost.Validate", gosterr.CertificateSignature)
	}

	return cert, Imported, nil
}

// isSelfSigned reports whether cert names itself as its own issuer: its
// AuthorityKeyIdentifier fingerprint equals the fingerprint of its own
// subject verify key. A certificate without an AuthorityKeyIdentifier is
// treated as self-signed when its Issuer and Subject Names are
// structurally equal (Name.Equal, Open Question (d)).
func isSelfSigned(cert *Certificate) bool {
	if cert.Extensions.AuthorityKeyIdentifier == nil {
		return cert.Issuer.Equal(cert.Subject)
	}
	return cert.Extensions.AuthorityKeyIdentifier.Fingerprint == cert.Public.Fingerprint
}
