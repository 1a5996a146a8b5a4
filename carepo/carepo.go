// Package carepo implements the filesystem CA repository spec.md §4.7
// describes: trusted issuer certificates stored as DER files named
// <serial-hex>.cer under a directory, looked up by serial number.
package carepo

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/settings"
	"github.com/gostcrypto/gost/x509gost"
)

// Repository is a directory of trusted issuer certificates.
type Repository struct {
	path string
}

// Open binds a Repository to path, creating the directory if it does not
// exist. An empty path falls back to settings.Default()'s configured CA
// repository path.
func Open(path string) (*Repository, error) {
	if path == "" {
		path = settings.Default().Current().CARepositoryPath
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, gosterr.Wrap("carepo.Open", gosterr.InvalidValue, err)
	}
	return &Repository{path: path}, nil
}

func filename(serial []byte) string {
	return hex.EncodeToString(serial) + ".cer"
}

func (r *Repository) pathFor(serial []byte) string {
	return filepath.Join(r.path, filename(serial))
}

// Store validates cert (issuer == self: every certificate accepted into
// this repository is expected to be a trusted root, so validation runs
// with a nil IssuerResolver and only Imported is accepted — a root that
// resolves as ImportedUnverified or Failed is refused) and, if it
// passes, writes its DER encoding to <serial-hex>.cer.
func (r *Repository) Store(tr *asn1.Tree, now time.Time) error {
	cert, status, err := x509gost.Validate(tr, now, nil)
	if err != nil {
		return gosterr.Wrap("carepo.Store", gosterr.CertificateSignature, err)
	}
	if status != x509gost.Imported {
		return gosterr.New("carepo.Store", gosterr.CertificateSignature)
	}
	der, err := tr.EncodeDER()
	if err != nil {
		return err
	}
	dst := r.pathFor(cert.Serial)
	if err := os.WriteFile(dst, der, 0o644); err != nil {
		return gosterr.Wrap("carepo.Store", gosterr.InvalidValue, err)
	}
	return nil
}

// Lookup reads the certificate stored under serial, decodes it, and
// re-validates it with a nil resolver (issuer == self), per spec.md
// §4.7's "imports with issuer == self".
func (r *Repository) Lookup(serial []byte, now time.Time) (*x509gost.Certificate, error) {
	data, err := os.ReadFile(r.pathFor(serial))
	if err != nil {
		return nil, gosterr.Wrap("carepo.Lookup", gosterr.InvalidValue, err)
	}
	tr, err := asn1.DecodeDERExact(data, asn1.DecodeOptions{})
	if err != nil {
		return nil, err
	}
	cert, status, err := x509gost.Validate(tr, now, nil)
	if err != nil {
		return cert, err
	}
	if status != x509gost.Imported {
		return cert, gosterr.New("carepo.Lookup", gosterr.CertificateSignature)
	}
	return cert, nil
}

// Remove deletes the stored certificate for serial, if present.
func (r *Repository) Remove(serial []byte) error {
	err := os.Remove(r.pathFor(serial))
	if err != nil && !os.IsNotExist(err) {
		return gosterr.Wrap("carepo.Remove", gosterr.InvalidValue, err)
	}
	return nil
}

// List returns the serial numbers (as stored, lowercase hex) of every
// certificate currently in the repository.
func (r *Repository) List() ([]string, error) {
	entries, err := os.ReadDir(r.path)
	if err != nil {
		return nil, gosterr.Wrap("carepo.List", gosterr.InvalidValue, err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		const suffix = ".cer"
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			out = append(out, name[:len(name)-len(suffix)])
		}
	}
	return out, nil
}

// Path returns the filesystem path of a would-be entry for serial,
// without touching disk; useful for diagnostics and tests.
func (r *Repository) Path(serial []byte) string {
	return r.pathFor(serial)
}
