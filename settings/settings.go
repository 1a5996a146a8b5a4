// Package settings holds the process-wide defaults spec.md's Design
// Notes call out as global mutable state: the password-read function, the
// default CA repository path, and the openssl-compatibility flag. They
// are collected into one immutable LibrarySettings value set once during
// single-threaded process start, then read without synchronization
// through an atomic.Pointer, per spec.md §9 ("MUST be set during
// single-threaded initialization and are read without synchronization
// thereafter").
package settings

import (
	"sync/atomic"

	"github.com/gostcrypto/gost/gosterr"
)

// PasswordReader is the process-wide hook for obtaining a container
// password, e.g. prompting a terminal or reading an environment variable.
// It receives a human-readable prompt and returns the password bytes.
type PasswordReader func(prompt string) ([]byte, error)

// LibrarySettings is the immutable snapshot a Library wraps. Callers
// build one with New and options, never by mutating fields after the
// fact, so a *Library read concurrently from many goroutines never
// observes a half-updated value.
type LibrarySettings struct {
	ReadPassword     PasswordReader
	CARepositoryPath string
	OpenSSLCompat    bool
	PBKDF2Iterations int
}

func defaultPasswordReader(prompt string) ([]byte, error) {
	return nil, gosterr.New("settings.defaultPasswordReader", gosterr.NullPointer)
}

// defaultSettings is what a Library holds before any Option is applied.
func defaultSettings() LibrarySettings {
	return LibrarySettings{
		ReadPassword:     defaultPasswordReader,
		CARepositoryPath: "./ca-repository",
		OpenSSLCompat:    false,
		PBKDF2Iterations: 2000,
	}
}

// Option configures a LibrarySettings value under construction.
type Option func(*LibrarySettings)

// WithPasswordReader overrides the process-wide password-read hook.
func WithPasswordReader(r PasswordReader) Option {
	return func(s *LibrarySettings) { s.ReadPassword = r }
}

// WithCARepositoryPath overrides the default CA repository path.
func WithCARepositoryPath(path string) Option {
	return func(s *LibrarySettings) { s.CARepositoryPath = path }
}

// WithOpenSSLCompat sets the openssl-compatibility flag held in the
// settings snapshot. The container codec does not read this value and has
// no openssl-compatibility parameter of its own (container.Options carries
// no such field).
func WithOpenSSLCompat(v bool) Option {
	return func(s *LibrarySettings) { s.OpenSSLCompat = v }
}

// WithPBKDF2Iterations sets the PBKDF2 iteration count held in the
// settings snapshot. The container package does not read it; container
// builds take their count from container.Options.Iterations.
func WithPBKDF2Iterations(n int) Option {
	return func(s *LibrarySettings) { s.PBKDF2Iterations = n }
}

// Library holds one immutable LibrarySettings snapshot behind an
// atomic.Pointer, so Current can be read from any goroutine without a
// lock once process start has finished configuring it.
type Library struct {
	current atomic.Pointer[LibrarySettings]
}

// New builds a Library from defaults plus opts, applied in order.
func New(opts ...Option) *Library {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	lib := &Library{}
	lib.current.Store(&s)
	return lib
}

// Current returns the active settings snapshot.
func (lib *Library) Current() LibrarySettings {
	return *lib.current.Load()
}

// Replace installs a new settings snapshot built from the current one
// plus opts. Per spec.md §9 this is intended for single-threaded process
// initialization, not steady-state concurrent mutation; callers that
// reconfigure after startup are responsible for ensuring no concurrent
// reader observes a torn intermediate state (atomic.Pointer.Store itself
// is safe, but readers mid-flight may use either the old or new value).
func (lib *Library) Replace(opts ...Option) {
	s := lib.Current()
	for _, opt := range opts {
		opt(&s)
	}
	lib.current.Store(&s)
}

var global = New()

// Default returns the process-wide Library every package in this module
// consults unless a caller threads its own Library through explicitly.
func Default() *Library { return global }
