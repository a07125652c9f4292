// Package mockme lets code mark a call as mockable and lets tests inject a
// replacement for it by key.
//
// A call site is declared once, next to the code that uses it:
//
//	var externalDBCall = mockme.Mock(mockme.Default(),
//	    `id_1 = "external_db_call: func(uint32) string"`, externalDBCallImpl)
//
//	func lookup() string { return externalDBCall.Func()(42) }
//
// Outside tests Func returns externalDBCallImpl. Inside a test binary it
// returns whatever the running test injected under id_1:
//
//	mockme.Inject(t, mockme.Default(), `id_1 = "dbFake"`, mockme.Symbols{"dbFake": dbFake})
//
// Releasing a scope clears the whole registry, so tests that share the
// Default registry must not run in parallel. Parallel tests should give
// each test its own registry via NewRegistry.
//
// This is the public API entry point. Implementation lives in internal/attr
// and internal/core.
package mockme

import (
	"fmt"
	"log/slog"

	"github.com/toejough/mockme/internal/attr"
	"github.com/toejough/mockme/internal/core"
)

// Types re-exported from internal/attr.

// InjectMatch binds a mocking key to the name of its replacement function.
type InjectMatch = attr.InjectMatch

// MockMatch binds a mocking key to a mockable function and its signature.
type MockMatch = attr.MockMatch

// ParseError describes where an attribute list failed to parse.
type ParseError = attr.ParseError

// Types re-exported from internal/core.

// Handle is a stored replacement function and its type.
type Handle = core.Handle

// Mode selects how a Site resolves its function.
type Mode = core.Mode

// Registry maps mocking keys to replacement functions.
type Registry = core.Registry

// RegistryOption configures a Registry.
type RegistryOption = core.RegistryOption

// Scope is one test's access to a Registry.
type Scope = core.Scope

// Site is a mockable call site.
type Site[F any] = core.Site[F]

// SiteOption configures a Site.
type SiteOption = core.SiteOption

// Symbols names the replacement functions an inject list may refer to.
type Symbols = core.Symbols

// TestReporter is the minimal interface mockme needs from test frameworks.
type TestReporter = core.TestReporter

// Mode values.
const (
	ModeAuto       = core.ModeAuto
	ModeProduction = core.ModeProduction
	ModeTest       = core.ModeTest
)

// Errors re-exported for errors.Is checks.
var (
	ErrDanglingSeparator = attr.ErrDanglingSeparator
	ErrDuplicateKey      = core.ErrDuplicateKey
	ErrEmptyIdentifier   = attr.ErrEmptyIdentifier
	ErrEmptySignature    = attr.ErrEmptySignature
	ErrMissingKey        = core.ErrMissingKey
	ErrNotFunc           = core.ErrNotFunc
	ErrScopeReleased     = core.ErrScopeReleased
	ErrSignatureMismatch = core.ErrSignatureMismatch
	ErrTrailingInput     = attr.ErrTrailingInput
	ErrTypeMismatch      = core.ErrTypeMismatch
	ErrUnexpectedChar    = attr.ErrUnexpectedChar
	ErrUnexpectedEOF     = attr.ErrUnexpectedEOF
	ErrUnknownSymbol     = core.ErrUnknownSymbol
)

// Default returns the process-wide registry.
func Default() *Registry {
	return core.Default()
}

// Mock declares a call site from a single mock declaration such as
// `id_1 = "external_db_call: func(uint32) string"`. It panics if decl does not
// hold exactly one well-formed declaration or if the declared signature is not
// F's type, so it is meant for package-level variable initialisation.
func Mock[F any](reg *Registry, decl string, impl F, opts ...SiteOption) *Site[F] {
	matches, err := attr.ParseMock(decl)
	if err != nil {
		panic(fmt.Sprintf("mockme: bad mock declaration %q: %v", decl, err))
	}

	if len(matches) != 1 {
		panic(fmt.Sprintf("mockme: mock declaration %q must declare exactly one site, got %d", decl, len(matches)))
	}

	site, err := core.SiteFromMatch(reg, matches[0], impl, opts...)
	if err != nil {
		panic(fmt.Sprintf("mockme: %v", err))
	}

	return site
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	return core.NewRegistry(opts...)
}

// NewSite binds key to impl on reg.
func NewSite[F any](reg *Registry, key string, impl F, opts ...SiteOption) *Site[F] {
	return core.NewSite(reg, key, impl, opts...)
}

// ParseInject parses an inject list such as `id_1 = "db_fake", id_2 = "other_fake"`.
func ParseInject(text string) ([]InjectMatch, error) {
	return attr.ParseInject(text)
}

// ParseMock parses a mock list such as `id_1 = "external_db_call: func(uint32) string"`.
func ParseMock(text string) ([]MockMatch, error) {
	return attr.ParseMock(text)
}

// WithLogger sets a registry's logger.
func WithLogger(logger *slog.Logger) RegistryOption {
	return core.WithLogger(logger)
}

// WithMode fixes a site's resolution mode.
func WithMode(mode Mode) SiteOption {
	return core.WithMode(mode)
}

// WithName records the mocked function's name on a site.
func WithName(name string) SiteOption {
	return core.WithName(name)
}
