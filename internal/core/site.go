package core

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"unicode"

	"github.com/toejough/mockme/internal/attr"
)

// Mode selects how a Site resolves its function.
type Mode int

// Mode values.
const (
	// ModeAuto resolves through the registry inside test binaries and to the
	// production implementation everywhere else.
	ModeAuto Mode = iota
	ModeProduction
	ModeTest
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeProduction:
		return "production"
	case ModeTest:
		return "test"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Site is a mockable call site: a production function that, under test,
// is replaced by whatever was injected for its key.
type Site[F any] struct {
	reg  *Registry
	key  string
	name string
	impl F
	mode Mode
}

// NewSite binds key to impl on reg.
func NewSite[F any](reg *Registry, key string, impl F, opts ...SiteOption) *Site[F] {
	cfg := siteConfig{mode: ModeAuto}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Site[F]{
		reg:  reg,
		key:  key,
		name: cfg.name,
		impl: impl,
		mode: cfg.mode,
	}
}

// SiteFromMatch builds a Site from a parsed mock declaration. The declared
// signature must spell F's type (whitespace is ignored).
func SiteFromMatch[F any](reg *Registry, match attr.MockMatch, impl F, opts ...SiteOption) (*Site[F], error) {
	err := CheckSignature(match, reflect.TypeFor[F]())
	if err != nil {
		return nil, err
	}

	opts = append([]SiteOption{WithName(match.FunctionToMock)}, opts...)

	return NewSite(reg, match.Identifier, impl, opts...), nil
}

// Func returns the resolved function, panicking if resolution fails. Use it
// at call sites, where there is no test handle to report through.
func (s *Site[F]) Func() F {
	fn, err := s.Resolve()
	if err != nil {
		panic(fmt.Sprintf("mockme: site %s: %v", s.describe(), err))
	}

	return fn
}

// Key returns the mocking key.
func (s *Site[F]) Key() string {
	return s.key
}

// Mode returns the effective mode, with ModeAuto already decided.
func (s *Site[F]) Mode() Mode {
	if s.mode != ModeAuto {
		return s.mode
	}

	if testing.Testing() {
		return ModeTest
	}

	return ModeProduction
}

// Name returns the name of the function being mocked, if known.
func (s *Site[F]) Name() string {
	return s.name
}

// Resolve returns the production implementation or, in test mode, the
// function injected under the site's key.
func (s *Site[F]) Resolve() (F, error) {
	if s.Mode() == ModeProduction {
		return s.impl, nil
	}

	var zero F

	handle, err := s.reg.Get(s.key)
	if err != nil {
		return zero, err
	}

	fn, err := As[F](handle)
	if err != nil {
		return zero, fmt.Errorf("key %q: %w", s.key, err)
	}

	return fn, nil
}

func (s *Site[F]) describe() string {
	if s.name == "" {
		return fmt.Sprintf("%q", s.key)
	}

	return fmt.Sprintf("%s (%q)", s.name, s.key)
}

// SiteOption configures a Site.
type SiteOption func(*siteConfig)

// WithMode fixes the site's resolution mode.
func WithMode(mode Mode) SiteOption {
	return func(c *siteConfig) {
		c.mode = mode
	}
}

// WithName records the name of the mocked function for diagnostics.
func WithName(name string) SiteOption {
	return func(c *siteConfig) {
		c.name = name
	}
}

// CheckSignature reports whether match's signature text names typ.
func CheckSignature(match attr.MockMatch, typ reflect.Type) error {
	if stripSpace(match.FunctionSignature) == stripSpace(typ.String()) {
		return nil
	}

	return fmt.Errorf("%w: %s declares %q, function is %v",
		ErrSignatureMismatch, match.Identifier, match.FunctionSignature, typ)
}

type siteConfig struct {
	mode Mode
	name string
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)
}
