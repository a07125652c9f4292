package mockme

import (
	"github.com/toejough/mockme/internal/core"
)

// Acquire opens a scope on reg that is released when t's test completes.
func Acquire(t TestReporter, reg *Registry) *Scope {
	return core.AcquireFor(t, reg)
}

// Inject parses text as an inject list and stores each named function from
// symbols under its key, in a scope bound to t. Any failure (bad grammar, an
// unknown name, a key already set) fails the test through t.Fatalf.
func Inject(t TestReporter, reg *Registry, text string, symbols Symbols) *Scope {
	t.Helper()

	scope := core.AcquireFor(t, reg)

	err := core.InjectText(scope, text, symbols)
	if err != nil {
		scope.Release()
		t.Fatalf("mockme: %v", err)
	}

	return scope
}

// Lookup fetches key from scope as an F.
func Lookup[F any](scope *Scope, key string) (F, error) {
	return core.Lookup[F](scope, key)
}

// MustLookup fetches key from scope as an F, failing the test through
// t.Fatalf when the key is missing or holds another type.
func MustLookup[F any](t TestReporter, scope *Scope, key string) F {
	t.Helper()

	fn, err := core.Lookup[F](scope, key)
	if err != nil {
		t.Fatalf("mockme: %v", err)
	}

	return fn
}

// WithScope runs fn inside a scope on reg and releases it on every exit path.
func WithScope(reg *Registry, fn func(*Scope) error) error {
	return reg.WithScope(fn)
}
