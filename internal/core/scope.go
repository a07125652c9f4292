package core

import (
	"fmt"
	"sync"
)

// Scope is one test's access to a Registry. It does not own the registry's
// storage, only the obligation to clear it: Release empties the whole
// registry, including keys set through other scopes.
type Scope struct {
	reg *Registry

	mu       sync.Mutex
	released bool
}

// AcquireFor opens a scope on reg whose release is registered with t.Cleanup
// when t supports it (as *testing.T does). Otherwise the caller must Release.
func AcquireFor(t TestReporter, reg *Registry) *Scope {
	scope := reg.Acquire()

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(scope.Release)
	}

	return scope
}

// Get returns the handle stored under key.
func (s *Scope) Get(key string) (Handle, error) {
	if s.isReleased() {
		return Handle{}, fmt.Errorf("getting %q: %w", key, ErrScopeReleased)
	}

	return s.reg.Get(key)
}

// Registry returns the registry the scope was acquired from.
func (s *Scope) Registry() *Registry {
	return s.reg
}

// Release clears the registry. Only the first call has an effect.
func (s *Scope) Release() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()

		return
	}

	s.released = true
	s.mu.Unlock()

	s.reg.Clear()
}

// Set stores fn under key in the registry.
func (s *Scope) Set(key string, fn any) error {
	if s.isReleased() {
		return fmt.Errorf("setting %q: %w", key, ErrScopeReleased)
	}

	return s.reg.Set(key, fn)
}

// Lookup fetches key from the scope's registry as an F.
func Lookup[F any](s *Scope, key string) (F, error) {
	handle, err := s.Get(key)
	if err != nil {
		var zero F

		return zero, err
	}

	return As[F](handle)
}

func (s *Scope) isReleased() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.released
}
