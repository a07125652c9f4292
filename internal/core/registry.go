// Package core implements mockme's function registry, the scopes tests
// acquire on it, and the call sites that resolve through it.
package core

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Exported variables.
var (
	ErrDuplicateKey      = errors.New("mocking key already set")
	ErrMissingKey        = errors.New("no mocked function for key")
	ErrNotFunc           = errors.New("handle must be a non-nil function")
	ErrScopeReleased     = errors.New("scope already released")
	ErrSignatureMismatch = errors.New("declared signature does not match function type")
	ErrTypeMismatch      = errors.New("stored function has a different type")
	ErrUnknownSymbol     = errors.New("unknown replacement function")
)

// Registry maps mocking keys to replacement functions.
//
// A registry is shared by every scope acquired from it, and releasing any
// scope clears all keys. Tests that run in parallel must each use their own
// Registry rather than Default.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Handle
	epoch   uint64
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	reg := &Registry{
		entries: make(map[string]Handle),
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(reg)
	}

	return reg
}

// Acquire opens a scope on the registry. Releasing the scope clears the
// registry.
func (r *Registry) Acquire() *Scope {
	r.mu.Lock()
	epoch := r.epoch
	r.mu.Unlock()

	r.logger.Debug("scope acquired", "epoch", epoch)

	return &Scope{reg: r}
}

// Clear removes every key and starts a new epoch. Clearing an empty registry
// is a no-op apart from advancing the epoch.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.entries)
	clear(r.entries)
	r.epoch++

	r.logger.Debug("registry cleared", "removed", n, "epoch", r.epoch)
}

// Epoch counts how many times the registry has been cleared.
func (r *Registry) Epoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.epoch
}

// Get returns the handle stored under key, or ErrMissingKey.
func (r *Registry) Get(key string) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.entries[key]
	if !ok {
		r.logger.Warn("missing mocking key", "key", key, "epoch", r.epoch)

		return Handle{}, fmt.Errorf("%w: %q", ErrMissingKey, key)
	}

	r.logger.Debug("mock resolved", "key", key, "type", handle.typ.String(), "epoch", r.epoch)

	return handle, nil
}

// Keys returns the currently set keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

// Len returns the number of keys currently set.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Set stores fn under key. A key may be set once per epoch; a second Set
// fails with ErrDuplicateKey and leaves the first value in place.
func (r *Registry) Set(key string, fn any) error {
	handle, err := newHandle(fn)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; ok {
		r.logger.Warn("duplicate mocking key", "key", key, "epoch", r.epoch)

		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}

	r.entries[key] = handle

	r.logger.Debug("mock set", "key", key, "type", handle.typ.String(), "epoch", r.epoch)

	return nil
}

// WithScope runs fn inside a freshly acquired scope and releases it on every
// exit path, including a panic in fn.
func (r *Registry) WithScope(fn func(*Scope) error) error {
	scope := r.Acquire()
	defer scope.Release()

	return fn(scope)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry's logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Default returns the process-wide registry used by sites and injections that
// do not name one explicitly.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})

	return defaultRegistry
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Process-wide registry shared by call sites and tests
	defaultRegistry *Registry
	//nolint:gochecknoglobals // Guards lazy construction of defaultRegistry
	defaultOnce sync.Once
)
