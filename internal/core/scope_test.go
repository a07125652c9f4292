package core_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/mockme/internal/core"
)

func TestScope_ReleaseClearsEverything(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	mine := reg.Acquire()
	theirs := reg.Acquire()

	g.Expect(mine.Set("mine", fake)).To(Succeed())
	g.Expect(theirs.Set("theirs", other)).To(Succeed())

	mine.Release()

	// No per-owner partitioning: the other scope's key is gone too.
	_, err := theirs.Get("theirs")
	g.Expect(err).To(MatchError(core.ErrMissingKey))
	g.Expect(reg.Len()).To(BeZero())
}

func TestScope_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	scope := reg.Acquire()

	scope.Release()
	g.Expect(reg.Set("k", fake)).To(Succeed())

	scope.Release()
	g.Expect(reg.Len()).To(Equal(1), "second release must not clear again")
	g.Expect(reg.Epoch()).To(Equal(uint64(1)))
}

func TestScope_ReleasedScopeRejectsUse(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scope := core.NewRegistry().Acquire()
	scope.Release()

	g.Expect(scope.Set("k", fake)).To(MatchError(core.ErrScopeReleased))

	_, err := scope.Get("k")
	g.Expect(err).To(MatchError(core.ErrScopeReleased))
}

func TestWithScope_ReleasesOnReturn(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()

	err := reg.WithScope(func(s *core.Scope) error {
		return s.Set("k", fake)
	})

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(reg.Len()).To(BeZero())
}

func TestWithScope_ReleasesOnError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	errBoom := errors.New("boom")

	err := reg.WithScope(func(s *core.Scope) error {
		g.Expect(s.Set("k", fake)).To(Succeed())

		return errBoom
	})

	g.Expect(err).To(MatchError(errBoom))
	g.Expect(reg.Len()).To(BeZero())
}

func TestWithScope_ReleasesOnPanic(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()

	g.Expect(func() {
		_ = reg.WithScope(func(s *core.Scope) error {
			g.Expect(s.Set("k", fake)).To(Succeed())

			panic("test body failed")
		})
	}).To(PanicWith("test body failed"))

	g.Expect(reg.Len()).To(BeZero())
}

func TestAcquireFor_ReleasesOnCleanup(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()

	t.Run("subtest", func(t *testing.T) {
		scope := core.AcquireFor(t, reg)
		g.Expect(scope.Set("k", fake)).To(Succeed())
		g.Expect(scope.Registry()).To(BeIdenticalTo(reg))
	})

	g.Expect(reg.Len()).To(BeZero())
}

func TestAcquireFor_WithoutCleanupSupport(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	scope := core.AcquireFor(&mockTester{}, reg)

	g.Expect(scope.Set("k", fake)).To(Succeed())
	g.Expect(reg.Len()).To(Equal(1), "nothing releases the scope automatically")

	scope.Release()
	g.Expect(reg.Len()).To(BeZero())
}

func TestLookup_Typed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	scope := core.NewRegistry().Acquire()
	defer scope.Release()

	g.Expect(scope.Set("k", fake)).To(Succeed())

	fn, err := core.Lookup[func(uint32) string](scope, "k")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fn(3)).To(Equal("fake 3"))

	_, err = core.Lookup[func(int) string](scope, "k")
	g.Expect(err).To(MatchError(core.ErrTypeMismatch))

	_, err = core.Lookup[func(uint32) string](scope, "nope")
	g.Expect(err).To(MatchError(core.ErrMissingKey))
}

// mockTester is a TestReporter without Cleanup support.
type mockTester struct {
	helper func()
	fatalf func(string, ...any)
}

func (m *mockTester) Fatalf(format string, args ...any) {
	if m.fatalf != nil {
		m.fatalf(format, args...)
	}
}

func (m *mockTester) Helper() {
	if m.helper != nil {
		m.helper()
	}
}
