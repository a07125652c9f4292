package core_test

import (
	"fmt"
	"reflect"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/mockme/internal/attr"
	"github.com/toejough/mockme/internal/core"
)

func TestSite_ProductionUsesImpl(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	site := core.NewSite(reg, "id_1", externalDBCall, core.WithMode(core.ModeProduction))

	// Production resolution never touches the registry, so nothing needs
	// injecting.
	g.Expect(site.Func()(42)).To(Equal("db 42"))
	g.Expect(site.Mode()).To(Equal(core.ModeProduction))
}

func TestSite_AutoModeInsideTests(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	site := core.NewSite(core.NewRegistry(), "id_1", externalDBCall)

	g.Expect(site.Mode()).To(Equal(core.ModeTest))
}

func TestSite_TestModeUsesInjected(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	site := core.NewSite(reg, "id_1", externalDBCall, core.WithMode(core.ModeTest))

	scope := reg.Acquire()
	defer scope.Release()

	g.Expect(scope.Set("id_1", fake)).To(Succeed())
	g.Expect(site.Func()(42)).To(Equal("fake 42"))
}

func TestSite_MissingInjectionPanics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	site := core.NewSite(core.NewRegistry(), "id_1", externalDBCall,
		core.WithMode(core.ModeTest), core.WithName("external_db_call"))

	_, err := site.Resolve()
	g.Expect(err).To(MatchError(core.ErrMissingKey))

	g.Expect(func() { site.Func() }).To(PanicWith(
		ContainSubstring(`site external_db_call ("id_1")`)))
}

func TestSite_WrongInjectedType(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	site := core.NewSite(reg, "id_1", externalDBCall, core.WithMode(core.ModeTest))

	g.Expect(reg.Set("id_1", func() string { return "" })).To(Succeed())

	_, err := site.Resolve()
	g.Expect(err).To(MatchError(core.ErrTypeMismatch))
	g.Expect(func() { site.Func() }).To(PanicWith(ContainSubstring(`site "id_1"`)))
}

func TestSiteFromMatch(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	match := attr.MockMatch{
		Identifier:        "id_1",
		FunctionToMock:    "external_db_call",
		FunctionSignature: "func( uint32 ) string",
	}

	site, err := core.SiteFromMatch(reg, match, externalDBCall)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(site.Key()).To(Equal("id_1"))
	g.Expect(site.Name()).To(Equal("external_db_call"))

	match.FunctionSignature = "fn(u32) -> String"
	_, err = core.SiteFromMatch(reg, match, externalDBCall)
	g.Expect(err).To(MatchError(core.ErrSignatureMismatch))
}

func TestCheckSignature(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	typ := reflect.TypeOf(func(float64, float64) float64 { return 0 })

	g.Expect(core.CheckSignature(attr.MockMatch{FunctionSignature: "func(float64, float64) float64"}, typ)).
		To(Succeed())
	g.Expect(core.CheckSignature(attr.MockMatch{FunctionSignature: "func(float64,float64)float64"}, typ)).
		To(Succeed())
	g.Expect(core.CheckSignature(attr.MockMatch{FunctionSignature: "func(float64) float64"}, typ)).
		To(MatchError(core.ErrSignatureMismatch))
}

func TestMode_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.ModeAuto.String()).To(Equal("auto"))
	g.Expect(core.ModeProduction.String()).To(Equal("production"))
	g.Expect(core.ModeTest.String()).To(Equal("test"))
	g.Expect(core.Mode(9).String()).To(Equal("Mode(9)"))
}

func externalDBCall(n uint32) string {
	return fmt.Sprintf("db %d", n)
}
