package check_test

import (
	"go/token"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/mockme/internal/attr"
	"github.com/toejough/mockme/internal/check"
	"github.com/toejough/mockme/internal/directive"
)

func TestRun_Clean(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dirs := []directive.Directive{
		mockDir("a.go", 3, "f", attr.MockMatch{Identifier: "id_1", FunctionToMock: "db", FunctionSignature: "func()"}),
		injectDir("a_test.go", 9, "TestF", attr.InjectMatch{Identifier: "id_1", FunctionToMock: "fake"}),
	}

	findings := check.Run(dirs, check.Options{})

	g.Expect(findings).To(BeEmpty())
	g.Expect(check.Failed(findings)).To(BeFalse())
}

func TestRun_Problems(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dirs := []directive.Directive{
		mockDir("a.go", 3, "f",
			attr.MockMatch{Identifier: "id_1", FunctionToMock: "db", FunctionSignature: "func(uint32) string"},
			attr.MockMatch{Identifier: "id_2", FunctionToMock: "other", FunctionSignature: "func() string"}),
		mockDir("b.go", 7, "g",
			attr.MockMatch{Identifier: "id_1", FunctionToMock: "db", FunctionSignature: "func(int) string"}),
		mockDir("b.go", 12, "h",
			attr.MockMatch{Identifier: "id_1", FunctionToMock: "db", FunctionSignature: "func( uint32 ) string"}),
		injectDir("a_test.go", 5, "TestF",
			attr.InjectMatch{Identifier: "id_1", FunctionToMock: "fake"},
			attr.InjectMatch{Identifier: "id_1", FunctionToMock: "fake2"},
			attr.InjectMatch{Identifier: "id_9", FunctionToMock: "fake"}),
		{
			Pos:  token.Position{Filename: "a_test.go", Line: 2},
			Func: "TestG",
			Kind: directive.KindInject,
			Err:  attr.ErrDanglingSeparator,
		},
	}

	findings := check.Run(dirs, check.Options{})

	messages := make([]string, 0, len(findings))
	for _, f := range findings {
		messages = append(messages, f.String())
	}

	g.Expect(messages).To(Equal([]string{
		"a.go:3: warning: f: key \"id_2\" (other) is never injected",
		"a_test.go:2: error: TestG: malformed inject directive: separator not followed by an item",
		"a_test.go:5: error: TestF: key \"id_1\" injected twice",
		"a_test.go:5: error: TestF: key \"id_9\" is injected but no mock directive declares it",
		"b.go:7: error: g: key \"id_1\" declared as \"func(int) string\" here and as \"func(uint32) string\" at a.go:3",
	}))
	g.Expect(check.Failed(findings)).To(BeTrue())
}

func TestRun_StrictPromotesWarnings(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dirs := []directive.Directive{
		mockDir("a.go", 3, "f", attr.MockMatch{Identifier: "id_1", FunctionToMock: "db", FunctionSignature: "func()"}),
	}

	g.Expect(check.Failed(check.Run(dirs, check.Options{}))).To(BeFalse())

	strict := check.Run(dirs, check.Options{Strict: true})
	g.Expect(strict).To(HaveLen(1))
	g.Expect(strict[0].Severity).To(Equal(check.SeverityError))
	g.Expect(check.Failed(strict)).To(BeTrue())
}

func mockDir(file string, line int, fn string, mocks ...attr.MockMatch) directive.Directive {
	return directive.Directive{
		Pos:   token.Position{Filename: file, Line: line},
		Func:  fn,
		Kind:  directive.KindMock,
		Mocks: mocks,
	}
}

func injectDir(file string, line int, fn string, injects ...attr.InjectMatch) directive.Directive {
	return directive.Directive{
		Pos:     token.Position{Filename: file, Line: line},
		Func:    fn,
		Kind:    directive.KindInject,
		Injects: injects,
	}
}
