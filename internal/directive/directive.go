// Package directive finds mockme declarations written as comment directives
// on Go function declarations:
//
//	//mockme:mock(id_1 = "external_db_call: func(uint32) string")
//	func mySuperCoolFunction() string { ... }
//
//	//mockme:inject id_1 = "dbFake", id_2 = "otherFake"
//	func TestSuperCool(t *testing.T) { ... }
//
// The wrapping parentheses are optional and are stripped here; the list
// itself is decoded by package attr.
package directive

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/toejough/mockme/internal/attr"
)

// Kind identifies the directive's list shape.
type Kind int

// Kind values.
const (
	KindMock Kind = iota
	KindInject
)

func (k Kind) String() string {
	switch k {
	case KindMock:
		return "mock"
	case KindInject:
		return "inject"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Exported variables.
var (
	ErrUnbalancedParens = errors.New("unbalanced parentheses around directive arguments")
)

// Directive is one comment directive attached to a function declaration.
// Err is set, and the match slices are nil, when the arguments are malformed.
type Directive struct {
	Pos     token.Position
	Func    string
	Kind    Kind
	Text    string
	Mocks   []attr.MockMatch
	Injects []attr.InjectMatch
	Err     error
}

// Keys returns the identifiers the directive declares, in order.
func (d Directive) Keys() []string {
	keys := make([]string, 0, len(d.Mocks)+len(d.Injects))

	for _, m := range d.Mocks {
		keys = append(keys, m.Identifier)
	}

	for _, m := range d.Injects {
		keys = append(keys, m.Identifier)
	}

	return keys
}

// ScanFile parses Go source and returns its directives in source order. A
// malformed directive does not stop the scan; it is returned with Err set.
// Only Go syntax errors are returned as an error.
func ScanFile(filename string, src []byte) ([]Directive, error) {
	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)

	file, err := dec.ParseFile(filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	var directives []Directive

	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*dst.FuncDecl)
		if !ok {
			continue
		}

		pos := fset.Position(dec.Ast.Nodes[funcDecl].Pos())

		for _, line := range funcDecl.Decs.Start {
			kind, text, found := cut(line)
			if !found {
				continue
			}

			directives = append(directives, build(pos, funcName(funcDecl), kind, text))
		}
	}

	return directives, nil
}

// unexported constants.
const (
	prefix = "//mockme:"
)

func build(pos token.Position, fn string, kind Kind, text string) Directive {
	dir := Directive{Pos: pos, Func: fn, Kind: kind, Text: text}

	inner, err := unwrap(text)
	if err != nil {
		dir.Err = err

		return dir
	}

	switch kind {
	case KindMock:
		dir.Mocks, dir.Err = attr.ParseMock(inner)
	case KindInject:
		dir.Injects, dir.Err = attr.ParseInject(inner)
	}

	return dir
}

// cut splits a `//mockme:<kind><args>` comment line. found is false for any
// other comment, including unknown mockme verbs.
func cut(line string) (Kind, string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), prefix)
	if !ok {
		return 0, "", false
	}

	for _, kind := range []Kind{KindMock, KindInject} {
		args, ok := strings.CutPrefix(rest, kind.String())
		if !ok {
			continue
		}

		// Require a boundary so that "//mockme:mocked" is not a mock directive.
		if args != "" && args[0] != '(' && args[0] != ' ' && args[0] != '\t' {
			continue
		}

		return kind, strings.TrimSpace(args), true
	}

	return 0, "", false
}

// funcName returns Recv.Name for methods and Name otherwise.
func funcName(decl *dst.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return decl.Name.Name
	}

	recv := decl.Recv.List[0].Type
	if star, ok := recv.(*dst.StarExpr); ok {
		recv = star.X
	}

	switch typ := recv.(type) {
	case *dst.Ident:
		return typ.Name + "." + decl.Name.Name
	case *dst.IndexExpr:
		if ident, ok := typ.X.(*dst.Ident); ok {
			return ident.Name + "." + decl.Name.Name
		}
	case *dst.IndexListExpr:
		if ident, ok := typ.X.(*dst.Ident); ok {
			return ident.Name + "." + decl.Name.Name
		}
	}

	return decl.Name.Name
}

// unwrap strips one pair of enclosing parentheses, if present.
func unwrap(text string) (string, error) {
	hasOpen := strings.HasPrefix(text, "(")
	hasClose := strings.HasSuffix(text, ")")

	switch {
	case hasOpen && len(text) >= 2 && hasClose:
		return text[1 : len(text)-1], nil
	case hasOpen:
		return "", fmt.Errorf("%w: %s", ErrUnbalancedParens, text)
	default:
		return text, nil
	}
}
