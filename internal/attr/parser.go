package attr

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// unexported constants.
const (
	eof       rune = -1
	quote     rune = '"'
	separator rune = ','
)

// parser is a single-pass cursor over attribute text. It never backtracks and
// looks at most one rune ahead.
type parser struct {
	input string
	pos   int
}

// expect consumes want or fails without moving the cursor.
func (p *parser) expect(want rune) error {
	got := p.peek()
	if got == want {
		p.next()

		return nil
	}

	return p.fail(errFor(got), strconv.QuoteRune(want))
}

func (p *parser) fail(err error, want string) *ParseError {
	got := p.peek()

	desc := "end of input"
	if got != eof {
		desc = strconv.QuoteRune(got)
	}

	return &ParseError{Offset: p.pos, Want: want, Got: desc, Err: err}
}

// identifier consumes a non-empty run of letters, digits and underscores.
func (p *parser) identifier(what string) (string, error) {
	ident := p.takeWhile(isIdentRune)
	if ident == "" {
		err := p.fail(ErrEmptyIdentifier, what)
		if p.peek() == eof {
			err.Err = ErrUnexpectedEOF
		}

		return "", err
	}

	return ident, nil
}

// injectItem parses `ident = "name"`.
func (p *parser) injectItem() (InjectMatch, error) {
	ident, name, err := p.keyAndName()
	if err != nil {
		return InjectMatch{}, err
	}

	p.skipSpace()

	err = p.expect(quote)
	if err != nil {
		return InjectMatch{}, err
	}

	return InjectMatch{Identifier: ident, FunctionToMock: name}, nil
}

// keyAndName parses the shared `ident = "name` prefix of both item kinds.
func (p *parser) keyAndName() (string, string, error) {
	ident, err := p.identifier("identifier")
	if err != nil {
		return "", "", err
	}

	p.skipSpace()

	err = p.expect('=')
	if err != nil {
		return "", "", err
	}

	p.skipSpace()

	err = p.expect(quote)
	if err != nil {
		return "", "", err
	}

	p.skipSpace()

	name, err := p.identifier("function name")
	if err != nil {
		return "", "", err
	}

	return ident, name, nil
}

// mockItem parses `ident = "name: signature"`. The signature is everything up
// to the closing quote, trimmed.
func (p *parser) mockItem() (MockMatch, error) {
	ident, name, err := p.keyAndName()
	if err != nil {
		return MockMatch{}, err
	}

	p.skipSpace()

	err = p.expect(':')
	if err != nil {
		return MockMatch{}, err
	}

	p.skipSpace()

	sigStart := p.pos
	sig := strings.TrimRightFunc(p.takeWhile(func(r rune) bool { return r != quote }), unicode.IsSpace)

	if p.peek() == eof {
		return MockMatch{}, p.fail(ErrUnexpectedEOF, strconv.QuoteRune(quote))
	}

	if sig == "" {
		return MockMatch{}, &ParseError{Offset: sigStart, Want: "function signature", Err: ErrEmptySignature}
	}

	err = p.expect(quote)
	if err != nil {
		return MockMatch{}, err
	}

	return MockMatch{Identifier: ident, FunctionToMock: name, FunctionSignature: sig}, nil
}

func (p *parser) next() {
	_, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += size
}

func (p *parser) peek() rune {
	if p.pos >= len(p.input) {
		return eof
	}

	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])

	return r
}

func (p *parser) skipSpace() {
	p.takeWhile(unicode.IsSpace)
}

// takeWhile consumes the maximal run of runes satisfying pred.
func (p *parser) takeWhile(pred func(rune) bool) string {
	start := p.pos

	for r := p.peek(); r != eof && pred(r); r = p.peek() {
		p.next()
	}

	return p.input[start:p.pos]
}

func errFor(got rune) error {
	if got == eof {
		return ErrUnexpectedEOF
	}

	return ErrUnexpectedChar
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// parseList drives item over a comma separated list.
func parseList[T any](text string, item func(*parser) (T, error)) ([]T, error) {
	p := &parser{input: text}
	result := make([]T, 0)

	p.skipSpace()

	if p.peek() == eof {
		return result, nil
	}

	for {
		match, err := item(p)
		if err != nil {
			return nil, err
		}

		result = append(result, match)

		p.skipSpace()

		switch p.peek() {
		case eof:
			return result, nil
		case separator:
			p.next()
			p.skipSpace()

			if p.peek() == eof {
				return nil, p.fail(ErrDanglingSeparator, "identifier")
			}
		default:
			return nil, p.fail(ErrTrailingInput, strconv.QuoteRune(separator)+" or end of input")
		}
	}
}
