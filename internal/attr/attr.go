// Package attr decodes mockme attribute argument lists.
//
// Two list shapes are accepted, both comma separated:
//
//	inject: id_1 = "db_fake", id_2 = "other_fake"
//	mock:   id_1 = "external_db_call: func(uint32) string"
//
// Callers strip any wrapping delimiters (parentheses) before parsing.
package attr

import (
	"errors"
	"fmt"
	"strings"
)

// Exported variables.
var (
	ErrDanglingSeparator = errors.New("separator not followed by an item")
	ErrEmptyIdentifier   = errors.New("empty identifier")
	ErrEmptySignature    = errors.New("empty function signature")
	ErrTrailingInput     = errors.New("unexpected input after last item")
	ErrUnexpectedChar    = errors.New("unexpected character")
	ErrUnexpectedEOF     = errors.New("unexpected end of input")
)

// InjectMatch binds a mocking key to the name of its replacement function.
type InjectMatch struct {
	Identifier     string
	FunctionToMock string
}

// String renders the match in canonical attribute form.
func (m InjectMatch) String() string {
	return fmt.Sprintf("%s=%q", m.Identifier, m.FunctionToMock)
}

// MockMatch binds a mocking key to a mockable call-site symbol and the
// signature its replacement must have.
type MockMatch struct {
	Identifier        string
	FunctionToMock    string
	FunctionSignature string
}

// String renders the match in canonical attribute form.
func (m MockMatch) String() string {
	return fmt.Sprintf("%s=\"%s: %s\"", m.Identifier, m.FunctionToMock, m.FunctionSignature)
}

// ParseError describes where and why an attribute list failed to parse.
// It unwraps to one of the package's sentinel errors.
type ParseError struct {
	Offset int
	Want   string
	Got    string
	Err    error
}

func (e *ParseError) Error() string {
	var msg strings.Builder

	fmt.Fprintf(&msg, "attr: offset %d: %v", e.Offset, e.Err)

	if e.Want != "" {
		fmt.Fprintf(&msg, ": want %s", e.Want)
	}

	if e.Got != "" {
		fmt.Fprintf(&msg, ", got %s", e.Got)
	}

	return msg.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatInject renders matches as an inject list that ParseInject accepts.
func FormatInject(matches []InjectMatch) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.String())
	}

	return strings.Join(parts, ", ")
}

// FormatMock renders matches as a mock list that ParseMock accepts.
func FormatMock(matches []MockMatch) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.String())
	}

	return strings.Join(parts, ", ")
}

// ParseInject parses an inject list. Matches are returned in input order.
// Whitespace-only input yields an empty, non-nil slice.
func ParseInject(text string) ([]InjectMatch, error) {
	return parseList(text, (*parser).injectItem)
}

// ParseMock parses a mock list. Matches are returned in input order.
// Whitespace-only input yields an empty, non-nil slice.
func ParseMock(text string) ([]MockMatch, error) {
	return parseList(text, (*parser).mockItem)
}
