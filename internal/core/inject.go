package core

import (
	"fmt"

	"github.com/toejough/mockme/internal/attr"
)

// Symbols names the replacement functions an inject list may refer to.
type Symbols map[string]any

// Inject stores, for every match, the function named by FunctionToMock under
// the match's Identifier. It stops at the first failure; keys set before the
// failure stay set until the scope is released.
func Inject(scope *Scope, matches []attr.InjectMatch, symbols Symbols) error {
	for _, match := range matches {
		fn, ok := symbols[match.FunctionToMock]
		if !ok {
			return fmt.Errorf("%w: %q for key %q", ErrUnknownSymbol, match.FunctionToMock, match.Identifier)
		}

		err := scope.Set(match.Identifier, fn)
		if err != nil {
			return fmt.Errorf("injecting %s: %w", match, err)
		}
	}

	return nil
}

// InjectText parses an inject list and injects it.
func InjectText(scope *Scope, text string, symbols Symbols) error {
	matches, err := attr.ParseInject(text)
	if err != nil {
		return fmt.Errorf("parsing inject list: %w", err)
	}

	return Inject(scope, matches, symbols)
}
