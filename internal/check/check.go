// Package check cross-checks mockme directives across a set of files.
package check

import (
	"cmp"
	"fmt"
	"go/token"
	"slices"
	"strings"

	"github.com/toejough/mockme/internal/directive"
)

// Severity ranks a finding.
type Severity int

// Severity values.
const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}

	return "warning"
}

// Finding is one problem found in the directives.
type Finding struct {
	Pos      token.Position
	Func     string
	Severity Severity
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s: %s", f.Pos, f.Severity, f.Func, f.Message)
}

// Options tunes the check.
type Options struct {
	// Strict promotes warnings to errors.
	Strict bool
}

// Failed reports whether findings contain an error.
func Failed(findings []Finding) bool {
	return slices.ContainsFunc(findings, func(f Finding) bool {
		return f.Severity == SeverityError
	})
}

// Run checks dirs and returns findings sorted by position.
//
// Errors: a directive whose arguments do not parse; a key repeated within
// one inject directive (it would fail at injection time); an inject key that
// no mock directive declares; a key declared by mock directives with two
// different signatures.
//
// Warnings: a mock key that no inject directive ever sets.
func Run(dirs []directive.Directive, opts Options) []Finding {
	var findings []Finding

	report := func(d directive.Directive, sev Severity, format string, args ...any) {
		if opts.Strict {
			sev = SeverityError
		}

		findings = append(findings, Finding{
			Pos:      d.Pos,
			Func:     d.Func,
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	declared := make(map[string]declaration)
	injected := make(map[string]bool)

	for _, d := range dirs {
		if d.Err != nil {
			report(d, SeverityError, "malformed %s directive: %v", d.Kind, d.Err)

			continue
		}

		for _, m := range d.Mocks {
			prev, seen := declared[m.Identifier]
			if !seen {
				declared[m.Identifier] = declaration{dir: d, signature: m.FunctionSignature}

				continue
			}

			if stripSpace(prev.signature) != stripSpace(m.FunctionSignature) {
				report(d, SeverityError, "key %q declared as %q here and as %q at %s",
					m.Identifier, m.FunctionSignature, prev.signature, prev.dir.Pos)
			}
		}

		seen := make(map[string]bool, len(d.Injects))

		for _, m := range d.Injects {
			if seen[m.Identifier] {
				report(d, SeverityError, "key %q injected twice", m.Identifier)
			}

			seen[m.Identifier] = true
			injected[m.Identifier] = true
		}
	}

	for _, d := range dirs {
		for _, m := range d.Injects {
			if _, ok := declared[m.Identifier]; !ok {
				report(d, SeverityError, "key %q is injected but no mock directive declares it", m.Identifier)
			}
		}
	}

	warned := make(map[string]bool)

	for _, d := range dirs {
		for _, m := range d.Mocks {
			if injected[m.Identifier] || warned[m.Identifier] {
				continue
			}

			warned[m.Identifier] = true
			report(d, SeverityWarning, "key %q (%s) is never injected", m.Identifier, m.FunctionToMock)
		}
	}

	slices.SortStableFunc(findings, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.Pos.Filename, b.Pos.Filename),
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Column, b.Pos.Column),
		)
	})

	return findings
}

type declaration struct {
	dir       directive.Directive
	signature string
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
