//go:build mutation

package mockme

import (
	"testing"

	"github.com/gtramontina/ooze"
)

func TestMutation(t *testing.T) {
	ooze.Release(
		t,
		ooze.WithTestCommand("go test -count=1 -timeout=60s ./..."),
		ooze.Parallel(),
		ooze.IgnoreSourceFiles("^dev/.*|^mockcheck/main.go|.*_test.go"),
		ooze.WithMinimumThreshold(0.90),
		ooze.WithRepositoryRoot("."),
		ooze.ForceColors(),
	)
}
