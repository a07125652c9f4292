// mockcheck reports problems in mockme directives. Install it with
// `go install github.com/toejough/mockme/mockcheck@latest` and run it from a
// module root: `mockcheck ./...`. It exits non-zero when a directive is
// malformed or the mock and inject declarations disagree.
package main

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/toejough/mockme/mockcheck/run"
)

// main is the entry point of the mockcheck tool.
func main() {
	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, os.Stdout, os.Stderr)
	if err != nil {
		if !errors.Is(err, run.ErrFindings) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(1)
	}
}

// realFileSystem implements run.FileSystem using the os package.
type realFileSystem struct{}

// Glob returns the files under root matching pattern.
func (fs *realFileSystem) Glob(root, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob failed for pattern %s in %s: %w", pattern, root, err)
	}

	for i, match := range matches {
		matches[i] = path.Join(root, match)
	}

	return matches, nil
}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}
