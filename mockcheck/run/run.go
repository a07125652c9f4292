// Package run implements the mockcheck command in a testable way.
package run

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/toejough/mockme/internal/check"
	"github.com/toejough/mockme/internal/directive"
)

// Exported variables.
var (
	ErrFindings = errors.New("mockme directives have errors")
)

// FileSystem is what mockcheck needs from the file system. Paths use forward
// slashes.
type FileSystem interface {
	// Glob returns the files under root matching a doublestar pattern, as
	// paths joined onto root.
	Glob(root, pattern string) ([]string, error)
	ReadFile(name string) ([]byte, error)
}

// Run executes mockcheck. args includes the program name. It returns
// ErrFindings when the check fails, so that main can exit non-zero.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, stdout, stderr io.Writer) error {
	cmd := newRootCmd(getEnv, fileSys)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	cmd.SetArgs(cmdArgs)

	return cmd.Execute()
}

type flags struct {
	config  string
	exclude []string
	list    bool
	strict  bool
	verbose bool
}

func newRootCmd(getEnv func(string) string, fileSys FileSystem) *cobra.Command {
	var opts flags

	cmd := &cobra.Command{
		Use:   "mockcheck [patterns...]",
		Short: "Check mockme directives",
		Long: `mockcheck scans Go files for //mockme:mock and //mockme:inject directives
and reports malformed argument lists, duplicate keys, injected keys that no
mock declares, and mocks that are never injected.

Patterns follow the go tool's style:
  ./...          every .go file under the current directory
  ./pkg/...      every .go file under pkg
  ./pkg          .go files directly in pkg
  file.go        a single file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

			cfg, err := resolveConfig(cmd, opts, getEnv, fileSys)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = []string{"./..."}
			}

			dirs, err := scan(fileSys, args, cfg.Exclude, logger)
			if err != nil {
				return err
			}

			if opts.list {
				return writeList(cmd.OutOrStdout(), dirs)
			}

			findings := check.Run(dirs, check.Options{Strict: cfg.Strict})

			return report(cmd.OutOrStdout(), findings)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file (default $"+configEnv+" or "+defaultConfigPath+")")
	cmd.Flags().StringArrayVarP(&opts.exclude, "exclude", "x", nil, "exclude files matching a doublestar pattern (can be repeated)")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "list directives instead of checking them")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "treat warnings as errors")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	return cmd
}

// expandPattern maps a go-style package pattern to a glob root and pattern.
func expandPattern(arg string) (string, string) {
	arg = path.Clean(arg)

	switch {
	case arg == "...":
		return ".", "**/*.go"
	case strings.HasSuffix(arg, "/..."):
		return strings.TrimSuffix(arg, "/..."), "**/*.go"
	case strings.HasSuffix(arg, ".go"):
		return path.Dir(arg), path.Base(arg)
	default:
		return arg, "*.go"
	}
}

func excluded(name string, patterns []string, logger *slog.Logger) bool {
	for _, pattern := range patterns {
		match, err := doublestar.Match(pattern, name)
		if err != nil {
			logger.Warn("bad exclude pattern", "pattern", pattern, "error", err)

			continue
		}

		if match {
			return true
		}
	}

	return false
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func report(w io.Writer, findings []check.Finding) error {
	errCount, warnCount := 0, 0

	for _, f := range findings {
		fmt.Fprintln(w, f)

		if f.Severity == check.SeverityError {
			errCount++
		} else {
			warnCount++
		}
	}

	if len(findings) > 0 {
		fmt.Fprintf(w, "%d error(s), %d warning(s)\n", errCount, warnCount)
	}

	if check.Failed(findings) {
		return ErrFindings
	}

	return nil
}

// resolveConfig layers the config file under explicitly set flags.
func resolveConfig(cmd *cobra.Command, opts flags, getEnv func(string) string, fileSys FileSystem) (Config, error) {
	configPath, required := opts.config, true
	if configPath == "" {
		configPath = getEnv(configEnv)
	}

	if configPath == "" {
		configPath, required = defaultConfigPath, false
	}

	cfg, err := LoadConfig(fileSys, configPath, required)
	if err != nil {
		return Config{}, err
	}

	if cmd.Flags().Changed("strict") {
		cfg.Strict = opts.strict
	}

	cfg.Exclude = append(cfg.Exclude, opts.exclude...)

	return cfg, nil
}

func scan(fileSys FileSystem, patterns, exclude []string, logger *slog.Logger) ([]directive.Directive, error) {
	var files []string

	for _, arg := range patterns {
		root, pattern := expandPattern(arg)

		matches, err := fileSys.Glob(root, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %s: %w", arg, err)
		}

		files = append(files, matches...)
	}

	slices.Sort(files)
	files = slices.Compact(files)

	var dirs []directive.Directive

	for _, name := range files {
		if excluded(name, exclude, logger) {
			logger.Debug("excluded", "file", name)

			continue
		}

		src, err := fileSys.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		found, err := directive.ScanFile(name, src)
		if err != nil {
			logger.Warn("skipping file", "file", name, "error", err)

			continue
		}

		logger.Debug("scanned", "file", name, "directives", len(found))

		dirs = append(dirs, found...)
	}

	return dirs, nil
}

func writeList(w io.Writer, dirs []directive.Directive) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Position", "Func", "Kind", "Key", "Function", "Signature"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, d := range dirs {
		pos := d.Pos.Filename + ":" + strconv.Itoa(d.Pos.Line)

		if d.Err != nil {
			table.Append([]string{pos, d.Func, d.Kind.String(), "", "", "error: " + d.Err.Error()})

			continue
		}

		for _, m := range d.Mocks {
			table.Append([]string{pos, d.Func, d.Kind.String(), m.Identifier, m.FunctionToMock, m.FunctionSignature})
		}

		for _, m := range d.Injects {
			table.Append([]string{pos, d.Func, d.Kind.String(), m.Identifier, m.FunctionToMock, ""})
		}
	}

	table.Render()

	return nil
}
