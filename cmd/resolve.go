package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/zjrosen/opener/internal/command"
	"github.com/zjrosen/opener/internal/fileinfo"
	"github.com/zjrosen/opener/internal/filter"
	"github.com/zjrosen/opener/internal/presentation"
)

var (
	resolveJSON       bool
	resolveNoFallback bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>...",
	Short: "Show which command opens each file",
	Long: `Resolve each file to the command that opens it.

Rules are tried in order and the first match wins:
  1. your associations (associations.xml), in the order they were added
  2. the platform's system associations
  3. the default "open" command
  4. running the file itself, unless disabled

Files that do not exist are matched by name only.

Examples:
  opener resolve report.pdf
  opener resolve ./build.sh --no-fallback
  opener resolve *.txt --json | jq '.[].command'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadForRead(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		allow := cfg.AllowExecutableFallback && !resolveNoFallback
		return runResolve(cmd.OutOrStdout(), a.resolver, args, allow, resolveJSON)
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output as JSON")
	resolveCmd.Flags().BoolVar(&resolveNoFallback, "no-fallback", false, "Never fall back to running the file itself")
	rootCmd.AddCommand(resolveCmd)
}

// snapshot stats path, falling back to a name-only snapshot for files that
// do not exist.
func snapshot(path string) (filter.File, error) {
	f, err := fileinfo.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileinfo.Named(path), nil
	}
	return f, err
}

func runResolve(w io.Writer, resolver *command.Resolver, files []string, allowFallback, asJSON bool) error {
	results := make([]presentation.ResolutionDTO, 0, len(files))
	for _, path := range files {
		f, err := snapshot(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		c, src := resolver.Explain(f, allowFallback)
		results = append(results, presentation.FromResolution(path, c, src))
	}

	formatter := presentation.NewFormatter(w)
	if asJSON {
		return formatter.FormatJSON(results)
	}
	return formatter.FormatResolutions(results)
}
