package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zjrosen/opener/internal/filter"
	"github.com/zjrosen/opener/internal/presentation"
)

var associationsListJSON bool

var associationsListCmd = &cobra.Command{
	Use:   "associations:list",
	Short: "List user and system associations",
	Long: `List associations in the order the resolver tries them: your associations
first, then the platform's system associations.

Examples:
  opener associations:list
  opener associations:list --json | jq '.[] | select(.source == "user")'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadForRead(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		dtos := presentation.FromAssociations(a.associations)
		if associationsListJSON {
			return formatter.FormatJSON(dtos)
		}
		return formatter.FormatAssociations(dtos)
	},
}

var associationsAddCmd = &cobra.Command{
	Use:   "associations:add <alias>",
	Short: "Route matching files to a command",
	Long: `Append an association to associations.xml. A file matches when it
satisfies every given condition; with no conditions every file matches.

Masks use glob syntax ("*.sh", "*.{jpg,png}") unless prefixed with
"regexp:", in which case the expression must match the whole file name.

Examples:
  opener associations:add edit --mask '*.txt'
  opener associations:add run --mask '*.sh' --executable
  opener associations:add view --mask 'regexp:README(\.md)?' --case-sensitive
  opener associations:add edit --hidden=false --writable`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instructions, err := instructionsFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		a, err := loadForWrite()
		if err != nil {
			return err
		}
		return runAssociationsAdd(cmd.OutOrStdout(), a, args[0], instructions)
	},
}

var associationsRemoveCmd = &cobra.Command{
	Use:   "associations:remove <index>",
	Short: "Remove a user association",
	Long: `Remove the user association at the given index, as shown by
associations:list. System associations cannot be removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		a, err := loadForWrite()
		if err != nil {
			return err
		}
		if err := a.associations.RemoveUser(index); err != nil {
			return err
		}
		if err := a.engine.SaveAssociations(); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed association %d\n", index)
		return err
	},
}

// attributeFlags maps the boolean condition flags to their instruction
// kinds, in the order the instructions are written.
var attributeFlags = []struct {
	name  string
	kind  filter.InstructionKind
	usage string
}{
	{"hidden", filter.KindHidden, "Match hidden files (--hidden=false for visible only)"},
	{"symlink", filter.KindSymlink, "Match symbolic links (--symlink=false to exclude)"},
	{"readable", filter.KindReadable, "Match readable files"},
	{"writable", filter.KindWritable, "Match writable files"},
	{"executable", filter.KindExecutable, "Match executable files"},
}

func init() {
	associationsListCmd.Flags().BoolVar(&associationsListJSON, "json", false, "Output as JSON")

	addConditionFlags(associationsAddCmd.Flags())

	rootCmd.AddCommand(associationsListCmd, associationsAddCmd, associationsRemoveCmd)
}

func addConditionFlags(flags *pflag.FlagSet) {
	flags.StringP("mask", "m", "", "File name glob, or regexp:<expression>")
	flags.Bool("case-sensitive", false, "Match the mask case-sensitively")
	for _, f := range attributeFlags {
		flags.Bool(f.name, false, f.usage)
	}
}

// instructionsFromFlags turns the flags that were set into filter
// instructions: the mask first, then attributes and permissions.
func instructionsFromFlags(flags *pflag.FlagSet) ([]filter.Instruction, error) {
	var out []filter.Instruction
	if flags.Changed("mask") {
		mask, _ := flags.GetString("mask")
		caseSensitive, _ := flags.GetBool("case-sensitive")
		out = append(out, filter.Instruction{Kind: filter.KindMask, Pattern: mask, CaseSensitive: caseSensitive})
	} else if flags.Changed("case-sensitive") {
		return nil, fmt.Errorf("--case-sensitive requires --mask")
	}

	for _, f := range attributeFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetBool(f.name)
		if err != nil {
			return nil, err
		}
		out = append(out, filter.Instruction{Kind: f.kind, Value: v})
	}
	return out, nil
}

func runAssociationsAdd(w io.Writer, a *app, alias string, instructions []filter.Instruction) error {
	f, err := filter.Build(instructions)
	if err != nil {
		return err
	}
	if err := a.associations.RegisterUser(alias, f); err != nil {
		return err
	}
	if err := a.engine.SaveAssociations(); err != nil {
		return err
	}

	path, err := a.engine.AssociationsFile()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Associated %s (%d condition(s)) in %s\n", alias, len(instructions), path)
	return err
}
