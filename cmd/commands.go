package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/opener/internal/command"
	"github.com/zjrosen/opener/internal/presentation"
)

var commandsListJSON bool

var commandsListCmd = &cobra.Command{
	Use:   "commands:list",
	Short: "List all registered commands",
	Long: `List the registered commands sorted by alias. The default command,
used when no association matches, is marked with an asterisk.

Examples:
  opener commands:list
  opener commands:list --json | jq '.[] | select(.kind == "other")'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadForRead(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		dtos := presentation.FromCommands(a.commands)
		if commandsListJSON {
			return formatter.FormatJSON(dtos)
		}
		return formatter.FormatCommands(dtos)
	},
}

var (
	commandsAddDisplay string
	commandsAddSystem  bool
	commandsAddForce   bool
)

var commandsAddCmd = &cobra.Command{
	Use:   "commands:add <alias> <template>",
	Short: "Add a custom command",
	Long: `Add a command and save it to commands.yaml.

The template is stored as written; $f stands for the file being opened.
Aliases cannot contain whitespace and the template cannot be empty.
Adding an alias that already exists fails unless --force is given.

Examples:
  opener commands:add edit 'vim $f' --display Vim
  opener commands:add open 'xdg-open $f' --force`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadForWrite()
		if err != nil {
			return err
		}
		kind := command.KindOther
		if commandsAddSystem {
			kind = command.KindSystem
		}
		c := command.NewWithDisplayName(args[0], args[1], kind, commandsAddDisplay)
		return runCommandsAdd(cmd.OutOrStdout(), a, c, commandsAddForce)
	},
}

func init() {
	commandsListCmd.Flags().BoolVar(&commandsListJSON, "json", false, "Output as JSON")
	commandsAddCmd.Flags().StringVarP(&commandsAddDisplay, "display", "d", "", "Display name shown in menus")
	commandsAddCmd.Flags().BoolVar(&commandsAddSystem, "system", false, "Mark the command as a system command")
	commandsAddCmd.Flags().BoolVarP(&commandsAddForce, "force", "f", false, "Replace an existing command with the same alias")
	rootCmd.AddCommand(commandsListCmd, commandsAddCmd)
}

func runCommandsAdd(w io.Writer, a *app, c command.Command, force bool) error {
	register := a.commands.RegisterStrict
	if force {
		register = a.commands.Register
	}
	if err := register(c); err != nil {
		return err
	}
	if err := a.engine.SaveCommands(); err != nil {
		return err
	}

	path, err := a.engine.CommandsFile()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Saved %s to %s\n", c.Alias(), path)
	return err
}
