package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/opener/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert a legacy commands.xml to commands.yaml",
	Long: `Load the store and save it right away. When only the legacy commands.xml
exists, this writes commands.yaml with the same commands; commands.xml is
left untouched. Every other command migrates on its first save too, so this
is only needed to migrate without changing anything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadForWrite()
		if err != nil {
			return err
		}
		return runMigrate(cmd.OutOrStdout(), a)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(w io.Writer, a *app) error {
	if a.format != store.FormatLegacy {
		current, err := a.engine.CommandsFile()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "Nothing to migrate (commands file: %s, format: %s)\n", current, a.format)
		return err
	}

	if err := a.engine.Save(); err != nil {
		return err
	}

	legacy, err := a.engine.LegacyCommandsFile()
	if err != nil {
		return err
	}
	current, err := a.engine.CommandsFile()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Migrated %d commands from %s to %s\n", a.commands.Len(), legacy, current)
	return err
}
