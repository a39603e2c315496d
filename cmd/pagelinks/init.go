package main

import (
	"fmt"

	"github.com/aellingwood/pagelinks/embedded"
	"github.com/aellingwood/pagelinks/internal/scaffold"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter configuration",
	Long: `Write pagelinks.yaml with the default settings, create the views/
directory for theme overrides and copy the built-in locale files into
locales/ so they can be edited.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := scaffold.Init(dir, embedded.Locales); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized pagelinks in %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
