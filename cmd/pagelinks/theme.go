package main

import (
	"fmt"

	"github.com/aellingwood/pagelinks/embedded"
	"github.com/aellingwood/pagelinks/internal/scaffold"
	views "github.com/aellingwood/pagelinks/internal/template"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage pagination themes",
	Long:  "Commands for listing, exporting and creating pagination themes.",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes",
	Long:  "List the built-in themes together with any found in the views directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, err := views.NewEngine(embedded.Views, "views", cfg.Views.Path)
		if err != nil {
			return err
		}
		for _, name := range engine.Themes(cfg.Pagination.ViewsPrefix) {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var themeExportCmd = &cobra.Command{
	Use:   "export [theme]",
	Short: "Copy a built-in theme into the views directory",
	Long: `Copy the partials of a built-in theme into the views directory, where
they override the embedded ones. Without an argument the default theme is
exported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		theme := scaffold.DefaultTheme
		if len(args) == 1 {
			theme = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")

		written, err := scaffold.ExportTheme(embedded.Views, theme, cfg.Views.Path, force)
		if err != nil {
			return fmt.Errorf("exporting theme: %w", err)
		}
		for _, p := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d partials of theme %q.\n", len(written), theme)
		return nil
	},
}

var themeNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Start a new theme",
	Long:  "Create a theme directory in the views directory seeded with the default theme's partials.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		slug, err := scaffold.NewTheme(embedded.Views, args[0], cfg.Views.Path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme created: %s (use it with theme: %q)\n", slug, slug)
		return nil
	},
}

func init() {
	themeExportCmd.Flags().BoolP("force", "f", false, "overwrite existing files")

	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeExportCmd)
	themeCmd.AddCommand(themeNewCmd)
	rootCmd.AddCommand(themeCmd)
}
