package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aellingwood/pagelinks/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the theme preview server",
	Long: `Serve paginated demo pages rendered with the configured views and
locales. Pages reload in the browser when a view, locale or the config file
changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, configPath, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		overrides := map[string]any{}
		if cmd.Flags().Changed("port") {
			port, _ := cmd.Flags().GetInt("port")
			overrides["port"] = port
		}
		if cmd.Flags().Changed("bind") {
			bind, _ := cmd.Flags().GetString("bind")
			overrides["host"] = bind
		}
		if cmd.Flags().Changed("theme") {
			theme, _ := cmd.Flags().GetString("theme")
			overrides["theme"] = theme
		}
		if err := cfg.WithOverrides(overrides).Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}
		noLiveReload, _ := cmd.Flags().GetBool("no-live-reload")

		projectRoot, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determining project root: %w", err)
		}

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		srv, err := server.NewServer(cfg, server.ServeOptions{
			ProjectRoot:  projectRoot,
			NoLiveReload: noLiveReload,
			ConfigPath:   filepath.Clean(configPath),
		}, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.Start(ctx); err != nil {
			return err
		}
		logger.Info("shut down")
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 3000, "server port")
	serveCmd.Flags().String("bind", "localhost", "bind address")
	serveCmd.Flags().String("theme", "", "pagination theme used when a page has no ?theme=")
	serveCmd.Flags().Bool("no-live-reload", false, "disable live reload")

	rootCmd.AddCommand(serveCmd)
}
