package main

import (
	"fmt"

	"github.com/aellingwood/pagelinks/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "pagelinks",
	Short: "Pagination links for Go web applications",
	Long: `pagelinks renders pagination controls (first, previous, numbered pages,
gaps, next and last) from themable templates and translated labels.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "pagelinks.yaml", "path to config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the --config file, falling back to the defaults when it
// does not exist.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, configPath, nil
}

// newLogger builds a console logger. --verbose lowers the level to debug.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	zc := zap.NewDevelopmentConfig()
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zc.DisableStacktrace = true
		zc.DisableCaller = true
	}
	return zc.Build()
}
