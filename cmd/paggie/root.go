package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paggie/trainer-app/internal/config"
	"paggie/trainer-app/internal/logging"
)

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "paggie",
	Short: "Personal trainer workspace server",
	Long: `Paggie serves the trainer workspace: student assessments, anamnesis,
physical assessments, training plans, printable reports and the
ChatPAGGIE assistant.

QUICK START:

  $ paggie renderer install    # Download Chromium for PDF export
  $ paggie serve               # Start the HTTP API on :8080
  $ paggie library -c Peito    # Browse the built-in exercise catalog

CONFIGURATION:

  Settings are read from config.yaml in --config and from environment
  variables (SERVER_ADDRESS, DATABASE_URI, JWT_SECRET, AI_API_KEY, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logging.Setup(logging.LoggerSetupParams{
			LogFileName:   cfg.Log.File,
			LogToStdout:   cfg.Log.Stdout,
			LogLevel:      cfg.Log.Level,
			LogFormatJSON: cfg.Log.JSON,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory holding config.yaml")
	rootCmd.AddCommand(serveCmd, libraryCmd, rendererCmd)
}
