package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"paggie/trainer-app/internal/export"
)

var rendererCmd = &cobra.Command{
	Use:   "renderer",
	Short: "Manage the PDF renderer",
}

var rendererInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Download the playwright driver and Chromium",
	RunE: func(cmd *cobra.Command, args []string) error {
		logrus.Info("installing pdf renderer...")
		if err := export.InstallBrowsers(); err != nil {
			return fmt.Errorf("failed to install renderer: %w", err)
		}
		logrus.Info("pdf renderer installed")
		return nil
	},
}

func init() {
	rendererCmd.AddCommand(rendererInstallCmd)
}
