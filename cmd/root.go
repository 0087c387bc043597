/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/leadbase/apiserver/config"
	"github.com/leadbase/apiserver/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "leadbase",
	Short: "Lead management backend",
	Long: `leadbase serves the lead intake form, the authenticated lead
administration pages and the JSON API behind them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration and builds the logger
// every subcommand shares.
func loadConfig() (config.Config, *logrus.Logger, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return cfg, nil, fmt.Errorf("configure logging: %w", err)
	}
	return cfg, log, nil
}
