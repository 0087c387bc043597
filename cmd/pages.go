/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"

	"github.com/leadbase/apiserver/internal/storage"
	"github.com/leadbase/apiserver/web"
	"github.com/spf13/cobra"
)

// pagesCmd represents the pages command.
var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Manage the session-gated HTML pages",
}

var pagesPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the built-in pages to the configured bucket",
	Long: `Uploads admin.html and relatorios.html to the bucket selected by
PAGES_BACKEND (minio or gcs), under PAGES_PREFIX.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Pages.Backend == "embedded" {
			return errors.New("PAGES_BACKEND is embedded; nothing to publish")
		}

		pages, err := storage.Open(cmd.Context(), cfg.Pages, web.Pages())
		if err != nil {
			return err
		}
		defer pages.Close()

		keys, err := pages.Publish(cmd.Context(), web.Pages())
		if err != nil {
			return err
		}
		for _, key := range keys {
			log.WithField("bucket", pages.Bucket()).WithField("key", key).Info("page published")
		}
		return nil
	},
}

var pagesUnpublishCmd = &cobra.Command{
	Use:   "unpublish",
	Short: "Remove the built-in pages from the configured bucket",
	Long: `Deletes admin.html and relatorios.html from the bucket selected by
PAGES_BACKEND (minio or gcs), under PAGES_PREFIX. The gated routes answer
404 until the pages are published again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Pages.Backend == "embedded" {
			return errors.New("PAGES_BACKEND is embedded; nothing to unpublish")
		}

		pages, err := storage.Open(cmd.Context(), cfg.Pages, web.Pages())
		if err != nil {
			return err
		}
		defer pages.Close()

		keys, err := pages.Unpublish(cmd.Context(), web.Pages())
		for _, key := range keys {
			log.WithField("bucket", pages.Bucket()).WithField("key", key).Info("page removed")
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.AddCommand(pagesPublishCmd)
	pagesCmd.AddCommand(pagesUnpublishCmd)
}
