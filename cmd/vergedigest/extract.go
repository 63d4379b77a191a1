package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"VergeDigest/internal/app"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Print the body text extracted from an article page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()
		fetcher, err := app.NewExtractor(cfg.Extractor, logger)
		if err != nil {
			return err
		}

		body, err := fetcher.Extract(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if body == "" {
			logger.Warn("no extractable content", "url", args[0])
			return nil
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
		return err
	},
}
