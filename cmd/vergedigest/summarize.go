package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"VergeDigest/internal/usecase"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <index>",
	Short: "Summarize the headline at the given 1-based index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index must be a number, got %q", args[0])
		}

		application, err := newApplication()
		if err != nil {
			return err
		}

		article, err := application.Digest.Article(cmd.Context(), index)
		if err != nil {
			return err
		}

		summary, err := application.Digest.Summarize(cmd.Context(), article)
		if errors.Is(err, usecase.ErrNothingToSummarize) {
			return fmt.Errorf("could not find any article text to summarize at %s", article.URL)
		}
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
		return err
	},
}
