package main

import (
	"github.com/spf13/cobra"
)

var flagWidth int

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "List the current top headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}

		listing, err := application.Digest.Headlines(cmd.Context())
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write([]byte(renderListing(listing.Visible(), flagWidth)))
		return err
	},
}

func init() {
	headlinesCmd.Flags().IntVar(&flagWidth, "width", 80, "maximum title width in columns")
}
