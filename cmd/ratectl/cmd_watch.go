package main

import (
	"fmt"

	"imagerater/internal/dto"

	"github.com/spf13/cobra"
)

// watchCmd streams rating events
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print ratings as they are submitted by anyone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return newClient().WatchRatings(cmd.Context(), func(e dto.RatingEvent) {
			fmt.Fprintf(out, "%s rated image %d: %d / %d\n", e.UserName, e.ImageID, e.Rating1, e.Rating2)
		})
	},
}
