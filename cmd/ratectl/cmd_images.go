package main

import (
	"imagerater/internal/rater"

	"github.com/spf13/cobra"
)

var (
	imagesPage int
	imagesFind string
)

// imagesCmd prints one page of images
var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Show a page of images with their ratings",
	Long: `Show a page of images with their ratings.

--find jumps to the page holding the first image whose filename contains
the text; it takes precedence over --page.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		if err := session.Load(cmd.Context(), rater.Location{Page: imagesPage, Filename: imagesFind}); err != nil {
			return err
		}
		printPage(cmd.OutOrStdout(), session)
		return nil
	},
}

func init() {
	imagesCmd.Flags().IntVarP(&imagesPage, "page", "p", 1, "Page to show")
	imagesCmd.Flags().StringVar(&imagesFind, "find", "", "Jump to the page containing this filename")
}
