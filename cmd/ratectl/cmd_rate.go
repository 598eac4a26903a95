package main

import (
	"fmt"
	"strconv"
	"strings"

	"imagerater/internal/rater"

	"github.com/spf13/cobra"
)

var ratePage int

// rateCmd records edits on one page and submits them
var rateCmd = &cobra.Command{
	Use:   "rate ID:FIELD=VALUE...",
	Short: "Rate images on a page",
	Long: `Rate images on a page and submit the ratings.

Each argument sets one rating, for example "12:1=2" sets rating 1 of image
12 to 2. A rating not given falls back to the one already stored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		if err := session.Load(cmd.Context(), rater.Location{Page: ratePage}); err != nil {
			return err
		}

		for _, arg := range args {
			id, field, value, err := parseAssignment(arg)
			if err != nil {
				return err
			}
			if err := session.RecordEdit(id, field, value); err != nil {
				return err
			}
		}

		report, err := session.Submit(cmd.Context())
		printReport(cmd.OutOrStdout(), report)
		return err
	},
}

func init() {
	rateCmd.Flags().IntVarP(&ratePage, "page", "p", 1, "Page the images are on")
}

// parseAssignment parses "ID:FIELD=VALUE".
func parseAssignment(s string) (int64, rater.Field, int, error) {
	target, value, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid rating %q: expected ID:FIELD=VALUE", s)
	}
	idText, fieldText, ok := strings.Cut(target, ":")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid rating %q: expected ID:FIELD=VALUE", s)
	}

	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid image id %q", idText)
	}
	field, err := rater.ParseField(fieldText)
	if err != nil {
		return 0, 0, 0, err
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid rating value %q", value)
	}
	return id, field, v, nil
}
