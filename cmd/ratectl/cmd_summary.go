package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"imagerater/internal/dto"
	"imagerater/internal/export"
	"imagerater/internal/model"

	"github.com/spf13/cobra"
)

var (
	summaryCSV    bool
	summaryOutput string
)

// summaryCmd prints or exports the ratings pivot
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show all collected ratings, or export them as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := newClient().Summary(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load summary data: %w", err)
		}

		if !summaryCSV {
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		}

		out := cmd.OutOrStdout()
		if summaryOutput != "" {
			f, err := os.Create(summaryOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return export.WriteCSV(out, summary)
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryCSV, "csv", false, "Write CSV instead of a table")
	summaryCmd.Flags().StringVarP(&summaryOutput, "output", "o", "", "CSV file to write (e.g. "+export.Filename+"), default stdout")
}

// printSummary renders the pivot as a table; missing cells show "-" and
// filenames only their base name.
func printSummary(w io.Writer, summary *dto.Summary) {
	if len(summary.Rows) == 0 {
		fmt.Fprintln(w, "No rating data available.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, h := range summary.Headers {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)

	for _, row := range summary.Rows {
		for i, h := range summary.Headers {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			value, ok := row[h]
			switch {
			case !ok || value == nil:
				fmt.Fprint(tw, "-")
			case h == dto.SummaryFilename:
				fmt.Fprint(tw, model.Basename(fmt.Sprint(value)))
			default:
				fmt.Fprint(tw, value)
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}
