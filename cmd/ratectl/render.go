package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"imagerater/internal/model"
	"imagerater/internal/rater"
)

// printPage writes the displayed page as a table. Values that come from a
// pending edit are marked with "*", unset values are shown as "-".
func printPage(w io.Writer, session *rater.Session) {
	counts := session.Counts()
	fmt.Fprintf(w, "Page %d/%d  filter=%s  total=%d unrated=%d  pending=%d\n",
		session.Page(), session.TotalPages(), session.Filter(), counts.Total, counts.Unrated, session.Pending())

	images := session.Images()
	if len(images) == 0 {
		fmt.Fprintln(w, "There are no images to show.")
		return
	}

	edits := session.Edits()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tIMAGE\tRATING 1\tRATING 2")
	for _, img := range images {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", img.ID, model.Basename(img.Filename),
			cell(session, img, edits, rater.Rating1),
			cell(session, img, edits, rater.Rating2))
	}
	tw.Flush()
}

func cell(session *rater.Session, img model.ImageWithRating, edits map[int64]rater.Edit, field rater.Field) string {
	v, ok := session.EffectiveValue(img, field)
	if !ok {
		return "-"
	}
	s := strconv.Itoa(v)
	if edit, pending := edits[img.ID]; pending {
		if (field == rater.Rating1 && edit.Rating1 != nil) || (field == rater.Rating2 && edit.Rating2 != nil) {
			s += "*"
		}
	}
	return s
}

func printReport(w io.Writer, report *rater.SubmitReport) {
	if report == nil {
		return
	}
	if len(report.Submitted) > 0 {
		fmt.Fprintf(w, "Submitted %d rating(s).\n", len(report.Submitted))
	}
	for _, r := range report.Rejected {
		fmt.Fprintf(w, "Not submitted: %s\n", r)
	}
}
