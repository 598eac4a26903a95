// Package export renders the ratings summary as CSV.
package export

import (
	"fmt"
	"io"
	"strings"

	"imagerater/internal/dto"
)

// Filename is the suggested name of a downloaded summary.
const Filename = "ratings_summary.csv"

// WriteCSV writes the summary as CSV. The header line is written as-is;
// every present cell is quoted with embedded quotes doubled and a missing
// cell is left empty. Lines are separated by "\n" with no trailing newline
// after the last row.
func WriteCSV(w io.Writer, summary *dto.Summary) error {
	var b strings.Builder

	b.WriteString(strings.Join(summary.Headers, ","))
	b.WriteByte('\n')

	for i, row := range summary.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, header := range summary.Headers {
			if j > 0 {
				b.WriteByte(',')
			}
			value, ok := row[header]
			if !ok || value == nil {
				continue
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(fmt.Sprint(value), `"`, `""`))
			b.WriteByte('"')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
