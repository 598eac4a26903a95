package dto

// Summary is the pivot of all ratings: one row per rated image, one pair
// of columns per user. Cells without a value are absent from the row.
type Summary struct {
	Headers []string         `json:"headers"`
	Rows    []map[string]any `json:"rows"`
}

// Fixed summary columns preceding the per-user rating columns.
const (
	SummaryImageID  = "Image ID"
	SummaryFilename = "Filename"
)
