package models

import "time"

const (
	ColumnTimestamp    = "Timestamp"
	ColumnSubmissionID = "Submission ID"
)

// Cell is one column of a flat row.
type Cell struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Row is an ordered flat record written to a tabular sheet.
type Row []Cell

// Keys returns the row's column labels in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, c := range r {
		keys[i] = c.Column
	}
	return keys
}

// Values returns the row keyed by column label.
func (r Row) Values() map[string]string {
	values := make(map[string]string, len(r))
	for _, c := range r {
		values[c.Column] = c.Value
	}
	return values
}

// Get returns a cell value by column label.
func (r Row) Get(column string) (string, bool) {
	for _, c := range r {
		if c.Column == column {
			return c.Value, true
		}
	}
	return "", false
}

// Submission is a flattened application ready to append to the primary sheet.
type Submission struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Track       string    `json:"track,omitempty"`
	RollNumber  string    `json:"roll_number,omitempty"`
	Row         Row       `json:"row"`
}
