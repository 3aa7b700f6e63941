package schema

import (
	"strings"
	"time"

	"github.com/devcatalyst/intake-service/internal/models"
)

// Columns returns the flat-row header for a schema: the two server columns
// followed by one column per question in schema order.
func Columns(s *models.FormSchema) []string {
	columns := []string{models.ColumnTimestamp, models.ColumnSubmissionID}
	for _, section := range s.Sections {
		for _, q := range section.Questions {
			columns = append(columns, q.ColumnLabel())
		}
	}
	return columns
}

// LabelTable maps column labels back to question ids.
func LabelTable(s *models.FormSchema) map[string]string {
	table := make(map[string]string)
	for _, section := range s.Sections {
		for _, q := range section.Questions {
			table[q.ColumnLabel()] = q.ID
		}
	}
	return table
}

// Flatten maps answers to a flat row. List answers are joined with
// models.ListSeparator; questions in hidden sections produce blank cells so
// stale answers from a previously chosen track are never stored.
func Flatten(s *models.FormSchema, answers models.AnswerSet, submittedAt time.Time, submissionID string) models.Row {
	row := models.Row{
		{Column: models.ColumnTimestamp, Value: submittedAt.UTC().Format(time.RFC3339)},
		{Column: models.ColumnSubmissionID, Value: submissionID},
	}
	for _, section := range s.Sections {
		visible := Visible(section, answers)
		for _, q := range section.Questions {
			value := ""
			if visible {
				value = strings.TrimSpace(answers.Raw(q.ID))
			}
			row = append(row, models.Cell{Column: q.ColumnLabel(), Value: value})
		}
	}
	return row
}

// SplitList reverses the list join. It is only exact when no option contains
// the separator.
func SplitList(cell string) []string {
	if cell == "" {
		return nil
	}
	return strings.Split(cell, models.ListSeparator)
}

// NormalizeHeader lowercases a header and replaces spaces with underscores.
func NormalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}
