package dashboard

import "github.com/devcatalyst/intake-service/internal/models"

const unknownBranch = "Unknown"

// Summary is the overview tab of the dashboard.
type Summary struct {
	Total    int            `json:"total"`
	Latest   string         `json:"latest,omitempty"`
	Branches map[string]int `json:"branches"`
	Tracks   map[string]int `json:"tracks"`
}

// Summarize counts records by branch and track. Records are expected in
// store append order, so the last one is the latest.
func Summarize(records []models.CandidateAggregate) Summary {
	s := Summary{
		Total:    len(records),
		Branches: make(map[string]int),
		Tracks:   make(map[string]int),
	}
	for _, rec := range records {
		branch := rec.Identity[models.FieldBranch]
		if branch == "" {
			branch = unknownBranch
		}
		s.Branches[branch]++
		if track := rec.Identity[models.FieldSelectedTrack]; track != "" {
			s.Tracks[track]++
		}
	}
	if len(records) > 0 {
		s.Latest = records[len(records)-1].Identity[models.FieldTimestamp]
	}
	return s
}

// Newest returns a copy of records in reverse append order.
func Newest(records []models.CandidateAggregate) []models.CandidateAggregate {
	out := make([]models.CandidateAggregate, len(records))
	for i, rec := range records {
		out[len(records)-1-i] = rec
	}
	return out
}
