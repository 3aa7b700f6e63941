// Package dashboard filters, searches and sorts aggregated candidate records
// and tracks each reviewer's local shortlist status.
package dashboard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/devcatalyst/intake-service/internal/models"
)

const (
	TabOverview = "Overview"
	TabAll      = "All Responses"
)

// Query selects and orders records for one dashboard view.
type Query struct {
	// Tab is Overview, All Responses, or a track display name. Empty means all.
	Tab string
	// Status, when set, replaces the tab filter with a review status filter.
	Status models.ReviewStatus
	Search string
	// SortKey is any aggregate field key. Empty keeps input order.
	SortKey string
	Desc    bool
}

// Apply returns the records visible under q. The input slice is not modified.
func Apply(records []models.CandidateAggregate, q Query, statuses map[string]models.ReviewStatus) []models.CandidateAggregate {
	out := make([]models.CandidateAggregate, 0, len(records))
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	for _, rec := range records {
		if q.Status != "" {
			if StatusOf(rec, statuses) != q.Status {
				continue
			}
		} else if !onTab(rec, q.Tab) {
			continue
		}
		if needle != "" && !matches(rec, needle) {
			continue
		}
		out = append(out, rec)
	}

	if q.SortKey != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := out[i].Get(q.SortKey)
			b, _ := out[j].Get(q.SortKey)
			if q.Desc {
				return compare(a, b) > 0
			}
			return compare(a, b) < 0
		})
	}
	return out
}

// Key identifies a record for review tracking.
func Key(rec models.CandidateAggregate) string {
	return rec.Identity[models.FieldTimestamp]
}

// StatusOf returns the record's review status; records never touched are pending.
func StatusOf(rec models.CandidateAggregate, statuses map[string]models.ReviewStatus) models.ReviewStatus {
	if s, ok := statuses[Key(rec)]; ok && s != "" {
		return s
	}
	return models.StatusPending
}

func onTab(rec models.CandidateAggregate, tab string) bool {
	switch strings.TrimSpace(tab) {
	case "", TabOverview, TabAll, "All":
		return true
	}
	return rec.Identity[models.FieldSelectedTrack] == tab
}

func matches(rec models.CandidateAggregate, needle string) bool {
	for _, v := range rec.Flatten() {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// compare orders numerically when both sides parse as numbers, otherwise
// case-insensitively as text.
func compare(a, b string) int {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
