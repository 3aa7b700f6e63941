package models

import "fmt"

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusViewed   ReviewStatus = "viewed"
	StatusAccepted ReviewStatus = "accepted"
	StatusRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusPending, StatusViewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// ParseReviewStatus accepts the canonical names; an empty string is pending.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	if s == "" {
		return StatusPending, nil
	}
	status := ReviewStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown review status %q", s)
	}
	return status, nil
}
