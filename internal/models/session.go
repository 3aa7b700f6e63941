package models

import "time"

type SessionScope string

const (
	ScopeDashboard  SessionScope = "dashboard"
	ScopeEvaluation SessionScope = "evaluation"
)

// Session replaces the browser-held "authenticated" flag with an explicit,
// expiring token.
type Session struct {
	Token     string       `json:"token"`
	Scope     SessionScope `json:"scope"`
	Track     string       `json:"track,omitempty"`
	IssuedAt  time.Time    `json:"issued_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
