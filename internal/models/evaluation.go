package models

import "time"

// Evaluation teams. Core is not an applicant track but has its own tab.
const (
	TeamCore      = "core"
	TeamTech      = "tech"
	TeamContent   = "content"
	TeamSocial    = "social"
	TeamOutreach  = "outreach"
	AnonymousName = "Anonymous"
)

type ParameterScore struct {
	Name  string `json:"name" validate:"required"`
	Score string `json:"score"`
}

type EvaluationRequest struct {
	Team          string           `json:"team" validate:"required"`
	Evaluator     string           `json:"evaluator"`
	CandidateName string           `json:"candidate_name" validate:"required"`
	RollNumber    string           `json:"roll_number" validate:"required"`
	Branch        string           `json:"branch"`
	Remarks       string           `json:"remarks"`
	Scores        []ParameterScore `json:"scores" validate:"dive"`
}

type Evaluation struct {
	Team       string    `json:"team"`
	Sheet      string    `json:"sheet"`
	RecordedAt time.Time `json:"recorded_at"`
	Total      float64   `json:"total"`
	Row        Row       `json:"row"`
}
