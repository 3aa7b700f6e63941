package models

import (
	"encoding/json"
	"sort"
)

// Identity field keys of a candidate aggregate.
const (
	FieldTimestamp     = "timestamp"
	FieldSubmissionID  = "submission_id"
	FieldFullName      = "full_name"
	FieldRollNumber    = "roll_number"
	FieldBranch        = "branch"
	FieldSection       = "section"
	FieldSelectedTrack = "selected_track"
	FieldEmail         = "email"
	FieldPhone         = "phone"
)

// IdentityFields lists the fixed identity keys in output order.
var IdentityFields = []string{
	FieldTimestamp,
	FieldSubmissionID,
	FieldFullName,
	FieldRollNumber,
	FieldBranch,
	FieldSection,
	FieldSelectedTrack,
	FieldEmail,
	FieldPhone,
}

// CandidateAggregate merges one primary submission with per-track scores.
// It serialises as a single flat JSON object.
type CandidateAggregate struct {
	Identity map[string]string
	// Scores holds one entry per configured track; nil means no score row.
	Scores map[string]*string
	// Fields carries every other non-empty primary column verbatim.
	Fields map[string]string
}

func NewCandidateAggregate() CandidateAggregate {
	return CandidateAggregate{
		Identity: make(map[string]string),
		Scores:   make(map[string]*string),
		Fields:   make(map[string]string),
	}
}

// Get returns any field of the aggregate by key. Missing scores report ok=false.
func (c CandidateAggregate) Get(key string) (string, bool) {
	if v, ok := c.Identity[key]; ok {
		return v, true
	}
	if v, ok := c.Scores[key]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	v, ok := c.Fields[key]
	return v, ok
}

// Flatten returns every key/value pair; nil scores are omitted.
func (c CandidateAggregate) Flatten() map[string]string {
	out := make(map[string]string, len(c.Identity)+len(c.Scores)+len(c.Fields))
	for k, v := range c.Fields {
		out[k] = v
	}
	for k, v := range c.Scores {
		if v != nil {
			out[k] = *v
		}
	}
	for k, v := range c.Identity {
		out[k] = v
	}
	return out
}

// Keys returns all keys in a stable order: identity, scores, pass-through.
func (c CandidateAggregate) Keys() []string {
	keys := make([]string, 0, len(c.Identity)+len(c.Scores)+len(c.Fields))
	for _, k := range IdentityFields {
		if _, ok := c.Identity[k]; ok {
			keys = append(keys, k)
		}
	}
	keys = append(keys, sortedKeys(c.Scores)...)
	keys = append(keys, sortedKeys(c.Fields)...)
	return keys
}

func (c CandidateAggregate) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Identity)+len(c.Scores)+len(c.Fields))
	for k, v := range c.Fields {
		out[k] = v
	}
	for k, v := range c.Scores {
		if v == nil {
			out[k] = nil
			continue
		}
		out[k] = *v
	}
	for k, v := range c.Identity {
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON sorts keys back into identity, score and pass-through groups.
// Any key ending in "_response_score" is treated as a score.
func (c *CandidateAggregate) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = NewCandidateAggregate()
	identity := make(map[string]bool, len(IdentityFields))
	for _, k := range IdentityFields {
		identity[k] = true
	}
	for k, v := range raw {
		switch {
		case identity[k]:
			if v != nil {
				c.Identity[k] = *v
			}
		case isScoreKey(k):
			c.Scores[k] = v
		case v != nil:
			c.Fields[k] = *v
		}
	}
	return nil
}

func isScoreKey(k string) bool {
	const suffix = "_response_score"
	return len(k) > len(suffix) && k[len(k)-len(suffix):] == suffix
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
