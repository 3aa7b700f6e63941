package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/devcatalyst/intake-service/internal/models"
)

// Problems collects every invariant violation found in a schema.
type Problems []string

func (p Problems) Error() string {
	if len(p) == 1 {
		return "invalid form schema: " + p[0]
	}
	return fmt.Sprintf("invalid form schema: %d problems: %s", len(p), strings.Join(p, "; "))
}

var reservedColumns = map[string]bool{
	models.ColumnTimestamp:    true,
	models.ColumnSubmissionID: true,
}

// Check verifies the structural invariants of a schema: unique ids and column
// labels, well-formed questions and rules, and conditions that only look back
// at questions from earlier sections.
func Check(s *models.FormSchema) error {
	var problems Problems
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(s.Sections) == 0 {
		addf("schema has no sections")
	}

	seenSections := make(map[string]bool)
	seenQuestions := make(map[string]string)
	seenLabels := make(map[string]string)

	for i, section := range s.Sections {
		if section.ID == "" {
			addf("section %d has no id", i)
		} else if seenSections[section.ID] {
			addf("duplicate section id %q", section.ID)
		}
		seenSections[section.ID] = true

		// Only questions from earlier sections are in seenQuestions here.
		if section.Condition != nil {
			problems = append(problems, checkCondition(section.ID, *section.Condition, seenQuestions)...)
		}

		current := make(map[string]bool, len(section.Questions))
		for _, q := range section.Questions {
			if q.ID == "" {
				addf("section %q has a question with no id", section.ID)
				continue
			}
			if owner, dup := seenQuestions[q.ID]; dup {
				addf("duplicate question id %q (sections %q and %q)", q.ID, owner, section.ID)
			} else if current[q.ID] {
				addf("duplicate question id %q in section %q", q.ID, section.ID)
			}
			current[q.ID] = true
			label := q.ColumnLabel()
			if reservedColumns[label] {
				addf("question %q uses reserved column label %q", q.ID, label)
			}
			if other, dup := seenLabels[label]; dup && other != q.ID {
				addf("questions %q and %q share column label %q", other, q.ID, label)
			}
			seenLabels[label] = q.ID
			problems = append(problems, checkQuestion(q)...)
		}
		for id := range current {
			if _, dup := seenQuestions[id]; !dup {
				seenQuestions[id] = section.ID
			}
		}
	}

	if s.TrackField != "" {
		if _, ok := seenQuestions[s.TrackField]; !ok {
			addf("track_field %q is not a question", s.TrackField)
		}
	}
	seenTracks := make(map[string]bool)
	for _, t := range s.Tracks {
		switch {
		case t.Key == "":
			addf("track %q has no key", t.Name)
		case seenTracks[t.Key]:
			addf("duplicate track key %q", t.Key)
		}
		seenTracks[t.Key] = true
		if strings.TrimSpace(t.Keyword) == "" {
			addf("track %q has no keyword", t.Key)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

func checkCondition(sectionID string, c models.Condition, earlier map[string]string) Problems {
	var problems Problems
	if c.Field == "" && len(c.All) == 0 && len(c.Any) == 0 && c.Not == nil {
		problems = append(problems, fmt.Sprintf("section %q has an empty condition", sectionID))
	}
	for _, field := range c.Fields() {
		if _, ok := earlier[field]; !ok {
			problems = append(problems, fmt.Sprintf("section %q condition references %q, which is not a question from an earlier section", sectionID, field))
		}
	}
	return problems
}

func checkQuestion(q models.Question) Problems {
	var problems Problems
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf("question %q: "+format, append([]any{q.ID}, args...)...))
	}

	known := false
	for _, t := range models.QuestionTypes {
		if q.Type == t {
			known = true
			break
		}
	}
	if !known {
		addf("unknown type %q", q.Type)
	}

	switch q.Type {
	case models.QuestionRadio, models.QuestionSelect, models.QuestionCheckbox:
		if len(q.Options) == 0 {
			addf("%s question needs options", q.Type)
		}
	case models.QuestionScale:
		if q.Min == nil || q.Max == nil {
			addf("scale question needs min and max")
		} else if *q.Min >= *q.Max {
			addf("scale min %v must be below max %v", *q.Min, *q.Max)
		}
	}

	for _, r := range q.Rules {
		switch r.Kind {
		case models.RulePattern:
			if _, err := regexp.Compile(r.Value); err != nil {
				addf("pattern rule does not compile: %v", err)
			}
		case models.RuleMinLength, models.RuleMaxLength, models.RuleDigits:
			if n, err := strconv.Atoi(r.Value); err != nil || n < 0 {
				addf("%s rule needs a non-negative integer, got %q", r.Kind, r.Value)
			}
		case models.RuleEmail, models.RuleURL:
		default:
			addf("unknown rule kind %q", r.Kind)
		}
	}
	return problems
}
