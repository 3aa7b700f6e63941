package schema

import "github.com/devcatalyst/intake-service/internal/models"

// Holds evaluates a condition against the current answers. A leaf holds when
// the answer equals the expected value exactly.
func Holds(c models.Condition, answers models.AnswerSet) bool {
	if c.Field != "" && answers.Raw(c.Field) != c.Equals {
		return false
	}
	for _, sub := range c.All {
		if !Holds(sub, answers) {
			return false
		}
	}
	if len(c.Any) > 0 {
		matched := false
		for _, sub := range c.Any {
			if Holds(sub, answers) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if c.Not != nil && Holds(*c.Not, answers) {
		return false
	}
	return true
}

// Visible reports whether a section is shown for the given answers.
func Visible(section models.Section, answers models.AnswerSet) bool {
	if section.Condition == nil {
		return true
	}
	return Holds(*section.Condition, answers)
}

// VisibleSections returns the sections shown for the given answers, in order.
func VisibleSections(s *models.FormSchema, answers models.AnswerSet) []models.Section {
	visible := make([]models.Section, 0, len(s.Sections))
	for _, section := range s.Sections {
		if Visible(section, answers) {
			visible = append(visible, section)
		}
	}
	return visible
}

// VisibleAnswers drops answers belonging to hidden sections. Answers for ids
// the schema does not know are dropped too.
func VisibleAnswers(s *models.FormSchema, answers models.AnswerSet) models.AnswerSet {
	out := make(models.AnswerSet, len(answers))
	for _, section := range VisibleSections(s, answers) {
		for _, q := range section.Questions {
			if v, ok := answers[q.ID]; ok {
				out[q.ID] = v
			}
		}
	}
	return out
}
