package models

type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionTextarea QuestionType = "textarea"
	QuestionRadio    QuestionType = "radio"
	QuestionCheckbox QuestionType = "checkbox"
	QuestionSelect   QuestionType = "select"
	QuestionScale    QuestionType = "scale"
	QuestionRanking  QuestionType = "ranking"
)

// QuestionTypes lists every supported question type in display order.
var QuestionTypes = []QuestionType{
	QuestionText,
	QuestionTextarea,
	QuestionRadio,
	QuestionCheckbox,
	QuestionSelect,
	QuestionScale,
	QuestionRanking,
}

type RuleKind string

const (
	RulePattern   RuleKind = "pattern"
	RuleEmail     RuleKind = "email"
	RuleURL       RuleKind = "url"
	RuleDigits    RuleKind = "digits"
	RuleMinLength RuleKind = "min_length"
	RuleMaxLength RuleKind = "max_length"
)

// Rule is a format check applied to a present answer. Rules run in declaration
// order and the first failing rule produces the field's error.
type Rule struct {
	Kind    RuleKind `yaml:"kind" json:"kind"`
	Value   string   `yaml:"value,omitempty" json:"value,omitempty"`
	Message string   `yaml:"message,omitempty" json:"message,omitempty"`
}

type Question struct {
	ID          string       `yaml:"id" json:"id"`
	Type        QuestionType `yaml:"type" json:"type"`
	Label       string       `yaml:"label,omitempty" json:"label,omitempty"`
	Text        string       `yaml:"text" json:"text"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Placeholder string       `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Required    bool         `yaml:"required,omitempty" json:"required"`
	Options     []string     `yaml:"options,omitempty" json:"options,omitempty"`
	Min         *float64     `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64     `yaml:"max,omitempty" json:"max,omitempty"`
	MinLabel    string       `yaml:"min_label,omitempty" json:"min_label,omitempty"`
	MaxLabel    string       `yaml:"max_label,omitempty" json:"max_label,omitempty"`
	Rules       []Rule       `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// ColumnLabel is the flat-row column this question is stored under.
func (q Question) ColumnLabel() string {
	if q.Label != "" {
		return q.Label
	}
	return q.ID
}

// Condition controls section visibility. A leaf compares one earlier answer
// against an expected value; All, Any and Not combine nested conditions.
type Condition struct {
	Field  string      `yaml:"field,omitempty" json:"field,omitempty"`
	Equals string      `yaml:"equals,omitempty" json:"equals,omitempty"`
	All    []Condition `yaml:"all,omitempty" json:"all,omitempty"`
	Any    []Condition `yaml:"any,omitempty" json:"any,omitempty"`
	Not    *Condition  `yaml:"not,omitempty" json:"not,omitempty"`
}

// IsLeaf reports whether the condition is a single field comparison.
func (c Condition) IsLeaf() bool {
	return c.Field != "" && len(c.All) == 0 && len(c.Any) == 0 && c.Not == nil
}

// Fields returns every question id referenced by the condition tree.
func (c Condition) Fields() []string {
	var fields []string
	if c.Field != "" {
		fields = append(fields, c.Field)
	}
	for _, sub := range c.All {
		fields = append(fields, sub.Fields()...)
	}
	for _, sub := range c.Any {
		fields = append(fields, sub.Fields()...)
	}
	if c.Not != nil {
		fields = append(fields, c.Not.Fields()...)
	}
	return fields
}

type Section struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Condition   *Condition `yaml:"condition,omitempty" json:"condition,omitempty"`
	Questions   []Question `yaml:"questions" json:"questions"`
}

// Track is an applicant category. Keyword is matched case-insensitively
// against tab titles to find the track's score sheet.
type Track struct {
	Key     string `yaml:"key" json:"key"`
	Name    string `yaml:"name" json:"name"`
	Keyword string `yaml:"keyword" json:"keyword"`
}

// ScoreField is the aggregate field carrying this track's evaluator score.
func (t Track) ScoreField() string {
	return t.Key + "_response_score"
}

type FormSchema struct {
	ID         string    `yaml:"id" json:"id"`
	Title      string    `yaml:"title" json:"title"`
	TrackField string    `yaml:"track_field,omitempty" json:"track_field,omitempty"`
	Tracks     []Track   `yaml:"tracks,omitempty" json:"tracks,omitempty"`
	Sections   []Section `yaml:"sections" json:"sections"`
}

// Question looks up a question by id across all sections.
func (s *FormSchema) Question(id string) (Question, bool) {
	for _, section := range s.Sections {
		for _, q := range section.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// TrackByName finds a track by its display name or key, case-insensitively.
func (s *FormSchema) TrackByName(name string) (Track, bool) {
	for _, t := range s.Tracks {
		if equalFold(t.Name, name) || equalFold(t.Key, name) {
			return t, true
		}
	}
	return Track{}, false
}
