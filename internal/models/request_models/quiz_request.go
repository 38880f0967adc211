package request_models

// QuestionKind is the input widget a question is answered with.
type QuestionKind string

const (
	KindSingleSelect QuestionKind = "single_select"
	KindMultiSelect  QuestionKind = "multi_select"
	KindNumeric      QuestionKind = "numeric"
	KindNumericPair  QuestionKind = "numeric_pair"
	KindTextPair     QuestionKind = "text_pair"
	KindDate         QuestionKind = "date"
	KindFreeText     QuestionKind = "free_text"
)

// IsPair reports whether answers to this kind hold two values.
func (k QuestionKind) IsPair() bool {
	return k == KindNumericPair || k == KindTextPair
}

// IsSelect reports whether answers must come from the option list.
func (k QuestionKind) IsSelect() bool {
	return k == KindSingleSelect || k == KindMultiSelect
}

type QuizOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type QuizQuestion struct {
	ID          string       `json:"id"`
	Question    string       `json:"question"`
	Subtitle    string       `json:"subtitle,omitempty"`
	Type        QuestionKind `json:"type"`
	Options     []QuizOption `json:"options,omitempty"`
	Required    bool         `json:"required"`
	Category    string       `json:"category"` // "personal", "physical", "goal", "medical", "lifestyle", "contact"
	Labels      []string     `json:"labels,omitempty"`
	MinValue    *int         `json:"min_value,omitempty"`
	MaxValue    *int         `json:"max_value,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
}

// HasOption reports whether value is one of the question's options.
func (q QuizQuestion) HasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the display label for value, or value itself.
func (q QuizQuestion) OptionLabel(value string) string {
	for _, o := range q.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

type QuizStartRequest struct {
	ClientID string `json:"client_id,omitempty"`
}

// AnswerRequest carries one answer. Which field is read depends on the
// question kind: Text for single values, List for multi-select, Pair for
// paired questions.
type AnswerRequest struct {
	QuestionID string   `json:"question_id" binding:"required"`
	Text       string   `json:"text,omitempty"`
	List       []string `json:"list,omitempty"`
	Pair       []string `json:"pair,omitempty"`
}

type ToggleOptionRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Option     string `json:"option" binding:"required"`
}

type GoToStepRequest struct {
	Step *int `json:"step" binding:"required"`
}
