package services

import (
	"fmt"
	"strings"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/models/response_models"
	"fitfunnel/pkg/utils"
)

type AnswerKind string

const (
	AnswerText AnswerKind = "text"
	AnswerList AnswerKind = "list"
	AnswerPair AnswerKind = "pair"
)

// AnswerValue holds exactly one of Text, List or Pair, selected by Kind.
type AnswerValue struct {
	Kind AnswerKind `json:"kind"`
	Text string     `json:"text,omitempty"`
	List []string   `json:"list,omitempty"`
	Pair [2]string  `json:"pair,omitempty"`
}

func TextAnswer(s string) AnswerValue { return AnswerValue{Kind: AnswerText, Text: s} }

func ListAnswer(items ...string) AnswerValue {
	return AnswerValue{Kind: AnswerList, List: append([]string{}, items...)}
}

func PairAnswer(a, b string) AnswerValue { return AnswerValue{Kind: AnswerPair, Pair: [2]string{a, b}} }

func (v AnswerValue) clone() AnswerValue {
	if v.Kind == AnswerList {
		v.List = append([]string{}, v.List...)
	}
	return v
}

// IsEmpty is true for "", an empty list, or a pair with any empty member.
func (v AnswerValue) IsEmpty() bool {
	switch v.Kind {
	case AnswerList:
		return len(v.List) == 0
	case AnswerPair:
		return v.Pair[0] == "" || v.Pair[1] == ""
	default:
		return v.Text == ""
	}
}

func answerKindFor(k request_models.QuestionKind) AnswerKind {
	switch {
	case k == request_models.KindMultiSelect:
		return AnswerList
	case k.IsPair():
		return AnswerPair
	default:
		return AnswerText
	}
}

func emptyAnswer(k request_models.QuestionKind) AnswerValue {
	switch answerKindFor(k) {
	case AnswerList:
		return AnswerValue{Kind: AnswerList, List: []string{}}
	case AnswerPair:
		return AnswerValue{Kind: AnswerPair}
	default:
		return AnswerValue{Kind: AnswerText}
	}
}

// AnswerSet maps question id to answer. Every catalog id is present.
type AnswerSet map[string]AnswerValue

func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v.clone()
	}
	return out
}

func (a AnswerSet) Text(id string) string { return a[id].Text }

func (a AnswerSet) List(id string) []string { return append([]string{}, a[id].List...) }

func (a AnswerSet) Pair(id string) (string, string) {
	p := a[id].Pair
	return p[0], p[1]
}

// View converts the set to its wire form.
func (a AnswerSet) View() map[string]response_models.AnswerView {
	out := make(map[string]response_models.AnswerView, len(a))
	for id, v := range a {
		view := response_models.AnswerView{Kind: string(v.Kind)}
		switch v.Kind {
		case AnswerList:
			view.List = append([]string{}, v.List...)
		case AnswerPair:
			view.Pair = []string{v.Pair[0], v.Pair[1]}
		default:
			view.Text = v.Text
		}
		out[id] = view
	}
	return out
}

// FormState is the answer set bound to its catalog. Writes never mutate a
// map that was handed out by Answers.
type FormState struct {
	catalog *Catalog
	answers AnswerSet
}

func NewFormState(c *Catalog) *FormState {
	return RestoreFormState(c, nil)
}

// RestoreFormState rebuilds state from stored answers. Unknown ids are
// dropped and missing or mistyped ones are reset to empty.
func RestoreFormState(c *Catalog, stored AnswerSet) *FormState {
	answers := make(AnswerSet, c.Len())
	for _, q := range c.questions {
		v, ok := stored[q.ID]
		if !ok || v.Kind != answerKindFor(q.Type) {
			answers[q.ID] = emptyAnswer(q.Type)
			continue
		}
		v = v.clone()
		if v.Kind == AnswerList && v.List == nil {
			v.List = []string{}
		}
		answers[q.ID] = v
	}
	return &FormState{catalog: c, answers: answers}
}

// Answers returns a copy of the current answers.
func (f *FormState) Answers() AnswerSet { return f.answers.Clone() }

func (f *FormState) set(id string, v AnswerValue) {
	next := f.answers.Clone()
	next[id] = v
	f.answers = next
}

// UpdateAnswer validates v against the question and replaces the stored
// value. Text values are trimmed and multi-select lists deduplicated.
func (f *FormState) UpdateAnswer(id string, v AnswerValue) error {
	q, _, ok := f.catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", utils.ErrInvalidQuestion, id)
	}
	if v.Kind != answerKindFor(q.Type) {
		return fmt.Errorf("%w: %s expects %s", utils.ErrAnswerKindMismatch, id, answerKindFor(q.Type))
	}

	normalized, err := normalizeAnswer(q, v)
	if err != nil {
		return err
	}
	f.set(id, normalized)
	return nil
}

func normalizeAnswer(q request_models.QuizQuestion, v AnswerValue) (AnswerValue, error) {
	switch v.Kind {
	case AnswerList:
		seen := make(map[string]bool, len(v.List))
		list := make([]string, 0, len(v.List))
		for _, item := range v.List {
			item = strings.TrimSpace(item)
			if !q.HasOption(item) {
				return v, fmt.Errorf("%w: %q for %s", utils.ErrInvalidOption, item, q.ID)
			}
			if !seen[item] {
				seen[item] = true
				list = append(list, item)
			}
		}
		return AnswerValue{Kind: AnswerList, List: list}, nil

	case AnswerPair:
		a, b := strings.TrimSpace(v.Pair[0]), strings.TrimSpace(v.Pair[1])
		if q.Type == request_models.KindNumericPair {
			for _, s := range []string{a, b} {
				if _, ok := parseDecimal(s, "kg", "cm", "m"); s != "" && !ok {
					return v, fmt.Errorf("%w: %q is not a positive number", utils.ErrInvalidOption, s)
				}
			}
		}
		return PairAnswer(a, b), nil

	default:
		s := strings.TrimSpace(v.Text)
		if s == "" {
			return TextAnswer(""), nil
		}
		switch q.Type {
		case request_models.KindSingleSelect:
			if !q.HasOption(s) {
				return v, fmt.Errorf("%w: %q for %s", utils.ErrInvalidOption, s, q.ID)
			}
		case request_models.KindNumeric:
			n, ok := parseDecimal(s)
			if !ok {
				return v, fmt.Errorf("%w: %q is not a positive number", utils.ErrInvalidOption, s)
			}
			if (q.MinValue != nil && n < float64(*q.MinValue)) || (q.MaxValue != nil && n > float64(*q.MaxValue)) {
				return v, fmt.Errorf("%w: %s out of range", utils.ErrInvalidOption, s)
			}
		case request_models.KindDate:
			if _, ok := utils.ParseDateBR(s); !ok {
				return v, fmt.Errorf("%w: %q is not a date", utils.ErrInvalidOption, s)
			}
		}
		return TextAnswer(s), nil
	}
}

// ToggleOption adds option to a multi-select answer, or removes it when
// already present.
func (f *FormState) ToggleOption(id, option string) error {
	q, _, ok := f.catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", utils.ErrInvalidQuestion, id)
	}
	if q.Type != request_models.KindMultiSelect {
		return fmt.Errorf("%w: %s is not multi-select", utils.ErrAnswerKindMismatch, id)
	}
	if !q.HasOption(option) {
		return fmt.Errorf("%w: %q for %s", utils.ErrInvalidOption, option, id)
	}

	current := f.answers[id].List
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, item := range current {
		if item == option {
			removed = true
			continue
		}
		next = append(next, item)
	}
	if !removed {
		next = append(next, option)
	}
	f.set(id, AnswerValue{Kind: AnswerList, List: next})
	return nil
}

// IsStepComplete reports whether the step's mandatory answer is filled in.
// Optional questions are always complete; out-of-range steps never are.
func (f *FormState) IsStepComplete(step int) bool {
	q, ok := f.catalog.Question(step)
	if !ok {
		return false
	}
	if !q.Required {
		return true
	}
	return !f.answers[q.ID].IsEmpty()
}

// FirstIncompleteStep returns the lowest incomplete step, or -1.
func (f *FormState) FirstIncompleteStep() int {
	for i := 0; i < f.catalog.Len(); i++ {
		if !f.IsStepComplete(i) {
			return i
		}
	}
	return -1
}
