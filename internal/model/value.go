package model

import (
	"strconv"
	"strings"
)

// ValueKind tags the canonical form of a normalized answer
type ValueKind string

const (
	ValueChoice      ValueKind = "choice"
	ValueMultiChoice ValueKind = "multi_choice"
	ValueText        ValueKind = "text"
	ValueScale       ValueKind = "scale"
	ValueRating      ValueKind = "rating"
)

// Rating bounds for trader-rating answers
const (
	RatingMin = 1
	RatingMax = 10
)

// Value is the canonical typed form of an answer. Exactly one payload field
// is meaningful, selected by Kind. Downstream components never re-interpret
// raw AnswerData; they consume Values produced by NormalizeAnswer.
type Value struct {
	Kind    ValueKind `json:"kind"`
	Choice  string    `json:"choice,omitempty"`
	Choices []string  `json:"choices,omitempty"`
	Text    string    `json:"text,omitempty"`
	Scale   float64   `json:"scale,omitempty"`
	Rating  int       `json:"rating,omitempty"`
}

// NormalizeAnswer coerces a raw answer into its question's canonical form.
// It is the single validation chokepoint for answer payloads: a value that
// cannot be coerced yields a MalformedAnswerError. Side-effect free.
func NormalizeAnswer(q *Question, a *Answer) (Value, error) {
	switch q.Type {
	case QuestionSingleChoice:
		if len(a.Data.SelectedOptions) > 0 {
			return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "expected a single option, got a list"}
		}
		if a.Data.SelectedOption == "" {
			return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "no option selected"}
		}
		return Value{Kind: ValueChoice, Choice: a.Data.SelectedOption}, nil

	case QuestionMultipleChoice:
		selected := a.Data.SelectedOptions
		if len(selected) == 0 && a.Data.SelectedOption != "" {
			selected = []string{a.Data.SelectedOption}
		}
		if len(selected) == 0 {
			return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "no options selected"}
		}
		// De-duplicate while keeping first-seen order
		seen := make(map[string]bool, len(selected))
		choices := make([]string, 0, len(selected))
		for _, opt := range selected {
			if !seen[opt] {
				seen[opt] = true
				choices = append(choices, opt)
			}
		}
		return Value{Kind: ValueMultiChoice, Choices: choices}, nil

	case QuestionShortText, QuestionLongText, QuestionFileUpload:
		return Value{Kind: ValueText, Text: a.Data.Text}, nil

	case QuestionLikert, QuestionNumericScale:
		raw := firstNonEmpty(a.Data.Number, a.Data.Text)
		if raw == "" {
			return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "missing numeric value"}
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "non-numeric scale value " + strconv.Quote(raw)}
		}
		return Value{Kind: ValueScale, Scale: n}, nil

	case QuestionTraderRating:
		if len(a.Data.SelectedOptions) > 0 {
			return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "expected a scalar rating, got a list"}
		}
		raw := firstNonEmpty(a.Data.Number, a.Data.Text)
		if raw == "" {
			return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "missing rating value"}
		}
		rating, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "non-integer rating " + strconv.Quote(raw)}
		}
		// Out-of-range ratings are a data-quality error, never clamped
		if rating < RatingMin || rating > RatingMax {
			return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "rating " + strconv.Itoa(rating) + " outside [1,10]"}
		}
		return Value{Kind: ValueRating, Rating: rating}, nil

	case QuestionInstruction:
		return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "instruction questions take no answers"}

	default:
		return Value{}, &MalformedAnswerError{QuestionID: q.ID, Reason: "unknown question type " + string(q.Type)}
	}
}

// IsEmptyText reports whether a normalized text value is blank
func (v Value) IsEmptyText() bool {
	return v.Kind == ValueText && strings.TrimSpace(v.Text) == ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
