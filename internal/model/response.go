package model

import "time"

// ResponseStatus is the lifecycle state of a response
type ResponseStatus string

const (
	ResponseInProgress ResponseStatus = "in_progress"
	ResponseSubmitted  ResponseStatus = "submitted"
)

// AnswerData is the raw answer payload as captured by the intake layer.
// Exactly which fields are set depends on the question type; the normalizer
// is the only component that interprets this.
type AnswerData struct {
	Text            string   `json:"text,omitempty" bson:"text,omitempty"`
	SelectedOption  string   `json:"selectedOption,omitempty" bson:"selectedOption,omitempty"`
	SelectedOptions []string `json:"selectedOptions,omitempty" bson:"selectedOptions,omitempty"`
	Number          string   `json:"number,omitempty" bson:"number,omitempty"` // numeric value as entered
}

// Answer is one respondent's answer to one question
type Answer struct {
	QuestionID string     `json:"questionId" bson:"questionId"`
	Data       AnswerData `json:"data" bson:"data"`
	AnsweredAt time.Time  `json:"answeredAt" bson:"answeredAt"`
}

// Response is one respondent's set of answers to a form.
// At most one response exists per (form, respondent).
type Response struct {
	ID           string         `json:"id" bson:"_id,omitempty"`
	FormID       string         `json:"formId" bson:"formId"`
	RespondentID string         `json:"respondentId" bson:"respondentId"`
	Status       ResponseStatus `json:"status" bson:"status"`
	Answers      []Answer       `json:"answers" bson:"answers"`
	StartedAt    time.Time      `json:"startedAt" bson:"startedAt"`
	SubmittedAt  *time.Time     `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
}

// AnswerFor returns the answer to the given question, or nil
func (r *Response) AnswerFor(questionID string) *Answer {
	for i := range r.Answers {
		if r.Answers[i].QuestionID == questionID {
			return &r.Answers[i]
		}
	}
	return nil
}

// SetAnswer inserts or replaces the answer to a question
func (r *Response) SetAnswer(a Answer) {
	for i := range r.Answers {
		if r.Answers[i].QuestionID == a.QuestionID {
			r.Answers[i] = a
			return
		}
	}
	r.Answers = append(r.Answers, a)
}
