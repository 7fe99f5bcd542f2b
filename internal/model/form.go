package model

import (
	"sort"
	"time"
)

// FormStatus is the lifecycle state of a form
type FormStatus string

const (
	FormDraft     FormStatus = "draft"
	FormPublished FormStatus = "published"
	FormArchived  FormStatus = "archived"
)

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionShortText      QuestionType = "short_text"
	QuestionLongText       QuestionType = "long_text"
	QuestionLikert         QuestionType = "likert"
	QuestionNumericScale   QuestionType = "numeric_scale"
	QuestionFileUpload     QuestionType = "file_upload"
	QuestionInstruction    QuestionType = "instruction"
	QuestionTraderRating   QuestionType = "trader_rating"
)

// Option is a selectable choice on a choice-type question
type Option struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
}

// InstrumentMonths is the required length of an instrument's return series
const InstrumentMonths = 12

// Instrument is the trader profile embedded in a trader-rating question:
// a name, the capital traded, and 12 monthly percentage returns.
// Mean and StdDev are advisory values from the curation pipeline; the
// analytics engine recomputes them from MonthlyReturns.
type Instrument struct {
	Name           string    `json:"name" bson:"name"`
	Capital        float64   `json:"capital" bson:"capital"`
	MonthlyReturns []float64 `json:"monthlyReturns" bson:"monthlyReturns"`
	Mean           float64   `json:"mean,omitempty" bson:"mean,omitempty"`
	StdDev         float64   `json:"stdDev,omitempty" bson:"stdDev,omitempty"`
}

// Question is a question inside a form
type Question struct {
	ID       string       `json:"id" bson:"id"`
	Type     QuestionType `json:"type" bson:"type"`
	Title    string       `json:"title" bson:"title"`
	Order    int          `json:"order" bson:"order"`
	Required bool         `json:"required" bson:"required"`
	Options  []Option     `json:"options,omitempty" bson:"options,omitempty"`
	// For likert / numeric_scale
	ScaleMin int `json:"scaleMin,omitempty" bson:"scaleMin,omitempty"`
	ScaleMax int `json:"scaleMax,omitempty" bson:"scaleMax,omitempty"`
	// For trader_rating
	Instrument *Instrument `json:"instrument,omitempty" bson:"instrument,omitempty"`
}

// HasOptions reports whether the question type carries options
func (q *Question) HasOptions() bool {
	return q.Type == QuestionSingleChoice || q.Type == QuestionMultipleChoice
}

// TakesAnswers reports whether respondents answer this question at all
func (q *Question) TakesAnswers() bool {
	return q.Type != QuestionInstruction
}

// Form is a survey form owned by an admin
type Form struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	OwnerID     string     `json:"ownerId" bson:"ownerId"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Status      FormStatus `json:"status" bson:"status"`
	Questions   []Question `json:"questions" bson:"questions"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// QuestionsInOrder returns the form's questions sorted by ordering index
func (f *Form) QuestionsInOrder() []Question {
	qs := make([]Question, len(f.Questions))
	copy(qs, f.Questions)
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	return qs
}

// Question returns the question with the given id, or nil
func (f *Form) Question(id string) *Question {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i]
		}
	}
	return nil
}
