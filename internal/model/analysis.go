package model

import "time"

// RiskProfile holds the objective risk/return metrics derived from an
// instrument's monthly return series. RiskAdjustedReturn is nil when the
// series has zero volatility (the ratio is undefined, not infinite).
type RiskProfile struct {
	Mean               float64  `json:"mean" bson:"mean"`
	StdDev             float64  `json:"stdDev" bson:"stdDev"`
	RiskAdjustedReturn *float64 `json:"riskAdjustedReturn" bson:"riskAdjustedReturn"`
}

// ScaleStats are descriptive statistics over numeric answers.
// All statistic fields are nil when Count is 0.
type ScaleStats struct {
	Count  int      `json:"count" bson:"count"`
	Mean   *float64 `json:"mean" bson:"mean"`
	Min    *float64 `json:"min" bson:"min"`
	Max    *float64 `json:"max" bson:"max"`
	StdDev *float64 `json:"stdDev" bson:"stdDev"`
}

// OtherOptionBucket collects answers referencing unknown or retired options
const OtherOptionBucket = "other"

// QuestionSummary is the per-question aggregation result
type QuestionSummary struct {
	QuestionID string       `json:"questionId" bson:"questionId"`
	Title      string       `json:"title" bson:"title"`
	Type       QuestionType `json:"type" bson:"type"`
	Order      int          `json:"order" bson:"order"`

	// Respondents is the number of answers counted into this summary.
	// For text questions only non-empty answers count.
	Respondents int `json:"respondents" bson:"respondents"`
	// Malformed answers are excluded from statistics but tallied here
	Malformed int `json:"malformed,omitempty" bson:"malformed,omitempty"`

	// Choice questions: frequency per option id, unknown values under "other"
	OptionCounts map[string]int `json:"optionCounts,omitempty" bson:"optionCounts,omitempty"`

	// Scale, rating and trader-rating questions
	Stats *ScaleStats `json:"stats,omitempty" bson:"stats,omitempty"`

	// Trader-rating questions: the recomputed objective profile and the
	// form-level risk-aversion rollup
	InstrumentProfile *RiskProfile           `json:"instrumentProfile,omitempty" bson:"instrumentProfile,omitempty"`
	RiskSummary       *PopulationRiskSummary `json:"riskSummary,omitempty" bson:"riskSummary,omitempty"`
}

// AggregateReport is the full per-question aggregation for a form
type AggregateReport struct {
	FormID      string            `json:"formId" bson:"formId"`
	Title       string            `json:"title" bson:"title"`
	Respondents int               `json:"respondents" bson:"respondents"` // submitted responses
	Questions   []QuestionSummary `json:"questions" bson:"questions"`
	GeneratedAt time.Time         `json:"generatedAt" bson:"generatedAt"`
}

// RiskCategory is the classification derived from a risk-aversion score
type RiskCategory string

const (
	RiskAverse  RiskCategory = "risk-averse"
	RiskNeutral RiskCategory = "risk-neutral"
	RiskSeeking RiskCategory = "risk-seeking"
)

// RatingPoint pairs one rated instrument's objective profile with the
// respondent's subjective rating
type RatingPoint struct {
	QuestionID         string   `json:"questionId" bson:"questionId"`
	Instrument         string   `json:"instrument" bson:"instrument"`
	StdDev             float64  `json:"stdDev" bson:"stdDev"`
	RiskAdjustedReturn *float64 `json:"riskAdjustedReturn" bson:"riskAdjustedReturn"`
	Rating             int      `json:"rating" bson:"rating"`
}

// RespondentRisk is the single-respondent risk-aversion result.
// When InsufficientData is set (fewer than two rated instruments) Score is
// nil and Category empty; a nil score is never coerced to 0 because 0 is a
// meaningful neutral outcome.
type RespondentRisk struct {
	RespondentID     string        `json:"respondentId" bson:"respondentId"`
	ResponseID       string        `json:"responseId" bson:"responseId"`
	RatedInstruments int           `json:"ratedInstruments" bson:"ratedInstruments"`
	InsufficientData bool          `json:"insufficientData" bson:"insufficientData"`
	Score            *float64      `json:"score,omitempty" bson:"score,omitempty"`
	Category         RiskCategory  `json:"category,omitempty" bson:"category,omitempty"`
	Points           []RatingPoint `json:"points,omitempty" bson:"points,omitempty"`
}

// ScatterPoint is one chart point: a respondent's rating of one instrument
// against that instrument's volatility
type ScatterPoint struct {
	RespondentID string  `json:"respondentId" bson:"respondentId"`
	StdDev       float64 `json:"stdDev" bson:"stdDev"`
	Rating       int     `json:"rating" bson:"rating"`
}

// ScoreBucket is one histogram bucket over the [-1,1] score range
type ScoreBucket struct {
	From  float64 `json:"from" bson:"from"`
	To    float64 `json:"to" bson:"to"`
	Count int     `json:"count" bson:"count"`
}

// PopulationRiskResult is the form-level risk analysis. It is a pure
// function of (form, submitted responses): recomputing over unchanged data
// yields an identical result.
type PopulationRiskResult struct {
	FormID string `json:"formId" bson:"formId"`

	// Scored respondents vs. those excluded for insufficient data
	Respondents int `json:"respondents" bson:"respondents"`
	Excluded    int `json:"excluded" bson:"excluded"`

	// Data-quality tallies absorbed during computation
	MalformedAnswers   int `json:"malformedAnswers" bson:"malformedAnswers"`
	InvalidInstruments int `json:"invalidInstruments" bson:"invalidInstruments"`

	CategoryCounts map[RiskCategory]int `json:"categoryCounts" bson:"categoryCounts"`
	MeanScore      *float64             `json:"meanScore" bson:"meanScore"`
	Distribution   []ScoreBucket        `json:"distribution" bson:"distribution"`
	Scatter        []ScatterPoint       `json:"scatter" bson:"scatter"`
	Results        []RespondentRisk     `json:"results" bson:"results"`
}

// PopulationRiskSummary is the compact population-level rollup attached to
// trader-rating question summaries in the aggregate report
type PopulationRiskSummary struct {
	Respondents    int                  `json:"respondents" bson:"respondents"`
	Excluded       int                  `json:"excluded" bson:"excluded"`
	CategoryCounts map[RiskCategory]int `json:"categoryCounts" bson:"categoryCounts"`
	MeanScore      *float64             `json:"meanScore" bson:"meanScore"`
}

// Summary projects the compact rollup out of a full population result
func (r *PopulationRiskResult) Summary() *PopulationRiskSummary {
	counts := make(map[RiskCategory]int, len(r.CategoryCounts))
	for category, n := range r.CategoryCounts {
		counts[category] = n
	}
	return &PopulationRiskSummary{
		Respondents:    r.Respondents,
		Excluded:       r.Excluded,
		CategoryCounts: counts,
		MeanScore:      r.MeanScore,
	}
}

// RiskChartData is the chart-ready projection of a population result
type RiskChartData struct {
	Distribution []ScoreBucket  `json:"distribution"`
	Scatter      []ScatterPoint `json:"scatter"`
}

// FormAnalysisOutcome is one form's slot in the batch analysis report:
// either a result or the error that prevented it, never both
type FormAnalysisOutcome struct {
	FormID string                `json:"formId"`
	Result *PopulationRiskResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// AnalysisSnapshot is the persisted batch result for one form
type AnalysisSnapshot struct {
	FormID     string               `json:"formId" bson:"formId"`
	Result     PopulationRiskResult `json:"result" bson:"result"`
	ComputedAt time.Time            `json:"computedAt" bson:"computedAt"`
}

// Export is a rendered report file
type Export struct {
	Content  []byte `json:"-"`
	MIMEType string `json:"mimeType"`
	Filename string `json:"filename"`
}
