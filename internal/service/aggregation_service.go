package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/montanaflynn/stats"

	"riskpulse/internal/cache"
	"riskpulse/internal/model"
	"riskpulse/internal/repository"
)

// AggregationService produces per-question summaries over the submitted
// responses of a form. It never mutates source data; every report is a
// fresh derivation.
type AggregationService struct {
	formRepo     repository.FormRepo
	responseRepo repository.ResponseRepo
	reportCache  cache.ReportCache
	thresholds   RiskThresholds
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(formRepo repository.FormRepo, responseRepo repository.ResponseRepo, reportCache cache.ReportCache) *AggregationService {
	return &AggregationService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		reportCache:  reportCache,
		thresholds:   DefaultRiskThresholds,
	}
}

// Aggregate builds the per-question report for a published form
func (s *AggregationService) Aggregate(ctx context.Context, formID string) (*model.AggregateReport, error) {
	if s.reportCache != nil {
		if cached, err := s.reportCache.GetAggregate(ctx, formID); err == nil && cached != nil {
			return cached, nil
		}
	}

	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load form: %w", err)
	}
	if form == nil {
		return nil, model.ErrNotFound
	}
	if form.Status != model.FormPublished {
		return nil, model.ErrFormNotPublished
	}

	// Only submitted responses are eligible; partial data would skew stats
	responses, err := s.responseRepo.ListByFormAndStatus(ctx, formID, model.ResponseSubmitted)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	report := &model.AggregateReport{
		FormID:      formID,
		Title:       form.Title,
		Respondents: len(responses),
		GeneratedAt: time.Now().UTC(),
	}

	// Trader-rating summaries carry the form-level risk rollup; compute
	// the population analysis once when the form rates any instruments
	var riskSummary *model.PopulationRiskSummary
	for i := range form.Questions {
		if form.Questions[i].Type == model.QuestionTraderRating {
			riskSummary = analyzePopulation(form, responses, s.thresholds).Summary()
			break
		}
	}

	for _, q := range form.QuestionsInOrder() {
		question := q
		report.Questions = append(report.Questions, s.summarize(&question, responses, riskSummary))
	}

	if s.reportCache != nil {
		if err := s.reportCache.SetAggregate(ctx, report); err != nil {
			log.Printf("report cache write failed for form %s: %v", formID, err)
		}
	}
	return report, nil
}

// summarize aggregates all answers to one question. Malformed answers are
// tallied and skipped, never fatal.
func (s *AggregationService) summarize(q *model.Question, responses []*model.Response, riskSummary *model.PopulationRiskSummary) model.QuestionSummary {
	summary := model.QuestionSummary{
		QuestionID: q.ID,
		Title:      q.Title,
		Type:       q.Type,
		Order:      q.Order,
	}

	if !q.TakesAnswers() {
		return summary
	}

	switch q.Type {
	case model.QuestionSingleChoice, model.QuestionMultipleChoice:
		summary.OptionCounts = s.countChoices(q, responses, &summary)

	case model.QuestionShortText, model.QuestionLongText, model.QuestionFileUpload:
		for _, resp := range responses {
			answer := resp.AnswerFor(q.ID)
			if answer == nil {
				continue
			}
			value, err := model.NormalizeAnswer(q, answer)
			if err != nil {
				summary.Malformed++
				continue
			}
			if !value.IsEmptyText() {
				summary.Respondents++
			}
		}

	case model.QuestionLikert, model.QuestionNumericScale:
		values := s.collectNumeric(q, responses, &summary)
		summary.Stats = scaleStats(values)

	case model.QuestionTraderRating:
		values := s.collectNumeric(q, responses, &summary)
		summary.Stats = scaleStats(values)
		if q.Instrument != nil {
			profile, err := InstrumentProfile(q.ID, q.Instrument)
			if err != nil {
				log.Printf("question %s excluded from risk reporting: %v", q.ID, err)
			} else {
				summary.InstrumentProfile = profile
				summary.RiskSummary = riskSummary
			}
		}
	}

	return summary
}

// countChoices tallies option frequencies. Every configured option appears
// in the map even at zero; values referencing unknown or retired options
// land in the "other" bucket instead of being dropped.
func (s *AggregationService) countChoices(q *model.Question, responses []*model.Response, summary *model.QuestionSummary) map[string]int {
	counts := make(map[string]int, len(q.Options)+1)
	known := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		counts[opt.ID] = 0
		known[opt.ID] = true
	}

	bump := func(optionID string) {
		if known[optionID] {
			counts[optionID]++
		} else {
			counts[model.OtherOptionBucket]++
		}
	}

	for _, resp := range responses {
		answer := resp.AnswerFor(q.ID)
		if answer == nil {
			continue
		}
		value, err := model.NormalizeAnswer(q, answer)
		if err != nil {
			summary.Malformed++
			continue
		}
		summary.Respondents++
		switch value.Kind {
		case model.ValueChoice:
			bump(value.Choice)
		case model.ValueMultiChoice:
			for _, choice := range value.Choices {
				bump(choice)
			}
		}
	}
	return counts
}

// collectNumeric gathers normalized scale/rating values for one question
func (s *AggregationService) collectNumeric(q *model.Question, responses []*model.Response, summary *model.QuestionSummary) []float64 {
	var values []float64
	for _, resp := range responses {
		answer := resp.AnswerFor(q.ID)
		if answer == nil {
			continue
		}
		value, err := model.NormalizeAnswer(q, answer)
		if err != nil {
			summary.Malformed++
			continue
		}
		summary.Respondents++
		switch value.Kind {
		case model.ValueScale:
			values = append(values, value.Scale)
		case model.ValueRating:
			values = append(values, float64(value.Rating))
		}
	}
	return values
}

// scaleStats computes descriptive statistics; zero answers yield count 0
// with null statistics rather than an error
func scaleStats(values []float64) *model.ScaleStats {
	result := &model.ScaleStats{Count: len(values)}
	if len(values) == 0 {
		return result
	}

	mean, _ := stats.Mean(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	stdDev, _ := stats.StandardDeviationPopulation(values)

	result.Mean = &mean
	result.Min = &min
	result.Max = &max
	result.StdDev = &stdDev
	return result
}
