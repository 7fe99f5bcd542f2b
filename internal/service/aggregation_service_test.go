package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskpulse/internal/model"
)

func TestAggregateChoiceCounts(t *testing.T) {
	form := publishedForm("form_1", model.Question{
		ID:    "q_color",
		Type:  model.QuestionSingleChoice,
		Title: "Favorite color",
		Order: 1,
		Options: []model.Option{
			{ID: "opt_red", Label: "Red"},
			{ID: "opt_blue", Label: "Blue"},
			{ID: "opt_green", Label: "Green"},
		},
	})

	responses := newFakeResponseRepo(
		submittedResponse("r1", "form_1", "resp_a", map[string]model.AnswerData{
			"q_color": {SelectedOption: "opt_red"},
		}),
		submittedResponse("r2", "form_1", "resp_b", map[string]model.AnswerData{
			"q_color": {SelectedOption: "opt_red"},
		}),
		submittedResponse("r3", "form_1", "resp_c", map[string]model.AnswerData{
			"q_color": {SelectedOption: "opt_blue"},
		}),
		submittedResponse("r4", "form_1", "resp_d", map[string]model.AnswerData{
			"q_color": {SelectedOption: "opt_retired"},
		}),
	)

	svc := NewAggregationService(newFakeFormRepo(form), responses, nil)
	report, err := svc.Aggregate(context.Background(), "form_1")
	require.NoError(t, err)

	require.Len(t, report.Questions, 1)
	summary := report.Questions[0]
	assert.Equal(t, 4, report.Respondents)
	assert.Equal(t, 4, summary.Respondents)
	assert.Equal(t, map[string]int{
		"opt_red":   2,
		"opt_blue":  1,
		"opt_green": 0,
		"other":     1,
	}, summary.OptionCounts)
}

func TestAggregateExcludesInProgress(t *testing.T) {
	form := publishedForm("form_1", model.Question{
		ID:    "q_scale",
		Type:  model.QuestionLikert,
		Title: "Agree?",
		Order: 1,
	})

	inProgress := submittedResponse("r2", "form_1", "resp_b", map[string]model.AnswerData{
		"q_scale": {Number: "5"},
	})
	inProgress.Status = model.ResponseInProgress
	inProgress.SubmittedAt = nil

	responses := newFakeResponseRepo(
		submittedResponse("r1", "form_1", "resp_a", map[string]model.AnswerData{
			"q_scale": {Number: "3"},
		}),
		inProgress,
	)

	svc := NewAggregationService(newFakeFormRepo(form), responses, nil)
	report, err := svc.Aggregate(context.Background(), "form_1")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Respondents)
	require.NotNil(t, report.Questions[0].Stats)
	assert.Equal(t, 1, report.Questions[0].Stats.Count)
}

func TestAggregateScaleStats(t *testing.T) {
	form := publishedForm("form_1", model.Question{
		ID:    "q_scale",
		Type:  model.QuestionNumericScale,
		Title: "Rate it",
		Order: 1,
	})

	responses := newFakeResponseRepo(
		submittedResponse("r1", "form_1", "resp_a", map[string]model.AnswerData{
			"q_scale": {Number: "2"},
		}),
		submittedResponse("r2", "form_1", "resp_b", map[string]model.AnswerData{
			"q_scale": {Number: "4"},
		}),
		submittedResponse("r3", "form_1", "resp_c", map[string]model.AnswerData{
			"q_scale": {Number: "6"},
		}),
		submittedResponse("r4", "form_1", "resp_d", map[string]model.AnswerData{
			"q_scale": {Number: "not a number"},
		}),
	)

	svc := NewAggregationService(newFakeFormRepo(form), responses, nil)
	report, err := svc.Aggregate(context.Background(), "form_1")
	require.NoError(t, err)

	summary := report.Questions[0]
	assert.Equal(t, 3, summary.Respondents)
	assert.Equal(t, 1, summary.Malformed)
	require.NotNil(t, summary.Stats)
	assert.Equal(t, 3, summary.Stats.Count)
	assert.InDelta(t, 4, *summary.Stats.Mean, 1e-9)
	assert.InDelta(t, 2, *summary.Stats.Min, 1e-9)
	assert.InDelta(t, 6, *summary.Stats.Max, 1e-9)
}

func TestAggregateZeroAnswersYieldNullStats(t *testing.T) {
	form := publishedForm("form_1", model.Question{
		ID:    "q_scale",
		Type:  model.QuestionLikert,
		Title: "Agree?",
		Order: 1,
	})

	svc := NewAggregationService(newFakeFormRepo(form), newFakeResponseRepo(), nil)
	report, err := svc.Aggregate(context.Background(), "form_1")
	require.NoError(t, err)

	summary := report.Questions[0]
	require.NotNil(t, summary.Stats)
	assert.Equal(t, 0, summary.Stats.Count)
	assert.Nil(t, summary.Stats.Mean)
	assert.Nil(t, summary.Stats.Min)
	assert.Nil(t, summary.Stats.Max)
	assert.Nil(t, summary.Stats.StdDev)
}

func TestAggregateTraderRatingProfile(t *testing.T) {
	form := publishedForm("form_1",
		traderRatingQuestion("q_trader", 1, "Swing", moderateReturns),
	)

	responses := newFakeResponseRepo(
		submittedResponse("r1", "form_1", "resp_a", map[string]model.AnswerData{
			"q_trader": {Number: "7"},
		}),
	)

	svc := NewAggregationService(newFakeFormRepo(form), responses, nil)
	report, err := svc.Aggregate(context.Background(), "form_1")
	require.NoError(t, err)

	summary := report.Questions[0]
	require.NotNil(t, summary.InstrumentProfile)
	assert.InDelta(t, 1, summary.InstrumentProfile.Mean, 1e-9)
	assert.InDelta(t, 2, summary.InstrumentProfile.StdDev, 1e-9)
	require.NotNil(t, summary.Stats)
	assert.Equal(t, 1, summary.Stats.Count)

	// A lone rated instrument cannot be scored, but the rollup still shows
	require.NotNil(t, summary.RiskSummary)
	assert.Equal(t, 0, summary.RiskSummary.Respondents)
	assert.Equal(t, 1, summary.RiskSummary.Excluded)
}

func TestAggregateTraderRatingRiskSummary(t *testing.T) {
	form := publishedForm("form_1",
		traderRatingQuestion("q_flat", 1, "Flat", flatReturns),
		traderRatingQuestion("q_mod", 2, "Moderate", moderateReturns),
		traderRatingQuestion("q_wild", 3, "Wild", wildReturns),
	)

	responses := newFakeResponseRepo(
		submittedResponse("r1", "form_1", "resp_averse", map[string]model.AnswerData{
			"q_flat": {Number: "9"}, "q_mod": {Number: "5"}, "q_wild": {Number: "1"},
		}),
		submittedResponse("r2", "form_1", "resp_bold", map[string]model.AnswerData{
			"q_flat": {Number: "1"}, "q_mod": {Number: "5"}, "q_wild": {Number: "9"},
		}),
	)

	svc := NewAggregationService(newFakeFormRepo(form), responses, nil)
	report, err := svc.Aggregate(context.Background(), "form_1")
	require.NoError(t, err)

	require.Len(t, report.Questions, 3)
	for _, summary := range report.Questions {
		require.NotNil(t, summary.RiskSummary, "question %s", summary.QuestionID)
		assert.Equal(t, 2, summary.RiskSummary.Respondents)
		assert.Equal(t, map[model.RiskCategory]int{
			model.RiskAverse:  1,
			model.RiskNeutral: 0,
			model.RiskSeeking: 1,
		}, summary.RiskSummary.CategoryCounts)
		require.NotNil(t, summary.RiskSummary.MeanScore)
		assert.InDelta(t, 0, *summary.RiskSummary.MeanScore, 1e-9)
	}
}

func TestAggregateInvalidInstrumentOmitsProfile(t *testing.T) {
	form := publishedForm("form_1",
		traderRatingQuestion("q_trader", 1, "Broken", []float64{1, 2, 3}),
	)

	svc := NewAggregationService(newFakeFormRepo(form), newFakeResponseRepo(), nil)
	report, err := svc.Aggregate(context.Background(), "form_1")
	require.NoError(t, err)

	assert.Nil(t, report.Questions[0].InstrumentProfile)
	assert.Nil(t, report.Questions[0].RiskSummary)
}

func TestAggregateInstructionQuestionsTakeNoAnswers(t *testing.T) {
	form := publishedForm("form_1",
		model.Question{ID: "q_intro", Type: model.QuestionInstruction, Title: "Welcome", Order: 1},
		model.Question{ID: "q_text", Type: model.QuestionShortText, Title: "Name?", Order: 2},
	)

	responses := newFakeResponseRepo(
		submittedResponse("r1", "form_1", "resp_a", map[string]model.AnswerData{
			"q_text": {Text: "Alex"},
		}),
	)

	svc := NewAggregationService(newFakeFormRepo(form), responses, nil)
	report, err := svc.Aggregate(context.Background(), "form_1")
	require.NoError(t, err)

	require.Len(t, report.Questions, 2)
	assert.Equal(t, 0, report.Questions[0].Respondents)
	assert.Equal(t, 1, report.Questions[1].Respondents)
}

func TestAggregateGuards(t *testing.T) {
	draft := publishedForm("form_draft")
	draft.Status = model.FormDraft

	svc := NewAggregationService(newFakeFormRepo(draft), newFakeResponseRepo(), nil)

	_, err := svc.Aggregate(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.Aggregate(context.Background(), "form_draft")
	assert.ErrorIs(t, err, model.ErrFormNotPublished)
}
