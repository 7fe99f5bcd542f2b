package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskpulse/internal/model"
)

func intakeTestForm() *model.Form {
	return publishedForm("form_1",
		model.Question{
			ID:       "q_color",
			Type:     model.QuestionSingleChoice,
			Title:    "Favorite color",
			Order:    1,
			Required: true,
			Options: []model.Option{
				{ID: "opt_red", Label: "Red"},
				{ID: "opt_blue", Label: "Blue"},
			},
		},
		model.Question{ID: "q_notes", Type: model.QuestionLongText, Title: "Notes", Order: 2},
	)
}

func TestStartResponse(t *testing.T) {
	svc := NewResponseService(newFakeFormRepo(intakeTestForm()), newFakeResponseRepo())
	ctx := context.Background()

	response, err := svc.Start(ctx, "form_1", "resp_a")
	require.NoError(t, err)
	assert.Equal(t, model.ResponseInProgress, response.Status)
	assert.Equal(t, "resp_a", response.RespondentID)
	assert.NotEmpty(t, response.ID)

	// Starting again resumes the same response
	again, err := svc.Start(ctx, "form_1", "resp_a")
	require.NoError(t, err)
	assert.Equal(t, response.ID, again.ID)
}

func TestStartResponseGuards(t *testing.T) {
	draft := intakeTestForm()
	draft.ID = "form_draft"
	draft.Status = model.FormDraft

	submitted := submittedResponse("r1", "form_1", "resp_done", nil)

	svc := NewResponseService(
		newFakeFormRepo(intakeTestForm(), draft),
		newFakeResponseRepo(submitted),
	)
	ctx := context.Background()

	_, err := svc.Start(ctx, "missing", "resp_a")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.Start(ctx, "form_draft", "resp_a")
	assert.ErrorIs(t, err, model.ErrFormNotPublished)

	_, err = svc.Start(ctx, "form_1", "resp_done")
	assert.ErrorIs(t, err, model.ErrDuplicateResponse)
}

func TestSaveAnswer(t *testing.T) {
	formRepo := newFakeFormRepo(intakeTestForm())
	responseRepo := newFakeResponseRepo()
	svc := NewResponseService(formRepo, responseRepo)
	ctx := context.Background()

	response, err := svc.Start(ctx, "form_1", "resp_a")
	require.NoError(t, err)

	err = svc.SaveAnswer(ctx, response.ID, "resp_a", "q_color", model.AnswerData{SelectedOption: "opt_red"})
	require.NoError(t, err)

	stored, err := responseRepo.GetByID(ctx, response.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AnswerFor("q_color"))
	assert.Equal(t, "opt_red", stored.AnswerFor("q_color").Data.SelectedOption)

	// Saving again replaces, never duplicates
	err = svc.SaveAnswer(ctx, response.ID, "resp_a", "q_color", model.AnswerData{SelectedOption: "opt_blue"})
	require.NoError(t, err)
	stored, _ = responseRepo.GetByID(ctx, response.ID)
	assert.Len(t, stored.Answers, 1)
	assert.Equal(t, "opt_blue", stored.AnswerFor("q_color").Data.SelectedOption)
}

func TestSaveAnswerRejectsBadPayloads(t *testing.T) {
	svc := NewResponseService(newFakeFormRepo(intakeTestForm()), newFakeResponseRepo())
	ctx := context.Background()

	response, err := svc.Start(ctx, "form_1", "resp_a")
	require.NoError(t, err)

	tests := []struct {
		name       string
		questionID string
		data       model.AnswerData
		wantErr    func(error) bool
	}{
		{
			name:       "malformed answer",
			questionID: "q_color",
			data:       model.AnswerData{SelectedOptions: []string{"opt_red", "opt_blue"}},
			wantErr:    model.IsMalformedAnswer,
		},
		{
			name:       "unknown question",
			questionID: "q_nope",
			data:       model.AnswerData{Text: "x"},
			wantErr:    func(err error) bool { return err == model.ErrNotFound },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SaveAnswer(ctx, response.ID, "resp_a", tt.questionID, tt.data)
			require.Error(t, err)
			assert.True(t, tt.wantErr(err))
		})
	}

	t.Run("wrong respondent", func(t *testing.T) {
		err := svc.SaveAnswer(ctx, response.ID, "resp_b", "q_color", model.AnswerData{SelectedOption: "opt_red"})
		assert.ErrorIs(t, err, model.ErrForbidden)
	})
}

func TestSubmitResponse(t *testing.T) {
	svc := NewResponseService(newFakeFormRepo(intakeTestForm()), newFakeResponseRepo())
	ctx := context.Background()

	response, err := svc.Start(ctx, "form_1", "resp_a")
	require.NoError(t, err)

	// Required question unanswered
	_, err = svc.Submit(ctx, response.ID, "resp_a")
	require.Error(t, err)
	assert.True(t, model.IsMalformedAnswer(err))

	err = svc.SaveAnswer(ctx, response.ID, "resp_a", "q_color", model.AnswerData{SelectedOption: "opt_red"})
	require.NoError(t, err)

	submitted, err := svc.Submit(ctx, response.ID, "resp_a")
	require.NoError(t, err)
	assert.Equal(t, model.ResponseSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)

	// Submitting twice conflicts
	_, err = svc.Submit(ctx, response.ID, "resp_a")
	assert.ErrorIs(t, err, model.ErrAlreadySubmitted)

	// A submitted response takes no more answers
	err = svc.SaveAnswer(ctx, response.ID, "resp_a", "q_notes", model.AnswerData{Text: "late"})
	assert.ErrorIs(t, err, model.ErrAlreadySubmitted)
}
