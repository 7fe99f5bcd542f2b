package service

import (
	"context"
	"fmt"
	"time"

	"riskpulse/internal/model"
	"riskpulse/internal/repository"
)

// ResponseService handles the respondent intake path: starting a response,
// saving answers, and submitting
type ResponseService struct {
	formRepo     repository.FormRepo
	responseRepo repository.ResponseRepo
}

// NewResponseService creates a new response service
func NewResponseService(formRepo repository.FormRepo, responseRepo repository.ResponseRepo) *ResponseService {
	return &ResponseService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
	}
}

// Start opens a response for a respondent on a published form. A respondent
// holds at most one response per form: an existing in-progress response is
// returned as-is, a submitted one refuses a restart.
func (s *ResponseService) Start(ctx context.Context, formID, respondentID string) (*model.Response, error) {
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

	existing, err := s.responseRepo.GetByFormAndRespondent(ctx, formID, respondentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == model.ResponseSubmitted {
			return nil, model.ErrDuplicateResponse
		}
		return existing, nil
	}

	response := &model.Response{
		FormID:       formID,
		RespondentID: respondentID,
		Status:       model.ResponseInProgress,
		StartedAt:    time.Now(),
	}
	if _, err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("create response: %w", err)
	}
	return response, nil
}

// SaveAnswer validates and stores one answer on an in-progress response.
// Validation runs through the same normalizer the analytics engine uses, so
// bad payloads are rejected at the door; the engine still re-validates.
func (s *ResponseService) SaveAnswer(ctx context.Context, responseID, respondentID, questionID string, data model.AnswerData) error {
	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return fmt.Errorf("load response: %w", err)
	}
	if response == nil {
		return model.ErrNotFound
	}
	if response.RespondentID != respondentID {
		return model.ErrForbidden
	}
	if response.Status != model.ResponseInProgress {
		return model.ErrAlreadySubmitted
	}

	form, err := s.formRepo.GetByID(ctx, response.FormID)
	if err != nil {
		return fmt.Errorf("load form: %w", err)
	}
	if form == nil {
		return model.ErrNotFound
	}
	question := form.Question(questionID)
	if question == nil {
		return model.ErrNotFound
	}

	answer := model.Answer{
		QuestionID: questionID,
		Data:       data,
		AnsweredAt: time.Now(),
	}
	if _, err := model.NormalizeAnswer(question, &answer); err != nil {
		return err
	}

	response.SetAnswer(answer)
	return s.responseRepo.Update(ctx, response)
}

// Submit finalizes a response, making it eligible for analytics. Required
// questions must all carry an answer.
func (s *ResponseService) Submit(ctx context.Context, responseID, respondentID string) (*model.Response, error) {
	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, fmt.Errorf("load response: %w", err)
	}
	if response == nil {
		return nil, model.ErrNotFound
	}
	if response.RespondentID != respondentID {
		return nil, model.ErrForbidden
	}
	if response.Status == model.ResponseSubmitted {
		return nil, model.ErrAlreadySubmitted
	}

	form, err := s.formRepo.GetByID(ctx, response.FormID)
	if err != nil {
		return nil, fmt.Errorf("load form: %w", err)
	}
	if form == nil {
		return nil, model.ErrNotFound
	}
	for i := range form.Questions {
		q := &form.Questions[i]
		if q.Required && q.TakesAnswers() && response.AnswerFor(q.ID) == nil {
			return nil, &model.MalformedAnswerError{QuestionID: q.ID, Reason: "required question not answered"}
		}
	}

	now := time.Now()
	response.Status = model.ResponseSubmitted
	response.SubmittedAt = &now
	if err := s.responseRepo.Update(ctx, response); err != nil {
		return nil, fmt.Errorf("update response: %w", err)
	}
	return response, nil
}
