package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"riskpulse/internal/model"
)

// In-memory repository fakes for service tests.

type fakeFormRepo struct {
	forms map[string]*model.Form
	errs  map[string]error // per-method forced errors
}

func newFakeFormRepo(forms ...*model.Form) *fakeFormRepo {
	r := &fakeFormRepo{forms: make(map[string]*model.Form), errs: make(map[string]error)}
	for _, f := range forms {
		r.forms[f.ID] = f
	}
	return r
}

func (r *fakeFormRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	if form.ID == "" {
		form.ID = fmt.Sprintf("form_%d", len(r.forms)+1)
	}
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()
	r.forms[form.ID] = form
	return form.ID, nil
}

func (r *fakeFormRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	if err := r.errs["GetByID"]; err != nil {
		return nil, err
	}
	return r.forms[id], nil
}

func (r *fakeFormRepo) ListByStatus(ctx context.Context, status model.FormStatus) ([]*model.Form, error) {
	if err := r.errs["ListByStatus"]; err != nil {
		return nil, err
	}
	var out []*model.Form
	for _, f := range r.forms {
		if f.Status == status {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFormRepo) Update(ctx context.Context, form *model.Form) error {
	r.forms[form.ID] = form
	return nil
}

func (r *fakeFormRepo) SetStatus(ctx context.Context, id string, status model.FormStatus) error {
	f, ok := r.forms[id]
	if !ok {
		return errors.New("form not found")
	}
	f.Status = status
	return nil
}

func (r *fakeFormRepo) Delete(ctx context.Context, id string) error {
	delete(r.forms, id)
	return nil
}

type fakeResponseRepo struct {
	responses map[string]*model.Response
	errs      map[string]error
	failForms map[string]error // ListByFormAndStatus failures per form
}

func newFakeResponseRepo(responses ...*model.Response) *fakeResponseRepo {
	r := &fakeResponseRepo{
		responses: make(map[string]*model.Response),
		errs:      make(map[string]error),
		failForms: make(map[string]error),
	}
	for _, resp := range responses {
		r.responses[resp.ID] = resp
	}
	return r
}

func (r *fakeResponseRepo) Create(ctx context.Context, response *model.Response) (string, error) {
	if response.ID == "" {
		response.ID = fmt.Sprintf("response_%d", len(r.responses)+1)
	}
	r.responses[response.ID] = response
	return response.ID, nil
}

func (r *fakeResponseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	return r.responses[id], nil
}

func (r *fakeResponseRepo) GetByFormAndRespondent(ctx context.Context, formID, respondentID string) (*model.Response, error) {
	for _, resp := range r.responses {
		if resp.FormID == formID && resp.RespondentID == respondentID {
			return resp, nil
		}
	}
	return nil, nil
}

func (r *fakeResponseRepo) ListByFormAndStatus(ctx context.Context, formID string, status model.ResponseStatus) ([]*model.Response, error) {
	if err := r.errs["ListByFormAndStatus"]; err != nil {
		return nil, err
	}
	if err := r.failForms[formID]; err != nil {
		return nil, err
	}
	var out []*model.Response
	for _, resp := range r.responses {
		if resp.FormID == formID && resp.Status == status {
			out = append(out, resp)
		}
	}
	// Mirror the repository sort order
	sort.Slice(out, func(i, j int) bool { return out[i].RespondentID < out[j].RespondentID })
	return out, nil
}

func (r *fakeResponseRepo) Update(ctx context.Context, response *model.Response) error {
	r.responses[response.ID] = response
	return nil
}

type fakeAnalysisRepo struct {
	snapshots map[string]*model.AnalysisSnapshot
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{snapshots: make(map[string]*model.AnalysisSnapshot)}
}

func (r *fakeAnalysisRepo) SaveSnapshot(ctx context.Context, snapshot *model.AnalysisSnapshot) error {
	r.snapshots[snapshot.FormID] = snapshot
	return nil
}

func (r *fakeAnalysisRepo) GetSnapshot(ctx context.Context, formID string) (*model.AnalysisSnapshot, error) {
	return r.snapshots[formID], nil
}

// Test data builders.

func publishedForm(id string, questions ...model.Question) *model.Form {
	return &model.Form{
		ID:        id,
		OwnerID:   "admin_test",
		Title:     "Test Form",
		Status:    model.FormPublished,
		Questions: questions,
	}
}

func traderRatingQuestion(id string, order int, name string, returns []float64) model.Question {
	return model.Question{
		ID:    id,
		Type:  model.QuestionTraderRating,
		Title: "Rate " + name,
		Order: order,
		Instrument: &model.Instrument{
			Name:           name,
			Capital:        100000,
			MonthlyReturns: returns,
		},
	}
}

func submittedResponse(id, formID, respondentID string, answers map[string]model.AnswerData) *model.Response {
	now := time.Now()
	resp := &model.Response{
		ID:           id,
		FormID:       formID,
		RespondentID: respondentID,
		Status:       model.ResponseSubmitted,
		StartedAt:    now.Add(-time.Minute),
		SubmittedAt:  &now,
	}
	for qid, data := range answers {
		resp.SetAnswer(model.Answer{QuestionID: qid, Data: data, AnsweredAt: now})
	}
	return resp
}

// Return series with distinct volatility for tests: flat, moderate, wild.
var (
	flatReturns     = []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	moderateReturns = []float64{3, -1, 3, -1, 3, -1, 3, -1, 3, -1, 3, -1}
	wildReturns     = []float64{10, -10, 10, -10, 10, -10, 10, -10, 10, -10, 10, -10}
)
