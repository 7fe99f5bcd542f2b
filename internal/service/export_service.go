package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"riskpulse/internal/model"
	"riskpulse/internal/repository"
)

// multiValueDelimiter joins multi-choice selections inside one CSV cell.
// It is distinct from the comma field delimiter; cells containing commas,
// quotes or newlines are quoted by the CSV writer per RFC 4180.
const multiValueDelimiter = "|"

// ExportService renders form responses as a delimited text report
type ExportService struct {
	formRepo     repository.FormRepo
	responseRepo repository.ResponseRepo
}

// NewExportService creates a new export service
func NewExportService(formRepo repository.FormRepo, responseRepo repository.ResponseRepo) *ExportService {
	return &ExportService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
	}
}

// ExportCSV renders a wide-format CSV: one row per submitted response, one
// column per answerable question in ordering-index order, preceded by the
// respondent id and submission time. Rows are ordered by respondent id so
// the export is deterministic.
func (s *ExportService) ExportCSV(ctx context.Context, formID string) (*model.Export, error) {
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

	responses, err := s.responseRepo.ListByFormAndStatus(ctx, formID, model.ResponseSubmitted)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	// Instruction questions carry no answers, so no column
	var questions []model.Question
	for _, q := range form.QuestionsInOrder() {
		if q.TakesAnswers() {
			questions = append(questions, q)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(questions)+2)
	header = append(header, "respondentId", "submittedAt")
	for _, q := range questions {
		header = append(header, q.Title)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, resp := range responses {
		row := make([]string, 0, len(questions)+2)
		submittedAt := ""
		if resp.SubmittedAt != nil {
			submittedAt = resp.SubmittedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		row = append(row, resp.RespondentID, submittedAt)
		for i := range questions {
			row = append(row, renderCell(&questions[i], resp))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &model.Export{
		Content:  buf.Bytes(),
		MIMEType: "text/csv",
		Filename: fmt.Sprintf("form_%s_responses.csv", formID),
	}, nil
}

// renderCell renders one normalized answer value; unanswered or malformed
// answers become empty cells
func renderCell(q *model.Question, resp *model.Response) string {
	answer := resp.AnswerFor(q.ID)
	if answer == nil {
		return ""
	}
	value, err := model.NormalizeAnswer(q, answer)
	if err != nil {
		return ""
	}

	switch value.Kind {
	case model.ValueChoice:
		return value.Choice
	case model.ValueMultiChoice:
		return strings.Join(value.Choices, multiValueDelimiter)
	case model.ValueText:
		return value.Text
	case model.ValueScale:
		return strconv.FormatFloat(value.Scale, 'g', -1, 64)
	case model.ValueRating:
		return strconv.Itoa(value.Rating)
	default:
		return ""
	}
}
