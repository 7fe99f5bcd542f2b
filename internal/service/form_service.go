package service

import (
	"context"
	"fmt"
	"log"

	"riskpulse/internal/cache"
	"riskpulse/internal/model"
	"riskpulse/internal/repository"
)

// FormService handles form lifecycle and reads
type FormService struct {
	formRepo    repository.FormRepo
	reportCache cache.ReportCache
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo, reportCache cache.ReportCache) *FormService {
	return &FormService{
		formRepo:    formRepo,
		reportCache: reportCache,
	}
}

// Create stores a new draft form
func (s *FormService) Create(ctx context.Context, form *model.Form) (string, error) {
	if form.Status == "" {
		form.Status = model.FormDraft
	}
	return s.formRepo.Create(ctx, form)
}

// GetByID returns a form or ErrNotFound
func (s *FormService) GetByID(ctx context.Context, id string) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, model.ErrNotFound
	}
	return form, nil
}

// ListPublished returns all published forms
func (s *FormService) ListPublished(ctx context.Context) ([]*model.Form, error) {
	return s.formRepo.ListByStatus(ctx, model.FormPublished)
}

// SetStatus moves a form through its lifecycle. Cached analytics are
// dropped because eligibility depends on the lifecycle state.
func (s *FormService) SetStatus(ctx context.Context, id string, status model.FormStatus) error {
	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if form == nil {
		return model.ErrNotFound
	}

	if err := s.formRepo.SetStatus(ctx, id, status); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if s.reportCache != nil {
		// Entries expire on TTL anyway; invalidation failure is not fatal
		if err := s.reportCache.Invalidate(ctx, id); err != nil {
			log.Printf("cache invalidation failed for form %s: %v", id, err)
		}
	}
	return nil
}
