package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/montanaflynn/stats"

	"riskpulse/internal/cache"
	"riskpulse/internal/model"
	"riskpulse/internal/repository"
)

// scoreBuckets is the fixed histogram resolution over the [-1,1] score range
const scoreBuckets = 10

// defaultBatchWorkers bounds the parallel per-form analyses so a batch run
// does not flood the data source with simultaneous large reads
const defaultBatchWorkers = 4

// RiskService computes respondent and population risk-aversion analyses.
// All operations are read-only over form/response data and produce fresh
// result objects, so they are safe to run concurrently with ongoing
// submissions.
type RiskService struct {
	formRepo     repository.FormRepo
	responseRepo repository.ResponseRepo
	analysisRepo repository.AnalysisRepo
	reportCache  cache.ReportCache
	broadcaster  Broadcaster
	thresholds   RiskThresholds
	batchWorkers int
}

// NewRiskService creates a new risk service
func NewRiskService(
	formRepo repository.FormRepo,
	responseRepo repository.ResponseRepo,
	analysisRepo repository.AnalysisRepo,
	reportCache cache.ReportCache,
) *RiskService {
	return &RiskService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		analysisRepo: analysisRepo,
		reportCache:  reportCache,
		thresholds:   DefaultRiskThresholds,
		batchWorkers: defaultBatchWorkers,
	}
}

// SetBroadcaster sets the broadcaster for admin WebSocket events
func (s *RiskService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetBatchWorkers overrides the batch concurrency limit
func (s *RiskService) SetBatchWorkers(n int) {
	if n > 0 {
		s.batchWorkers = n
	}
}

// AnalyzeForm returns the population risk result for a form, from cache
// when fresh, otherwise recomputed
func (s *RiskService) AnalyzeForm(ctx context.Context, formID string) (*model.PopulationRiskResult, error) {
	if s.reportCache != nil {
		if cached, err := s.reportCache.GetRisk(ctx, formID); err == nil && cached != nil {
			return cached, nil
		}
	}

	result, err := s.computeForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	if s.reportCache != nil {
		if err := s.reportCache.SetRisk(ctx, result); err != nil {
			log.Printf("risk cache write failed for form %s: %v", formID, err)
		}
	}
	return result, nil
}

// ChartData returns the chart-ready projection of a form's risk analysis
func (s *RiskService) ChartData(ctx context.Context, formID string) (*model.RiskChartData, error) {
	result, err := s.AnalyzeForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	return &model.RiskChartData{
		Distribution: result.Distribution,
		Scatter:      result.Scatter,
	}, nil
}

// IndividualAnalysis scores a single submitted response. The requester must
// own the response unless they hold admin privilege; role checks beyond
// ownership belong to the auth layer.
func (s *RiskService) IndividualAnalysis(ctx context.Context, responseID, requesterID string, isAdmin bool) (*model.RespondentRisk, error) {
	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, fmt.Errorf("load response: %w", err)
	}
	if response == nil {
		return nil, model.ErrNotFound
	}
	if !isAdmin && response.RespondentID != requesterID {
		return nil, model.ErrForbidden
	}
	if response.Status != model.ResponseSubmitted {
		return nil, model.ErrNotSubmitted
	}

	form, err := s.formRepo.GetByID(ctx, response.FormID)
	if err != nil {
		return nil, fmt.Errorf("load form: %w", err)
	}
	if form == nil {
		return nil, model.ErrNotFound
	}

	points, _ := ratingPoints(response, instrumentProfiles(form, nil))
	result := ScoreRespondent(response.RespondentID, response.ID, points, s.thresholds)
	return &result, nil
}

// PerformRiskAnalysis recomputes the risk analysis for every published form.
// Forms are analyzed in parallel under a bounded worker limit; one form's
// failure is recorded in its outcome and never aborts the others. Results
// are persisted as snapshots and the cache is refreshed. The whole
// operation is idempotent over unchanged source data.
func (s *RiskService) PerformRiskAnalysis(ctx context.Context) (map[string]model.FormAnalysisOutcome, error) {
	forms, err := s.formRepo.ListByStatus(ctx, model.FormPublished)
	if err != nil {
		return nil, fmt.Errorf("list published forms: %w", err)
	}

	s.notify("analysis_started", map[string]interface{}{"forms": len(forms)})
	log.Printf("risk analysis started for %d forms", len(forms))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes = make(map[string]model.FormAnalysisOutcome, len(forms))
		sem      = make(chan struct{}, s.batchWorkers)
	)

dispatch:
	for _, form := range forms {
		// Cancellation stops dispatching; in-flight analyses finish
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(f *model.Form) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := model.FormAnalysisOutcome{FormID: f.ID}
			result, err := s.recomputeForm(ctx, f)
			if err != nil {
				outcome.Error = err.Error()
				log.Printf("risk analysis failed for form %s: %v", f.ID, err)
			} else {
				outcome.Result = result
			}

			mu.Lock()
			outcomes[f.ID] = outcome
			mu.Unlock()

			s.notify("form_analyzed", map[string]interface{}{"formId": f.ID, "ok": err == nil})
		}(form)
	}
	wg.Wait()

	s.notify("analysis_completed", map[string]interface{}{"forms": len(outcomes)})
	log.Printf("risk analysis completed: %d forms processed", len(outcomes))

	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// LatestSnapshot returns the most recently persisted batch result for a form
func (s *RiskService) LatestSnapshot(ctx context.Context, formID string) (*model.AnalysisSnapshot, error) {
	snapshot, err := s.analysisRepo.GetSnapshot(ctx, formID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, model.ErrNotFound
	}
	return snapshot, nil
}

// recomputeForm bypasses the cache, persists the snapshot, and refreshes
// the cache with the fresh result
func (s *RiskService) recomputeForm(ctx context.Context, form *model.Form) (*model.PopulationRiskResult, error) {
	responses, err := s.responseRepo.ListByFormAndStatus(ctx, form.ID, model.ResponseSubmitted)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	result := analyzePopulation(form, responses, s.thresholds)

	snapshot := &model.AnalysisSnapshot{
		FormID:     form.ID,
		Result:     *result,
		ComputedAt: time.Now().UTC(),
	}
	if err := s.analysisRepo.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	if s.reportCache != nil {
		if err := s.reportCache.SetRisk(ctx, result); err != nil {
			log.Printf("risk cache write failed for form %s: %v", form.ID, err)
		}
	}
	return result, nil
}

func (s *RiskService) computeForm(ctx context.Context, formID string) (*model.PopulationRiskResult, error) {
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
	return analyzePopulation(form, responses, s.thresholds), nil
}

// traderQuestion pairs a trader-rating question with its recomputed profile
type traderQuestion struct {
	question *model.Question
	profile  *model.RiskProfile
}

// instrumentProfiles recomputes profiles for every trader-rating question
// in form order. Invalid instruments are counted into the tally (when
// given) and excluded from risk analysis without failing the run.
func instrumentProfiles(form *model.Form, invalidTally *int) []traderQuestion {
	ordered := form.QuestionsInOrder()
	var profiled []traderQuestion
	for i := range ordered {
		q := &ordered[i]
		if q.Type != model.QuestionTraderRating {
			continue
		}
		profile, err := InstrumentProfile(q.ID, q.Instrument)
		if err != nil {
			if invalidTally != nil {
				*invalidTally++
			}
			log.Printf("form %s: %v", form.ID, err)
			continue
		}
		profiled = append(profiled, traderQuestion{question: q, profile: profile})
	}
	return profiled
}

// ratingPoints normalizes one response's trader ratings against the
// profiled instruments, returning the pairs plus a malformed-answer count
func ratingPoints(response *model.Response, profiled []traderQuestion) ([]model.RatingPoint, int) {
	var (
		points    []model.RatingPoint
		malformed int
	)
	for _, tq := range profiled {
		answer := response.AnswerFor(tq.question.ID)
		if answer == nil {
			continue
		}
		value, err := model.NormalizeAnswer(tq.question, answer)
		if err != nil {
			malformed++
			continue
		}
		points = append(points, model.RatingPoint{
			QuestionID:         tq.question.ID,
			Instrument:         tq.question.Instrument.Name,
			StdDev:             tq.profile.StdDev,
			RiskAdjustedReturn: tq.profile.RiskAdjustedReturn,
			Rating:             value.Rating,
		})
	}
	return points, malformed
}

// analyzePopulation is the pure population computation over a form and its
// submitted responses. Deterministic: respondents are processed in sorted
// order and all collections are built in that order.
func analyzePopulation(form *model.Form, responses []*model.Response, th RiskThresholds) *model.PopulationRiskResult {
	result := &model.PopulationRiskResult{
		FormID: form.ID,
		CategoryCounts: map[model.RiskCategory]int{
			model.RiskAverse:  0,
			model.RiskNeutral: 0,
			model.RiskSeeking: 0,
		},
		Distribution: emptyDistribution(),
	}

	profiled := instrumentProfiles(form, &result.InvalidInstruments)

	sorted := make([]*model.Response, len(responses))
	copy(sorted, responses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RespondentID < sorted[j].RespondentID })

	var scores []float64
	for _, response := range sorted {
		points, malformed := ratingPoints(response, profiled)
		result.MalformedAnswers += malformed
		if len(points) == 0 {
			// Nothing rated: excluded entirely, not even an
			// insufficient-data row
			continue
		}

		respondent := ScoreRespondent(response.RespondentID, response.ID, points, th)
		result.Results = append(result.Results, respondent)

		// One chart point per rated instrument, insufficient-data
		// respondents included: only the statistics exclude them
		for _, p := range respondent.Points {
			result.Scatter = append(result.Scatter, model.ScatterPoint{
				RespondentID: respondent.RespondentID,
				StdDev:       p.StdDev,
				Rating:       p.Rating,
			})
		}

		if respondent.InsufficientData {
			result.Excluded++
			continue
		}

		result.Respondents++
		result.CategoryCounts[respondent.Category]++
		scores = append(scores, *respondent.Score)
		result.Distribution[bucketIndex(*respondent.Score)].Count++
	}

	if len(scores) > 0 {
		mean, _ := stats.Mean(scores)
		result.MeanScore = &mean
	}
	return result
}

func emptyDistribution() []model.ScoreBucket {
	buckets := make([]model.ScoreBucket, scoreBuckets)
	for i := range buckets {
		buckets[i] = model.ScoreBucket{
			From: float64(i)/5 - 1,
			To:   float64(i+1)/5 - 1,
		}
	}
	return buckets
}

func bucketIndex(score float64) int {
	idx := int(math.Floor((score + 1) * 5))
	if idx < 0 {
		return 0
	}
	if idx >= scoreBuckets {
		return scoreBuckets - 1
	}
	return idx
}

func (s *RiskService) notify(msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAdmins(msgType, payload)
	}
}
