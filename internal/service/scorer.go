package service

import (
	"sort"

	"github.com/montanaflynn/stats"

	"riskpulse/internal/model"
)

// RiskThresholds are the score cutoffs for category labels. They sit here
// in one place so deployments can tune them without touching the algorithm.
type RiskThresholds struct {
	Averse  float64 // score >= Averse  -> risk-averse
	Seeking float64 // score <= Seeking -> risk-seeking
}

// DefaultRiskThresholds are the stock cutoffs
var DefaultRiskThresholds = RiskThresholds{Averse: 0.33, Seeking: -0.33}

// minRatedInstruments is the smallest sample a correlation is defined over
const minRatedInstruments = 2

// ScoreRespondent computes one respondent's risk-aversion result from their
// rated instruments. The score is the negated Pearson correlation between
// instrument volatility and the subjective rating: a respondent who rates
// calm instruments higher correlates negatively and scores positive
// (risk-averse). Fewer than two rated instruments leave the correlation
// undefined, flagged as InsufficientData rather than scored 0.
func ScoreRespondent(respondentID, responseID string, points []model.RatingPoint, th RiskThresholds) model.RespondentRisk {
	// Deterministic ordering regardless of answer order
	sorted := make([]model.RatingPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].QuestionID < sorted[j].QuestionID })

	result := model.RespondentRisk{
		RespondentID:     respondentID,
		ResponseID:       responseID,
		RatedInstruments: len(sorted),
		Points:           sorted,
	}

	if len(sorted) < minRatedInstruments {
		result.InsufficientData = true
		return result
	}

	volatility := make([]float64, len(sorted))
	ratings := make([]float64, len(sorted))
	for i, p := range sorted {
		volatility[i] = p.StdDev
		ratings[i] = float64(p.Rating)
	}

	// Pearson yields 0 when either series is constant: no measurable
	// preference, which classifies as neutral below
	corr, err := stats.Pearson(volatility, ratings)
	if err != nil {
		result.InsufficientData = true
		return result
	}

	score := clamp(-corr, -1, 1)
	result.Score = &score
	result.Category = categorize(score, th)
	return result
}

func categorize(score float64, th RiskThresholds) model.RiskCategory {
	switch {
	case score >= th.Averse:
		return model.RiskAverse
	case score <= th.Seeking:
		return model.RiskSeeking
	default:
		return model.RiskNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
