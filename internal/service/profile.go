package service

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"riskpulse/internal/model"
)

// InstrumentProfile derives the objective risk/return metrics from an
// instrument's monthly return series. The 12 months are treated as the
// entire observed history of the instrument, so the standard deviation is
// the population one (divide by 12, not 11). Stored advisory mean/stdDev on
// the instrument are ignored and recomputed here.
func InstrumentProfile(questionID string, inst *model.Instrument) (*model.RiskProfile, error) {
	if inst == nil {
		return nil, &model.InvalidInstrumentError{QuestionID: questionID, Reason: "no instrument configured"}
	}
	if len(inst.MonthlyReturns) != model.InstrumentMonths {
		return nil, &model.InvalidInstrumentError{
			QuestionID: questionID,
			Reason:     fmt.Sprintf("expected %d monthly returns, got %d", model.InstrumentMonths, len(inst.MonthlyReturns)),
		}
	}

	mean, err := stats.Mean(inst.MonthlyReturns)
	if err != nil {
		return nil, &model.InvalidInstrumentError{QuestionID: questionID, Reason: err.Error()}
	}
	stdDev, err := stats.StandardDeviationPopulation(inst.MonthlyReturns)
	if err != nil {
		return nil, &model.InvalidInstrumentError{QuestionID: questionID, Reason: err.Error()}
	}

	profile := &model.RiskProfile{
		Mean:   mean,
		StdDev: stdDev,
	}
	// Zero volatility makes the ratio undefined; report null, not +Inf
	if stdDev > 0 {
		ratio := mean / stdDev
		profile.RiskAdjustedReturn = &ratio
	}
	return profile, nil
}
