// Package amortization is the single authoritative implementation of the
// loan math: installment amounts, due-date sequences, and payment
// allocation. Everything here is pure; persistence and logging belong to
// the callers.
package amortization

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lending-ledger/internal/apperrors"
)

// Frequency is the periodic cadence of installments.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// ParseFrequency converts a request string into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return Frequency(s), nil
	default:
		return "", fmt.Errorf("%w: unknown frequency %q", apperrors.ErrInvalidInput, s)
	}
}

// periodFactor is the fraction of a month each installment period
// represents. These are the business's fixed approximations, not exact
// day-count fractions, and are kept as-is for output compatibility.
func (f Frequency) periodFactor() decimal.Decimal {
	switch f {
	case FrequencyDaily:
		return decimal.New(1, 0).Div(decimal.New(30, 0))
	case FrequencyWeekly:
		return decimal.New(25, -2)
	case FrequencyBiweekly:
		return decimal.New(5, -1)
	default:
		return decimal.New(1, 0)
	}
}

// roundingUnit is 1,000 currency minor units. Cash in this business
// changes hands in thousands, so every derived amount is rounded up to
// the next multiple.
var roundingUnit = decimal.NewFromInt(1000)

func roundUpToUnit(d decimal.Decimal) decimal.Decimal {
	return d.Div(roundingUnit).Ceil().Mul(roundingUnit)
}

// Result holds the derived amounts for a loan.
//
// Each field is rounded up independently, so TotalPayable is not
// guaranteed to equal Principal+TotalInterest nor InstallmentAmount*term
// after rounding. The drift is bounded by one rounding unit per value.
type Result struct {
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
}

// Compute derives the installment amount, total interest, and total
// payable for a loan under the flat-interest model: interest accrues once
// on the principal over the whole term, never compounding.
//
// Principal and rate domain checks happen at the request boundary;
// Compute assumes they already passed.
func Compute(principal, annualRatePercent decimal.Decimal, termCount int, frequency Frequency) (Result, error) {
	if termCount <= 0 {
		return Result{}, fmt.Errorf("%w: term count must be positive, got %d", apperrors.ErrInvalidInput, termCount)
	}
	if _, err := ParseFrequency(string(frequency)); err != nil {
		return Result{}, err
	}

	rate := annualRatePercent.Div(decimal.NewFromInt(100))
	periods := decimal.NewFromInt(int64(termCount)).Mul(frequency.periodFactor())

	totalInterest := principal.Mul(rate).Mul(periods)
	totalPayable := principal.Add(totalInterest)
	installment := totalPayable.Div(decimal.NewFromInt(int64(termCount)))

	return Result{
		InstallmentAmount: roundUpToUnit(installment),
		TotalInterest:     roundUpToUnit(totalInterest),
		TotalPayable:      roundUpToUnit(totalPayable),
	}, nil
}
