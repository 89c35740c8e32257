package amortization

import (
	"fmt"
	"math"
	"time"

	"lending-ledger/internal/apperrors"
)

// NormalizeDate rebuilds t as midnight of its wall-clock calendar date in
// loc. Date arithmetic always runs on normalized values so that the same
// calendar date yields the same result no matter which zone the caller
// parsed it in.
func NormalizeDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DueDate advances start by termCount periods of the given frequency and
// returns the resulting due date, normalized to midnight in loc.
//
// Monthly advancement keeps the day-of-month when it exists in the target
// month and otherwise clamps to that month's last day, so Jan 31 + 1
// month is Feb 29 in a leap year and Feb 28 otherwise.
func DueDate(start time.Time, termCount int, frequency Frequency, loc *time.Location) (time.Time, error) {
	if termCount <= 0 {
		return time.Time{}, fmt.Errorf("%w: term count must be positive, got %d", apperrors.ErrInvalidInput, termCount)
	}
	if start.IsZero() {
		return time.Time{}, fmt.Errorf("%w: start date is required", apperrors.ErrInvalidInput)
	}
	return advance(NormalizeDate(start, loc), termCount, frequency, loc), nil
}

// Schedule returns the full due-date sequence for a loan: termCount dates
// starting at firstPayment, one per period.
func Schedule(firstPayment time.Time, termCount int, frequency Frequency, loc *time.Location) ([]time.Time, error) {
	if termCount <= 0 {
		return nil, fmt.Errorf("%w: term count must be positive, got %d", apperrors.ErrInvalidInput, termCount)
	}
	if firstPayment.IsZero() {
		return nil, fmt.Errorf("%w: first payment date is required", apperrors.ErrInvalidInput)
	}

	first := NormalizeDate(firstPayment, loc)
	dates := make([]time.Time, 0, termCount)
	dates = append(dates, first)
	for i := 1; i < termCount; i++ {
		dates = append(dates, advance(first, i, frequency, loc))
	}
	return dates, nil
}

// DaysBetween returns the signed count of whole calendar days from a to
// b, both normalized to loc. Positive when b is after a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	na := NormalizeDate(a, loc)
	nb := NormalizeDate(b, loc)
	// Rounding absorbs DST transitions between the two midnights.
	return int(math.Round(nb.Sub(na).Hours() / 24))
}

func advance(t time.Time, periods int, frequency Frequency, loc *time.Location) time.Time {
	switch frequency {
	case FrequencyDaily:
		return NormalizeDate(t.AddDate(0, 0, periods), loc)
	case FrequencyWeekly:
		return NormalizeDate(t.AddDate(0, 0, periods*7), loc)
	case FrequencyBiweekly:
		return NormalizeDate(t.AddDate(0, 0, periods*14), loc)
	default:
		return addMonthsClamped(t, periods, loc)
	}
}

// addMonthsClamped adds months without the overflow normalization of
// time.AddDate, which would roll Jan 31 + 1 month into early March.
func addMonthsClamped(t time.Time, months int, loc *time.Location) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, loc)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, loc)
}
