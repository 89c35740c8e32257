package amortization

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name            string
		principal       string
		rate            string
		termCount       int
		frequency       Frequency
		wantInstallment string
		wantInterest    string
		wantPayable     string
	}{
		{
			name:      "weekly loan at 5 percent",
			principal: "1000000", rate: "5", termCount: 12, frequency: FrequencyWeekly,
			// 12 weekly periods = 3 months of interest basis:
			// 1,000,000 * 0.05 * 3 = 150,000
			wantInterest:    "150000",
			wantPayable:     "1150000",
			wantInstallment: "96000", // 1,150,000/12 = 95,833.33 rounded up
		},
		{
			name:      "zero rate splits principal",
			principal: "1000000", rate: "0", termCount: 10, frequency: FrequencyMonthly,
			wantInterest:    "0",
			wantPayable:     "1000000",
			wantInstallment: "100000",
		},
		{
			name:      "zero rate rounds principal up",
			principal: "1000500", rate: "0", termCount: 1, frequency: FrequencyMonthly,
			wantInterest:    "0",
			wantPayable:     "1001000",
			wantInstallment: "1001000",
		},
		{
			name:      "daily factor is one thirtieth",
			principal: "900000", rate: "10", termCount: 30, frequency: FrequencyDaily,
			// 30 daily periods = 1 month: 900,000 * 0.10 * 1 = 90,000
			wantInterest:    "90000",
			wantPayable:     "990000",
			wantInstallment: "33000",
		},
		{
			name:      "biweekly factor is one half",
			principal: "2000000", rate: "8", termCount: 6, frequency: FrequencyBiweekly,
			// 6 biweekly periods = 3 months: 2,000,000 * 0.08 * 3 = 480,000
			wantInterest:    "480000",
			wantPayable:     "2480000",
			wantInstallment: "414000", // 2,480,000/6 = 413,333.33 rounded up
		},
		{
			name:      "monthly loan with fractional rate",
			principal: "500000", rate: "2.5", termCount: 4, frequency: FrequencyMonthly,
			// 500,000 * 0.025 * 4 = 50,000
			wantInterest:    "50000",
			wantPayable:     "550000",
			wantInstallment: "138000", // 550,000/4 = 137,500 rounded up
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(dec(tt.principal), dec(tt.rate), tt.termCount, tt.frequency)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if !got.InstallmentAmount.Equal(dec(tt.wantInstallment)) {
				t.Errorf("InstallmentAmount = %s, want %s", got.InstallmentAmount, tt.wantInstallment)
			}
			if !got.TotalInterest.Equal(dec(tt.wantInterest)) {
				t.Errorf("TotalInterest = %s, want %s", got.TotalInterest, tt.wantInterest)
			}
			if !got.TotalPayable.Equal(dec(tt.wantPayable)) {
				t.Errorf("TotalPayable = %s, want %s", got.TotalPayable, tt.wantPayable)
			}
		})
	}
}

func TestComputeRejectsNonPositiveTerm(t *testing.T) {
	for _, termCount := range []int{0, -1} {
		if _, err := Compute(dec("1000000"), dec("5"), termCount, FrequencyMonthly); err == nil {
			t.Errorf("Compute() with termCount %d: expected error", termCount)
		}
	}
}

func TestComputeRejectsUnknownFrequency(t *testing.T) {
	if _, err := Compute(dec("1000000"), dec("5"), 12, Frequency("yearly")); err == nil {
		t.Error("Compute() with unknown frequency: expected error")
	}
}

// Every derived amount must land on a multiple of 1,000 minor units.
func TestComputeResultsAreMultiplesOfThousand(t *testing.T) {
	thousand := decimal.NewFromInt(1000)
	principals := []string{"1", "999", "123457", "1000000", "7350001", "99999999"}
	rates := []string{"0", "3", "5.5", "12", "48"}
	terms := []int{1, 3, 7, 12, 52}
	frequencies := []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly}

	for _, p := range principals {
		for _, r := range rates {
			for _, n := range terms {
				for _, f := range frequencies {
					got, err := Compute(dec(p), dec(r), n, f)
					if err != nil {
						t.Fatalf("Compute(%s, %s, %d, %s) error = %v", p, r, n, f, err)
					}
					for name, v := range map[string]decimal.Decimal{
						"installment":   got.InstallmentAmount,
						"totalInterest": got.TotalInterest,
						"totalPayable":  got.TotalPayable,
					} {
						if v.IsNegative() || !v.Mod(thousand).IsZero() {
							t.Errorf("Compute(%s, %s, %d, %s): %s = %s is not a non-negative multiple of 1000", p, r, n, f, name, v)
						}
					}
				}
			}
		}
	}
}

// Rounding each value independently means payable can drift from
// termCount*installment, but by less than termCount rounding units.
func TestComputeRoundingDriftIsBounded(t *testing.T) {
	got, err := Compute(dec("1000000"), dec("5"), 12, FrequencyWeekly)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	drift := got.InstallmentAmount.Mul(decimal.NewFromInt(12)).Sub(got.TotalPayable).Abs()
	limit := decimal.NewFromInt(12 * 1000)
	if drift.GreaterThanOrEqual(limit) {
		t.Errorf("drift %s exceeds %s", drift, limit)
	}
}
