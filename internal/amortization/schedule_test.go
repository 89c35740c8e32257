package amortization

import (
	"testing"
	"time"
)

var asuncion = func() *time.Location {
	loc, err := time.LoadLocation("America/Asuncion")
	if err != nil {
		panic(err)
	}
	return loc
}()

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, asuncion)
}

func TestDueDate(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		termCount int
		frequency Frequency
		want      time.Time
	}{
		{
			name:  "daily adds days",
			start: date(2024, time.March, 1), termCount: 10, frequency: FrequencyDaily,
			want: date(2024, time.March, 11),
		},
		{
			name:  "weekly adds seven days per period",
			start: date(2024, time.March, 1), termCount: 4, frequency: FrequencyWeekly,
			want: date(2024, time.March, 29),
		},
		{
			name:  "biweekly adds fourteen days per period",
			start: date(2024, time.March, 1), termCount: 2, frequency: FrequencyBiweekly,
			want: date(2024, time.March, 29),
		},
		{
			name:  "monthly keeps day of month",
			start: date(2024, time.March, 15), termCount: 3, frequency: FrequencyMonthly,
			want: date(2024, time.June, 15),
		},
		{
			name:  "monthly clamps jan 31 to leap feb 29",
			start: date(2024, time.January, 31), termCount: 1, frequency: FrequencyMonthly,
			want: date(2024, time.February, 29),
		},
		{
			name:  "monthly clamps jan 31 to feb 28 off leap years",
			start: date(2023, time.January, 31), termCount: 1, frequency: FrequencyMonthly,
			want: date(2023, time.February, 28),
		},
		{
			name:  "monthly clamps to thirty day months",
			start: date(2024, time.January, 31), termCount: 3, frequency: FrequencyMonthly,
			want: date(2024, time.April, 30),
		},
		{
			name:  "monthly crosses year boundary",
			start: date(2024, time.November, 10), termCount: 3, frequency: FrequencyMonthly,
			want: date(2025, time.February, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DueDate(tt.start, tt.termCount, tt.frequency, asuncion)
			if err != nil {
				t.Fatalf("DueDate() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("DueDate() = %s, want %s", got, tt.want)
			}
		})
	}
}

// The same calendar date must produce the same due date no matter which
// zone the caller happened to parse it in.
func TestDueDateIgnoresInputZone(t *testing.T) {
	zones := []*time.Location{time.UTC, asuncion}
	if ny, err := time.LoadLocation("America/New_York"); err == nil {
		zones = append(zones, ny)
	}

	var results []time.Time
	for _, zone := range zones {
		start := time.Date(2024, time.January, 31, 0, 0, 0, 0, zone)
		got, err := DueDate(start, 1, FrequencyMonthly, asuncion)
		if err != nil {
			t.Fatalf("DueDate() error = %v", err)
		}
		results = append(results, got)
	}
	for i := 1; i < len(results); i++ {
		if !results[i].Equal(results[0]) {
			t.Errorf("due date differs by input zone: %s vs %s", results[i], results[0])
		}
	}
}

func TestDueDateRejectsBadInput(t *testing.T) {
	if _, err := DueDate(date(2024, time.March, 1), 0, FrequencyMonthly, asuncion); err == nil {
		t.Error("expected error for zero term count")
	}
	if _, err := DueDate(date(2024, time.March, 1), -5, FrequencyMonthly, asuncion); err == nil {
		t.Error("expected error for negative term count")
	}
	if _, err := DueDate(time.Time{}, 1, FrequencyMonthly, asuncion); err == nil {
		t.Error("expected error for zero start date")
	}
}

func TestSchedule(t *testing.T) {
	dates, err := Schedule(date(2024, time.January, 31), 3, FrequencyMonthly, asuncion)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	want := []time.Time{
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.March, 31),
	}
	if len(dates) != len(want) {
		t.Fatalf("Schedule() returned %d dates, want %d", len(dates), len(want))
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Errorf("Schedule()[%d] = %s, want %s", i, dates[i], want[i])
		}
	}
}

func TestScheduleWeeklyIsEvenlySpaced(t *testing.T) {
	dates, err := Schedule(date(2024, time.March, 1), 6, FrequencyWeekly, asuncion)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	for i := 1; i < len(dates); i++ {
		if got := DaysBetween(dates[i-1], dates[i], asuncion); got != 7 {
			t.Errorf("gap between %s and %s = %d days, want 7", dates[i-1], dates[i], got)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", date(2024, time.March, 5), date(2024, time.March, 5), 0},
		{"forward across month", date(2024, time.February, 27), date(2024, time.March, 2), 4},
		{"backward is negative", date(2024, time.March, 10), date(2024, time.March, 3), -7},
		{"across year", date(2023, time.December, 30), date(2024, time.January, 2), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b, asuncion); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}
