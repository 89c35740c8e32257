package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatGroupsThousands(t *testing.T) {
	f := NewFormatter("es-PY", "Gs.")
	got := f.Format(decimal.NewFromInt(1150000))
	want := "Gs. 1.150.000"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatFallsBackOnBadLocale(t *testing.T) {
	f := NewFormatter("not a locale", "Gs.")
	if got := f.Format(decimal.NewFromInt(1000)); got == "" {
		t.Error("Format() returned empty string")
	}
}
