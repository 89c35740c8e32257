// Package currency formats amounts for display. The ledger itself only
// ever sees raw decimal values; formatting is a presentation concern.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts as localized currency text.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a formatter for a BCP 47 locale and a currency
// symbol, e.g. ("es-PY", "Gs."). An unparseable locale falls back to
// Spanish, the business's working language.
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}
}

// Format renders an amount with the locale's digit grouping, e.g.
// "Gs. 1.150.000". Amounts are whole minor units, so no decimals are
// shown.
func (f *Formatter) Format(amount decimal.Decimal) string {
	return f.printer.Sprintf("%s %v", f.symbol, number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(0)))
}
