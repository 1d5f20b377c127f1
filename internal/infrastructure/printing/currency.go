package printing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is the locale receipts are printed in
const DefaultLocale = "es-CL"

// CurrencyFormatter renders amounts with the locale's digit grouping and
// decimal separator, prefixed by a currency symbol.
type CurrencyFormatter struct {
	printer *message.Printer
	symbol  string
	scale   int
}

// NewCurrencyFormatter creates a formatter for a BCP 47 locale tag.
// An unparseable tag falls back to DefaultLocale.
func NewCurrencyFormatter(locale, symbol string) *CurrencyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &CurrencyFormatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
		scale:   2,
	}
}

// Format renders amount, e.g. 12345.5 -> "$ 12.345,50" in es-CL
func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	value := amount.Round(int32(f.scale)).InexactFloat64()
	digits := f.printer.Sprint(number.Decimal(value, number.Scale(f.scale)))
	if f.symbol == "" {
		return sign + digits
	}
	return sign + f.symbol + " " + digits
}
