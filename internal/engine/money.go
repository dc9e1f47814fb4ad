package engine

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyFormatter renders amounts as "{symbol} {grouped number}" with exactly
// two fraction digits, grouped per Locale (a BCP 47 tag such as "en-IN").
type MoneyFormatter struct {
	Symbol string
	Locale string
}

// Format renders d. An unknown locale falls back to English.
func (m MoneyFormatter) Format(d decimal.Decimal) string {
	tag, err := language.Parse(m.Locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	n := p.Sprint(number.Decimal(d.Round(2).InexactFloat64(),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
	if m.Symbol == "" {
		return n
	}
	return strings.TrimSpace(m.Symbol) + " " + n
}
