// Package engine is the in-memory analytics core of the dashboard: amount and
// date normalization, row cleaning, filtering, sorting, balance reconciliation,
// aggregation, unified transactions and pagination.
//
// Every function is a pure transformation over immutable snapshots; callers
// own synchronization.
package engine

import (
	"regexp"
	"strings"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	currencyCodes = regexp.MustCompile(`(?i)AED|INR`)
	leadingNumber = regexp.MustCompile(`^-?(\d+(\.\d+)?|\.\d+)`)
)

// currencyGlyphs are stripped in addition to the ISO codes.
var currencyGlyphs = []string{"₹"}

// ParseAmount converts spreadsheet amount text into a signed decimal.
//
// Accepted notations:
//
//	"₹ 1,200"   ->  1200
//	"(150.00)"  -> -150.00  (bracket negative)
//	"150.00-"   -> -150.00  (trailing minus)
//	"12abc"     ->  12      (leading numeric prefix)
//
// Empty input is zero. Text without a numeric prefix returns ErrUnparseableAmount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return decimal.Zero, nil
	}

	v = currencyCodes.ReplaceAllString(v, "")
	for _, g := range currencyGlyphs {
		v = strings.ReplaceAll(v, g, "")
	}
	v = strings.Join(strings.Fields(v), "")

	negative := false
	if len(v) >= 2 && strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		negative = true
		v = v[1 : len(v)-1]
	} else if strings.HasSuffix(v, "-") {
		v = "-" + strings.TrimSuffix(v, "-")
	}

	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimPrefix(v, "+")

	num := leadingNumber.FindString(v)
	if num == "" {
		return decimal.Zero, domain.ErrUnparseableAmount
	}
	if strings.HasPrefix(num, ".") || strings.HasPrefix(num, "-.") {
		num = strings.Replace(num, ".", "0.", 1)
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, domain.ErrUnparseableAmount
	}

	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ToNumber is the lenient form of ParseAmount: anything unparseable is zero.
func ToNumber(raw string) decimal.Decimal {
	d, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
