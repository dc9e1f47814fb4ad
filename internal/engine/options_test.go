package engine_test

import (
	"testing"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/engine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	c := fixture()
	c.Openings = append(c.Openings, opening("Wallet", "0"))

	opts := engine.Options(c)

	assert.Equal(t, []string{"Feb-24", "Jan-24"}, opts.Months)
	assert.Equal(t, []string{"Bank", "Card", "Cash", "Wallet"}, opts.Modes)
	assert.Equal(t, []string{"Food", "Travel", "Utilities"}, opts.Groups)
}

func TestOptions_Empty(t *testing.T) {
	opts := engine.Options(domain.Collections{})

	assert.Empty(t, opts.Months)
	assert.Empty(t, opts.Modes)
	assert.Empty(t, opts.Groups)
}

func TestSortLabels_CaseInsensitiveCollation(t *testing.T) {
	in := []string{"cash", "Bank", "Card", "apple"}
	engine.SortLabels(in)
	assert.Equal(t, []string{"apple", "Bank", "Card", "cash"}, in)
}

func TestMoneyFormatter(t *testing.T) {
	aed := engine.MoneyFormatter{Symbol: "AED", Locale: "en"}

	assert.Equal(t, "AED 1,234.50", aed.Format(dec("1234.5")))
	assert.Equal(t, "AED 0.00", aed.Format(decimal.Zero))
	assert.Equal(t, "AED 12.35", aed.Format(dec("12.345")))

	bare := engine.MoneyFormatter{Locale: "en"}
	assert.Equal(t, "1,000,000.00", bare.Format(dec("1000000")))

	fallback := engine.MoneyFormatter{Symbol: "AED", Locale: "not a locale"}
	assert.Equal(t, "AED 7.00", fallback.Format(dec("7")))
}
