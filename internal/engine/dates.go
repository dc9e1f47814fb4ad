package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// EmptyDateOrdinal is returned for a blank date: an arbitrarily old instant.
var EmptyDateOrdinal = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

// InvalidDateOrdinal is returned for text that is not a date. It sorts before
// every real date and before EmptyDateOrdinal.
const InvalidDateOrdinal int64 = math.MinInt64

var errEmptyDate = errors.New("empty date")

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var genericLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"Jan 2 2006",
	"January 2 2006",
	"2006.01.02",
}

// ParseDate reads a sheet date. Only the text before the first comma is used,
// so "05/Jan/2024, 10:30" resolves to 5 January 2024 (UTC).
func ParseDate(text string) (time.Time, error) {
	clean := strings.TrimSpace(strings.SplitN(text, ",", 2)[0])
	if clean == "" {
		return time.Time{}, errEmptyDate
	}

	if parts := strings.Split(clean, "/"); len(parts) == 3 {
		return parseDayMonthYear(parts)
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized date: " + clean)
}

func parseDayMonthYear(parts []string) (time.Time, error) {
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, errors.New("invalid day: " + parts[0])
	}

	monText := strings.ToLower(strings.TrimSpace(parts[1]))
	month, ok := monthNames[monText]
	if !ok {
		n, err := strconv.Atoi(monText)
		if err != nil || n < 1 || n > 12 {
			return time.Time{}, errors.New("invalid month: " + parts[1])
		}
		month = time.Month(n)
	}

	yearText := strings.TrimSpace(parts[2])
	year, err := strconv.Atoi(yearText)
	if err != nil || year < 0 {
		return time.Time{}, errors.New("invalid year: " + parts[2])
	}
	if len(yearText) <= 2 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// DateOrdinal maps a sheet date to Unix milliseconds for ordering. It never
// fails: blank input yields EmptyDateOrdinal and garbage InvalidDateOrdinal.
func DateOrdinal(text string) int64 {
	if strings.TrimSpace(text) == "" {
		return EmptyDateOrdinal
	}
	t, err := ParseDate(text)
	if err != nil {
		return InvalidDateOrdinal
	}
	return t.UnixMilli()
}
