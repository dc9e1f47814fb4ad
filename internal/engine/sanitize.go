package engine

import (
	"strings"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
)

// Sanitize trims every field name and value and drops rows whose values are
// all empty. Order is preserved and the input is not modified.
func Sanitize(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		cleaned := make(domain.Row, len(row))
		empty := true
		for i, f := range row {
			cleaned[i] = domain.Field{
				Name:  strings.TrimSpace(f.Name),
				Value: strings.TrimSpace(f.Value),
			}
			if cleaned[i].Value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}
