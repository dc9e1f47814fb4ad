// Package csvparse turns published sheet CSV text into header-keyed rows.
package csvparse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
)

const bom = "\ufeff"

// Parse reads CSV text whose first record is the header. Each following
// record becomes a domain.Row in header order; short records are padded with
// empty values and surplus columns are dropped. Text without a header yields
// no rows.
func Parse(text string) ([]domain.Row, error) {
	return ParseReader(strings.NewReader(strings.TrimPrefix(text, bom)))
}

// ParseReader is Parse over a stream.
func ParseReader(r io.Reader) ([]domain.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	var rows []domain.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv record: %w", err)
		}

		row := make(domain.Row, len(header))
		for i, name := range header {
			row[i] = domain.Field{Name: name}
			if i < len(rec) {
				row[i].Value = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
