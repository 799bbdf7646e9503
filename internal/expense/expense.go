// Package expense defines the transaction data model and the normalization
// of raw tabular input into it.
package expense

import (
	"strconv"
	"strings"
)

// Canonical column names produced by normalization.
const (
	ColDate        = "Date"
	ColDescription = "Description"
	ColAmount      = "Amount"
)

// Row is one transaction entry. Date and Description are optional and kept
// as plain strings. Amount carries the parsed numeric value; HasAmount is
// false when the source value was empty or not numeric, in which case
// RawAmount still holds the original token for display.
type Row struct {
	Date        string            `json:"date,omitempty"`
	Description string            `json:"description"`
	Amount      float64           `json:"amount"`
	HasAmount   bool              `json:"has_amount"`
	RawAmount   string            `json:"raw_amount,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// AmountOrZero returns the parsed amount, or 0 when the amount is missing
// or was not numeric. Used for aggregation.
func (r Row) AmountOrZero() float64 {
	if !r.HasAmount {
		return 0
	}
	return r.Amount
}

// Blank reports whether every cell of the row is empty.
func (r Row) Blank() bool {
	if r.Date != "" || r.Description != "" || r.RawAmount != "" {
		return false
	}
	for _, v := range r.Extra {
		if v != "" {
			return false
		}
	}
	return true
}

// Table is an ordered sequence of rows. Row order is insertion order from
// the upload or manual edit and is preserved through the pipeline.
type Table struct {
	Rows []Row
}

// Empty reports whether the table has no rows or only blank rows. The
// categorize action declines to run on an empty table.
func (t *Table) Empty() bool {
	if t == nil {
		return true
	}
	for _, r := range t.Rows {
		if !r.Blank() {
			return false
		}
	}
	return true
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// SetAmount parses raw as the row amount. Values that fail numeric
// coercion are kept as raw tokens with HasAmount=false, never an error.
func (r *Row) SetAmount(raw string) {
	r.RawAmount = strings.TrimSpace(raw)
	if r.RawAmount == "" {
		r.Amount = 0
		r.HasAmount = false
		return
	}
	v, err := strconv.ParseFloat(r.RawAmount, 64)
	if err != nil {
		r.Amount = 0
		r.HasAmount = false
		return
	}
	r.Amount = v
	r.HasAmount = true
}

// FormatAmount renders the amount the way it came in: the parsed value for
// numeric amounts, the raw token otherwise.
func (r Row) FormatAmount() string {
	if r.HasAmount {
		return strconv.FormatFloat(r.Amount, 'f', -1, 64)
	}
	return r.RawAmount
}
