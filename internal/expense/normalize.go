package expense

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedInput is returned when uploaded data cannot be parsed as
// tabular data at all. It is surfaced to the caller; the session keeps its
// prior state.
var ErrMalformedInput = errors.New("input is not parsable as tabular data")

// columnAliases maps lower-cased, trimmed header names to canonical column
// names. Matching is case- and whitespace-insensitive; headers that do not
// match any alias pass through unchanged.
var columnAliases = map[string]string{
	"date":        ColDate,
	"description": ColDescription,
	"amount":      ColAmount,
}

// CanonicalColumn returns the canonical name for a raw header, or the raw
// header (trimmed) when it maps to nothing.
func CanonicalColumn(name string) string {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := columnAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// ParseCSV reads CSV data and returns a normalized table. The first record
// is the header. Ragged records are tolerated: missing cells are treated
// as empty, extra cells are dropped. A CSV-level parse failure wraps
// ErrMalformedInput.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	return FromRecords(records[0], records[1:]), nil
}

// FromRecords builds a normalized table from a header row and data
// records. Header names are normalized for matching only; unmapped
// columns land in Row.Extra under their trimmed original name.
func FromRecords(header []string, records [][]string) *Table {
	canonical := make([]string, len(header))
	for i, h := range header {
		canonical[i] = CanonicalColumn(h)
	}

	table := &Table{Rows: make([]Row, 0, len(records))}
	for _, record := range records {
		var row Row
		for i, col := range canonical {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			switch col {
			case ColDate:
				row.Date = value
			case ColDescription:
				row.Description = value
			case ColAmount:
				row.SetAmount(value)
			default:
				if row.Extra == nil {
					row.Extra = make(map[string]string)
				}
				row.Extra[col] = value
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// RowInput is a manually entered or edited row as it arrives from the
// presentation layer. Amount stays a string so that unparsable tokens
// survive normalization instead of failing it.
type RowInput struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// FromInputs builds a normalized table from manually edited rows.
func FromInputs(inputs []RowInput) *Table {
	table := &Table{Rows: make([]Row, 0, len(inputs))}
	for _, in := range inputs {
		row := Row{
			Date:        strings.TrimSpace(in.Date),
			Description: strings.TrimSpace(in.Description),
		}
		row.SetAmount(in.Amount)
		table.Rows = append(table.Rows, row)
	}
	return table
}
