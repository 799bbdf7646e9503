package expense

import (
	"errors"
	"strings"
	"testing"
)

func TestCanonicalColumn(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"date", ColDate},
		{"Date", ColDate},
		{" DATE ", ColDate},
		{"description", ColDescription},
		{"  Description", ColDescription},
		{"AMOUNT", ColAmount},
		{"amount ", ColAmount},
		{"notes", "notes"},
		{" Merchant ", "Merchant"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CanonicalColumn(tt.input); got != tt.want {
				t.Errorf("CanonicalColumn(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	input := " Date ,DESCRIPTION,amount,Notes\n" +
		"2024-01-01,Coffee,4.50,morning\n" +
		"2024-01-02,Rent,1200.00,\n" +
		"2024-01-03,Mystery,abc,???\n"

	table, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("got %d rows, want 3", table.Len())
	}

	first := table.Rows[0]
	if first.Date != "2024-01-01" || first.Description != "Coffee" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if !first.HasAmount || first.Amount != 4.50 {
		t.Errorf("first row amount = %v (has=%v), want 4.50", first.Amount, first.HasAmount)
	}
	if first.Extra["Notes"] != "morning" {
		t.Errorf("unmapped column not passed through: %+v", first.Extra)
	}

	// Row order must be preserved.
	if table.Rows[1].Description != "Rent" || table.Rows[2].Description != "Mystery" {
		t.Errorf("row order not preserved: %+v", table.Rows)
	}

	// Unparsable amount is missing, not an error.
	third := table.Rows[2]
	if third.HasAmount {
		t.Error("expected unparsable amount to be missing")
	}
	if third.RawAmount != "abc" {
		t.Errorf("raw token lost: got %q", third.RawAmount)
	}
	if third.AmountOrZero() != 0 {
		t.Errorf("AmountOrZero() = %v, want 0", third.AmountOrZero())
	}
}

func TestParseCSV_Malformed(t *testing.T) {
	// Unclosed quote cannot be parsed as tabular data.
	input := "date,description,amount\n\"2024-01-01,Coffee,4.50\n"

	_, err := ParseCSV(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for malformed input")
	}
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("error does not wrap ErrMalformedInput: %v", err)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if !table.Empty() {
		t.Error("expected empty table")
	}
}

func TestParseCSV_RaggedRecords(t *testing.T) {
	input := "date,description,amount\n2024-01-01,Coffee\n"

	table, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("got %d rows, want 1", table.Len())
	}
	if table.Rows[0].HasAmount {
		t.Error("missing cell should leave amount absent")
	}
}

func TestFromInputs(t *testing.T) {
	table := FromInputs([]RowInput{
		{Date: "2024-01-01", Description: " Coffee ", Amount: "4.50"},
		{Description: "Unknown", Amount: "n/a"},
		{},
	})

	if table.Len() != 3 {
		t.Fatalf("got %d rows, want 3", table.Len())
	}
	if table.Rows[0].Description != "Coffee" {
		t.Errorf("description not trimmed: %q", table.Rows[0].Description)
	}
	if !table.Rows[0].HasAmount || table.Rows[0].Amount != 4.5 {
		t.Errorf("unexpected amount: %+v", table.Rows[0])
	}
	if table.Rows[1].HasAmount {
		t.Error("expected 'n/a' amount to be missing")
	}
	if !table.Rows[2].Blank() {
		t.Error("expected all-empty row to be blank")
	}
}

func TestTableEmpty(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		want  bool
	}{
		{"nil table", nil, true},
		{"no rows", &Table{}, true},
		{"only blank rows", &Table{Rows: []Row{{}, {}}}, true},
		{"one filled cell", &Table{Rows: []Row{{}, {Description: "Rent"}}}, false},
		{"only raw amount", &Table{Rows: []Row{{RawAmount: "abc"}}}, false},
		{"only extra cell", &Table{Rows: []Row{{Extra: map[string]string{"Notes": "x"}}}}, false},
		{"blank extra cell", &Table{Rows: []Row{{Extra: map[string]string{"Notes": ""}}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	var row Row
	row.SetAmount("4.50")
	if got := row.FormatAmount(); got != "4.5" {
		t.Errorf("FormatAmount() = %q, want %q", got, "4.5")
	}

	row.SetAmount("abc")
	if got := row.FormatAmount(); got != "abc" {
		t.Errorf("FormatAmount() = %q, want %q", got, "abc")
	}
}
