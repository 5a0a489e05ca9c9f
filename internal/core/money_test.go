package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"500", 50000},
		{"500.00", 50000},
		{"500.5", 50050},
		{"500.55", 50055},
		{"500.555", 50056}, // third decimal rounds half up
		{"500.554", 50055},
		{"500,25", 50025}, // comma separator accepted
		{".50", 50},
		{"0.01", 1},
	}
	for _, tt := range tests {
		got, err := ParseDecimalToCents(tt.input)
		if err != nil {
			t.Errorf("ParseDecimalToCents(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseDecimalToCentsRejects(t *testing.T) {
	for _, input := range []string{"", "  ", "0", "0.00", "-5", "+5", "abc", "1.2.3", "1a.00"} {
		if _, err := ParseDecimalToCents(input); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseDecimalToCents(%q) err = %v, want ErrInvalidAmount", input, err)
		}
	}
}

func TestParseSignedDecimalToCents(t *testing.T) {
	got, err := ParseSignedDecimalToCents("-200.00")
	if err != nil {
		t.Fatal(err)
	}
	if got != -20000 {
		t.Errorf("got %d, want -20000", got)
	}

	got, err = ParseSignedDecimalToCents("200.00")
	if err != nil {
		t.Fatal(err)
	}
	if got != 20000 {
		t.Errorf("got %d, want 20000", got)
	}

	// A bare minus sign still fails like an empty amount.
	if _, err := ParseSignedDecimalToCents("-"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestMoneyValidateAndPesos(t *testing.T) {
	if err := (Money{Cents: 50000}).Validate(); err != nil {
		t.Errorf("positive amount: %v", err)
	}
	for _, cents := range []int64{0, -1} {
		if err := (Money{Cents: cents}).Validate(); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Validate(%d cents) = %v, want ErrInvalidAmount", cents, err)
		}
	}
	if got := (Money{Cents: 57550}).Pesos(); got != 575.50 {
		t.Errorf("Pesos() = %v, want 575.50", got)
	}
	if got := (Money{Cents: 100}).Add(Money{Cents: 250}); got.Cents != 350 {
		t.Errorf("Add = %d, want 350", got.Cents)
	}
}
