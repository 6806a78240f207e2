package core

import (
	"math"
	"strings"
	"testing"
)

func TestValidDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-15", true},
		{"2024-02-29", true}, // leap day
		{"2025-02-29", false},
		{"2025-13-01", false},
		{"2025-1-5", false},
		{"15-01-2025", false},
		{"", false},
		{"2025-01-15T00:00:00", false},
	}
	for _, tc := range cases {
		if got := ValidDate(tc.in); got != tc.ok {
			t.Errorf("ValidDate(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}

func TestValidMonth(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01", true},
		{"2025-12", true},
		{"2025-13", false},
		{"2025-00", false},
		{"2025-1", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidMonth(tc.in); got != tc.ok {
			t.Errorf("ValidMonth(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Date: "2025-01-15", Amount: -45.50, Category: "Groceries"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name  string
		tx    Transaction
		field string
	}{
		{"missing date", Transaction{Amount: 1, Category: "c"}, "date"},
		{"bad date format", Transaction{Date: "2025/01/15", Amount: 1, Category: "c"}, "date"},
		{"impossible date", Transaction{Date: "2025-02-30", Amount: 1, Category: "c"}, "date"},
		{"nan amount", Transaction{Date: "2025-01-15", Amount: math.NaN(), Category: "c"}, "amount"},
		{"inf amount", Transaction{Date: "2025-01-15", Amount: math.Inf(1), Category: "c"}, "amount"},
		{"empty category", Transaction{Date: "2025-01-15", Amount: 1, Category: "   "}, "category"},
		{"category too long", Transaction{Date: "2025-01-15", Amount: 1, Category: strings.Repeat("x", 51)}, "category"},
		{"notes too long", Transaction{Date: "2025-01-15", Amount: 1, Category: "c", Notes: strings.Repeat("n", 501)}, "notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestTransactionValidate_LengthOnRawInput(t *testing.T) {
	// 51 characters before trimming, under the limit after. The limit is
	// checked on the raw input, so this is rejected.
	tx := Transaction{
		Date:     "2025-01-15",
		Amount:   1,
		Category: strings.Repeat("x", 49) + "  ",
	}
	if err := tx.Validate(); err == nil {
		t.Fatal("expected error for over-long raw category")
	}
}

func TestTransactionValidate_AnySignAccepted(t *testing.T) {
	for _, amount := range []float64{-100, 0, 42.5} {
		tx := Transaction{Date: "2025-01-15", Amount: amount, Category: "c"}
		if err := tx.Validate(); err != nil {
			t.Errorf("amount %v: expected ok, got %v", amount, err)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Month: "2025-01", Category: "Groceries", Limit: 400}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name  string
		b     Budget
		field string
	}{
		{"missing month", Budget{Category: "c", Limit: 1}, "month"},
		{"bad month", Budget{Month: "2025-13", Category: "c", Limit: 1}, "month"},
		{"empty category", Budget{Month: "2025-01", Category: "", Limit: 1}, "category"},
		{"category too long", Budget{Month: "2025-01", Category: strings.Repeat("x", 51), Limit: 1}, "category"},
		{"nan limit", Budget{Month: "2025-01", Category: "c", Limit: math.NaN()}, "limit"},
		{"zero limit", Budget{Month: "2025-01", Category: "c", Limit: 0}, "limit"},
		{"negative limit", Budget{Month: "2025-01", Category: "c", Limit: -5}, "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestSameBudgetKey(t *testing.T) {
	a := Budget{Month: "2025-01", Category: "Groceries"}
	cases := []struct {
		name string
		b    Budget
		want bool
	}{
		{"identical", Budget{Month: "2025-01", Category: "Groceries"}, true},
		{"different case", Budget{Month: "2025-01", Category: "groceries"}, true},
		{"padded category", Budget{Month: "2025-01", Category: " Groceries "}, true},
		{"different month", Budget{Month: "2025-02", Category: "Groceries"}, false},
		{"different category", Budget{Month: "2025-01", Category: "Rent"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SameBudgetKey(a, tc.b); got != tc.want {
				t.Errorf("SameBudgetKey = %v, want %v", got, tc.want)
			}
		})
	}
}
