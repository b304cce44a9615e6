package core

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw string
		ok  bool
	}{
		{"pending", true},
		{"paid", true},
		{"cancelled", true},
		{"", false},
		{"PAID", false},
		{"archived", false},
	}
	for i, tc := range cases {
		s, err := ParseStatus(tc.raw)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if tc.ok && string(s) != tc.raw {
			t.Fatalf("case %d got status %q, want %q", i, s, tc.raw)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("case %d expected ErrInvalidStatus, got %v", i, err)
		}
	}
}

func TestExpenseUpdateEmpty(t *testing.T) {
	if !(ExpenseUpdate{}).Empty() {
		t.Fatal("zero update should be empty")
	}

	name := "Acme"
	amount := 12.5
	catID := int64(3)
	status := StatusPaid
	nonEmpty := []ExpenseUpdate{
		{CompanyName: &name},
		{Amount: &amount},
		{CategoryID: &catID},
		{Status: &status},
	}
	for i, u := range nonEmpty {
		if u.Empty() {
			t.Fatalf("case %d should not be empty", i)
		}
	}
}

func TestExpenseUpdateValidate(t *testing.T) {
	bad := ExpenseStatus("overdue")
	if err := (ExpenseUpdate{Status: &bad}).Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	good := StatusCancelled
	if err := (ExpenseUpdate{Status: &good}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (ExpenseUpdate{}).Validate(); err != nil {
		t.Fatalf("empty update should validate, got %v", err)
	}
}
