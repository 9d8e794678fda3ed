package core

import (
	"errors"
	"testing"
)

func TestParseExpenseCommaDelimited(t *testing.T) {
	cases := []struct {
		in       string
		item     string
		units    int64
		category string
	}{
		{"Lunch, 15, Food", "Lunch", 15, "Food"},
		{"  Movie Tickets , 25 , Entertainment  ", "Movie Tickets", 25, "Entertainment"},
		{"jean zara, 100, clothes", "jean zara", 100, "clothes"},
		{"Coffee, 2.75, Food", "Coffee", 2, "Food"}, // fractional truncates
	}
	for _, tc := range cases {
		got, err := ParseExpense(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got.Item != tc.item || got.Amount.Units() != tc.units || got.Category != tc.category {
			t.Fatalf("%q: got %+v", tc.in, got)
		}
	}
}

func TestParseExpenseSpaceDelimited(t *testing.T) {
	cases := []struct {
		in       string
		item     string
		units    int64
		category string
	}{
		{"Book 20 Education", "Book", 20, "Education"},
		{"Gym Membership 50 Health", "Gym Membership", 50, "Health"},
		{"late night bus ride 3 Transport", "late night bus ride", 3, "Transport"},
	}
	for _, tc := range cases {
		got, err := ParseExpense(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got.Item != tc.item || got.Amount.Units() != tc.units || got.Category != tc.category {
			t.Fatalf("%q: got %+v", tc.in, got)
		}
	}
}

func TestParseExpenseEquivalentForms(t *testing.T) {
	comma, err := ParseExpense("Book, 20, Education")
	if err != nil {
		t.Fatalf("comma form: %v", err)
	}
	spaced, err := ParseExpense("Book 20 Education")
	if err != nil {
		t.Fatalf("space form: %v", err)
	}
	if comma != spaced {
		t.Fatalf("forms differ: %+v vs %+v", comma, spaced)
	}
}

func TestParseExpenseErrors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"", ErrMalformedInput},
		{"Snacks, 5", ErrMalformedInput},
		{"Snacks 5", ErrMalformedInput},
		{"a, b, c, d", ErrMalformedInput},
		{", 10, Food", ErrEmptyItem},
		{"Gift, abc, Other", ErrNonNumericAmount},
		{"Gift, 1.2.3, Other", ErrNonNumericAmount},
		{"Refund, -10, Other", ErrNonPositiveAmount},
		{"Freebie, 0, Other", ErrNonPositiveAmount},
		{"Tiny, 0.99, Other", ErrNonPositiveAmount}, // truncates to zero
		{"Book, 20, ", ErrEmptyCategory},
	}
	for _, tc := range cases {
		_, err := ParseExpense(tc.in)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, err)
		}
	}
}

func TestParseExpenseKeepsCase(t *testing.T) {
	got, err := ParseExpense("coffee, 3, food")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	// Capitalization is presentation-only; stored values keep user case.
	if got.Item != "coffee" || got.Category != "food" {
		t.Fatalf("parser must not change case: %+v", got)
	}
}
