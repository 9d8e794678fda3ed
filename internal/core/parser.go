// Package core holds the decision logic of the expense engine: free-text
// expense parsing, date scope resolution and budget evaluation. Everything
// here is pure; persistence lives in internal/storage.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseExpense turns one line of user text into a validated expense input.
//
// Two syntaxes are accepted:
//
//	comma-delimited: "movie tickets, 25, entertainment"
//	space-delimited: "lunch 15 food" (last token is the category, the
//	second-to-last the amount, everything before is the item)
//
// The item may contain spaces in both forms. Fractional amounts are
// truncated toward zero to whole currency units.
func ParseExpense(raw string) (ExpenseInput, error) {
	item, amount, category, err := splitFields(raw)
	if err != nil {
		return ExpenseInput{}, err
	}

	if item == "" {
		return ExpenseInput{}, ErrEmptyItem
	}
	units, err := parseAmountUnits(amount)
	if err != nil {
		return ExpenseInput{}, err
	}
	if category == "" {
		return ExpenseInput{}, ErrEmptyCategory
	}

	return ExpenseInput{
		Item:     item,
		Amount:   FromUnits(units),
		Category: category,
	}, nil
}

// splitFields detects the delimiter mode once, then splits. The comma form
// wins whenever the line contains a comma.
func splitFields(raw string) (item, amount, category string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", "", ErrMalformedInput
	}

	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		if len(parts) != 3 {
			return "", "", "", ErrMalformedInput
		}
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), nil
	}

	tokens := strings.Fields(raw)
	if len(tokens) < 3 {
		return "", "", "", ErrMalformedInput
	}
	n := len(tokens)
	return strings.Join(tokens[:n-2], " "), tokens[n-2], tokens[n-1], nil
}

// parseAmountUnits parses a decimal amount and truncates it toward zero to
// whole currency units. The truncation mirrors the original ledger, which
// only ever stored integer amounts.
func parseAmountUnits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrNonNumericAmount
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, ok := strings.Cut(s, ".")
	if !ok {
		fracPart = ""
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrNonNumericAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrNonNumericAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrNonNumericAmount
		}
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrNonNumericAmount
	}
	// The fractional part is discarded: truncation toward zero.
	if negative || units <= 0 {
		return 0, ErrNonPositiveAmount
	}
	return units, nil
}
