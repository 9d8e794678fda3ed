package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// Money is an amount of currency in cents. Expenses are ingested as
	// whole currency units, so stored values are always a multiple of 100.
	Money struct {
		Cents int64
	}

	// Date is a calendar day. The time-of-day part is always midnight UTC.
	Date struct {
		time.Time
	}

	// Expense is one recorded spending item. Immutable once stored; the
	// only way to remove one is DeleteLast or a full ledger clear.
	Expense struct {
		ID       int64
		Item     string
		Amount   Money
		Category string
		Date     Date
	}

	// ExpenseInput is a parsed, validated expense candidate before the
	// ledger assigns an ID and a date.
	ExpenseInput struct {
		Item     string
		Amount   Money
		Category string
	}

	// Budget is a per-category spending cap. At most one per category.
	Budget struct {
		Category string
		Limit    Money
	}
)

// Expense parsing errors, in validation order.
var (
	ErrMalformedInput    = errors.New("expected three fields: item, amount, category")
	ErrEmptyItem         = errors.New("item name cannot be empty")
	ErrNonNumericAmount  = errors.New("amount must be a number")
	ErrNonPositiveAmount = errors.New("amount must be a positive number")
	ErrEmptyCategory     = errors.New("category cannot be empty")
)

// Date scope errors.
var (
	ErrNonNumericDateArgs  = errors.New("all date arguments must be numbers")
	ErrAmbiguousSingleArg  = errors.New("single argument must be a month (1-12) or a year (2020 onwards)")
	ErrInvalidMonthYear    = errors.New("expected month (1-12) and year (2020 onwards)")
	ErrInvalidDayMonthYear = errors.New("expected day (1-31), month (1-12) and year (2020 onwards)")
	ErrTooManyArgs         = errors.New("too many date arguments")
)

// NewDate builds a Date at day granularity.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today truncates t to its calendar day.
func Today(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ISO returns the date as YYYY-MM-DD, the format the ledger stores.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// Units returns the whole-currency-unit value of m.
func (m Money) Units() int64 {
	return m.Cents / 100
}

// FromUnits builds a Money from whole currency units.
func FromUnits(units int64) Money {
	return Money{Cents: units * 100}
}

// String formats m with a currency prefix and two decimals, e.g. "$12.00".
func (m Money) String() string {
	return fmt.Sprintf("$%d.%02d", m.Cents/100, m.Cents%100)
}

// Add returns m plus other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Validate checks an input the way the parser produces it. It exists so
// callers constructing inputs by hand get the same rules as ParseExpense.
func (in ExpenseInput) Validate() error {
	if strings.TrimSpace(in.Item) == "" {
		return ErrEmptyItem
	}
	if in.Amount.Cents <= 0 {
		return ErrNonPositiveAmount
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
