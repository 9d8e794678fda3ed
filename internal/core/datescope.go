package core

import "strconv"

// minYear is the earliest year the ledger accepts in a date scope. The
// upper bound is never a constant: it is always the current year at
// resolution time.
const minYear = 2020

// ScopeKind says how much of a DateScope is populated.
type ScopeKind int

const (
	// ScopeAll matches every recorded expense.
	ScopeAll ScopeKind = iota
	// ScopeYear matches one calendar year.
	ScopeYear
	// ScopeMonth matches one (year, month) pair.
	ScopeMonth
	// ScopeDay matches one exact date.
	ScopeDay
)

// DateScope filters ledger queries by day, month or year. Zero fields are
// absent. Invariant: Day is never set without Month and Year, and Month is
// never set without Year.
type DateScope struct {
	Day   int
	Month int
	Year  int
}

// Kind classifies the scope by its populated fields.
func (s DateScope) Kind() ScopeKind {
	switch {
	case s.Day != 0:
		return ScopeDay
	case s.Month != 0:
		return ScopeMonth
	case s.Year != 0:
		return ScopeYear
	default:
		return ScopeAll
	}
}

// String renders the scope for user-facing report titles.
func (s DateScope) String() string {
	switch s.Kind() {
	case ScopeDay:
		return NewDate(s.Year, s.Month, s.Day).ISO()
	case ScopeMonth:
		return NewDate(s.Year, s.Month, 1).Format("January 2006")
	case ScopeYear:
		return strconv.Itoa(s.Year)
	default:
		return "all time"
	}
}

// ResolveScope interprets 0-3 numeric tokens as a date scope. With no
// tokens it resolves to today's exact-day scope; ResolveScopeAll is the
// variant where an empty argument list means "everything".
//
//	one token:    month of the current year, or a bare year
//	two tokens:   month year
//	three tokens: day month year
//
// Day validity per month (and leap years) is not checked at this layer.
func ResolveScope(args []string, now Date) (DateScope, error) {
	if len(args) == 0 {
		return DateScope{Day: now.Day(), Month: int(now.Month()), Year: now.Year()}, nil
	}
	return resolveTokens(args, now.Year())
}

// ResolveScopeAll is ResolveScope with "no arguments means all time".
// The two query commands differ only in this default.
func ResolveScopeAll(args []string, now Date) (DateScope, error) {
	if len(args) == 0 {
		return DateScope{}, nil
	}
	return resolveTokens(args, now.Year())
}

func resolveTokens(args []string, currentYear int) (DateScope, error) {
	numbers := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return DateScope{}, ErrNonNumericDateArgs
		}
		numbers[i] = n
	}

	switch len(numbers) {
	case 1:
		n := numbers[0]
		if n >= 1 && n <= 12 {
			return DateScope{Month: n, Year: currentYear}, nil
		}
		if n >= minYear && n <= currentYear {
			return DateScope{Year: n}, nil
		}
		return DateScope{}, ErrAmbiguousSingleArg

	case 2:
		month, year := numbers[0], numbers[1]
		if month < 1 || month > 12 || year < minYear || year > currentYear {
			return DateScope{}, ErrInvalidMonthYear
		}
		return DateScope{Month: month, Year: year}, nil

	case 3:
		day, month, year := numbers[0], numbers[1], numbers[2]
		if day < 1 || day > 31 || month < 1 || month > 12 || year < minYear || year > currentYear {
			return DateScope{}, ErrInvalidDayMonthYear
		}
		return DateScope{Day: day, Month: month, Year: year}, nil

	default:
		return DateScope{}, ErrTooManyArgs
	}
}
