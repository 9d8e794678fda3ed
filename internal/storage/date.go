package storage

import (
	"fmt"
	"time"

	"github.com/franballerio/moneyMate/internal/core"
)

// parseISODate reads the YYYY-MM-DD form the ledger stores.
func parseISODate(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}
