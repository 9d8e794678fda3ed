// Package mirror defines the outbound port for the optional ledger
// mirror: an external append-only copy of recorded expenses. Mirror
// failures never roll back the primary ledger write.
package mirror

import (
	"context"

	"github.com/franballerio/moneyMate/internal/core"
)

// Writer appends one expense record (date, item, amount, category) to the
// mirror and returns an implementation-specific row reference.
type Writer interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
