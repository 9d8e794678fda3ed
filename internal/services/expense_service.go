// Package services coordinates the ledger, the budget gate and the mirror
// pipeline for each recorded expense.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/franballerio/moneyMate/internal/core"
	"github.com/franballerio/moneyMate/internal/log"
	"github.com/franballerio/moneyMate/internal/storage"
)

// SyncPublisher enqueues a mirror-sync request for a recorded expense.
// Implemented by the AMQP client; nil disables mirroring.
type SyncPublisher interface {
	PublishMirrorSync(ctx context.Context, id int64) error
}

// ExpenseService owns the record path: budget check, insert, mirror
// publish. The check and the insert run under the ledger's writer lock so
// two concurrent commands cannot both pass the same budget check.
type ExpenseService struct {
	ledger    *storage.Ledger
	publisher SyncPublisher
}

func NewExpenseService(ledger *storage.Ledger, publisher SyncPublisher) *ExpenseService {
	return &ExpenseService{
		ledger:    ledger,
		publisher: publisher,
	}
}

// RecordResult says what happened to one expense candidate.
type RecordResult struct {
	// Recorded is false only when the budget gate blocked the insert.
	Recorded bool
	Expense  core.Expense
	Decision core.BudgetDecision
}

// Record evaluates the category budget and, when allowed, inserts the
// expense dated to the given day. A blocked expense is never inserted.
func (s *ExpenseService) Record(ctx context.Context, in core.ExpenseInput, date core.Date) (RecordResult, error) {
	if err := in.Validate(); err != nil {
		return RecordResult{}, err
	}

	lock := s.ledger.Locker()
	lock.Lock()

	limit, err := s.ledger.GetBudget(ctx, in.Category)
	if err != nil {
		lock.Unlock()
		return RecordResult{}, fmt.Errorf("read budget: %w", err)
	}
	prior, err := s.ledger.TotalSpent(ctx, in.Category)
	if err != nil {
		lock.Unlock()
		return RecordResult{}, fmt.Errorf("read prior spend: %w", err)
	}

	decision := core.EvaluateBudget(limit, prior, in.Amount)
	if decision.Outcome == core.BudgetBlock {
		lock.Unlock()
		slog.InfoContext(ctx, "expense blocked by budget",
			log.FieldCategory, in.Category,
			log.FieldAmountCents, in.Amount.Cents,
			"limit_cents", limit.Amount.Cents,
			"prior_cents", prior.Cents)
		return RecordResult{Recorded: false, Decision: decision}, nil
	}

	expense, err := s.ledger.InsertLocked(ctx, in, date)
	lock.Unlock()
	if err != nil {
		return RecordResult{}, err
	}

	// Mirror failures never undo the ledger write.
	if err := s.publishMirrorSync(ctx, expense.ID); err != nil {
		slog.ErrorContext(ctx, "failed to publish mirror sync", log.FieldExpenseID, expense.ID, log.FieldError, err)
	}

	return RecordResult{Recorded: true, Expense: expense, Decision: decision}, nil
}

func (s *ExpenseService) publishMirrorSync(ctx context.Context, id int64) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishMirrorSync(ctx, id)
}
