// Package worker mirrors recorded expenses from SQLite to the configured
// mirror backend.
package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/franballerio/moneyMate/internal/amqp"
	"github.com/franballerio/moneyMate/internal/core"
	"github.com/franballerio/moneyMate/internal/log"
	"github.com/franballerio/moneyMate/internal/mirror"
	"github.com/franballerio/moneyMate/internal/storage"
)

// SyncWorker copies ledger rows to the mirror writer and marks them done.
type SyncWorker struct {
	ledger    *storage.Ledger
	writer    mirror.Writer
	batchSize int
}

func NewSyncWorker(ledger *storage.Ledger, writer mirror.Writer, batchSize int) *SyncWorker {
	return &SyncWorker{
		ledger:    ledger,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleSyncMessage mirrors the single expense named by an AMQP message.
// The message carries only the row id; the ledger row is the source of
// truth for what gets mirrored.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.MirrorSyncMessage) error {
	slog.InfoContext(ctx, "processing mirror sync message", log.FieldExpenseID, msg.ID)

	expense, err := w.ledger.GetExpense(ctx, msg.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// The row was deleted before we got to it, say by an undo. There
		// is nothing to mirror; returning an error would requeue the
		// message forever.
		slog.WarnContext(ctx, "expense no longer exists, skipping mirror", log.FieldExpenseID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from ledger: %w", err)
	}

	return w.mirrorExpense(ctx, expense.ID, expense)
}

// ProcessPending mirrors rows that never made it through the message path.
// Backup mechanism for lost AMQP messages or worker downtime.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.ledger.PendingMirror(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "processing pending expenses", log.FieldCount, len(pending))

	for _, expense := range pending {
		if err := w.mirrorExpense(ctx, expense.ID, expense); err != nil {
			slog.ErrorContext(ctx, "failed to mirror pending expense", log.FieldExpenseID, expense.ID, log.FieldError, err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains a larger pending backlog once at worker start.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.ledger.PendingMirror(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending expenses for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "no pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "found pending expenses on startup", log.FieldCount, len(pending))

	synced := 0
	failed := 0
	for _, expense := range pending {
		if err := w.mirrorExpense(ctx, expense.ID, expense); err != nil {
			slog.ErrorContext(ctx, "failed to mirror expense during startup", log.FieldExpenseID, expense.ID, log.FieldError, err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}

func (w *SyncWorker) mirrorExpense(ctx context.Context, id int64, expense core.Expense) error {
	ref, err := w.writer.Append(ctx, expense)
	if err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.ledger.MarkMirrored(ctx, id); err != nil {
		// The append worked; a failed mark only causes a duplicate retry.
		slog.ErrorContext(ctx, "failed to mark expense as mirrored", log.FieldExpenseID, id, log.FieldError, err)
	}

	slog.InfoContext(ctx, "mirrored expense",
		log.FieldExpenseID, id,
		log.FieldMirrorRef, ref,
		log.FieldItem, expense.Item,
		log.FieldAmountCents, expense.Amount.Cents)

	return nil
}
