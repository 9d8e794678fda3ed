package worker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/franballerio/moneyMate/internal/amqp"
	"github.com/franballerio/moneyMate/internal/core"
	"github.com/franballerio/moneyMate/internal/mirror/memory"
	"github.com/franballerio/moneyMate/internal/storage"
)

func openTestLedger(t *testing.T) *storage.Ledger {
	t.Helper()
	ledger, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })
	return ledger
}

func insertExpense(t *testing.T, ledger *storage.Ledger, item, category string, units int64) core.Expense {
	t.Helper()
	in := core.ExpenseInput{Item: item, Amount: core.FromUnits(units), Category: category}
	expense, err := ledger.Insert(context.Background(), in, core.NewDate(2024, 5, 1))
	if err != nil {
		t.Fatalf("insert expense: %v", err)
	}
	return expense
}

func TestHandleSyncMessage(t *testing.T) {
	ledger := openTestLedger(t)
	store := memory.New()
	w := NewSyncWorker(ledger, store, 10)
	ctx := context.Background()

	expense := insertExpense(t, ledger, "bread", "food", 4)

	if err := w.HandleSyncMessage(ctx, &amqp.MirrorSyncMessage{ID: expense.ID}); err != nil {
		t.Fatalf("handle sync message: %v", err)
	}

	rows := store.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 mirrored row, got %d", len(rows))
	}
	if rows[0].Item != "bread" {
		t.Fatalf("mirrored wrong expense: %+v", rows[0])
	}

	pending, err := ledger.PendingMirror(ctx, 10)
	if err != nil {
		t.Fatalf("pending mirror: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows after sync, got %d", len(pending))
	}
}

func TestHandleSyncMessageMissingRowIsSkipped(t *testing.T) {
	ledger := openTestLedger(t)
	store := memory.New()
	w := NewSyncWorker(ledger, store, 10)
	ctx := context.Background()

	// An undo can race the worker: the message arrives after the row is
	// gone. That must ack cleanly, not error into an endless requeue.
	expense := insertExpense(t, ledger, "bread", "food", 4)
	if _, err := ledger.DeleteLast(ctx); err != nil {
		t.Fatalf("delete last: %v", err)
	}

	if err := w.HandleSyncMessage(ctx, &amqp.MirrorSyncMessage{ID: expense.ID}); err != nil {
		t.Fatalf("missing row should not be an error, got %v", err)
	}
	if got := len(store.Rows()); got != 0 {
		t.Fatalf("nothing should be mirrored for a deleted row, got %d", got)
	}
}

func TestProcessPending(t *testing.T) {
	ledger := openTestLedger(t)
	store := memory.New()
	w := NewSyncWorker(ledger, store, 10)
	ctx := context.Background()

	insertExpense(t, ledger, "bread", "food", 4)
	insertExpense(t, ledger, "bus", "transport", 3)

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}

	if got := len(store.Rows()); got != 2 {
		t.Fatalf("expected 2 mirrored rows, got %d", got)
	}

	// A second sweep finds nothing left to do.
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("second process pending: %v", err)
	}
	if got := len(store.Rows()); got != 2 {
		t.Fatalf("expected no duplicate mirroring, got %d rows", got)
	}
}

func TestStartupSyncCheck(t *testing.T) {
	ledger := openTestLedger(t)
	store := memory.New()
	w := NewSyncWorker(ledger, store, 1)
	ctx := context.Background()

	insertExpense(t, ledger, "bread", "food", 4)
	insertExpense(t, ledger, "milk", "food", 2)
	insertExpense(t, ledger, "bus", "transport", 3)

	// Startup check uses a widened batch, so all three fit.
	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("startup sync check: %v", err)
	}
	if got := len(store.Rows()); got != 3 {
		t.Fatalf("expected 3 mirrored rows, got %d", got)
	}
}
