package bot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/franballerio/moneyMate/internal/report"
	"github.com/franballerio/moneyMate/internal/services"
	"github.com/franballerio/moneyMate/internal/storage"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	ledger, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })

	svc := services.NewExpenseService(ledger, nil)
	clock := func() time.Time {
		return time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	}
	return NewRouter(svc, ledger, clock)
}

func handleOne(t *testing.T, r *Router, line string) string {
	t.Helper()
	replies := r.Handle(context.Background(), line)
	if len(replies) == 0 {
		t.Fatalf("no reply for %q", line)
	}
	return replies[0]
}

func TestHandleAddAndReceipt(t *testing.T) {
	r := newTestRouter(t)
	replies := r.Handle(context.Background(), "/add coffee 2 food")

	if len(replies) != 2 {
		t.Fatalf("expected receipt plus budget note, got %d replies", len(replies))
	}
	receipt := replies[0]
	for _, want := range []string{"2024-05-01", "Coffee", "$2.00", "Food", "Added successfully"} {
		if !strings.Contains(receipt, want) {
			t.Errorf("receipt missing %q:\n%s", want, receipt)
		}
	}
	if replies[1] != replyNoBudget {
		t.Errorf("expected no-budget note, got %q", replies[1])
	}
}

func TestHandleFreeTextIsAdd(t *testing.T) {
	r := newTestRouter(t)
	replies := r.Handle(context.Background(), "morning coffee, 3, food")
	if len(replies) == 0 || !strings.Contains(replies[0], "Morning coffee") {
		t.Fatalf("free text line should record an expense, got %v", replies)
	}
}

func TestHandleAddInvalidFormat(t *testing.T) {
	r := newTestRouter(t)

	if got := handleOne(t, r, "/add coffee food"); got != addFormatHelp {
		t.Errorf("malformed input reply = %q", got)
	}
	if got := handleOne(t, r, "/add coffee two food"); !strings.Contains(got, "Amount must be a number") {
		t.Errorf("non-numeric amount reply = %q", got)
	}
	if got := handleOne(t, r, "/add gift -10 other"); !strings.Contains(got, "greater than zero") {
		t.Errorf("non-positive amount reply = %q", got)
	}
}

func TestHandleBudgetGate(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	if got := handleOne(t, r, "/budget food 100"); !strings.Contains(got, "$100.00") {
		t.Fatalf("budget reply = %q", got)
	}
	r.Handle(ctx, "/add groceries 80 food")

	if got := handleOne(t, r, "/add dinner 25 food"); got != replyOverBudget {
		t.Fatalf("expected over-budget reply, got %q", got)
	}

	replies := r.Handle(ctx, "/add snack 10 food")
	if len(replies) != 2 || !strings.Contains(replies[1], "$10.00") {
		t.Fatalf("expected remaining-budget note of $10.00, got %v", replies)
	}
}

func TestHandleBudgetValidation(t *testing.T) {
	r := newTestRouter(t)

	if got := handleOne(t, r, "/budget food"); got != budgetFormatHelp {
		t.Errorf("missing amount reply = %q", got)
	}
	if got := handleOne(t, r, "/budget food lots"); got != budgetFormatHelp {
		t.Errorf("non-numeric amount reply = %q", got)
	}
	if got := handleOne(t, r, "/budget food -5"); got != "Budget can't be less than 0" {
		t.Errorf("negative amount reply = %q", got)
	}
}

func TestHandleUndo(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	if got := handleOne(t, r, "/undo"); got != replyNothingToUndo {
		t.Errorf("undo on empty ledger reply = %q", got)
	}

	r.Handle(ctx, "/add coffee 2 food")
	if got := handleOne(t, r, "/undo"); got != replyLastDeleted {
		t.Errorf("undo reply = %q", got)
	}

	if got := handleOne(t, r, "/total"); got != report.EmptyMessage {
		t.Errorf("ledger should be empty after undo, total reply = %q", got)
	}
}

func TestHandleSpentDefaultsToToday(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()
	r.Handle(ctx, "/add coffee 2 food")

	got := handleOne(t, r, "/spent")
	if !strings.Contains(got, "Spent on 2024-05-01") {
		t.Errorf("spent title should name today, got:\n%s", got)
	}
	if !strings.Contains(got, "Coffee") {
		t.Errorf("spent report missing item:\n%s", got)
	}
}

func TestHandleSpentScopeError(t *testing.T) {
	r := newTestRouter(t)

	got := handleOne(t, r, "/spent 13")
	if !strings.Contains(got, "Invalid date") {
		t.Errorf("ambiguous single arg reply = %q", got)
	}

	got = handleOne(t, r, "/spent 2 15 2024")
	if !strings.Contains(got, "Invalid date") {
		t.Errorf("invalid day-month-year reply = %q", got)
	}
}

func TestHandleTotalDefaultsToAllTime(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	// Three food expenses totaling 30 against a budget of 50 all record.
	r.Handle(ctx, "/budget food 50")
	r.Handle(ctx, "/add bread 10 food")
	r.Handle(ctx, "/add milk 10 food")
	r.Handle(ctx, "/add eggs 10 food")

	got := handleOne(t, r, "/total")
	if !strings.Contains(got, "Spent all time") {
		t.Errorf("total title should say all time, got:\n%s", got)
	}
	if !strings.Contains(got, "$30.00") {
		t.Errorf("total report should show $30.00:\n%s", got)
	}
}

func TestHandleCategoriesAndBudgets(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	if got := handleOne(t, r, "/categories"); got != "No expenses recorded yet" {
		t.Errorf("empty categories reply = %q", got)
	}
	if got := handleOne(t, r, "/budgets"); got != "No budgets set" {
		t.Errorf("empty budgets reply = %q", got)
	}

	r.Handle(ctx, "/add coffee 2 food")
	r.Handle(ctx, "/add bus 3 transport")
	r.Handle(ctx, "/budget food 50")

	if got := handleOne(t, r, "/categories"); got != "Categories: food, transport" {
		t.Errorf("categories reply = %q", got)
	}
	if got := handleOne(t, r, "/budgets"); !strings.Contains(got, "food  $50.00") {
		t.Errorf("budgets reply = %q", got)
	}
}

func TestHandleRestart(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	r.Handle(ctx, "/add coffee 2 food")
	r.Handle(ctx, "/budget food 50")

	if got := handleOne(t, r, "/restart"); got != replyExpensesClear {
		t.Fatalf("restart reply = %q", got)
	}
	if got := handleOne(t, r, "/total"); got != report.EmptyMessage {
		t.Errorf("expenses should be gone, total reply = %q", got)
	}
	if got := handleOne(t, r, "/budgets"); !strings.Contains(got, "food") {
		t.Errorf("budgets should survive a restart, got %q", got)
	}

	if got := handleOne(t, r, "/restart budgets"); got != replyBudgetsClear {
		t.Fatalf("restart budgets reply = %q", got)
	}
	if got := handleOne(t, r, "/budgets"); got != "No budgets set" {
		t.Errorf("budgets should be cleared, got %q", got)
	}
}

func TestHandleSimulate(t *testing.T) {
	r := newTestRouter(t)

	if got := handleOne(t, r, "/simulate"); got != replySimulated {
		t.Fatalf("simulate reply = %q", got)
	}
	got := handleOne(t, r, "/total")
	if got == report.EmptyMessage {
		t.Fatal("simulate should fill the ledger")
	}
	if !strings.Contains(got, "Groceries") {
		t.Errorf("simulated data should include the groceries category:\n%s", got)
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	r := newTestRouter(t)
	if got := handleOne(t, r, "/frobnicate"); got != replyUnknownCommand {
		t.Errorf("unknown command reply = %q", got)
	}
}

func TestHandleEmptyLine(t *testing.T) {
	r := newTestRouter(t)
	if replies := r.Handle(context.Background(), "   "); replies != nil {
		t.Errorf("blank line should produce no reply, got %v", replies)
	}
}
