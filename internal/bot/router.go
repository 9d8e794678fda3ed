// Package bot maps chat commands onto ledger operations and turns the
// results into plain-text replies. It never sees transport metadata; the
// Messenger owns delivery.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/franballerio/moneyMate/internal/core"
	"github.com/franballerio/moneyMate/internal/log"
	"github.com/franballerio/moneyMate/internal/report"
	"github.com/franballerio/moneyMate/internal/services"
	"github.com/franballerio/moneyMate/internal/storage"
)

const (
	replyUnknownCommand = "Sorry, I didn't understand that command."
	replyOverBudget     = "You went over the budget, the expense was not recorded"
	replyNoBudget       = "There isn't a budget set for this category"
	replyLastDeleted    = "Last expense deleted"
	replyNothingToUndo  = "There is nothing to delete"
	replyExpensesClear  = "All expenses deleted"
	replyBudgetsClear   = "All budgets deleted"
	replySimulated      = "Random spents generated"
	replyCommandFailed  = "Something went wrong, nothing was changed"

	addFormatHelp    = "Invalid format\nTry this format:\nproduct amount category\nyour product, amount, category"
	budgetFormatHelp = "Format not valid for a budget, try /budget [category] [amount]"

	simulatedRecords = 1000
)

// Router dispatches one incoming line to the matching ledger operation.
type Router struct {
	expenses *services.ExpenseService
	ledger   *storage.Ledger
	now      func() time.Time
}

// NewRouter wires a router over the expense service and the ledger. A nil
// now falls back to time.Now; tests inject a fixed clock.
func NewRouter(expenses *services.ExpenseService, ledger *storage.Ledger, now func() time.Time) *Router {
	if now == nil {
		now = time.Now
	}
	return &Router{
		expenses: expenses,
		ledger:   ledger,
		now:      now,
	}
}

// Handle processes one line of user input and returns the replies to send,
// in order. A line starting with "/" is a command; anything else is treated
// as a free-text expense.
func (r *Router) Handle(ctx context.Context, line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	if !strings.HasPrefix(line, "/") {
		return r.addExpense(ctx, line)
	}

	fields := strings.Fields(line)
	command := strings.TrimPrefix(fields[0], "/")
	args := fields[1:]

	switch command {
	case "add":
		return r.addExpense(ctx, strings.Join(args, " "))
	case "undo":
		return r.undo(ctx)
	case "budget":
		return r.setBudget(ctx, args)
	case "budgets":
		return r.listBudgets(ctx)
	case "categories":
		return r.listCategories(ctx)
	case "spent":
		return r.spent(ctx, args)
	case "total":
		return r.total(ctx, args)
	case "restart":
		return r.restart(ctx, args)
	case "simulate":
		return r.simulate(ctx)
	default:
		return []string{replyUnknownCommand}
	}
}

func (r *Router) addExpense(ctx context.Context, text string) []string {
	in, err := core.ParseExpense(text)
	if err != nil {
		return []string{parseErrorReply(err)}
	}

	today := core.Today(r.now())
	res, err := r.expenses.Record(ctx, in, today)
	if err != nil {
		slog.ErrorContext(ctx, "add command failed", log.FieldError, err)
		return []string{replyCommandFailed}
	}

	if !res.Recorded {
		return []string{replyOverBudget}
	}

	replies := []string{receipt(res.Expense)}
	switch res.Decision.Outcome {
	case core.BudgetNoLimit:
		replies = append(replies, replyNoBudget)
	case core.BudgetAllow:
		replies = append(replies, fmt.Sprintf("Your remaining budget for %s is %s",
			in.Category, res.Decision.Remaining))
	}
	return replies
}

func (r *Router) undo(ctx context.Context) []string {
	deleted, err := r.ledger.DeleteLast(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "undo command failed", log.FieldError, err)
		return []string{replyCommandFailed}
	}
	if !deleted {
		return []string{replyNothingToUndo}
	}
	return []string{replyLastDeleted}
}

func (r *Router) setBudget(ctx context.Context, args []string) []string {
	if len(args) != 2 {
		return []string{budgetFormatHelp}
	}
	category := args[0]
	units, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return []string{budgetFormatHelp}
	}
	if units < 0 {
		return []string{"Budget can't be less than 0"}
	}

	limit := core.FromUnits(units)
	if err := r.ledger.SetBudget(ctx, category, limit); err != nil {
		slog.ErrorContext(ctx, "budget command failed", log.FieldError, err)
		return []string{replyCommandFailed}
	}
	return []string{fmt.Sprintf("Budget allocated\n\nYou can spend %s on %s", limit, category)}
}

func (r *Router) listBudgets(ctx context.Context) []string {
	budgets, err := r.ledger.ListBudgets(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "budgets command failed", log.FieldError, err)
		return []string{replyCommandFailed}
	}
	if len(budgets) == 0 {
		return []string{"No budgets set"}
	}

	var b strings.Builder
	b.WriteString("Budgets\n")
	for _, budget := range budgets {
		fmt.Fprintf(&b, "\n%s  %s", budget.Category, budget.Limit)
	}
	return []string{b.String()}
}

func (r *Router) listCategories(ctx context.Context) []string {
	categories, err := r.ledger.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "categories command failed", log.FieldError, err)
		return []string{replyCommandFailed}
	}
	if len(categories) == 0 {
		return []string{"No expenses recorded yet"}
	}
	return []string{"Categories: " + strings.Join(categories, ", ")}
}

// spent reports itemized expenses; no arguments means today.
func (r *Router) spent(ctx context.Context, args []string) []string {
	scope, err := core.ResolveScope(args, core.Today(r.now()))
	if err != nil {
		return []string{scopeErrorReply(err)}
	}
	return r.report(ctx, scope, func(rows []core.Expense, title string) string {
		return report.FormatItemized(rows, title)
	})
}

// total reports per-category sums; no arguments means all time.
func (r *Router) total(ctx context.Context, args []string) []string {
	scope, err := core.ResolveScopeAll(args, core.Today(r.now()))
	if err != nil {
		return []string{scopeErrorReply(err)}
	}
	return r.report(ctx, scope, func(rows []core.Expense, title string) string {
		return report.FormatAggregated(rows, title)
	})
}

func (r *Router) report(ctx context.Context, scope core.DateScope, format func([]core.Expense, string) string) []string {
	rows, err := r.ledger.ExpensesForScope(ctx, scope)
	if err != nil {
		slog.ErrorContext(ctx, "report command failed", log.FieldError, err)
		return []string{replyCommandFailed}
	}
	title := "Spent " + scopeTitle(scope)
	return []string{format(rows, title)}
}

func (r *Router) restart(ctx context.Context, args []string) []string {
	if len(args) == 1 && args[0] == "budgets" {
		if err := r.ledger.ClearBudgets(ctx); err != nil {
			slog.ErrorContext(ctx, "restart command failed", log.FieldError, err)
			return []string{replyCommandFailed}
		}
		return []string{replyBudgetsClear}
	}

	if err := r.ledger.ClearExpenses(ctx); err != nil {
		slog.ErrorContext(ctx, "restart command failed", log.FieldError, err)
		return []string{replyCommandFailed}
	}
	return []string{replyExpensesClear}
}

func (r *Router) simulate(ctx context.Context) []string {
	if _, err := r.ledger.SeedSimulated(ctx, simulatedRecords); err != nil {
		slog.ErrorContext(ctx, "simulate command failed", log.FieldError, err)
		return []string{replyCommandFailed}
	}
	return []string{replySimulated}
}

func receipt(e core.Expense) string {
	return fmt.Sprintf("Spent\n\n  date      %s\n  item      %s\n  amount    %s\n  category  %s\n\nAdded successfully",
		e.Date.ISO(), capitalize(e.Item), e.Amount, capitalize(e.Category))
}

// parseErrorReply maps parser errors onto the help texts users see.
func parseErrorReply(err error) string {
	switch {
	case errors.Is(err, core.ErrNonNumericAmount):
		return "Invalid format\nAmount must be a number"
	case errors.Is(err, core.ErrNonPositiveAmount):
		return "Invalid format\nAmount must be greater than zero"
	default:
		return addFormatHelp
	}
}

func scopeErrorReply(err error) string {
	return "Invalid date\n" + err.Error()
}

func scopeTitle(scope core.DateScope) string {
	if scope.Kind() == core.ScopeDay {
		return "on " + scope.String()
	}
	if scope.Kind() == core.ScopeAll {
		return scope.String()
	}
	return "in " + scope.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
