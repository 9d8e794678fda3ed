package core

// BudgetLimit is a category's configured cap, or the absence of one. A
// stored limit of zero behaves as unconfigured: zero is not a valid cap.
type BudgetLimit struct {
	Configured bool
	Amount     Money
}

// NoBudget is the unconfigured limit.
var NoBudget = BudgetLimit{}

// LimitOf builds a configured limit.
func LimitOf(amount Money) BudgetLimit {
	return BudgetLimit{Configured: true, Amount: amount}
}

// BudgetOutcome is the result of evaluating a new expense against a
// category budget. These are decisions, not errors.
type BudgetOutcome int

const (
	// BudgetNoLimit: no budget configured for the category; the expense
	// is recorded and the caller may mention the missing budget.
	BudgetNoLimit BudgetOutcome = iota
	// BudgetAllow: the expense fits; Remaining says how much is left.
	BudgetAllow
	// BudgetBlock: recording the expense would exhaust the budget. The
	// caller must not insert it.
	BudgetBlock
)

// BudgetDecision is the outcome plus the remaining budget when allowed.
type BudgetDecision struct {
	Outcome   BudgetOutcome
	Remaining Money
}

// EvaluateBudget decides whether a new expense fits within a category's
// budget given the spend recorded so far. It is a gate: callers evaluate
// before inserting, and a Block result means the insert must not happen.
func EvaluateBudget(limit BudgetLimit, priorSpend, newAmount Money) BudgetDecision {
	if !limit.Configured || limit.Amount.Cents == 0 {
		return BudgetDecision{Outcome: BudgetNoLimit}
	}
	remaining := limit.Amount.Cents - priorSpend.Cents - newAmount.Cents
	if remaining <= 0 {
		return BudgetDecision{Outcome: BudgetBlock}
	}
	return BudgetDecision{Outcome: BudgetAllow, Remaining: Money{Cents: remaining}}
}
