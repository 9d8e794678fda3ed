// Package storage is the durable expense ledger: one SQLite database with
// an expenses table and a budgets table. All mutating operations are
// serialized behind a writer lock so that budget checks followed by
// inserts never interleave.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/franballerio/moneyMate/internal/core"
	"github.com/franballerio/moneyMate/internal/log"

	_ "modernc.org/sqlite"
)

// StorageError wraps any failure of the underlying database so callers can
// tell "no rows" apart from "the ledger is broken".
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Ledger is the SQLite-backed expense and budget store.
type Ledger struct {
	db *sql.DB

	// mu serializes mutations. Reads go straight to the database; the
	// check-then-act record path locks via Locker().
	mu sync.Mutex
}

// Open opens (creating if needed) the ledger database at dbPath and runs
// the schema migrations.
func Open(dbPath string) (*Ledger, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// Locker exposes the ledger's writer lock for callers that need to make a
// read-decide-write sequence atomic, such as the budget gate before an
// insert.
func (l *Ledger) Locker() sync.Locker {
	return &l.mu
}

// Insert appends one expense and returns it with its assigned ID. Durable
// on return.
func (l *Ledger) Insert(ctx context.Context, in core.ExpenseInput, date core.Date) (core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.insertLocked(ctx, in, date)
}

// InsertLocked is Insert for callers already holding Locker().
func (l *Ledger) InsertLocked(ctx context.Context, in core.ExpenseInput, date core.Date) (core.Expense, error) {
	return l.insertLocked(ctx, in, date)
}

func (l *Ledger) insertLocked(ctx context.Context, in core.ExpenseInput, date core.Date) (core.Expense, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO expenses (item, amount_cents, category, date) VALUES (?, ?, ?, ?)`,
		in.Item, in.Amount.Cents, in.Category, date.ISO())
	if err != nil {
		return core.Expense{}, storageErr("insert expense", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, storageErr("insert expense id", err)
	}

	e := core.Expense{
		ID:       id,
		Item:     in.Item,
		Amount:   in.Amount,
		Category: in.Category,
		Date:     date,
	}
	slog.InfoContext(ctx, "expense recorded",
		log.FieldExpenseID, e.ID,
		log.FieldItem, e.Item,
		log.FieldAmountCents, e.Amount.Cents,
		log.FieldCategory, e.Category,
		log.FieldDate, e.Date.ISO())
	return e, nil
}

// DeleteLast removes the expense with the highest ID. Returns false when
// the ledger is empty; that is a no-op, not an error.
func (l *Ledger) DeleteLast(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := l.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = (SELECT id FROM expenses ORDER BY id DESC LIMIT 1)`)
	if err != nil {
		return false, storageErr("delete last expense", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("delete last expense", err)
	}
	if n == 0 {
		slog.InfoContext(ctx, "nothing to delete")
		return false, nil
	}
	slog.InfoContext(ctx, "last expense deleted")
	return true, nil
}

// TotalSpent sums all-time spending for a category. A category with no
// records sums to zero.
func (l *Ledger) TotalSpent(ctx context.Context, category string) (core.Money, error) {
	var cents sql.NullInt64
	err := l.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM expenses WHERE category = ?`, category).Scan(&cents)
	if err != nil {
		return core.Money{}, storageErr("total spent", err)
	}
	if !cents.Valid {
		return core.Money{}, nil
	}
	return core.Money{Cents: cents.Int64}, nil
}

// ExpensesForScope returns expenses whose date matches the scope: exact
// date, same (year, month), same year, or everything for the all scope.
func (l *Ledger) ExpensesForScope(ctx context.Context, scope core.DateScope) ([]core.Expense, error) {
	query := `SELECT id, item, amount_cents, category, date FROM expenses`
	var args []any

	switch scope.Kind() {
	case core.ScopeDay:
		query += ` WHERE date = ?`
		args = append(args, core.NewDate(scope.Year, scope.Month, scope.Day).ISO())
	case core.ScopeMonth:
		query += ` WHERE substr(date, 1, 7) = ?`
		args = append(args, fmt.Sprintf("%04d-%02d", scope.Year, scope.Month))
	case core.ScopeYear:
		query += ` WHERE substr(date, 1, 4) = ?`
		args = append(args, fmt.Sprintf("%04d", scope.Year))
	}
	query += ` ORDER BY date, id`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query expenses", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, storageErr("scan expense", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate expenses", err)
	}
	return out, nil
}

// GetExpense loads a single expense by ID.
func (l *Ledger) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT id, item, amount_cents, category, date FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, err)
	}
	if err != nil {
		return core.Expense{}, storageErr("get expense", err)
	}
	return e, nil
}

// SetBudget upserts a category's limit; the last write wins and no history
// is kept.
func (l *Ledger) SetBudget(ctx context.Context, category string, limit core.Money) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO budgets (category, amount_cents) VALUES (?, ?)`,
		category, limit.Cents)
	if err != nil {
		return storageErr("set budget", err)
	}
	slog.InfoContext(ctx, "budget set", log.FieldCategory, category, log.FieldAmountCents, limit.Cents)
	return nil
}

// GetBudget returns the configured limit for a category, or the
// unconfigured limit when none was ever set.
func (l *Ledger) GetBudget(ctx context.Context, category string) (core.BudgetLimit, error) {
	var cents int64
	err := l.db.QueryRowContext(ctx,
		`SELECT amount_cents FROM budgets WHERE category = ?`, category).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.NoBudget, nil
	}
	if err != nil {
		return core.NoBudget, storageErr("get budget", err)
	}
	return core.LimitOf(core.Money{Cents: cents}), nil
}

// ListBudgets returns every configured budget ordered by category.
func (l *Ledger) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT category, amount_cents FROM budgets ORDER BY category`)
	if err != nil {
		return nil, storageErr("list budgets", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.Category, &b.Limit.Cents); err != nil {
			return nil, storageErr("scan budget", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate budgets", err)
	}
	return out, nil
}

// ListCategories returns the distinct categories observed in recorded
// expenses, ordered alphabetically.
func (l *Ledger) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM expenses ORDER BY category`)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, storageErr("scan category", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate categories", err)
	}
	return out, nil
}

// ClearExpenses irreversibly drops all expense records. Budgets are left
// alone; ClearBudgets is the separate call for those.
func (l *Ledger) ClearExpenses(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.db.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return storageErr("clear expenses", err)
	}
	slog.WarnContext(ctx, "all expenses cleared")
	return nil
}

// ClearBudgets removes every configured budget.
func (l *Ledger) ClearBudgets(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.db.ExecContext(ctx, `DELETE FROM budgets`); err != nil {
		return storageErr("clear budgets", err)
	}
	slog.WarnContext(ctx, "all budgets cleared")
	return nil
}

// Simulation parameters mirror the original data generator: a fixed seed,
// a fixed category set and three years of dates.
var simulatedCategories = []string{
	"groceries", "so", "essentials", "clothes", "entertainment", "transport", "going out",
}

// SeedSimulated replaces the expense table with deterministic sample data
// for demos and manual testing. Returns the number of rows written.
func (l *Ledger) SeedSimulated(ctx context.Context, records int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("begin seed", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return 0, storageErr("seed clear", err)
	}

	rng := rand.New(rand.NewSource(42))
	start := core.NewDate(2023, 1, 1)
	end := core.NewDate(2025, 12, 31)
	days := int(end.Sub(start.Time).Hours() / 24)

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (item, amount_cents, category, date, mirrored) VALUES (?, ?, ?, ?, 1)`)
	if err != nil {
		return 0, storageErr("seed prepare", err)
	}
	defer stmt.Close()

	for i := 0; i < records; i++ {
		date := core.Date{Time: start.AddDate(0, 0, rng.Intn(days+1))}
		category := simulatedCategories[rng.Intn(len(simulatedCategories))]
		amount := core.FromUnits(int64(100 + rng.Intn(79901)))
		if _, err := stmt.ExecContext(ctx, "Product", amount.Cents, category, date.ISO()); err != nil {
			return 0, storageErr("seed insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("seed commit", err)
	}
	slog.InfoContext(ctx, "simulated expenses generated", log.FieldCount, records)
	return records, nil
}

// PendingMirror returns up to limit expenses not yet written to the ledger
// mirror, oldest first.
func (l *Ledger) PendingMirror(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, item, amount_cents, category, date FROM expenses WHERE mirrored = 0 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, storageErr("query pending mirror", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, storageErr("scan pending mirror", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate pending mirror", err)
	}
	return out, nil
}

// MarkMirrored records that an expense reached the mirror.
func (l *Ledger) MarkMirrored(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.db.ExecContext(ctx, `UPDATE expenses SET mirrored = 1 WHERE id = ?`, id); err != nil {
		return storageErr("mark mirrored", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e   core.Expense
		iso string
	)
	if err := row.Scan(&e.ID, &e.Item, &e.Amount.Cents, &e.Category, &iso); err != nil {
		return core.Expense{}, err
	}
	d, err := parseISODate(iso)
	if err != nil {
		return core.Expense{}, err
	}
	e.Date = d
	return e, nil
}
