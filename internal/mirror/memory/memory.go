// Package memory is an in-process mirror for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/franballerio/moneyMate/internal/core"
	"github.com/franballerio/moneyMate/internal/mirror"
)

type Store struct {
	mu    sync.Mutex
	items []core.Expense
}

var _ mirror.Writer = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if err := (core.ExpenseInput{Item: e.Item, Amount: e.Amount, Category: e.Category}).Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.items...)
}
