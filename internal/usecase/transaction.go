package usecase

import (
	"context"
	"errors"
	"fmt"
)

// Transaction runs steps in order and, when one fails, runs the compensations
// of the steps that already succeeded in reverse order.
type Transaction struct {
	steps []step
}

type step struct {
	name       string
	fn         func(context.Context) error
	compensate func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddOperation appends a step. compensate may be nil.
func (t *Transaction) AddOperation(name string, fn, compensate func(context.Context) error) {
	t.steps = append(t.steps, step{name: name, fn: fn, compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, s := range t.steps {
		if err := s.fn(ctx); err != nil {
			opErr := fmt.Errorf("operation '%s' failed: %w", s.name, err)
			if rbErr := t.rollback(ctx, i); rbErr != nil {
				return errors.Join(opErr, rbErr)
			}
			return opErr
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) error {
	var errs []error
	for i := failedAt - 1; i >= 0; i-- {
		s := t.steps[i]
		if s.compensate == nil {
			continue
		}
		if err := s.compensate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("compensation '%s' failed: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
