package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionCompensatesInReverseOrder(t *testing.T) {
	var calls []string
	record := func(name string, err error) func(context.Context) error {
		return func(context.Context) error {
			calls = append(calls, name)
			return err
		}
	}

	txn := NewTransaction()
	txn.AddOperation("first", record("first", nil), record("undo first", nil))
	txn.AddOperation("second", record("second", nil), nil)
	txn.AddOperation("third", record("third", nil), record("undo third", nil))
	txn.AddOperation("fourth", record("fourth", errors.New("boom")), record("undo fourth", nil))

	err := txn.Execute(context.Background())

	assert.ErrorContains(t, err, "operation 'fourth' failed: boom")
	assert.Equal(t, []string{"first", "second", "third", "fourth", "undo third", "undo first"}, calls)
}

func TestTransactionJoinsCompensationErrors(t *testing.T) {
	opErr := errors.New("insert failed")
	undoErr := errors.New("delete failed")

	txn := NewTransaction()
	txn.AddOperation("create", func(context.Context) error { return nil }, func(context.Context) error { return undoErr })
	txn.AddOperation("attach", func(context.Context) error { return opErr }, nil)

	err := txn.Execute(context.Background())

	assert.ErrorIs(t, err, opErr)
	assert.ErrorIs(t, err, undoErr)
}

func TestTransactionSuccessSkipsCompensation(t *testing.T) {
	compensated := false
	txn := NewTransaction()
	txn.AddOperation("only", func(context.Context) error { return nil }, func(context.Context) error {
		compensated = true
		return nil
	})

	assert.NoError(t, txn.Execute(context.Background()))
	assert.False(t, compensated)
}
