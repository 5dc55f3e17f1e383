package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kozymacro/papara-checkout/internal/checkout"
	"github.com/kozymacro/papara-checkout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecer struct {
	query string
	args  []any
	err   error
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.query = sql
	f.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestNewAttemptRepository(t *testing.T) {
	t.Run("nil pool returns error", func(t *testing.T) {
		repo, err := NewAttemptRepository(nil)
		assert.Nil(t, repo)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database pool is required")
	})
}

func TestRecordAttempt(t *testing.T) {
	outcome := checkout.Outcome{
		Status: checkout.StatusRejected,
		Request: model.PurchaseRequest{
			Email:        "a@b.com",
			Language:     "tr",
			Quantity:     5,
			DayCount:     30,
			DiscountCode: "SPRING-10",
		},
		Field: checkout.FieldQuantity,
		Err:   errors.New("Too many items"),
	}

	t.Run("inserts row", func(t *testing.T) {
		db := &fakeExecer{}
		repo, err := NewAttemptRepository(db)
		require.NoError(t, err)

		require.NoError(t, repo.RecordAttempt(context.Background(), outcome))

		assert.Contains(t, db.query, "INSERT INTO checkout_attempts")
		assert.Contains(t, db.query, "$9")
		require.Len(t, db.args, 9)
		assert.Equal(t, "a@b.com", db.args[1])
		assert.Equal(t, "tr", db.args[2])
		assert.Equal(t, 30, db.args[3])
		assert.Equal(t, 5, db.args[4])
		assert.Equal(t, "SPRING-10", db.args[5])
		assert.Equal(t, "rejected", db.args[6])
		assert.Equal(t, "quantity", db.args[7])
		assert.Equal(t, "Too many items", db.args[8])
	})

	t.Run("exec error is wrapped", func(t *testing.T) {
		db := &fakeExecer{err: errors.New("connection reset")}
		repo, err := NewAttemptRepository(db)
		require.NoError(t, err)

		err = repo.RecordAttempt(context.Background(), outcome)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insert checkout attempt")
		assert.Contains(t, err.Error(), "connection reset")
	})
}
