package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kozymacro/papara-checkout/internal/checkout"
	"github.com/kozymacro/papara-checkout/internal/database"
)

// execer is the subset of pgxpool.Pool used by AttemptRepository.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AttemptRepository stores checkout submissions that reached the payment service.
type AttemptRepository struct {
	db execer
}

// NewAttemptRepository creates a new attempt repository.
// Returns error if db is nil.
func NewAttemptRepository(db execer) (*AttemptRepository, error) {
	if db == nil {
		return nil, errors.New("database pool is required")
	}
	return &AttemptRepository{db: db}, nil
}

// RecordAttempt inserts one row for the outcome.
func (r *AttemptRepository) RecordAttempt(ctx context.Context, o checkout.Outcome) error {
	var errMessage string
	if o.Err != nil {
		errMessage = o.Err.Error()
	}

	query, args, err := database.QB.
		Insert("checkout_attempts").
		Columns(
			"id", "email", "language", "day_count", "quantity",
			"discount_code", "outcome", "error_field", "error_message",
		).
		Values(
			uuid.New(), o.Request.Email, o.Request.Language, o.Request.DayCount, o.Request.Quantity,
			o.Request.DiscountCode, o.Status.String(), string(o.Field), errMessage,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert checkout attempt: %w", err)
	}
	return nil
}
