package e

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrInternal           = errors.New("internal error")
	ErrDeadline           = errors.New("deadline exceeded")
	ErrCanceled           = errors.New("context canceled")
	ErrUniqueViolation    = errors.New("unique violation")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrEventQueueEmpty    = errors.New("event queue is empty")

	ErrDuplicateVote          = errors.New("duplicate vote")
	ErrVoteNotFound           = errors.New("vote not found")
	ErrMediaLimitExceeded     = errors.New("media limit exceeded")
	ErrInvalidStatusValue     = errors.New("invalid status value")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrOutsideServiceArea     = errors.New("outside service area")
)

// Violation is a single failed constraint on an input field.
type Violation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value any    `json:"value,omitempty"`
}

// Error carries the detail needed to build a precise client message.
// It unwraps to Kind, so errors.Is(err, e.ErrDuplicateVote) works through any wrapping.
type Error struct {
	Kind       error       `json:"-"`
	Op         string      `json:"-"`
	Field      string      `json:"field,omitempty"`
	Value      any         `json:"value,omitempty"`
	Limit      *int        `json:"limit,omitempty"`
	Current    *int        `json:"current,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

func (err *Error) Error() string {
	msg := err.Kind.Error()
	if err.Op != "" {
		msg = err.Op + ": " + msg
	}
	switch {
	case err.Limit != nil && err.Current != nil:
		return fmt.Sprintf("%s (%s: limit %d, current %d)", msg, err.Field, *err.Limit, *err.Current)
	case len(err.Violations) > 0:
		return fmt.Sprintf("%s (%d violations)", msg, len(err.Violations))
	case err.Field != "":
		return fmt.Sprintf("%s (%s=%v)", msg, err.Field, err.Value)
	}
	return msg
}

func (err *Error) Unwrap() error {
	return err.Kind
}

// Field builds an error about a single input field.
func Field(op string, kind error, field string, value any) *Error {
	return &Error{Kind: kind, Op: op, Field: field, Value: value}
}

// Capacity builds an error for a bounded collection that is already full.
func Capacity(op string, kind error, field string, limit, current int) *Error {
	return &Error{Kind: kind, Op: op, Field: field, Limit: &limit, Current: &current}
}

// Invalid builds an error listing every violated constraint.
func Invalid(op string, kind error, violations []Violation) *Error {
	return &Error{Kind: kind, Op: op, Violations: violations}
}

// Details extracts the structured part of err, if any.
func Details(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func WrapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrDeadline)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, ErrCanceled)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, ErrUniqueViolation)
		case "23503", "23514":
			return fmt.Errorf("%s: %w", op, ErrInvalidInput)
		case "40001":
			return fmt.Errorf("%s: %w", op, ErrConcurrentModification)
		default:
			return fmt.Errorf("%s: pg error %s: %w", op, pgErr.Code, ErrInternal)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, ErrInternal)
}
