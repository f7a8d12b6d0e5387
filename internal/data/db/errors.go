package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a uniqueness or concurrency conflict.
	ErrConflict = errors.New("record conflict")
	// ErrUnavailable indicates a transient backend failure.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrInternal covers everything else.
	ErrInternal = errors.New("storage failure")
)

// OpError tags a storage failure with the repo operation that produced it.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error { return []error{e.Kind, e.Err} }

// MapError classifies gorm/pgx failures into the sentinel kinds above.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	wrap := func(kind error) error { return &OpError{Op: op, Kind: kind, Err: err} }

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return wrap(ErrNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return wrap(ErrUnavailable)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return wrap(ErrConflict) // unique_violation
		case "40001", "40P01", "55P03":
			return wrap(ErrUnavailable) // serialization/deadlock/lock_not_available
		case "08000", "08003", "08006", "57P01", "57P03":
			return wrap(ErrUnavailable) // connection failures / shutdown
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return wrap(ErrConflict)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "timeout"):
		return wrap(ErrUnavailable)
	default:
		return wrap(ErrInternal)
	}
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
