// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/plcastro/mangario/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")

	// ErrUniqueViolation is the generic fallback for SQLSTATE 23505 when the
	// repository did not map the violated constraint to a domain sentinel.
	ErrUniqueViolation = apperr.Conflict("Resource already exists")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique constraint mapping (SQLSTATE 23505)
	if IsUniqueViolation(err, "") {
		return ErrUniqueViolation
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. If constraint is non-empty, the violated constraint name must
// also match, letting repositories discriminate which uniqueness rule fired
// (e.g. chapter number vs page number).
func IsUniqueViolation(err error, constraint string) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) {
		return false
	}

	if pgError.Code != pgerrcode.UniqueViolation {
		return false
	}

	return constraint == "" || pgError.ConstraintName == constraint
}
