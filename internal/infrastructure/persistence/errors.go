package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/optica/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// PostgreSQL error codes the stock transaction cares about
const (
	pgUniqueViolation  = "23505"
	pgForeignKey       = "23503"
	pgLockNotAvailable = "55P03"
	pgQueryCanceled    = "57014"
)

// translateError maps driver and GORM errors onto domain errors.
// Errors that are already domain errors pass through untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.WrapDomainError(shared.ErrAlreadyExists.Code, shared.ErrAlreadyExists.Message, err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return shared.WrapDomainError(shared.ErrReferenced.Code, shared.ErrReferenced.Message, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return shared.WrapDomainError(shared.ErrLockTimeout.Code, shared.ErrLockTimeout.Message, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return shared.WrapDomainError(shared.ErrAlreadyExists.Code, shared.ErrAlreadyExists.Message, err)
		case pgForeignKey:
			return shared.WrapDomainError(shared.ErrReferenced.Code, shared.ErrReferenced.Message, err)
		case pgLockNotAvailable, pgQueryCanceled:
			return shared.WrapDomainError(shared.ErrLockTimeout.Code, shared.ErrLockTimeout.Message, err)
		}
	}
	return err
}
