package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translateWriteErr maps constraint violations to domain errors.
func translateWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		switch pgErr.ConstraintName {
		case "users_username_key":
			return apperror.Conflict("user", entity.FieldUsername)
		case "users_email_key":
			return apperror.Conflict("user", entity.FieldEmail)
		case "email_verification_token_key":
			return apperror.Conflict("email verification", "token")
		}
		return apperror.Conflict("user", pgErr.ConstraintName)
	case foreignKeyViolation:
		return apperror.NotFound("user", pgErr.Detail)
	}
	return err
}
