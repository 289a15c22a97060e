package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

//go:generate mockgen -source=user_repository.go -destination=user_repository_mock.go -package=repository

// ErrAlreadyActivated is returned by Activate when the user was already active.
var ErrAlreadyActivated = errors.New("user already activated")

// UserRepository defines the persistence contract for accounts.
//
// Lookups never return (nil, nil): a missing row is an apperror.ErrNotFound.
// Writes that collide with a unique column return apperror.ErrConflict.
type UserRepository interface {
	// Create inserts u and assigns its id and creation time.
	Create(ctx context.Context, u *entity.User) error
	CreateEmailVerification(ctx context.Context, userID, token string) error
	MarkVerificationUsed(ctx context.Context, token string) error

	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*entity.User, error)

	// Update writes only the columns named in p, taking values from u.
	Update(ctx context.Context, u *entity.User, p entity.UserPatch) error
	// Activate flips the activated flag exactly once.
	Activate(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
}
