package entity

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
)

// bcrypt silently truncates input beyond 72 bytes.
const maxPasswordBytes = 72

var (
	ErrPasswordEmpty   = apperror.ValidationFailed("password", "password must not be empty")
	ErrPasswordTooLong = apperror.ValidationFailed("password", "password must be at most 72 bytes")
)

var passwordCost = bcrypt.DefaultCost

// SetPasswordCost changes the bcrypt cost used by PasswordFromPlain.
// Tests lower it to bcrypt.MinCost.
func SetPasswordCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return
	}
	passwordCost = cost
}

// UserPassword holds a bcrypt hash. The plaintext is never retained.
type UserPassword struct {
	hash string
}

// PasswordFromPlain hashes plain with a fresh salt.
func PasswordFromPlain(plain string) (UserPassword, error) {
	if plain == "" {
		return UserPassword{}, ErrPasswordEmpty
	}
	if len(plain) > maxPasswordBytes {
		return UserPassword{}, ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return UserPassword{}, err
	}
	return UserPassword{hash: string(b)}, nil
}

// PasswordFromHash wraps an already hashed password loaded from storage.
func PasswordFromHash(hash string) UserPassword {
	return UserPassword{hash: hash}
}

// CompareWith reports whether plain matches the stored hash.
// A malformed hash compares false.
func (p UserPassword) CompareWith(plain string) bool {
	if p.hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plain))
	return err == nil
}

func (p UserPassword) Hash() string {
	return p.hash
}

// IsHashed reports whether the value looks like a bcrypt hash.
func (p UserPassword) IsHashed() bool {
	_, err := bcrypt.Cost([]byte(p.hash))
	return err == nil
}
