package entity

import (
	"net/mail"
	"strings"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
)

const maxEmailLength = 100

// ErrInvalidEmail is returned for any address that fails syntax checks.
var ErrInvalidEmail = apperror.ValidationFailed("email", "Please enter a valid email address.")

// UserEmail is a syntactically valid address. The domain part is stored
// lower-cased; the local part is kept as entered.
type UserEmail struct {
	local  string
	domain string
}

func NewUserEmail(raw string) (UserEmail, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxEmailLength {
		return UserEmail{}, ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(raw)
	// reject display-name forms such as "Bob <bob@example.com>"
	if err != nil || addr.Address != raw {
		return UserEmail{}, ErrInvalidEmail
	}
	at := strings.LastIndex(raw, "@")
	local, domain := raw[:at], raw[at+1:]
	if local == "" || !validDomain(domain) {
		return UserEmail{}, ErrInvalidEmail
	}
	return UserEmail{local: local, domain: strings.ToLower(domain)}, nil
}

// validDomain requires at least one dot and no empty labels.
func validDomain(d string) bool {
	if !strings.Contains(d, ".") {
		return false
	}
	for _, label := range strings.Split(d, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return true
}

func (e UserEmail) String() string {
	if e.local == "" {
		return ""
	}
	return e.local + "@" + e.domain
}

// Equals compares the domain part case-insensitively and the local part exactly.
func (e UserEmail) Equals(other UserEmail) bool {
	return e.local == other.local && strings.EqualFold(e.domain, other.domain)
}

func (e UserEmail) IsZero() bool {
	return e.local == "" && e.domain == ""
}
