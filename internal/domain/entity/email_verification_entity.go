package entity

import "time"

// EmailVerification links an activation token to the user it was issued for.
type EmailVerification struct {
	ID        int64
	UserID    string
	Token     string
	CreatedAt time.Time
	UsedAt    *time.Time
}

func (v *EmailVerification) IsUsed() bool {
	return v.UsedAt != nil
}
