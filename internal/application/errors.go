package application

import "github.com/oksasatya/go-account-service/internal/domain/apperror"

var (
	ErrUserNotFound = &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
	// ErrInvalidCredentials does not reveal whether the email or the password was wrong.
	ErrInvalidCredentials     = &apperror.AppError{Err: apperror.ErrNotFound, Message: "Email or password is invalid."}
	ErrInvalidActivationToken = apperror.ValidationFailed("token", "invalid activation token")
	ErrActivationTokenUsed    = apperror.ValidationFailed("token", "token already used")
	ErrImageUploadDisabled    = apperror.ValidationFailed("profile_image", "image uploads are not enabled")
	ErrUpdateForbidden        = apperror.Forbidden("you can only update your own account")
)
