package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

//go:generate mockgen -source=ports.go -destination=ports_mock.go -package=application

// UploadedImage is a profile picture received with a registration.
type UploadedImage struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore persists profile images and returns a reference (path or URL)
// that is stored on the user.
type ImageStore interface {
	Save(ctx context.Context, img UploadedImage) (string, error)
	Remove(ctx context.Context, ref string) error
}

// ActivationMessage is everything needed to tell a new user how to activate.
type ActivationMessage struct {
	Email     string
	Username  string
	Link      string
	ExpiresAt time.Time
}

// ActivationNotifier delivers the activation link to the user.
type ActivationNotifier interface {
	SendActivation(ctx context.Context, msg ActivationMessage) error
}

// UserDocument is the searchable projection of a user. It never contains
// credentials.
type UserDocument struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
	Activated    bool   `json:"activated"`
}

func NewUserDocument(u *entity.User) UserDocument {
	return UserDocument{
		ID:           u.ID(),
		Username:     u.Username(),
		Name:         u.Name(),
		Lastname:     u.Lastname(),
		Bio:          u.Bio(),
		ProfileImage: u.ProfileImage(),
		Activated:    u.IsActivated(),
	}
}

// UserIndexer keeps a search index of profiles.
type UserIndexer interface {
	Index(ctx context.Context, doc UserDocument) error
	Search(ctx context.Context, query string, size int) ([]UserDocument, error)
}
