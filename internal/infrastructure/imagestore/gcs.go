package imagestore

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// GCSStore uploads images to a bucket under Prefix and returns the public URL.
type GCSStore struct {
	Processor
	Client *storage.Client
	Bucket string
	Prefix string
}

func NewGCSStore(client *storage.Client, bucket string, p Processor) *GCSStore {
	return &GCSStore{Processor: p, Client: client, Bucket: bucket, Prefix: "profile-images"}
}

func (s *GCSStore) Save(ctx context.Context, img application.UploadedImage) (string, error) {
	if s.Client == nil || s.Bucket == "" {
		return "", errors.New("gcs not configured")
	}
	data, err := s.Process(img)
	if err != nil {
		return "", err
	}
	name, err := newObjectName()
	if err != nil {
		return "", err
	}
	return helpers.UploadObject(ctx, s.Client, s.Bucket, s.Prefix+"/"+name, "image/jpeg", bytes.NewReader(data))
}

// Remove deletes the object behind a URL returned by Save.
func (s *GCSStore) Remove(ctx context.Context, ref string) error {
	objectPath, ok := strings.CutPrefix(ref, helpers.PublicURL(s.Bucket, ""))
	if !ok || objectPath == "" {
		return nil
	}
	return helpers.DeleteObject(ctx, s.Client, s.Bucket, objectPath)
}

var _ application.ImageStore = (*GCSStore)(nil)
