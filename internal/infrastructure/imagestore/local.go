package imagestore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oksasatya/go-account-service/internal/application"
)

// LocalStore writes images under Dir and returns URLPrefix/<name>.
type LocalStore struct {
	Processor
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir, urlPrefix string, p Processor) *LocalStore {
	return &LocalStore{Processor: p, Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *LocalStore) Save(ctx context.Context, img application.UploadedImage) (string, error) {
	data, err := s.Process(img)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := newObjectName()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", err
	}
	return s.URLPrefix + "/" + name, nil
}

// Remove deletes the file behind ref. Unknown refs are ignored.
func (s *LocalStore) Remove(_ context.Context, ref string) error {
	name := path.Base(ref)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

var _ application.ImageStore = (*LocalStore)(nil)
