package imagestore

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

var (
	ErrUnsupportedImage = apperror.ValidationFailed("profile_image", "Please make sure to upload an image in jpg, png, or jpeg format.")
	ErrImageTooLarge    = apperror.ValidationFailed("profile_image", "image is too large")
)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// DefaultMaxPixels caps the decoded size when Processor.MaxPixels is unset.
const DefaultMaxPixels = 40_000_000

// Processor normalizes uploads: jpg/png only, at most MaxWidth pixels wide
// (aspect ratio kept), re-encoded as JPEG. Images whose header declares more
// than MaxPixels pixels are rejected before decoding.
type Processor struct {
	MaxWidth  int
	MaxBytes  int64
	MaxPixels int64
}

func (p Processor) maxPixels() int64 {
	if p.MaxPixels > 0 {
		return p.MaxPixels
	}
	return DefaultMaxPixels
}

func (p Processor) Process(img application.UploadedImage) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(img.Filename))
	if !allowedExt[ext] {
		return nil, ErrUnsupportedImage
	}
	if p.MaxBytes > 0 && img.Size > p.MaxBytes {
		return nil, ErrImageTooLarge
	}
	r := img.Body
	if p.MaxBytes > 0 {
		r = io.LimitReader(r, p.MaxBytes+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if p.MaxBytes > 0 && int64(len(raw)) > p.MaxBytes {
		return nil, ErrImageTooLarge
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrUnsupportedImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > p.maxPixels() {
		return nil, ErrImageTooLarge
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	out := resize(src, p.MaxWidth)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// resize scales src down to maxWidth. Narrower images are returned as is.
func resize(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return src
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func newObjectName() (string, error) {
	name, err := helpers.RandomHex(16)
	if err != nil {
		return "", err
	}
	return name + ".jpg", nil
}
