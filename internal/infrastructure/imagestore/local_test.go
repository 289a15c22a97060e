package imagestore

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/application"
)

func pngUpload(t *testing.T, w, h int, name string) application.UploadedImage {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return application.UploadedImage{Filename: name, ContentType: "image/png", Size: int64(buf.Len()), Body: &buf}
}

func TestProcessor_ResizesWideImages(t *testing.T) {
	p := Processor{MaxWidth: 100}
	data, err := p.Process(pngUpload(t, 400, 200, "wide.PNG"))
	require.NoError(t, err)

	out, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}

func TestProcessor_KeepsNarrowImages(t *testing.T) {
	p := Processor{MaxWidth: 1024}
	data, err := p.Process(pngUpload(t, 64, 32, "small.png"))
	require.NoError(t, err)

	out, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, out.Bounds().Dx())
}

// pngWithDeclaredSize encodes a 1x1 PNG and rewrites its IHDR to claim
// w x h pixels. The header decodes; the pixel data does not match it.
func pngWithDeclaredSize(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	b := buf.Bytes()
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc after 13 data bytes
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func TestProcessor_RejectsHugeDeclaredDimensions(t *testing.T) {
	raw := pngWithDeclaredSize(t, 12000, 12000)
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 12000, cfg.Width)

	p := Processor{MaxWidth: 1024, MaxBytes: 5 << 20}
	_, err = p.Process(application.UploadedImage{Filename: "bomb.png", Size: int64(len(raw)), Body: bytes.NewReader(raw)})
	assert.ErrorIs(t, err, ErrImageTooLarge)

	p.MaxPixels = 100
	_, err = p.Process(pngUpload(t, 20, 10, "small.png"))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestProcessor_Rejects(t *testing.T) {
	p := Processor{MaxWidth: 1024, MaxBytes: 1 << 20}

	_, err := p.Process(application.UploadedImage{Filename: "doc.pdf", Body: strings.NewReader("%PDF")})
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = p.Process(application.UploadedImage{Filename: "fake.jpg", Body: strings.NewReader("not an image")})
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = p.Process(application.UploadedImage{Filename: "big.jpg", Size: 2 << 20, Body: strings.NewReader("")})
	assert.ErrorIs(t, err, ErrImageTooLarge)

	small := Processor{MaxBytes: 10}
	_, err = small.Process(pngUpload(t, 50, 50, "liar.png"))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestLocalStore_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "/uploads/", Processor{MaxWidth: 1024})
	ctx := context.Background()

	ref, err := s.Save(ctx, pngUpload(t, 20, 20, "me.png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"))
	assert.Len(t, filepath.Base(ref), 32+len(".jpg"))

	_, err = os.Stat(filepath.Join(dir, filepath.Base(ref)))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, ref))
	_, err = os.Stat(filepath.Join(dir, filepath.Base(ref)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(ctx, ref))
	assert.NoError(t, s.Remove(ctx, ""))
}
