package helper

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestConvertToWebP_Downscales(t *testing.T) {
	out, err := ConvertToWebP(pngBytes(t, 400, 200), "photo.png", WebPOptions{MaxW: 100, MaxH: 100, Quality: 70})
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(out[:4]))

	img, err := decodeImage(out, "x.webp")
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestConvertToWebP_Unsupported(t *testing.T) {
	_, err := ConvertToWebP([]byte("plain text body"), "notes.txt", DefaultWebPOptions())
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestMemoryBlobStore(t *testing.T) {
	store := NewMemoryBlobStore("http://files.local/")
	key, url, err := store.Put(context.Background(), "admissions/docs", "Birth Cert.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "admissions/docs/birth-cert_"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.Equal(t, "http://files.local/"+key, url)
	assert.Len(t, store.Objects, 1)

	require.NoError(t, store.Delete(context.Background(), key))
	assert.Empty(t, store.Objects)
}
