package helper

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

var ErrUnsupportedImage = fmt.Errorf("unsupported image format")

/* =======================================================================
   WebP options
======================================================================= */

type WebPOptions struct {
	MaxW    int
	MaxH    int
	Quality float32
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{MaxW: 1600, MaxH: 1600, Quality: 80}
}

/* =======================================================================
   Decode (jpeg/png/gif via imaging, webp via chai2010) with MIME sniffing
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case strings.Contains(ct, "webp") || ext == ".webp":
		return webp.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "png"), strings.Contains(ct, "gif"),
		ext == ".jpg", ext == ".jpeg", ext == ".png":
		return imaging.Decode(bytes.NewReader(all), imaging.AutoOrientation(true))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}
}

// downscaleIfNeeded keeps aspect ratio, CatmullRom resampling.
func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// ConvertToWebP decodes, downscales and re-encodes an image.
func ConvertToWebP(data []byte, filename string, opt WebPOptions) ([]byte, error) {
	img, err := decodeImage(data, filename)
	if err != nil {
		return nil, err
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)

	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
