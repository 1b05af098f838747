// Package imaging turns uploaded photos and logos into compact JPEG data URLs.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"paggie/trainer-app/internal/validation"
)

const (
	// DefaultMaxWidth is the width photos are scaled down to.
	DefaultMaxWidth = 800
	// Quality of the re-encoded JPEG.
	Quality = 85
	// MaxPixels caps width*height before any pixel is decoded.
	MaxPixels = 40_000_000
)

// ErrDecode is returned when the bytes are not a supported image.
var ErrDecode = errors.New("Não foi possível ler a imagem.")

// errTooManyPixels rejects images whose dimensions exceed MaxPixels.
var errTooManyPixels = &validation.Error{Message: "Imagem muito grande. Use uma imagem com no máximo 40 megapixels."}

// Options bound ingestion. Zero values use the defaults.
type Options struct {
	MaxFileSize int64
	MaxWidth    int
}

// Ingest validates the upload header, then decodes, downscales and
// re-encodes the image. Rejections happen before any byte is read.
func Ingest(header validation.File, r io.Reader, opts Options) (string, error) {
	if err := validation.FileUpload(&header, opts.MaxFileSize).Err(); err != nil {
		return "", err
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = validation.DefaultMaxFileSize
	}
	// The declared size is not trusted.
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return "", validation.FileUpload(&validation.File{Name: header.Name, ContentType: header.ContentType, Size: int64(len(data))}, maxSize).Err()
	}
	return DataURL(data, opts.MaxWidth)
}

// DataURL decodes data and returns it as a JPEG data URL no wider than maxWidth.
func DataURL(data []byte, maxWidth int) (string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrDecode
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", ErrDecode
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", errTooManyPixels
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrDecode
	}
	out, err := Encode(Resize(img, maxWidth))
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(out), nil
}

// Resize scales img down to maxWidth keeping the aspect ratio. Narrower
// images are returned unchanged.
func Resize(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Encode writes img as JPEG. Transparent areas end up on white.
func Encode(img image.Image) ([]byte, error) {
	b := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
