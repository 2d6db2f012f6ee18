// Package imaging bounds uploaded screenshots before they are sent to the model.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	// Registered decoders for uploaded screenshots.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1568
	DefaultQuality      = 85
	DefaultMaxBytes     = 10 * 1024 * 1024
	DefaultMaxPixels    = 50_000_000

	// MediaType is the encoding every normalized screenshot ends up in.
	MediaType = "image/jpeg"
)

var (
	ErrDecode   = errors.New("unreadable image")
	ErrEmpty    = errors.New("empty image")
	ErrTooLarge = errors.New("image exceeds size limit")
)

// LimitError reports an upload rejected by the per-file ceiling.
type LimitError struct {
	Size  int64
	Limit int64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("image of %d bytes exceeds %d byte limit", e.Size, e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrTooLarge }

// PixelLimitError reports an image whose declared canvas exceeds the pixel
// ceiling. It is detected from the header before any pixels are decoded.
type PixelLimitError struct {
	Width  int
	Height int
	Limit  int64
}

func (e *PixelLimitError) Error() string {
	return fmt.Sprintf("image of %dx%d pixels exceeds %d pixel limit", e.Width, e.Height, e.Limit)
}

func (e *PixelLimitError) Unwrap() error { return ErrTooLarge }

// Normalized is an encoded, dimension-bounded screenshot.
type Normalized struct {
	Data      []byte
	MediaType string
	Width     int
	Height    int
}

// Base64 returns the standard base64 form of Data.
func (n Normalized) Base64() string { return base64.StdEncoding.EncodeToString(n.Data) }

// Normalizer downsizes and re-encodes images. The zero value uses the defaults.
type Normalizer struct {
	MaxDimension int
	Quality      int
	MaxBytes     int64
	MaxPixels    int64
}

func (n Normalizer) maxDimension() int {
	if n.MaxDimension <= 0 {
		return DefaultMaxDimension
	}
	return n.MaxDimension
}

func (n Normalizer) quality() int {
	if n.Quality <= 0 || n.Quality > 100 {
		return DefaultQuality
	}
	return n.Quality
}

func (n Normalizer) maxBytes() int64 {
	if n.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return n.MaxBytes
}

func (n Normalizer) maxPixels() int64 {
	if n.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return n.MaxPixels
}

// CheckSize rejects a declared upload size above the ceiling.
func (n Normalizer) CheckSize(size int64) error {
	if size > n.maxBytes() {
		return &LimitError{Size: size, Limit: n.maxBytes()}
	}
	return nil
}

// Normalize reads at most MaxBytes from r, scales the image so its longest
// side fits MaxDimension and re-encodes it as JPEG.
func (n Normalizer) Normalize(r io.Reader) (Normalized, error) {
	raw, err := n.readBounded(r)
	if err != nil {
		return Normalized{}, err
	}
	if _, _, err := n.decodeConfig(raw); err != nil {
		return Normalized{}, err
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Normalized{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return n.encode(src)
}

// decodeConfig reads only the image header and enforces the pixel ceiling.
func (n Normalizer) decodeConfig(raw []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", ErrEmpty
	}
	if int64(cfg.Width)*int64(cfg.Height) > n.maxPixels() {
		return image.Config{}, "", &PixelLimitError{Width: cfg.Width, Height: cfg.Height, Limit: n.maxPixels()}
	}
	return cfg, format, nil
}

// NormalizeBase64 validates an already encoded screenshot. Images within
// bounds are returned untouched with their sniffed media type; larger ones
// are normalized again. The declared media type is ignored.
func (n Normalizer) NormalizeBase64(data, _ string) (Normalized, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return Normalized{}, fmt.Errorf("%w: invalid base64: %v", ErrDecode, err)
	}
	if err := n.CheckSize(int64(len(raw))); err != nil {
		return Normalized{}, err
	}
	if len(raw) == 0 {
		return Normalized{}, ErrEmpty
	}
	cfg, format, err := n.decodeConfig(raw)
	if err != nil {
		return Normalized{}, err
	}
	if max(cfg.Width, cfg.Height) <= n.maxDimension() {
		// The sniffed format wins over whatever type the client declared.
		return Normalized{Data: raw, MediaType: "image/" + format, Width: cfg.Width, Height: cfg.Height}, nil
	}
	return n.Normalize(bytes.NewReader(raw))
}

func (n Normalizer) readBounded(r io.Reader) ([]byte, error) {
	limit := n.maxBytes()
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, &LimitError{Size: int64(len(raw)), Limit: limit}
	}
	if len(raw) == 0 {
		return nil, ErrEmpty
	}
	return raw, nil
}

func (n Normalizer) encode(src image.Image) (Normalized, error) {
	w, h := Fit(src.Bounds().Dx(), src.Bounds().Dy(), n.maxDimension())
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha; transparent areas end up white.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == src.Bounds().Dx() && h == src.Bounds().Dy() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: n.quality()}); err != nil {
		return Normalized{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Normalized{Data: buf.Bytes(), MediaType: MediaType, Width: w, Height: h}, nil
}

// Fit returns the dimensions of a w×h image scaled down so its longest side
// is at most maxDim. Images already within bounds are never enlarged.
func Fit(w, h, maxDim int) (int, int) {
	longest := max(w, h)
	if longest <= maxDim || longest == 0 {
		return w, h
	}
	scale := float64(maxDim) / float64(longest)
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	return max(nw, 1), max(nh, 1)
}
