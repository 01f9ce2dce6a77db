// Package imaging normalizes equipment photos before they are stored.
package imaging

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/image/draw"
)

// MaxDimension is the longest side of a stored photo.
const MaxDimension = 1024

// JPEGQuality is the compression quality of stored photos.
const JPEGQuality = 85

// MaxUploadBytes caps how much of an upload is read.
const MaxUploadBytes = 10 << 20

// MaxPixels caps the decoded size of an upload. A small compressed file
// can still describe a huge bitmap.
const MaxPixels = 40_000_000

// ErrUnsupported is returned for uploads that are not JPEG or PNG, or that
// exceed MaxPixels.
var ErrUnsupported = errors.New("unsupported image format")

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is a normalized photo ready to be stored under Ref.
type Photo struct {
	Data   []byte
	MIME   string
	Ref    string
	Width  int
	Height int
}

// Process sniffs the upload, rejects anything but JPEG and PNG, scales it
// down to MaxDimension and re-encodes it as JPEG. The ref is derived from
// the encoded bytes, so identical photos share one stored object.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("photo larger than %d bytes", MaxUploadBytes)
	}

	// Client-supplied content types are not trusted.
	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s (only JPEG and PNG)", ErrUnsupported, detected)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d pixels (at most %d)", ErrUnsupported, cfg.Width, cfg.Height, MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}
	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Photo{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Ref:    Ref(buf.Bytes()),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// Ref returns the content reference of data: a hex BLAKE2b-256 digest with
// a .jpg suffix.
func Ref(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]) + ".jpg"
}

// ValidRef reports whether s has the shape of a Ref, so it can be used as a
// file or object name.
func ValidRef(s string) bool {
	const n = blake2b.Size256 * 2
	if len(s) != n+len(".jpg") || s[n:] != ".jpg" {
		return false
	}
	_, err := hex.DecodeString(s[:n])
	return err == nil
}

// fit scales img so neither side exceeds maxDim, keeping the aspect ratio.
// Smaller images are returned unchanged.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
