// Package postprocess shrinks and recompresses generated images before they
// are returned to the caller.
package postprocess

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

// Defaults used when the caller passes zero values.
const (
	DefaultWidth   = 512
	DefaultQuality = 80
)

// ErrEmptyImage is returned for zero-length input.
var ErrEmptyImage = errors.New("empty image")

// Resize decodes src (PNG or JPEG), scales it down to width keeping the
// aspect ratio and encodes it as JPEG at the given quality. Images already
// narrower than width are only re-encoded.
func Resize(src []byte, width, quality int) ([]byte, error) {
	if len(src) == 0 {
		return nil, ErrEmptyImage
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
