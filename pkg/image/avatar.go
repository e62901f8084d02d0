// Package image turns the downloaded avatar into something a terminal can
// show: coloured half-block cells on the page grid, or an inline image
// escape for terminals with a graphics protocol.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Contrast boost applied to the alternate-mode avatar, in percent.
const alternateContrast = 35

// ErrEmpty is returned when there are no avatar bytes to decode.
var ErrEmpty = errors.New("image: empty avatar")

// Decode reads a PNG, JPEG, GIF or WebP avatar, applying any EXIF
// orientation.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("image: decode avatar: %w", err)
	}
	return img, nil
}

type frameKey struct {
	w, h      int
	alternate bool
}

// Avatar holds a decoded avatar and memoises the scaled frames drawn each
// render.
type Avatar struct {
	src image.Image

	mu     sync.Mutex
	frames map[frameKey]*image.NRGBA
}

// NewAvatar decodes data into an Avatar.
func NewAvatar(data []byte) (*Avatar, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &Avatar{src: img, frames: make(map[frameKey]*image.NRGBA)}, nil
}

// Source returns the decoded image.
func (a *Avatar) Source() image.Image { return a.src }

// Frame returns the avatar scaled to exactly w×h pixels, centre-cropped.
// In alternate mode it is desaturated and its contrast pushed.
func (a *Avatar) Frame(w, h int, alternate bool) *image.NRGBA {
	if w <= 0 || h <= 0 {
		return nil
	}
	k := frameKey{w, h, alternate}

	a.mu.Lock()
	defer a.mu.Unlock()
	if f, ok := a.frames[k]; ok {
		return f
	}
	f := Prepare(a.src, w, h, alternate)
	a.frames[k] = f
	return f
}

// Prepare centre-crops src to the target aspect, scales it with
// Catmull-Rom, and sharpens it lightly to recover edges lost to the
// downscale.
func Prepare(src image.Image, w, h int, alternate bool) *image.NRGBA {
	b := src.Bounds()
	crop := cropToAspect(b, w, h)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, xdraw.Over, nil)

	out := dst
	if w >= 3 && h >= 3 {
		out = imaging.Sharpen(out, 0.5)
	}
	if alternate {
		out = imaging.AdjustContrast(imaging.Grayscale(out), alternateContrast)
	}
	return out
}

func cropToAspect(b image.Rectangle, w, h int) image.Rectangle {
	sw, sh := b.Dx(), b.Dy()
	if sw <= 0 || sh <= 0 {
		return b
	}
	// Compare sw/sh with w/h without floats.
	switch {
	case sw*h > w*sh:
		cw := sh * w / h
		x0 := b.Min.X + (sw-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	case sw*h < w*sh:
		ch := sw * h / w
		y0 := b.Min.Y + (sh-ch)/2
		return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
	default:
		return b
	}
}
