package image

import (
	"fmt"
	"image"

	"github.com/blacktop/go-termimg"

	"gitlab.com/tinyland/lab/lantern/pkg/terminal"
)

// Inline renders img as a graphics-protocol escape sized to cols×rows
// cells. Halfblocks is not an inline protocol; callers draw those into
// the grid with DrawHalfblocks.
func Inline(img image.Image, proto terminal.GraphicsProtocol, cols, rows int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("image: nil image")
	}
	var p termimg.Protocol
	switch proto {
	case terminal.ProtocolKitty:
		p = termimg.Kitty
	case terminal.ProtocolITerm2:
		p = termimg.ITerm2
	case terminal.ProtocolSixel:
		p = termimg.Sixel
	default:
		return "", fmt.Errorf("image: %s is not an inline protocol", proto)
	}

	ti := termimg.New(img)
	if ti == nil {
		return "", fmt.Errorf("image: go-termimg rejected the avatar")
	}
	ti.Protocol(p).Size(cols, rows).Scale(termimg.ScaleFit)
	out, err := ti.Render()
	if err != nil {
		return "", fmt.Errorf("image: render %s: %w", proto, err)
	}
	return out, nil
}
