//go:build noavif

package media

import (
	"image"
	"io"
)

func avifAvailable() bool { return false }

func encodeAVIF(io.Writer, image.Image, int) error {
	return ErrEncoderUnavailable
}
