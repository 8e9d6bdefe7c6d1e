//go:build !noavif

package media

import (
	"image"
	"io"
	"sync"

	"github.com/gen2brain/avif"
)

var avifProbe struct {
	once sync.Once
	ok   bool
}

// avifAvailable encodes a 1x1 canvas once per process to find out whether
// the codec actually works here.
func avifAvailable() bool {
	avifProbe.once.Do(func() {
		probe := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		avifProbe.ok = avif.Encode(io.Discard, probe, avif.Options{Quality: 50, Speed: 10}) == nil
	})
	return avifProbe.ok
}

func encodeAVIF(w io.Writer, img image.Image, quality int) error {
	return avif.Encode(w, img, avif.Options{
		Quality:      quality,
		QualityAlpha: quality,
		Speed:        6,
	})
}
