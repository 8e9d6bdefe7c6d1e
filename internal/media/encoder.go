package media

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers the webp decoder for sources uploaded as .webp
)

// ErrEncoderUnavailable is returned when a format's codec is not usable in this process.
var ErrEncoderUnavailable = errors.New("media: encoder unavailable")

// Format is an output encoding. The value doubles as the file extension.
type Format string

const (
	FormatAVIF Format = "avif"
	FormatWebP Format = "webp"
)

// Ext returns the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// MIME returns the content type used in <source type=...>.
func (f Format) MIME() string { return "image/" + string(f) }

// Encoder persists canvases as AVIF and WebP. AVIF support is decided once
// when the Encoder is built and never re-probed.
type Encoder struct {
	avif bool
}

// NewEncoder probes the optional AVIF codec. disableAVIF forces AVIF off.
func NewEncoder(disableAVIF bool) *Encoder {
	return &Encoder{avif: !disableAVIF && avifAvailable()}
}

// Available reports whether f can be written by this encoder.
func (e *Encoder) Available(f Format) bool {
	switch f {
	case FormatWebP:
		return true
	case FormatAVIF:
		return e != nil && e.avif
	default:
		return false
	}
}

// Formats lists the writable formats in selection priority order.
func (e *Encoder) Formats() []Format {
	if e.Available(FormatAVIF) {
		return []Format{FormatAVIF, FormatWebP}
	}
	return []Format{FormatWebP}
}

// SaveWebP writes img as lossy WebP at quality.
func (e *Encoder) SaveWebP(img image.Image, path string, quality int) error {
	return writeAtomic(path, func(w io.Writer) error {
		return webp.Encode(w, img, &webp.Options{Quality: float32(clampQuality(quality))})
	})
}

// SaveAVIF writes img as AVIF at quality, or returns ErrEncoderUnavailable
// without touching the filesystem when the codec is missing.
func (e *Encoder) SaveAVIF(img image.Image, path string, quality int) error {
	if !e.Available(FormatAVIF) {
		return ErrEncoderUnavailable
	}
	return writeAtomic(path, func(w io.Writer) error {
		return encodeAVIF(w, img, clampQuality(quality))
	})
}

// Save dispatches to the writer for f.
func (e *Encoder) Save(f Format, img image.Image, path string, quality int) error {
	switch f {
	case FormatWebP:
		return e.SaveWebP(img, path, quality)
	case FormatAVIF:
		return e.SaveAVIF(img, path, quality)
	default:
		return fmt.Errorf("%w: %q", ErrEncoderUnavailable, f)
	}
}

func clampQuality(q int) int {
	return min(100, max(0, q))
}

// writeAtomic encodes into a temp file beside path and renames it into
// place, so readers never observe a partially written variant.
func writeAtomic(path string, encode func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("media: ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("media: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = encode(bw); err != nil {
		return fmt.Errorf("media: encode %s: %w", filepath.Base(path), err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("media: write %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("media: sync %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("media: close %s: %w", filepath.Base(path), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("media: chmod %s: %w", filepath.Base(path), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("media: rename into place: %w", err)
	}
	return nil
}

// Decode opens a source image, applying EXIF orientation.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("media: decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
