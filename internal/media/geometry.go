package media

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// DefaultBlurSigma is the Gaussian blur applied to the BlurExtend background.
const DefaultBlurSigma = 24.0

// Transparent is the default Contain padding.
var Transparent = color.NRGBA{}

// degenerate reports whether either the source or the target has no area.
// Transforms return a clone of the source in that case instead of failing.
func degenerate(img image.Image, size SizeSpec) bool {
	if img == nil {
		return true
	}
	b := img.Bounds()
	return b.Dx() <= 0 || b.Dy() <= 0 || !size.Valid()
}

func scaled(v int, scale float64) int {
	return max(1, int(math.Round(float64(v)*scale)))
}

// coverResize scales img so it fully covers size, without cropping.
func coverResize(img image.Image, size SizeSpec) *image.NRGBA {
	b := img.Bounds()
	scale := math.Max(float64(size.Width)/float64(b.Dx()), float64(size.Height)/float64(b.Dy()))
	w := max(size.Width, scaled(b.Dx(), scale))
	h := max(size.Height, scaled(b.Dy(), scale))
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Cover scales img to fill size completely and centre-crops the overflow.
func Cover(img image.Image, size SizeSpec) *image.NRGBA {
	if degenerate(img, size) {
		return cloneOrEmpty(img)
	}
	return imaging.CropCenter(coverResize(img, size), size.Width, size.Height)
}

// Contain scales img to fit inside size and centres it on a canvas filled
// with bg. A nil bg means fully transparent. The canvas always has an alpha channel.
func Contain(img image.Image, size SizeSpec, bg color.Color) *image.NRGBA {
	if degenerate(img, size) {
		return cloneOrEmpty(img)
	}
	if bg == nil {
		bg = Transparent
	}
	b := img.Bounds()
	scale := math.Min(float64(size.Width)/float64(b.Dx()), float64(size.Height)/float64(b.Dy()))
	w := min(size.Width, scaled(b.Dx(), scale))
	h := min(size.Height, scaled(b.Dy(), scale))

	resized := imaging.Resize(img, w, h, imaging.Lanczos)
	canvas := imaging.New(size.Width, size.Height, bg)
	offset := image.Pt((size.Width-w)/2, (size.Height-h)/2)
	return imaging.Overlay(canvas, resized, offset, 1.0)
}

// BlurExtend composites a contained, unblurred foreground over a blurred
// cover-fit copy of the same image. The subject is never cropped and an
// opaque source yields an opaque canvas.
func BlurExtend(img image.Image, size SizeSpec, sigma float64) *image.NRGBA {
	if degenerate(img, size) {
		return cloneOrEmpty(img)
	}
	if sigma <= 0 {
		sigma = DefaultBlurSigma
	}
	background := imaging.Blur(Cover(img, size), sigma)
	foreground := Contain(img, size, Transparent)
	return imaging.Overlay(background, foreground, image.Pt(0, 0), 1.0)
}

// FitOptions carries the optional knobs of Fit.
type FitOptions struct {
	Background color.Color
	BlurSigma  float64
}

// Fit applies mode to img. Unknown modes behave like Contain.
func Fit(img image.Image, size SizeSpec, mode FitMode, opts FitOptions) *image.NRGBA {
	switch mode {
	case FitCover:
		return Cover(img, size)
	case FitBlurExtend:
		return BlurExtend(img, size, opts.BlurSigma)
	default:
		return Contain(img, size, opts.Background)
	}
}

// Identity normalises img to NRGBA without changing its dimensions. Alpha is preserved.
func Identity(img image.Image) *image.NRGBA {
	return cloneOrEmpty(img)
}

func cloneOrEmpty(img image.Image) *image.NRGBA {
	if img == nil {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	return imaging.Clone(img)
}
