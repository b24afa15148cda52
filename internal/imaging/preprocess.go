package imaging

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// BinarizeOptions controls how a photograph is reduced to a hand silhouette.
type BinarizeOptions struct {
	// Level is the threshold (0-255). Pixels at or above it become white (255),
	// all others black (0).
	Level uint8

	// Invert flips intensities before thresholding. Use it when the hands are
	// darker than the dial, so that the hands end up white in the silhouette.
	Invert bool

	// BlurRadius applies a Gaussian blur before thresholding when > 0.
	BlurRadius float64
}

// Grayscale converts img to 8-bit luminance.
func Grayscale(img image.Image) *image.Gray {
	return toGray(effect.Grayscale(img))
}

// Binarize reduces img to a black and white silhouette.
//
// The pipeline is: optional Gaussian blur, optional inversion, threshold. The
// result contains only the values 0 and 255.
func Binarize(img image.Image, opts BinarizeOptions) *image.Gray {
	var src image.Image = img
	if opts.BlurRadius > 0 {
		src = blur.Gaussian(src, opts.BlurRadius)
	}
	if opts.Invert {
		src = effect.Invert(src)
	}
	return segment.Threshold(src, opts.Level)
}

// Edges returns a grayscale edge map of img.
func Edges(img image.Image) *image.Gray {
	return toGray(effect.Grayscale(effect.EdgeDetection(img, 1.0)))
}

// toGray copies a gray-valued RGBA image into an *image.Gray.
func toGray(img *image.RGBA) *image.Gray {
	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
	return gray
}

// CenterRegion returns the square of side size centered on center, clipped to
// the image bounds. The result is empty if the square misses the image.
func CenterRegion(bounds image.Rectangle, center Point, size int) image.Rectangle {
	half := size / 2
	r := image.Rect(center.X-half, center.Y-half, center.X-half+size, center.Y-half+size)
	return r.Intersect(bounds)
}

// CropCenter extracts CenterRegion(img.Bounds(), center, size) from img.
// It returns nil if the region is empty.
func CropCenter(img image.Image, center Point, size int) image.Image {
	r := CenterRegion(img.Bounds(), center, size)
	if r.Empty() {
		return nil
	}
	return imaging.Crop(img, r)
}
