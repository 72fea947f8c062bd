// Package facevec turns grayscale face crops into fixed-length unit vectors.
//
// The pipeline is deterministic: resize to the canonical size, equalize the
// histogram, scale to [0,1], flatten row by row and L2-normalize. Two vectors
// produced by it can be compared with a plain dot product.
package facevec

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"
)

// Size is the canonical face size (width x height).
type Size struct {
	Width  int
	Height int
}

// Dim returns the vector length for faces of this size.
func (s Size) Dim() int {
	return s.Width * s.Height
}

// FaceVector is a flattened, L2-normalized face. The zero vector marks a crop
// with no intensity variance.
type FaceVector []float64

// IsZero reports whether every component is zero.
func (v FaceVector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Float32 converts the vector for float32 consumers such as the HNSW index.
func (v FaceVector) Float32() []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

// Normalize runs the full pipeline on img. It returns the equalized
// canonical-size image (used for mirroring) together with the vector.
func Normalize(img *image.Gray, size Size) (*image.Gray, FaceVector) {
	resized := Resize(img, size)
	eq := Equalize(resized)

	vec := make(FaceVector, size.Dim())
	b := eq.Bounds()
	first := eq.Pix[eq.PixOffset(b.Min.X, b.Min.Y)]
	constant := true
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := eq.Pix[eq.PixOffset(b.Min.X, y) : eq.PixOffset(b.Min.X, y)+b.Dx()]
		for _, p := range row {
			if p != first {
				constant = false
			}
			vec[i] = float64(p) / 255.0
			i++
		}
	}

	// No variance left after equalization: no usable signal.
	if constant {
		return eq, make(FaceVector, size.Dim())
	}

	norm := floats.Norm(vec, 2)
	if norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return eq, vec
}

// Resize scales img to size with two-tap bilinear interpolation at pixel
// centers, the sampling of OpenCV's INTER_LINEAR. An image that is already the
// right size is copied to a zero-origin buffer unchanged.
func Resize(img *image.Gray, size Size) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, size.Width, size.Height))
	if b.Dx() == size.Width && b.Dy() == size.Height {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Equalize performs histogram equalization with the same lookup table
// construction as OpenCV's equalizeHist: the lowest occupied bin maps to 0
// and the cumulative histogram of the remaining bins is stretched to 255.
// A single-valued image is returned unchanged.
func Equalize(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	total := b.Dx() * b.Dy()
	if total == 0 {
		return out
	}

	var hist [256]int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		for _, p := range img.Pix[off : off+b.Dx()] {
			hist[p]++
		}
	}

	lowest := 0
	for hist[lowest] == 0 {
		lowest++
	}

	var lut [256]uint8
	if hist[lowest] == total {
		for i := range lut {
			lut[i] = uint8(lowest)
		}
	} else {
		scale := 255.0 / float64(total-hist[lowest])
		sum := 0
		for i := lowest + 1; i < 256; i++ {
			sum += hist[i]
			lut[i] = saturate(float64(sum) * scale)
		}
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y) : img.PixOffset(b.Min.X, y)+b.Dx()]
		dst := out.Pix[out.PixOffset(0, y-b.Min.Y) : out.PixOffset(0, y-b.Min.Y)+b.Dx()]
		for x, p := range src {
			dst[x] = lut[p]
		}
	}
	return out
}

// saturate rounds half to even and clamps to the uint8 range.
func saturate(v float64) uint8 {
	r := math.RoundToEven(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

// Mirror returns a horizontally flipped copy of img.
func Mirror(img *image.Gray) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[out.PixOffset(0, y):]
		for x := range w {
			dst[x] = src[w-1-x]
		}
	}
	return out
}

// ToGray converts any image to an 8-bit grayscale image with a zero origin.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// Crop copies the region r of img into a new zero-origin image. The region
// is clipped to the image bounds; an empty intersection yields an empty image.
func Crop(img *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(img.Bounds())
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	if r.Empty() {
		return out
	}
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}

// Empty reports whether img has zero area.
func Empty(img *image.Gray) bool {
	return img == nil || img.Bounds().Empty()
}
