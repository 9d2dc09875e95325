// Package mosaic lays out and merges a set of source images into one
// composite preview canvas. It is pure: no shared state, no I/O, safe for
// any number of concurrent callers.
package mosaic

import "errors"

var (
	// ErrNoImages is returned when composition is requested with zero
	// images. No canvas is allocated.
	ErrNoImages = errors.New("no images provided for mosaic")
	// ErrDecode wraps any per-image decode or resize failure. The whole
	// composition aborts; there is never a partial mosaic.
	ErrDecode = errors.New("image decode failed")
)

// Image is one source image: encoded bytes plus the dimensions declared by
// the metadata source. It lives only for the duration of one composition.
type Image struct {
	Data   []byte
	Width  int
	Height int
}

func (i Image) AspectRatio() float64 {
	if i.Height == 0 {
		return 0
	}
	return float64(i.Width) / float64(i.Height)
}

type Options struct {
	// TargetWidth is the final canvas width in pixels.
	TargetWidth int
	// BorderSize is the gap between images in a row and between rows.
	// No border at canvas edges.
	BorderSize int
	// RatioTolerance is the max relative aspect-ratio difference for two
	// images to share a row.
	RatioTolerance float64
	// MaxPerRow caps row size regardless of aspect-ratio similarity.
	MaxPerRow int
}

const (
	DefaultTargetWidth    = 1200
	DefaultBorderSize     = 10
	DefaultRatioTolerance = 0.2
	DefaultMaxPerRow      = 3
)

func DefaultOptions() Options {
	return Options{
		TargetWidth:    DefaultTargetWidth,
		BorderSize:     DefaultBorderSize,
		RatioTolerance: DefaultRatioTolerance,
		MaxPerRow:      DefaultMaxPerRow,
	}
}

func (o Options) normalized() Options {
	if o.TargetWidth <= 0 {
		o.TargetWidth = DefaultTargetWidth
	}
	if o.BorderSize < 0 {
		o.BorderSize = DefaultBorderSize
	}
	if o.RatioTolerance <= 0 {
		o.RatioTolerance = DefaultRatioTolerance
	}
	if o.MaxPerRow <= 0 {
		o.MaxPerRow = DefaultMaxPerRow
	}
	return o
}
