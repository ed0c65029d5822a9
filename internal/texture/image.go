package texture

import (
	"image"
	"image/color"
)

// Image is one flat in the cache. Until pixels are attached it reports
// IsImageLoaded() == false and picking and UV code fall back to defaults.
type Image struct {
	name     string
	longName uint64

	pixels      image.Image
	scaleX      float64
	scaleY      float64
	translucent bool
	masked      bool
	unknown     bool
	usedInMap   bool
}

func newImage(name string) *Image {
	return &Image{
		name:     name,
		longName: MakeLongName(name),
		scaleX:   1,
		scaleY:   1,
	}
}

// Name returns the full texture name.
func (i *Image) Name() string { return i.name }

// LongName returns the hashed name.
func (i *Image) LongName() uint64 { return i.longName }

// IsImageLoaded reports whether pixel data is available.
func (i *Image) IsImageLoaded() bool { return i.pixels != nil }

// IsUnknown reports whether this is the unknown-texture placeholder.
func (i *Image) IsUnknown() bool { return i.unknown }

// IsTranslucent reports whether any pixel is partially transparent.
func (i *Image) IsTranslucent() bool { return i.translucent }

// IsMasked reports whether any pixel is fully transparent.
func (i *Image) IsMasked() bool { return i.masked }

// UsedInMap reports whether a sector references this flat.
func (i *Image) UsedInMap() bool { return i.usedInMap }

// Width returns the bitmap width in pixels, 0 when not loaded.
func (i *Image) Width() int {
	if i.pixels == nil {
		return 0
	}
	return i.pixels.Bounds().Dx()
}

// Height returns the bitmap height in pixels, 0 when not loaded.
func (i *Image) Height() int {
	if i.pixels == nil {
		return 0
	}
	return i.pixels.Bounds().Dy()
}

// ScaledWidth returns the width in map units.
func (i *Image) ScaledWidth() float64 {
	return float64(i.Width()) / i.scaleX
}

// ScaledHeight returns the height in map units.
func (i *Image) ScaledHeight() float64 {
	return float64(i.Height()) / i.scaleY
}

// AlphaTestWidth returns the bitmap width used for pixel tests. Hi-res
// replacements report scaled sizes that differ from their bitmaps.
func (i *Image) AlphaTestWidth() int { return i.Width() }

// AlphaTestHeight returns the bitmap height used for pixel tests.
func (i *Image) AlphaTestHeight() int { return i.Height() }

// AlphaTestPixel reports whether the pixel at (x, y) is not fully
// transparent. Coordinates outside the bitmap fail the test.
func (i *Image) AlphaTestPixel(x, y int) bool {
	if i.pixels == nil {
		return true
	}
	b := i.pixels.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return false
	}
	_, _, _, a := i.pixels.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return a > 0
}

// attach stores pixels and scans the alpha channel.
func (i *Image) attach(pixels image.Image) {
	i.pixels = pixels
	i.translucent, i.masked = scanAlpha(pixels)
}

// scanAlpha classifies the alpha channel of img.
func scanAlpha(img image.Image) (translucent, masked bool) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA).A
			switch {
			case a == 0:
				masked = true
			case a < 255:
				translucent = true
			}
			if translucent && masked {
				return translucent, masked
			}
		}
	}
	return translucent, masked
}

// checkerboard builds a 64x64 two-color placeholder.
func checkerboard(a, b color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if (x/8+y/8)%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
	return img
}
