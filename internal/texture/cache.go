package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	// Flat codecs.
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"go.uber.org/zap"

	"github.com/Faultbox/visualflats/internal/logger"
)

// Cache errors.
var (
	ErrUnknownFlat = errors.New("unknown flat")
	ErrBadScale    = errors.New("texture scale must be positive")
)

// Cache holds flats by long name. Short (classic) names are aliases of the
// same image.
type Cache struct {
	flats   map[uint64]*Image
	missing *Image
	unknown *Image
	log     *zap.Logger
}

// NewCache creates an empty cache with its placeholder images.
func NewCache() *Cache {
	missing := newImage("MISSING3D")
	missing.attach(checkerboard(color.NRGBA{R: 255, A: 255}, color.NRGBA{A: 255}))

	unknown := newImage("UNKNOWN3D")
	unknown.unknown = true
	unknown.attach(checkerboard(color.NRGBA{R: 255, B: 255, A: 255}, color.NRGBA{A: 255}))

	return &Cache{
		flats:   make(map[uint64]*Image),
		missing: missing,
		unknown: unknown,
		log:     logger.For(logger.Texture),
	}
}

// Option configures a registered flat.
type Option func(*Image)

// WithScale sets the pixel-to-map-unit scale of a hi-res flat.
func WithScale(sx, sy float64) Option {
	return func(i *Image) {
		i.scaleX = sx
		i.scaleY = sy
	}
}

// AddFlat registers a flat without pixels. It becomes loaded once SetImage
// or LoadFlat is called for it.
func (c *Cache) AddFlat(name string, opts ...Option) (*Image, error) {
	img := newImage(name)
	for _, opt := range opts {
		opt(img)
	}
	if img.scaleX <= 0 || img.scaleY <= 0 {
		return nil, fmt.Errorf("flat %s: %w", name, ErrBadScale)
	}
	c.flats[img.longName] = img
	if short := ShortName(name); short != "" {
		if _, taken := c.flats[MakeLongName(short)]; !taken {
			c.flats[MakeLongName(short)] = img
		}
	}
	return img, nil
}

// SetImage attaches decoded pixels to a registered flat.
func (c *Cache) SetImage(name string, pixels image.Image) error {
	img := c.flats[MakeLongName(name)]
	if img == nil {
		return fmt.Errorf("set image %s: %w", name, ErrUnknownFlat)
	}
	img.attach(pixels)
	c.log.Debug("flat loaded",
		logger.Flat(img.name),
		zap.Int("width", img.Width()),
		zap.Int("height", img.Height()),
		zap.Bool("translucent", img.translucent),
		zap.Bool("masked", img.masked))
	return nil
}

// LoadFlat decodes a png, bmp or webp stream into a registered flat.
func (c *Cache) LoadFlat(name string, r io.Reader) error {
	pixels, format, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("decode flat %s: %w", name, err)
	}
	c.log.Debug("decoded flat", logger.Flat(name), zap.String("format", format))
	return c.SetImage(name, pixels)
}

// FlatImage returns the flat with the given long name, or nil.
func (c *Cache) FlatImage(longName uint64) *Image {
	return c.flats[longName]
}

// FlatImageByName returns the flat with the given name, or nil.
func (c *Cache) FlatImageByName(name string) *Image {
	return c.flats[MakeLongName(name)]
}

// FlatExists reports whether a flat name is known.
func (c *Cache) FlatExists(name string) bool {
	return c.FlatImageByName(name) != nil
}

// MissingTexture returns the placeholder drawn for unset textures.
func (c *Cache) MissingTexture() *Image { return c.missing }

// UnknownTexture returns the placeholder drawn for unresolved textures.
func (c *Cache) UnknownTexture() *Image { return c.unknown }

// MarkUsed flags the flats referenced by the given names as used in the map
// and clears the flag on all others.
func (c *Cache) MarkUsed(names []string) {
	for _, img := range c.flats {
		img.usedInMap = false
	}
	for _, n := range names {
		if img := c.FlatImageByName(n); img != nil {
			img.usedInMap = true
		}
	}
}
