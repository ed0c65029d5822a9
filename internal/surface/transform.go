package surface

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/texture"
	"github.com/Faultbox/visualflats/pkg/math"
)

// fallbackTextureSize is used for the texture scale of unloaded images.
const fallbackTextureSize = 64.0

// Transform is the texture projection stored in a sector's fields.
type Transform struct {
	Rotation float64 // degrees
	Pan      math.Vec2
	Scale    math.Vec2
}

// ReadTransform reads the transform of kind from s.
func ReadTransform(s *mapdata.Sector, kind Kind) Transform {
	k := kind.keys()
	return Transform{
		Rotation: s.Fields.GetFloat(k.rotation, 0),
		Pan:      math.Vec2{X: s.Fields.GetFloat(k.xPan, 0), Y: s.Fields.GetFloat(k.yPan, 0)},
		Scale:    math.Vec2{X: s.Fields.GetFloat(k.xScale, 1), Y: s.Fields.GetFloat(k.yScale, 1)},
	}
}

// Project maps a planar position to texture space: rotate, flip y, pan,
// scale, then divide by the texture size.
func (t Transform) Project(p math.Vec2, texScale math.Vec2) math.Vec2 {
	p = p.Rotated(math.DegToRad(t.Rotation))
	p.Y = -p.Y
	return p.Add(t.Pan).Mul(t.Scale).Mul(texScale)
}

// textureScale returns the reciprocal scaled size of img.
func textureScale(img *texture.Image) math.Vec2 {
	if img == nil || !img.IsImageLoaded() {
		return math.Vec2{X: 1 / fallbackTextureSize, Y: 1 / fallbackTextureSize}
	}
	return math.Vec2{X: 1 / img.ScaledWidth(), Y: 1 / img.ScaledHeight()}
}

// scaledSize returns the scaled texture size, or the fallback size when
// the image is not loaded.
func scaledSize(img *texture.Image) math.Vec2 {
	if img == nil || !img.IsImageLoaded() {
		return math.Vec2{X: fallbackTextureSize, Y: fallbackTextureSize}
	}
	return math.Vec2{X: img.ScaledWidth(), Y: img.ScaledHeight()}
}

// wrapPan normalizes a pan value into [0, size/scale).
func wrapPan(v, size, scale float64) float64 {
	if scale == 0 {
		return v
	}
	m := gomath.Abs(size / scale)
	if m == 0 || gomath.IsInf(m, 0) || gomath.IsNaN(m) {
		return v
	}
	return math.Wrap(v, m)
}

// Transform returns the texture projection currently stored for the surface.
func (s *Surface) Transform() Transform {
	return ReadTransform(s.ControlSector(), s.kind)
}

// TextureOffset returns the integer panning of the control sector.
func (s *Surface) TextureOffset() (x, y int) {
	t := s.Transform()
	return int(t.Pan.X), int(t.Pan.Y)
}

// SetRotation writes the texture rotation in degrees.
func (s *Surface) SetRotation(deg float64) {
	cs := s.ControlSector()
	cs.Fields.BeforeFieldsChange()
	cs.Fields.SetFloat(s.kind.keys().rotation, deg, 0)
}

// MoveTextureOffset adds a delta to the control sector's panning and wraps
// the result into one texture repetition.
func (s *Surface) MoveTextureOffset(dx, dy int) {
	cs := s.ControlSector()
	k := s.kind.keys()
	size := scaledSize(s.texture)

	cs.Fields.BeforeFieldsChange()
	nx := wrapPan(cs.Fields.GetFloat(k.xPan, 0)+float64(dx), size.X, cs.Fields.GetFloat(k.xScale, 1))
	ny := wrapPan(cs.Fields.GetFloat(k.yPan, 0)+float64(dy), size.Y, cs.Fields.GetFloat(k.yScale, 1))
	cs.Fields.Set(k.xPan, nx)
	cs.Fields.Set(k.yPan, ny)
	cs.UpdateNeeded = true

	s.mode.SetActionResult(fmt.Sprintf("Changed %s texture offsets to %v, %v.", s.kind, nx, ny))
}
