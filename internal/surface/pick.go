package surface

import (
	gomath "math"

	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/metrics"
	"github.com/Faultbox/visualflats/pkg/math"
)

// PickFastReject tests the ray from-to against the surface plane and the
// owning sector's bounding box. On success the intersection is cached for
// PickAccurate.
func (s *Surface) PickFastReject(from, to math.Vec3) bool {
	if s.level == nil {
		return false
	}
	plane := s.level.Plane
	d := plane.Distance(from)
	if (s.innerSide || d <= 0) && (!s.innerSide || d >= 0) {
		metrics.ObservePick(metrics.PickRejected)
		return false
	}
	u, ok := plane.Intersection(from, to)
	if !ok || u <= 0 {
		metrics.ObservePick(metrics.PickRejected)
		return false
	}
	s.pickU = u
	s.pickIntersect = from.Add(to.Sub(from).Scale(u))

	if !s.owner.MapSector().BBox.Contains(s.pickIntersect.XY()) {
		metrics.ObservePick(metrics.PickRejected)
		return false
	}
	metrics.ObservePick(metrics.PickFastPassed)
	return true
}

// PickAccurate checks that the cached intersection hits the visible face
// and, for masked or translucent extra floors, an opaque texel. It returns
// the ray parameter of the hit.
func (s *Surface) PickAccurate(from, to math.Vec3) (bool, float64) {
	u := s.pickU
	p := s.pickIntersect.XY()

	sd := mapdata.NearestSidedef(s.owner.MapSector().Sidedefs, p)
	if sd == nil {
		metrics.ObservePick(metrics.PickBackface)
		return false, u
	}
	side := sd.Line.SideOfLine(p)
	if !((side <= 0 && sd.IsFront) || (side > 0 && !sd.IsFront)) {
		metrics.ObservePick(metrics.PickBackface)
		return false, u
	}

	if !s.alphaTested() {
		metrics.ObservePick(metrics.PickHit)
		return true, u
	}
	if !s.opaqueAt(p) {
		metrics.ObservePick(metrics.PickAlphaMiss)
		return false, u
	}
	metrics.ObservePick(metrics.PickHit)
	return true, u
}

// alphaTested reports whether picking samples the texture alpha.
func (s *Surface) alphaTested() bool {
	img := s.texture
	switch {
	case !s.mode.Settings().AlphaBasedHighlighting:
		return false
	case img == nil || !img.IsImageLoaded():
		return false
	case s.extra == nil || s.pass == PassSolid:
		return false
	default:
		return img.IsTranslucent() || img.IsMasked()
	}
}

// opaqueAt samples the texel under a planar position. The bitmap size is
// used instead of the scaled size since hi-res images may differ.
func (s *Surface) opaqueAt(p math.Vec2) bool {
	img := s.texture
	w, h := img.AlphaTestWidth(), img.AlphaTestHeight()
	if w <= 0 || h <= 0 {
		return true
	}
	o := s.Transform().Project(p, textureScale(img))
	x := gomath.Mod(o.X*float64(w), float64(w))
	y := gomath.Mod(o.Y*float64(h), float64(h))
	if x < 0 {
		x += float64(w)
	}
	if y < 0 {
		y += float64(h)
	}
	tx := math.Clamp(int(gomath.Floor(x)), 0, w-1)
	ty := math.Clamp(int(gomath.Floor(y)), 0, h-1)
	return img.AlphaTestPixel(tx, ty)
}
