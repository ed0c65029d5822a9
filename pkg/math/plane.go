package math

import "math"

// Plane is the set of points p where Normal·p + Offset == 0.
// Normal is expected to be unit length.
type Plane struct {
	Normal Vec3
	Offset float64
}

// HorizontalPlane returns a flat plane at height z facing up (or down).
func HorizontalPlane(z float64, up bool) Plane {
	if up {
		return Plane{Normal: Vec3{0, 0, 1}, Offset: -z}
	}
	return Plane{Normal: Vec3{0, 0, -1}, Offset: z}
}

// PlaneFromPoints builds a plane through three points. The normal follows
// the right-hand rule over (b-a, c-a).
func PlaneFromPoints(a, b, c Vec3) Plane {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{Normal: n, Offset: -n.Dot(a)}
}

// GetZ returns the plane height at a planar position.
func (p Plane) GetZ(pos Vec2) float64 {
	if p.Normal.Z == 0 {
		return 0
	}
	return -(p.Offset + p.Normal.X*pos.X + p.Normal.Y*pos.Y) / p.Normal.Z
}

// Distance returns the signed distance from v to the plane.
func (p Plane) Distance(v Vec3) float64 {
	return p.Normal.Dot(v) + p.Offset
}

// Inverted returns the same plane facing the other way.
func (p Plane) Inverted() Plane {
	return Plane{Normal: p.Normal.Scale(-1), Offset: -p.Offset}
}

// IsFlat reports whether the plane is horizontal.
func (p Plane) IsFlat() bool {
	return math.Abs(p.Normal.Z) == 1
}

// Intersection returns the parameter u where from + (to-from)*u meets the
// plane. ok is false for a segment parallel to the plane.
func (p Plane) Intersection(from, to Vec3) (u float64, ok bool) {
	d := p.Normal.Dot(to.Sub(from))
	if d == 0 {
		return 0, false
	}
	return -p.Distance(from) / d, true
}
