package math

import "math"

// Line2D is a directed segment in map space.
type Line2D struct {
	Start, End Vec2
}

// Delta returns End - Start.
func (l Line2D) Delta() Vec2 {
	return l.End.Sub(l.Start)
}

// Angle returns the direction of the segment in radians, in [0, 2π).
func (l Line2D) Angle() float64 {
	d := l.Delta()
	return Normalized(math.Atan2(d.Y, d.X))
}

// SideOf returns < 0 when p is on the right (front) side of the line,
// > 0 on the left (back) side and 0 when p is on the line.
func (l Line2D) SideOf(p Vec2) float64 {
	return (p.Y-l.Start.Y)*(l.End.X-l.Start.X) - (p.X-l.Start.X)*(l.End.Y-l.Start.Y)
}

// DistanceSq returns the squared distance from p to the segment.
func (l Line2D) DistanceSq(p Vec2) float64 {
	d := l.Delta()
	lsq := d.LengthSq()
	if lsq == 0 {
		return p.Sub(l.Start).LengthSq()
	}
	u := p.Sub(l.Start).Dot(d) / lsq
	u = math.Max(0, math.Min(1, u))
	return p.Sub(l.Start.Add(d.Scale(u))).LengthSq()
}

// Distance returns the distance from p to the segment.
func (l Line2D) Distance(p Vec2) float64 {
	return math.Sqrt(l.DistanceSq(p))
}
