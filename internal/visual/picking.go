package visual

import (
	"sort"

	"github.com/Faultbox/visualflats/internal/surface"
	"github.com/Faultbox/visualflats/pkg/math"
)

// pickRange is the length of the pick ray.
const pickRange = 4096.0

// PickTarget casts a ray along the camera direction and highlights the
// nearest surface that passes both pick tests. It does nothing while the
// target is locked.
func (m *Mode) PickTarget() *surface.Surface {
	if m.locked {
		return m.highlighted
	}
	from := m.camera.Position
	dir := m.camera.Target.Sub(from).Normalize()
	to := from.Add(dir.Scale(pickRange))

	hit, u := m.Pick(from, to)
	m.highlighted = hit
	if hit != nil {
		m.hitPos = from.Add(to.Sub(from).Scale(u)).XY()
	}
	return hit
}

// Pick returns the nearest surface hit by the segment from-to and the ray
// parameter of the hit.
func (m *Mode) Pick(from, to math.Vec3) (*surface.Surface, float64) {
	type candidate struct {
		s *surface.Surface
		u float64
	}
	var candidates []candidate
	for _, s := range m.Surfaces() {
		if s.Triangles() == 0 || !s.PickFastReject(from, to) {
			continue
		}
		p := s.PickIntersect()
		d := to.Sub(from)
		u := p.Sub(from).Dot(d) / d.LengthSq()
		candidates = append(candidates, candidate{s, u})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].u < candidates[j].u })

	for _, c := range candidates {
		if ok, u := c.s.PickAccurate(from, to); ok {
			return c.s, u
		}
	}
	return nil, 0
}
