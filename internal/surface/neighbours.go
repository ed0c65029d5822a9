package surface

import "github.com/Faultbox/visualflats/internal/mapdata"

// facesUp reports whether the surface looks like a floor. The bottom of a
// classic extra floor looks like a ceiling and its top like a floor.
func (s *Surface) facesUp() bool {
	regularOrVavoom := s.extra == nil || s.extra.Vavoom
	if s.kind == Floor {
		return regularOrVavoom
	}
	return !regularOrVavoom
}

// matches reports whether other has the same texture and/or height as s.
func (s *Surface) matches(other *Surface, otherSector *mapdata.Sector, sameTexture, sameHeight bool) bool {
	cs := s.ControlSector()
	if sameTexture && s.kind.LongTexture(cs) != other.kind.LongTexture(otherSector) {
		return false
	}
	if sameHeight && s.kind.Height(cs) != other.kind.Height(otherSector) {
		return false
	}
	return true
}

// SelectNeighbours sets the selection of this surface and spreads it to
// adjacent surfaces that look the same way and share the texture and/or
// height. It does nothing when neither criterion is requested.
func (s *Surface) SelectNeighbours(sel, sameTexture, sameHeight bool) {
	if !sameTexture && !sameHeight {
		return
	}
	switch {
	case sel && !s.selected:
		s.selectObject()
	case !sel && s.selected:
		s.deselectObject()
	}

	up := s.facesUp()
	sector := s.owner.MapSector()
	visited := make(map[*mapdata.Sector]struct{})

	for _, side := range sector.Sidedefs {
		other := side.Other()
		if other == nil || other.Sector == sector {
			continue
		}
		if _, ok := visited[other.Sector]; ok {
			continue
		}
		visited[other.Sector] = struct{}{}
		vs := s.mode.GetVisualSector(other.Sector)
		if vs == nil {
			continue
		}

		base := vs.Floor()
		if !up {
			base = vs.Ceiling()
		}
		if base != nil && base.selected != sel && s.matches(base, other.Sector, sameTexture, sameHeight) {
			base.SelectNeighbours(sel, sameTexture, sameHeight)
		}

		for _, list := range [][]*Surface{vs.ExtraFloors(), vs.ExtraCeilings()} {
			for _, ef := range list {
				if ef.selected == sel || ef.facesUp() != up {
					continue
				}
				if s.matches(ef, ef.ControlSector(), sameTexture, sameHeight) {
					ef.SelectNeighbours(sel, sameTexture, sameHeight)
				}
			}
		}
	}
}
