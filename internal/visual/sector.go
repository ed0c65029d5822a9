package visual

import (
	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/surface"
)

// Sector is the visual counterpart of a map sector. It owns the base floor
// and ceiling surfaces and the surfaces of every extra floor drawn inside
// the sector.
type Sector struct {
	mode   *Mode
	sector *mapdata.Sector
	data   *sectorData

	floor         *surface.Surface
	ceiling       *surface.Surface
	extraFloors   []*surface.Surface
	extraCeilings []*surface.Surface
}

func newSector(mode *Mode, s *mapdata.Sector) *Sector {
	vs := &Sector{mode: mode, sector: s}
	vs.floor = surface.New(mode, vs, surface.Floor)
	vs.ceiling = surface.New(mode, vs, surface.Ceiling)
	return vs
}

// MapSector returns the map sector.
func (vs *Sector) MapSector() *mapdata.Sector { return vs.sector }

// Floor returns the base floor.
func (vs *Sector) Floor() *surface.Surface { return vs.floor }

// Ceiling returns the base ceiling.
func (vs *Sector) Ceiling() *surface.Surface { return vs.ceiling }

// ExtraFloors returns the floor surfaces of extra floors, inner sides
// included.
func (vs *Sector) ExtraFloors() []*surface.Surface { return vs.extraFloors }

// ExtraCeilings returns the ceiling surfaces of extra floors, inner sides
// included.
func (vs *Sector) ExtraCeilings() []*surface.Surface { return vs.extraCeilings }

// Surfaces returns every surface of the sector.
func (vs *Sector) Surfaces() []*surface.Surface {
	out := make([]*surface.Surface, 0, 2+len(vs.extraFloors)+len(vs.extraCeilings))
	out = append(out, vs.floor, vs.ceiling)
	out = append(out, vs.extraFloors...)
	return append(out, vs.extraCeilings...)
}

// extraSide is one face of an extra floor to draw.
type extraSide struct {
	level *surface.Level
	extra *surface.ExtraFloor
	inner bool
}

// setup rebuilds the layer data and all surfaces. Extra floor surfaces are
// set up again in place while the extra floor layout is unchanged.
func (vs *Sector) setup() {
	if vs.sector.UpdateNeeded {
		vs.sector.UpdateCache()
	}
	vs.data = buildSectorData(vs.sector)
	vs.floor.Setup(vs.data.floor, nil, false)
	vs.ceiling.Setup(vs.data.ceiling, nil, false)

	var floors, ceilings []extraSide
	for _, ef := range vs.data.extras {
		floors = append(floors, extraSide{ef.Floor, ef, false})
		ceilings = append(ceilings, extraSide{ef.Ceiling, ef, false})
		if ef.RenderInside && !ef.Vavoom {
			floors = append(floors, extraSide{ef.Floor, ef, true})
			ceilings = append(ceilings, extraSide{ef.Ceiling, ef, true})
		}
	}
	vs.extraFloors = vs.syncExtras(surface.Floor, vs.extraFloors, floors)
	vs.extraCeilings = vs.syncExtras(surface.Ceiling, vs.extraCeilings, ceilings)
}

func (vs *Sector) syncExtras(kind surface.Kind, current []*surface.Surface, sides []extraSide) []*surface.Surface {
	if len(current) != len(sides) {
		vs.mode.forget(current)
		current = make([]*surface.Surface, len(sides))
		for i := range sides {
			current[i] = surface.New(vs.mode, vs, kind)
		}
	}
	for i, side := range sides {
		current[i].Setup(side.level, side.extra, side.inner)
	}
	return current
}

// UpdateSectorGeometry rebuilds the sector, every sector whose extra floors
// it controls and, when requested, its neighbours.
func (vs *Sector) UpdateSectorGeometry(includeNeighbours bool) {
	vs.setup()
	for _, dep := range vs.mode.m.Sectors {
		if dep == vs.sector {
			continue
		}
		for _, def := range dep.ExtraFloors {
			if def.Control == vs.sector {
				if other, ok := vs.mode.sectors[dep]; ok {
					other.setup()
				}
				break
			}
		}
	}
	if !includeNeighbours {
		return
	}
	seen := map[*mapdata.Sector]struct{}{vs.sector: {}}
	for _, sd := range vs.sector.Sidedefs {
		other := sd.Other()
		if other == nil {
			continue
		}
		if _, ok := seen[other.Sector]; ok {
			continue
		}
		seen[other.Sector] = struct{}{}
		if n, ok := vs.mode.sectors[other.Sector]; ok {
			n.setup()
		}
	}
}
