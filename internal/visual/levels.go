package visual

import (
	"sort"

	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/surface"
	"github.com/Faultbox/visualflats/pkg/math"
)

// sectorData is the layer aggregation of one sector: its base floor and
// ceiling plus both sides of every extra floor.
type sectorData struct {
	floor   *surface.Level
	ceiling *surface.Level
	extras  []*surface.ExtraFloor
	// levels is sorted by height at the sector center, lowest first.
	levels []*surface.Level
}

// brightnessColor packs an opaque gray of the given brightness.
func brightnessColor(b int) uint32 {
	c := uint32(math.Clamp(b, 0, 255))
	return 0xFF000000 | c<<16 | c<<8 | c
}

func baseLevel(plane math.Plane, s *mapdata.Sector) *surface.Level {
	return &surface.Level{
		Plane:           plane,
		Sector:          s,
		Alpha:           255,
		Color:           brightnessColor(s.Brightness),
		BrightnessBelow: s.Brightness,
	}
}

// buildSectorData aggregates the layers of s.
func buildSectorData(s *mapdata.Sector) *sectorData {
	sd := &sectorData{
		floor:   baseLevel(s.FloorPlane(), s),
		ceiling: baseLevel(s.CeilPlane(), s),
	}
	sd.levels = append(sd.levels, sd.floor, sd.ceiling)

	for _, def := range s.ExtraFloors {
		c := def.Control
		if c == nil {
			continue
		}
		ef := &surface.ExtraFloor{
			Vavoom:         def.Vavoom,
			RenderAdditive: def.Additive,
			Sloped:         c.HasFloorSlope() || c.HasCeilSlope(),
			RenderInside:   def.RenderInside,
			ColorFloor:     def.ColorFloor,
			ColorCeiling:   def.ColorCeiling,
		}
		// A classic 3D floor shows the control floor as its bottom, facing
		// down, and the control ceiling as its top, facing up. A Vavoom
		// floor keeps the control planes as they are.
		floorPlane, ceilPlane := c.FloorPlane(), c.CeilPlane()
		if !def.Vavoom {
			floorPlane, ceilPlane = floorPlane.Inverted(), ceilPlane.Inverted()
		}
		brightness := c.Brightness
		if def.DisableLighting {
			brightness = s.Brightness
		}
		ef.Floor = extraLevel(floorPlane, c, def, brightness)
		ef.Ceiling = extraLevel(ceilPlane, c, def, brightness)
		sd.extras = append(sd.extras, ef)
		sd.levels = append(sd.levels, ef.Floor, ef.Ceiling)
	}

	center := s.Center()
	sort.SliceStable(sd.levels, func(i, j int) bool {
		return sd.levels[i].Plane.GetZ(center) < sd.levels[j].Plane.GetZ(center)
	})
	return sd
}

func extraLevel(plane math.Plane, control *mapdata.Sector, def mapdata.ExtraFloorDef, brightness int) *surface.Level {
	return &surface.Level{
		Plane:            plane,
		Sector:           control,
		Alpha:            def.Alpha,
		Color:            brightnessColor(brightness),
		BrightnessBelow:  brightness,
		DisableLighting:  def.DisableLighting,
		RestrictLighting: def.RestrictLighting,
	}
}
