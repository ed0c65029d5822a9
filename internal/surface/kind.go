// Package surface builds and edits the floor and ceiling geometry of the 3D
// editing mode: mesh generation, texture projection, UV dragging,
// auto-alignment, picking and neighbour selection.
package surface

import (
	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/pkg/math"
)

// Kind tags a surface as a floor or a ceiling.
type Kind int

// Surface kinds.
const (
	Floor Kind = iota
	Ceiling
)

func (k Kind) String() string {
	if k == Ceiling {
		return "ceiling"
	}
	return "floor"
}

// fieldKeys names the UDMF fields holding a surface's texture transform.
type fieldKeys struct {
	rotation      string
	xPan, yPan    string
	xScale        string
	yScale        string
	light         string
	lightAbsolute string
}

var kindKeys = [...]fieldKeys{
	Floor: {
		rotation:      "rotationfloor",
		xPan:          "xpanningfloor",
		yPan:          "ypanningfloor",
		xScale:        "xscalefloor",
		yScale:        "yscalefloor",
		light:         "lightfloor",
		lightAbsolute: "lightfloorabsolute",
	},
	Ceiling: {
		rotation:      "rotationceiling",
		xPan:          "xpanningceiling",
		yPan:          "ypanningceiling",
		xScale:        "xscaleceiling",
		yScale:        "yscaleceiling",
		light:         "lightceiling",
		lightAbsolute: "lightceilingabsolute",
	},
}

func (k Kind) keys() fieldKeys { return kindKeys[k] }

// TextureName returns the flat name s uses for this kind.
func (k Kind) TextureName(s *mapdata.Sector) string {
	if k == Ceiling {
		return s.CeilTexture
	}
	return s.FloorTexture
}

// LongTexture returns the hashed flat name s uses for this kind.
func (k Kind) LongTexture(s *mapdata.Sector) uint64 {
	if k == Ceiling {
		return s.LongCeilTexture()
	}
	return s.LongFloorTexture()
}

// Height returns the flat height of s for this kind.
func (k Kind) Height(s *mapdata.Sector) int {
	if k == Ceiling {
		return s.CeilHeight
	}
	return s.FloorHeight
}

func (k Kind) setTexture(s *mapdata.Sector, name string) {
	if k == Ceiling {
		s.SetCeilTexture(name)
	} else {
		s.SetFloorTexture(name)
	}
}

func (k Kind) hasSky(s *mapdata.Sector) bool {
	if k == Ceiling {
		return s.HasSkyCeiling()
	}
	return s.HasSkyFloor()
}

// RenderPass is the blending bucket a surface is drawn in.
type RenderPass int

// Render passes.
const (
	PassSolid RenderPass = iota
	PassMask
	PassAlpha
	PassAdditive
)

func (p RenderPass) String() string {
	switch p {
	case PassMask:
		return "mask"
	case PassAlpha:
		return "alpha"
	case PassAdditive:
		return "additive"
	default:
		return "solid"
	}
}

// Vertex is one mesh vertex.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
	Color    uint32 // ARGB
}

// Level is a horizontal layer of a sector: its base floor or ceiling, or one
// side of an extra floor. Sector is the sector whose fields and textures
// drive the layer.
type Level struct {
	Plane            math.Plane
	Sector           *mapdata.Sector
	Alpha            int
	Color            uint32 // ARGB
	BrightnessBelow  int
	DisableLighting  bool
	RestrictLighting bool
}

// ExtraFloor describes a 3D floor placed inside a sector. Both levels point
// at the control sector.
type ExtraFloor struct {
	Vavoom         bool
	RenderAdditive bool
	Sloped         bool
	RenderInside   bool
	ColorFloor     uint32
	ColorCeiling   uint32
	Floor          *Level
	Ceiling        *Level
}

// ControlSector returns the sector that defines the extra floor.
func (e *ExtraFloor) ControlSector() *mapdata.Sector {
	return e.Floor.Sector
}
