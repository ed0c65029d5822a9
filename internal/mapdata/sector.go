package mapdata

import (
	gomath "math"

	"github.com/Faultbox/visualflats/internal/texture"
	"github.com/Faultbox/visualflats/pkg/math"
)

// ExtraFloorDef places a 3D floor, described by a control sector, inside a
// sector.
type ExtraFloorDef struct {
	Control          *Sector
	Vavoom           bool
	Additive         bool
	RenderInside     bool
	Alpha            int
	ColorFloor       uint32
	ColorCeiling     uint32
	DisableLighting  bool
	RestrictLighting bool
}

// Sector is a region with a floor and a ceiling.
type Sector struct {
	Index        int
	FloorHeight  int
	CeilHeight   int
	FloorTexture string
	CeilTexture  string
	Brightness   int

	// A non-zero slope normal overrides the flat height.
	FloorSlope       math.Vec3
	FloorSlopeOffset float64
	CeilSlope        math.Vec3
	CeilSlopeOffset  float64

	Fields      *Fields
	Sidedefs    []*Sidedef
	ExtraFloors []ExtraFloorDef

	// Triangles is a clockwise triangle list covering the sector.
	Triangles []math.Vec2
	BBox      Rect

	Marked       bool
	Selected     bool
	UpdateNeeded bool

	m *Map
}

// Map returns the map the sector belongs to.
func (s *Sector) Map() *Map { return s.m }

// BeforePropsChange notifies the map that the sector is about to change.
func (s *Sector) BeforePropsChange() {
	if s.m != nil && s.m.OnBeforeChange != nil {
		s.m.OnBeforeChange(s)
	}
}

// LongFloorTexture returns the hashed floor texture name.
func (s *Sector) LongFloorTexture() uint64 { return texture.MakeLongName(s.FloorTexture) }

// LongCeilTexture returns the hashed ceiling texture name.
func (s *Sector) LongCeilTexture() uint64 { return texture.MakeLongName(s.CeilTexture) }

// SetFloorTexture replaces the floor texture.
func (s *Sector) SetFloorTexture(name string) {
	s.BeforePropsChange()
	s.FloorTexture = name
	s.UpdateNeeded = true
}

// SetCeilTexture replaces the ceiling texture.
func (s *Sector) SetCeilTexture(name string) {
	s.BeforePropsChange()
	s.CeilTexture = name
	s.UpdateNeeded = true
}

// HasSkyFloor reports whether the floor shows the sky.
func (s *Sector) HasSkyFloor() bool { return s.m != nil && s.m.IsSkyFlat(s.FloorTexture) }

// HasSkyCeiling reports whether the ceiling shows the sky.
func (s *Sector) HasSkyCeiling() bool { return s.m != nil && s.m.IsSkyFlat(s.CeilTexture) }

// HasFloorSlope reports whether the floor is sloped.
func (s *Sector) HasFloorSlope() bool { return s.FloorSlope.LengthSq() > 0 }

// HasCeilSlope reports whether the ceiling is sloped.
func (s *Sector) HasCeilSlope() bool { return s.CeilSlope.LengthSq() > 0 }

// FloorPlane returns the upward-facing floor plane.
func (s *Sector) FloorPlane() math.Plane {
	if s.HasFloorSlope() {
		return math.Plane{Normal: s.FloorSlope, Offset: s.FloorSlopeOffset}
	}
	return math.HorizontalPlane(float64(s.FloorHeight), true)
}

// CeilPlane returns the downward-facing ceiling plane.
func (s *Sector) CeilPlane() math.Plane {
	if s.HasCeilSlope() {
		return math.Plane{Normal: s.CeilSlope, Offset: s.CeilSlopeOffset}
	}
	return math.HorizontalPlane(float64(s.CeilHeight), false)
}

// Center returns the middle of the bounding box.
func (s *Sector) Center() math.Vec2 {
	return math.Vec2{X: (s.BBox.Left + s.BBox.Right) / 2, Y: (s.BBox.Top + s.BBox.Bottom) / 2}
}

// UpdateCache recomputes the bounding box and triangulation.
func (s *Sector) UpdateCache() {
	s.BBox = Rect{Left: gomath.Inf(1), Top: gomath.Inf(1), Right: gomath.Inf(-1), Bottom: gomath.Inf(-1)}
	for _, sd := range s.Sidedefs {
		for _, v := range []*Vertex{sd.Line.Start, sd.Line.End} {
			p := v.Position
			s.BBox.Left = gomath.Min(s.BBox.Left, p.X)
			s.BBox.Right = gomath.Max(s.BBox.Right, p.X)
			s.BBox.Top = gomath.Min(s.BBox.Top, p.Y)
			s.BBox.Bottom = gomath.Max(s.BBox.Bottom, p.Y)
		}
	}
	if len(s.Sidedefs) == 0 {
		s.BBox = Rect{}
	}
	s.Triangles = TriangulateSector(s)
	s.UpdateNeeded = false
}

// SectorState is a snapshot of all editable sector properties.
type SectorState struct {
	FloorHeight, CeilHeight           int
	FloorTexture, CeilTexture         string
	Brightness                        int
	FloorSlope, CeilSlope             math.Vec3
	FloorSlopeOffset, CeilSlopeOffset float64
	Fields                            map[string]any
}

// Snapshot captures the current properties.
func (s *Sector) Snapshot() SectorState {
	return SectorState{
		FloorHeight:      s.FloorHeight,
		CeilHeight:       s.CeilHeight,
		FloorTexture:     s.FloorTexture,
		CeilTexture:      s.CeilTexture,
		Brightness:       s.Brightness,
		FloorSlope:       s.FloorSlope,
		CeilSlope:        s.CeilSlope,
		FloorSlopeOffset: s.FloorSlopeOffset,
		CeilSlopeOffset:  s.CeilSlopeOffset,
		Fields:           s.Fields.Clone(),
	}
}

// Restore applies a snapshot.
func (s *Sector) Restore(st SectorState) {
	s.FloorHeight = st.FloorHeight
	s.CeilHeight = st.CeilHeight
	s.FloorTexture = st.FloorTexture
	s.CeilTexture = st.CeilTexture
	s.Brightness = st.Brightness
	s.FloorSlope = st.FloorSlope
	s.CeilSlope = st.CeilSlope
	s.FloorSlopeOffset = st.FloorSlopeOffset
	s.CeilSlopeOffset = st.CeilSlopeOffset
	s.Fields.Restore(st.Fields)
	s.UpdateNeeded = true
}

// PasteOptions selects which copied properties are applied.
type PasteOptions struct {
	Heights    bool
	Textures   bool
	Brightness bool
	Fields     bool
}

// PasteAll applies every property.
var PasteAll = PasteOptions{Heights: true, Textures: true, Brightness: true, Fields: true}

// SectorProperties is a clipboard copy of a sector.
type SectorProperties struct {
	state SectorState
}

// CopySectorProperties copies the properties of s.
func CopySectorProperties(s *Sector) *SectorProperties {
	return &SectorProperties{state: s.Snapshot()}
}

// Apply writes the copied properties to every sector.
func (p *SectorProperties) Apply(sectors []*Sector, opts PasteOptions) {
	for _, s := range sectors {
		s.BeforePropsChange()
		if opts.Heights {
			s.FloorHeight = p.state.FloorHeight
			s.CeilHeight = p.state.CeilHeight
		}
		if opts.Textures {
			s.FloorTexture = p.state.FloorTexture
			s.CeilTexture = p.state.CeilTexture
		}
		if opts.Brightness {
			s.Brightness = p.state.Brightness
		}
		if opts.Fields {
			s.Fields.Restore(p.state.Fields)
		}
		s.UpdateNeeded = true
	}
}
