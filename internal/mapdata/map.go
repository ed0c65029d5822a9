// Package mapdata is the in-memory map store: vertices, linedefs, sidedefs
// and sectors with their UDMF fields.
package mapdata

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"

	"github.com/Faultbox/visualflats/internal/texture"
	"github.com/Faultbox/visualflats/pkg/math"
)

// Map construction errors.
var (
	ErrBadVertex = errors.New("vertex index out of range")
	ErrBadSector = errors.New("sector index out of range")
)

// Vertex is a map vertex.
type Vertex struct {
	Index    int
	Position math.Vec2
}

// Linedef joins two vertices. The front sidedef is on its right.
type Linedef struct {
	Index      int
	Start, End *Vertex
	Front      *Sidedef
	Back       *Sidedef
}

// Line returns the segment.
func (l *Linedef) Line() math.Line2D {
	return math.Line2D{Start: l.Start.Position, End: l.End.Position}
}

// Angle returns the linedef angle in radians: the direction from start to
// end turned a quarter counter-clockwise, in [0, 2π).
func (l *Linedef) Angle() float64 {
	d := l.Line().Delta()
	return math.Normalized(gomath.Atan2(d.Y, d.X) + gomath.Pi/2)
}

// SideOfLine returns < 0 on the front side and > 0 on the back side.
func (l *Linedef) SideOfLine(p math.Vec2) float64 { return l.Line().SideOf(p) }

// Sidedef binds one side of a linedef to a sector.
type Sidedef struct {
	Index   int
	Line    *Linedef
	Sector  *Sector
	IsFront bool
}

// Other returns the sidedef on the opposite side of the line, or nil.
func (s *Sidedef) Other() *Sidedef {
	if s.IsFront {
		return s.Line.Back
	}
	return s.Line.Front
}

// Rect is an axis-aligned box in map space. Top is the smaller Y.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Contains reports whether p lies inside or on the border.
func (r Rect) Contains(p math.Vec2) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Map holds all geometry.
type Map struct {
	Vertices []*Vertex
	Linedefs []*Linedef
	Sidedefs []*Sidedef
	Sectors  []*Sector

	SkyFlatName string

	// OnBeforeChange is called before any sector property or field write.
	OnBeforeChange func(*Sector)
}

// New creates an empty map.
func New() *Map {
	return &Map{SkyFlatName: "F_SKY1"}
}

// AddVertex appends a vertex.
func (m *Map) AddVertex(x, y float64) *Vertex {
	v := &Vertex{Index: len(m.Vertices), Position: math.Vec2{X: x, Y: y}}
	m.Vertices = append(m.Vertices, v)
	return v
}

// AddSector appends a sector with default textures and brightness.
func (m *Map) AddSector(floor, ceil int) *Sector {
	s := &Sector{
		Index:        len(m.Sectors),
		FloorHeight:  floor,
		CeilHeight:   ceil,
		FloorTexture: texture.EmptyName,
		CeilTexture:  texture.EmptyName,
		Brightness:   192,
		m:            m,
	}
	s.Fields = newFields(s)
	m.Sectors = append(m.Sectors, s)
	return s
}

// AddLinedef connects two vertices and creates its sidedefs. back may be nil.
func (m *Map) AddLinedef(start, end *Vertex, front, back *Sector) *Linedef {
	l := &Linedef{Index: len(m.Linedefs), Start: start, End: end}
	m.Linedefs = append(m.Linedefs, l)
	if front != nil {
		l.Front = m.addSidedef(l, front, true)
	}
	if back != nil {
		l.Back = m.addSidedef(l, back, false)
	}
	return l
}

func (m *Map) addSidedef(l *Linedef, s *Sector, front bool) *Sidedef {
	sd := &Sidedef{Index: len(m.Sidedefs), Line: l, Sector: s, IsFront: front}
	m.Sidedefs = append(m.Sidedefs, sd)
	s.Sidedefs = append(s.Sidedefs, sd)
	return sd
}

// Vertex returns the vertex at index i.
func (m *Map) Vertex(i int) (*Vertex, error) {
	if i < 0 || i >= len(m.Vertices) {
		return nil, fmt.Errorf("vertex %d: %w", i, ErrBadVertex)
	}
	return m.Vertices[i], nil
}

// Sector returns the sector at index i.
func (m *Map) Sector(i int) (*Sector, error) {
	if i < 0 || i >= len(m.Sectors) {
		return nil, fmt.Errorf("sector %d: %w", i, ErrBadSector)
	}
	return m.Sectors[i], nil
}

// Update recomputes bounding boxes and triangulations of all sectors.
func (m *Map) Update() {
	for _, s := range m.Sectors {
		s.UpdateCache()
	}
}

// IsSkyFlat reports whether name is the sky flat.
func (m *Map) IsSkyFlat(name string) bool {
	return strings.EqualFold(name, m.SkyFlatName)
}

// ClearMarkedSectors sets the mark of every sector to mark.
func (m *Map) ClearMarkedSectors(mark bool) {
	for _, s := range m.Sectors {
		s.Marked = mark
	}
}

// MarkedSectors returns sectors whose mark equals mark.
func (m *Map) MarkedSectors(mark bool) []*Sector {
	var out []*Sector
	for _, s := range m.Sectors {
		if s.Marked == mark {
			out = append(out, s)
		}
	}
	return out
}

// UsedFlats returns every flat name referenced by a sector.
func (m *Map) UsedFlats() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range m.Sectors {
		for _, n := range []string{s.FloorTexture, s.CeilTexture} {
			if _, ok := seen[n]; !ok && n != texture.EmptyName {
				seen[n] = struct{}{}
				out = append(out, n)
			}
		}
	}
	return out
}

// NearestLinedef returns the line closest to pos. Ties keep the earlier
// line.
func NearestLinedef(lines []*Linedef, pos math.Vec2) *Linedef {
	var best *Linedef
	bestDist := 0.0
	for _, l := range lines {
		d := l.Line().DistanceSq(pos)
		if best == nil || d < bestDist {
			best, bestDist = l, d
		}
	}
	return best
}

// NearestSidedef returns the sidedef whose line is closest to pos. When
// both sides of that line are in the list, the side facing pos wins.
func NearestSidedef(sides []*Sidedef, pos math.Vec2) *Sidedef {
	var best *Sidedef
	bestDist := 0.0
	for _, sd := range sides {
		d := sd.Line.Line().DistanceSq(pos)
		switch {
		case best == nil || d < bestDist:
			best, bestDist = sd, d
		case sd.Line == best.Line:
			front := sd.Line.SideOfLine(pos) <= 0
			if sd.IsFront == front {
				best = sd
			}
		}
	}
	return best
}

// FloodfillFlats replaces the floor (or ceiling) texture of start and of all
// connected unmarked sectors whose current texture long name is in match.
// Changed sectors are marked.
func FloodfillFlats(start *Sector, ceilings bool, match map[uint64]struct{}, newTexture string) {
	todo := []*Sector{start}
	for len(todo) > 0 {
		s := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if s.Marked {
			continue
		}
		cur := s.LongFloorTexture()
		if ceilings {
			cur = s.LongCeilTexture()
		}
		if _, ok := match[cur]; !ok {
			continue
		}
		if ceilings {
			s.SetCeilTexture(newTexture)
		} else {
			s.SetFloorTexture(newTexture)
		}
		s.Marked = true
		for _, sd := range s.Sidedefs {
			if other := sd.Other(); other != nil && !other.Sector.Marked {
				todo = append(todo, other.Sector)
			}
		}
	}
}
