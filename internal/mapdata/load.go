package mapdata

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/visualflats/pkg/math"
)

// ErrBadLine is returned for a line without a front sector.
var ErrBadLine = errors.New("line needs a front sector")

// Description is the YAML form of a map.
type Description struct {
	Sky      string              `yaml:"sky"`
	Vertices [][2]float64        `yaml:"vertices"`
	Sectors  []SectorDescription `yaml:"sectors"`
	Lines    []LineDescription   `yaml:"lines"`
}

// SectorDescription describes one sector.
type SectorDescription struct {
	Floor          int                     `yaml:"floor"`
	Ceiling        int                     `yaml:"ceiling"`
	FloorTexture   string                  `yaml:"floor_texture"`
	CeilingTexture string                  `yaml:"ceiling_texture"`
	Brightness     *int                    `yaml:"brightness"`
	FloorSlope     []float64               `yaml:"floor_slope"`   // nx, ny, nz, offset
	CeilingSlope   []float64               `yaml:"ceiling_slope"` // nx, ny, nz, offset
	Fields         map[string]any          `yaml:"fields"`
	ExtraFloors    []ExtraFloorDescription `yaml:"extra_floors"`
}

// ExtraFloorDescription describes a 3D floor placed in a sector.
type ExtraFloorDescription struct {
	Control          int     `yaml:"control"`
	Vavoom           bool    `yaml:"vavoom"`
	Additive         bool    `yaml:"additive"`
	RenderInside     bool    `yaml:"render_inside"`
	Alpha            *int    `yaml:"alpha"`
	ColorFloor       *uint32 `yaml:"color_floor"`
	ColorCeiling     *uint32 `yaml:"color_ceiling"`
	DisableLighting  bool    `yaml:"disable_lighting"`
	RestrictLighting bool    `yaml:"restrict_lighting"`
}

// LineDescription describes a linedef. Back is -1 for one-sided lines.
type LineDescription struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
	Front int `yaml:"front"`
	Back  int `yaml:"back"`
}

// LoadFile reads a YAML map description.
func LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading map from %s: %w", path, err)
	}
	return m, nil
}

// Load decodes a YAML map description and builds the map.
func Load(r io.Reader) (*Map, error) {
	var d Description
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding map: %w", err)
	}
	return d.Build()
}

// Build creates the map, then triangulates every sector.
func (d *Description) Build() (*Map, error) {
	m := New()
	if d.Sky != "" {
		m.SkyFlatName = d.Sky
	}
	for _, v := range d.Vertices {
		m.AddVertex(v[0], v[1])
	}
	for _, sd := range d.Sectors {
		s := m.AddSector(sd.Floor, sd.Ceiling)
		if sd.FloorTexture != "" {
			s.FloorTexture = sd.FloorTexture
		}
		if sd.CeilingTexture != "" {
			s.CeilTexture = sd.CeilingTexture
		}
		if sd.Brightness != nil {
			s.Brightness = *sd.Brightness
		}
		if len(sd.FloorSlope) == 4 {
			s.FloorSlope = math.Vec3{X: sd.FloorSlope[0], Y: sd.FloorSlope[1], Z: sd.FloorSlope[2]}.Normalize()
			s.FloorSlopeOffset = sd.FloorSlope[3]
		}
		if len(sd.CeilingSlope) == 4 {
			s.CeilSlope = math.Vec3{X: sd.CeilingSlope[0], Y: sd.CeilingSlope[1], Z: sd.CeilingSlope[2]}.Normalize()
			s.CeilSlopeOffset = sd.CeilingSlope[3]
		}
		for k, v := range sd.Fields {
			s.Fields.Set(k, normalizeField(v))
		}
	}
	for i, sd := range d.Sectors {
		for _, ed := range sd.ExtraFloors {
			control, err := m.Sector(ed.Control)
			if err != nil {
				return nil, fmt.Errorf("sector %d extra floor: %w", i, err)
			}
			ef := ExtraFloorDef{
				Control:          control,
				Vavoom:           ed.Vavoom,
				Additive:         ed.Additive,
				RenderInside:     ed.RenderInside,
				Alpha:            255,
				ColorFloor:       0xFFFFFFFF,
				ColorCeiling:     0xFFFFFFFF,
				DisableLighting:  ed.DisableLighting,
				RestrictLighting: ed.RestrictLighting,
			}
			if ed.Alpha != nil {
				ef.Alpha = *ed.Alpha
			}
			if ed.ColorFloor != nil {
				ef.ColorFloor = *ed.ColorFloor
			}
			if ed.ColorCeiling != nil {
				ef.ColorCeiling = *ed.ColorCeiling
			}
			m.Sectors[i].ExtraFloors = append(m.Sectors[i].ExtraFloors, ef)
		}
	}
	for i, ld := range d.Lines {
		start, err := m.Vertex(ld.Start)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		end, err := m.Vertex(ld.End)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		front, err := m.Sector(ld.Front)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, ErrBadLine)
		}
		var back *Sector
		if ld.Back >= 0 {
			if back, err = m.Sector(ld.Back); err != nil {
				return nil, fmt.Errorf("line %d back: %w", i, err)
			}
		}
		m.AddLinedef(start, end, front, back)
	}
	m.Update()
	return m, nil
}

// normalizeField converts YAML numbers to float64.
func normalizeField(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}
