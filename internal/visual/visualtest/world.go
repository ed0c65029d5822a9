// Package visualtest builds small maps and editing modes for tests.
package visualtest

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/visualflats/internal/config"
	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/surface"
	"github.com/Faultbox/visualflats/internal/texture"
	"github.com/Faultbox/visualflats/internal/undo"
	"github.com/Faultbox/visualflats/internal/visual"
	"github.com/Faultbox/visualflats/pkg/math"
)

// Flats registered by NewFlats.
const (
	Solid     = "FLAT64"  // 64x64, opaque
	Wide      = "FLAT128" // 128x64, opaque
	Masked    = "MASKED"  // 64x64, left half fully transparent
	Glass     = "GLASS"   // 64x64, half transparent everywhere
	Late      = "LATE"    // registered without pixels
	LongName  = "textures/GrassLong01.png"
	ShortName = "GRASSLON"
)

// Fill creates a w x h image with the given alpha per pixel.
func Fill(w, h int, alpha func(x, y int) uint8) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, G: 128, B: 128, A: alpha(x, y)})
		}
	}
	return img
}

func opaque(int, int) uint8 { return 255 }

// NewFlats creates a cache with the test flats.
func NewFlats(t testing.TB) *texture.Cache {
	t.Helper()
	c := texture.NewCache()
	images := map[string]image.Image{
		Solid: Fill(64, 64, opaque),
		Wide:  Fill(128, 64, opaque),
		Masked: Fill(64, 64, func(x, _ int) uint8 {
			if x < 32 {
				return 0
			}
			return 255
		}),
		Glass:    Fill(64, 64, func(int, int) uint8 { return 128 }),
		LongName: Fill(64, 64, opaque),
	}
	for name, img := range images {
		_, err := c.AddFlat(name)
		require.NoError(t, err)
		require.NoError(t, c.SetImage(name, img))
	}
	_, err := c.AddFlat(Late)
	require.NoError(t, err)
	return c
}

// Square adds a sector covering the box (x0,y0)-(x1,y1) with its own
// one-sided lines.
func Square(m *mapdata.Map, x0, y0, x1, y1 float64, floor, ceil int) *mapdata.Sector {
	s := m.AddSector(floor, ceil)
	a, b := m.AddVertex(x0, y0), m.AddVertex(x0, y1)
	c, d := m.AddVertex(x1, y1), m.AddVertex(x1, y0)
	m.AddLinedef(a, b, s, nil)
	m.AddLinedef(b, c, s, nil)
	m.AddLinedef(c, d, s, nil)
	m.AddLinedef(d, a, s, nil)
	return s
}

// Row adds n 64x64 rooms along +x. Neighbouring rooms share a two-sided
// line.
func Row(m *mapdata.Map, n int, floorTex string) []*mapdata.Sector {
	rooms := make([]*mapdata.Sector, n)
	bottom := make([]*mapdata.Vertex, n+1)
	top := make([]*mapdata.Vertex, n+1)
	for i := 0; i <= n; i++ {
		bottom[i] = m.AddVertex(float64(64*i), 0)
		top[i] = m.AddVertex(float64(64*i), 64)
	}
	for i := range rooms {
		rooms[i] = m.AddSector(0, 128)
		rooms[i].FloorTexture = floorTex
		rooms[i].CeilTexture = Solid
	}
	m.AddLinedef(bottom[0], top[0], rooms[0], nil)
	for i, r := range rooms {
		var next *mapdata.Sector
		if i+1 < n {
			next = rooms[i+1]
		}
		m.AddLinedef(top[i], top[i+1], r, nil)
		m.AddLinedef(top[i+1], bottom[i+1], r, next)
		m.AddLinedef(bottom[i+1], bottom[i], r, nil)
	}
	return rooms
}

// AddControl adds a control sector without lines.
func AddControl(m *mapdata.Map, floor, ceil int, floorTex, ceilTex string) *mapdata.Sector {
	c := m.AddSector(floor, ceil)
	c.FloorTexture = floorTex
	c.CeilTexture = ceilTex
	return c
}

// Extra returns an opaque classic extra floor definition.
func Extra(control *mapdata.Sector) mapdata.ExtraFloorDef {
	return mapdata.ExtraFloorDef{
		Control:      control,
		Alpha:        255,
		ColorFloor:   0xFFFFFFFF,
		ColorCeiling: 0xFFFFFFFF,
	}
}

// World is a map opened in an editing mode.
type World struct {
	Map     *mapdata.Map
	Config  *config.Config
	Flats   *texture.Cache
	Journal *undo.Journal
	Mode    *visual.Mode
}

// NewWorld triangulates m and builds its visual sectors. Options adjust the
// default config before the build.
func NewWorld(t testing.TB, m *mapdata.Map, opts ...func(*config.Config)) *World {
	t.Helper()
	cfg := config.Default()
	for _, opt := range opts {
		opt(cfg)
	}
	m.Update()
	w := &World{
		Map:     m,
		Config:  cfg,
		Flats:   NewFlats(t),
		Journal: undo.NewJournal(),
	}
	w.Mode = visual.New(m, cfg, w.Flats, w.Journal)
	w.Mode.Build()
	return w
}

// Legacy switches a world to a map format without texture fields.
func Legacy(cfg *config.Config) { cfg.Map.UDMF = false }

// View returns the visual sector of s.
func (w *World) View(s *mapdata.Sector) *visual.Sector {
	return w.Mode.VisualSector(s)
}

// Select adds surfaces to the selection.
func (w *World) Select(surfaces ...*surface.Surface) {
	for _, s := range surfaces {
		s.SetSelected(true)
		w.Mode.AddSelectedObject(s)
	}
}

// LookAt moves the camera and picks the surface in view.
func (w *World) LookAt(from, target math.Vec3) *surface.Surface {
	cam := w.Mode.Camera()
	cam.Position, cam.Target = from, target
	w.Mode.SetCamera(cam)
	return w.Mode.PickTarget()
}

// LookDown picks straight down from 64 units above p.
func (w *World) LookDown(p math.Vec2) *surface.Surface {
	return w.LookAt(math.V3(p, 64), math.V3(p, 0))
}

// Area returns the signed area of a triangle in XY. Clockwise triangles
// have negative area.
func Area(v []surface.Vertex) float64 {
	a, b, c := v[0].Position, v[1].Position, v[2].Position
	return (float64(b[0]-a[0])*float64(c[1]-a[1]) - float64(b[1]-a[1])*float64(c[0]-a[0])) / 2
}
