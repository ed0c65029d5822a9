package surface_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/visualflats/internal/config"
	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/surface"
	"github.com/Faultbox/visualflats/internal/texture"
	vt "github.com/Faultbox/visualflats/internal/visual/visualtest"
)

func TestSetupTextureCoordinates(t *testing.T) {
	m := mapdata.New()
	s := vt.Square(m, 32, 32, 96, 96, 0, 128)
	s.FloorTexture = vt.Solid
	w := vt.NewWorld(t, m)

	floor := w.View(s).Floor()
	require.Equal(t, 2, floor.Triangles())

	found := 0
	for _, v := range floor.Vertices() {
		switch {
		case v.Position[0] == 32 && v.Position[1] == 32:
			assert.InDelta(t, 0.5, v.TexCoord[0], 1e-6)
			assert.InDelta(t, -0.5, v.TexCoord[1], 1e-6)
			found++
		case v.Position[0] == 96 && v.Position[1] == 96:
			assert.InDelta(t, 1.5, v.TexCoord[0], 1e-6)
			assert.InDelta(t, -1.5, v.TexCoord[1], 1e-6)
			found++
		}
		assert.Zero(t, v.Position[2])
	}
	assert.Positive(t, found)
}

func TestSetupAppliesTransform(t *testing.T) {
	m := mapdata.New()
	s := vt.Square(m, 0, 0, 64, 64, 0, 128)
	s.FloorTexture = vt.Wide
	s.Fields.Set("xpanningfloor", 16.0)
	s.Fields.Set("xscalefloor", 2.0)
	w := vt.NewWorld(t, m)

	for _, v := range w.View(s).Floor().Vertices() {
		if v.Position[0] == 64 && v.Position[1] == 0 {
			// (64 + 16) * 2 / 128
			assert.InDelta(t, 1.25, v.TexCoord[0], 1e-6)
			return
		}
	}
	t.Fatal("corner vertex not found")
}

func TestSetupWinding(t *testing.T) {
	m := mapdata.New()
	rooms := vt.Row(m, 1, vt.Solid)
	classic := vt.AddControl(m, 32, 48, vt.Solid, vt.Solid)
	vavoom := vt.AddControl(m, 64, 96, vt.Solid, vt.Solid)
	inside := vt.Extra(classic)
	inside.RenderInside = true
	rooms[0].ExtraFloors = append(rooms[0].ExtraFloors, inside)
	def := vt.Extra(vavoom)
	def.Vavoom = true
	rooms[0].ExtraFloors = append(rooms[0].ExtraFloors, def)
	w := vt.NewWorld(t, m)
	vs := w.View(rooms[0])

	facesUp := func(s *surface.Surface) bool {
		v := s.Vertices()
		require.NotEmpty(t, v)
		require.Zero(t, len(v)%3)
		up := vt.Area(v[:3]) < 0
		for i := 3; i < len(v); i += 3 {
			require.Equal(t, up, vt.Area(v[i:i+3]) < 0, "mixed winding")
		}
		return up
	}

	assert.True(t, facesUp(vs.Floor()))
	assert.False(t, facesUp(vs.Ceiling()))

	require.Len(t, vs.ExtraFloors(), 3)
	require.Len(t, vs.ExtraCeilings(), 3)
	for i, s := range vs.ExtraFloors() {
		ef := s.ExtraFloor()
		require.NotNil(t, ef)
		switch {
		case ef.Vavoom:
			assert.True(t, facesUp(s), "vavoom floor %d", i)
		case s.InnerSide():
			assert.True(t, facesUp(s), "inner bottom %d", i)
		default:
			assert.False(t, facesUp(s), "outer bottom %d", i)
		}
	}
	for i, s := range vs.ExtraCeilings() {
		ef := s.ExtraFloor()
		switch {
		case ef.Vavoom:
			assert.False(t, facesUp(s), "vavoom ceiling %d", i)
		case s.InnerSide():
			assert.False(t, facesUp(s), "inner top %d", i)
		default:
			assert.True(t, facesUp(s), "outer top %d", i)
		}
	}
}

func TestSetupExtraFloorHeights(t *testing.T) {
	m := mapdata.New()
	rooms := vt.Row(m, 1, vt.Solid)
	c := vt.AddControl(m, 32, 48, vt.Solid, vt.Solid)
	rooms[0].ExtraFloors = append(rooms[0].ExtraFloors, vt.Extra(c))
	w := vt.NewWorld(t, m)
	vs := w.View(rooms[0])

	for _, v := range vs.ExtraFloors()[0].Vertices() {
		assert.Equal(t, float32(32), v.Position[2])
	}
	for _, v := range vs.ExtraCeilings()[0].Vertices() {
		assert.Equal(t, float32(48), v.Position[2])
	}
	assert.Same(t, c, vs.ExtraFloors()[0].ControlSector())
	assert.Equal(t, vt.Solid, vs.ExtraFloors()[0].TextureName())
}

func TestSetupRenderPass(t *testing.T) {
	tests := []struct {
		name    string
		texture string
		alpha   int
		add     bool
		sloped  bool
		want    surface.RenderPass
	}{
		{"opaque", vt.Solid, 255, false, false, surface.PassMask},
		{"masked texture", vt.Masked, 255, false, false, surface.PassMask},
		{"translucent texture", vt.Glass, 255, false, false, surface.PassAlpha},
		{"alpha", vt.Solid, 128, false, false, surface.PassAlpha},
		{"additive", vt.Solid, 128, true, false, surface.PassAdditive},
		{"sloped", vt.Glass, 128, true, true, surface.PassMask},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mapdata.New()
			rooms := vt.Row(m, 1, vt.Solid)
			c := vt.AddControl(m, 32, 48, tt.texture, tt.texture)
			if tt.sloped {
				c.FloorSlope = c.FloorPlane().Normal
				c.FloorSlopeOffset = c.FloorPlane().Offset
			}
			def := vt.Extra(c)
			def.Alpha = tt.alpha
			def.Additive = tt.add
			rooms[0].ExtraFloors = append(rooms[0].ExtraFloors, def)
			w := vt.NewWorld(t, m)
			vs := w.View(rooms[0])

			assert.Equal(t, surface.PassSolid, vs.Floor().RenderPass())
			assert.Equal(t, tt.want, vs.ExtraFloors()[0].RenderPass())
			assert.Equal(t, tt.want, vs.ExtraCeilings()[0].RenderPass())
		})
	}
}

func TestSetupColor(t *testing.T) {
	m := mapdata.New()
	rooms := vt.Row(m, 1, vt.Solid)
	rooms[0].Brightness = 255
	c := vt.AddControl(m, 32, 48, vt.Solid, vt.Solid)
	c.Brightness = 255
	def := vt.Extra(c)
	def.Alpha = 128
	def.ColorFloor = 0xFFFF0000
	rooms[0].ExtraFloors = append(rooms[0].ExtraFloors, def)
	w := vt.NewWorld(t, m)
	vs := w.View(rooms[0])

	assert.Equal(t, uint32(0xFFFFFFFF), vs.Floor().Vertices()[0].Color)
	assert.Equal(t, uint32(0x80FF0000), vs.ExtraFloors()[0].Vertices()[0].Color)
	assert.Equal(t, uint32(0x80FFFFFF), vs.ExtraCeilings()[0].Vertices()[0].Color)
}

func TestSetupFogUsesLayerAbove(t *testing.T) {
	m := mapdata.New()
	rooms := vt.Row(m, 1, vt.Solid)
	outer := vt.AddControl(m, 16, 64, vt.Solid, vt.Solid)
	outer.Brightness = 200
	inner := vt.AddControl(m, 32, 40, vt.Solid, vt.Solid)
	inner.Brightness = 50
	for _, c := range []*mapdata.Sector{outer, inner} {
		def := vt.Extra(c)
		def.Vavoom = true
		rooms[0].ExtraFloors = append(rooms[0].ExtraFloors, def)
	}
	w := vt.NewWorld(t, m)
	vs := w.View(rooms[0])

	fog := func(b int) float32 {
		d := float64(min(max(255-b, 30), 255))
		return float32(d * (-1.442692 / 64000.0))
	}
	levels := w.Mode.LightLevels(rooms[0])
	require.Len(t, levels, 6)
	for i := 1; i < len(levels); i++ {
		assert.LessOrEqual(t, levels[i-1].Plane.GetZ(rooms[0].Center()), levels[i].Plane.GetZ(rooms[0].Center()))
	}

	// The outer Vavoom floor is lit by the inner one stacked above it.
	assert.InDelta(t, fog(50), vs.ExtraFloors()[0].FogFactor(), 1e-9)
	assert.InDelta(t, fog(200), vs.ExtraCeilings()[0].FogFactor(), 1e-9)
	assert.InDelta(t, fog(192), vs.Floor().FogFactor(), 1e-9)
}

func TestSetupFogDensityOverride(t *testing.T) {
	m := mapdata.New()
	rooms := vt.Row(m, 1, vt.Solid)
	rooms[0].Brightness = 255
	w := vt.NewWorld(t, m, func(cfg *config.Config) { cfg.Visual.FogDensity = 100 })
	assert.InDelta(t, 100*(-1.442692/64000.0), w.View(rooms[0]).Floor().FogFactor(), 1e-9)

	m = mapdata.New()
	rooms = vt.Row(m, 1, vt.Solid)
	rooms[0].Brightness = 255
	w = vt.NewWorld(t, m)
	assert.Zero(t, w.View(rooms[0]).Floor().FogFactor())
}

func TestSetupTexturePlaceholders(t *testing.T) {
	m := mapdata.New()
	rooms := vt.Row(m, 3, vt.Solid)
	rooms[0].FloorTexture = "NOPE"
	rooms[1].FloorTexture = vt.Late
	rooms[2].FloorTexture = texture.EmptyName
	rooms[2].CeilTexture = "F_SKY1"
	w := vt.NewWorld(t, m)

	unknown := w.View(rooms[0]).Floor()
	assert.Same(t, w.Flats.UnknownTexture(), unknown.Texture())
	assert.Equal(t, texture.MakeLongName("NOPE"), unknown.PendingTexture())

	late := w.View(rooms[1]).Floor()
	assert.Equal(t, vt.Late, late.Texture().Name())
	assert.False(t, late.Texture().IsImageLoaded())
	assert.NotZero(t, late.PendingTexture())

	missing := w.View(rooms[2]).Floor()
	assert.Same(t, w.Flats.MissingTexture(), missing.Texture())
	assert.Zero(t, missing.PendingTexture())
	assert.True(t, w.View(rooms[2]).Ceiling().RenderAsSky())
	assert.False(t, missing.RenderAsSky())

	// Unloaded flats project with the fallback size.
	corner := func(s *surface.Surface) float32 {
		for _, v := range s.Vertices() {
			if v.Position[0] == 128 && v.Position[1] == 0 {
				return v.TexCoord[0]
			}
		}
		t.Fatal("corner vertex not found")
		return 0
	}
	assert.InDelta(t, 2.0, corner(late), 1e-6)

	// Nothing changes until the flat loads.
	w.Mode.Process()
	assert.NotZero(t, late.PendingTexture())

	require.NoError(t, w.Flats.SetImage(vt.Late, vt.Fill(128, 128, func(int, int) uint8 { return 255 })))
	_, err := w.Flats.AddFlat("NOPE")
	require.NoError(t, err)
	require.NoError(t, w.Flats.SetImage("NOPE", vt.Fill(64, 64, func(int, int) uint8 { return 255 })))
	w.Mode.Process()

	assert.Zero(t, late.PendingTexture())
	assert.True(t, late.Texture().IsImageLoaded())
	assert.InDelta(t, 1.0, corner(late), 1e-6)
	assert.Zero(t, unknown.PendingTexture())
	assert.Equal(t, "NOPE", unknown.Texture().Name())
}

func TestResetupKeepsLevel(t *testing.T) {
	m := mapdata.New()
	rooms := vt.Row(m, 1, vt.Solid)
	w := vt.NewWorld(t, m)
	floor := w.View(rooms[0]).Floor()

	rooms[0].Fields.Set("rotationfloor", 90.0)
	require.True(t, floor.Resetup())
	assert.Equal(t, 90.0, floor.Transform().Rotation)

	var empty surface.Surface
	assert.False(t, empty.Resetup())
}
