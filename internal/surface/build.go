package surface

import (
	"go.uber.org/zap"

	"github.com/Faultbox/visualflats/internal/logger"
	"github.com/Faultbox/visualflats/internal/metrics"
	"github.com/Faultbox/visualflats/internal/texture"
	"github.com/Faultbox/visualflats/pkg/math"
)

// fogDensityScaler converts a fog density into the exponent the shader uses.
const fogDensityScaler = -1.442692 / 64000.0

// Setup builds the mesh for a layer. innerSide selects the inside face of
// an extra floor. It returns false when no triangles were produced; the
// surface stays valid and may be set up again later.
func (s *Surface) Setup(level *Level, extra *ExtraFloor, innerSide bool) bool {
	s.level = level
	s.extra = extra
	s.innerSide = innerSide

	cs := level.Sector
	t := ReadTransform(cs, s.kind)
	s.resolveTexture(s.kind.LongTexture(cs))
	texScale := textureScale(s.texture)

	alpha := math.Clamp(level.Alpha, 0, 255)
	color := withAlpha(level.Color, alpha)
	if extra != nil {
		mod := extra.ColorFloor
		if s.kind == Ceiling {
			mod = extra.ColorCeiling
		}
		color = withAlpha(modulate(color, mod), alpha)
	}
	s.fog = fogFactor(s.targetBrightness(), s.mode.Settings().FogDensity)

	tris := s.owner.MapSector().Triangles
	verts := make([]Vertex, len(tris))
	for i, p := range tris {
		uv := t.Project(p, texScale)
		verts[i] = Vertex{
			Position: [3]float32{float32(p.X), float32(p.Y), float32(level.Plane.GetZ(p))},
			TexCoord: [2]float32{float32(uv.X), float32(uv.Y)},
			Color:    color,
		}
	}

	// The triangulation is clockwise seen from above, which faces up.
	if s.flipped() {
		swapTriangleVertices(verts)
	}

	s.pass = classifyPass(extra, alpha, s.texture.IsTranslucent())
	s.sky = s.kind.hasSky(cs)
	s.vertices = verts

	metrics.ObserveBuild(s.kind.String(), s.pass.String(), len(verts)/3)
	s.log.Debug("surface built",
		zap.Int("control", cs.Index),
		zap.Int("triangles", len(verts)/3),
		zap.Stringer("pass", s.pass))
	return len(verts) > 0
}

// Resetup rebuilds the mesh from the current layer.
func (s *Surface) Resetup() bool {
	if s.level == nil {
		return false
	}
	return s.Setup(s.level, s.extra, s.innerSide)
}

// resolveTexture picks the image for a long name and records a pending
// reconciliation when the image is unknown or still loading.
func (s *Surface) resolveTexture(longName uint64) {
	textures := s.mode.Textures()
	if longName == texture.EmptyLongName {
		s.texture = textures.MissingTexture()
		s.pendingTexture = 0
		s.updatePendingGauge()
		return
	}
	img := textures.FlatImage(longName)
	switch {
	case img == nil || img.IsUnknown():
		s.texture = textures.UnknownTexture()
		s.pendingTexture = longName
	case !img.IsImageLoaded():
		s.texture = img
		s.pendingTexture = longName
	default:
		s.texture = img
		s.pendingTexture = 0
	}
	s.updatePendingGauge()
}

// OnProcess rebuilds the surface once a pending texture has loaded.
func (s *Surface) OnProcess() {
	if s.pendingTexture == s.reconciledTexture {
		return
	}
	if s.pendingTexture == 0 {
		s.reconciledTexture = 0
		s.updatePendingGauge()
		return
	}
	img := s.mode.Textures().FlatImage(s.pendingTexture)
	if img == nil || !img.IsImageLoaded() {
		return
	}
	s.reconciledTexture = s.pendingTexture
	s.updatePendingGauge()
	s.log.Debug("texture reconciled", logger.Flat(img.Name()))
	s.Resetup()
}

func (s *Surface) updatePendingGauge() {
	pending := s.PendingTexture() != 0
	if pending == s.pendingCounted {
		return
	}
	s.pendingCounted = pending
	if pending {
		metrics.PendingTextures.Inc()
	} else {
		metrics.PendingTextures.Dec()
	}
}

// flipped reports whether the triangles must be reversed to face away
// from the layer. Floors face up except the outside bottom of a classic
// extra floor; ceilings face down in exactly the other cases.
func (s *Surface) flipped() bool {
	bottomOfClassic := s.extra != nil && !s.extra.Vavoom && !s.innerSide
	if s.kind == Ceiling {
		return !bottomOfClassic
	}
	return bottomOfClassic
}

// targetBrightness returns the brightness the fog is computed from. The
// visible face of a Vavoom floor, or of a classic extra ceiling, is lit by
// the layer above it.
func (s *Surface) targetBrightness() int {
	useNext := false
	if s.extra != nil && !s.level.DisableLighting {
		if s.kind == Floor {
			useNext = s.extra.Vavoom
		} else {
			useNext = !s.extra.Vavoom
		}
	}
	if !useNext {
		return s.level.BrightnessBelow
	}
	levels := s.mode.LightLevels(s.owner.MapSector())
	for i := 0; i < len(levels)-1; i++ {
		if levels[i] == s.level {
			return levels[i+1].BrightnessBelow
		}
	}
	return 0
}

// classifyPass derives the render pass of a surface.
func classifyPass(extra *ExtraFloor, alpha int, translucent bool) RenderPass {
	if extra == nil {
		return PassSolid
	}
	switch {
	case extra.Sloped:
		return PassMask
	case extra.RenderAdditive:
		return PassAdditive
	case alpha < 255 || translucent:
		return PassAlpha
	default:
		return PassMask
	}
}

// swapTriangleVertices reverses the winding of every triangle.
func swapTriangleVertices(verts []Vertex) {
	for i := 0; i+2 < len(verts); i += 3 {
		verts[i], verts[i+1] = verts[i+1], verts[i]
	}
}

// fogFactor returns the fog exponent for a brightness. A positive density
// overrides the brightness-derived one.
func fogFactor(brightness, density int) float32 {
	var d float64
	switch {
	case density > 0:
		d = float64(density)
	case brightness < 248:
		d = float64(math.Clamp(255-brightness, 30, 255))
	}
	return float32(d * fogDensityScaler)
}

func withAlpha(argb uint32, alpha int) uint32 {
	return argb&0x00FFFFFF | uint32(alpha)<<24
}

// modulate multiplies two ARGB colors channel by channel.
func modulate(a, b uint32) uint32 {
	var out uint32
	for shift := uint(0); shift < 32; shift += 8 {
		ca := a >> shift & 0xFF
		cb := b >> shift & 0xFF
		out |= ca * cb / 255 << shift
	}
	return out
}
