package surface

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/visualflats/internal/config"
	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/pkg/math"
)

// AlignTexture rotates and pans the texture so it lines up with the edge of
// the highlighted sector nearest to the hit position. On slopes the scale
// is corrected so texels keep their size along the slope.
func (s *Surface) AlignTexture(alignX, alignY bool) {
	if !s.mode.IsUDMF() || s.level == nil {
		return
	}
	target := s.mode.Highlighted()
	if target == nil {
		return
	}
	sector := s.owner.MapSector()

	// The target sector is the control sector when the target belongs to
	// an extra floor.
	ts := target.ControlSector()
	if target.kind.TextureName(ts) != s.kind.TextureName(sector) {
		return
	}
	scale := ReadTransform(ts, target.kind).Scale

	hit := s.mode.HitPosition()
	if !hit.IsFinite() {
		return
	}
	highlighted := target.owner.MapSector()
	lines := make([]*mapdata.Linedef, 0, len(highlighted.Sidedefs))
	for _, sd := range highlighted.Sidedefs {
		lines = append(lines, sd.Line)
	}
	line := mapdata.NearestLinedef(lines, hit)
	if line == nil {
		return
	}

	isFront := line.SideOfLine(hit) > 0
	keys := s.kind.keys()
	sector.Fields.BeforeFieldsChange()

	angle := -math.RadToDeg(line.Angle())
	if isFront {
		angle += 90
	} else {
		angle -= 90
	}
	rotation := math.Round(math.ClampAngle(angle), 1)
	if !isFront {
		rotation = math.ClampAngle(rotation + 180)
	}
	sector.Fields.SetFloat(keys.rotation, rotation, 0)

	plane := s.level.Plane
	policy := s.mode.Settings().ScaleTexturesOnSlopes
	if !plane.IsFlat() && policy != config.SlopeScaleNever {
		base := math.Vec2{X: 1, Y: 1}
		if policy == config.SlopeScaleFromCurrent {
			base = scale
		}
		start := math.V3(line.Start.Position, plane.GetZ(line.Start.Position))
		end := math.V3(line.End.Position, plane.GetZ(line.End.Position))
		dir := end.Sub(start).Normalize()
		perp := dir.Cross(plane.Normal)
		if alignX {
			scale.X = gomath.Abs(base.X / gomath.Cos(dir.AngleZ()))
		}
		if alignY {
			scale.Y = gomath.Abs(base.Y / gomath.Cos(perp.AngleZ()))
		}
	}
	if alignX {
		sector.Fields.SetFloat(keys.xScale, scale.X, 1)
	}
	if alignY {
		sector.Fields.SetFloat(keys.yScale, scale.Y, 1)
	}

	anchor := line.End.Position
	if hit.Distance(line.Start.Position) < hit.Distance(line.End.Position) {
		anchor = line.Start.Position
	}
	offset := anchor.Rotated(math.DegToRad(rotation))
	loaded := s.texture != nil && s.texture.IsImageLoaded()

	if alignX {
		x := -offset.X
		if loaded {
			x = wrapPan(x, s.texture.ScaledWidth(), scale.X)
		}
		sector.Fields.SetFloat(keys.xPan, roundPan(x, s.texture.ScaledWidth(), scale.X, loaded), 0)
	}
	if alignY {
		y := offset.Y
		if loaded {
			y = wrapPan(y, s.texture.ScaledHeight(), scale.Y)
		}
		sector.Fields.SetFloat(keys.yPan, roundPan(y, s.texture.ScaledHeight(), scale.Y, loaded), 0)
	}

	s.log.Debug("texture aligned",
		zap.Int("target", ts.Index),
		zap.Int("line", line.Index),
		zap.Float64("rotation", rotation))
	s.owner.UpdateSectorGeometry(false)
}

// roundPan rounds a pan to 6 decimals, folding a value that rounds up to a
// full repetition back to 0.
func roundPan(v, size, scale float64, wrapped bool) float64 {
	r := math.Round(v, 6)
	if wrapped && scale != 0 && r >= gomath.Abs(size/scale) {
		return 0
	}
	return r
}

// OnTextureAlign aligns every selected flat. Extra floor surfaces are
// redirected to the base surface of their control sector.
func (s *Surface) OnTextureAlign(alignX, alignY bool) {
	if !s.mode.IsUDMF() {
		return
	}
	var axes string
	switch {
	case alignX && alignY:
		axes = "(X and Y)"
	case alignX:
		axes = "(X)"
	default:
		axes = "(Y)"
	}
	s.mode.Undo().CreateUndo("Auto-align textures " + axes)
	s.mode.SetActionResult("Auto-aligned textures " + axes + ".")

	for _, sel := range s.mode.SelectedSurfaces() {
		base := sel
		if sel.extra != nil {
			vs := sel.controlView()
			if vs == nil {
				continue
			}
			if sel.kind == Ceiling {
				base = vs.Ceiling()
			} else {
				base = vs.Floor()
			}
		}
		if base == nil {
			continue
		}
		base.AlignTexture(alignX, alignY)
		ms := base.owner.MapSector()
		ms.UpdateNeeded = true
		ms.UpdateCache()
	}
}
