package surface

import (
	"fmt"
	gomath "math"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/texture"
	"github.com/Faultbox/visualflats/internal/undo"
	"github.com/Faultbox/visualflats/pkg/math"
)

// ensureUndo opens a new transaction unless the last one was started by
// this surface or earlier in the same change set, so repeated key presses
// and multi-selection changes coalesce.
func (s *Surface) ensureUndo(cs *ChangeSet, description string) {
	log := s.mode.Undo()
	next, ok := log.NextTicket()
	switch {
	case ok && cs != nil && cs.ticket != "" && next == cs.ticket:
		s.undoTicket = cs.ticket
	case !ok || next != s.undoTicket:
		s.undoTicket = log.CreateUndo(description)
	}
	if cs != nil {
		cs.ticket = s.undoTicket
	}
}

// rebuildControl rebuilds the visual sector of the control sector.
func (s *Surface) rebuildControl(includeNeighbours bool) {
	if vs := s.controlView(); vs != nil {
		vs.UpdateSectorGeometry(includeNeighbours)
	}
}

// cameraQuadrantAngle returns the camera azimuth plus the texture rotation
// in degrees, wrapped into [0, 360).
func (s *Surface) cameraQuadrantAngle() float64 {
	return math.ClampAngle(math.RadToDeg(s.mode.Camera().AngleXY) + s.Transform().Rotation)
}

// OnChangeTextureOffset moves the texture by a screen-relative delta. With
// angle correction the delta is turned to match the camera and texture
// orientation. It reports whether the offset was applied.
func (s *Surface) OnChangeTextureOffset(cs *ChangeSet, horizontal, vertical int, angleCorrection bool) bool {
	if cs.Claimed(s.ControlSector(), s.kind) {
		return false
	}
	if horizontal == 0 && vertical == 0 {
		return false
	}
	if !s.mode.IsUDMF() {
		s.mode.DisplayStatus("Floor/ceiling texture offsets cannot be changed in this map format!")
		return false
	}
	s.ensureUndo(cs, "Change texture offsets")

	if angleCorrection {
		h, v := horizontal, vertical
		angle := s.cameraQuadrantAngle()
		switch {
		case angle > 315 || angle < 46:
		case angle > 225:
			vertical, horizontal = h, -v
		case angle > 135:
			horizontal, vertical = -h, -v
		default:
			vertical, horizontal = -h, v
		}
	}

	s.MoveTextureOffset(-horizontal, -vertical)
	cs.Claim(s.ControlSector(), s.kind)
	s.rebuildControl(false)
	return true
}

// OnChangeTextureRotation sets the texture rotation in degrees.
func (s *Surface) OnChangeTextureRotation(cs *ChangeSet, angle float64) {
	if !s.mode.IsUDMF() || !cs.Claim(s.ControlSector(), s.kind) {
		return
	}
	s.ensureUndo(cs, "Change texture rotation")
	label := "Floor"
	if s.kind == Ceiling {
		label = "Ceiling"
	}
	s.mode.SetActionResult(fmt.Sprintf("%s rotation changed to %v", label, angle))
	s.SetRotation(angle)
	s.rebuildControl(false)
}

// OnChangeScale grows or shrinks the texture by whole pixels. The
// increments are swapped when the camera looks along the other texture
// axis.
func (s *Surface) OnChangeScale(cs *ChangeSet, incX, incY int) {
	if !s.mode.IsUDMF() || s.texture == nil || !s.texture.IsImageLoaded() {
		return
	}
	if !cs.Claim(s.ControlSector(), s.kind) {
		return
	}
	s.ensureUndo(cs, "Change texture scale")

	angle := s.cameraQuadrantAngle()
	if (angle > 225 && angle <= 315) || (angle >= 46 && angle <= 135) {
		incX, incY = incY, incX
	}
	s.ChangeTextureScale(incX, incY)
	s.rebuildControl(false)
}

// ChangeTextureScale changes the scale so the texture covers inc pixels
// less. A scale that would reach zero flips sign instead.
func (s *Surface) ChangeTextureScale(incX, incY int) {
	img := s.texture
	if img == nil || !img.IsImageLoaded() {
		return
	}
	cs := s.ControlSector()
	k := s.kind.keys()
	scaleX := cs.Fields.GetFloat(k.xScale, 1)
	scaleY := cs.Fields.GetFloat(k.yScale, 1)
	cs.Fields.BeforeFieldsChange()

	if incX != 0 {
		scaleX = stepScale(scaleX, img.Width(), incX)
		cs.Fields.SetFloat(k.xScale, scaleX, 1)
	}
	if incY != 0 {
		scaleY = stepScale(scaleY, img.Height(), incY)
		cs.Fields.SetFloat(k.yScale, scaleY, 1)
	}

	label := "Floor"
	if s.kind == Ceiling {
		label = "Ceiling"
	}
	s.mode.SetActionResult(fmt.Sprintf("%s scale changed to %.3f, %.3f (%d x %d).", label, scaleX, scaleY,
		int(gomath.Round(float64(img.Width())/scaleX)), int(gomath.Round(float64(img.Height())/scaleY))))
}

// stepScale returns the scale at which size pixels cover inc pixels less.
func stepScale(scale float64, size, inc int) float64 {
	pix := float64(int(gomath.Round(float64(size)*scale)) - inc)
	next := math.Round(pix/float64(size), 3)
	if next == 0 {
		return -scale
	}
	return next
}

// OnChangeTargetHeight raises or lowers the plane. Sloped planes move
// along their normal.
func (s *Surface) OnChangeTargetHeight(cs *ChangeSet, amount int) {
	if !cs.Claim(s.ControlSector(), s.kind) {
		return
	}
	s.changeHeight(amount)
	s.rebuildControl(true)
}

func (s *Surface) changeHeight(amount int) {
	sector := s.ControlSector()
	group := undo.GroupFloorHeightChange
	if s.kind == Ceiling {
		group = undo.GroupCeilingHeightChange
	}
	log := s.mode.Undo()

	sloped := sector.HasFloorSlope()
	if s.kind == Ceiling {
		sloped = sector.HasCeilSlope()
	}
	if sloped {
		log.CreateGroupedUndo(fmt.Sprintf("Change %s slope height", s.kind), group, sector.Index)
		sector.BeforePropsChange()
		if s.kind == Ceiling {
			sector.CeilSlopeOffset -= sector.CeilSlope.Z * float64(amount)
		} else {
			sector.FloorSlopeOffset -= sector.FloorSlope.Z * float64(amount)
		}
		sector.UpdateNeeded = true
		s.mode.SetActionResult(fmt.Sprintf("Changed %s slope height by %d.", s.kind, amount))
		return
	}

	log.CreateGroupedUndo(fmt.Sprintf("Change %s height", s.kind), group, sector.Index)
	sector.BeforePropsChange()
	if s.kind == Ceiling {
		sector.CeilHeight += amount
	} else {
		sector.FloorHeight += amount
	}
	sector.UpdateNeeded = true
	s.mode.SetActionResult(fmt.Sprintf("Changed %s height to %d.", s.kind, s.kind.Height(sector)))
}

// OnChangeTargetBrightness steps the sector brightness through the
// configured levels. Extra floor surfaces change their control sector; a
// base floor below a lit extra floor changes that extra floor instead.
func (s *Surface) OnChangeTargetBrightness(up bool) {
	owner := s.owner.MapSector()
	if s.level != nil {
		if s.level.Sector != owner {
			vs := s.controlView()
			if vs == nil {
				return
			}
			base := vs.Floor()
			if s.kind == Ceiling {
				base = vs.Ceiling()
			}
			if base != nil {
				base.OnChangeTargetBrightness(up)
			}
			vs.UpdateSectorGeometry(true)
			return
		}
		if s.kind == Floor {
			if extras := s.owner.ExtraFloors(); len(extras) > 0 {
				lvl := extras[0].extra.Floor
				if !lvl.RestrictLighting && !lvl.DisableLighting {
					extras[0].OnChangeTargetBrightness(up)
					return
				}
			}
		}
	}

	s.mode.Undo().CreateGroupedUndo("Change sector brightness", undo.GroupSectorBrightnessChange, owner.Index)
	owner.BeforePropsChange()
	levels := s.mode.Settings().BrightnessLevels
	if up {
		owner.Brightness = nextHigher(levels, owner.Brightness)
	} else {
		owner.Brightness = nextLower(levels, owner.Brightness)
	}
	s.mode.SetActionResult(fmt.Sprintf("Changed sector brightness to %d.", owner.Brightness))
	owner.UpdateCache()
	s.owner.UpdateSectorGeometry(false)
}

// nextHigher returns the first level above v, or the highest level.
func nextHigher(levels []int, v int) int {
	for _, l := range levels {
		if l > v {
			return l
		}
	}
	if len(levels) == 0 {
		return v
	}
	return levels[len(levels)-1]
}

// nextLower returns the last level below v, or the lowest level.
func nextLower(levels []int, v int) int {
	for i := len(levels) - 1; i >= 0; i-- {
		if levels[i] < v {
			return levels[i]
		}
	}
	if len(levels) == 0 {
		return v
	}
	return levels[0]
}

// OnResetTextureOffset clears the panning.
func (s *Surface) OnResetTextureOffset() {
	k := s.kind.keys()
	s.clearFields([]string{k.xPan, k.yPan}, "Reset texture offsets", "Texture offsets reset.")
}

// OnResetLocalTextureOffset clears panning, scale, rotation and the
// surface light.
func (s *Surface) OnResetLocalTextureOffset() {
	k := s.kind.keys()
	s.clearFields([]string{k.xPan, k.yPan, k.xScale, k.yScale, k.rotation, k.light, k.lightAbsolute},
		"Reset texture offsets, scale, rotation and brightness",
		"Texture offsets, scale, rotation and brightness reset.")
}

func (s *Surface) clearFields(keys []string, undoDescription, result string) {
	if !s.mode.IsUDMF() {
		return
	}
	s.mode.Undo().CreateUndo(undoDescription)
	s.mode.SetActionResult(result)

	cs := s.ControlSector()
	cs.Fields.BeforeFieldsChange()
	for _, k := range keys {
		if cs.Fields.Remove(k) {
			cs.UpdateNeeded = true
		}
	}
	if !cs.UpdateNeeded {
		return
	}
	if cs != s.owner.MapSector() && s.mode.VisualSectorExists(cs) {
		s.mode.GetVisualSector(cs).UpdateSectorGeometry(false)
	} else {
		s.owner.UpdateSectorGeometry(false)
	}
}

func (s *Surface) setTexture(name string) {
	s.kind.setTexture(s.ControlSector(), name)
	s.mode.Textures().MarkUsed(s.mode.Map().UsedFlats())
}

// OnDelete removes the texture.
func (s *Surface) OnDelete() {
	s.mode.Undo().CreateUndo("Delete texture")
	s.mode.SetActionResult("Deleted a texture.")
	s.setTexture(texture.EmptyName)
	if cs := s.ControlSector(); s.mode.VisualSectorExists(cs) {
		s.mode.GetVisualSector(cs).UpdateSectorGeometry(false)
	}
}

// ApplyTexture sets a new texture.
func (s *Surface) ApplyTexture(name string) {
	s.mode.Undo().CreateUndo(fmt.Sprintf("Change flat %q", name))
	s.setTexture(name)
	if cs := s.ControlSector(); s.mode.VisualSectorExists(cs) {
		s.mode.GetVisualSector(cs).UpdateSectorGeometry(false)
	}
}

// OnSelectTexture lets the user browse for a new texture.
func (s *Surface) OnSelectTexture() {
	old := s.TextureName()
	name := s.mode.BrowseFlat(old)
	if name != "" && name != old {
		s.mode.ApplySelectTexture(name)
	}
}

// OnCopyTexture copies the texture name. The full name is copied for long
// names when enabled.
func (s *Surface) OnCopyTexture() {
	name := s.TextureName()
	img := s.texture
	if s.mode.Settings().UseLongTextureNames && img != nil && img.UsedInMap() {
		base := path.Base(strings.ReplaceAll(img.Name(), "\\", "/"))
		if len(strings.TrimSuffix(base, path.Ext(base))) > texture.ClassicNameLength {
			name = img.Name()
		}
	}
	s.mode.Clipboard().Flat = name
	s.mode.SetActionResult(fmt.Sprintf("Copied flat %q.", name))
}

// OnPasteTexture applies the copied texture.
func (s *Surface) OnPasteTexture() {
	name := s.mode.Clipboard().Flat
	if name == "" {
		return
	}
	s.mode.Undo().CreateUndo(fmt.Sprintf("Paste %s %q", s.kind, name))
	s.mode.SetActionResult(fmt.Sprintf("Pasted flat %q on %s.", name, s.kind))
	s.setTexture(name)
	s.rebuildControl(false)
}

// OnTextureFloodfill replaces the texture of this and all connected
// surfaces using the same texture with the copied one. With several
// objects selected the fill stays inside the selection.
func (s *Surface) OnTextureFloodfill() {
	newTexture := s.mode.Clipboard().Flat
	oldTexture := s.TextureName()
	if newTexture == "" || newTexture == oldTexture {
		return
	}
	textures := s.mode.Textures()
	if textures.FlatImageByName(newTexture) == nil {
		return
	}

	ceilings := s.kind == Ceiling
	plural := "floors"
	if ceilings {
		plural = "ceilings"
	}
	s.mode.Undo().CreateUndo(fmt.Sprintf("Flood-fill %s with %s", plural, newTexture))
	s.mode.SetActionResult(fmt.Sprintf("Flood-filled %s with %s.", plural, newTexture))

	m := s.mode.Map()
	if s.mode.IsSingleSelection() {
		m.ClearMarkedSectors(false)
	} else {
		m.ClearMarkedSectors(true)
		for _, sec := range s.mode.SelectedSectors() {
			sec.Marked = false
		}
	}

	// The sector may name the flat by its short or its long name.
	match := map[uint64]struct{}{texture.MakeLongName(oldTexture): {}}
	if s.texture != nil {
		match[s.texture.LongName()] = struct{}{}
	}
	mapdata.FloodfillFlats(s.owner.MapSector(), ceilings, match, newTexture)

	changed := m.MarkedSectors(true)
	for _, sec := range changed {
		if !s.mode.VisualSectorExists(sec) {
			continue
		}
		vs := s.mode.GetVisualSector(sec)
		if ceilings {
			vs.Ceiling().Resetup()
		} else {
			vs.Floor().Resetup()
		}
	}
	textures.MarkUsed(m.UsedFlats())
	s.log.Debug("flood fill", zap.Int("sectors", len(changed)))
	s.mode.ShowTargetInfo()
}

// OnCopyProperties copies the control sector's properties.
func (s *Surface) OnCopyProperties() {
	s.mode.Clipboard().SectorProps = mapdata.CopySectorProperties(s.ControlSector())
	s.mode.SetActionResult("Copied sector properties.")
}

// OnPasteProperties applies copied sector properties, optionally filtered
// by the mode's paste options.
func (s *Surface) OnPasteProperties(useCopySettings bool) {
	props := s.mode.Clipboard().SectorProps
	if props == nil {
		return
	}
	s.mode.Undo().CreateUndo("Paste sector properties")
	s.mode.SetActionResult("Pasted sector properties.")
	opts := mapdata.PasteAll
	if useCopySettings {
		opts = s.mode.PasteOptions()
	}
	cs := s.ControlSector()
	props.Apply([]*mapdata.Sector{cs}, opts)
	if s.mode.VisualSectorExists(cs) {
		s.mode.GetVisualSector(cs).UpdateSectorGeometry(true)
	}
	s.mode.ShowTargetInfo()
}

// OnEditEnd opens the sector dialog for the selection and rebuilds the
// affected sectors on every value change.
func (s *Surface) OnEditEnd() {
	sectors := s.mode.SelectedSectors()
	views := make([]SectorView, 0, len(sectors))
	for _, sec := range sectors {
		if s.mode.VisualSectorExists(sec) {
			views = append(views, s.mode.GetVisualSector(sec))
		}
	}
	ok := s.mode.ShowEditSectors(sectors, func() {
		for _, vs := range views {
			vs.UpdateSectorGeometry(true)
		}
	})
	if ok {
		s.mode.RebuildElementData()
	}
}
