package visual

import (
	"go.uber.org/zap"

	"github.com/Faultbox/visualflats/internal/surface"
	"github.com/Faultbox/visualflats/internal/undo"
)

// ApplyFlatOffsetChange moves the texture of every selected flat. Surfaces
// sharing a control sector move it once.
func (m *Mode) ApplyFlatOffsetChange(ticket undo.Ticket, dx, dy int) {
	cs := surface.NewChangeSetIn(ticket)
	for _, s := range m.SelectedSurfaces() {
		s.OnChangeTextureOffset(cs, dx, dy, false)
	}
	m.log.Debug("offset change applied", zap.Int("dx", dx), zap.Int("dy", dy), zap.Int("sectors", cs.Len()))
}

// ChangeTextureOffset moves the selected textures relative to the view.
func (m *Mode) ChangeTextureOffset(horizontal, vertical int) {
	cs := surface.NewChangeSet()
	for _, s := range m.SelectedSurfaces() {
		s.OnChangeTextureOffset(cs, horizontal, vertical, true)
	}
}

// ChangeTextureRotation sets the rotation of the selected textures.
func (m *Mode) ChangeTextureRotation(angle float64) {
	cs := surface.NewChangeSet()
	for _, s := range m.SelectedSurfaces() {
		s.OnChangeTextureRotation(cs, angle)
	}
}

// ChangeTextureScale grows or shrinks the selected textures.
func (m *Mode) ChangeTextureScale(incX, incY int) {
	cs := surface.NewChangeSet()
	for _, s := range m.SelectedSurfaces() {
		s.OnChangeScale(cs, incX, incY)
	}
}

// ChangeTargetHeight raises or lowers the selected flats.
func (m *Mode) ChangeTargetHeight(amount int) {
	cs := surface.NewChangeSet()
	for _, s := range m.SelectedSurfaces() {
		s.OnChangeTargetHeight(cs, amount)
	}
}

// ChangeTargetBrightness steps the brightness of the selected sectors.
func (m *Mode) ChangeTargetBrightness(up bool) {
	for _, s := range m.SelectedSurfaces() {
		s.OnChangeTargetBrightness(up)
	}
}

// ApplySelectTexture applies a texture to the selected flats.
func (m *Mode) ApplySelectTexture(name string) {
	for _, s := range m.SelectedSurfaces() {
		s.ApplyTexture(name)
	}
}

// AlignTextures aligns the selected flats to their nearest edges.
func (m *Mode) AlignTextures(alignX, alignY bool) {
	if m.highlighted == nil {
		return
	}
	m.highlighted.OnTextureAlign(alignX, alignY)
}

// SelectNeighbours spreads the selection from the highlighted surface.
func (m *Mode) SelectNeighbours(sel, sameTexture, sameHeight bool) {
	if m.highlighted == nil {
		return
	}
	m.highlighted.SelectNeighbours(sel, sameTexture, sameHeight)
}

// UndoLast reverts the last transaction and rebuilds the view.
func (m *Mode) UndoLast() bool {
	if !m.journal.Undo() {
		return false
	}
	m.RebuildElementData()
	return true
}
