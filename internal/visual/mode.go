// Package visual is an in-process editing mode that hosts the floor and
// ceiling surfaces of a map: visual sectors, selection, highlight, camera,
// input state and clipboard.
package visual

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/visualflats/internal/config"
	"github.com/Faultbox/visualflats/internal/logger"
	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/surface"
	"github.com/Faultbox/visualflats/internal/texture"
	"github.com/Faultbox/visualflats/internal/undo"
	"github.com/Faultbox/visualflats/pkg/math"
)

// InputState is the modifier and action key state.
type InputState struct {
	Ctrl    bool
	Shift   bool
	Actions map[string]bool
}

// CtrlState reports whether Ctrl is held.
func (in *InputState) CtrlState() bool { return in.Ctrl }

// ShiftState reports whether Shift is held.
func (in *InputState) ShiftState() bool { return in.Shift }

// ActionActive reports whether the named action key is held.
func (in *InputState) ActionActive(name string) bool { return in.Actions[name] }

// SetAction presses or releases an action key.
func (in *InputState) SetAction(name string, active bool) {
	if in.Actions == nil {
		in.Actions = make(map[string]bool)
	}
	in.Actions[name] = active
}

// Mode hosts the visual sectors of one map.
type Mode struct {
	m        *mapdata.Map
	cfg      *config.Config
	textures *texture.Cache
	journal  *undo.Journal

	camera surface.Camera
	input  InputState

	sectors   map[*mapdata.Sector]*Sector
	selection []*surface.Surface

	highlighted      *surface.Surface
	hitPos           math.Vec2
	locked           bool
	selectionVisible bool

	clipboard    surface.Clipboard
	pasteOptions mapdata.PasteOptions
	paintPressed bool
	paintTarget  surface.PaintTarget

	// UseClassicSelection selects surfaces of sectors selected in 2D mode
	// when they are first built.
	UseClassicSelection bool

	// Browser picks a flat for OnSelectTexture. Nil keeps the current one.
	Browser func(current string) string
	// EditSectors runs the sector dialog. Nil cancels.
	EditSectors func(sectors []*mapdata.Sector, onChanged func()) bool

	lastResult string
	lastStatus string

	log *zap.Logger
}

// New creates a mode over a map. Undo snapshots are taken through the
// map's before-change hook.
func New(m *mapdata.Map, cfg *config.Config, textures *texture.Cache, journal *undo.Journal) *Mode {
	mode := &Mode{
		m:                m,
		cfg:              cfg,
		textures:         textures,
		journal:          journal,
		sectors:          make(map[*mapdata.Sector]*Sector),
		selectionVisible: true,
		pasteOptions:     mapdata.PasteAll,
		log:              logger.For(logger.Visual),
	}
	m.OnBeforeChange = func(s *mapdata.Sector) {
		st := s.Snapshot()
		journal.Snapshot(func() { s.Restore(st) })
	}
	return mode
}

// Build creates visual sectors for every map sector.
func (m *Mode) Build() {
	textures := m.m.UsedFlats()
	m.textures.MarkUsed(textures)
	for _, s := range m.m.Sectors {
		m.CreateVisualSector(s)
	}
	for _, vs := range m.sectors {
		for _, s := range vs.Surfaces() {
			s.PerformAutoSelection()
		}
	}
	m.log.Info("visual sectors built", zap.Int("sectors", len(m.sectors)), zap.Int("flats", len(textures)))
}

// Sectors returns visual sectors in map order.
func (m *Mode) Sectors() []*Sector {
	out := make([]*Sector, 0, len(m.sectors))
	for _, s := range m.m.Sectors {
		if vs, ok := m.sectors[s]; ok {
			out = append(out, vs)
		}
	}
	return out
}

// Surfaces returns every surface in map order.
func (m *Mode) Surfaces() []*surface.Surface {
	var out []*surface.Surface
	for _, vs := range m.Sectors() {
		out = append(out, vs.Surfaces()...)
	}
	return out
}

// Process reconciles surfaces waiting for textures.
func (m *Mode) Process() {
	for _, s := range m.Surfaces() {
		s.OnProcess()
	}
}

// Map returns the map.
func (m *Mode) Map() *mapdata.Map { return m.m }

// Camera returns the view state.
func (m *Mode) Camera() surface.Camera { return m.camera }

// SetCamera moves the camera.
func (m *Mode) SetCamera(c surface.Camera) { m.camera = c }

// Textures returns the flat cache.
func (m *Mode) Textures() surface.Textures { return m.textures }

// Undo returns the undo journal.
func (m *Mode) Undo() surface.UndoLog { return m.journal }

// Journal returns the undo journal.
func (m *Mode) Journal() *undo.Journal { return m.journal }

// Input returns the input state.
func (m *Mode) Input() surface.Input { return &m.input }

// InputState returns the mutable input state.
func (m *Mode) InputState() *InputState { return &m.input }

// Settings returns the visual mode settings.
func (m *Mode) Settings() *config.VisualConfig { return &m.cfg.Visual }

// IsUDMF reports whether the map supports per-sector texture fields.
func (m *Mode) IsUDMF() bool { return m.cfg.Map.UDMF }

// LightLevels returns the layers of s sorted by height.
func (m *Mode) LightLevels(s *mapdata.Sector) []*surface.Level {
	if vs, ok := m.sectors[s]; ok && vs.data != nil {
		return vs.data.levels
	}
	return buildSectorData(s).levels
}

// VisualSectorExists reports whether s has a visual sector.
func (m *Mode) VisualSectorExists(s *mapdata.Sector) bool {
	_, ok := m.sectors[s]
	return ok
}

// GetVisualSector returns the visual sector of s, or nil.
func (m *Mode) GetVisualSector(s *mapdata.Sector) surface.SectorView {
	if vs, ok := m.sectors[s]; ok {
		return vs
	}
	return nil
}

// CreateVisualSector builds the visual sector of s if it does not exist.
func (m *Mode) CreateVisualSector(s *mapdata.Sector) surface.SectorView {
	if vs, ok := m.sectors[s]; ok {
		return vs
	}
	vs := newSector(m, s)
	m.sectors[s] = vs
	vs.setup()
	return vs
}

// VisualSector returns the concrete visual sector of s, or nil.
func (m *Mode) VisualSector(s *mapdata.Sector) *Sector { return m.sectors[s] }

// AddSelectedObject adds s to the selection.
func (m *Mode) AddSelectedObject(s *surface.Surface) {
	if !slices.Contains(m.selection, s) {
		m.selection = append(m.selection, s)
	}
}

// RemoveSelectedObject removes s from the selection.
func (m *Mode) RemoveSelectedObject(s *surface.Surface) {
	m.selection = slices.DeleteFunc(m.selection, func(o *surface.Surface) bool { return o == s })
}

// ClearSelection deselects everything.
func (m *Mode) ClearSelection() {
	for _, s := range m.selection {
		s.SetSelected(false)
	}
	m.selection = nil
}

// forget drops surfaces that are no longer drawn.
func (m *Mode) forget(surfaces []*surface.Surface) {
	for _, s := range surfaces {
		m.RemoveSelectedObject(s)
		if m.highlighted == s {
			m.highlighted = nil
		}
	}
}

// SelectedSurfaces returns the selection, or the highlighted surface when
// nothing is selected.
func (m *Mode) SelectedSurfaces() []*surface.Surface {
	if len(m.selection) == 0 && m.highlighted != nil {
		return []*surface.Surface{m.highlighted}
	}
	return slices.Clone(m.selection)
}

// SelectedSectors returns the sectors of the selected surfaces.
func (m *Mode) SelectedSectors() []*mapdata.Sector {
	var out []*mapdata.Sector
	for _, s := range m.SelectedSurfaces() {
		ms := s.Owner().MapSector()
		if !slices.Contains(out, ms) {
			out = append(out, ms)
		}
	}
	return out
}

// IsSingleSelection reports whether at most one object is selected.
func (m *Mode) IsSingleSelection() bool { return len(m.selection) <= 1 }

// UseSelectionFromClassicMode reports whether 2D selection carries over.
func (m *Mode) UseSelectionFromClassicMode() bool { return m.UseClassicSelection }

// Highlighted returns the surface under the crosshair.
func (m *Mode) Highlighted() *surface.Surface { return m.highlighted }

// HitPosition returns the planar position of the last pick.
func (m *Mode) HitPosition() math.Vec2 { return m.hitPos }

// LockTarget freezes the highlight until UnlockTarget.
func (m *Mode) LockTarget() { m.locked = true }

// UnlockTarget releases the highlight.
func (m *Mode) UnlockTarget() { m.locked = false }

// TargetLocked reports whether the highlight is frozen.
func (m *Mode) TargetLocked() bool { return m.locked }

// SetSelectionVisible toggles selection and highlight drawing.
func (m *Mode) SetSelectionVisible(visible bool) { m.selectionVisible = visible }

// SelectionVisible reports whether selection and highlight are drawn.
func (m *Mode) SelectionVisible() bool { return m.selectionVisible }

// SetActionResult records the outcome of an action.
func (m *Mode) SetActionResult(text string) {
	m.lastResult = text
	m.journal.SetResult(text)
	m.log.Info(text)
}

// LastResult returns the last action result.
func (m *Mode) LastResult() string { return m.lastResult }

// DisplayStatus shows a warning.
func (m *Mode) DisplayStatus(warning string) {
	m.lastStatus = warning
	m.log.Warn(warning)
}

// LastStatus returns the last warning.
func (m *Mode) LastStatus() string { return m.lastStatus }

// ShowTargetInfo logs the highlighted surface.
func (m *Mode) ShowTargetInfo() {
	if m.highlighted == nil {
		return
	}
	t := m.highlighted.Transform()
	m.log.Debug("target",
		logger.Kind(m.highlighted.Kind()),
		logger.Sector(m.highlighted.Owner().MapSector().Index),
		logger.Flat(m.highlighted.TextureName()),
		zap.Float64("rotation", t.Rotation),
		zap.Float64("xpan", t.Pan.X),
		zap.Float64("ypan", t.Pan.Y))
}

// Clipboard returns the copy buffer.
func (m *Mode) Clipboard() *surface.Clipboard { return &m.clipboard }

// PasteOptions returns the properties applied by a filtered paste.
func (m *Mode) PasteOptions() mapdata.PasteOptions { return m.pasteOptions }

// SetPasteOptions changes the filtered paste properties.
func (m *Mode) SetPasteOptions(o mapdata.PasteOptions) { m.pasteOptions = o }

// BrowseFlat asks the browser for a flat.
func (m *Mode) BrowseFlat(current string) string {
	if m.Browser == nil {
		return current
	}
	return m.Browser(current)
}

// ShowEditSectors runs the sector dialog.
func (m *Mode) ShowEditSectors(sectors []*mapdata.Sector, onChanged func()) bool {
	if m.EditSectors == nil {
		return false
	}
	return m.EditSectors(sectors, onChanged)
}

// RebuildElementData rebuilds every visual sector.
func (m *Mode) RebuildElementData() {
	for _, vs := range m.Sectors() {
		vs.setup()
	}
}

// PaintSelectPressed reports whether a paint selection is in progress.
func (m *Mode) PaintSelectPressed() bool { return m.paintPressed }

// SetPaintSelectPressed starts or stops paint selection.
func (m *Mode) SetPaintSelectPressed(v bool) { m.paintPressed = v }

// PaintSelectTarget returns what the paint selection applies to.
func (m *Mode) PaintSelectTarget() surface.PaintTarget { return m.paintTarget }

// SetPaintSelectTarget sets what the paint selection applies to.
func (m *Mode) SetPaintSelectTarget(t surface.PaintTarget) { m.paintTarget = t }
