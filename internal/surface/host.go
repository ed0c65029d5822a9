package surface

import (
	"github.com/Faultbox/visualflats/internal/config"
	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/texture"
	"github.com/Faultbox/visualflats/internal/undo"
	"github.com/Faultbox/visualflats/pkg/math"
)

// Camera is the 3D view state. Angles are in radians.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	AngleXY  float64
	AngleZ   float64
}

// Textures looks up flat images.
type Textures interface {
	FlatImage(longName uint64) *texture.Image
	FlatImageByName(name string) *texture.Image
	MissingTexture() *texture.Image
	UnknownTexture() *texture.Image
	MarkUsed(names []string)
}

// UndoLog records undoable transactions. Attribute writes are captured
// through the map's before-change hook.
type UndoLog interface {
	CreateUndo(description string) undo.Ticket
	CreateGroupedUndo(description string, group undo.Group, object int) undo.Ticket
	NextTicket() (undo.Ticket, bool)
}

// SectorView is the visual counterpart of a map sector.
type SectorView interface {
	MapSector() *mapdata.Sector
	Floor() *Surface
	Ceiling() *Surface
	ExtraFloors() []*Surface
	ExtraCeilings() []*Surface
	UpdateSectorGeometry(includeNeighbours bool)
}

// Input reports modifier and action key state.
type Input interface {
	CtrlState() bool
	ShiftState() bool
	ActionActive(name string) bool
}

// Clipboard holds copied flats and sector properties.
type Clipboard struct {
	Flat        string
	SectorProps *mapdata.SectorProperties
}

// PaintTarget is the kind of object a paint selection gesture applies to.
type PaintTarget int

// Paint targets.
const (
	PaintNone PaintTarget = iota
	PaintFlats
)

// SelectAction is the input action held while selecting and dragging.
const SelectAction = "visualselect"

// Mode is the editing mode hosting the surfaces.
type Mode interface {
	Map() *mapdata.Map
	Camera() Camera
	Textures() Textures
	Undo() UndoLog
	Input() Input
	Settings() *config.VisualConfig
	IsUDMF() bool

	// LightLevels returns the sector's layers in ascending height order.
	LightLevels(s *mapdata.Sector) []*Level

	VisualSectorExists(s *mapdata.Sector) bool
	GetVisualSector(s *mapdata.Sector) SectorView
	CreateVisualSector(s *mapdata.Sector) SectorView

	AddSelectedObject(s *Surface)
	RemoveSelectedObject(s *Surface)
	SelectedSurfaces() []*Surface
	SelectedSectors() []*mapdata.Sector
	IsSingleSelection() bool
	UseSelectionFromClassicMode() bool

	// Highlighted returns the surface under the crosshair, or nil.
	Highlighted() *Surface
	HitPosition() math.Vec2
	LockTarget()
	UnlockTarget()
	SetSelectionVisible(visible bool)

	SetActionResult(text string)
	DisplayStatus(warning string)
	ShowTargetInfo()

	// ApplyFlatOffsetChange fans an offset delta out to the selection. A
	// non-empty ticket names the open transaction the change joins.
	ApplyFlatOffsetChange(ticket undo.Ticket, dx, dy int)
	ApplySelectTexture(name string)

	Clipboard() *Clipboard
	PasteOptions() mapdata.PasteOptions
	BrowseFlat(current string) string
	// ShowEditSectors runs the sector dialog. onChanged is called for every
	// value change while the dialog is open. It returns true on OK.
	ShowEditSectors(sectors []*mapdata.Sector, onChanged func()) bool
	RebuildElementData()

	PaintSelectPressed() bool
	PaintSelectTarget() PaintTarget
	SetPaintSelectTarget(t PaintTarget)
}
