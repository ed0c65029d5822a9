package surface

import (
	"go.uber.org/zap"

	"github.com/Faultbox/visualflats/internal/logger"
	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/texture"
	"github.com/Faultbox/visualflats/internal/undo"
	"github.com/Faultbox/visualflats/pkg/math"
)

// Surface is the floor or ceiling of one sector layer.
type Surface struct {
	kind  Kind
	mode  Mode
	owner SectorView

	level     *Level
	extra     *ExtraFloor
	innerSide bool

	texture  *texture.Image
	vertices []Vertex
	pass     RenderPass
	sky      bool
	fog      float32

	// Deferred texture reconciliation by long name.
	pendingTexture    uint64
	reconciledTexture uint64
	pendingCounted    bool

	selected      bool
	autoSelection bool
	undoTicket    undo.Ticket
	drag          Dragger

	pickIntersect math.Vec3
	pickU         float64

	log *zap.Logger
}

// New creates an empty surface of the given kind owned by a visual sector.
// Call Setup to build its geometry.
func New(mode Mode, owner SectorView, kind Kind) *Surface {
	s := &Surface{
		kind:  kind,
		mode:  mode,
		owner: owner,
		log:   logger.For(logger.Surface).With(logger.Kind(kind)),
	}
	if ms := owner.MapSector(); ms != nil {
		s.autoSelection = mode.UseSelectionFromClassicMode() && ms.Selected
		s.log = s.log.With(logger.Sector(ms.Index))
	}
	return s
}

// Kind returns whether this is a floor or a ceiling.
func (s *Surface) Kind() Kind { return s.kind }

// Owner returns the visual sector the surface is drawn in.
func (s *Surface) Owner() SectorView { return s.owner }

// Level returns the layer the surface was built from.
func (s *Surface) Level() *Level { return s.level }

// ExtraFloor returns the 3D floor the surface belongs to, or nil.
func (s *Surface) ExtraFloor() *ExtraFloor { return s.extra }

// InnerSide reports whether this is the inside face of an extra floor.
func (s *Surface) InnerSide() bool { return s.innerSide }

// ControlSector returns the sector whose fields drive the surface.
func (s *Surface) ControlSector() *mapdata.Sector {
	if s.level == nil {
		return s.owner.MapSector()
	}
	return s.level.Sector
}

// Texture returns the image the surface is drawn with.
func (s *Surface) Texture() *texture.Image { return s.texture }

// Vertices returns the triangle list.
func (s *Surface) Vertices() []Vertex { return s.vertices }

// Triangles returns the number of triangles.
func (s *Surface) Triangles() int { return len(s.vertices) / 3 }

// RenderPass returns the blending bucket.
func (s *Surface) RenderPass() RenderPass { return s.pass }

// RenderAsSky reports whether the surface shows the sky.
func (s *Surface) RenderAsSky() bool { return s.sky }

// FogFactor returns the fog density derived from the target brightness.
func (s *Surface) FogFactor() float32 { return s.fog }

// Selected reports whether the surface is selected.
func (s *Surface) Selected() bool { return s.selected }

// SetSelected changes the selection flag without notifying the mode.
func (s *Surface) SetSelected(v bool) { s.selected = v }

// Dragging reports whether a UV drag is in progress.
func (s *Surface) Dragging() bool { return s.drag.state == Dragging }

// PickIntersect returns the point cached by the last accepted fast pick.
func (s *Surface) PickIntersect() math.Vec3 { return s.pickIntersect }

// PendingTexture returns the long name awaiting reconciliation, or 0.
func (s *Surface) PendingTexture() uint64 {
	if s.pendingTexture == s.reconciledTexture {
		return 0
	}
	return s.pendingTexture
}

// TextureName returns the flat name stored in the control sector.
func (s *Surface) TextureName() string {
	return s.kind.TextureName(s.ControlSector())
}

// selectObject adds the surface to the mode's selection.
func (s *Surface) selectObject() {
	s.selected = true
	s.mode.AddSelectedObject(s)
}

func (s *Surface) deselectObject() {
	s.selected = false
	s.mode.RemoveSelectedObject(s)
}

// controlView returns the visual sector of the control sector, creating it
// when the control sector is not in view.
func (s *Surface) controlView() SectorView {
	cs := s.ControlSector()
	if s.mode.VisualSectorExists(cs) {
		return s.mode.GetVisualSector(cs)
	}
	return s.mode.CreateVisualSector(cs)
}

// PerformAutoSelection selects the surface once when its sector was
// selected in classic mode.
func (s *Surface) PerformAutoSelection() {
	if !s.autoSelection {
		return
	}
	if len(s.vertices) > 0 {
		s.selectObject()
	}
	s.autoSelection = false
}
