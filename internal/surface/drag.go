package surface

import (
	gomath "math"

	"github.com/Faultbox/visualflats/internal/logger"
	"github.com/Faultbox/visualflats/internal/undo"
	"github.com/Faultbox/visualflats/pkg/math"
)

// DragState is the state of a UV drag gesture.
type DragState int

// Drag states.
const (
	DragIdle DragState = iota
	DragArmed
	Dragging
)

// Dragger turns camera motion during a held select action into texture
// offset deltas.
type Dragger struct {
	state        DragState
	startAngleXY float64
	startAngleZ  float64
	origin       math.Vec3
	startX       int
	startY       int
	prevX        int
	prevY        int
	ticket       undo.Ticket
}

// State returns the current state.
func (d *Dragger) State() DragState { return d.state }

// arm records the gesture start.
func (d *Dragger) arm(cam Camera, origin math.Vec3, offsetX, offsetY int) {
	d.state = DragArmed
	d.startAngleXY = cam.AngleXY
	d.startAngleZ = cam.AngleZ
	d.origin = origin
	d.startX, d.startY = offsetX, offsetY
	d.prevX, d.prevY = offsetX, offsetY
}

// exceeded reports whether the camera turned far enough to start dragging.
func (d *Dragger) exceeded(cam Camera, tolerance float64) bool {
	dxy := cam.AngleXY - d.startAngleXY
	dz := cam.AngleZ - d.startAngleZ
	return gomath.Abs(dxy)+gomath.Abs(dz) > tolerance
}

// lockAxes zeroes the offset axis that is vertical (lockX) or horizontal
// (lockY) on screen for the camera azimuth in degrees. The x bands are
// (315, 46) and (135, 225]: 45 and 225 look along x, 135 and 315 along y.
func lockAxes(offset math.Vec2, camAngle float64, lockX, lockY bool) math.Vec2 {
	if !lockX && !lockY {
		return offset
	}
	alongX := camAngle > 315 || camAngle < 46 || (camAngle > 135 && camAngle <= 225)
	if alongX {
		if lockX {
			offset.X = 0
		}
		if lockY {
			offset.Y = 0
		}
	} else {
		if lockX {
			offset.Y = 0
		}
		if lockY {
			offset.X = 0
		}
	}
	return offset
}

// step computes the offset delta for a new plane intersection. rotation is
// the texture rotation in degrees. With snap set, only whole grid cells are
// emitted and the remainder carries over to the next step.
func (d *Dragger) step(intersect math.Vec3, camAngleXY, rotation float64, ctrl, shift bool, grid int) (dx, dy int) {
	delta := intersect.Sub(d.origin).XY()
	delta = lockAxes(delta, math.RadToDeg(camAngleXY), ctrl && !shift, !ctrl && shift)

	v := delta.Rotated(math.DegToRad(rotation))
	newX := d.startX - int(gomath.Round(v.X))
	newY := d.startY + int(gomath.Round(v.Y))
	dx = d.prevX - newX
	dy = d.prevY - newY

	if ctrl && shift {
		dx = snapToGrid(dx, grid)
		dy = snapToGrid(dy, grid)
		d.prevX -= dx
		d.prevY -= dy
		return dx, dy
	}
	d.prevX, d.prevY = newX, newY
	return dx, dy
}

// snapToGrid returns the whole grid cells contained in delta.
func snapToGrid(delta, grid int) int {
	if grid <= 0 {
		return delta
	}
	cells := delta / grid
	return cells * grid
}

// OnSelectBegin arms a drag at the last pick intersection.
func (s *Surface) OnSelectBegin() {
	s.mode.LockTarget()
	x, y := s.TextureOffset()
	s.drag.arm(s.mode.Camera(), s.pickIntersect, x, y)
}

// OnSelectEnd finishes a drag, or toggles the selection when the gesture
// never became a drag.
func (s *Surface) OnSelectEnd() {
	s.mode.UnlockTarget()
	if s.drag.state == Dragging {
		s.drag.state = DragIdle
		s.mode.SetSelectionVisible(true)
		s.log.Debug("drag finished", logger.Ticket(s.drag.ticket))
		s.drag.ticket = ""
		return
	}
	s.drag.state = DragIdle
	if s.selected {
		s.deselectObject()
	} else {
		s.selectObject()
	}
}

// OnMouseMove advances paint selection or the drag gesture.
func (s *Surface) OnMouseMove() {
	if s.mode.PaintSelectPressed() {
		if s.mode.PaintSelectTarget() == PaintFlats && s.mode.Highlighted() != s {
			s.paintSelect()
		}
		return
	}
	if !s.mode.IsUDMF() {
		return
	}

	switch s.drag.state {
	case Dragging:
		s.updateDrag()
	case DragArmed:
		if !s.mode.Input().ActionActive(SelectAction) {
			return
		}
		if !s.drag.exceeded(s.mode.Camera(), s.mode.Settings().DragAngleTolerance) {
			return
		}
		s.drag.ticket = s.mode.Undo().CreateUndo("Change texture offsets")
		s.undoTicket = s.drag.ticket
		s.drag.state = Dragging
		s.mode.SetSelectionVisible(false)
		s.log.Debug("drag started", logger.Ticket(s.drag.ticket))
		s.updateDrag()
	}
}

// updateDrag intersects the view ray with the plane and applies the
// resulting offset delta.
func (s *Surface) updateDrag() {
	cam := s.mode.Camera()
	u := 1.0
	if v, ok := s.level.Plane.Intersection(cam.Position, cam.Target); ok {
		u = v
	}
	intersect := cam.Position.Add(cam.Target.Sub(cam.Position).Scale(u))

	in := s.mode.Input()
	dx, dy := s.drag.step(intersect, cam.AngleXY, s.Transform().Rotation,
		in.CtrlState(), in.ShiftState(), s.mode.Settings().GridSize)
	if dx != 0 || dy != 0 {
		s.mode.ApplyFlatOffsetChange(s.drag.ticket, dx, dy)
	}
	s.mode.ShowTargetInfo()
}

// OnPaintSelectBegin starts a paint selection gesture on this surface.
func (s *Surface) OnPaintSelectBegin() {
	s.mode.SetPaintSelectTarget(PaintFlats)
	s.paintSelect()
}

// paintSelect adds, removes or toggles the surface depending on the
// modifiers: Shift adds (inverted by additive paint select), Ctrl removes.
func (s *Surface) paintSelect() {
	in := s.mode.Input()
	switch {
	case in.ShiftState() != s.mode.Settings().AdditivePaintSelect:
		if !s.selected {
			s.selectObject()
		}
	case in.CtrlState():
		if s.selected {
			s.deselectObject()
		}
	default:
		if s.selected {
			s.deselectObject()
		} else {
			s.selectObject()
		}
	}
}
