package surface

import (
	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/undo"
)

type changeKey struct {
	sector *mapdata.Sector
	kind   Kind
}

// ChangeSet collects the control sectors a gesture has already modified.
// Several selected surfaces may share one control sector; each change is
// applied to it once. Create one per gesture and drop it afterwards.
type ChangeSet struct {
	done   map[changeKey]struct{}
	ticket undo.Ticket
}

// NewChangeSet creates an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{done: make(map[changeKey]struct{})}
}

// NewChangeSetIn creates an empty change set whose writes join the open
// transaction t.
func NewChangeSetIn(t undo.Ticket) *ChangeSet {
	c := NewChangeSet()
	c.ticket = t
	return c
}

// Claimed reports whether kind of s was already changed. A nil set never
// reports a claim.
func (c *ChangeSet) Claimed(s *mapdata.Sector, kind Kind) bool {
	if c == nil {
		return false
	}
	_, ok := c.done[changeKey{s, kind}]
	return ok
}

// Claim marks kind of s as changed and reports whether it was unclaimed.
func (c *ChangeSet) Claim(s *mapdata.Sector, kind Kind) bool {
	if c == nil {
		return true
	}
	if c.Claimed(s, kind) {
		return false
	}
	c.done[changeKey{s, kind}] = struct{}{}
	return true
}

// Len returns the number of claimed sector surfaces.
func (c *ChangeSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.done)
}
