// Package undo provides an in-memory undo journal for the editor. Each
// transaction holds restore closures recorded before attribute writes.
package undo

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/visualflats/internal/logger"
)

// Ticket identifies a transaction.
type Ticket string

// Group coalesces consecutive edits of the same kind on the same object.
type Group int

// Undo groups.
const (
	GroupNone Group = iota
	GroupFloorHeightChange
	GroupCeilingHeightChange
	GroupSectorBrightnessChange
	GroupTextureOffsetChange
)

// Transaction is one undoable step.
type Transaction struct {
	Ticket      Ticket
	Description string
	Result      string
	group       Group
	object      int
	restores    []func()
}

// Journal is a stack of transactions.
type Journal struct {
	undo []*Transaction
	redo []*Transaction
	log  *zap.Logger
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{log: logger.For(logger.Undo)}
}

// CreateUndo starts a new transaction and returns its ticket.
func (j *Journal) CreateUndo(description string) Ticket {
	return j.CreateGroupedUndo(description, GroupNone, -1)
}

// CreateGroupedUndo starts a transaction unless the previous one has the
// same non-zero group and object index, in which case that one is reused.
func (j *Journal) CreateGroupedUndo(description string, group Group, object int) Ticket {
	if group != GroupNone {
		if last := j.last(); last != nil && last.group == group && last.object == object {
			return last.Ticket
		}
	}
	t := &Transaction{
		Ticket:      Ticket(uuid.NewString()),
		Description: description,
		group:       group,
		object:      object,
	}
	j.undo = append(j.undo, t)
	j.redo = j.redo[:0]
	j.log.Debug("transaction started", logger.Ticket(t.Ticket), zap.String("description", description))
	return t.Ticket
}

// NextTicket returns the ticket of the transaction an undo would revert.
func (j *Journal) NextTicket() (Ticket, bool) {
	if last := j.last(); last != nil {
		return last.Ticket, true
	}
	return "", false
}

// SetResult describes the outcome of the open transaction.
func (j *Journal) SetResult(text string) {
	if last := j.last(); last != nil {
		last.Result = text
	}
}

// Snapshot records a restore closure in the open transaction. Writes made
// outside any transaction are not undoable and the closure is dropped.
func (j *Journal) Snapshot(restore func()) {
	if last := j.last(); last != nil {
		last.restores = append(last.restores, restore)
	}
}

// Undo reverts the most recent transaction. It returns false when there is
// nothing to undo.
func (j *Journal) Undo() bool {
	last := j.last()
	if last == nil {
		return false
	}
	for i := len(last.restores) - 1; i >= 0; i-- {
		last.restores[i]()
	}
	j.undo = j.undo[:len(j.undo)-1]
	j.redo = append(j.redo, last)
	j.log.Debug("undone", zap.String("description", last.Description))
	return true
}

// Len returns the number of undoable transactions.
func (j *Journal) Len() int { return len(j.undo) }

// Last returns the most recent transaction, or nil.
func (j *Journal) Last() *Transaction { return j.last() }

func (j *Journal) last() *Transaction {
	if len(j.undo) == 0 {
		return nil
	}
	return j.undo[len(j.undo)-1]
}
