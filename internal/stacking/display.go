package stacking

import (
	"fmt"
	"slices"
)

// Command is one recorded ordering command.
type Command struct {
	Window  WindowID
	Sibling WindowID
}

// SimulatedDisplay is a Restacker that keeps a physical order in memory
// the way an X server would, without a display. Windows appear in the
// order on their first command.
type SimulatedDisplay struct {
	order    []WindowID
	commands []Command
}

var _ Restacker = (*SimulatedDisplay)(nil)

// NewSimulatedDisplay returns a display whose initial order, bottom first,
// is initial.
func NewSimulatedDisplay(initial ...WindowID) *SimulatedDisplay {
	return &SimulatedDisplay{order: slices.Clone(initial)}
}

// StackAbove moves w directly above sibling, or to the bottom when sibling
// is None.
func (d *SimulatedDisplay) StackAbove(w, sibling WindowID) error {
	if w == sibling {
		return fmt.Errorf("stack %s above itself", w)
	}
	if sibling != None && !slices.Contains(d.order, sibling) {
		return fmt.Errorf("sibling %s: %w", sibling, ErrUnknownWindow)
	}
	d.commands = append(d.commands, Command{Window: w, Sibling: sibling})
	if i := slices.Index(d.order, w); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
	at := 0
	if sibling != None {
		at = slices.Index(d.order, sibling) + 1
	}
	d.order = slices.Insert(d.order, at, w)
	return nil
}

// Order returns the physical order, bottom first.
func (d *SimulatedDisplay) Order() []WindowID {
	return slices.Clone(d.order)
}

// Commands returns every command received so far.
func (d *SimulatedDisplay) Commands() []Command {
	return slices.Clone(d.commands)
}

// Reset forgets recorded commands but keeps the physical order.
func (d *SimulatedDisplay) Reset() {
	d.commands = nil
}
