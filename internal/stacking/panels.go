package stacking

import (
	"fmt"
	"slices"
)

// PanelSource gives read access to the ordered panel collection.
type PanelSource interface {
	Panels() []Panel
}

// Panels is the ordered collection of panel windows.
type Panels struct {
	list      []Panel
	observers observers
}

var _ PanelSource = (*Panels)(nil)

func NewPanels() *Panels {
	return &Panels{}
}

// Subscribe registers an observer for panel changes.
func (p *Panels) Subscribe(o Observer) {
	p.observers = append(p.observers, o)
}

// Panels returns a copy of the collection in order.
func (p *Panels) Panels() []Panel {
	return slices.Clone(p.list)
}

// Len returns the number of panels, visible or not.
func (p *Panels) Len() int {
	return len(p.list)
}

// Get returns the panel with the given ID.
func (p *Panels) Get(id WindowID) (Panel, bool) {
	i := p.index(id)
	if i < 0 {
		return Panel{}, false
	}
	return p.list[i], true
}

// Add appends a panel. A panel that is already present is updated in
// place and keeps its position.
func (p *Panels) Add(panel Panel) {
	if i := p.index(panel.ID); i >= 0 {
		p.set(i, panel)
		return
	}
	p.list = append(p.list, panel)
	if panel.Visible {
		p.observers.notify(panel.ID, ChangePanelVisible)
	}
}

// Remove drops a panel from the collection.
func (p *Panels) Remove(id WindowID) bool {
	i := p.index(id)
	if i < 0 {
		return false
	}
	wasVisible := p.list[i].Visible
	p.list = slices.Delete(p.list, i, i+1)
	if wasVisible {
		p.observers.notify(id, ChangePanelVisible)
	}
	return true
}

func (p *Panels) SetOnTop(id WindowID, v bool) error {
	return p.mutate(id, func(panel *Panel) { panel.OnTop = v })
}

func (p *Panels) SetVisible(id WindowID, v bool) error {
	return p.mutate(id, func(panel *Panel) { panel.Visible = v })
}

func (p *Panels) SetScreen(id WindowID, screen int) error {
	return p.mutate(id, func(panel *Panel) { panel.Screen = screen })
}

func (p *Panels) mutate(id WindowID, fn func(*Panel)) error {
	i := p.index(id)
	if i < 0 {
		return fmt.Errorf("panel %s: %w", id, ErrUnknownWindow)
	}
	panel := p.list[i]
	fn(&panel)
	p.set(i, panel)
	return nil
}

func (p *Panels) set(i int, panel Panel) {
	old := p.list[i]
	p.list[i] = panel
	if old.OnTop != panel.OnTop {
		p.observers.notify(panel.ID, ChangePanelOnTop)
	}
	if old.Visible != panel.Visible {
		p.observers.notify(panel.ID, ChangePanelVisible)
	}
	if old.Screen != panel.Screen {
		p.observers.notify(panel.ID, ChangePanelScreen)
	}
}

func (p *Panels) index(id WindowID) int {
	return slices.IndexFunc(p.list, func(panel Panel) bool { return panel.ID == id })
}
