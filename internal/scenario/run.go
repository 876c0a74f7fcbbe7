package scenario

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/wmstack/internal/stacking"
)

// Placement is one entry of the resulting physical order.
type Placement struct {
	ID    stacking.WindowID
	Name  string
	Panel bool
	Layer string
}

// Result is the outcome of a scenario run.
type Result struct {
	// Order is the physical order on the simulated display, bottom first.
	Order []Placement
	// Stack is the logical client stack, bottom first.
	Stack     []stacking.WindowID
	Commands  int
	Refreshes int
}

// Run replays sc and refreshes once at the end.
func Run(sc *Scenario, logger *slog.Logger) (*Result, error) {
	x, err := sc.resolveIDs()
	if err != nil {
		return nil, err
	}

	clients := stacking.NewClients()
	panels := stacking.NewPanels()
	display := stacking.NewSimulatedDisplay()
	m := stacking.NewManager(clients, panels, display, logger)
	clients.Subscribe(m)
	panels.Subscribe(m)

	isPanel := map[stacking.WindowID]bool{}
	for i, p := range sc.Panels {
		w := x.panels[i]
		visible := p.Visible == nil || *p.Visible
		panels.Add(stacking.Panel{ID: w, OnTop: p.OnTop, Visible: visible, Screen: p.Screen})
		isPanel[w] = true
	}

	// Attributes first so that transient owners declared later resolve.
	for i, ws := range sc.Windows {
		w := x.windows[i]
		a, err := attributes(ws, x)
		if err != nil {
			return nil, fmt.Errorf("windows[%d]: %w", i, err)
		}
		if err := clients.Add(w, a); err != nil {
			return nil, fmt.Errorf("windows[%d]: %w", i, err)
		}
	}
	for i, ws := range sc.Windows {
		if !ws.Unmapped {
			m.PushBack(x.windows[i])
		}
	}

	total := 0
	refresh := func() {
		before := m.Snapshot().Refreshes
		m.Refresh()
		if snap := m.Snapshot(); snap.Refreshes > before {
			total += snap.LastCommands
		}
	}
	refresh()

	for i, op := range sc.Operations {
		if op.Op == OpRefresh {
			m.MarkDirty()
			refresh()
			continue
		}
		w, err := x.lookup(op.Window)
		if err != nil {
			return nil, fmt.Errorf("operations[%d]: %w", i, err)
		}
		if err := apply(op, w, isPanel[w], m, clients, panels, x); err != nil {
			return nil, fmt.Errorf("operations[%d] %s %s: %w", i, op.Op, op.Window, err)
		}
	}
	refresh()

	snap := m.Snapshot()
	layers := map[stacking.WindowID]stacking.Layer{}
	for _, e := range snap.Stack {
		layers[e.ID] = e.Layer
	}

	res := &Result{
		Stack:     m.Windows(),
		Commands:  total,
		Refreshes: snap.Refreshes,
	}
	for _, w := range display.Order() {
		res.Order = append(res.Order, placement(w, x.names[w], isPanel[w], layers, panels))
	}
	return res, nil
}

// placement labels w with its layer. Windows that left the stack keep
// their last physical slot and are labelled "removed".
func placement(w stacking.WindowID, name string, panel bool, layers map[stacking.WindowID]stacking.Layer, panels *stacking.Panels) Placement {
	p := Placement{ID: w, Name: name, Panel: panel}
	if !panel {
		if l, ok := layers[w]; ok {
			p.Layer = l.String()
		} else {
			p.Layer = "removed"
		}
		return p
	}
	p.Layer = "panel"
	if info, ok := panels.Get(w); ok {
		switch {
		case !info.Visible:
			p.Layer = "hidden"
		case info.OnTop:
			p.Layer = "panel (ontop)"
		}
	}
	return p
}

func apply(op Operation, w stacking.WindowID, panel bool, m *stacking.Manager, clients *stacking.Clients, panels *stacking.Panels, x ids) error {
	switch op.Op {
	case OpShow, OpHide:
		if !panel {
			return fmt.Errorf("not a panel")
		}
		return panels.SetVisible(w, op.Op == OpShow)
	}
	if panel {
		return fmt.Errorf("not a client window")
	}

	switch op.Op {
	case OpRaise:
		m.PushBack(w)
	case OpLower:
		m.PushFront(w)
	case OpRemove:
		// Attributes are kept so a later map restores the window.
		m.Remove(w)
	case OpMap:
		if !m.Contains(w) {
			m.PushBack(w)
		}
	case OpSet:
		return set(clients, w, *op.Set, x)
	}
	return nil
}

func set(clients *stacking.Clients, w stacking.WindowID, c Change, x ids) error {
	var owner *stacking.WindowID
	if c.TransientFor != nil {
		o := stacking.None
		if *c.TransientFor != "" {
			var err error
			if o, err = x.lookup(*c.TransientFor); err != nil {
				return err
			}
		}
		owner = &o
	}

	_, err := clients.Mutate(w, func(a *stacking.Attributes) {
		assign(&a.OnTop, c.OnTop)
		assign(&a.Fullscreen, c.Fullscreen)
		assign(&a.Above, c.Above)
		assign(&a.Below, c.Below)
		assign(&a.Modal, c.Modal)
		if c.Type != nil {
			a.Type, _ = stacking.ParseWindowType(*c.Type)
		}
		if owner != nil {
			a.TransientFor = *owner
		}
	})
	return err
}

func assign(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func attributes(ws WindowSpec, x ids) (stacking.Attributes, error) {
	a := stacking.Attributes{
		OnTop:      ws.OnTop,
		Fullscreen: ws.Fullscreen,
		Above:      ws.Above,
		Below:      ws.Below,
		Modal:      ws.Modal,
	}
	if ws.Type != "" {
		a.Type, _ = stacking.ParseWindowType(ws.Type)
	}
	if ws.TransientFor != "" {
		owner, err := x.lookup(ws.TransientFor)
		if err != nil {
			return a, fmt.Errorf("transient_for: %w", err)
		}
		a.TransientFor = owner
	}
	return a, nil
}
