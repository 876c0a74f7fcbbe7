package stacking

// restackPass holds the per-refresh view of the stack: windows bucketed by
// layer and transient children indexed by owner, both in stack order.
type restackPass struct {
	m        *Manager
	layers   [layerCount][]WindowID
	children map[WindowID][]WindowID
	commands int
}

func (m *Manager) newPass() *restackPass {
	p := &restackPass{
		m:        m,
		children: make(map[WindowID][]WindowID),
	}
	for _, w := range m.stack.windows {
		a := m.resolve(w)
		if a.TransientFor != None {
			p.children[a.TransientFor] = append(p.children[a.TransientFor], w)
		}
		l := Classify(a)
		p.layers[l] = append(p.layers[l], w)
	}
	return p
}

// placeAbove stacks w directly above previous, then stacks the transient
// subtree of w above it depth first. It returns the topmost window placed.
//
// Cyclic transient relationships never reach here: Clients rejects them
// and owners outside the stack are dropped by resolve. A ClientSource that
// reports a cycle anyway makes this recurse without bound.
func (p *restackPass) placeAbove(w, previous WindowID) WindowID {
	p.place(w, previous)
	previous = w
	for _, child := range p.children[w] {
		previous = p.placeAbove(child, previous)
	}
	return previous
}

// place issues a single ordering command. Failures are tolerated; the next
// dirty cycle corrects whatever was left behind.
func (p *restackPass) place(w, previous WindowID) {
	p.commands++
	if err := p.m.restacker.StackAbove(w, previous); err != nil {
		p.m.logger.Debug("restack command failed", "window", w, "sibling", previous, "error", err)
	}
}

// stackLayers places every window of layers [from, to) in stack order.
func (p *restackPass) stackLayers(from, to Layer, previous WindowID) WindowID {
	for l := from; l < to; l++ {
		for _, w := range p.layers[l] {
			previous = p.placeAbove(w, previous)
		}
	}
	return previous
}

// stackPanels places visible panels whose OnTop flag equals onTop.
func (p *restackPass) stackPanels(panels []Panel, onTop bool, previous WindowID) WindowID {
	for _, panel := range panels {
		if !panel.Visible || panel.OnTop != onTop {
			continue
		}
		p.place(panel.ID, previous)
		previous = panel.ID
	}
	return previous
}
