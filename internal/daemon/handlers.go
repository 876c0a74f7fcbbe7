package daemon

import (
	"errors"

	"github.com/1broseidon/wmstack/internal/platform"
	"github.com/1broseidon/wmstack/internal/stacking"
)

// Property names whose changes are re-read.
const (
	propState        = "_NET_WM_STATE"
	propWindowType   = "_NET_WM_WINDOW_TYPE"
	propTransientFor = "WM_TRANSIENT_FOR"
)

// HandleMap starts tracking a newly mapped window. Panels join the panel
// list; everything else is pushed on top of its layer.
func (s *Session) HandleMap(w stacking.WindowID) {
	if _, ok := s.panels.Get(w); ok {
		if err := s.panels.SetVisible(w, true); err == nil {
			s.syncPanel(w)
		}
		return
	}
	if s.manager.Contains(w) {
		return
	}

	props := s.backend.Properties(w)
	if s.mapping.IsPanel(props) {
		screen, err := s.backend.ScreenOf(w)
		if err != nil {
			s.logger.Debug("failed to resolve panel screen", "window", w, "error", err)
		}
		s.panels.Add(stacking.Panel{
			ID:      w,
			OnTop:   s.mapping.PanelOnTop(props),
			Visible: platform.PanelVisible(props),
			Screen:  screen,
		})
		s.watch(w)
		s.logger.Debug("panel tracked", "window", w, "screen", screen)
		return
	}

	attrs := s.mapping.ClientAttributes(props)
	if err := s.clients.Add(w, attrs); err != nil {
		s.logger.Warn("ignoring transient hint", "window", w, "transient_for", attrs.TransientFor, "error", err)
		attrs.TransientFor = stacking.None
		if err := s.clients.Add(w, attrs); err != nil {
			s.logger.Warn("failed to track window", "window", w, "error", err)
			return
		}
	}
	s.manager.PushBack(w)
	s.watch(w)
	s.logger.Debug("client tracked", "window", w, "layer", stacking.Classify(attrs), "transient_for", attrs.TransientFor)
}

// HandleUnmap hides panels and drops clients. A panel keeps its property
// watch; a client is watched again when it is next mapped.
func (s *Session) HandleUnmap(w stacking.WindowID) {
	if _, ok := s.panels.Get(w); ok {
		s.panels.SetVisible(w, false)
		return
	}
	if s.manager.Contains(w) {
		s.untrack(w)
	}
}

// HandleDestroy forgets w entirely.
func (s *Session) HandleDestroy(w stacking.WindowID) {
	if s.panels.Remove(w) {
		s.events.UnwatchWindow(w)
		s.logger.Debug("panel removed", "window", w)
		return
	}
	if s.manager.Contains(w) {
		s.untrack(w)
	}
}

// HandleConfigure tracks panels moving between screens.
func (s *Session) HandleConfigure(w stacking.WindowID) {
	if _, ok := s.panels.Get(w); !ok {
		return
	}
	screen, err := s.backend.ScreenOf(w)
	if err != nil {
		return
	}
	s.panels.SetScreen(w, screen)
}

// HandleProperty re-reads w when a stacking-relevant property changes.
func (s *Session) HandleProperty(w stacking.WindowID, name string) {
	switch name {
	case propState, propWindowType, propTransientFor:
	default:
		return
	}
	if _, ok := s.panels.Get(w); ok {
		s.syncPanel(w)
		return
	}
	if s.manager.Contains(w) {
		s.syncClient(w)
	}
}

// HandleStateRequest applies a _NET_WM_STATE client message and writes the
// resulting state list back to the window.
func (s *Session) HandleStateRequest(w stacking.WindowID, action uint32, states []string) {
	_, isPanel := s.panels.Get(w)
	if !isPanel && !s.manager.Contains(w) {
		return
	}

	current := s.backend.Properties(w).States
	next := platform.ApplyStateRequest(current, action, states)
	if err := s.backend.SetStates(w, next); err != nil {
		s.logger.Warn("failed to write window state", "window", w, "error", err)
		return
	}
	s.logger.Debug("state request applied", "window", w, "action", action, "states", states)

	if isPanel {
		s.syncPanel(w)
	} else {
		s.syncClient(w)
	}
}

func (s *Session) syncClient(w stacking.WindowID) {
	attrs := s.mapping.ClientAttributes(s.backend.Properties(w))
	_, err := s.clients.Update(w, attrs)
	if errors.Is(err, stacking.ErrTransientCycle) {
		s.logger.Warn("ignoring transient hint", "window", w, "transient_for", attrs.TransientFor, "error", err)
		attrs.TransientFor = stacking.None
		_, err = s.clients.Update(w, attrs)
	}
	if err != nil {
		s.logger.Debug("failed to update window", "window", w, "error", err)
	}
}

func (s *Session) syncPanel(w stacking.WindowID) {
	props := s.backend.Properties(w)
	s.panels.SetOnTop(w, s.mapping.PanelOnTop(props))
	s.panels.SetVisible(w, platform.PanelVisible(props))
}

func (s *Session) untrack(w stacking.WindowID) {
	s.events.UnwatchWindow(w)
	s.manager.Remove(w)
	s.clients.Delete(w)
	s.logger.Debug("client removed", "window", w)
}

func (s *Session) watch(w stacking.WindowID) {
	if err := s.events.WatchWindow(w); err != nil {
		s.logger.Debug("failed to watch window", "window", w, "error", err)
	}
}
