package platform

import (
	"slices"
	"strings"

	"github.com/1broseidon/wmstack/internal/stacking"
)

// EWMH state names interpreted by the stacking session.
const (
	StateFullscreen    = "_NET_WM_STATE_FULLSCREEN"
	StateAbove         = "_NET_WM_STATE_ABOVE"
	StateBelow         = "_NET_WM_STATE_BELOW"
	StateStaysOnTop    = "_NET_WM_STATE_STAYS_ON_TOP"
	StateMaximizedVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	StateMaximizedHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
	StateModal         = "_NET_WM_STATE_MODAL"
	StateHidden        = "_NET_WM_STATE_HIDDEN"

	windowTypePrefix = "_NET_WM_WINDOW_TYPE_"
	TypeDock         = windowTypePrefix + "DOCK"
)

// StateAction mirrors the _NET_WM_STATE client message action field.
const (
	ActionRemove uint32 = 0
	ActionAdd    uint32 = 1
	ActionToggle uint32 = 2
)

// AtomMapping decides which atoms mean "on top" and which windows are
// panels rather than clients.
type AtomMapping struct {
	OnTopStates       []string
	PanelTypes        []string
	RaisedPanelStates []string
}

// DefaultAtomMapping returns the mapping used when configuration is silent.
func DefaultAtomMapping() AtomMapping {
	return AtomMapping{
		OnTopStates:       []string{StateStaysOnTop},
		PanelTypes:        []string{TypeDock},
		RaisedPanelStates: []string{StateAbove},
	}
}

// ClientAttributes translates raw window properties into stacking
// attributes. The first recognised window type wins.
func (m AtomMapping) ClientAttributes(props Properties) stacking.Attributes {
	a := stacking.Attributes{TransientFor: props.TransientFor}
	for _, state := range props.States {
		switch {
		case slices.Contains(m.OnTopStates, state):
			a.OnTop = true
		case state == StateFullscreen:
			a.Fullscreen = true
		case state == StateAbove:
			a.Above = true
		case state == StateBelow:
			a.Below = true
		case state == StateMaximizedVert:
			a.MaximizedVertical = true
		case state == StateMaximizedHorz:
			a.MaximizedHorizontal = true
		case state == StateModal:
			a.Modal = true
		}
	}
	for _, name := range props.Types {
		if t, ok := ParseTypeAtom(name); ok {
			a.Type = t
			break
		}
	}
	return a
}

// IsPanel reports whether props describe a panel.
func (m AtomMapping) IsPanel(props Properties) bool {
	for _, t := range props.Types {
		if slices.Contains(m.PanelTypes, t) {
			return true
		}
	}
	return false
}

// PanelOnTop reports whether a panel asks to sit above on-top clients.
func (m AtomMapping) PanelOnTop(props Properties) bool {
	for _, s := range props.States {
		if slices.Contains(m.RaisedPanelStates, s) {
			return true
		}
	}
	return false
}

// PanelVisible reports whether a panel should be stacked at all.
func PanelVisible(props Properties) bool {
	return !slices.Contains(props.States, StateHidden)
}

// ParseTypeAtom maps a _NET_WM_WINDOW_TYPE_* atom name onto a WindowType.
func ParseTypeAtom(name string) (stacking.WindowType, bool) {
	suffix, ok := strings.CutPrefix(name, windowTypePrefix)
	if !ok {
		return stacking.TypeNormal, false
	}
	return stacking.ParseWindowType(strings.ToLower(suffix))
}

// ApplyStateRequest applies a _NET_WM_STATE client message to the current
// state list and returns the new list. Unknown actions leave it unchanged.
func ApplyStateRequest(states []string, action uint32, requested []string) []string {
	out := slices.Clone(states)
	for _, state := range requested {
		present := slices.Contains(out, state)
		switch action {
		case ActionRemove:
			out = removeState(out, state)
		case ActionAdd:
			if !present {
				out = append(out, state)
			}
		case ActionToggle:
			if present {
				out = removeState(out, state)
			} else {
				out = append(out, state)
			}
		}
	}
	return out
}

func removeState(states []string, state string) []string {
	return slices.DeleteFunc(states, func(s string) bool { return s == state })
}
