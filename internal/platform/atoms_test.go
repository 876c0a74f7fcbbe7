package platform

import (
	"slices"
	"testing"

	"github.com/1broseidon/wmstack/internal/stacking"
)

func TestClientAttributes(t *testing.T) {
	m := DefaultAtomMapping()

	tests := []struct {
		name  string
		props Properties
		want  stacking.Attributes
	}{
		{
			name:  "empty",
			props: Properties{},
			want:  stacking.Attributes{},
		},
		{
			name:  "fullscreen and maximized",
			props: Properties{States: []string{StateFullscreen, StateMaximizedVert, StateMaximizedHorz}},
			want:  stacking.Attributes{Fullscreen: true, MaximizedVertical: true, MaximizedHorizontal: true},
		},
		{
			name:  "stays on top",
			props: Properties{States: []string{StateStaysOnTop, StateBelow}},
			want:  stacking.Attributes{OnTop: true, Below: true},
		},
		{
			name:  "modal dialog",
			props: Properties{States: []string{StateModal}, Types: []string{"_NET_WM_WINDOW_TYPE_DIALOG"}, TransientFor: 7},
			want:  stacking.Attributes{Modal: true, Type: stacking.TypeDialog, TransientFor: 7},
		},
		{
			name:  "first known type wins",
			props: Properties{Types: []string{"_KDE_NET_WM_WINDOW_TYPE_OVERRIDE", "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK"}},
			want:  stacking.Attributes{Type: stacking.TypeDesktop},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.ClientAttributes(tt.props); got != tt.want {
				t.Fatalf("ClientAttributes() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClientAttributes_CustomOnTopState(t *testing.T) {
	m := AtomMapping{OnTopStates: []string{"_MY_PINNED"}}
	got := m.ClientAttributes(Properties{States: []string{"_MY_PINNED", StateStaysOnTop}})
	if !got.OnTop {
		t.Fatal("expected custom state to set OnTop")
	}
}

func TestPanelDetection(t *testing.T) {
	m := DefaultAtomMapping()
	dock := Properties{Types: []string{TypeDock}, States: []string{StateAbove}}
	if !m.IsPanel(dock) {
		t.Fatal("dock should be a panel")
	}
	if !m.PanelOnTop(dock) {
		t.Fatal("dock with ABOVE should be raised")
	}
	if m.IsPanel(Properties{Types: []string{"_NET_WM_WINDOW_TYPE_NORMAL"}}) {
		t.Fatal("normal window should not be a panel")
	}
	if PanelVisible(Properties{States: []string{StateHidden}}) {
		t.Fatal("hidden panel should not be visible")
	}
}

func TestApplyStateRequest(t *testing.T) {
	tests := []struct {
		name      string
		states    []string
		action    uint32
		requested []string
		want      []string
	}{
		{"add new", []string{StateAbove}, ActionAdd, []string{StateFullscreen}, []string{StateAbove, StateFullscreen}},
		{"add existing", []string{StateAbove}, ActionAdd, []string{StateAbove}, []string{StateAbove}},
		{"remove", []string{StateAbove, StateBelow}, ActionRemove, []string{StateAbove}, []string{StateBelow}},
		{"toggle on", nil, ActionToggle, []string{StateBelow}, []string{StateBelow}},
		{"toggle off", []string{StateBelow}, ActionToggle, []string{StateBelow}, []string{}},
		{"unknown action", []string{StateBelow}, 9, []string{StateAbove}, []string{StateBelow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyStateRequest(tt.states, tt.action, tt.requested)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("ApplyStateRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyStateRequest_DoesNotMutateInput(t *testing.T) {
	states := []string{StateAbove, StateBelow}
	ApplyStateRequest(states, ActionRemove, []string{StateAbove})
	if !slices.Equal(states, []string{StateAbove, StateBelow}) {
		t.Fatalf("input mutated: %v", states)
	}
}

func TestParseTypeAtom(t *testing.T) {
	if got, ok := ParseTypeAtom("_NET_WM_WINDOW_TYPE_SPLASH"); !ok || got != stacking.TypeSplash {
		t.Fatalf("ParseTypeAtom() = %v, %v", got, ok)
	}
	if _, ok := ParseTypeAtom("WM_NAME"); ok {
		t.Fatal("expected non-type atom to be rejected")
	}
}
