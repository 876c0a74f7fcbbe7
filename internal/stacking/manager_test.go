package stacking

import (
	"errors"
	"slices"
	"testing"
)

type fixture struct {
	m       *Manager
	clients *Clients
	panels  *Panels
	display *SimulatedDisplay
}

func newFixture() *fixture {
	clients := NewClients()
	panels := NewPanels()
	display := NewSimulatedDisplay()
	m := NewManager(clients, panels, display, nil)
	clients.Subscribe(m)
	panels.Subscribe(m)
	return &fixture{m: m, clients: clients, panels: panels, display: display}
}

// add tracks w and pushes it to the back of the stack.
func (f *fixture) add(t *testing.T, w WindowID, a Attributes) {
	t.Helper()
	if err := f.clients.Add(w, a); err != nil {
		t.Fatalf("Add(%s) error: %v", w, err)
	}
	f.m.PushBack(w)
}

func (f *fixture) refresh() []WindowID {
	f.m.Refresh()
	return f.display.Order()
}

func TestRefresh_TransientSitsAboveOwnerAndBelowOnTop(t *testing.T) {
	f := newFixture()
	f.add(t, 1, Attributes{})
	f.add(t, 2, Attributes{TransientFor: 1})
	f.add(t, 3, Attributes{OnTop: true})

	if got, want := f.refresh(), []WindowID{1, 2, 3}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestRefresh_PanelsInterleaveWithLayers(t *testing.T) {
	f := newFixture()
	const (
		desktop WindowID = 10
		normal  WindowID = 11
		bar     WindowID = 20
		raised  WindowID = 21
	)
	f.panels.Add(Panel{ID: bar, Visible: true})
	f.panels.Add(Panel{ID: raised, Visible: true, OnTop: true})
	f.add(t, normal, Attributes{})
	f.add(t, desktop, Attributes{Type: TypeDesktop})

	if got, want := f.refresh(), []WindowID{desktop, bar, normal, raised}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestRefresh_RaisedPanelAboveOnTopWindows(t *testing.T) {
	f := newFixture()
	f.panels.Add(Panel{ID: 20, Visible: true, OnTop: true})
	f.add(t, 1, Attributes{OnTop: true})
	f.add(t, 2, Attributes{Fullscreen: true})

	if got, want := f.refresh(), []WindowID{2, 1, 20}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestRefresh_InvisiblePanelsAreSkipped(t *testing.T) {
	f := newFixture()
	f.panels.Add(Panel{ID: 20, Visible: false})
	f.add(t, 1, Attributes{})
	f.m.Refresh()

	for _, c := range f.display.Commands() {
		if c.Window == 20 {
			t.Fatalf("invisible panel was stacked: %+v", c)
		}
	}
}

func TestRefresh_TransientChainIndependentOfInsertionOrder(t *testing.T) {
	orders := [][]WindowID{
		{1, 2, 3},
		{3, 2, 1},
		{2, 3, 1},
		{3, 1, 2},
	}
	attrs := map[WindowID]Attributes{
		1: {},
		2: {TransientFor: 1},
		3: {TransientFor: 2},
	}
	for _, order := range orders {
		f := newFixture()
		f.add(t, 50, Attributes{Below: true})
		for _, w := range order {
			f.add(t, w, attrs[w])
		}
		f.add(t, 60, Attributes{Above: true})

		if got, want := f.refresh(), []WindowID{50, 1, 2, 3, 60}; !slices.Equal(got, want) {
			t.Errorf("insertion %v: order = %v, want %v", order, got, want)
		}
	}
}

func TestRefresh_DialogFollowsBelowOwner(t *testing.T) {
	f := newFixture()
	f.add(t, 1, Attributes{})
	f.add(t, 2, Attributes{Below: true})
	f.add(t, 3, Attributes{TransientFor: 2})

	// The dialog stays with its owner even though the owner is below the
	// normal window.
	if got, want := f.refresh(), []WindowID{2, 3, 1}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestRefresh_SiblingTransientsKeepStackOrder(t *testing.T) {
	f := newFixture()
	f.add(t, 1, Attributes{})
	f.add(t, 3, Attributes{TransientFor: 1})
	f.add(t, 2, Attributes{TransientFor: 1})
	f.add(t, 4, Attributes{TransientFor: 3})
	f.add(t, 5, Attributes{})

	if got, want := f.refresh(), []WindowID{1, 3, 4, 2, 5}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestRefresh_TransientWithMissingOwnerUsesOwnLayer(t *testing.T) {
	f := newFixture()
	f.add(t, 1, Attributes{})
	f.add(t, 2, Attributes{TransientFor: 1})
	f.add(t, 3, Attributes{Below: true})
	f.m.Remove(1)
	f.clients.Delete(1)

	if got, want := f.refresh(), []WindowID{3, 2}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestRefresh_IntraLayerOrderFollowsStack(t *testing.T) {
	f := newFixture()
	f.add(t, 1, Attributes{})
	f.add(t, 2, Attributes{})
	f.add(t, 3, Attributes{})

	if got, want := f.refresh(), []WindowID{1, 2, 3}; !slices.Equal(got, want) {
		t.Fatalf("initial order = %v, want %v", got, want)
	}

	f.m.PushBack(1)
	f.m.PushFront(3)
	if got, want := f.refresh(), []WindowID{3, 2, 1}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestRefresh_NoopWhenClean(t *testing.T) {
	f := newFixture()
	f.add(t, 1, Attributes{})
	f.add(t, 2, Attributes{TransientFor: 1})

	f.m.Refresh()
	first := len(f.display.Commands())
	if first == 0 {
		t.Fatal("first Refresh issued no commands")
	}
	if f.m.Dirty() {
		t.Fatal("Dirty() = true after Refresh")
	}

	f.m.Refresh()
	if got := len(f.display.Commands()); got != first {
		t.Fatalf("second Refresh issued %d commands, want 0", got-first)
	}
}

func TestPushFrontThenRemove(t *testing.T) {
	f := newFixture()
	f.add(t, 1, Attributes{})
	f.add(t, 2, Attributes{})
	f.m.Refresh()
	before := f.m.Windows()

	f.m.PushFront(9)
	f.m.Remove(9)

	if got := f.m.Windows(); !slices.Equal(got, before) {
		t.Fatalf("Windows() = %v, want %v", got, before)
	}
	if !f.m.Dirty() {
		t.Fatal("Dirty() = false after mutation")
	}
}

func TestRemoveAbsentIsNotAnError(t *testing.T) {
	f := newFixture()
	f.add(t, 1, Attributes{})
	f.m.Refresh()

	var notified int
	f.m.AddListener(StackingListenerFunc(func([]WindowID) { notified++ }))
	f.m.Remove(42)

	if notified != 1 {
		t.Fatalf("listener notified %d times, want 1", notified)
	}
	if !f.m.Dirty() {
		t.Fatal("Dirty() = false after Remove")
	}
}

func TestListenersSeeEveryMutation(t *testing.T) {
	f := newFixture()
	var got [][]WindowID
	f.m.AddListener(StackingListenerFunc(func(w []WindowID) { got = append(got, w) }))

	f.m.PushBack(1)
	f.m.PushBack(2)
	f.m.PushFront(2)
	f.m.Remove(1)

	want := [][]WindowID{{1}, {1, 2}, {2, 1}, {2}}
	if len(got) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(got), len(want))
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("notification %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAttributeToggleRestacksIdentically(t *testing.T) {
	setup := func() *fixture {
		f := newFixture()
		f.add(t, 1, Attributes{})
		f.add(t, 2, Attributes{})
		f.add(t, 3, Attributes{TransientFor: 1})
		f.m.Refresh()
		f.display.Reset()
		return f
	}

	baseline := setup()
	baseline.m.MarkDirty()
	baseline.m.Refresh()

	toggled := setup()
	var changes []Change
	toggled.clients.Subscribe(ObserverFunc(func(_ WindowID, c Change) { changes = append(changes, c) }))
	if err := toggled.clients.SetAbove(2, true); err != nil {
		t.Fatal(err)
	}
	if err := toggled.clients.SetAbove(2, false); err != nil {
		t.Fatal(err)
	}
	if !toggled.m.Dirty() {
		t.Fatal("Dirty() = false after toggling above")
	}
	if want := []Change{ChangeAbove, ChangeAbove}; !slices.Equal(changes, want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	toggled.m.Refresh()
	if toggled.m.Dirty() {
		t.Fatal("Dirty() = true after Refresh")
	}

	if got, want := toggled.display.Commands(), baseline.display.Commands(); !slices.Equal(got, want) {
		t.Fatalf("commands = %v, want %v", got, want)
	}
}

func TestAttributeChangesMarkDirty(t *testing.T) {
	mutations := map[string]func(f *fixture) error{
		"ontop":      func(f *fixture) error { return f.clients.SetOnTop(1, true) },
		"fullscreen": func(f *fixture) error { return f.clients.SetFullscreen(1, true) },
		"below":      func(f *fixture) error { return f.clients.SetBelow(1, true) },
		"type":       func(f *fixture) error { return f.clients.SetType(1, TypeDesktop) },
		"transient":  func(f *fixture) error { return f.clients.SetTransientFor(1, 2) },
		"modal": func(f *fixture) error {
			_, err := f.clients.Mutate(1, func(a *Attributes) { a.Modal = true })
			return err
		},
		"panel ontop":   func(f *fixture) error { return f.panels.SetOnTop(20, true) },
		"panel visible": func(f *fixture) error { return f.panels.SetVisible(20, false) },
		"panel screen":  func(f *fixture) error { return f.panels.SetScreen(20, 1) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.panels.Add(Panel{ID: 20, Visible: true})
			f.add(t, 1, Attributes{})
			f.add(t, 2, Attributes{})
			f.m.Refresh()

			if err := mutate(f); err != nil {
				t.Fatalf("mutation error: %v", err)
			}
			if !f.m.Dirty() {
				t.Fatal("Dirty() = false after mutation")
			}
		})
	}
}

func TestRefresh_ToleratesRestackErrors(t *testing.T) {
	clients := NewClients()
	var calls []WindowID
	restacker := RestackerFunc(func(w, _ WindowID) error {
		calls = append(calls, w)
		if w == 2 {
			return errors.New("BadWindow")
		}
		return nil
	})
	m := NewManager(clients, nil, restacker, nil)
	for _, w := range []WindowID{1, 2, 3} {
		if err := clients.Add(w, Attributes{}); err != nil {
			t.Fatal(err)
		}
		m.PushBack(w)
	}

	m.Refresh()
	if want := []WindowID{1, 2, 3}; !slices.Equal(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	if m.Dirty() {
		t.Fatal("Dirty() = true after a partially failed refresh")
	}
}

func TestRefresh_FullscreenTransientUsesItsOwnLayer(t *testing.T) {
	f := newFixture()
	f.add(t, 1, Attributes{})
	f.add(t, 2, Attributes{TransientFor: 1, Fullscreen: true})
	f.add(t, 3, Attributes{Above: true})

	// The owner places the dialog first; the fullscreen pass places it
	// again, which is where it ends up.
	if got, want := f.refresh(), []WindowID{1, 3, 2}; !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestSnapshot(t *testing.T) {
	f := newFixture()
	f.panels.Add(Panel{ID: 20, Visible: true})
	f.add(t, 1, Attributes{Type: TypeDesktop})
	f.add(t, 2, Attributes{TransientFor: 1})
	f.add(t, 3, Attributes{OnTop: true})

	s := f.m.Snapshot()
	if !s.Dirty {
		t.Fatal("snapshot should be dirty before refresh")
	}
	want := []Entry{
		{ID: 1, Layer: LayerDesktop},
		{ID: 2, Layer: LayerIgnore, TransientFor: 1},
		{ID: 3, Layer: LayerOnTop},
	}
	if !slices.Equal(s.Stack, want) {
		t.Fatalf("Stack = %+v, want %+v", s.Stack, want)
	}
	if len(s.Panels) != 1 || s.Panels[0].ID != 20 {
		t.Fatalf("Panels = %+v", s.Panels)
	}

	f.m.Refresh()
	s = f.m.Snapshot()
	if s.Refreshes != 1 || s.LastCommands != 4 {
		t.Fatalf("Refreshes = %d, LastCommands = %d, want 1 and 4", s.Refreshes, s.LastCommands)
	}
}
