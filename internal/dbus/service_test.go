package dbus

import (
	"errors"
	"slices"
	"testing"

	"github.com/1broseidon/wmstack/internal/stacking"
)

type fakeController struct {
	raised, lowered []uint32
	err             error
}

func (f *fakeController) Raise(window uint32) error {
	f.raised = append(f.raised, window)
	return f.err
}

func (f *fakeController) Lower(window uint32) error {
	f.lowered = append(f.lowered, window)
	return f.err
}

func TestGetStackReflectsLastChange(t *testing.T) {
	s := NewStackingService(Options{BusName: "io.github.wmstack", ObjectPath: "/io/github/wmstack"}, &fakeController{}, nil)

	got, derr := s.GetStack()
	if derr != nil {
		t.Fatalf("GetStack() error: %v", derr)
	}
	if len(got) != 0 || got == nil {
		t.Fatalf("GetStack() = %v, want empty non-nil", got)
	}

	s.StackingChanged([]stacking.WindowID{3, 1, 2})
	got, _ = s.GetStack()
	if !slices.Equal(got, []uint32{3, 1, 2}) {
		t.Fatalf("GetStack() = %v, want [3 1 2]", got)
	}

	got[0] = 99
	again, _ := s.GetStack()
	if again[0] != 3 {
		t.Fatal("GetStack() returned internal slice")
	}
}

func TestRaiseLowerForwardToController(t *testing.T) {
	c := &fakeController{}
	s := NewStackingService(Options{}, c, nil)

	if derr := s.Raise(7); derr != nil {
		t.Fatalf("Raise() error: %v", derr)
	}
	if derr := s.Lower(8); derr != nil {
		t.Fatalf("Lower() error: %v", derr)
	}
	if !slices.Equal(c.raised, []uint32{7}) || !slices.Equal(c.lowered, []uint32{8}) {
		t.Fatalf("raised=%v lowered=%v", c.raised, c.lowered)
	}

	c.err = errors.New("unknown window")
	if derr := s.Raise(9); derr == nil {
		t.Fatal("expected D-Bus error from failing controller")
	}
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	s := NewStackingService(Options{}, &fakeController{}, nil)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}
}

func TestIntrospectionDescribesInterface(t *testing.T) {
	var names []string
	for _, m := range stackingMethods() {
		names = append(names, m.Name)
	}
	if !slices.Equal(names, []string{"GetStack", "Raise", "Lower"}) {
		t.Fatalf("methods = %v", names)
	}
	if sig := stackingSignals(); len(sig) != 1 || sig[0].Args[0].Type != "au" {
		t.Fatalf("signals = %+v", sig)
	}
}
