package stacking

import "testing"

func TestParseWindowID(t *testing.T) {
	tests := []struct {
		in      string
		want    WindowID
		wantErr bool
	}{
		{"0x2a00007", 0x2a00007, false},
		{"42", 42, false},
		{" 0X10 ", 0x10, false},
		{"0", None, true},
		{"window", None, true},
		{"0x1ffffffff", None, true},
	}

	for _, tt := range tests {
		got, err := ParseWindowID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseWindowID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseWindowID(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestWindowIDString(t *testing.T) {
	if got := WindowID(0x2a).String(); got != "0x2a" {
		t.Fatalf("String() = %q, want 0x2a", got)
	}
}

func TestAttributesDiff(t *testing.T) {
	a := Attributes{Above: true}
	b := Attributes{Fullscreen: true, TransientFor: 3, Modal: true}

	got := a.Diff(b)
	want := []Change{ChangeFullscreen, ChangeAbove, ChangeTransientFor, ChangeModal}
	if len(got) != len(want) {
		t.Fatalf("Diff() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Diff() = %v, want %v", got, want)
		}
	}
	if len(a.Diff(a)) != 0 {
		t.Fatal("Diff of identical attributes should be empty")
	}
}
