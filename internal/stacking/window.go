package stacking

import (
	"fmt"
	"strconv"
	"strings"
)

// WindowID identifies a displayable surface. It carries no ownership.
type WindowID uint32

// None is the "no window" sentinel. As a sibling it means the bottom of
// the whole order.
const None WindowID = 0

func (w WindowID) String() string {
	return "0x" + strconv.FormatUint(uint64(w), 16)
}

// ParseWindowID accepts decimal, 0x-prefixed hex or 0-prefixed octal
// window identifiers. None is rejected.
func ParseWindowID(s string) (WindowID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return None, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	if v == 0 {
		return None, fmt.Errorf("invalid window id %q: must be non-zero", s)
	}
	return WindowID(v), nil
}

// WindowType is the functional type a client advertises.
type WindowType int

const (
	TypeNormal WindowType = iota
	TypeDesktop
	TypeDock
	TypeDialog
	TypeUtility
	TypeSplash
	TypeToolbar
	TypeMenu
	TypeNotification
)

var windowTypeNames = map[WindowType]string{
	TypeNormal:       "normal",
	TypeDesktop:      "desktop",
	TypeDock:         "dock",
	TypeDialog:       "dialog",
	TypeUtility:      "utility",
	TypeSplash:       "splash",
	TypeToolbar:      "toolbar",
	TypeMenu:         "menu",
	TypeNotification: "notification",
}

func (t WindowType) String() string {
	if name, ok := windowTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseWindowType converts a lowercase type name ("desktop", "dialog", ...)
// into a WindowType.
func ParseWindowType(s string) (WindowType, bool) {
	for t, name := range windowTypeNames {
		if name == s {
			return t, true
		}
	}
	return TypeNormal, false
}

// Attributes are the ordering-relevant properties of a client window.
type Attributes struct {
	OnTop      bool
	Fullscreen bool
	Above      bool
	Below      bool

	// TransientFor names the owner of a dialog-like window. It is a lookup
	// key resolved against the live stack at restack time.
	TransientFor WindowID
	Type         WindowType

	// Tracked only because changing them invalidates the stack; they do
	// not influence classification.
	MaximizedVertical   bool
	MaximizedHorizontal bool
	Modal               bool
}

// Diff reports the change kinds that differ between a and b.
func (a Attributes) Diff(b Attributes) []Change {
	var changes []Change
	if a.OnTop != b.OnTop {
		changes = append(changes, ChangeOnTop)
	}
	if a.Fullscreen != b.Fullscreen {
		changes = append(changes, ChangeFullscreen)
	}
	if a.Above != b.Above {
		changes = append(changes, ChangeAbove)
	}
	if a.Below != b.Below {
		changes = append(changes, ChangeBelow)
	}
	if a.TransientFor != b.TransientFor {
		changes = append(changes, ChangeTransientFor)
	}
	if a.Type != b.Type {
		changes = append(changes, ChangeType)
	}
	if a.MaximizedVertical != b.MaximizedVertical {
		changes = append(changes, ChangeMaximizedVertical)
	}
	if a.MaximizedHorizontal != b.MaximizedHorizontal {
		changes = append(changes, ChangeMaximizedHorizontal)
	}
	if a.Modal != b.Modal {
		changes = append(changes, ChangeModal)
	}
	return changes
}

// Panel is an auxiliary always-present surface such as a status bar.
// Panels are ordered separately from the client stack.
type Panel struct {
	ID      WindowID
	OnTop   bool
	Visible bool
	Screen  int
}
