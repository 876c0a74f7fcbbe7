package stacking

// Change identifies an ordering-relevant property change. Every kind
// invalidates the current physical order.
type Change int

const (
	ChangeFullscreen Change = iota
	ChangeMaximizedVertical
	ChangeMaximizedHorizontal
	ChangeAbove
	ChangeBelow
	ChangeModal
	ChangeOnTop
	ChangeTransientFor
	ChangeType
	ChangePanelOnTop
	ChangePanelVisible
	ChangePanelScreen
)

var changeNames = map[Change]string{
	ChangeFullscreen:          "fullscreen",
	ChangeMaximizedVertical:   "maximized_vertical",
	ChangeMaximizedHorizontal: "maximized_horizontal",
	ChangeAbove:               "above",
	ChangeBelow:               "below",
	ChangeModal:               "modal",
	ChangeOnTop:               "ontop",
	ChangeTransientFor:        "transient_for",
	ChangeType:                "type",
	ChangePanelOnTop:          "panel_ontop",
	ChangePanelVisible:        "panel_visible",
	ChangePanelScreen:         "panel_screen",
}

func (c Change) String() string {
	if name, ok := changeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Observer receives typed change events from attribute mutation sites.
type Observer interface {
	Notify(w WindowID, c Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(w WindowID, c Change)

func (f ObserverFunc) Notify(w WindowID, c Change) { f(w, c) }

// observers is a small fan-out list embedded by the attribute stores.
type observers []Observer

func (o observers) notify(w WindowID, changes ...Change) {
	for _, c := range changes {
		for _, obs := range o {
			obs.Notify(w, c)
		}
	}
}
