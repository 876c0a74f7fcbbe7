// Package scenario replays a YAML description of windows, panels and
// stack operations through the stacking engine against a simulated
// display, so stacking rules can be checked without an X server.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/wmstack/internal/stacking"
)

// Scenario is the document read from a scenario file.
type Scenario struct {
	Windows    []WindowSpec `yaml:"windows"`
	Panels     []PanelSpec  `yaml:"panels"`
	Operations []Operation  `yaml:"operations"`
}

// WindowSpec declares a client window. Windows are pushed onto the stack
// in declaration order unless Unmapped is set.
type WindowSpec struct {
	Name         string `yaml:"name"`
	ID           string `yaml:"id"`
	Type         string `yaml:"type"`
	OnTop        bool   `yaml:"ontop"`
	Fullscreen   bool   `yaml:"fullscreen"`
	Above        bool   `yaml:"above"`
	Below        bool   `yaml:"below"`
	Modal        bool   `yaml:"modal"`
	TransientFor string `yaml:"transient_for"`
	Unmapped     bool   `yaml:"unmapped"`
}

// PanelSpec declares a panel. Panels are visible unless Visible is false.
type PanelSpec struct {
	Name    string `yaml:"name"`
	ID      string `yaml:"id"`
	OnTop   bool   `yaml:"ontop"`
	Visible *bool  `yaml:"visible"`
	Screen  int    `yaml:"screen"`
}

// Op names a scenario operation.
type Op string

const (
	OpRaise   Op = "raise"
	OpLower   Op = "lower"
	OpRemove  Op = "remove"
	OpMap     Op = "map"
	OpSet     Op = "set"
	OpShow    Op = "show"
	OpHide    Op = "hide"
	OpRefresh Op = "refresh"
)

// Operation is one step. Window refers to a window or panel by name or id.
type Operation struct {
	Op     Op      `yaml:"op"`
	Window string  `yaml:"window"`
	Set    *Change `yaml:"set"`
}

// Change is a partial attribute update applied by the set operation.
type Change struct {
	OnTop        *bool   `yaml:"ontop"`
	Fullscreen   *bool   `yaml:"fullscreen"`
	Above        *bool   `yaml:"above"`
	Below        *bool   `yaml:"below"`
	Modal        *bool   `yaml:"modal"`
	Type         *string `yaml:"type"`
	TransientFor *string `yaml:"transient_for"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario strictly; unknown keys are errors.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks names, ids, types and operations.
func (sc *Scenario) Validate() error {
	if len(sc.Windows) == 0 && len(sc.Panels) == 0 {
		return fmt.Errorf("scenario declares no windows or panels")
	}
	if _, err := sc.resolveIDs(); err != nil {
		return err
	}
	for i, w := range sc.Windows {
		if w.Type != "" {
			if _, ok := stacking.ParseWindowType(w.Type); !ok {
				return fmt.Errorf("windows[%d]: unknown type %q", i, w.Type)
			}
		}
	}
	for i, op := range sc.Operations {
		switch op.Op {
		case OpRefresh:
			continue
		case OpRaise, OpLower, OpRemove, OpMap, OpShow, OpHide:
		case OpSet:
			if op.Set == nil {
				return fmt.Errorf("operations[%d]: set requires a set block", i)
			}
			if op.Set.Type != nil {
				if _, ok := stacking.ParseWindowType(*op.Set.Type); !ok {
					return fmt.Errorf("operations[%d]: unknown type %q", i, *op.Set.Type)
				}
			}
		default:
			return fmt.Errorf("operations[%d]: unknown op %q", i, op.Op)
		}
		if strings.TrimSpace(op.Window) == "" {
			return fmt.Errorf("operations[%d]: %s requires a window", i, op.Op)
		}
	}
	return nil
}

// ids maps every name and id string to a window id.
type ids struct {
	byRef map[string]stacking.WindowID
	names map[stacking.WindowID]string

	// windows and panels hold the assigned ids in declaration order.
	windows []stacking.WindowID
	panels  []stacking.WindowID
}

func (x ids) lookup(ref string) (stacking.WindowID, error) {
	ref = strings.TrimSpace(ref)
	if w, ok := x.byRef[ref]; ok {
		return w, nil
	}
	if w, err := stacking.ParseWindowID(ref); err == nil {
		if _, ok := x.names[w]; ok {
			return w, nil
		}
	}
	return stacking.None, fmt.Errorf("unknown window %q", ref)
}

// resolveIDs assigns ids. Entries without one get sequential ids from
// 0x100 in declaration order, skipping explicit ids.
func (sc *Scenario) resolveIDs() (ids, error) {
	x := ids{
		byRef: map[string]stacking.WindowID{},
		names: map[stacking.WindowID]string{},
	}

	type entry struct{ name, id, where string }
	var entries []entry
	for i, w := range sc.Windows {
		entries = append(entries, entry{w.Name, w.ID, fmt.Sprintf("windows[%d]", i)})
	}
	for i, p := range sc.Panels {
		entries = append(entries, entry{p.Name, p.ID, fmt.Sprintf("panels[%d]", i)})
	}

	assigned := make([]stacking.WindowID, len(entries))
	for i, e := range entries {
		if e.id == "" {
			continue
		}
		w, err := stacking.ParseWindowID(e.id)
		if err != nil {
			return x, fmt.Errorf("%s: %w", e.where, err)
		}
		if _, dup := x.names[w]; dup {
			return x, fmt.Errorf("%s: duplicate id %s", e.where, w)
		}
		assigned[i] = w
		x.names[w] = e.name
	}

	next := stacking.WindowID(0x100)
	for i, e := range entries {
		if assigned[i] == stacking.None {
			for {
				if _, taken := x.names[next]; !taken {
					break
				}
				next++
			}
			assigned[i] = next
			x.names[next] = e.name
		}
		if e.name != "" {
			if _, dup := x.byRef[e.name]; dup {
				return x, fmt.Errorf("%s: duplicate name %q", e.where, e.name)
			}
			x.byRef[e.name] = assigned[i]
		}
	}
	x.windows = assigned[:len(sc.Windows)]
	x.panels = assigned[len(sc.Windows):]
	return x, nil
}
