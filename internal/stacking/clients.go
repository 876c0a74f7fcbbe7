package stacking

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrTransientCycle is returned when a transient assignment would make
	// a window (indirectly) transient for itself.
	ErrTransientCycle = errors.New("transient_for would create a cycle")
	// ErrUnknownWindow is returned for operations on untracked windows.
	ErrUnknownWindow = errors.New("unknown window")
)

// ClientSource gives read access to client attributes.
type ClientSource interface {
	Attributes(w WindowID) (Attributes, bool)
}

// Clients is the attribute table of managed client windows. Every
// mutation publishes one Change per differing field to its observers.
type Clients struct {
	attrs     map[WindowID]Attributes
	observers observers
}

var _ ClientSource = (*Clients)(nil)

// NewClients returns an empty client table.
func NewClients() *Clients {
	return &Clients{attrs: make(map[WindowID]Attributes)}
}

// Subscribe registers an observer for attribute changes.
func (c *Clients) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Attributes returns the attributes of w.
func (c *Clients) Attributes(w WindowID) (Attributes, bool) {
	a, ok := c.attrs[w]
	return a, ok
}

// Len returns the number of tracked clients.
func (c *Clients) Len() int {
	return len(c.attrs)
}

// IDs returns the tracked window IDs in ascending order.
func (c *Clients) IDs() []WindowID {
	ids := make([]WindowID, 0, len(c.attrs))
	for id := range c.attrs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Add starts tracking w. Adding an already tracked window behaves like
// Update.
func (c *Clients) Add(w WindowID, a Attributes) error {
	if _, ok := c.attrs[w]; ok {
		_, err := c.Update(w, a)
		return err
	}
	if err := c.checkTransient(w, a.TransientFor); err != nil {
		return err
	}
	c.attrs[w] = a
	return nil
}

// Delete stops tracking w. Children that named w as their owner keep the
// stale key; it is ignored at restack time.
func (c *Clients) Delete(w WindowID) {
	delete(c.attrs, w)
}

// Update replaces the attributes of w and returns the changes it
// published.
func (c *Clients) Update(w WindowID, a Attributes) ([]Change, error) {
	old, ok := c.attrs[w]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", w, ErrUnknownWindow)
	}
	if a.TransientFor != old.TransientFor {
		if err := c.checkTransient(w, a.TransientFor); err != nil {
			return nil, err
		}
	}
	changes := old.Diff(a)
	c.attrs[w] = a
	c.observers.notify(w, changes...)
	return changes, nil
}

// Mutate applies fn to a copy of the attributes of w and stores the result
// through Update.
func (c *Clients) Mutate(w WindowID, fn func(*Attributes)) ([]Change, error) {
	a, ok := c.attrs[w]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", w, ErrUnknownWindow)
	}
	fn(&a)
	return c.Update(w, a)
}

func (c *Clients) SetOnTop(w WindowID, v bool) error {
	_, err := c.Mutate(w, func(a *Attributes) { a.OnTop = v })
	return err
}

func (c *Clients) SetFullscreen(w WindowID, v bool) error {
	_, err := c.Mutate(w, func(a *Attributes) { a.Fullscreen = v })
	return err
}

func (c *Clients) SetAbove(w WindowID, v bool) error {
	_, err := c.Mutate(w, func(a *Attributes) { a.Above = v })
	return err
}

func (c *Clients) SetBelow(w WindowID, v bool) error {
	_, err := c.Mutate(w, func(a *Attributes) { a.Below = v })
	return err
}

func (c *Clients) SetType(w WindowID, t WindowType) error {
	_, err := c.Mutate(w, func(a *Attributes) { a.Type = t })
	return err
}

// SetTransientFor records w as transient for owner. Pass None to clear.
func (c *Clients) SetTransientFor(w, owner WindowID) error {
	_, err := c.Mutate(w, func(a *Attributes) { a.TransientFor = owner })
	return err
}

// checkTransient walks the owner chain starting at owner and fails if it
// reaches w.
func (c *Clients) checkTransient(w, owner WindowID) error {
	seen := make(map[WindowID]bool)
	for cur := owner; cur != None; {
		if cur == w {
			return fmt.Errorf("%s transient for %s: %w", w, owner, ErrTransientCycle)
		}
		if seen[cur] {
			// Pre-existing loop not involving w.
			return nil
		}
		seen[cur] = true
		a, ok := c.attrs[cur]
		if !ok {
			return nil
		}
		cur = a.TransientFor
	}
	return nil
}
