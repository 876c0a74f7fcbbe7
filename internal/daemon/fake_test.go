package daemon

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/wmstack/internal/platform"
	"github.com/1broseidon/wmstack/internal/stacking"
)

// fakeBackend is a window system held in memory. Restack commands are
// replayed into a simulated display.
type fakeBackend struct {
	*stacking.SimulatedDisplay

	mu        sync.Mutex
	mapped    []stacking.WindowID
	props     map[stacking.WindowID]platform.Properties
	screens   map[stacking.WindowID]int
	published [][]stacking.WindowID
	gone      map[stacking.WindowID]bool
}

var _ platform.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		SimulatedDisplay: stacking.NewSimulatedDisplay(),
		props:            map[stacking.WindowID]platform.Properties{},
		screens:          map[stacking.WindowID]int{},
		gone:             map[stacking.WindowID]bool{},
	}
}

func (b *fakeBackend) add(w stacking.WindowID, p platform.Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mapped = append(b.mapped, w)
	b.props[w] = p
}

func (b *fakeBackend) setProps(w stacking.WindowID, p platform.Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.props[w] = p
}

func (b *fakeBackend) destroy(w stacking.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mapped = slices.DeleteFunc(b.mapped, func(x stacking.WindowID) bool { return x == w })
	b.gone[w] = true
}

func (b *fakeBackend) TopLevelWindows() ([]stacking.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.mapped), nil
}

func (b *fakeBackend) WindowExists(w stacking.WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.props[w]
	return ok && !b.gone[w]
}

func (b *fakeBackend) Properties(w stacking.WindowID) platform.Properties {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.props[w]
}

func (b *fakeBackend) SetStates(w stacking.WindowID, states []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.props[w]
	if !ok {
		return errors.New("no such window")
	}
	p.States = slices.Clone(states)
	b.props[w] = p
	return nil
}

func (b *fakeBackend) Info(w stacking.WindowID) platform.WindowInfo {
	return platform.WindowInfo{Class: "Fake", Title: w.String()}
}

func (b *fakeBackend) ScreenOf(w stacking.WindowID) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.screens[w], nil
}

func (b *fakeBackend) PublishStacking(bottomToTop []stacking.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, slices.Clone(bottomToTop))
	return nil
}

func (b *fakeBackend) publishedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.published)
}

func (b *fakeBackend) lastPublished() []stacking.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.published) == 0 {
		return nil
	}
	return b.published[len(b.published)-1]
}

// fakeEvents drives the session loop the way xevent.MainPing does.
type fakeEvents struct {
	handlers            platform.Handlers
	watched             map[stacking.WindowID]int // attached property callbacks
	before, after, quit chan struct{}
	quitting            atomic.Bool
	quitOnce            sync.Once
}

var _ platform.EventSource = (*fakeEvents)(nil)

func newFakeEvents() *fakeEvents {
	return &fakeEvents{
		watched: map[stacking.WindowID]int{},
		before:  make(chan struct{}),
		after:   make(chan struct{}),
		quit:    make(chan struct{}),
	}
}

func (e *fakeEvents) Watch(h platform.Handlers) error {
	e.handlers = h
	return nil
}

func (e *fakeEvents) WatchWindow(w stacking.WindowID) error {
	e.watched[w]++
	return nil
}

// UnwatchWindow detaches every callback of w, as xevent.Detach does.
func (e *fakeEvents) UnwatchWindow(w stacking.WindowID) {
	delete(e.watched, w)
}

func (e *fakeEvents) MainPing() (before, after, quit chan struct{}) {
	return e.before, e.after, e.quit
}

func (e *fakeEvents) QueueEmpty() bool { return true }

// Quit only raises the flag. Like xevent, the loop reports on quit when it
// next looks for an event.
func (e *fakeEvents) Quit() { e.quitting.Store(true) }

// dispatch delivers one event callback between the before and after pings.
// Once Quit was called it closes quit instead and reports false.
func (e *fakeEvents) dispatch(fn func(h platform.Handlers)) bool {
	if e.quitting.Load() {
		e.quitOnce.Do(func() { close(e.quit) })
		return false
	}
	e.before <- struct{}{}
	fn(e.handlers)
	e.after <- struct{}{}
	return true
}
