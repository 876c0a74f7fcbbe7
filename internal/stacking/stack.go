package stacking

import "slices"

// Stack is the ordered list of client windows, bottom first. It is the
// source of intra-layer ordering and holds each window at most once.
type Stack struct {
	windows []WindowID
}

// Remove drops w from the stack. It reports whether w was present.
func (s *Stack) Remove(w WindowID) bool {
	i := slices.Index(s.windows, w)
	if i < 0 {
		return false
	}
	s.windows = slices.Delete(s.windows, i, i+1)
	return true
}

// PushFront moves w to the front of the stack, making it the first
// candidate of its layer (the bottom of that layer).
func (s *Stack) PushFront(w WindowID) {
	s.Remove(w)
	s.windows = slices.Insert(s.windows, 0, w)
}

// PushBack moves w to the end of the stack, making it the last candidate
// of its layer (the top of that layer).
func (s *Stack) PushBack(w WindowID) {
	s.Remove(w)
	s.windows = append(s.windows, w)
}

// Contains reports whether w is on the stack.
func (s *Stack) Contains(w WindowID) bool {
	return slices.Contains(s.windows, w)
}

// Len returns the number of stacked windows.
func (s *Stack) Len() int {
	return len(s.windows)
}

// Windows returns a copy of the stack, bottom first.
func (s *Stack) Windows() []WindowID {
	return slices.Clone(s.windows)
}
