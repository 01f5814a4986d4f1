// Package keyboard turns asynchronous key-down/key-up notifications into
// keyboard state that a game loop can poll once per logical frame.
//
// Call AdvanceFrame exactly once at the end of every loop iteration. Skipping
// it does not fail loudly; WasJustPressed and WasJustReleased simply go stale.
package keyboard

// State tracks the keys held right now (the live set) and the baseline the
// edge queries compare against (the frame set).
//
// State is not safe for concurrent use. Input events and polling must happen
// on the loop goroutine; hosts reading on other goroutines go through a Queue.
type State struct {
	live  keySet
	frame keySet
}

// NewState creates an empty keyboard state.
func NewState() *State {
	return &State{
		live:  newKeySet(),
		frame: newKeySet(),
	}
}

// OnKeyDown records that key went down. Repeated downs for a held key leave
// the live set unchanged but still re-snapshot the frame set.
func (s *State) OnKeyDown(key string) {
	s.frame.copyFrom(&s.live)
	s.live.add(key)
}

// OnKeyUp records that key was released. Releases of keys that were never
// pressed are ignored.
func (s *State) OnKeyUp(key string) {
	s.frame.copyFrom(&s.live)
	s.live.remove(key)
}

// AdvanceFrame rolls the frame set forward to the live set.
func (s *State) AdvanceFrame() {
	s.frame.copyFrom(&s.live)
}

// IsPressed reports whether key is held right now.
func (s *State) IsPressed(key string) bool {
	return s.live.has(key)
}

// WasJustReleased reports whether key was held at the frame baseline and is
// no longer held.
func (s *State) WasJustReleased(key string) bool {
	return s.frame.has(key) && !s.live.has(key)
}

// WasJustPressed reports whether key is held now but was not at the frame
// baseline.
func (s *State) WasJustPressed(key string) bool {
	return !s.frame.has(key) && s.live.has(key)
}

// InputAxis returns -1 when only negativeKey is held, 1 when only positiveKey
// is held and 0 when both or neither are held.
func (s *State) InputAxis(negativeKey, positiveKey string) int {
	axis := 0
	if s.IsPressed(negativeKey) {
		axis--
	}
	if s.IsPressed(positiveKey) {
		axis++
	}
	return axis
}

// Held returns the held keys in the order they went down.
func (s *State) Held() []string {
	return s.live.keys()
}

// Len returns the number of held keys.
func (s *State) Len() int {
	return len(s.live.order)
}
