package fuzz

import (
	"sokofuzz/pathfind"
	"sokofuzz/sokoban"
)

// StateObserver holds the most recent post-state produced by the executor.
// It is cleared before every execution and read by feedbacks and the
// scheduler afterward; since the core is single-threaded, there is never
// concurrent access to it.
type StateObserver struct {
	name      string
	lastState *sokoban.State
}

// NewStateObserver names the observer (mirrors the original's
// obs_name/name pairing used to look an observer up by name; kept here for
// parity even though this implementation only ever has one).
func NewStateObserver(name string) *StateObserver {
	return &StateObserver{name: name}
}

// Name returns the observer's name.
func (o *StateObserver) Name() string {
	return o.name
}

// Clear empties last_state. The executor calls this before every run.
func (o *StateObserver) Clear() {
	o.lastState = nil
}

// SetLastState records state as the most recent post-state.
func (o *StateObserver) SetLastState(state sokoban.State) {
	s := state
	o.lastState = &s
}

// LastState returns the most recent post-state, if any has been recorded
// since the last Clear.
func (o *StateObserver) LastState() (sokoban.State, bool) {
	if o.lastState == nil {
		return sokoban.State{}, false
	}
	return *o.lastState, true
}

// Hash returns hash_puzzle(last_state, includePlayer), or ok=false if there
// is no last_state to hash.
func (o *StateObserver) Hash(includePlayer bool) (uint64, bool) {
	state, ok := o.LastState()
	if !ok {
		return 0, false
	}
	return pathfind.HashPuzzle(state, includePlayer), true
}
