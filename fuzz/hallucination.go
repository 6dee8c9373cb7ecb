package fuzz

import "sokofuzz/sokoban"

// Hallucinated pairs an Input with the post-state reached by replaying it.
// It is the in-memory-only form mutators operate on; it is built at stage
// entry and collapsed back to a plain Input (its Moves field) when the
// stage ends.
type Hallucinated struct {
	Input Input
	State sokoban.State
}

// LastHallucination is the single-writer, single-reader baton that carries
// the post-state a mutator just computed into the next executor run, so the
// executor doesn't have to re-replay the whole move list. It must be empty
// at stage boundaries; Driver enforces that by clearing it once per
// fuzz_one iteration.
type LastHallucination struct {
	state *sokoban.State
}

// Take removes and returns the held state, if any. Taking it empties the
// slot: the baton only ever has one reader.
func (h *LastHallucination) Take() (sokoban.State, bool) {
	if h.state == nil {
		return sokoban.State{}, false
	}
	s := *h.state
	h.state = nil
	return s, true
}

// Replace stores state, overwriting whatever was there. The only writer is
// the driver, immediately after a mutator reports Mutated.
func (h *LastHallucination) Replace(state sokoban.State) {
	s := state
	h.state = &s
}

// Clear empties the slot without reading it, enforcing the stage-boundary
// invariant.
func (h *LastHallucination) Clear() {
	h.state = nil
}

// Empty reports whether the slot currently holds nothing.
func (h *LastHallucination) Empty() bool {
	return h.state == nil
}
