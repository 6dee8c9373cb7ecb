// Package fuzz is the core: the mutation kernel, the weighted scheduler, and
// the hallucination channel that ties them to the executor. Everything here
// runs on a single goroutine per puzzle; see Driver for the loop that drives
// it, and main.go for how independent puzzles are fanned out across
// goroutines.
package fuzz

import "sokofuzz/sokoban"

// Input is a finite ordered sequence of player moves. Its canonical name is
// the directions encoded as ASCII U/D/L/R, the one artifact the spec
// requires to be byte-reproducible.
type Input struct {
	Moves []sokoban.Direction
}

// NewInput wraps a move slice. An empty Input is the seed for every puzzle's
// corpus.
func NewInput(moves []sokoban.Direction) Input {
	return Input{Moves: moves}
}

// Name renders the canonical U/D/L/R encoding.
func (i Input) Name() string {
	buf := make([]byte, len(i.Moves))
	for idx, d := range i.Moves {
		buf[idx] = d.Letter()
	}
	return string(buf)
}

// Clone returns an Input with its own backing slice, so a mutator appending
// to one copy never aliases another testcase's stored input.
func (i Input) Clone() Input {
	moves := make([]sokoban.Direction, len(i.Moves))
	copy(moves, i.Moves)
	return Input{Moves: moves}
}

// Equal compares two inputs by move sequence.
func (i Input) Equal(other Input) bool {
	if len(i.Moves) != len(other.Moves) {
		return false
	}
	for idx, d := range i.Moves {
		if other.Moves[idx] != d {
			return false
		}
	}
	return true
}

// replay folds moves over puzzle using the rules engine, stopping at the
// first illegal move.
func replay(puzzle sokoban.State, moves []sokoban.Direction) (sokoban.State, bool) {
	state := puzzle
	for _, d := range moves {
		next, err := state.MovePlayer(d)
		if err != nil {
			return sokoban.State{}, false
		}
		state = next
	}
	return state, true
}
