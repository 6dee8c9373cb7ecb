package fuzz

import "sokofuzz/sokoban"

// CrateDirection is one (crate position, push direction) pair MoveCrate may
// still try for a given testcase.
type CrateDirection struct {
	Crate sokoban.Position
	Dir   sokoban.Direction
}

// CrateTarget is one (crate position, target position) pair
// MoveCrateToTarget may still try for a given testcase.
type CrateTarget struct {
	Crate  sokoban.Position
	Target sokoban.Position
}

// MutationBudget is the per-testcase metadata that tracks which structured
// mutations have not yet been tried. Both sets are initialised once, at
// on_add time, from the testcase's post-state, and are non-increasing after
// that: mutators only ever remove entries.
type MutationBudget struct {
	MovesRemaining   map[CrateDirection]bool
	TargetsRemaining map[CrateTarget]bool
}

// NewMutationBudget builds the initial budget for a post-state: the
// Cartesian products of crates×directions and crates×targets.
func NewMutationBudget(post sokoban.State, crates []sokoban.Position) MutationBudget {
	moves := make(map[CrateDirection]bool, len(crates)*4)
	for _, c := range crates {
		for _, d := range sokoban.Directions {
			moves[CrateDirection{Crate: c, Dir: d}] = true
		}
	}
	targets := make(map[CrateTarget]bool, len(crates)*len(post.Targets()))
	for _, c := range crates {
		for _, t := range post.Targets() {
			targets[CrateTarget{Crate: c, Target: t}] = true
		}
	}
	return MutationBudget{MovesRemaining: moves, TargetsRemaining: targets}
}

// Remaining is the total count of untried mutation options.
func (b MutationBudget) Remaining() int {
	return len(b.MovesRemaining) + len(b.TargetsRemaining)
}

// Exhausted reports whether this testcase has no mutation options left and
// is therefore pruneable.
func (b MutationBudget) Exhausted() bool {
	return b.Remaining() == 0
}

// CorpusID identifies a testcase within a Corpus.
type CorpusID int

// Testcase is a corpus entry: an input plus its attached mutation budget.
type Testcase struct {
	Input  Input
	Budget MutationBudget
}
