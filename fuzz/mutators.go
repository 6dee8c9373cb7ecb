package fuzz

import (
	"sort"

	"sokofuzz/pathfind"
	"sokofuzz/sokoban"
)

// MutationResult reports whether a mutator extended the move list.
type MutationResult int

const (
	Skipped MutationResult = iota
	Mutated
)

// Mutator is the uniform interface every mutation stage implements. A
// mutator may only append to h.Input.Moves (never reorder or truncate), and
// must keep h.State exactly equal to replaying the new move list.
type Mutator interface {
	Mutate(ctx *Context, tc *Testcase, h *Hallucinated) MutationResult
}

// sortedCrateDirections returns the keys of a MovesRemaining set in a fixed
// order, so that indexing into it by a random int is reproducible across
// runs with the same seed (Go's native map iteration order is not).
func sortedCrateDirections(set map[CrateDirection]bool) []CrateDirection {
	keys := make([]CrateDirection, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Crate != b.Crate {
			return positionLess(a.Crate, b.Crate)
		}
		return a.Dir < b.Dir
	})
	return keys
}

func sortedCrateTargets(set map[CrateTarget]bool) []CrateTarget {
	keys := make([]CrateTarget, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Crate != b.Crate {
			return positionLess(a.Crate, b.Crate)
		}
		return positionLess(a.Target, b.Target)
	})
	return keys
}

func positionLess(a, b sokoban.Position) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

func applyMoves(state sokoban.State, moves []sokoban.Direction) (sokoban.State, bool) {
	return replay(state, moves)
}

// MoveCrateMutator pops (crate, direction) pairs from the testcase's
// moves_remaining set, trying each until one succeeds: the destination
// square must be Floor and the player must be able to reach the push-point
// in the current hallucinated state.
type MoveCrateMutator struct{}

func (MoveCrateMutator) Mutate(ctx *Context, tc *Testcase, h *Hallucinated) MutationResult {
	if len(h.Input.Moves) >= ctx.MaxSize {
		tc.Budget.MovesRemaining = map[CrateDirection]bool{}
		return Skipped
	}

	for len(tc.Budget.MovesRemaining) > 0 {
		keys := sortedCrateDirections(tc.Budget.MovesRemaining)
		cd := keys[ctx.Rand.Intn(len(keys))]
		delete(tc.Budget.MovesRemaining, cd)

		dest := cd.Dir.From(cd.Crate)
		if !h.State.InBounds(dest) || h.State.At(dest) != sokoban.Floor {
			continue
		}
		pushPoint := cd.Dir.Opposite().From(cd.Crate)
		walk, ok := pathfind.WalkTo(h.State.Player(), pushPoint, h.State)
		if !ok {
			continue
		}
		if len(h.Input.Moves)+len(walk)+1 > ctx.MaxSize {
			continue
		}
		withWalk, ok := applyMoves(h.State, walk)
		if !ok {
			continue
		}
		pushed, err := withWalk.MovePlayer(cd.Dir)
		if err != nil {
			continue
		}

		h.Input.Moves = append(h.Input.Moves, walk...)
		h.Input.Moves = append(h.Input.Moves, cd.Dir)
		h.State = pushed
		return Mutated
	}
	return Skipped
}

// MoveCrateToTargetMutator pops (crate, target) pairs from the testcase's
// targets_remaining set, using push_to to compute the full player-move
// sequence for each candidate.
type MoveCrateToTargetMutator struct{}

func (MoveCrateToTargetMutator) Mutate(ctx *Context, tc *Testcase, h *Hallucinated) MutationResult {
	if len(h.Input.Moves) >= ctx.MaxSize {
		tc.Budget.TargetsRemaining = map[CrateTarget]bool{}
		return Skipped
	}

	for len(tc.Budget.TargetsRemaining) > 0 {
		keys := sortedCrateTargets(tc.Budget.TargetsRemaining)
		ct := keys[ctx.Rand.Intn(len(keys))]
		delete(tc.Budget.TargetsRemaining, ct)

		if h.State.At(ct.Crate) != sokoban.Crate {
			continue
		}
		walk, ok := pathfind.PushTo(ct.Crate, ct.Target, h.State)
		if !ok {
			continue
		}
		if len(h.Input.Moves)+len(walk) > ctx.MaxSize {
			continue
		}
		next, ok := applyMoves(h.State, walk)
		if !ok {
			continue
		}

		h.Input.Moves = append(h.Input.Moves, walk...)
		h.State = next
		return Mutated
	}
	return Skipped
}

// OneShotMutator is a greedy composite: it shuffles targets and crates with
// the context RNG and pairs them in shuffled order, pushing each crate
// toward its paired target in turn. It stops at the first failed push, at
// the length limit, or once the puzzle is solved, and never consults the
// mutation-budget metadata.
type OneShotMutator struct{}

func (OneShotMutator) Mutate(ctx *Context, _ *Testcase, h *Hallucinated) MutationResult {
	crates := pathfind.FindCrates(h.State)
	targets := append([]sokoban.Position(nil), h.State.Targets()...)

	ctx.Rand.Shuffle(len(crates), func(i, j int) { crates[i], crates[j] = crates[j], crates[i] })
	ctx.Rand.Shuffle(len(targets), func(i, j int) { targets[i], targets[j] = targets[j], targets[i] })

	pairs := len(crates)
	if len(targets) < pairs {
		pairs = len(targets)
	}

	mutated := false
	for i := 0; i < pairs; i++ {
		if h.State.InSolutionState() {
			break
		}
		walk, ok := pathfind.PushTo(crates[i], targets[i], h.State)
		if !ok {
			break
		}
		if len(h.Input.Moves)+len(walk) > ctx.MaxSize {
			break
		}
		next, ok := applyMoves(h.State, walk)
		if !ok {
			break
		}
		h.Input.Moves = append(h.Input.Moves, walk...)
		h.State = next
		mutated = true
	}

	if mutated {
		return Mutated
	}
	return Skipped
}

// DefaultWeightPrecision is the upper bound (inclusive) of the uniform
// range RandomPreferenceMutator draws each child's weight from.
const DefaultWeightPrecision = 16

// DefaultReweightFrequency is how many Mutate calls RandomPreferenceMutator
// serves before redrawing its children's weights, absent config override.
const DefaultReweightFrequency = 32

// RandomPreferenceMutator is a meta-mutator over a fixed set of children,
// sampling one by integer weight on every call and periodically redrawing
// all weights uniformly in [1, WeightPrecision].
type RandomPreferenceMutator struct {
	Children          []Mutator
	ReweightFrequency int
	WeightPrecision   int

	weights       []int
	sinceReweight int
}

// NewRandomPreferenceMutator builds a RandomPreferenceMutator over children,
// redrawing weights every reweightFrequency calls.
func NewRandomPreferenceMutator(children []Mutator, reweightFrequency int) *RandomPreferenceMutator {
	return &RandomPreferenceMutator{
		Children:          children,
		ReweightFrequency: reweightFrequency,
		WeightPrecision:   DefaultWeightPrecision,
		weights:           make([]int, len(children)),
	}
}

func (m *RandomPreferenceMutator) reweight(ctx *Context) {
	for i := range m.weights {
		m.weights[i] = 1 + ctx.Rand.Intn(m.WeightPrecision)
	}
}

func (m *RandomPreferenceMutator) Mutate(ctx *Context, tc *Testcase, h *Hallucinated) MutationResult {
	if m.sinceReweight == 0 {
		m.reweight(ctx)
	}
	m.sinceReweight++
	if m.sinceReweight >= m.ReweightFrequency {
		m.sinceReweight = 0
	}

	total := 0
	for _, w := range m.weights {
		total += w
	}
	pick := ctx.Rand.Intn(total)
	idx := len(m.weights) - 1
	for i, w := range m.weights {
		if pick < w {
			idx = i
			break
		}
		pick -= w
	}
	return m.Children[idx].Mutate(ctx, tc, h)
}
