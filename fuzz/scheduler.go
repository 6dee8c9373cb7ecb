package fuzz

import (
	"fmt"
	"sort"

	"sokofuzz/pathfind"
)

// WeightScheduler picks the next corpus entry to mutate by weight, and
// prunes entries whose mutation budget has been exhausted.
//
// The weight formula "1 + max_weight - remaining" is only sound while
// remaining <= max_weight; to keep it from underflowing when a
// later-added entry starts with a larger budget than any seen so far,
// max_weight is refreshed on every OnAdd, not just the first.
type WeightScheduler struct {
	weight      map[CorpusID]int
	maxWeight   int
	totalWeight int
	pruneable   []CorpusID
}

// NewWeightScheduler returns a scheduler with no entries.
func NewWeightScheduler() *WeightScheduler {
	return &WeightScheduler{weight: make(map[CorpusID]int)}
}

// OnAdd replays id's input, computes its mutation budget from the
// post-state, attaches it to the testcase, and records the entry's initial
// weight (|moves_remaining| + |targets_remaining|).
func (s *WeightScheduler) OnAdd(ctx *Context, id CorpusID) {
	tc, ok := ctx.Corpus.Get(id)
	if !ok {
		panic(fmt.Sprintf("fuzz: scheduler.OnAdd: unknown corpus id %d", id))
	}
	post, ok := replay(ctx.InitialPuzzle, tc.Input.Moves)
	if !ok {
		panic("fuzz: scheduler.OnAdd: corpus invariant violated: illegal input in corpus")
	}
	crates := pathfind.FindCrates(post)
	tc.Budget = NewMutationBudget(post, crates)

	weight := tc.Budget.Remaining()
	s.weight[id] = weight
	s.totalWeight += weight
	if weight > s.maxWeight {
		s.maxWeight = weight
	}
}

// OnEvaluation is called after every stage applied to the currently
// selected entry. If its remaining budget has hit zero, the entry is
// marked pruneable and removed from the weight map; otherwise its weight
// is recomputed to prefer heavily-explored-but-not-exhausted entries.
func (s *WeightScheduler) OnEvaluation(ctx *Context, current CorpusID) {
	tc, ok := ctx.Corpus.Get(current)
	if !ok {
		return
	}
	oldWeight, tracked := s.weight[current]
	if !tracked {
		return
	}

	remaining := tc.Budget.Remaining()
	if remaining == 0 {
		delete(s.weight, current)
		s.pruneable = append(s.pruneable, current)
		s.totalWeight -= oldWeight
		return
	}

	newWeight := 1 + s.maxWeight - remaining
	if newWeight < 1 {
		newWeight = 1
	}
	s.weight[current] = newWeight
	s.totalWeight += newWeight - oldWeight
}

// Next prunes exhausted entries, then draws a uniform integer in
// [0, total_weight) and performs a linear-scan weighted selection. It
// reports ok=false if total_weight is zero (the corpus emptied out), which
// the driver treats as benign iff a solution has already been found.
func (s *WeightScheduler) Next(ctx *Context) (CorpusID, bool) {
	for _, id := range s.pruneable {
		ctx.Corpus.Remove(id)
	}
	s.pruneable = s.pruneable[:0]

	if s.totalWeight <= 0 {
		return 0, false
	}

	ids := make([]CorpusID, 0, len(s.weight))
	for id := range s.weight {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pick := ctx.Rand.Intn(s.totalWeight)
	for _, id := range ids {
		w := s.weight[id]
		if pick < w {
			return id, true
		}
		pick -= w
	}
	panic("fuzz: scheduler invariant violated: total_weight inconsistent with weight map")
}

// TotalWeight exposes the current total weight, for tests and the
// dashboard's weight-bar view.
func (s *WeightScheduler) TotalWeight() int {
	return s.totalWeight
}

// Weights returns a snapshot of the current per-entry weights.
func (s *WeightScheduler) Weights() map[CorpusID]int {
	out := make(map[CorpusID]int, len(s.weight))
	for id, w := range s.weight {
		out[id] = w
	}
	return out
}
