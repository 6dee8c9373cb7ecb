package fuzz

import (
	"sokofuzz/pathfind"
	"sokofuzz/sokoban"
)

// Feedback is a pure predicate over an execution's published post-state
// (read from the context's observer), classifying it as interesting or not.
type Feedback interface {
	IsInteresting(ctx *Context, input Input) bool
}

// NoveltyFeedback is interesting iff the post-state's hash has not been
// seen by this session before. It is the primary add-to-corpus criterion.
type NoveltyFeedback struct {
	seen map[uint64]bool
}

// NewNoveltyFeedback returns a feedback with no observed hashes yet.
func NewNoveltyFeedback() *NoveltyFeedback {
	return &NoveltyFeedback{seen: make(map[uint64]bool)}
}

func (f *NoveltyFeedback) IsInteresting(ctx *Context, _ Input) bool {
	hash, ok := ctx.Observer.Hash(true)
	if !ok {
		return false
	}
	if f.seen[hash] {
		return false
	}
	f.seen[hash] = true
	return true
}

// SolvableFeedback rejects states where a non-target crate has been pushed
// into a wall corner: a fast, conservative deadlock check, not full deadlock
// detection.
type SolvableFeedback struct{}

func (SolvableFeedback) IsInteresting(ctx *Context, _ Input) bool {
	state, ok := ctx.Observer.LastState()
	if !ok {
		return false
	}
	targets := make(map[sokoban.Position]bool, len(state.Targets()))
	for _, t := range state.Targets() {
		targets[t] = true
	}
	for _, pt := range state.All() {
		if pt.Tile != sokoban.Crate || targets[pt.Pos] {
			continue
		}
		if pathfind.CornerBlocked(pt.Pos, state) {
			return false
		}
	}
	return true
}

// StatisticsFeedback never rejects; it only updates the user-visible
// "most_set" and "most_moves" counters. It always returns true so it never
// short-circuits the corpus-add conjunction ahead of Novelty/Solvable.
type StatisticsFeedback struct {
	stats *Statistics
}

// NewStatisticsFeedback binds a StatisticsFeedback to stats.
func NewStatisticsFeedback(stats *Statistics) *StatisticsFeedback {
	return &StatisticsFeedback{stats: stats}
}

func (f *StatisticsFeedback) IsInteresting(ctx *Context, input Input) bool {
	if state, ok := ctx.Observer.LastState(); ok && len(state.Targets()) > 0 {
		covered := 0
		for _, t := range state.Targets() {
			if state.At(t) == sokoban.Crate {
				covered++
			}
		}
		f.stats.MostSet.RaiseTo(float64(covered) / float64(len(state.Targets())))
	}
	f.stats.MostMoves.RaiseTo(int64(len(input.Moves)))
	return true
}

// SolvedFeedback is the terminal objective: true iff every target is
// covered by a crate.
type SolvedFeedback struct{}

func (SolvedFeedback) IsInteresting(ctx *Context, _ Input) bool {
	state, ok := ctx.Observer.LastState()
	if !ok {
		return false
	}
	return state.InSolutionState()
}

// CorpusFeedback composes the corpus-add criterion: Novelty ∧ Solvable ∧
// Statistics, short-circuiting left to right exactly as declared, so a
// rejected-for-novelty or rejected-for-corner execution never touches the
// statistics counters.
type CorpusFeedback struct {
	Novelty    *NoveltyFeedback
	Solvable   SolvableFeedback
	Statistics *StatisticsFeedback
}

// NewCorpusFeedback wires the three feedbacks with a shared Statistics sink.
func NewCorpusFeedback(stats *Statistics) *CorpusFeedback {
	return &CorpusFeedback{
		Novelty:    NewNoveltyFeedback(),
		Statistics: NewStatisticsFeedback(stats),
	}
}

func (c *CorpusFeedback) IsInteresting(ctx *Context, input Input) bool {
	return c.Novelty.IsInteresting(ctx, input) &&
		c.Solvable.IsInteresting(ctx, input) &&
		c.Statistics.IsInteresting(ctx, input)
}
