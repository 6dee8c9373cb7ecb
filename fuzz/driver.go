package fuzz

import "errors"

// ErrCorpusExhausted is raised when the scheduler reports key-not-found
// (total_weight = 0) while the solutions corpus is still empty: every
// testcase was pruned before a solution was found. This is a genuine fatal
// condition, distinct from the benign case of the corpus emptying out
// after a solution already exists.
var ErrCorpusExhausted = errors.New("fuzz: corpus exhausted before a solution was found")

// Driver wires one puzzle's executor, feedbacks, and scheduler together and
// runs the stacked mutational stages in the declared order: OneShot, then
// MoveCrate, then MoveCrateToTarget, then RandomPreference over all three.
type Driver struct {
	ctx       *Context
	executor  *Executor
	corpus    *CorpusFeedback
	solved    SolvedFeedback
	scheduler *WeightScheduler
	stages    []Mutator
}

// NewDriver seeds ctx's corpus with the empty move list and returns a
// Driver ready to run fuzz_one. The stage stack runs OneShot, then
// MoveCrate, then MoveCrateToTarget in that fixed order (spec's declared
// stacking order), followed by a RandomPreferenceMutator stage that samples
// one of the same three mutators by weight, giving the corpus entry an
// extra, differently-biased mutation pass each round.
func NewDriver(ctx *Context) *Driver {
	randomPreference := NewRandomPreferenceMutator([]Mutator{
		OneShotMutator{},
		MoveCrateMutator{},
		MoveCrateToTargetMutator{},
	}, ctx.ReweightFrequency)
	randomPreference.WeightPrecision = ctx.WeightPrecision

	d := &Driver{
		ctx:       ctx,
		executor:  NewExecutor(ctx),
		corpus:    NewCorpusFeedback(ctx.Stats),
		scheduler: NewWeightScheduler(),
		stages: []Mutator{
			OneShotMutator{},
			MoveCrateMutator{},
			MoveCrateToTargetMutator{},
			randomPreference,
		},
	}
	seedID := ctx.Corpus.Add(Testcase{Input: NewInput(nil)})
	d.scheduler.OnAdd(ctx, seedID)
	return d
}

// Context returns the driver's context, for callers (the dashboard, tests)
// that need read access to the corpus, scheduler, or statistics.
func (d *Driver) Context() *Context {
	return d.ctx
}

// Scheduler returns the driver's scheduler.
func (d *Driver) Scheduler() *WeightScheduler {
	return d.scheduler
}

// FuzzOne runs one selection-mutate-evaluate round: the scheduler picks a
// corpus entry, each mutational stage is applied to it in order, and any
// interesting or solved results are added to the corresponding corpora.
// It returns false (with ErrCorpusExhausted) iff the corpus was exhausted
// with no solution yet found; a nil error and false together mean the
// corpus emptied out after a solution already exists, the benign terminal
// case the spec calls out.
func (d *Driver) FuzzOne() (bool, error) {
	ctx := d.ctx
	id, ok := d.scheduler.Next(ctx)
	if !ok {
		if ctx.Solutions.Len() > 0 {
			return false, nil
		}
		return false, ErrCorpusExhausted
	}

	tc, ok := ctx.Corpus.Get(id)
	if !ok {
		panic("fuzz: driver: scheduler selected a pruned corpus id")
	}

	parentState, ok := replay(ctx.InitialPuzzle, tc.Input.Moves)
	if !ok {
		panic("fuzz: driver: corpus invariant violated: illegal parent input")
	}

	for _, stage := range d.stages {
		// Each stage wraps the selected entry into its own hallucinated
		// form at entry and collapses it at exit (spec's stacking order):
		// a later stage must never mutate an earlier stage's accumulated
		// output, and tc.Budget's remaining-moves/targets sets are keyed
		// on parentState's crate positions, not any other stage's.
		h := &Hallucinated{Input: tc.Input.Clone(), State: parentState}
		result := stage.Mutate(ctx, tc, h)
		if result == Mutated {
			ctx.LastHallucination.Replace(h.State)
			if exit := d.executor.Run(h.Input); exit == Crash {
				panic("fuzz: driver: mutator produced an illegal move sequence")
			}
			if d.corpus.IsInteresting(ctx, h.Input) {
				newID := ctx.Corpus.Add(Testcase{Input: h.Input.Clone()})
				d.scheduler.OnAdd(ctx, newID)
			}
			if d.solved.IsInteresting(ctx, h.Input) {
				ctx.Solutions.Add(h.Input.Clone())
			}
		}
		d.scheduler.OnEvaluation(ctx, id)
	}
	ctx.LastHallucination.Clear()

	return true, nil
}

// Run repeatedly calls FuzzOne until a solution is found, the corpus is
// exhausted, or maxSteps rounds have run (maxSteps <= 0 means unbounded).
// It returns the first solution found, if any.
func (d *Driver) Run(maxSteps int) (Input, bool, error) {
	for step := 0; maxSteps <= 0 || step < maxSteps; step++ {
		if sol, found := d.ctx.Solutions.First(); found {
			return sol, true, nil
		}
		if _, err := d.FuzzOne(); err != nil {
			return Input{}, false, err
		}
		if sol, found := d.ctx.Solutions.First(); found {
			return sol, true, nil
		}
	}
	return Input{}, false, nil
}
