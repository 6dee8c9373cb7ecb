package fuzz

// ExitKind reports whether an execution replayed cleanly.
type ExitKind int

const (
	Ok ExitKind = iota
	Crash
)

// Executor replays an input against the initial puzzle and publishes the
// resulting post-state to the context's StateObserver.
type Executor struct {
	ctx *Context
}

// NewExecutor binds an Executor to ctx.
func NewExecutor(ctx *Context) *Executor {
	return &Executor{ctx: ctx}
}

// Run executes input. If the context's LastHallucination baton holds a
// state, it is used directly as the post-state (the caller, a mutator, has
// already computed exactly this by construction) rather than re-replaying
// every move. Otherwise the moves are folded over InitialPuzzle; any
// illegal move reports Crash and leaves the observer empty.
func (e *Executor) Run(input Input) ExitKind {
	ctx := e.ctx
	ctx.Executions++
	ctx.Observer.Clear()

	if state, ok := ctx.LastHallucination.Take(); ok {
		ctx.Observer.SetLastState(state)
		return Ok
	}

	state, ok := replay(ctx.InitialPuzzle, input.Moves)
	if !ok {
		return Crash
	}
	ctx.Observer.SetLastState(state)
	return Ok
}
