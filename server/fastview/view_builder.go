package fastview

import (
	"context"
	"errors"

	channerics "github.com/niceyeti/channerics/channels"
)

// ViewBuilder wires one upstream data channel (board states, scheduler
// weight snapshots) through a view-model conversion into one or more
// ViewComponents that all share that converted model. root_view.go builds
// one ViewBuilder per dashboard panel: sokoban.State into the board's
// CellViewModel grid, and map[fuzz.CorpusID]int into the weight bar chart's
// WeightEntry slice.
type ViewBuilder[DataModel any, ViewModel any] struct {
	source      <-chan DataModel
	viewModelFn func(DataModel) ViewModel
	builderFns  []func(<-chan struct{}, <-chan ViewModel) ViewComponent
	done        <-chan struct{} // okay if nil
}

// NewViewBuilder returns an empty builder for a given data-model/view-model
// pair; callers chain WithContext/WithModel/WithView before calling Build.
func NewViewBuilder[DataModel any, ViewModel any]() *ViewBuilder[DataModel, ViewModel] {
	return &ViewBuilder[DataModel, ViewModel]{}
}

// WithModel attaches the upstream channel and the function that converts
// each value on it (a board state, a weight map) into the shared view model
// every view built from this builder will receive.
func (vb *ViewBuilder[DataModel, ViewModel]) WithModel(
	input <-chan DataModel,
	convert func(DataModel) ViewModel,
) *ViewBuilder[DataModel, ViewModel] {
	vb.source = input
	vb.viewModelFn = convert
	return vb
}

// ViewBuilderFunc constructs one ViewComponent from a done channel and its
// own branch of the converted view-model stream.
type ViewBuilderFunc[ViewModel any] func(<-chan struct{}, <-chan ViewModel) ViewComponent

// WithView queues one more view to construct from this builder's model.
// Views are returned by Build in the order WithView was called.
func (vb *ViewBuilder[DataModel, ViewModel]) WithView(
	builderFn ViewBuilderFunc[ViewModel],
) *ViewBuilder[DataModel, ViewModel] {
	vb.builderFns = append(vb.builderFns, builderFn)
	return vb
}

// WithContext ties every channel Build derives to ctx's lifetime: when ctx
// is cancelled (the fuzzing session ends, or the dashboard server shuts
// down), the broadcast and conversion goroutines Build starts exit too.
func (vb *ViewBuilder[DataModel, ViewModel]) WithContext(
	ctx context.Context,
) *ViewBuilder[DataModel, ViewModel] {
	vb.done = ctx.Done()
	return vb
}

// ErrNoViews is returned when Build is called before WithView ever was.
var ErrNoViews error = errors.New("no views to build: WithView must be called")

// ErrNoModel is returned when Build is called before WithModel.
var ErrNoModel error = errors.New("no model specified: WithModel must be called")

// Build converts the source channel into the shared view model, fans that
// single stream out to one branch per queued view, and constructs each
// view from its branch. Each returned ViewComponent owns an independent
// channel, so one slow view's renderer can't backpressure the others.
func (vb *ViewBuilder[DataModel, ViewModel]) Build() (views []ViewComponent, err error) {
	if len(vb.builderFns) == 0 {
		return nil, ErrNoViews
	}
	if vb.viewModelFn == nil {
		return nil, ErrNoModel
	}

	vmChan := channerics.Convert(vb.done, vb.source, vb.viewModelFn)
	vmChans := channerics.Broadcast(vb.done, vmChan, len(vb.builderFns))
	for i, build := range vb.builderFns {
		views = append(views, build(vb.done, vmChans[i]))
	}
	return
}
