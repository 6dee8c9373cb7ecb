package root_view

import (
	"context"
	"html/template"
	"log"
	"time"

	"sokofuzz/fuzz"
	"sokofuzz/server/cell_views"
	"sokofuzz/server/fastview"
	"sokofuzz/sokoban"

	channerics "github.com/niceyeti/channerics/channels"
)

// RootView is the main page's index.html, which is the container for all the
// view components, the wiring for their channels, etc.
type RootView struct {
	views   []fastview.ViewComponent
	updates <-chan []fastview.EleUpdate
}

// IndexData is what the server's initial page render executes the root
// template with. The board and weights views no longer share a single data
// model the way the teacher's cell-only dashboard did, so the initial render
// needs one field per view.
type IndexData struct {
	Cells   [][]cell_views.CellViewModel
	Weights []cell_views.WeightEntry
}

// NewRootView creates the main page and the views it contains: the puzzle
// board and the corpus scheduler's weight distribution.
func NewRootView(
	ctx context.Context,
	boardUpdates <-chan sokoban.State,
	weightUpdates <-chan map[fuzz.CorpusID]int,
) *RootView {
	boardViews, err := fastview.NewViewBuilder[sokoban.State, [][]cell_views.CellViewModel]().
		WithContext(ctx).
		WithModel(boardUpdates, cell_views.Convert).
		WithView(func(
			done <-chan struct{},
			cells <-chan [][]cell_views.CellViewModel) fastview.ViewComponent {
			return cell_views.NewBoardView(done, cells)
		}).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	weightViews, err := fastview.NewViewBuilder[map[fuzz.CorpusID]int, []cell_views.WeightEntry]().
		WithContext(ctx).
		WithModel(weightUpdates, cell_views.ConvertWeights).
		WithView(func(
			done <-chan struct{},
			entries <-chan []cell_views.WeightEntry) fastview.ViewComponent {
			return cell_views.NewWeightsView(done, entries)
		}).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	views := append(boardViews, weightViews...)
	updates := fanIn(ctx.Done(), views)

	return &RootView{
		views:   views,
		updates: updates,
	}
}

// Updates returns the main ele-update channel for all the views.
func (rt *RootView) Updates() <-chan []fastview.EleUpdate {
	return rt.updates
}

// Parse builds the main page's template, with websocket bootstrap code, and returns its name.
// It also sets up the func-map that many child components depend on.
func (rv *RootView) Parse(
	parent *template.Template,
) (name string, err error) {
	rt := parent.Funcs(
		template.FuncMap{
			"add":  func(i, j int) int { return i + j },
			"sub":  func(i, j int) int { return i - j },
			"mult": func(i, j int) int { return i * j },
			"div":  func(i, j int) int { return i / j },
			"max": func(i, j int) int {
				if i > j {
					return i
				}
				return j
			},
		})

	viewTemplates := []string{}
	for _, vc := range rv.views {
		if tname, parseErr := vc.Parse(rt); parseErr != nil {
			err = parseErr
			return
		} else {
			viewTemplates = append(viewTemplates, tname)
		}
	}

	// Specify the nested templates. Board's template walks .Cells, weights'
	// walks .Weights; both are fields of the IndexData passed to Execute, so
	// each sub-template scopes itself with the field it needs.
	var bodySpec string
	for i, tname := range viewTemplates {
		field := "Cells"
		if i == 1 {
			field = "Weights"
		}
		bodySpec += (`{{ template "` + tname + `" .` + field + ` }}`)
	}

	name = "mainpage"
	indexTemplate := `
	{{ define "` + name + `" }}
	<!DOCTYPE html>
	<html>
		<head>
			<link rel="icon" href="data:,">
			<!--This is the client bootstrap code by which the server pushes new data to the view via websocket.-->
			<script>
				const ws = new WebSocket("ws://" + window.location.host + "/ws");
				ws.onopen = function (event) {
					console.log("Web socket opened")
				};

				ws.onerror = function (event) {
					console.log('WebSocket error: ', event);
				};

				ws.onmessage = function (event) {
					items = JSON.parse(event.data)
					for (const update of items) {
						const ele = document.getElementById(update.EleId)
						if (!ele) {
							continue
						}
						for (const op of update.Ops) {
							if (op.Key === "textContent") {
								ele.textContent = op.Value;
							} else {
								ele.setAttribute(op.Key, op.Value)
							}
						}
					}
				}
			</script>
		</head>
		<body>
		` + bodySpec + `
		</body></html>
	{{ end }}
	`

	_, err = rt.Parse(indexTemplate)
	return
}

// fanIn aggregates the views' ele-update channels into a single channel,
// and throttle its output.
func fanIn(
	done <-chan struct{},
	views []fastview.ViewComponent,
) <-chan []fastview.EleUpdate {
	inputs := make([]<-chan []fastview.EleUpdate, len(views))
	for i, view := range views {
		inputs[i] = view.Updates()
	}
	return batchify(
		done,
		channerics.Merge(done, inputs...),
		time.Millisecond*20)
}

// batchify batches within the passed time frame before sending, over-writing previously
// received values for the same ele-id. This ensures that redundant updates for the
// same ele-id are not sent, and only the latest values are sent.
func batchify(
	done <-chan struct{},
	source <-chan []fastview.EleUpdate,
	rate time.Duration,
) <-chan []fastview.EleUpdate {
	output := make(chan []fastview.EleUpdate)

	go func() {
		defer close(output)

		data := map[string]fastview.EleUpdate{}
		last := time.Now()
		for updates := range channerics.OrDone(done, source) {
			// Intentionally overwrites pre-exisiting values for an ele-id within this batch's time frame.
			for _, update := range updates {
				data[update.EleId] = update
			}

			if time.Since(last) > rate && len(updates) > 0 {
				select {
				case output <- slicedVals(data):
					data = map[string]fastview.EleUpdate{}
					last = time.Now()
				case <-done:
					return
				}
			}
		}
	}()

	return output
}

// returns the values of a map as a slice
func slicedVals[T1 comparable, T2 any](mp map[T1]T2) (sliced []T2) {
	for _, v := range mp {
		sliced = append(sliced, v)
	}
	return
}
