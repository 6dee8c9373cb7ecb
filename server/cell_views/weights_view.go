package cell_views

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"sokofuzz/fuzz"
	"sokofuzz/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// WeightEntry is one corpus entry's current scheduler weight, the view-model
// the scheduler's weight snapshot is converted to before reaching WeightsView.
type WeightEntry struct {
	ID     fuzz.CorpusID
	Weight int
}

// ConvertWeights turns a scheduler weight snapshot into a deterministically
// ordered slice of WeightEntry, so repeated renders of the same snapshot
// produce identical bar order.
func ConvertWeights(weights map[fuzz.CorpusID]int) []WeightEntry {
	entries := make([]WeightEntry, 0, len(weights))
	for id, w := range weights {
		entries = append(entries, WeightEntry{ID: id, Weight: w})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// WeightsView renders the corpus scheduler's current weight distribution as
// a row of horizontal bars, one per live corpus entry. It replaces the
// teacher's isometric value-function surface plot, which has no analog here:
// there is no continuous value function in a discrete fuzzing search, only a
// discrete per-testcase weight the scheduler maintains.
type WeightsView struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

// NewWeightsView builds a view over a channel of weight snapshots.
func NewWeightsView(
	done <-chan struct{},
	snapshots <-chan []WeightEntry,
) (wv *WeightsView) {
	id := "weights"
	if strings.Contains(id, "-") {
		fmt.Println("WARNING: hyphenated ids interfere with html/template's `template` directive")
	}
	wv = &WeightsView{id: template.HTMLEscapeString(id)}
	wv.updates = channerics.Convert(done, snapshots, wv.onUpdate)
	return
}

func (wv *WeightsView) Updates() <-chan []fastview.EleUpdate {
	return wv.updates
}

const (
	weightBarWidth = 18
	weightBarGap   = 4
	weightMaxPx    = 200
)

// onUpdate returns the set of view updates needed for the bar chart to
// reflect the latest snapshot. It emits updates for every entry, but the
// page only has bars for the entries of the snapshot it was first rendered
// with (see Parse); updates for any other entry id find no element and are
// skipped by the page's update script.
func (wv *WeightsView) onUpdate(entries []WeightEntry) (ops []fastview.EleUpdate) {
	maxWeight := 1
	for _, e := range entries {
		if e.Weight > maxWeight {
			maxWeight = e.Weight
		}
	}
	for _, e := range entries {
		heightPx := int(float64(e.Weight) / float64(maxWeight) * weightMaxPx)
		ops = append(ops, fastview.EleUpdate{
			EleId: fmt.Sprintf("%d-weight-bar", e.ID),
			Ops: []fastview.Op{
				{Key: "height", Value: fmt.Sprintf("%d", heightPx)},
				{Key: "y", Value: fmt.Sprintf("%d", weightMaxPx-heightPx)},
			},
		})
		ops = append(ops, fastview.EleUpdate{
			EleId: fmt.Sprintf("%d-weight-label", e.ID),
			Ops: []fastview.Op{
				{Key: "textContent", Value: fmt.Sprintf("%d", e.Weight)},
			},
		})
	}
	return
}

// Parse returns a bar-chart frame with one bar per entry in the data it's
// executed with, sized so that later onUpdate ele-updates only ever adjust
// existing elements.
func (wv *WeightsView) Parse(
	t *template.Template,
) (name string, err error) {
	name = wv.id
	barSlot := weightBarWidth + weightBarGap
	_, err = t.Parse(
		`{{ define "` + name + `" }}
		<div style="padding:20px;">
			<svg id="` + wv.id + `" xmlns='http://www.w3.org/2000/svg'
				width="{{ mult (len .) ` + fmt.Sprintf("%d", barSlot) + ` }}px"
				height="` + fmt.Sprintf("%d", weightMaxPx+20) + `px">
				{{ range $i, $entry := . }}
				<g>
					<rect id="{{$entry.ID}}-weight-bar"
						x="{{ mult $i ` + fmt.Sprintf("%d", barSlot) + ` }}"
						y="0" width="` + fmt.Sprintf("%d", weightBarWidth) + `" height="0"
						fill="steelblue"/>
					<text id="{{$entry.ID}}-weight-label"
						x="{{ add (mult $i ` + fmt.Sprintf("%d", barSlot) + `) ` + fmt.Sprintf("%d", weightBarWidth/2) + `}}"
						y="` + fmt.Sprintf("%d", weightMaxPx+15) + `"
						text-anchor="middle">{{ $entry.Weight }}</text>
				</g>
				{{ end }}
			</svg>
		</div>
		{{ end }}`)
	return
}
