package cell_views

import (
	"fmt"
	"html/template"
	"strings"

	"sokofuzz/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// BoardView renders the puzzle grid as an svg of rects, one per cell, with
// the crate/target/wall/player distinguished by fill color and a text label
// for the player.
type BoardView struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

// NewBoardView builds a view over a channel of already-converted cell grids.
func NewBoardView(
	done <-chan struct{},
	cells <-chan [][]CellViewModel,
) (bv *BoardView) {
	id := "board"
	if strings.Contains(id, "-") {
		fmt.Println("WARNING: hyphenated ids interfere with html/template's `template` directive")
	}
	bv = &BoardView{id: template.HTMLEscapeString(id)}
	bv.updates = channerics.Convert(done, cells, bv.onUpdate)
	return
}

func (bv *BoardView) Updates() <-chan []fastview.EleUpdate {
	return bv.updates
}

const boardCellDim = 24

// onUpdate returns the set of view updates needed for the board to reflect
// the puzzle's current cells.
func (bv *BoardView) onUpdate(cells [][]CellViewModel) (ops []fastview.EleUpdate) {
	for _, row := range cells {
		for _, cell := range row {
			ops = append(ops, fastview.EleUpdate{
				EleId: fmt.Sprintf("%d-%d-cell", cell.X, cell.Y),
				Ops: []fastview.Op{
					{Key: "fill", Value: cell.Fill},
				},
			})
			ops = append(ops, fastview.EleUpdate{
				EleId: fmt.Sprintf("%d-%d-label", cell.X, cell.Y),
				Ops: []fastview.Op{
					{Key: "textContent", Value: cell.Label},
				},
			})
		}
	}
	return
}

// Parse returns an svg grid of cells, one rect+text pair per puzzle tile.
func (bv *BoardView) Parse(
	t *template.Template,
) (name string, err error) {
	name = bv.id
	_, err = t.Parse(
		`{{ define "` + name + `" }}
		<div style="padding:20px;">
			{{ $rows := len . }}
			{{ $cols := len (index . 0) }}
			{{ $cell_width := ` + fmt.Sprintf("%d", boardCellDim) + ` }}
			{{ $cell_height := $cell_width }}
			{{ $half := div $cell_width 2 }}
			<svg id="` + bv.id + `" xmlns='http://www.w3.org/2000/svg'
				width="{{ mult $cols $cell_width }}px"
				height="{{ mult $rows $cell_height }}px"
				style="shape-rendering: crispEdges; stroke: black; stroke-width: 1;">
				{{ range $row := . }}
					{{ range $cell := $row }}
					<g>
						<rect id="{{$cell.X}}-{{$cell.Y}}-cell"
							x="{{ mult $cell.X $cell_width }}"
							y="{{ mult $cell.Y $cell_height }}"
							width="{{ $cell_width }}"
							height="{{ $cell_height }}"
							fill="{{ $cell.Fill }}"/>
						<text id="{{$cell.X}}-{{$cell.Y}}-label"
							x="{{ add (mult $cell.X $cell_width) $half }}"
							y="{{ add (mult $cell.Y $cell_height) $half }}"
							dominant-baseline="central" text-anchor="middle"
							>{{ $cell.Label }}</text>
					</g>
					{{ end }}
				{{ end }}
			</svg>
		</div>
		{{ end }}`)
	return
}
