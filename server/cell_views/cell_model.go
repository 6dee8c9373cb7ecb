// cell_views contains views derived from the Cell view-model.
package cell_views

import (
	"sokofuzz/sokoban"
)

// CellViewModel is for converting a sokoban.State grid to a simpler x/y only
// set of cells, oriented in svg coordinate system such that [0][0] is the
// logical cell that would be printed in the console at top left.
// CellViewModel fields should be immediately usable as view parameters,
// arbitrary calculated fields can be added as desired.
type CellViewModel struct {
	X, Y  int
	Fill  string
	Label string
}

// Convert transforms a puzzle state into Cells for consumption by the board
// view. Y is the puzzle row unchanged: puzzle row 0 and svg y 0 are both the
// top. Crate-on-target and player overlays take
// priority over plain floor/wall/target fill.
func Convert(state sokoban.State) (cells [][]CellViewModel) {
	rows, cols := state.Rows(), state.Cols()
	isTarget := make(map[sokoban.Position]bool, len(state.Targets()))
	for _, t := range state.Targets() {
		isTarget[t] = true
	}

	cells = make([][]CellViewModel, rows)
	for r := 0; r < rows; r++ {
		cells[r] = make([]CellViewModel, cols)
	}

	for _, pt := range state.All() {
		label := ""
		fill := getFill(pt.Tile, isTarget[pt.Pos])
		if pt.Pos == state.Player() {
			label = "@"
			fill = "lightblue"
		}
		cells[pt.Pos.Row][pt.Pos.Col] = CellViewModel{
			X:     pt.Pos.Col,
			Y:     pt.Pos.Row,
			Fill:  fill,
			Label: label,
		}
	}
	return
}

func getFill(tile sokoban.Tile, isTarget bool) (fill string) {
	switch tile {
	case sokoban.Wall:
		fill = "dimgray"
	case sokoban.Crate:
		if isTarget {
			fill = "gold"
		} else {
			fill = "sienna"
		}
	default:
		if isTarget {
			fill = "lightyellow"
		} else {
			fill = "white"
		}
	}
	return
}
