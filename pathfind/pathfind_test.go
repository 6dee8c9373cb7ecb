package pathfind

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"sokofuzz/sokoban"
)

func emptyGrid(rows, cols int, player sokoban.Position) sokoban.State {
	tiles := make([]sokoban.Tile, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r == 0 || r == rows-1 || c == 0 || c == cols-1 {
				tiles[r*cols+c] = sokoban.Wall
			}
		}
	}
	st, err := sokoban.New(tiles, player, nil, rows, cols)
	if err != nil {
		panic(err)
	}
	return st
}

func replay(state sokoban.State, moves []sokoban.Direction) sokoban.State {
	for _, d := range moves {
		next, err := state.MovePlayer(d)
		if err != nil {
			panic(err)
		}
		state = next
	}
	return state
}

func TestWalkToSimple(t *testing.T) {
	Convey("Given an open 20x20 bordered grid", t, func() {
		puzzle := emptyGrid(20, 20, sokoban.Position{Row: 1, Col: 1})

		Convey("walk_to the player's own square is the empty sequence", func() {
			moves, ok := WalkTo(puzzle.Player(), puzzle.Player(), puzzle)
			So(ok, ShouldBeTrue)
			So(moves, ShouldBeEmpty)
		})

		Convey("walk_to an open destination finds a path landing exactly there", func() {
			dest := sokoban.Position{Row: 15, Col: 3}
			moves, ok := WalkTo(puzzle.Player(), dest, puzzle)
			So(ok, ShouldBeTrue)
			So(replay(puzzle, moves).Player(), ShouldResemble, dest)
		})

		Convey("walk_to a wall or out-of-bounds square fails", func() {
			_, ok := WalkTo(puzzle.Player(), sokoban.Position{Row: 0, Col: 0}, puzzle)
			So(ok, ShouldBeFalse)
			_, ok = WalkTo(puzzle.Player(), sokoban.Position{Row: 100, Col: 100}, puzzle)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestWalkToAroundWall(t *testing.T) {
	Convey("Given a grid split by a wall column with a single gap", t, func() {
		grid := buildSplitGrid()

		Convey("a path exists only through the gap", func() {
			dest := sokoban.Position{Row: 3, Col: 3}
			moves, ok := WalkTo(grid.Player(), dest, grid)
			So(ok, ShouldBeTrue)
			So(replay(grid, moves).Player(), ShouldResemble, dest)
		})
	})
}

// buildSplitGrid reproduces the wall-with-one-gap fixture directly: an
// 20-row, 20-col grid with a wall column at col 9 for rows 1-16, leaving
// interior rows 17-18 open, player on the right side at (3,14).
func buildSplitGrid() sokoban.State {
	const rows, cols = 20, 20
	tiles := make([]sokoban.Tile, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t := sokoban.Floor
			if r == 0 || r == rows-1 || c == 0 || c == cols-1 {
				t = sokoban.Wall
			} else if c == 9 && r >= 1 && r <= 16 {
				t = sokoban.Wall
			}
			tiles[r*cols+c] = t
		}
	}
	st, err := sokoban.New(tiles, sokoban.Position{Row: 3, Col: 14}, nil, rows, cols)
	if err != nil {
		panic(err)
	}
	return st
}

// buildClosedGrid is a 19-row, 20-col grid whose col 9 wall covers every
// interior row, so the two halves are fully disconnected.
func buildClosedGrid() sokoban.State {
	const rows, cols = 19, 20
	tiles := make([]sokoban.Tile, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t := sokoban.Floor
			if r == 0 || r == rows-1 || c == 0 || c == cols-1 {
				t = sokoban.Wall
			} else if c == 9 {
				t = sokoban.Wall
			}
			tiles[r*cols+c] = t
		}
	}
	st, err := sokoban.New(tiles, sokoban.Position{Row: 3, Col: 14}, nil, rows, cols)
	if err != nil {
		panic(err)
	}
	return st
}

func TestWalkToImpossible(t *testing.T) {
	Convey("Given a grid where the wall column has no gap", t, func() {
		grid := buildClosedGrid()

		Convey("walk_to across the wall fails", func() {
			_, ok := WalkTo(grid.Player(), sokoban.Position{Row: 3, Col: 3}, grid)
			So(ok, ShouldBeFalse)
		})

		Convey("can_go_to agrees", func() {
			So(CanGoTo(grid.Player(), sokoban.Position{Row: 3, Col: 3}, grid), ShouldBeFalse)
		})
	})
}

func TestWalkToEndToEndLength(t *testing.T) {
	Convey("Given the canonical empty 20x20 scenario", t, func() {
		puzzle := emptyGrid(20, 20, sokoban.Position{Row: 3, Col: 14})
		dest := sokoban.Position{Row: 15, Col: 3}

		Convey("walk_to returns a length-23 sequence landing exactly on the destination", func() {
			moves, ok := WalkTo(puzzle.Player(), dest, puzzle)
			So(ok, ShouldBeTrue)
			So(len(moves), ShouldEqual, 23)
			So(replay(puzzle, moves).Player(), ShouldResemble, dest)

			downs, lefts := 0, 0
			for _, d := range moves {
				switch d {
				case sokoban.Down:
					downs++
				case sokoban.Left:
					lefts++
				}
			}
			So(downs, ShouldEqual, 12)
			So(lefts, ShouldEqual, 11)
		})
	})
}

func TestPushToSimple(t *testing.T) {
	Convey("Given a crate diagonally up and to the right of the player's starting square", t, func() {
		puzzle := emptyGrid(20, 20, sokoban.Position{Row: 3, Col: 14})
		cratePos := sokoban.Up.From(sokoban.Right.From(puzzle.Player()))
		puzzle = puzzle.WithTile(cratePos, sokoban.Crate)

		Convey("push_to moves the crate to an open destination", func() {
			dest := sokoban.Position{Row: 15, Col: 3}
			moves, ok := PushTo(cratePos, dest, puzzle)
			So(ok, ShouldBeTrue)

			final := replay(puzzle, moves)
			So(final.At(dest), ShouldEqual, sokoban.Crate)
		})
	})
}

func TestPushToAroundWall(t *testing.T) {
	Convey("Given a crate that must be pushed around a wall gap", t, func() {
		grid := buildSplitGrid()
		cratePos := sokoban.Position{Row: 2, Col: 15}
		grid = grid.WithTile(cratePos, sokoban.Crate)

		Convey("push_to finds the detour and lands the crate", func() {
			dest := sokoban.Position{Row: 3, Col: 3}
			moves, ok := PushTo(cratePos, dest, grid)
			So(ok, ShouldBeTrue)

			final := replay(grid, moves)
			So(final.At(dest), ShouldEqual, sokoban.Crate)
		})
	})
}

func TestPushToIdentity(t *testing.T) {
	Convey("Given a crate already at its destination", t, func() {
		puzzle := emptyGrid(20, 20, sokoban.Position{Row: 1, Col: 1})
		cratePos := sokoban.Position{Row: 5, Col: 5}
		puzzle = puzzle.WithTile(cratePos, sokoban.Crate)

		Convey("push_to returns the empty sequence", func() {
			moves, ok := PushTo(cratePos, cratePos, puzzle)
			So(ok, ShouldBeTrue)
			So(moves, ShouldBeEmpty)
		})
	})
}

func TestFindCrates(t *testing.T) {
	Convey("Given a puzzle with two crates", t, func() {
		state, err := sokoban.Parse([]byte(
			"#######\n" +
				"#@$..$#\n" +
				"#######\n"))
		So(err, ShouldBeNil)

		Convey("find_crates returns both in row-major order", func() {
			crates := FindCrates(state)
			So(crates, ShouldResemble, []sokoban.Position{{Row: 1, Col: 2}, {Row: 1, Col: 5}})
		})
	})
}

func TestCornerBlocked(t *testing.T) {
	Convey("Given a crate pressed into a wall corner", t, func() {
		state, err := sokoban.Parse([]byte(
			"#####\n" +
				"#$..#\n" +
				"#@..#\n" +
				"#...#\n" +
				"#####\n"))
		So(err, ShouldBeNil)

		Convey("corner_blocked is true at the crate's position", func() {
			So(CornerBlocked(sokoban.Position{Row: 1, Col: 1}, state), ShouldBeTrue)
		})

		Convey("corner_blocked is false in the open interior", func() {
			So(CornerBlocked(sokoban.Position{Row: 2, Col: 2}, state), ShouldBeFalse)
		})
	})
}

func TestHashPuzzleDeterminism(t *testing.T) {
	Convey("Given two independently parsed copies of the same puzzle", t, func() {
		level := []byte(
			"#####\n" +
				"#@$.#\n" +
				"#####\n")
		a, err := sokoban.Parse(level)
		So(err, ShouldBeNil)
		b, err := sokoban.Parse(level)
		So(err, ShouldBeNil)

		Convey("hash_puzzle agrees across runs", func() {
			So(HashPuzzle(a, true), ShouldEqual, HashPuzzle(b, true))
			So(HashPuzzle(a, false), ShouldEqual, HashPuzzle(b, false))
		})

		Convey("hash_puzzle differs once a crate moves", func() {
			moved, err := a.MovePlayer(sokoban.Right)
			So(err, ShouldBeNil)
			So(HashPuzzle(moved, false), ShouldNotEqual, HashPuzzle(a, false))
		})
	})
}
