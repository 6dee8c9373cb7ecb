package sokoban

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given a plain-text level", t, func() {
		level := []byte(
			"#####\n" +
				"#@$.#\n" +
				"#####\n")

		Convey("When parsed", func() {
			state, err := Parse(level)

			Convey("It should succeed with the right dimensions and player", func() {
				So(err, ShouldBeNil)
				So(state.Rows(), ShouldEqual, 3)
				So(state.Cols(), ShouldEqual, 5)
				So(state.Player(), ShouldResemble, Position{1, 1})
				So(state.Targets(), ShouldResemble, []Position{{1, 3}})
				So(state.At(Position{1, 2}), ShouldEqual, Crate)
				So(state.At(Position{0, 0}), ShouldEqual, Wall)
			})
		})
	})
}

func TestMovePlayer(t *testing.T) {
	Convey("Given a simple corridor with a crate", t, func() {
		state, err := Parse([]byte(
			"#####\n" +
				"#@$.#\n" +
				"#####\n"))
		So(err, ShouldBeNil)

		Convey("Moving into the crate pushes it onto the target", func() {
			next, err := state.MovePlayer(Right)
			So(err, ShouldBeNil)
			So(next.Player(), ShouldResemble, Position{1, 2})
			So(next.At(Position{1, 3}), ShouldEqual, Crate)
			So(next.InSolutionState(), ShouldBeTrue)
		})

		Convey("Moving into a wall is illegal and preserves state", func() {
			stay, err := state.MovePlayer(Up)
			So(err, ShouldNotBeNil)
			var moveErr *MoveError
			So(err, ShouldHaveSameTypeAs, moveErr)
			So(stay, ShouldResemble, state)
		})

		Convey("Pushing a crate into a wall is illegal", func() {
			blocked, err := Parse([]byte(
				"#####\n" +
					"#@$#\n" +
					"#####\n"))
			So(err, ShouldBeNil)
			_, err = blocked.MovePlayer(Right)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestInSolutionState(t *testing.T) {
	Convey("Given a puzzle where the crate is not yet on a target", t, func() {
		state, err := Parse([]byte(
			"#####\n" +
				"#@$.#\n" +
				"#####\n"))
		So(err, ShouldBeNil)
		So(state.InSolutionState(), ShouldBeFalse)

		Convey("After pushing the crate home, it is solved", func() {
			solved, err := state.MovePlayer(Right)
			So(err, ShouldBeNil)
			So(solved.InSolutionState(), ShouldBeTrue)
		})
	})
}
