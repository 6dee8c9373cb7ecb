// Package pathfind holds the two BFS searches the mutation kernel depends on:
// walking the player to a square, and pushing a crate to a square. Both
// operate over an immutable sokoban.State and never mutate it; push_to
// builds a throwaway "hallucinated" clone with the crate's own square opened
// up, exactly so reachability checks during the crate-BFS aren't blocked by
// the crate it is currently trying to move.
package pathfind

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"sokofuzz/sokoban"
)

// WalkTo returns the shortest legal player move sequence from start to
// destination, or ok=false if either endpoint is out of bounds, not Floor, or
// unreachable. Ties among equal-length paths are broken by sokoban.Directions
// order, which callers may depend on for deterministic replay.
func WalkTo(start, destination sokoban.Position, puzzle sokoban.State) ([]sokoban.Direction, bool) {
	if !isFloor(start, puzzle) || !isFloor(destination, puzzle) {
		return nil, false
	}
	if start == destination {
		return []sokoban.Direction{}, true
	}

	cameFrom := map[sokoban.Position]sokoban.Direction{start: 0}
	visited := map[sokoban.Position]bool{start: true}
	frontier := []sokoban.Position{start}

	for len(frontier) > 0 {
		var next []sokoban.Position
		for _, prev := range frontier {
			for _, d := range sokoban.Directions {
				cand := d.From(prev)
				if visited[cand] || !isFloor(cand, puzzle) {
					continue
				}
				visited[cand] = true
				cameFrom[cand] = d
				if cand == destination {
					return reconstruct(cameFrom, start, destination), true
				}
				next = append(next, cand)
			}
		}
		frontier = next
	}
	return nil, false
}

// CanGoTo is WalkTo without path reconstruction. It is kept as a distinct
// name because the spec's reachability check (used inside PushTo's inner
// BFS) is called independently of any caller wanting the actual path; the
// implementation is free to share WalkTo's search.
func CanGoTo(start, destination sokoban.Position, puzzle sokoban.State) bool {
	_, ok := WalkTo(start, destination, puzzle)
	return ok
}

func reconstruct(cameFrom map[sokoban.Position]sokoban.Direction, start, destination sokoban.Position) []sokoban.Direction {
	var reversed []sokoban.Direction
	cur := destination
	for cur != start {
		d := cameFrom[cur]
		reversed = append(reversed, d)
		cur = d.Opposite().From(cur)
	}
	out := make([]sokoban.Direction, len(reversed))
	for i, d := range reversed {
		out[len(reversed)-1-i] = d
	}
	return out
}

func isFloor(p sokoban.Position, puzzle sokoban.State) bool {
	return puzzle.InBounds(p) && puzzle.At(p) == sokoban.Floor
}

// PushTo returns a full player move sequence that walks to whatever
// push-points are necessary and pushes the crate at cratePos all the way to
// destination, or ok=false if impossible. The search is a BFS over crate
// positions (not player positions): a candidate step from a crate at P to
// P+d is admitted only if the player could actually walk to the push-point
// P-d without the crate (still sitting at P in the real world) being in the
// way of anything but that one push.
func PushTo(cratePos, destination sokoban.Position, puzzle sokoban.State) ([]sokoban.Direction, bool) {
	if !puzzle.InBounds(cratePos) || puzzle.At(cratePos) != sokoban.Crate {
		return nil, false
	}
	if !isFloor(destination, puzzle) {
		return nil, false
	}
	if cratePos == destination {
		return []sokoban.Direction{}, true
	}

	// Open up the crate's own square so reachability checks during the
	// search aren't blocked by the very crate being pushed.
	hallucinated := puzzle.WithTile(cratePos, sokoban.Floor)

	cameFrom := map[sokoban.Position]sokoban.Direction{cratePos: 0}
	playerAt := map[sokoban.Position]sokoban.Position{cratePos: puzzle.Player()}
	visited := map[sokoban.Position]bool{cratePos: true}
	frontier := []sokoban.Position{cratePos}
	found := false

	for len(frontier) > 0 && !found {
		var next []sokoban.Position
		for _, prev := range frontier {
			player := playerAt[prev]
			for _, d := range sokoban.Directions {
				cand := d.From(prev)
				pushPoint := d.Opposite().From(prev)
				if visited[cand] {
					continue
				}
				if !isFloor(cand, hallucinated) || !isFloor(pushPoint, hallucinated) {
					continue
				}
				// The crate hasn't moved off prev yet in the real world;
				// reflect that for this one reachability check.
				withCrate := hallucinated.WithTile(prev, sokoban.Crate)
				if !CanGoTo(player, pushPoint, withCrate) {
					continue
				}
				visited[cand] = true
				cameFrom[cand] = d
				playerAt[cand] = pushPoint
				if cand == destination {
					found = true
					break
				}
				next = append(next, cand)
			}
			if found {
				break
			}
		}
		frontier = next
	}
	if !found {
		return nil, false
	}

	var cratePath []sokoban.Direction
	cur := destination
	for cur != cratePos {
		d := cameFrom[cur]
		cratePath = append([]sokoban.Direction{d}, cratePath...)
		cur = d.Opposite().From(cur)
	}

	return assemblePushes(puzzle, cratePos, cratePath)
}

// assemblePushes replays the crate-position path found by the BFS above,
// interleaving walk_to segments (to reach each push-point) with the pushes
// themselves, against the real (non-hallucinated) state.
func assemblePushes(puzzle sokoban.State, cratePos sokoban.Position, cratePath []sokoban.Direction) ([]sokoban.Direction, bool) {
	working := puzzle
	lastPosition := cratePos
	var assembled []sokoban.Direction

	for _, pushDir := range cratePath {
		pushPoint := pushDir.Opposite().From(lastPosition)
		walk, ok := WalkTo(working.Player(), pushPoint, working)
		if !ok {
			// The BFS above guarantees a walkable push-point exists at this
			// step; if it doesn't, the walk/push invariants it relies on
			// have desynchronised and there is no safe way to continue.
			panic(fmt.Sprintf("pathfind: push_to witness broken: no walk from %v to push-point %v", working.Player(), pushPoint))
		}
		assembled = append(assembled, walk...)
		for _, wd := range walk {
			moved, err := working.MovePlayer(wd)
			if err != nil {
				panic(fmt.Sprintf("pathfind: push_to witness broken: walk step %v: %v", wd, err))
			}
			working = moved
		}
		pushed, err := working.MovePlayer(pushDir)
		if err != nil {
			panic(fmt.Sprintf("pathfind: push_to witness broken: push step %v: %v", pushDir, err))
		}
		working = pushed
		assembled = append(assembled, pushDir)
		lastPosition = pushDir.From(lastPosition)
	}
	return assembled, true
}

// FindCrates returns every Crate position in row-major order.
func FindCrates(puzzle sokoban.State) []sokoban.Position {
	var crates []sokoban.Position
	for _, pt := range puzzle.All() {
		if pt.Tile == sokoban.Crate {
			crates = append(crates, pt.Pos)
		}
	}
	return crates
}

// CornerBlocked reports whether pos is pressed into a corner: two
// perpendicular neighbours (above+left, above+right, below+left, below+right)
// are both Wall, or off the grid entirely (the grid border behaves like a
// wall for this purpose).
func CornerBlocked(pos sokoban.Position, puzzle sokoban.State) bool {
	up := sokoban.Up.From(pos)
	down := sokoban.Down.From(pos)
	left := sokoban.Left.From(pos)
	right := sokoban.Right.From(pos)

	blocked := func(p sokoban.Position) bool {
		return !puzzle.InBounds(p) || puzzle.At(p) == sokoban.Wall
	}

	corners := [4][2]sokoban.Position{
		{up, left}, {up, right}, {down, left}, {down, right},
	}
	for _, c := range corners {
		if blocked(c[0]) && blocked(c[1]) {
			return true
		}
	}
	return false
}

// HashPuzzle is a stable hash of the set of crate positions, in grid
// iteration order, optionally folded with the player's position. It must be
// deterministic across runs (used by the novelty feedback to recognise a
// previously-seen post-state), so it is built on xxhash rather than a
// process-randomised hash.
func HashPuzzle(puzzle sokoban.State, includePlayer bool) uint64 {
	h := xxhash.New()
	for _, pt := range puzzle.All() {
		if pt.Tile != sokoban.Crate {
			continue
		}
		writePosition(h, pt.Pos)
	}
	if includePlayer {
		writePosition(h, puzzle.Player())
	}
	return h.Sum64()
}

func writePosition(h *xxhash.Digest, p sokoban.Position) {
	var buf [8]byte
	putInt32(buf[0:4], p.Row)
	putInt32(buf[4:8], p.Col)
	h.Write(buf[:])
}

func putInt32(buf []byte, v int) {
	u := uint32(v)
	buf[0] = byte(u >> 24)
	buf[1] = byte(u >> 16)
	buf[2] = byte(u >> 8)
	buf[3] = byte(u)
}
