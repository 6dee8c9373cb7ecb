/*
sokofuzz is a feedback-driven Sokoban solver: it treats partial move
sequences as fuzzer inputs, mutates them with structured, reachability-aware
mutators, and schedules further mutation toward the most promising corpus
entries until every target is covered by a crate. It does not search
exhaustively and does not claim optimal solutions; see fuzz.Driver for the
core loop this program wires up.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"runtime"
	"time"

	"sokofuzz/config"
	"sokofuzz/fuzz"
	"sokofuzz/server"
	"sokofuzz/sokoban"

	channerics "github.com/niceyeti/channerics/channels"
)

var (
	dbg        *bool
	nworkers   *int
	configPath *string
	puzzleDir  *string
	host       *string
	port       *string
	maxSteps   *int
	addr       string
)

// TODO: per 12-factor rules these should fall back to env vars too; KISS for now.
func init() {
	dbg = flag.Bool("debug", false, "solve only puzzles/screen.1")
	nworkers = flag.Int("nworkers", runtime.NumCPU(), "number of puzzles solved concurrently")
	configPath = flag.String("config", "./config.yaml", "path to the solver hyperparameter config")
	puzzleDir = flag.String("puzzles", "./puzzles", "directory of screen.N level files")
	host = flag.String("host", "", "the dashboard host ip")
	port = flag.String("port", "8080", "the dashboard host port")
	maxSteps = flag.Int("maxsteps", 0, "bound fuzz_one rounds per puzzle (0 means unbounded)")
	flag.Parse()
	addr = *host + ":" + *port
}

// selectLevels returns the puzzle file names to solve: just screen.1 in
// debug mode, every non-directory entry in puzzleDir otherwise (file names
// are not filtered).
func selectLevels(dir string) ([]string, error) {
	if *dbg {
		return []string{filepath.Join(dir, "screen.1")}, nil
	}
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var levels []string
	for _, e := range entries {
		if !e.IsDir() {
			levels = append(levels, filepath.Join(dir, e.Name()))
		}
	}
	return levels, nil
}

// puzzleResult is one puzzle-solving session's outcome, fanned into the
// reporting channel as sessions complete.
type puzzleResult struct {
	Path     string
	Solution fuzz.Input
	Solved   bool
	Err      error
}

// solvePuzzle loads one level file and runs a single-threaded fuzz session
// to completion (or to maxSteps/ctx cancellation), publishing board and
// weight snapshots to the dashboard as it goes.
func solvePuzzle(
	ctx context.Context,
	path string,
	cfg *config.SolverConfig,
	seed int64,
	boardUpdates chan<- sokoban.State,
	weightUpdates chan<- map[fuzz.CorpusID]int,
) puzzleResult {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return puzzleResult{Path: path, Err: err}
	}
	puzzle, err := sokoban.Parse(data)
	if err != nil {
		return puzzleResult{Path: path, Err: err}
	}

	maxSize := int(cfg.GetHyperParamOrDefault(config.HyperParamMaxSize, config.DefaultMaxSize))
	fctx := fuzz.NewContext(puzzle, maxSize, seed)
	fctx.WeightPrecision = int(cfg.GetHyperParamOrDefault(config.HyperParamWeightPrecision, config.DefaultWeightPrecision))
	fctx.ReweightFrequency = int(cfg.GetHyperParamOrDefault(config.HyperParamReweightFrequency, config.DefaultReweightFrequency))
	driver := fuzz.NewDriver(fctx)

	steps := *maxSteps
	for step := 0; steps <= 0 || step < steps; step++ {
		if sol, found := fctx.Solutions.First(); found {
			return puzzleResult{Path: path, Solution: sol, Solved: true}
		}

		if _, err := driver.FuzzOne(); err != nil {
			if err == fuzz.ErrCorpusExhausted {
				return puzzleResult{Path: path, Err: err}
			}
			return puzzleResult{Path: path, Err: err}
		}

		if state, ok := fctx.Observer.LastState(); ok {
			publish(ctx, boardUpdates, state)
		}
		publishWeights(ctx, weightUpdates, driver.Scheduler().Weights())

		select {
		case <-ctx.Done():
			return puzzleResult{Path: path, Err: ctx.Err()}
		default:
		}
	}

	if sol, found := fctx.Solutions.First(); found {
		return puzzleResult{Path: path, Solution: sol, Solved: true}
	}
	return puzzleResult{Path: path, Err: fmt.Errorf("sokofuzz: %s: step cap reached with no solution", path)}
}

func publish(ctx context.Context, ch chan<- sokoban.State, state sokoban.State) {
	select {
	case ch <- state:
	case <-ctx.Done():
	default:
	}
}

func publishWeights(ctx context.Context, ch chan<- map[fuzz.CorpusID]int, weights map[fuzz.CorpusID]int) {
	select {
	case ch <- weights:
	case <-ctx.Done():
	default:
	}
}

// runApp loads the solver config, discovers the puzzle set, and solves each
// puzzle on its own goroutine (one sequential, single-threaded fuzz loop per
// puzzle, per spec's single-thread-per-puzzle concurrency model), fanning
// in their solved-input/progress events to a single reporting stream the way
// the teacher fans in per-agent episode channels to one estimator.
func runApp() error {
	cfg, err := config.FromYaml(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	if cfg.Workers == 0 {
		cfg.Workers = *nworkers
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()
	solveCtx, cancelSolve, err := cfg.WithSolveDeadline(appCtx)
	if err != nil {
		return err
	}
	defer cancelSolve()

	levels, err := selectLevels(*puzzleDir)
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		return fmt.Errorf("sokofuzz: no puzzle files found in %s", *puzzleDir)
	}

	boardUpdates := make(chan sokoban.State)
	weightUpdates := make(chan map[fuzz.CorpusID]int)

	var initialBoard sokoban.State
	if data, err := ioutil.ReadFile(levels[0]); err == nil {
		if st, err := sokoban.Parse(data); err == nil {
			initialBoard = st
		}
	}

	srv, err := server.NewServer(appCtx, addr, initialBoard, boardUpdates, nil, weightUpdates)
	if err != nil {
		return err
	}
	go func() {
		if err := srv.Serve(); err != nil {
			fmt.Println(err)
		}
	}()

	sem := make(chan struct{}, cfg.Workers)
	perPuzzle := make([]<-chan puzzleResult, len(levels))
	for i, path := range levels {
		out := make(chan puzzleResult, 1)
		perPuzzle[i] = out
		go func(i int, path string, out chan<- puzzleResult) {
			sem <- struct{}{}
			defer func() { <-sem }()
			out <- solvePuzzle(solveCtx, path, cfg, int64(i)+1, boardUpdates, weightUpdates)
			close(out)
		}(i, path, out)
	}

	reportResults(channerics.Merge(appCtx.Done(), perPuzzle...))
	return nil
}

// reportResults drains the fanned-in result stream and prints each puzzle's
// outcome as it lands, mirroring the teacher's periodic exportStates
// reporter but for terminal events rather than progress snapshots.
func reportResults(results <-chan puzzleResult) {
	for res := range results {
		if res.Err != nil {
			fmt.Printf("%s: %v\n", res.Path, res.Err)
			continue
		}
		fmt.Printf("%s: solved in %d moves: %s\n", res.Path, len(res.Solution.Moves), res.Solution.Name())
	}
}

func main() {
	start := time.Now()
	if err := runApp(); err != nil {
		fmt.Println(err)
	}
	fmt.Printf("done in %s\n", time.Since(start))
}
