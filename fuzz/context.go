package fuzz

import (
	"math/rand"

	"sokofuzz/atomicx"
	"sokofuzz/sokoban"
)

// Statistics are the side-effecting counters the Statistics feedback
// maintains: the best targets-covered ratio seen ("most_set") and the
// longest corpus input seen ("most_moves"). They are atomicx-backed so they
// can be read from another goroutine while a puzzle's fuzz loop keeps
// running; nothing about the core loop itself needs them to be atomic, and
// only StatisticsFeedback touches them in this program.
type Statistics struct {
	MostSet   *atomicx.Float64
	MostMoves *atomicx.Int64
}

// NewStatistics returns zeroed statistics.
func NewStatistics() *Statistics {
	return &Statistics{
		MostSet:   atomicx.NewFloat64(0),
		MostMoves: atomicx.NewInt64(0),
	}
}

// Context is the explicit, threaded state every core operation reads and
// writes: the RNG, the corpus and solutions, the hallucination baton, the
// initial puzzle, and bookkeeping counters. There is deliberately no global
// singleton standing in for any of this; a Context is constructed once per
// puzzle and passed by reference through the driver, mutators, feedbacks,
// and scheduler.
type Context struct {
	Rand              *rand.Rand
	MaxSize           int
	InitialPuzzle     sokoban.State
	LastHallucination *LastHallucination
	Corpus            *Corpus
	Solutions         *Solutions
	Observer          *StateObserver
	Stats             *Statistics
	Executions        uint64

	// WeightPrecision and ReweightFrequency configure the driver's
	// RandomPreferenceMutator stage; callers that load a SolverConfig
	// override these from its weight_precision/reweight_frequency
	// hyperparameters before calling NewDriver.
	WeightPrecision   int
	ReweightFrequency int
}

// NewContext builds a fresh Context for one puzzle-solving session.
func NewContext(initial sokoban.State, maxSize int, seed int64) *Context {
	return &Context{
		Rand:              rand.New(rand.NewSource(seed)),
		MaxSize:           maxSize,
		InitialPuzzle:     initial,
		LastHallucination: &LastHallucination{},
		Corpus:            NewCorpus(),
		Solutions:         NewSolutions(),
		Observer:          NewStateObserver("sokoban_state"),
		Stats:             NewStatistics(),
		WeightPrecision:   DefaultWeightPrecision,
		ReweightFrequency: DefaultReweightFrequency,
	}
}
