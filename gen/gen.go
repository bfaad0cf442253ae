// Package gen is the external scenario generator/shrinker collaborator
// spec.md §6 requires ("a random-scenario generator with shrinking").
// It is a minimal hand-rolled implementation rather than a port of
// pgregory.net/rapid: rapid's API is built entirely around *testing.T
// and go test's process model, which does not fit Verifier.Verify's
// standalone (Execution, bool)-returning contract. rapid is still used
// elsewhere, at the test-suite layer, where that *testing.T shape is
// the genuine fit (see checker's _test.go files).
package gen

import "math/rand/v2"

// OpGenerator produces random Op values for a scenario trial. Repo
// authors are expected to implement this per-system-under-test, the
// same way spec.md §6 leaves scenario shape to the caller.
type OpGenerator[Op any] interface {
	// Gen returns a random Op, drawing randomness from r.
	Gen(r *rand.Rand) Op
}

// Scenario mirrors executor.Scenario; gen depends on neither executor
// nor history to stay a leaf package, and callers convert between the
// two (they're structurally identical).
type Scenario[Op any] struct {
	InitPart     []Op
	ParallelPart [][]Op
	PostPart     []Op
}

// Shape bounds how large a generated Scenario may be.
type Shape struct {
	MaxThreads      int
	MaxOpsPerThread int
}

// GenerateScenario draws one randomly shaped scenario within shape, seeded by
// seed so the same seed always reproduces the same scenario.
// MaxOpsPerThread bounds every op list drawn (init, each parallel
// thread, and post), matching spec.md §6's table entry verbatim.
func GenerateScenario[Op any](seed int64, shape Shape, g OpGenerator[Op]) Scenario[Op] {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0xff51afd7ed558ccd))

	genOps := func() []Op {
		n := r.IntN(shape.MaxOpsPerThread + 1)
		ops := make([]Op, n)
		for j := range ops {
			ops[j] = g.Gen(r)
		}
		return ops
	}

	init := genOps()
	threads := 1 + r.IntN(max(1, shape.MaxThreads))
	parallel := make([][]Op, threads)
	for i := range parallel {
		parallel[i] = genOps()
	}
	post := genOps()

	return Scenario[Op]{InitPart: init, ParallelPart: parallel, PostPart: post}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Shrink repeatedly removes one op from whichever part of scenario is
// currently longest, keeping the removal whenever stillFails(reduced)
// still reports true, mirroring proptest's shrink-on-failure contract
// (spec.md §6) without needing proptest's API. It returns the smallest
// scenario found this way and the number of successful reduction
// steps taken.
func Shrink[Op any](scenario Scenario[Op], stillFails func(Scenario[Op]) bool) (Scenario[Op], int) {
	steps := 0
	for {
		reduced, ok := shrinkOnce(scenario)
		if !ok {
			return scenario, steps
		}
		if !stillFails(reduced) {
			return scenario, steps
		}
		scenario = reduced
		steps++
	}
}

// shrinkOnce removes a single op from whichever part of scenario is
// currently longest (init, post, or one thread's parallel ops),
// returning ok=false once every part is empty.
func shrinkOnce[Op any](s Scenario[Op]) (Scenario[Op], bool) {
	const (
		partInit = -1
		partPost = -2
	)
	longest, longestLen := partInit, len(s.InitPart)
	if len(s.PostPart) > longestLen {
		longest, longestLen = partPost, len(s.PostPart)
	}
	for i, ops := range s.ParallelPart {
		if len(ops) > longestLen {
			longest, longestLen = i, len(ops)
		}
	}

	if longestLen == 0 {
		return s, false
	}

	next := s
	switch longest {
	case partInit:
		next.InitPart = removeLast(s.InitPart)
	case partPost:
		next.PostPart = removeLast(s.PostPart)
	default:
		next.ParallelPart = append([][]Op(nil), s.ParallelPart...)
		next.ParallelPart[longest] = removeLast(s.ParallelPart[longest])
	}
	return next, true
}

func removeLast[Op any](ops []Op) []Op {
	if len(ops) == 0 {
		return ops
	}
	return ops[:len(ops)-1]
}
