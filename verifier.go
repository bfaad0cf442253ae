package linz

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/linzcheck/linz/checker"
	"github.com/linzcheck/linz/executor"
	"github.com/linzcheck/linz/gen"
	"github.com/linzcheck/linz/history"
	"github.com/linzcheck/linz/pretty"
	"github.com/linzcheck/linz/schedule"
)

// Verifier is the harness of spec.md §4.7/§6: it repeatedly generates
// a scenario, runs it once under a deterministic interleaving, and
// checks the result for linearizability, stopping at the first
// counterexample (shrunk) or once Config.Trials trials have passed.
type Verifier struct {
	Config Config
}

// NewVerifier builds a Verifier from cfg.
func NewVerifier(cfg Config) Verifier {
	return Verifier{Config: cfg}
}

// Verify runs the harness. newConc and newSeq must each return a
// fresh instance of the concurrent system under test and the
// sequential reference implementation, respectively; g generates the
// random Op values each trial draws from.
//
// Go methods cannot carry their own type parameters, so the facade
// the caller invokes as "a Verifier method" is a package-level
// generic function taking the Verifier as its first argument.
//
// On success, Verify returns the last Execution run and true. On the
// first counterexample found, it shrinks that trial's scenario via
// gen.Shrink, re-running each candidate under the same seed (spec.md
// §4.7), and returns the Execution of the shrunk scenario and false.
func Verify[Conc ConcurrentSpec[Op, Ret], Seq SequentialSpec[Op, Ret], Op any, Ret comparable](
	v Verifier, newConc func() Conc, newSeq func() Seq, g gen.OpGenerator[Op],
) (history.Execution[Op, Ret], bool) {
	exec, ok, _ := VerifyWithStats[Conc, Seq](v, newConc, newSeq, g)
	return exec, ok
}

// VerifyWithStats behaves like Verify but also returns the trial
// statistics of spec.md §4.9 (pretty.Statistics), for callers that want
// to report more than a pass/fail verdict.
func VerifyWithStats[Conc ConcurrentSpec[Op, Ret], Seq SequentialSpec[Op, Ret], Op any, Ret comparable](
	v Verifier, newConc func() Conc, newSeq func() Seq, g gen.OpGenerator[Op],
) (history.Execution[Op, Ret], bool, pretty.Statistics) {
	cfg := v.Config
	runID := uuid.New()
	shape := gen.Shape{MaxThreads: cfg.MaxThreads, MaxOpsPerThread: cfg.MaxOpsPerThread}

	logger := log.With().Str("run_id", runID.String()).Logger()

	seedSrc := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^1))

	var last history.Execution[Op, Ret]
	stats := pretty.Statistics{}
	for trial := 0; trial < cfg.Trials; trial++ {
		seed := int64(seedSrc.Uint64())
		scenario := gen.GenerateScenario[Op](seed, shape, g)

		logger.Debug().
			Int("trial", trial).
			Int64("seed", seed).
			Int("threads", len(scenario.ParallelPart)).
			Msg("running trial")

		exec := runTrial[Conc, Op, Ret](seed, scenario, newConc)
		last = exec
		stats.Trials++

		if checker.Check[Seq](exec, newSeq) {
			stats.Linearizable++
			continue
		}
		stats.NotLinearizable++

		logger.Warn().Int("trial", trial).Int64("seed", seed).Msg("found non-linearizable execution, shrinking")

		shrunkScenario, steps := gen.Shrink(scenario, func(s gen.Scenario[Op]) bool {
			e := runTrial[Conc, Op, Ret](seed, s, newConc)
			return !checker.Check[Seq](e, newSeq)
		})
		final := runTrial[Conc, Op, Ret](seed, shrunkScenario, newConc)
		stats.ShrinkSteps = steps

		logger.Error().
			Int("trial", trial).
			Int64("seed", seed).
			Int("shrink_steps", steps).
			Msg("linearizability check failed")

		return final, false, stats
	}

	logger.Info().Int("trials", cfg.Trials).Msg("all trials linearizable")
	return last, true, stats
}

// VerifyOrPanic behaves like Verify but panics with a pretty-rendered
// timeline of the counterexample on failure (spec.md §7).
func VerifyOrPanic[Conc ConcurrentSpec[Op, Ret], Seq SequentialSpec[Op, Ret], Op any, Ret comparable](
	v Verifier, newConc func() Conc, newSeq func() Seq, g gen.OpGenerator[Op],
) {
	exec, ok := Verify[Conc, Seq](v, newConc, newSeq, g)
	if !ok {
		panic(pretty.FormatViolation(exec))
	}
}

func runTrial[Conc ConcurrentSpec[Op, Ret], Op any, Ret comparable](
	seed int64, scenario gen.Scenario[Op], newConc func() Conc,
) history.Execution[Op, Ret] {
	sut := newConc()
	var exec history.Execution[Op, Ret]
	schedule.Model(seed, func(s *schedule.Scheduler) {
		exec = executor.Run[Conc, Op, Ret](s, executor.Scenario[Op]{
			InitPart:     scenario.InitPart,
			ParallelPart: scenario.ParallelPart,
			PostPart:     scenario.PostPart,
		}, sut)
	})
	return exec
}
