// Package executor drives one Scenario through a schedule.Scheduler
// and record's Init/Parallel/Post recorder chain against a concurrent system under test,
// producing the timed history.Execution that checker consumes. It
// implements spec.md §4.5 unchanged: init part sequentially, parallel
// part across one goroutine per thread, post part sequentially.
package executor

import (
	"github.com/linzcheck/linz/history"
	"github.com/linzcheck/linz/record"
	"github.com/linzcheck/linz/schedule"
)

// ConcurrentSpec is the system under test: a concurrent data
// structure exercised through plain Op/Ret values, one goroutine (and
// possibly many) at a time. Implementations must be safe for
// concurrent Exec calls, since the parallel part of a Scenario runs
// several threads against the same instance (spec.md §4.2).
type ConcurrentSpec[Op any, Ret comparable] interface {
	Exec(op Op) Ret
}

// Scenario is a single generated test case: a sequential prefix, a
// set of per-thread operation lists that run concurrently, and a
// sequential suffix (spec.md §4.5).
type Scenario[Op any] struct {
	InitPart     []Op
	ParallelPart [][]Op
	PostPart     []Op
}

// Run drives scenario against sut under a single interleaving chosen
// by sched, returning the complete timed Execution. The seed baked
// into sched (via schedule.Model) determines which interleaving is
// picked; the same (scenario, seed) pair always reproduces the same
// Execution, which is what lets the Verifier's replay of a failing
// trial's seed (spec.md §4.7) work.
func Run[Conc ConcurrentSpec[Op, Ret], Op any, Ret comparable](
	sched *schedule.Scheduler, scenario Scenario[Op], sut Conc,
) history.Execution[Op, Ret] {
	init := record.NewInit[Op, Ret]()
	for _, op := range scenario.InitPart {
		op := op
		init.Record(op, func() Ret { return sut.Exec(op) })
	}

	par := init.StartParallel()

	handles := make([]*schedule.ThreadHandle, 0, len(scenario.ParallelPart))
	for _, ops := range scenario.ParallelPart {
		steps := threadSteps(par, ops, sut)
		if len(steps) == 0 {
			continue
		}
		handles = append(handles, sched.Spawn(steps...))
	}
	for _, h := range handles {
		sched.Join(h)
	}

	post := par.StartPost()
	for _, op := range scenario.PostPart {
		op := op
		post.Record(op, func() Ret { return sut.Exec(op) })
	}

	return post.Finish()
}

// threadSteps builds two scheduler steps per op in ops — one ticking
// call_ts, one running the op and ticking return_ts — instead of one
// step per whole operation. A scheduler that only ever ran a thread's
// entire operation as a single atomic step could never produce
// overlapping invocations: every call/return interval would be fully
// contained within one uninterrupted step, so no two threads' recorded
// timestamps could ever interleave and the checker would only ever see
// a total order. Splitting call and return into separate scheduler
// decision points is what lets the scheduler genuinely interleave
// threads mid-operation, producing the overlapping ParallelInvocations
// that make the search in checker non-trivial.
func threadSteps[Conc ConcurrentSpec[Op, Ret], Op any, Ret comparable](
	par *record.ParallelRecorder[Op, Ret], ops []Op, sut Conc,
) []func() {
	if len(ops) == 0 {
		return nil
	}
	th := par.SpawnThread()
	steps := make([]func(), 0, 2*len(ops))
	for i, op := range ops {
		op := op
		last := i == len(ops)-1
		var pc record.PendingCall[Op]
		steps = append(steps, func() {
			pc = th.BeginCall(op)
		})
		steps = append(steps, func() {
			th.EndCall(pc, sut.Exec(op))
			if last {
				th.Release()
			}
		})
	}
	return steps
}
