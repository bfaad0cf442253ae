// Package record implements the history recorder state machine of
// spec.md §4.4: a type-state builder with four phases
// (Init → Parallel → {PerThread}* → Post → Execution) that assigns
// monotone timestamps and thread ids with the minimal cross-thread
// synchronization needed to preserve call/return ordering.
//
// The hot path (PerThreadRecorder.Record) performs exactly two atomic
// fetch-adds on a shared counter and takes no lock; the only lock is
// the merge mutex acquired once, when a per-thread recorder releases
// its buffer into the shared parallel history. This mirrors the
// teacher's own discipline in model/multi_thread.go, where atomics
// carry the hot path and a single mutex guards the shared buffer.
package record

import (
	"sync"
	"sync/atomic"

	"github.com/linzcheck/linz/history"
)

// ErrPhaseClosed is the usage error described in spec.md §4.4:
// attempting record on an init or post recorder after it has been
// consumed by a phase transition.
type ErrPhaseClosed struct {
	Phase string
}

func (e ErrPhaseClosed) Error() string {
	return "record: " + e.Phase + " recorder used after its phase transition"
}

// InitRecorder is the first phase: sequential, no timestamps.
type InitRecorder[Op any, Ret comparable] struct {
	initPart []history.Invocation[Op, Ret]
	closed   bool
}

// NewInit starts a fresh recorder in the Init phase.
func NewInit[Op any, Ret comparable]() *InitRecorder[Op, Ret] {
	return &InitRecorder[Op, Ret]{}
}

// Record runs thunk to obtain ret and appends {op, ret} to the init
// history. No timestamps are assigned in this phase.
func (r *InitRecorder[Op, Ret]) Record(op Op, thunk func() Ret) Ret {
	if r.closed {
		panic(ErrPhaseClosed{Phase: "init"})
	}
	ret := thunk()
	r.initPart = append(r.initPart, history.Invocation[Op, Ret]{Op: op, Ret: ret})
	return ret
}

// StartParallel transitions to the Parallel root phase.
func (r *InitRecorder[Op, Ret]) StartParallel() *ParallelRecorder[Op, Ret] {
	r.closed = true
	return newParallelRecorder[Op, Ret](r.initPart)
}

// Finish skips the parallel and post phases entirely, useful for
// purely sequential executions (spec.md §8 round-trip law R1).
func (r *InitRecorder[Op, Ret]) Finish() history.Execution[Op, Ret] {
	r.closed = true
	return history.Execution[Op, Ret]{InitPart: r.initPart}
}

// ParallelRecorder is the parallel root phase: spawn_thread_recorder
// may be called repeatedly and concurrently; each call allocates a
// fresh, increasing thread id.
type ParallelRecorder[Op any, Ret comparable] struct {
	initPart     []history.Invocation[Op, Ret]
	nextThreadID atomic.Int64
	timer        atomic.Int64

	mergeMu      sync.Mutex
	parallelPart []history.ParallelInvocation[Op, Ret]
	closed       atomic.Bool
}

func newParallelRecorder[Op any, Ret comparable](initPart []history.Invocation[Op, Ret]) *ParallelRecorder[Op, Ret] {
	return &ParallelRecorder[Op, Ret]{initPart: initPart}
}

// SpawnThread allocates a fresh PerThreadRecorder with the next
// increasing thread id. Safe to call concurrently from multiple
// goroutines.
func (r *ParallelRecorder[Op, Ret]) SpawnThread() *PerThreadRecorder[Op, Ret] {
	id := history.ThreadID(r.nextThreadID.Add(1) - 1)
	return &PerThreadRecorder[Op, Ret]{
		threadID: id,
		parent:   r,
	}
}

// StartPost transitions to the Post phase, consuming the parallel
// buffer accumulated so far. Callers must have released every
// PerThreadRecorder first (executor releases each one at the end of
// that thread's last step).
func (r *ParallelRecorder[Op, Ret]) StartPost() *PostRecorder[Op, Ret] {
	r.closed.Store(true)
	r.mergeMu.Lock()
	parallelPart := r.parallelPart
	r.mergeMu.Unlock()
	return &PostRecorder[Op, Ret]{
		initPart:     r.initPart,
		parallelPart: parallelPart,
	}
}

// Finish ends the execution without a post phase.
func (r *ParallelRecorder[Op, Ret]) Finish() history.Execution[Op, Ret] {
	r.closed.Store(true)
	r.mergeMu.Lock()
	parallelPart := r.parallelPart
	r.mergeMu.Unlock()
	return history.Execution[Op, Ret]{InitPart: r.initPart, ParallelPart: parallelPart}
}

func (r *ParallelRecorder[Op, Ret]) release(buf []history.ParallelInvocation[Op, Ret]) {
	r.mergeMu.Lock()
	r.parallelPart = append(r.parallelPart, buf...)
	r.mergeMu.Unlock()
}

// PerThreadRecorder is the per-thread phase: record ticks a shared
// timestamp counter twice per invocation (once on call, once on
// return) with relaxed/atomic ordering and zero locks, then buffers
// the invocation locally. Release merges the local buffer into the
// shared parallel history under a single critical section.
type PerThreadRecorder[Op any, Ret comparable] struct {
	threadID    history.ThreadID
	parent      *ParallelRecorder[Op, Ret]
	invocations []history.ParallelInvocation[Op, Ret]
	released    bool
}

// ThreadID reports the id this recorder was assigned.
func (r *PerThreadRecorder[Op, Ret]) ThreadID() history.ThreadID { return r.threadID }

// PendingCall is the call half of an invocation started by BeginCall
// and completed by EndCall, letting a caller (executor) interleave
// other threads' steps between an invocation's call and return ticks
// instead of running the whole invocation as one atomic unit.
type PendingCall[Op any] struct {
	op     Op
	callTS history.Timestamp
}

// BeginCall ticks the shared timestamp counter once to obtain call_ts
// and returns a token to complete the invocation with EndCall. Between
// BeginCall and EndCall, other threads may record their own call and
// return ticks, which is what lets recorded invocations genuinely
// overlap (spec.md §3's happens-before definition is only interesting
// when invocations can overlap in the first place).
func (r *PerThreadRecorder[Op, Ret]) BeginCall(op Op) PendingCall[Op] {
	if r.released {
		panic(ErrPhaseClosed{Phase: "per-thread"})
	}
	callTS := history.Timestamp(r.parent.timer.Add(1) - 1)
	return PendingCall[Op]{op: op, callTS: callTS}
}

// EndCall ticks the shared timestamp counter once more to obtain
// return_ts and buffers the completed invocation locally.
func (r *PerThreadRecorder[Op, Ret]) EndCall(pc PendingCall[Op], ret Ret) Ret {
	if r.released {
		panic(ErrPhaseClosed{Phase: "per-thread"})
	}
	returnTS := history.Timestamp(r.parent.timer.Add(1) - 1)
	r.invocations = append(r.invocations, history.ParallelInvocation[Op, Ret]{
		ThreadID: r.threadID,
		CallTS:   pc.callTS,
		ReturnTS: returnTS,
		Op:       pc.op,
		Ret:      ret,
	})
	return ret
}

// Record times thunk's execution: call_ts and return_ts are each
// obtained by a fetch-add on the shared counter, guaranteeing
// call_ts < return_ts and global uniqueness across all threads. It is
// BeginCall and EndCall run back to back with no scheduler step in
// between, suitable for direct (non-scheduler-driven) use and tests.
func (r *PerThreadRecorder[Op, Ret]) Record(op Op, thunk func() Ret) Ret {
	pc := r.BeginCall(op)
	ret := thunk()
	return r.EndCall(pc, ret)
}

// Release merges this thread's buffered invocations into the shared
// parallel history. Must be called exactly once, after the thread has
// finished recording (executor calls it at the end of the thread's
// last step). Go has no destructor to do this implicitly, unlike the
// original Rust source's Drop.
func (r *PerThreadRecorder[Op, Ret]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.parent.release(r.invocations)
}

// PostRecorder is the sequential suffix phase.
type PostRecorder[Op any, Ret comparable] struct {
	initPart     []history.Invocation[Op, Ret]
	parallelPart []history.ParallelInvocation[Op, Ret]
	postPart     []history.Invocation[Op, Ret]
	closed       bool
}

func (r *PostRecorder[Op, Ret]) Record(op Op, thunk func() Ret) Ret {
	if r.closed {
		panic(ErrPhaseClosed{Phase: "post"})
	}
	ret := thunk()
	r.postPart = append(r.postPart, history.Invocation[Op, Ret]{Op: op, Ret: ret})
	return ret
}

// Finish emits the completed Execution.
func (r *PostRecorder[Op, Ret]) Finish() history.Execution[Op, Ret] {
	r.closed = true
	return history.Execution[Op, Ret]{
		InitPart:     r.initPart,
		ParallelPart: r.parallelPart,
		PostPart:     r.postPart,
	}
}
