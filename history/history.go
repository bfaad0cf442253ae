// Package history holds the timed invocation records produced by
// record and consumed by checker and pretty. Every value here is
// built once and never mutated afterwards.
package history

// ThreadID identifies a thread within the parallel part of an
// Execution. Thread ids are assigned in increasing order as threads
// are spawned.
type ThreadID int

// Timestamp is a process-wide monotone tick, incremented once per
// call and once per return in the parallel part. Ticks are unique
// across the whole Execution.
type Timestamp int64

// Invocation is a single sequential call/return pair, used for the
// init and post parts where operations never overlap.
type Invocation[Op any, Ret comparable] struct {
	Op  Op
	Ret Ret
}

// ParallelInvocation additionally records the thread that performed
// the call and the timestamps bracketing it. CallTS < ReturnTS always
// holds, and timestamps are unique across the whole parallel part.
type ParallelInvocation[Op any, Ret comparable] struct {
	ThreadID ThreadID
	CallTS   Timestamp
	ReturnTS Timestamp
	Op       Op
	Ret      Ret
}

// Execution is the complete, timestamped record of one scenario run:
// a sequential prefix, an overlapping parallel phase, and a
// sequential suffix.
type Execution[Op any, Ret comparable] struct {
	InitPart     []Invocation[Op, Ret]
	ParallelPart []ParallelInvocation[Op, Ret]
	PostPart     []Invocation[Op, Ret]
}

// GetThreadParts groups ParallelPart by ThreadID, preserving each
// thread's original relative order. Used by pretty to lay out one
// column per thread.
func (e Execution[Op, Ret]) GetThreadParts() [][]ParallelInvocation[Op, Ret] {
	var parts [][]ParallelInvocation[Op, Ret]
	for _, inv := range e.ParallelPart {
		for len(parts) <= int(inv.ThreadID) {
			parts = append(parts, nil)
		}
		parts[inv.ThreadID] = append(parts[inv.ThreadID], inv)
	}
	return parts
}

// HappensBefore reports whether a happens-before b: a's return tick
// strictly precedes b's call tick (spec.md §3).
func HappensBefore[Op any, Ret comparable](a, b ParallelInvocation[Op, Ret]) bool {
	return a.ReturnTS < b.CallTS
}
