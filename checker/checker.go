// Package checker implements the backtracking linearizability search
// of spec.md §4.6: it tries every topological ordering of the
// happens-before DAG over the parallel part of a history.Execution,
// replaying each candidate order against a fresh sequential reference
// implementation, until one matches every recorded return value (or
// every ordering is exhausted).
//
// The algorithm is ported unchanged from the original Rust source's
// checker.rs: precomputed happens-before adjacency, an in-degree
// count mutated as invocations are tentatively linearized and undone,
// and a "minimal" frontier of invocations with in-degree zero that are
// legal to linearize next.
package checker

import (
	"bytes"
	"sort"

	"github.com/shamaton/msgpack/v2"

	"github.com/linzcheck/linz/history"
	"github.com/linzcheck/linz/memo"
)

// SequentialSpec is a reference implementation that defines the
// correct result of every Op, executed one at a time with no
// concurrency. Check constructs a fresh instance (via the newSeq
// factory passed to Check) for every backtracking branch, since Go
// has no generic "zero-arg constructor" constraint.
type SequentialSpec[Op any, Ret comparable] interface {
	Exec(op Op) Ret
}

// Fingerprinter is an optional extension to SequentialSpec: sequential
// specs that implement it make WithMemo's memoization hook effective,
// since the cache key includes a fingerprint of the current
// sequential state (spec.md §9's Wing-Gong style optimization).
type Fingerprinter interface {
	Fingerprint() []byte
}

// Option configures a Check or CheckWithWitness call.
type Option func(*options)

type options struct {
	memoCache memo.Cache
}

// WithMemo enables memoization of (linearized-prefix, sequential
// state) pairs already proven to fail, short-circuiting the search
// when the checker returns to an equivalent state by a different
// path. It only has an effect when Seq also implements Fingerprinter;
// otherwise it is silently ignored, since there is no cheap way to
// derive a state fingerprint from an arbitrary Ret type.
func WithMemo(cache memo.Cache) Option {
	return func(o *options) { o.memoCache = cache }
}

// Check reports whether exec is linearizable with respect to Seq.
// newSeq must return a fresh, empty instance of the sequential
// reference implementation each time it's called.
func Check[Seq SequentialSpec[Op, Ret], Op any, Ret comparable](
	exec history.Execution[Op, Ret], newSeq func() Seq, opts ...Option,
) bool {
	ok, _ := run[Seq, Op, Ret](exec, newSeq, false, opts)
	return ok
}

// CheckWithWitness behaves like Check but additionally returns, on
// success, the sequence of parallel-part invocation indices in a
// linearization order that witnesses it (spec.md §4.7 / property P3).
// The indices refer to positions in exec.ParallelPart.
func CheckWithWitness[Seq SequentialSpec[Op, Ret], Op any, Ret comparable](
	exec history.Execution[Op, Ret], newSeq func() Seq, opts ...Option,
) (ok bool, linearization []int) {
	return run[Seq, Op, Ret](exec, newSeq, true, opts)
}

type checker[Seq SequentialSpec[Op, Ret], Op any, Ret comparable] struct {
	exec       history.Execution[Op, Ret]
	hbOut      [][]int
	inDegree   []int
	minimal    map[int]struct{}
	linearized []int
	seqState   Seq
	newSeq     func() Seq
	keepPath   bool
	cache      memo.Cache
}

func run[Seq SequentialSpec[Op, Ret], Op any, Ret comparable](
	exec history.Execution[Op, Ret], newSeq func() Seq, keepPath bool, opts []Option,
) (bool, []int) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	parallel := exec.ParallelPart
	hbOut := make([][]int, len(parallel))
	for a := range parallel {
		for b := range parallel {
			if history.HappensBefore(parallel[a], parallel[b]) {
				hbOut[a] = append(hbOut[a], b)
			}
		}
	}

	inDegree := make([]int, len(parallel))
	for _, outs := range hbOut {
		for _, b := range outs {
			inDegree[b]++
		}
	}

	minimal := make(map[int]struct{})
	for id, deg := range inDegree {
		if deg == 0 {
			minimal[id] = struct{}{}
		}
	}

	c := &checker[Seq, Op, Ret]{
		exec:     exec,
		hbOut:    hbOut,
		inDegree: inDegree,
		minimal:  minimal,
		seqState: newSeq(),
		newSeq:   newSeq,
		keepPath: keepPath,
		cache:    o.memoCache,
	}

	ok := c.checkInitPart()
	if !ok || !keepPath {
		return ok, nil
	}
	return ok, append([]int(nil), c.linearized...)
}

func (c *checker[Seq, Op, Ret]) checkInitPart() bool {
	for _, inv := range c.exec.InitPart {
		if c.seqState.Exec(inv.Op) != inv.Ret {
			return false
		}
	}
	return c.checkParallelPart()
}

func (c *checker[Seq, Op, Ret]) checkParallelPart() bool {
	if len(c.minimal) == 0 {
		return c.checkPostPart()
	}

	if c.cache != nil {
		if key, ok := c.memoKey(); ok {
			if _, seen := c.cache.Seen(key); seen {
				return false
			}
		}
	}

	candidates := make([]int, 0, len(c.minimal))
	for id := range c.minimal {
		candidates = append(candidates, id)
	}
	sort.Ints(candidates)

	for _, invID := range candidates {
		c.call(invID)

		inv := c.exec.ParallelPart[invID]
		if c.seqState.Exec(inv.Op) == inv.Ret && c.checkParallelPart() {
			return true
		}

		c.undo(invID)
		c.rebuildSeqState()
	}
	return false
}

func (c *checker[Seq, Op, Ret]) checkPostPart() bool {
	for _, inv := range c.exec.PostPart {
		if c.seqState.Exec(inv.Op) != inv.Ret {
			return false
		}
	}
	return true
}

func (c *checker[Seq, Op, Ret]) call(invID int) {
	c.linearized = append(c.linearized, invID)
	delete(c.minimal, invID)
	for _, next := range c.hbOut[invID] {
		c.inDegree[next]--
		if c.inDegree[next] == 0 {
			c.minimal[next] = struct{}{}
		}
	}
}

func (c *checker[Seq, Op, Ret]) undo(invID int) {
	for _, next := range c.hbOut[invID] {
		if c.inDegree[next] == 0 {
			delete(c.minimal, next)
		}
		c.inDegree[next]++
	}
	c.minimal[invID] = struct{}{}
	c.linearized = c.linearized[:len(c.linearized)-1]
}

// rebuildSeqState replays the init part plus every invocation
// linearized so far from a fresh Seq instance, since Go has no
// general way to snapshot and restore arbitrary mutable state (unlike
// the teacher's immutable-by-convention model state). This is the one
// place the algorithm pays for backtracking with O(n) work per undo
// instead of O(1) state restore, matching original_source exactly.
func (c *checker[Seq, Op, Ret]) rebuildSeqState() {
	c.seqState = c.newSeq()
	for _, inv := range c.exec.InitPart {
		c.seqState.Exec(inv.Op)
	}
	for _, invID := range c.linearized {
		inv := c.exec.ParallelPart[invID]
		c.seqState.Exec(inv.Op)
	}
}

// memoKeyPair is the (frontier, state) pair spec.md §9 names as the
// Wing-Gong memoization key, msgpack-encoded so Cache.Seen gets a
// compact, deterministic byte key regardless of Fingerprint's length.
type memoKeyPair struct {
	Minimal     []int
	Fingerprint []byte
}

func (c *checker[Seq, Op, Ret]) memoKey() ([]byte, bool) {
	fp, ok := any(c.seqState).(Fingerprinter)
	if !ok {
		return nil, false
	}
	ids := make([]int, 0, len(c.minimal))
	for id := range c.minimal {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var buf bytes.Buffer
	pair := memoKeyPair{Minimal: ids, Fingerprint: fp.Fingerprint()}
	if err := msgpack.MarshalWrite(&buf, &pair); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
