package checker

import (
	"testing"

	"github.com/linzcheck/linz/history"
	"pgregory.net/rapid"
)

// TestCheck_PurelySequentialHistoryAlwaysLinearizes fuzzes random
// push/pop sequences with an empty parallel part: a history with no
// overlap at all must always be found linearizable, since the only
// legal linearization is the recorded order itself (spec.md §8, round
// trip law R1 applied transitively through init/post).
func TestCheck_PurelySequentialHistoryAlwaysLinearizes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")

		stack := newSequentialStack()
		var init []history.Invocation[stackCall, stackRet]
		for i := 0; i < n; i++ {
			var op stackCall
			if len(stack.items) > 0 && rapid.Bool().Draw(rt, "pop") {
				op = pop()
			} else {
				op = push(rapid.IntRange(0, 100).Draw(rt, "value"))
			}
			ret := stack.Exec(op)
			init = append(init, history.Invocation[stackCall, stackRet]{Op: op, Ret: ret})
		}

		exec := history.Execution[stackCall, stackRet]{InitPart: init}
		if !Check[*sequentialStack](exec, newSequentialStack) {
			rt.Fatalf("a history with no parallel part and correct returns must always linearize")
		}
	})
}

// TestCheck_CorruptingASingleReturnValueFails builds a sequential
// history of five pushes, then appends a pop whose recorded return is a
// value the sequential spec could not have produced there; such a
// history must be rejected.
func TestCheck_CorruptingASingleReturnValueFails(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		stack := newSequentialStack()
		var init []history.Invocation[stackCall, stackRet]
		for i := 0; i < 5; i++ {
			op := push(i)
			ret := stack.Exec(op)
			init = append(init, history.Invocation[stackCall, stackRet]{Op: op, Ret: ret})
		}
		// A pop after five pushes of distinct values must return the
		// last one pushed; claim a different one instead.
		init = append(init, history.Invocation[stackCall, stackRet]{
			Op:  pop(),
			Ret: popRet(999, true),
		})

		exec := history.Execution[stackCall, stackRet]{InitPart: init}
		if Check[*sequentialStack](exec, newSequentialStack) {
			rt.Fatalf("a history with an impossible return value must not linearize")
		}
	})
}
