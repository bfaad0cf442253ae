package pretty

import (
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/linzcheck/linz/history"
	"github.com/stretchr/testify/assert"
)

func TestFormat_IncludesEverySection(t *testing.T) {
	color.Disable()
	exec := history.Execution[string, int]{
		InitPart: []history.Invocation[string, int]{{Op: "push 1", Ret: 0}},
		ParallelPart: []history.ParallelInvocation[string, int]{
			{ThreadID: 0, CallTS: 1, ReturnTS: 3, Op: "pop", Ret: 1},
		},
		PostPart: []history.Invocation[string, int]{{Op: "pop", Ret: 0}},
	}

	out := Format(exec)

	assert.Contains(t, out, "Init:")
	assert.Contains(t, out, "push 1")
	assert.Contains(t, out, "Parallel:")
	assert.Contains(t, out, "Thread 0:")
	assert.Contains(t, out, "[1,3)")
	assert.Contains(t, out, "Post:")
}

func TestFormat_EmptyExecution(t *testing.T) {
	color.Disable()
	out := Format(history.Execution[string, int]{})
	assert.Empty(t, strings.TrimSpace(out))
}

func TestFormatViolation_WrapsFormatInABanner(t *testing.T) {
	color.Disable()
	exec := history.Execution[string, int]{
		InitPart: []history.Invocation[string, int]{{Op: "x", Ret: 0}},
	}

	out := FormatViolation(exec)
	assert.Contains(t, out, "NOT LINEARIZABLE")
	assert.Contains(t, out, "x")
}

func TestFormatStatistics_ReflectsCounts(t *testing.T) {
	color.Disable()
	out := FormatStatistics(Statistics{Trials: 100, Linearizable: 99, NotLinearizable: 1, ShrinkSteps: 4})

	assert.Contains(t, out, "100")
	assert.Contains(t, out, "99")
	assert.Contains(t, out, "4")
}
