package gen

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intGen struct{}

func (intGen) Gen(r *rand.Rand) int { return r.IntN(100) }

func TestGenerateScenario_RespectsShape(t *testing.T) {
	shape := Shape{MaxThreads: 3, MaxOpsPerThread: 5}
	s := GenerateScenario[int](1, shape, intGen{})

	assert.LessOrEqual(t, len(s.ParallelPart), shape.MaxThreads)
	assert.GreaterOrEqual(t, len(s.ParallelPart), 1)
	for _, ops := range s.ParallelPart {
		assert.LessOrEqual(t, len(ops), shape.MaxOpsPerThread)
	}
}

func TestGenerateScenario_SameSeedSameScenario(t *testing.T) {
	shape := Shape{MaxThreads: 4, MaxOpsPerThread: 6}
	a := GenerateScenario[int](99, shape, intGen{})
	b := GenerateScenario[int](99, shape, intGen{})
	assert.Equal(t, a, b)
}

func TestShrink_ReducesWhileScenarioStillFails(t *testing.T) {
	scenario := Scenario[int]{
		InitPart:     []int{1, 2, 3},
		ParallelPart: [][]int{{4, 5, 6}, {7, 8}},
		PostPart:     []int{9},
	}

	// Fails only while it contains the value 5.
	stillFails := func(s Scenario[int]) bool {
		for _, ops := range s.ParallelPart {
			for _, op := range ops {
				if op == 5 {
					return true
				}
			}
		}
		return false
	}
	require.True(t, stillFails(scenario))

	shrunk, steps := Shrink(scenario, stillFails)

	assert.True(t, stillFails(shrunk))
	assert.Greater(t, steps, 0)
	assert.LessOrEqual(t, totalOps(shrunk), totalOps(scenario))
}

func TestShrink_NoReductionWhenAlreadyEmpty(t *testing.T) {
	scenario := Scenario[int]{}
	stillFails := func(Scenario[int]) bool { return true }

	shrunk, steps := Shrink(scenario, stillFails)
	assert.Equal(t, 0, steps)
	assert.Equal(t, scenario, shrunk)
}

func totalOps(s Scenario[int]) int {
	n := len(s.InitPart) + len(s.PostPart)
	for _, ops := range s.ParallelPart {
		n += len(ops)
	}
	return n
}
