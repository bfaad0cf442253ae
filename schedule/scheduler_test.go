package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_RunsAllStepsOfAllThreads(t *testing.T) {
	var order []string
	Model(1, func(s *Scheduler) {
		s.Spawn(
			func() { order = append(order, "a0") },
			func() { order = append(order, "a1") },
		)
		s.Spawn(
			func() { order = append(order, "b0") },
		)
	})

	require.Len(t, order, 3)
	assert.Contains(t, order, "a0")
	assert.Contains(t, order, "a1")
	assert.Contains(t, order, "b0")

	aIndex0, aIndex1 := -1, -1
	for i, v := range order {
		if v == "a0" {
			aIndex0 = i
		}
		if v == "a1" {
			aIndex1 = i
		}
	}
	assert.Less(t, aIndex0, aIndex1, "one thread's own steps must run in order")
}

func TestModel_SameSeedSameInterleaving(t *testing.T) {
	run := func(seed int64) []string {
		var order []string
		var mu int
		Model(seed, func(s *Scheduler) {
			for t := 0; t < 3; t++ {
				id := t
				s.Spawn(
					func() { mu++; order = append(order, label(id, 0)) },
					func() { mu++; order = append(order, label(id, 1)) },
				)
			}
		})
		return order
	}

	first := run(42)
	second := run(42)
	assert.Equal(t, first, second, "identical seeds must reproduce the identical interleaving")
}

func label(thread, step int) string {
	return string(rune('A'+thread)) + string(rune('0'+step))
}

func TestScheduler_JoinWaitsForThreadCompletion(t *testing.T) {
	Model(7, func(s *Scheduler) {
		done := false
		h := s.Spawn(func() { done = true })
		s.Join(h)
		assert.True(t, done, "Join must not return before the thread's steps ran")
	})
}

func TestModel_EmptyBody(t *testing.T) {
	assert.NotPanics(t, func() {
		Model(0, func(s *Scheduler) {})
	})
}
