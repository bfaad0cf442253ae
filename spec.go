package linz

import (
	"github.com/linzcheck/linz/checker"
	"github.com/linzcheck/linz/executor"
)

// SequentialSpec is the reference implementation checked against: a
// fresh instance, executed one operation at a time with no
// concurrency, defines the correct result of every Op (spec.md §4.1,
// C1). It is an alias for checker.SequentialSpec so callers only ever
// need to import the root package for the common case.
type SequentialSpec[Op any, Ret comparable] = checker.SequentialSpec[Op, Ret]

// ConcurrentSpec is the system under test: a concurrent data
// structure exercised through plain Op/Ret values by possibly many
// goroutines at once (spec.md §4.2, C2). An alias for
// executor.ConcurrentSpec.
type ConcurrentSpec[Op any, Ret comparable] = executor.ConcurrentSpec[Op, Ret]

// Scenario is a single generated test case, reused verbatim from
// executor so the harness and its callers share one type.
type Scenario[Op any] = executor.Scenario[Op]
