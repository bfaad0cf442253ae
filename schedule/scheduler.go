// Package schedule is a minimal cooperative scheduler standing in for
// the exhaustive interleaving model checker that spec.md treats as an
// external collaborator (spec.md §4.5, §6, §9). It is grounded in the
// teacher's model.SingleThreadEngine / model.MultiThreadEngine
// worker-queue design (goroutines + channels + sync.WaitGroup) but
// trades the teacher's exhaustive BFS over the whole interleaving
// space for a single seeded-random walk per trial: each modeled
// thread runs its steps one at a time, and a controller goroutine
// repeatedly picks a uniformly random runnable thread to advance,
// using math/rand/v2 seeded for exact replay.
package schedule

import (
	"math/rand/v2"
	"sync"
)

// ThreadHandle identifies a thread spawned into a Scheduler.
type ThreadHandle struct {
	state *threadState
}

type threadState struct {
	steps    []func()
	next     int
	advance  chan struct{}
	stepDone chan struct{}
}

func (ts *threadState) run() {
	for i := 0; i < len(ts.steps); i++ {
		<-ts.advance
		ts.steps[i]()
		ts.next = i + 1
		ts.stepDone <- struct{}{}
	}
}

// Scheduler drives one pseudo-random legal interleaving of the
// threads spawned into it during a single Model call.
type Scheduler struct {
	rng      *rand.Rand
	mu       sync.Mutex
	cond     *sync.Cond
	threads  []*threadState
	spawning bool
	// joinTarget is the thread body is currently blocked on in Join, if any.
	joinTarget *threadState
}

func newScheduler(seed int64) *Scheduler {
	s := &Scheduler{
		rng:      rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		spawning: true,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Spawn registers a modeled thread whose body is the given ordered
// steps; each step runs to completion without interruption once the
// scheduler picks it. Steps of different threads may be interleaved in
// any order the scheduler chooses, but a single thread's own steps
// always run in the order given. Steps only run while body is blocked
// in Join or after body has returned, never concurrently with body's
// own code.
func (s *Scheduler) Spawn(steps ...func()) *ThreadHandle {
	ts := &threadState{
		steps:    steps,
		advance:  make(chan struct{}),
		stepDone: make(chan struct{}),
	}
	s.mu.Lock()
	s.threads = append(s.threads, ts)
	s.cond.Broadcast()
	s.mu.Unlock()

	go ts.run()
	return &ThreadHandle{state: ts}
}

// Join blocks until every step of h's thread has run. Establishing
// the happens-before edge this way needs no extra synchronization
// beyond ordinary goroutine lifetime, since the channel rendezvous in
// threadState.run already orders everything before it against
// everything after it (Go's memory model, not a new invention).
func (s *Scheduler) Join(h *ThreadHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joinTarget = h.state
	s.cond.Broadcast()
	for h.state.next < len(h.state.steps) {
		s.cond.Wait()
	}
	s.joinTarget = nil
}

func (s *Scheduler) drive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		var runnable []*threadState
		for _, ts := range s.threads {
			if ts.next < len(ts.steps) {
				runnable = append(runnable, ts)
			}
		}
		joining := s.joinTarget != nil && s.joinTarget.next < len(s.joinTarget.steps)
		if len(runnable) > 0 && (!s.spawning || joining) {
			pick := runnable[s.rng.IntN(len(runnable))]
			s.mu.Unlock()
			pick.advance <- struct{}{}
			<-pick.stepDone
			s.mu.Lock()
			s.cond.Broadcast()
			continue
		}
		if !s.spawning {
			return
		}
		s.cond.Wait()
	}
}

// Model runs body once under a fresh Scheduler seeded with seed. body
// is expected to Spawn threads (and may Join any of them to sequence
// work after the parallel part, as executor does before starting the
// post phase); Model itself blocks until every spawned thread has run
// every step, so no explicit final Join is required.
//
// The same seed always reproduces the same interleaving, since the
// only source of nondeterminism (which runnable thread advances next)
// is drawn from a seeded math/rand/v2 generator rather than real OS
// thread scheduling.
func Model(seed int64, body func(s *Scheduler)) {
	s := newScheduler(seed)
	driveDone := make(chan struct{})
	go func() {
		s.drive()
		close(driveDone)
	}()

	body(s)

	s.mu.Lock()
	s.spawning = false
	s.cond.Broadcast()
	s.mu.Unlock()

	<-driveDone
}
