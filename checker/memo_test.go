package checker

import (
	"encoding/binary"
	"testing"

	"github.com/linzcheck/linz/history"
	"github.com/linzcheck/linz/memo"
	"github.com/stretchr/testify/assert"
)

// fingerprintedCounter is a trivial sequential spec whose entire
// state is one int, letting WithMemo's cache key include it exactly.
type counterOp struct{ delta int }

type counterRet int

type fingerprintedCounter struct {
	value int
}

func newFingerprintedCounter() *fingerprintedCounter { return &fingerprintedCounter{} }

func (c *fingerprintedCounter) Exec(op counterOp) counterRet {
	c.value += op.delta
	return counterRet(c.value)
}

func (c *fingerprintedCounter) Fingerprint() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(int64(c.value)))
	return buf
}

func TestCheck_WithMemo_AgreesWithUnmemoizedResult(t *testing.T) {
	exec := history.Execution[counterOp, counterRet]{
		ParallelPart: []history.ParallelInvocation[counterOp, counterRet]{
			{ThreadID: 0, CallTS: 0, ReturnTS: 2, Op: counterOp{delta: 1}, Ret: counterRet(1)},
			{ThreadID: 1, CallTS: 1, ReturnTS: 3, Op: counterOp{delta: 2}, Ret: counterRet(3)},
		},
	}

	without := Check[*fingerprintedCounter](exec, newFingerprintedCounter)
	with := Check[*fingerprintedCounter](exec, newFingerprintedCounter, WithMemo(memo.NewMemoryCache()))

	assert.Equal(t, without, with, "enabling memoization must never change the verdict")
	assert.True(t, with)
}

func TestCheck_WithMemo_IgnoredWhenSeqIsNotFingerprinter(t *testing.T) {
	exec := history.Execution[stackCall, stackRet]{
		ParallelPart: []history.ParallelInvocation[stackCall, stackRet]{
			{ThreadID: 0, CallTS: 0, ReturnTS: 2, Op: push(1), Ret: pushRet()},
		},
	}

	ok := Check[*sequentialStack](exec, newSequentialStack, WithMemo(memo.NewMemoryCache()))
	assert.True(t, ok, "WithMemo must be a no-op, not a failure, for specs without Fingerprint")
}
