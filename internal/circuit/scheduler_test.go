package circuit

import (
	"testing"

	"github.com/qdeck-labs/qsim/internal/gate"
	"github.com/stretchr/testify/require"
)

func single(q int) *Op {
	return &Op{OpTag: OpSingle, Kind: gate.H, Qubit: q}
}

func two(c, t int) *Op {
	return &Op{OpTag: OpTwo, TwoKind: gate.CNOT, Control: c, TargetQubit: t}
}

func TestSchedulerPacksIndependentQubitsIntoOneMoment(t *testing.T) {
	s := NewScheduler(3)
	s.Place(single(0))
	s.Place(single(1))
	s.Place(single(2))

	moments := s.Moments()
	require.Len(t, moments, 1)
	require.Len(t, moments[0].Ops, 3)
}

func TestSchedulerSerializesConflictingQubits(t *testing.T) {
	s := NewScheduler(2)
	s.Place(single(0))
	s.Place(single(0))

	moments := s.Moments()
	require.Len(t, moments, 2)
	require.Len(t, moments[0].Ops, 1)
	require.Len(t, moments[1].Ops, 1)
}

func TestSchedulerTwoQubitOpBlocksBoth(t *testing.T) {
	s := NewScheduler(3)
	s.Place(two(0, 1))
	s.Place(single(1))
	s.Place(single(2))

	moments := s.Moments()
	require.Len(t, moments, 2)
	require.Len(t, moments[0].Ops, 2) // cx(0,1) and h(2) are disjoint
	require.Len(t, moments[1].Ops, 1) // h(1) waits for cx
}

func TestBarrierForcesLaterMoment(t *testing.T) {
	s := NewScheduler(2)
	s.Place(single(0))
	s.Barrier(nil)
	s.Place(single(1))

	moments := s.Moments()
	require.Len(t, moments, 2)
	require.Equal(t, 1, moments[1].Ops[0].Qubit)
	_ = moments
}

func TestMomentsNeverOverlapQubitSupport(t *testing.T) {
	s := NewScheduler(4)
	s.Place(single(0))
	s.Place(two(1, 2))
	s.Place(single(3))
	s.Place(single(1))
	s.Place(two(2, 3))

	for _, m := range s.Moments() {
		seen := map[int]bool{}
		for _, op := range m.Ops {
			for _, q := range op.Qubits() {
				require.False(t, seen[q], "qubit %d used twice in one moment", q)
				seen[q] = true
			}
		}
	}
}
