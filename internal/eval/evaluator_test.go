package eval

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/gate"
	"github.com/stretchr/testify/require"
)

func singleOp(kind gate.Kind, q int, params ...float64) *circuit.Op {
	return &circuit.Op{OpTag: circuit.OpSingle, Kind: kind, Qubit: q, Params: params}
}

func twoOp(kind gate.TwoKind, c, t int) *circuit.Op {
	return &circuit.Op{OpTag: circuit.OpTwo, TwoKind: kind, Control: c, TargetQubit: t}
}

func circuitOf(numQubits, numCbits int, moments ...[]*circuit.Op) *circuit.Circuit {
	ms := make([]circuit.Moment, len(moments))
	for i, ops := range moments {
		ms[i] = circuit.Moment{Ops: ops}
	}
	return &circuit.Circuit{NumQubits: numQubits, NumCbits: numCbits, Moments: ms}
}

func TestBellState(t *testing.T) {
	circ := circuitOf(2, 0,
		[]*circuit.Op{singleOp(gate.H, 0)},
		[]*circuit.Op{twoOp(gate.CNOT, 0, 1)},
	)
	ev := NewEvaluator(circ, nil)
	require.NoError(t, ev.Run())

	inv := 1 / math.Sqrt2
	require.InDelta(t, inv, real(ev.SV.Amplitudes[0]), 1e-9)
	require.InDelta(t, 0, real(ev.SV.Amplitudes[1]), 1e-9)
	require.InDelta(t, 0, real(ev.SV.Amplitudes[2]), 1e-9)
	require.InDelta(t, inv, real(ev.SV.Amplitudes[3]), 1e-9)

	probs := ev.SV.Probabilities()
	require.InDelta(t, 0.5, probs[0], 1e-9)
	require.InDelta(t, 0, probs[1], 1e-9)
	require.InDelta(t, 0, probs[2], 1e-9)
	require.InDelta(t, 0.5, probs[3], 1e-9)
}

func TestGHZ3(t *testing.T) {
	circ := circuitOf(3, 0,
		[]*circuit.Op{singleOp(gate.H, 0)},
		[]*circuit.Op{twoOp(gate.CNOT, 0, 1)},
		[]*circuit.Op{twoOp(gate.CNOT, 1, 2)},
	)
	ev := NewEvaluator(circ, nil)
	require.NoError(t, ev.Run())

	inv := 1 / math.Sqrt2
	for i, z := range ev.SV.Amplitudes {
		if i == 0 || i == 7 {
			require.InDelta(t, inv, real(z), 1e-9)
		} else {
			require.InDelta(t, 0, real(z), 1e-9)
			require.InDelta(t, 0, imag(z), 1e-9)
		}
	}
}

func TestRxPiFlipsToOneUpToPhase(t *testing.T) {
	circ := circuitOf(1, 0, []*circuit.Op{singleOp(gate.Rx, 0, math.Pi)})
	ev := NewEvaluator(circ, nil)
	require.NoError(t, ev.Run())

	probs := ev.SV.Probabilities()
	require.InDelta(t, 0, probs[0], 1e-9)
	require.InDelta(t, 1, probs[1], 1e-9)
}

func TestNormInvariantHoldsThroughoutGHZ(t *testing.T) {
	circ := circuitOf(3, 0,
		[]*circuit.Op{singleOp(gate.H, 0)},
		[]*circuit.Op{twoOp(gate.CNOT, 0, 1)},
		[]*circuit.Op{twoOp(gate.CNOT, 1, 2)},
	)
	ev := NewEvaluator(circ, nil)
	for _, m := range circ.Moments {
		for _, op := range m.Ops {
			require.NoError(t, ev.apply(op))
			n2 := ev.SV.Norm2()
			require.InDelta(t, 1, n2, 1e-9)
		}
	}
}

func TestControlledXMatchesCNOTOnRandomStates(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		sv1 := NewStateVector(3)
		sv2 := NewStateVector(3)
		randomize(rng, sv1)
		copyInto(sv2, sv1)

		sv1.ApplyCNOT(0, 2)
		sv2.ApplyControlled(gate.Matrix(gate.X, nil), []int{0}, 2)

		for i := range sv1.Amplitudes {
			require.InDelta(t, real(sv1.Amplitudes[i]), real(sv2.Amplitudes[i]), 1e-12)
			require.InDelta(t, imag(sv1.Amplitudes[i]), imag(sv2.Amplitudes[i]), 1e-12)
		}
	}
}

func randomize(rng *rand.Rand, sv *StateVector) {
	var norm float64
	for i := range sv.Amplitudes {
		re := rng.Float64()*2 - 1
		im := rng.Float64()*2 - 1
		sv.Amplitudes[i] = complex(re, im)
		norm += re*re + im*im
	}
	scale := complex(1/math.Sqrt(norm), 0)
	for i := range sv.Amplitudes {
		sv.Amplitudes[i] *= scale
	}
}

func copyInto(dst, src *StateVector) {
	copy(dst.Amplitudes, src.Amplitudes)
}

func TestMeasurementCollapsesAndRecords(t *testing.T) {
	circ := &circuit.Circuit{NumQubits: 2, NumCbits: 2}
	ev := NewEvaluator(circ, nil)
	ev.SV.ApplySingle(gate.Matrix(gate.X, nil), 0) // force |01> little-endian -> index 1

	outcome, err := ev.Measure(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, outcome)
	require.Len(t, ev.Record, 1)
	require.Equal(t, MeasurementEntry{Qubit: 0, Creg: 0, Bit: 1}, ev.Record[0])
	require.InDelta(t, 1, ev.SV.Norm2(), 1e-9)
}

func TestDegenerateMeasurementFails(t *testing.T) {
	circ := &circuit.Circuit{NumQubits: 1, NumCbits: 1}
	ev := NewEvaluator(circ, nil)
	// A zero amplitude vector has p0 = p1 = 0, so whichever branch the
	// RNG draws is below the 1e-12 floor.
	ev.SV.Amplitudes[0] = 0
	ev.SV.Amplitudes[1] = 0
	_, err := ev.Measure(0, 0)
	require.Error(t, err)
}

func TestResetForcesZero(t *testing.T) {
	circ := &circuit.Circuit{NumQubits: 1, NumCbits: 0}
	ev := NewEvaluator(circ, nil)
	ev.SV.ApplySingle(gate.Matrix(gate.X, nil), 0)
	require.NoError(t, ev.Reset(0))
	require.InDelta(t, 1, real(ev.SV.Amplitudes[0]), 1e-9)
	require.InDelta(t, 0, real(ev.SV.Amplitudes[1]), 1e-9)
}

func TestSkipMeasurementLeavesStateUncollapsed(t *testing.T) {
	circ := circuitOf(2, 2,
		[]*circuit.Op{singleOp(gate.H, 0)},
		[]*circuit.Op{twoOp(gate.CNOT, 0, 1)},
		[]*circuit.Op{{OpTag: circuit.OpMeasure, Qubit: 0, CregIndex: 0}, {OpTag: circuit.OpMeasure, Qubit: 1, CregIndex: 1}},
	)
	ev := NewEvaluator(circ, nil)
	ev.SkipMeasurement = true
	require.NoError(t, ev.Run())

	require.Empty(t, ev.Record)
	inv := 1 / math.Sqrt2
	require.InDelta(t, inv, real(ev.SV.Amplitudes[0]), 1e-9)
	require.InDelta(t, inv, real(ev.SV.Amplitudes[3]), 1e-9)
}

func TestIfGuardOnlyAppliesWhenCregMatches(t *testing.T) {
	circ := &circuit.Circuit{
		NumQubits:   1,
		NumCbits:    1,
		CregOffsets: map[string]int{"c": 0},
		CregWidths:  map[string]int{"c": 1},
	}
	ev := NewEvaluator(circ, nil)
	ev.CR.Set(0, true) // c == 1

	guarded := &circuit.Op{OpTag: circuit.OpIf, CregName: "c", IfValue: 1, Inner: singleOp(gate.X, 0)}
	require.NoError(t, ev.apply(guarded))
	require.InDelta(t, 1, real(ev.SV.Amplitudes[1]), 1e-9)

	notGuarded := &circuit.Op{OpTag: circuit.OpIf, CregName: "c", IfValue: 0, Inner: singleOp(gate.X, 0)}
	require.NoError(t, ev.apply(notGuarded))
	// state unchanged since c != 0
	require.InDelta(t, 1, real(ev.SV.Amplitudes[1]), 1e-9)
}

func TestMultiShotBellHistogram(t *testing.T) {
	circ := circuitOf(2, 2,
		[]*circuit.Op{singleOp(gate.H, 0)},
		[]*circuit.Op{twoOp(gate.CNOT, 0, 1)},
		[]*circuit.Op{
			&circuit.Op{OpTag: circuit.OpMeasure, Qubit: 0, CregIndex: 0},
			&circuit.Op{OpTag: circuit.OpMeasure, Qubit: 1, CregIndex: 1},
		},
	)
	seed := uint64(42)
	hist, _, err := Sample(circ, 4000, &seed)
	require.NoError(t, err)

	require.Zero(t, hist["01"])
	require.Zero(t, hist["10"])
	require.InDelta(t, 2000, hist["00"], 250)
	require.InDelta(t, 2000, hist["11"], 250)
}
