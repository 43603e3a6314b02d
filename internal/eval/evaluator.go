package eval

import (
	"math"
	"math/rand/v2"

	"github.com/qdeck-labs/qsim/internal/amp"
	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/gate"
	"github.com/qdeck-labs/qsim/internal/simerr"
)

// MeasurementEntry is one (qubit, creg_index, bit) triple in execution
// order, per spec.md §3's MeasurementRecord.
type MeasurementEntry struct {
	Qubit, Creg, Bit int
}

// Evaluator owns one StateVector and one ClassicalRegisters for a single
// run; it is never shared across shots (spec.md §5: "there is no
// cross-evaluator sharing").
type Evaluator struct {
	SV     *StateVector
	CR     *ClassicalRegisters
	RNG    *rand.Rand
	Record []MeasurementEntry

	// SkipMeasurement, when set, turns every Measure/Reset into a no-op
	// instead of collapsing the state vector — used for spec.md §4.8's
	// "--shots 0" mode, which returns the pre-measurement state untouched.
	SkipMeasurement bool

	circ *circuit.Circuit
}

// NewEvaluator returns an evaluator positioned at the ground state for
// circ, seeded either deterministically (seed != nil) or from OS entropy.
func NewEvaluator(circ *circuit.Circuit, seed *uint64) *Evaluator {
	var src rand.Source
	if seed != nil {
		src = rand.NewPCG(*seed, *seed^0x9E3779B97F4A7C15)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Evaluator{
		SV:   NewStateVector(circ.NumQubits),
		CR:   NewClassicalRegisters(circ.NumCbits),
		RNG:  rand.New(src),
		circ: circ,
	}
}

// Run applies every moment of the circuit in program order (spec.md §5:
// strict sequencing across moments, no observable order within one).
func (e *Evaluator) Run() error {
	for _, m := range e.circ.Moments {
		for _, op := range m.Ops {
			if err := e.apply(op); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Evaluator) apply(op *circuit.Op) error {
	switch op.OpTag {
	case circuit.OpSingle:
		e.SV.ApplySingle(gate.Matrix(op.Kind, op.Params), op.Qubit)
		return nil
	case circuit.OpTwo:
		switch op.TwoKind {
		case gate.CNOT:
			e.SV.ApplyCNOT(op.Control, op.TargetQubit)
		case gate.CZ:
			e.SV.ApplyCZ(op.Control, op.TargetQubit)
		case gate.SWAP:
			e.SV.ApplySwap(op.Control, op.TargetQubit)
		}
		return nil
	case circuit.OpControlled:
		e.SV.ApplyControlled(gate.Matrix(op.Kind, op.Params), op.ControlQubits, op.TargetQubit)
		return nil
	case circuit.OpMeasure:
		if e.SkipMeasurement {
			return nil
		}
		_, err := e.Measure(op.Qubit, op.CregIndex)
		return err
	case circuit.OpReset:
		if e.SkipMeasurement {
			return nil
		}
		return e.Reset(op.Qubit)
	case circuit.OpIf:
		offset := e.circ.CregOffsets[op.CregName]
		width := e.circ.CregWidths[op.CregName]
		if e.CR.Value(offset, width) == op.IfValue {
			return e.apply(op.Inner)
		}
		return nil
	default:
		return nil
	}
}

// Measure performs a projective measurement of qubit q, storing the result
// into classical bit creg, per spec.md §4.5's five-step procedure.
func (e *Evaluator) Measure(q, creg int) (int, error) {
	bit := 1 << uint(q)
	var p0, p1 float64
	for i, z := range e.SV.Amplitudes {
		if i&bit != 0 {
			p1 += amp.Abs2(z)
		} else {
			p0 += amp.Abs2(z)
		}
	}

	u := e.RNG.Float64()
	outcome := 0
	p := p0
	if u < p1 {
		outcome = 1
		p = p1
	}
	if p < 1e-12 {
		return 0, simerr.New(simerr.KindDegenerateMeasurement, "measurement probability below 1e-12; the register is in a zero-norm subspace")
	}

	scale := 1 / math.Sqrt(p)
	for i := range e.SV.Amplitudes {
		bitSet := i&bit != 0
		if bitSet != (outcome == 1) {
			e.SV.Amplitudes[i] = 0
		} else {
			e.SV.Amplitudes[i] *= complex(scale, 0)
		}
	}

	e.CR.Set(creg, outcome == 1)
	e.Record = append(e.Record, MeasurementEntry{Qubit: q, Creg: creg, Bit: outcome})
	return outcome, nil
}

// Reset collapses qubit q to |0>, per spec.md §4.5: measure (without
// recording) then flip back to zero if the outcome was 1.
func (e *Evaluator) Reset(q int) error {
	bit := 1 << uint(q)
	var p1 float64
	for i, z := range e.SV.Amplitudes {
		if i&bit != 0 {
			p1 += amp.Abs2(z)
		}
	}
	u := e.RNG.Float64()
	outcome := 0
	p := 1 - p1
	if u < p1 {
		outcome = 1
		p = p1
	}
	if p < 1e-12 {
		return simerr.New(simerr.KindDegenerateMeasurement, "reset probability below 1e-12; the register is in a zero-norm subspace")
	}
	scale := 1 / math.Sqrt(p)
	for i := range e.SV.Amplitudes {
		bitSet := i&bit != 0
		if bitSet != (outcome == 1) {
			e.SV.Amplitudes[i] = 0
		} else {
			e.SV.Amplitudes[i] *= complex(scale, 0)
		}
	}
	if outcome == 1 {
		e.SV.ApplySingle(gate.Matrix(gate.X, nil), q)
	}
	return nil
}

