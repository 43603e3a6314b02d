// Package circuit is the moment-based intermediate representation
// spec.md's elaborator lowers a parsed QASM program into: an ordered list of
// Moments, each a set of gate operations with pairwise-disjoint qubit
// support. It generalizes the teacher's flat Gate/Circuit (circuit.go) and
// its per-step conflict tracking (dag.go's currentStepQubits) into the
// explicit watermark scheduler spec.md names.
package circuit

import "github.com/qdeck-labs/qsim/internal/gate"

// Span is a source location, attached to operations and to diagnostics.
type Span struct {
	Line, Col int
}

// OpTag distinguishes the variants of Op.
type OpTag int

const (
	OpSingle OpTag = iota
	OpTwo
	OpControlled
	OpMeasure
	OpReset
	OpBarrier
	OpIf
)

// Op is the tagged variant gate operation from spec.md's data model. Only
// the fields relevant to Tag are meaningful; this mirrors the teacher's
// single flat Gate struct (circuit.go) but with a closed tag instead of a
// string-typed Type field, so the evaluator can switch on OpTag once per
// operation instead of restring-matching gate names on every apply.
type Op struct {
	Tag Span

	OpTag OpTag

	// OpSingle
	Kind   gate.Kind
	Qubit  int
	Params []float64

	// OpTwo
	TwoKind       gate.TwoKind
	Control       int
	TargetQubit   int // reused as Two's target and Controlled's target
	ControlQubits []int

	// OpMeasure
	CregIndex int

	// OpBarrier
	BarrierQubits []int

	// OpIf
	CregName  string
	IfValue   int
	Inner     *Op
}

// Qubits returns every qubit index this operation reads or writes, used by
// the scheduler to detect overlapping support.
func (o *Op) Qubits() []int {
	switch o.OpTag {
	case OpSingle:
		return []int{o.Qubit}
	case OpTwo:
		return []int{o.Control, o.TargetQubit}
	case OpControlled:
		qs := make([]int, 0, len(o.ControlQubits)+1)
		qs = append(qs, o.ControlQubits...)
		qs = append(qs, o.TargetQubit)
		return qs
	case OpMeasure, OpReset:
		return []int{o.Qubit}
	case OpBarrier:
		return append([]int(nil), o.BarrierQubits...)
	case OpIf:
		if o.Inner != nil {
			return o.Inner.Qubits()
		}
		return nil
	default:
		return nil
	}
}

// Moment is an ordered list of operations whose qubit supports are pairwise
// disjoint; within a moment, order is not observable (§4.3).
type Moment struct {
	Ops []*Op
}

// ClassicalInstr is the side-program the evaluator replays alongside gate
// moments: measure/reset/if don't participate in moment scheduling directly
// (well, they do — they are themselves Ops placed in moments) but the
// elaborator also keeps a flat ordered record of them for diagnostics and
// for the measurement-record ordering guarantee of §5.
type ClassicalInstr struct {
	Op *Op
}

// Circuit is the elaborator's output: read-only thereafter.
type Circuit struct {
	NumQubits int
	NumCbits  int
	Moments   []Moment

	// CregOffsets and CregWidths map a named classical register to its
	// offset and width in the flat classical bit array If-guards address.
	CregOffsets map[string]int
	CregWidths  map[string]int

	ClassicalProgram []ClassicalInstr

	// BarrierPoints are the moment indices after which a barrier was
	// encountered, kept only so the renderer can draw a separator line;
	// evaluation never consults this.
	BarrierPoints []int
}

// CregIndexOf resolves a named register + in-register bit index to a flat
// classical-bit index.
func (c *Circuit) CregIndexOf(name string, bit int) int {
	return c.CregOffsets[name] + bit
}
