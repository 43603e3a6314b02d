// Package gate is the closed enumeration of intrinsic unitaries spec.md's
// gate library names: constant 1-qubit gates, parametrised rotations, the
// two-qubit primitives, and the generic controlled-U lift. Each intrinsic
// carries its exact matrix so the evaluator, the QASM elaborator's qelib1
// resolution, and the renderer all consult one table instead of re-deriving
// gates ad hoc the way the teacher's quantum.go ApplyGate switch does.
package gate

import "math"

// Kind identifies a 1-qubit intrinsic.
type Kind int

const (
	I Kind = iota
	H
	X
	Y
	Z
	S
	Sdg
	T
	Tdg
	SX
	SXdg
	Rx
	Ry
	Rz
	U1
	U2
	U3
)

// TwoKind identifies a 2-qubit intrinsic that is not expressed as a
// controlled-1-qubit lift (CNOT/CZ share matrices with controlled X/Z but
// keep their own tags for rendering and QASM emission; SWAP has no 1-qubit
// analogue at all).
type TwoKind int

const (
	CNOT TwoKind = iota
	CZ
	SWAP
)

func (k Kind) String() string {
	switch k {
	case I:
		return "id"
	case H:
		return "h"
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	case S:
		return "s"
	case Sdg:
		return "sdg"
	case T:
		return "t"
	case Tdg:
		return "tdg"
	case SX:
		return "sx"
	case SXdg:
		return "sxdg"
	case Rx:
		return "rx"
	case Ry:
		return "ry"
	case Rz:
		return "rz"
	case U1:
		return "u1"
	case U2:
		return "u2"
	case U3:
		return "u3"
	default:
		return "?"
	}
}

func (k TwoKind) String() string {
	switch k {
	case CNOT:
		return "cx"
	case CZ:
		return "cz"
	case SWAP:
		return "swap"
	default:
		return "?"
	}
}

// Matrix1 is a row-major 2x2 unitary: [[A, B], [C, D]].
type Matrix1 struct {
	A, B, C, D complex128
}

// NumParams reports how many real parameters the given kind expects.
func NumParams(k Kind) int {
	switch k {
	case Rx, Ry, Rz, U1:
		return 1
	case U2:
		return 2
	case U3:
		return 3
	default:
		return 0
	}
}

// Matrix returns the 2x2 unitary for a (possibly parametrised) intrinsic.
// params must have at least NumParams(k) entries; extras are ignored.
func Matrix(k Kind, params []float64) Matrix1 {
	switch k {
	case I:
		return Matrix1{1, 0, 0, 1}
	case H:
		c := complex(1/math.Sqrt2, 0)
		return Matrix1{c, c, c, -c}
	case X:
		return Matrix1{0, 1, 1, 0}
	case Y:
		return Matrix1{0, -1i, 1i, 0}
	case Z:
		return Matrix1{1, 0, 0, -1}
	case S:
		return Matrix1{1, 0, 0, 1i}
	case Sdg:
		return Matrix1{1, 0, 0, -1i}
	case T:
		return Matrix1{1, 0, 0, cExp(math.Pi / 4)}
	case Tdg:
		return Matrix1{1, 0, 0, cExp(-math.Pi / 4)}
	case SX:
		half := complex(0.5, 0.5)
		return Matrix1{half, complexConj(half), complexConj(half), half}
	case SXdg:
		half := complex(0.5, -0.5)
		return Matrix1{half, complexConj(half), complexConj(half), half}
	case Rx:
		theta := param(params, 0)
		c := complex(math.Cos(theta/2), 0)
		s := complex(0, -math.Sin(theta/2))
		return Matrix1{c, s, s, c}
	case Ry:
		theta := param(params, 0)
		c := complex(math.Cos(theta/2), 0)
		s := complex(math.Sin(theta/2), 0)
		return Matrix1{c, -s, s, c}
	case Rz:
		theta := param(params, 0)
		return Matrix1{cExp(-theta / 2), 0, 0, cExp(theta / 2)}
	case U1:
		lambda := param(params, 0)
		return Matrix1{1, 0, 0, cExp(lambda)}
	case U2:
		phi, lambda := param(params, 0), param(params, 1)
		c := complex(1/math.Sqrt2, 0)
		return Matrix1{
			c,
			-c * cExpFull(lambda),
			c * cExpFull(phi),
			c * cExpFull(phi+lambda),
		}
	case U3:
		theta, phi, lambda := param(params, 0), param(params, 1), param(params, 2)
		ct := complex(math.Cos(theta/2), 0)
		st := complex(math.Sin(theta/2), 0)
		return Matrix1{
			ct,
			-st * cExpFull(lambda),
			st * cExpFull(phi),
			ct * cExpFull(phi+lambda),
		}
	default:
		return Matrix1{1, 0, 0, 1}
	}
}

func param(params []float64, i int) float64 {
	if i < len(params) {
		return params[i]
	}
	return 0
}

// cExp returns e^{i*theta} as a full complex phase, named for the common
// case of building Rz/U1/T-style diagonal phases.
func cExp(theta float64) complex128 {
	return complex(math.Cos(theta), math.Sin(theta))
}

func cExpFull(theta float64) complex128 {
	return cExp(theta)
}

// Dagger returns the adjoint (conjugate transpose) of m.
func (m Matrix1) Dagger() Matrix1 {
	return Matrix1{
		A: complexConj(m.A),
		B: complexConj(m.C),
		C: complexConj(m.B),
		D: complexConj(m.D),
	}
}

func complexConj(z complex128) complex128 {
	return complex(real(z), -imag(z))
}

// Controlled lifts a 1-qubit unitary to its single-control form: identity on
// the |0> control subspace, M on the |1> subspace. The evaluator never
// materializes the 4x4 matrix explicitly — internal/eval applies the same
// pair-update kernel restricted to indices where every control bit is 1 —
// but this is the canonical definition spec.md's controlled-lifting section
// names (Controlled(X) is the CNOT matrix). The QASM elaborator and the
// renderer do not call it; they identify gates by name.
type Matrix4 [4][4]complex128

// Controlled returns the 4x4 matrix of the controlled form of m, with the
// control as the high-order qubit (row/col index bit 1) and the target as
// the low-order qubit (bit 0), matching the little-endian basis convention
// used throughout this repository.
func Controlled(m Matrix1) Matrix4 {
	var out Matrix4
	out[0][0], out[1][1] = 1, 1
	out[2][2], out[2][3] = m.A, m.B
	out[3][2], out[3][3] = m.C, m.D
	return out
}
