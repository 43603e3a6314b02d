package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/gate"
)

const cellWidth = 9

func padCenter(s string, width int, fill rune) string {
	if len(s) >= width {
		return s
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), right)
}

func wireCell() string {
	return strings.Repeat("─", cellWidth)
}

func labelCell(s string) string {
	return padCenter(s, cellWidth, '─')
}

// rowSpan returns [lo, hi] inclusive over a set of qubit indices, used to
// know which rows a vertical connector must pass through.
func rowSpan(qubits []int) (int, int) {
	lo, hi := qubits[0], qubits[0]
	for _, q := range qubits[1:] {
		if q < lo {
			lo = q
		}
		if q > hi {
			hi = q
		}
	}
	return lo, hi
}

// ASCII renders one horizontal wire per qubit, moments left to right, per
// spec.md §4.7: boxed labels for single-qubit gates, "●"/"⊕" for CNOT
// control/target joined by a vertical bar, "M" for measurement, and
// if-guards bracketed with the guard text appended as a trailing legend —
// the diagram generalizes the teacher's renderCell/renderCircuitPanel
// (render.go) from a fixed cursor-highlighted grid to a plain read-only
// dump of an arbitrary moment count.
func ASCII(w io.Writer, circ *circuit.Circuit) {
	n := circ.NumQubits
	rows := make([]strings.Builder, n)
	for q := 0; q < n; q++ {
		fmt.Fprintf(&rows[q], "q%-3d ", q)
	}

	var guards []string

	for mi, m := range circ.Moments {
		cells := make([]string, n)
		for q := range cells {
			cells[q] = wireCell()
		}
		touched := make([]bool, n)

		for _, op := range m.Ops {
			renderOp(op, cells, touched, &guards, mi)
		}
		for q := 0; q < n; q++ {
			rows[q].WriteString(cells[q])
			rows[q].WriteString("─")
		}
		for _, point := range circ.BarrierPoints {
			if point == mi {
				for q := 0; q < n; q++ {
					rows[q].WriteString("║")
				}
			}
		}
	}

	for q := 0; q < n; q++ {
		fmt.Fprintln(w, rows[q].String())
	}
	for _, g := range guards {
		fmt.Fprintln(w, g)
	}
}

func connectSpan(qubits []int, cells []string, touched []bool) {
	lo, hi := rowSpan(qubits)
	for q := lo; q <= hi; q++ {
		if !touched[q] {
			cells[q] = labelCell("│")
		}
	}
}

func renderOp(op *circuit.Op, cells []string, touched []bool, guards *[]string, momentIdx int) {
	switch op.OpTag {
	case circuit.OpSingle:
		cells[op.Qubit] = labelCell("[" + strings.ToUpper(op.Kind.String()) + "]")
		touched[op.Qubit] = true
	case circuit.OpTwo:
		connectSpan([]int{op.Control, op.TargetQubit}, cells, touched)
		switch op.TwoKind {
		case gate.CNOT:
			cells[op.Control] = labelCell("●")
			cells[op.TargetQubit] = labelCell("⊕")
		case gate.CZ:
			cells[op.Control] = labelCell("●")
			cells[op.TargetQubit] = labelCell("●")
		case gate.SWAP:
			cells[op.Control] = labelCell("x")
			cells[op.TargetQubit] = labelCell("x")
		}
		touched[op.Control] = true
		touched[op.TargetQubit] = true
	case circuit.OpControlled:
		all := append(append([]int{}, op.ControlQubits...), op.TargetQubit)
		connectSpan(all, cells, touched)
		for _, c := range op.ControlQubits {
			cells[c] = labelCell("●")
			touched[c] = true
		}
		cells[op.TargetQubit] = labelCell(strings.ToUpper(op.Kind.String()))
		touched[op.TargetQubit] = true
	case circuit.OpMeasure:
		cells[op.Qubit] = labelCell("M")
		touched[op.Qubit] = true
	case circuit.OpReset:
		cells[op.Qubit] = labelCell("R")
		touched[op.Qubit] = true
	case circuit.OpBarrier:
		for _, q := range op.BarrierQubits {
			cells[q] = labelCell("░")
			touched[q] = true
		}
	case circuit.OpIf:
		renderOp(op.Inner, cells, touched, guards, momentIdx)
		inner := op.Inner.Qubits()
		if len(inner) > 0 {
			cells[inner[0]] = "[" + strings.Trim(cells[inner[0]], "─") + "]"
		}
		*guards = append(*guards, fmt.Sprintf("# moment %d: if(%s==%d)", momentIdx, op.CregName, op.IfValue))
	}
}
