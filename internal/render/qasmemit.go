package render

import (
	"fmt"
	"strings"

	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/gate"
)

// controlledName reverse-maps a Controlled op's (kind, control count) back
// to the qelib1 name the elaborator recognized it from, so emission and
// parsing round-trip (spec.md §8's "QASM emit ∘ parse is an identity on a
// canonical subset").
func controlledName(kind gate.Kind, numControls int) (string, bool) {
	switch {
	case numControls == 2 && kind == gate.X:
		return "ccx", true
	case numControls == 1 && kind == gate.Y:
		return "cy", true
	case numControls == 1 && kind == gate.H:
		return "ch", true
	case numControls == 1 && kind == gate.Rz:
		return "crz", true
	case numControls == 1 && kind == gate.U1:
		return "cu1", true
	case numControls == 1 && kind == gate.U3:
		return "cu3", true
	default:
		return "", false
	}
}

func paramSuffix(params []float64) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = FormatParam(p)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

func qubitRef(i int) string {
	return fmt.Sprintf("q[%d]", i)
}

// emitInline renders one op's statement text without a trailing newline,
// including its terminating ';' — used both for ordinary lines and for the
// inner statement of an if-guard, which shares the same ';'.
func emitInline(op *circuit.Op) string {
	switch op.OpTag {
	case circuit.OpSingle:
		return fmt.Sprintf("%s%s %s;", op.Kind.String(), paramSuffix(op.Params), qubitRef(op.Qubit))
	case circuit.OpTwo:
		return fmt.Sprintf("%s %s,%s;", op.TwoKind.String(), qubitRef(op.Control), qubitRef(op.TargetQubit))
	case circuit.OpControlled:
		name, ok := controlledName(op.Kind, len(op.ControlQubits))
		if !ok {
			name = "c" + op.Kind.String()
		}
		refs := make([]string, 0, len(op.ControlQubits)+1)
		for _, c := range op.ControlQubits {
			refs = append(refs, qubitRef(c))
		}
		refs = append(refs, qubitRef(op.TargetQubit))
		return fmt.Sprintf("%s%s %s;", name, paramSuffix(op.Params), strings.Join(refs, ","))
	case circuit.OpMeasure:
		return fmt.Sprintf("measure %s -> c[%d];", qubitRef(op.Qubit), op.CregIndex)
	case circuit.OpReset:
		return fmt.Sprintf("reset %s;", qubitRef(op.Qubit))
	case circuit.OpIf:
		return fmt.Sprintf("if(c==%d) %s", op.IfValue, emitInline(op.Inner))
	default:
		return ""
	}
}

// QASM emits canonical OpenQASM 2.0 for circ: a single flat qreg "q" and,
// if circ has classical bits, a single flat creg "c", followed by the
// lowered operations one per line in moment order. This is the form
// internal/qasm's elaborator reads back to an equivalent Circuit.
func QASM(circ *circuit.Circuit) string {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n")
	fmt.Fprintf(&b, "qreg q[%d];\n", circ.NumQubits)
	if circ.NumCbits > 0 {
		fmt.Fprintf(&b, "creg c[%d];\n", circ.NumCbits)
	}
	for _, m := range circ.Moments {
		for _, op := range m.Ops {
			b.WriteString(emitInline(op))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
