// Package jsonio is the JSON boundary: decoding the structured-circuit
// input dialect and encoding the result record, both via jsoniter
// (matching AKJUS-oqtopus-engine's `var jsonIter =
// jsoniter.ConfigCompatibleWithStandardLibrary` convention in
// coreapp/core/data.go) rather than encoding/json directly.
package jsonio

import (
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/gate"
	"github.com/qdeck-labs/qsim/internal/simerr"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonGate struct {
	Type    string    `json:"type"`
	Qubit   int       `json:"qubit"`
	Control int       `json:"control"`
	Target  int       `json:"target"`
	Creg    int       `json:"creg"`
	Theta   float64   `json:"theta"`
	Params  []float64 `json:"params"`
}

type jsonCircuit struct {
	NumQubits int          `json:"numQubits"`
	Moments   [][]jsonGate `json:"moments"`
}

// DecodeCircuit parses the structured JSON circuit dialect (spec.md §6) —
// intrinsic-only, no gate definitions, no if-guards — directly into a
// Circuit. Unlike the QASM path, no scheduling pass runs: the JSON's
// moment grouping is taken as authoritative, since it is produced by an
// upstream editor that already groups by moment.
func DecodeCircuit(data []byte) (*circuit.Circuit, error) {
	var jc jsonCircuit
	if err := jsonIter.Unmarshal(data, &jc); err != nil {
		return nil, simerr.Wrap(simerr.KindParse, "malformed circuit JSON", err)
	}

	moments := make([]circuit.Moment, len(jc.Moments))
	maxCbit := -1
	for mi, gates := range jc.Moments {
		ops := make([]*circuit.Op, 0, len(gates))
		for _, g := range gates {
			op, err := convertGate(g)
			if err != nil {
				return nil, err
			}
			for _, q := range op.Qubits() {
				if q < 0 || q >= jc.NumQubits {
					return nil, simerr.Newf(simerr.KindSemantic, "qubit index %d out of range for a %d-qubit circuit", q, jc.NumQubits)
				}
			}
			if op.OpTag == circuit.OpMeasure && op.CregIndex > maxCbit {
				maxCbit = op.CregIndex
			}
			ops = append(ops, op)
		}
		moments[mi] = circuit.Moment{Ops: ops}
	}

	return &circuit.Circuit{
		NumQubits: jc.NumQubits,
		NumCbits:  maxCbit + 1,
		Moments:   moments,
	}, nil
}

func convertGate(g jsonGate) (*circuit.Op, error) {
	switch strings.ToUpper(g.Type) {
	case "H":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.H, Qubit: g.Qubit}, nil
	case "X":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.X, Qubit: g.Qubit}, nil
	case "Y":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.Y, Qubit: g.Qubit}, nil
	case "Z":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.Z, Qubit: g.Qubit}, nil
	case "S":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.S, Qubit: g.Qubit}, nil
	case "SDG":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.Sdg, Qubit: g.Qubit}, nil
	case "T":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.T, Qubit: g.Qubit}, nil
	case "TDG":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.Tdg, Qubit: g.Qubit}, nil
	case "I":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.I, Qubit: g.Qubit}, nil
	case "RX":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.Rx, Qubit: g.Qubit, Params: []float64{g.Theta}}, nil
	case "RY":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.Ry, Qubit: g.Qubit, Params: []float64{g.Theta}}, nil
	case "RZ":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.Rz, Qubit: g.Qubit, Params: []float64{g.Theta}}, nil
	case "U1":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.U1, Qubit: g.Qubit, Params: g.Params}, nil
	case "U2":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.U2, Qubit: g.Qubit, Params: g.Params}, nil
	case "U3":
		return &circuit.Op{OpTag: circuit.OpSingle, Kind: gate.U3, Qubit: g.Qubit, Params: g.Params}, nil
	case "CNOT":
		return &circuit.Op{OpTag: circuit.OpTwo, TwoKind: gate.CNOT, Control: g.Control, TargetQubit: g.Target}, nil
	case "CZ":
		return &circuit.Op{OpTag: circuit.OpTwo, TwoKind: gate.CZ, Control: g.Control, TargetQubit: g.Target}, nil
	case "SWAP":
		return &circuit.Op{OpTag: circuit.OpTwo, TwoKind: gate.SWAP, Control: g.Control, TargetQubit: g.Target}, nil
	case "MEASURE":
		return &circuit.Op{OpTag: circuit.OpMeasure, Qubit: g.Qubit, CregIndex: g.Creg}, nil
	default:
		return nil, simerr.Newf(simerr.KindUnsupportedGate, "gate type %q is not supported in the structured circuit dialect", g.Type)
	}
}

// EncodeCircuit renders circ back into the structured JSON dialect. This is
// necessarily lossy for Controlled/Reset/Barrier/If ops, which the dialect
// cannot express (spec.md §6): a circuit containing any of those has no
// faithful JSON form and EncodeCircuit drops them rather than failing,
// matching the dialect's documented lossiness.
func EncodeCircuit(circ *circuit.Circuit) ([]byte, error) {
	jc := jsonCircuit{NumQubits: circ.NumQubits}
	jc.Moments = make([][]jsonGate, 0, len(circ.Moments))
	for _, m := range circ.Moments {
		var gates []jsonGate
		for _, op := range m.Ops {
			if g, ok := toJSONGate(op); ok {
				gates = append(gates, g)
			}
		}
		jc.Moments = append(jc.Moments, gates)
	}
	return jsonIter.Marshal(jc)
}

func toJSONGate(op *circuit.Op) (jsonGate, bool) {
	switch op.OpTag {
	case circuit.OpSingle:
		g := jsonGate{Type: strings.ToUpper(op.Kind.String()), Qubit: op.Qubit}
		switch op.Kind {
		case gate.Rx, gate.Ry, gate.Rz:
			if len(op.Params) > 0 {
				g.Theta = op.Params[0]
			}
		case gate.U1, gate.U2, gate.U3:
			g.Params = op.Params
		}
		return g, true
	case circuit.OpTwo:
		name := strings.ToUpper(op.TwoKind.String())
		if op.TwoKind == gate.CNOT {
			name = "CNOT"
		}
		return jsonGate{Type: name, Control: op.Control, Target: op.TargetQubit}, true
	case circuit.OpMeasure:
		return jsonGate{Type: "MEASURE", Qubit: op.Qubit, Creg: op.CregIndex}, true
	default:
		return jsonGate{}, false
	}
}
