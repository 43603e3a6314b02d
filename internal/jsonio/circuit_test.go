package jsonio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/gate"
)

func TestDecodeCircuitParsesBellProgram(t *testing.T) {
	src := `{
		"numQubits": 2,
		"moments": [
			[{"type": "H", "qubit": 0}],
			[{"type": "CNOT", "control": 0, "target": 1}],
			[{"type": "MEASURE", "qubit": 0, "creg": 0}, {"type": "MEASURE", "qubit": 1, "creg": 1}]
		]
	}`

	circ, err := DecodeCircuit([]byte(src))
	require.NoError(t, err)
	require.Equal(t, 2, circ.NumQubits)
	require.Equal(t, 2, circ.NumCbits)
	require.Len(t, circ.Moments, 3)
	require.Equal(t, circuit.OpSingle, circ.Moments[0].Ops[0].OpTag)
	require.Equal(t, gate.H, circ.Moments[0].Ops[0].Kind)
	require.Equal(t, circuit.OpTwo, circ.Moments[1].Ops[0].OpTag)
	require.Equal(t, gate.CNOT, circ.Moments[1].Ops[0].TwoKind)
}

func TestDecodeCircuitRejectsOutOfRangeQubit(t *testing.T) {
	src := `{"numQubits": 1, "moments": [[{"type": "H", "qubit": 5}]]}`
	_, err := DecodeCircuit([]byte(src))
	require.Error(t, err)
}

func TestDecodeCircuitRejectsUnknownGateType(t *testing.T) {
	src := `{"numQubits": 1, "moments": [[{"type": "FROBNICATE", "qubit": 0}]]}`
	_, err := DecodeCircuit([]byte(src))
	require.Error(t, err)
}

func TestEncodeCircuitRoundTripsIntrinsicOps(t *testing.T) {
	circ := &circuit.Circuit{
		NumQubits: 2,
		Moments: []circuit.Moment{
			{Ops: []*circuit.Op{{OpTag: circuit.OpSingle, Kind: gate.H, Qubit: 0}}},
			{Ops: []*circuit.Op{{OpTag: circuit.OpTwo, TwoKind: gate.CNOT, Control: 0, TargetQubit: 1}}},
		},
	}

	data, err := EncodeCircuit(circ)
	require.NoError(t, err)

	reparsed, err := DecodeCircuit(data)
	require.NoError(t, err)
	require.Equal(t, circ.NumQubits, reparsed.NumQubits)
	require.Len(t, reparsed.Moments, 2)
	require.Equal(t, gate.H, reparsed.Moments[0].Ops[0].Kind)
	require.Equal(t, gate.CNOT, reparsed.Moments[1].Ops[0].TwoKind)
}
