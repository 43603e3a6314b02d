package render

import (
	"bytes"
	"testing"

	"github.com/qdeck-labs/qsim/internal/qasm"
	"github.com/stretchr/testify/require"
)

func TestQASMRoundTripOnBellCircuit(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
h q[0];
cx q[0],q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`
	circ, err := qasm.Elaborate(src, 26)
	require.NoError(t, err)

	emitted := QASM(circ)
	reparsed, err := qasm.Elaborate(emitted, 26)
	require.NoError(t, err)

	require.Equal(t, circ.NumQubits, reparsed.NumQubits)
	require.Equal(t, circ.NumCbits, reparsed.NumCbits)
	require.Equal(t, len(circ.Moments), len(reparsed.Moments))
	for i := range circ.Moments {
		require.Equal(t, len(circ.Moments[i].Ops), len(reparsed.Moments[i].Ops))
	}
}

func TestQASMRoundTripOnCCX(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[3];
ccx q[0],q[1],q[2];
crz(pi/4) q[0],q[1];
`
	circ, err := qasm.Elaborate(src, 26)
	require.NoError(t, err)
	emitted := QASM(circ)
	reparsed, err := qasm.Elaborate(emitted, 26)
	require.NoError(t, err)
	require.Equal(t, len(circ.Moments), len(reparsed.Moments))
}

func TestASCIIRendersWithoutPanicking(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[3];
creg c[3];
h q[0];
cx q[0],q[1];
barrier q;
ccx q[0],q[1],q[2];
measure q[0] -> c[0];
`
	circ, err := qasm.Elaborate(src, 26)
	require.NoError(t, err)

	var buf bytes.Buffer
	ASCII(&buf, circ)
	require.NotEmpty(t, buf.String())
}

func TestFormatParamPrefersPiFractions(t *testing.T) {
	require.Equal(t, "pi/2", FormatParam(1.5707963267948966))
	require.Equal(t, "pi", FormatParam(3.141592653589793))
	require.Equal(t, "0", FormatParam(0))
}
