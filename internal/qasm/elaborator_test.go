package qasm

import (
	"testing"

	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/gate"
	"github.com/stretchr/testify/require"
)

func TestElaborateBellCircuit(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
h q[0];
cx q[0],q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`
	circ, err := Elaborate(src, 26)
	require.NoError(t, err)
	require.Equal(t, 2, circ.NumQubits)
	require.Equal(t, 2, circ.NumCbits)

	for _, m := range circ.Moments {
		seen := map[int]bool{}
		for _, op := range m.Ops {
			for _, q := range op.Qubits() {
				require.False(t, seen[q])
				seen[q] = true
			}
		}
	}

	var kinds []circuit.OpTag
	for _, m := range circ.Moments {
		for _, op := range m.Ops {
			kinds = append(kinds, op.OpTag)
		}
	}
	require.Contains(t, kinds, circuit.OpSingle)
	require.Contains(t, kinds, circuit.OpTwo)
	require.Contains(t, kinds, circuit.OpMeasure)
}

func TestElaborateRegisterBroadcast(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[3];
h q;
`
	circ, err := Elaborate(src, 26)
	require.NoError(t, err)
	var hCount int
	for _, m := range circ.Moments {
		for _, op := range m.Ops {
			if op.OpTag == circuit.OpSingle && op.Kind == gate.H {
				hCount++
			}
		}
	}
	require.Equal(t, 3, hCount)
}

func TestElaborateUserGateExpansion(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
gate bell a,b { h a; cx a,b; }
qreg q[2];
bell q[0],q[1];
`
	circ, err := Elaborate(src, 26)
	require.NoError(t, err)
	var ops int
	for _, m := range circ.Moments {
		ops += len(m.Ops)
	}
	require.Equal(t, 2, ops) // h expands to one intrinsic op, cx to one
}

func TestElaborateRecursiveGateIsRejected(t *testing.T) {
	src := `OPENQASM 2.0;
gate loop a { loop a; }
qreg q[1];
loop q[0];
`
	_, err := Elaborate(src, 26)
	require.Error(t, err)
}

func TestElaborateUndefinedGateIsSemanticError(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[1];
frobnicate q[0];
`
	_, err := Elaborate(src, 26)
	require.Error(t, err)
}

func TestElaborateTooManyQubits(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[4];
`
	_, err := Elaborate(src, 2)
	require.Error(t, err)
}

func TestElaborateCcxIsControlledOpWithTwoControls(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[3];
ccx q[0],q[1],q[2];
`
	circ, err := Elaborate(src, 26)
	require.NoError(t, err)
	var found bool
	for _, m := range circ.Moments {
		for _, op := range m.Ops {
			if op.OpTag == circuit.OpControlled {
				found = true
				require.Len(t, op.ControlQubits, 2)
				require.Equal(t, gate.X, op.Kind)
				require.Equal(t, 2, op.TargetQubit)
			}
		}
	}
	require.True(t, found)
}

func TestElaborateIfGuard(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[1];
creg c[1];
if(c==1) x q[0];
`
	circ, err := Elaborate(src, 26)
	require.NoError(t, err)
	var found bool
	for _, m := range circ.Moments {
		for _, op := range m.Ops {
			if op.OpTag == circuit.OpIf {
				found = true
				require.Equal(t, "c", op.CregName)
				require.Equal(t, 1, op.IfValue)
				require.NotNil(t, op.Inner)
			}
		}
	}
	require.True(t, found)
}

func TestElaborateIfGuardAcceptsMeasureAndReset(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[1];
creg c[1];
if(c==0) measure q[0] -> c[0];
if(c==0) reset q[0];
`
	circ, err := Elaborate(src, 26)
	require.NoError(t, err)
	var sawMeasure, sawReset bool
	for _, m := range circ.Moments {
		for _, op := range m.Ops {
			if op.OpTag != circuit.OpIf {
				continue
			}
			switch op.Inner.OpTag {
			case circuit.OpMeasure:
				sawMeasure = true
			case circuit.OpReset:
				sawReset = true
			}
		}
	}
	require.True(t, sawMeasure)
	require.True(t, sawReset)
}

func TestElaborateIfGuardRejectsUnguardableInner(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[1];
creg c[1];
if(c==0) barrier q[0];
`
	_, err := Elaborate(src, 26)
	require.Error(t, err)
}

func TestElaborateBarrierSeparatesMoments(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
h q[0];
barrier q;
h q[1];
`
	circ, err := Elaborate(src, 26)
	require.NoError(t, err)
	require.NotEmpty(t, circ.BarrierPoints)
}
