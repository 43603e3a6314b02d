package qasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBellProgram(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
h q[0];
cx q[0],q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 8) // version, include, qreg, creg, h, cx, measure, measure
}

func TestParseGateDeclaration(t *testing.T) {
	src := `OPENQASM 2.0;
gate bell a,b { h a; cx a,b; }
qreg q[2];
bell q[0],q[1];
`
	prog, err := Parse(src)
	require.NoError(t, err)

	var decl *GateDecl
	for _, st := range prog.Statements {
		if gd, ok := st.(GateDecl); ok {
			decl = &gd
		}
	}
	require.NotNil(t, decl)
	require.Equal(t, "bell", decl.Name)
	require.Equal(t, []string{"a", "b"}, decl.Args)
	require.Len(t, decl.Body, 2)
}

func TestParseParamExpression(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[1];
rx(pi/2) q[0];
ry(2*pi - sin(0)) q[0];
`
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 4)
}

func TestParseIfGuard(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[1];
creg c[1];
if(c==1) x q[0];
`
	prog, err := Parse(src)
	require.NoError(t, err)
	var ifStmt *IfStmt
	for _, st := range prog.Statements {
		if s, ok := st.(IfStmt); ok {
			ifStmt = &s
		}
	}
	require.NotNil(t, ifStmt)
	require.Equal(t, "c", ifStmt.Creg)
	require.Equal(t, 1, ifStmt.Value)
}

func TestParseMissingHeaderIsParseError(t *testing.T) {
	_, err := Parse(`qreg q[1];`)
	require.Error(t, err)
}

func TestParseBroadcastBarrier(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[3];
barrier q;
barrier q[0],q[1];
`
	prog, err := Parse(src)
	require.NoError(t, err)
	count := 0
	for _, st := range prog.Statements {
		if _, ok := st.(BarrierStmt); ok {
			count++
		}
	}
	require.Equal(t, 2, count)
}
