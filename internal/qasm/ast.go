package qasm

import "github.com/qdeck-labs/qsim/internal/simerr"

// Expr is a parameter expression AST node, evaluated to a float64 at
// elaboration time (spec.md §4.4: "+ − * / unary-minus, parentheses, pi,
// and the functions sin cos tan exp ln sqrt").
type Expr interface {
	exprNode()
}

type NumberExpr struct {
	Value float64
}

type PiExpr struct{}

type IdentExpr struct {
	Name string // only meaningful as a gate-parameter formal reference
	Span simerr.Span
}

type UnaryExpr struct {
	Op    byte // '-'
	Inner Expr
}

type BinaryExpr struct {
	Op          byte // '+' '-' '*' '/'
	Left, Right Expr
}

type CallExpr struct {
	Func string // sin cos tan exp ln sqrt
	Arg  Expr
	Span simerr.Span
}

func (NumberExpr) exprNode() {}
func (PiExpr) exprNode()     {}
func (IdentExpr) exprNode()  {}
func (UnaryExpr) exprNode()  {}
func (BinaryExpr) exprNode() {}
func (CallExpr) exprNode()   {}

// Arg is a quantum- or classical-bit argument: a bare register name (whole
// register, broadcast) or a register name with an explicit index.
type Arg struct {
	Name    string
	Indexed bool
	Index   int
	Span    simerr.Span
}

// Stmt is a top-level or gate-body statement.
type Stmt interface {
	stmtNode()
}

type VersionStmt struct {
	Version string
}

type IncludeStmt struct {
	Path string
	Span simerr.Span
}

type QregStmt struct {
	Name string
	Size int
	Span simerr.Span
}

type CregStmt struct {
	Name string
	Size int
	Span simerr.Span
}

// GateDecl declares a user gate (or, for the qelib1 body, a library gate):
// "gate name(params) args { body }".
type GateDecl struct {
	Name   string
	Params []string
	Args   []string
	Body   []Stmt // GateCallStmt and BarrierStmt only
	Span   simerr.Span
}

type OpaqueDecl struct {
	Name   string
	Params []string
	Args   []string
	Span   simerr.Span
}

// GateCallStmt applies a named gate (intrinsic, qelib1, or user-defined) to
// a list of arguments, with an optional parameter-expression list.
type GateCallStmt struct {
	Name   string
	Params []Expr
	Args   []Arg
	Span   simerr.Span
}

type MeasureStmt struct {
	Qubit Arg
	Creg  Arg
	Span  simerr.Span
}

type ResetStmt struct {
	Qubit Arg
	Span  simerr.Span
}

type BarrierStmt struct {
	Qubits []Arg
	Span   simerr.Span
}

type IfStmt struct {
	Creg  string
	Value int
	Inner Stmt
	Span  simerr.Span
}

func (VersionStmt) stmtNode()  {}
func (IncludeStmt) stmtNode()  {}
func (QregStmt) stmtNode()     {}
func (CregStmt) stmtNode()     {}
func (GateDecl) stmtNode()     {}
func (OpaqueDecl) stmtNode()   {}
func (GateCallStmt) stmtNode() {}
func (MeasureStmt) stmtNode()  {}
func (ResetStmt) stmtNode()    {}
func (BarrierStmt) stmtNode()  {}
func (IfStmt) stmtNode()       {}

// Program is the parsed, unelaborated source.
type Program struct {
	Statements []Stmt
}
