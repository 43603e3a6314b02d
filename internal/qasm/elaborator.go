package qasm

import (
	"go.uber.org/multierr"

	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/gate"
	"github.com/qdeck-labs/qsim/internal/simerr"
)

type regInfo struct {
	offset, size int
}

// intrinSpec is a static binding from a gate-library name to its closed
// intrinsic form: a single-qubit kind, a two-qubit kind, or a controlled
// lift of a single-qubit kind over one or more controls. Every qelib1 name
// spec.md §6 lists resolves to one of these without ever needing body
// substitution, since the IR's OpControlled carries any number of control
// qubits and internal/eval's controlled kernel applies it directly — only a
// program's own `gate` declarations go through substitution expansion.
type intrinSpec struct {
	single     bool
	two        bool
	controlled bool
	kind       gate.Kind
	twoKind    gate.TwoKind
	numCtrl    int
}

var intrinsics = map[string]intrinSpec{
	"U":    {single: true, kind: gate.U3},
	"u3":   {single: true, kind: gate.U3},
	"u2":   {single: true, kind: gate.U2},
	"u1":   {single: true, kind: gate.U1},
	"u0":   {single: true, kind: gate.I},
	"id":   {single: true, kind: gate.I},
	"x":    {single: true, kind: gate.X},
	"y":    {single: true, kind: gate.Y},
	"z":    {single: true, kind: gate.Z},
	"h":    {single: true, kind: gate.H},
	"s":    {single: true, kind: gate.S},
	"sdg":  {single: true, kind: gate.Sdg},
	"t":    {single: true, kind: gate.T},
	"tdg":  {single: true, kind: gate.Tdg},
	"sx":   {single: true, kind: gate.SX},
	"sxdg": {single: true, kind: gate.SXdg},
	"rx":   {single: true, kind: gate.Rx},
	"ry":   {single: true, kind: gate.Ry},
	"rz":   {single: true, kind: gate.Rz},

	"CX":   {two: true, twoKind: gate.CNOT},
	"cx":   {two: true, twoKind: gate.CNOT},
	"cz":   {two: true, twoKind: gate.CZ},
	"swap": {two: true, twoKind: gate.SWAP},

	"cy":  {controlled: true, kind: gate.Y, numCtrl: 1},
	"ch":  {controlled: true, kind: gate.H, numCtrl: 1},
	"crz": {controlled: true, kind: gate.Rz, numCtrl: 1},
	"cu1": {controlled: true, kind: gate.U1, numCtrl: 1},
	"cu3": {controlled: true, kind: gate.U3, numCtrl: 1},
	"ccx": {controlled: true, kind: gate.X, numCtrl: 2},
}

func intrinArity(spec intrinSpec) int {
	switch {
	case spec.single:
		return 1
	case spec.two:
		return 2
	case spec.controlled:
		return spec.numCtrl + 1
	default:
		return 0
	}
}

// Elaborator lowers a parsed Program to a circuit.Circuit, resolving
// registers, qelib1 inclusion, and user-gate substitution (with cycle
// detection), generalizing the teacher's regex-driven ParseQASM
// (circuit.go) and its DAG step assignment (dag.go) into a real multi-pass
// semantic analysis.
type Elaborator struct {
	maxQubits int

	qregs map[string]regInfo
	cregs map[string]regInfo
	qregOrder []string

	numQubits int
	numCbits  int

	qelib1Included bool
	userGates      map[string]GateDecl
	opaque         map[string]bool

	sched         *circuit.Scheduler
	classical     []circuit.ClassicalInstr
	barrierPoints []int

	errs error
}

// Elaborate runs the full pipeline: lex+parse src, then lower to a Circuit.
func Elaborate(src string, maxQubits int) (*circuit.Circuit, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return ElaborateProgram(prog, maxQubits)
}

// ElaborateProgram lowers an already-parsed Program.
func ElaborateProgram(prog *Program, maxQubits int) (*circuit.Circuit, error) {
	e := &Elaborator{
		maxQubits: maxQubits,
		qregs:     map[string]regInfo{},
		cregs:     map[string]regInfo{},
		userGates: map[string]GateDecl{},
		opaque:    map[string]bool{},
	}

	for _, st := range prog.Statements {
		switch s := st.(type) {
		case QregStmt:
			if _, dup := e.qregs[s.Name]; dup {
				e.emit(simerr.Atf(simerr.KindSemantic, s.Span, "qreg %q already declared", s.Name))
				continue
			}
			e.qregs[s.Name] = regInfo{offset: e.numQubits, size: s.Size}
			e.qregOrder = append(e.qregOrder, s.Name)
			e.numQubits += s.Size
		case CregStmt:
			if _, dup := e.cregs[s.Name]; dup {
				e.emit(simerr.Atf(simerr.KindSemantic, s.Span, "creg %q already declared", s.Name))
				continue
			}
			e.cregs[s.Name] = regInfo{offset: e.numCbits, size: s.Size}
			e.numCbits += s.Size
		}
	}

	if e.errs != nil {
		return nil, e.errs
	}
	if e.numQubits > e.maxQubits {
		return nil, simerr.Atf(simerr.KindTooManyQubits, simerr.Span{}, "circuit uses %d qubits, exceeding the configured cap of %d", e.numQubits, e.maxQubits)
	}

	e.sched = circuit.NewScheduler(e.numQubits)

	for _, st := range prog.Statements {
		switch s := st.(type) {
		case VersionStmt, QregStmt, CregStmt:
			// handled in the register pre-pass
		case IncludeStmt:
			e.handleInclude(s)
		case GateDecl:
			e.handleGateDecl(s)
		case OpaqueDecl:
			e.handleOpaque(s)
		case GateCallStmt:
			e.handleTopGateCall(s)
		case MeasureStmt:
			e.handleMeasure(s)
		case ResetStmt:
			e.handleReset(s)
		case BarrierStmt:
			e.handleBarrier(s)
		case IfStmt:
			e.handleIf(s)
		default:
			e.emit(simerr.New(simerr.KindSemantic, "unrecognized statement"))
		}
	}

	if e.errs != nil {
		return nil, e.errs
	}

	cregOffsets := map[string]int{}
	cregWidths := map[string]int{}
	for name, info := range e.cregs {
		cregOffsets[name] = info.offset
		cregWidths[name] = info.size
	}

	return &circuit.Circuit{
		NumQubits:        e.numQubits,
		NumCbits:         e.numCbits,
		Moments:          e.sched.Moments(),
		CregOffsets:      cregOffsets,
		CregWidths:       cregWidths,
		ClassicalProgram: e.classical,
		BarrierPoints:    e.barrierPoints,
	}, nil
}

func (e *Elaborator) emit(err error) {
	e.errs = multierr.Append(e.errs, err)
}

func (e *Elaborator) handleInclude(s IncludeStmt) {
	if s.Path != "qelib1.inc" {
		e.emit(simerr.Atf(simerr.KindSemantic, s.Span, "unknown include %q", s.Path))
		return
	}
	e.qelib1Included = true
}

func (e *Elaborator) handleGateDecl(s GateDecl) {
	if _, exists := e.userGates[s.Name]; exists {
		e.emit(simerr.Atf(simerr.KindSemantic, s.Span, "gate %q already declared", s.Name))
		return
	}
	e.userGates[s.Name] = s
}

func (e *Elaborator) handleOpaque(s OpaqueDecl) {
	if _, isIntrinsic := intrinsics[s.Name]; isIntrinsic {
		return
	}
	e.opaque[s.Name] = true
	e.emit(simerr.At(simerr.KindUnsupportedGate, s.Span, "opaque gate \""+s.Name+"\" is not in the intrinsic table"))
}

// resolveArg resolves a top-level (register-scoped) argument to the list of
// absolute indices it denotes: one element if indexed, the whole register
// if bare (broadcast).
func (e *Elaborator) resolveArg(arg Arg, regs map[string]regInfo, kindName string) ([]int, error) {
	info, ok := regs[arg.Name]
	if !ok {
		return nil, simerr.Atf(simerr.KindSemantic, arg.Span, "undefined %s register %q", kindName, arg.Name)
	}
	if arg.Indexed {
		if arg.Index < 0 || arg.Index >= info.size {
			return nil, simerr.Atf(simerr.KindSemantic, arg.Span, "index %d out of range for register %q of size %d", arg.Index, arg.Name, info.size)
		}
		return []int{info.offset + arg.Index}, nil
	}
	idxs := make([]int, info.size)
	for i := 0; i < info.size; i++ {
		idxs[i] = info.offset + i
	}
	return idxs, nil
}

// broadcastTuples expands a list of per-argument index lists into N
// argument tuples per the QASM 2.0 broadcasting rule (§4.4): every
// multi-element operand must share one common length; singleton operands
// are replicated to that length.
func broadcastTuples(argLists [][]int, span simerr.Span) ([][]int, error) {
	n := 1
	found := false
	for _, l := range argLists {
		if len(l) == 1 {
			continue
		}
		if !found {
			n = len(l)
			found = true
			continue
		}
		if len(l) != n {
			return nil, simerr.Atf(simerr.KindSemantic, span, "broadcast length mismatch: %d vs %d", len(l), n)
		}
	}
	tuples := make([][]int, n)
	for i := 0; i < n; i++ {
		tuple := make([]int, len(argLists))
		for j, l := range argLists {
			if len(l) == 1 {
				tuple[j] = l[0]
			} else {
				tuple[j] = l[i]
			}
		}
		tuples[i] = tuple
	}
	return tuples, nil
}

func (e *Elaborator) handleTopGateCall(s GateCallStmt) {
	ops, err := e.lowerTopGateCall(s)
	if err != nil {
		e.emit(err)
		return
	}
	for _, op := range ops {
		e.sched.Place(op)
	}
}

func (e *Elaborator) lowerTopGateCall(s GateCallStmt) ([]*circuit.Op, error) {
	argLists := make([][]int, len(s.Args))
	for i, a := range s.Args {
		l, err := e.resolveArg(a, e.qregs, "quantum")
		if err != nil {
			return nil, err
		}
		argLists[i] = l
	}
	tuples, err := broadcastTuples(argLists, s.Span)
	if err != nil {
		return nil, err
	}
	values, err := evalExprs(s.Params, nil)
	if err != nil {
		return nil, err
	}

	var ops []*circuit.Op
	for _, tuple := range tuples {
		sub, err := e.lowerApplication(s.Name, values, tuple, s.Span, nil)
		if err != nil {
			return nil, err
		}
		ops = append(ops, sub...)
	}
	return ops, nil
}

// lowerApplication resolves one concrete (non-broadcast) gate application to
// zero or more IR ops: a direct intrinsic, or a recursive expansion through
// a user-declared gate body. callStack carries the chain of user-gate names
// currently being expanded, for cycle detection.
func (e *Elaborator) lowerApplication(name string, values []float64, qubits []int, span simerr.Span, callStack []string) ([]*circuit.Op, error) {
	if spec, ok := intrinsics[name]; ok && (isPrimitive(name) || e.qelib1Included) {
		if want := intrinArity(spec); want != len(qubits) {
			return nil, simerr.Atf(simerr.KindSemantic, span, "gate %q expects %d qubit argument(s), got %d", name, want, len(qubits))
		}
		return []*circuit.Op{e.buildIntrinsicOp(spec, name, values, qubits, span)}, nil
	}

	decl, ok := e.userGates[name]
	if !ok {
		if e.opaque[name] {
			return nil, errUnsupportedGate(span, name)
		}
		return nil, simerr.Atf(simerr.KindSemantic, span, "undefined gate %q", name)
	}
	for _, seen := range callStack {
		if seen == name {
			return nil, simerr.Atf(simerr.KindSemantic, span, "recursive gate definition: %q", append(append([]string{}, callStack...), name))
		}
	}
	if len(decl.Params) != len(values) {
		return nil, simerr.Atf(simerr.KindSemantic, span, "gate %q expects %d parameter(s), got %d", name, len(decl.Params), len(values))
	}
	if len(decl.Args) != len(qubits) {
		return nil, simerr.Atf(simerr.KindSemantic, span, "gate %q expects %d qubit argument(s), got %d", name, len(decl.Args), len(qubits))
	}

	paramBindings := make(map[string]float64, len(decl.Params))
	for i, p := range decl.Params {
		paramBindings[p] = values[i]
	}
	argBindings := make(map[string]int, len(decl.Args))
	for i, a := range decl.Args {
		argBindings[a] = qubits[i]
	}

	nextStack := append(append([]string{}, callStack...), name)

	var ops []*circuit.Op
	for _, bodyStmt := range decl.Body {
		call, ok := bodyStmt.(GateCallStmt)
		if !ok {
			continue // bodies only ever contain gate calls (barrier has no semantic effect inside one)
		}
		innerValues, err := evalExprs(call.Params, paramBindings)
		if err != nil {
			return nil, err
		}
		innerQubits := make([]int, len(call.Args))
		for i, a := range call.Args {
			if a.Indexed {
				return nil, simerr.Atf(simerr.KindSemantic, a.Span, "gate body argument %q cannot be indexed", a.Name)
			}
			q, ok := argBindings[a.Name]
			if !ok {
				return nil, simerr.Atf(simerr.KindSemantic, a.Span, "undefined argument %q in body of gate %q", a.Name, name)
			}
			innerQubits[i] = q
		}
		sub, err := e.lowerApplication(call.Name, innerValues, innerQubits, call.Span, nextStack)
		if err != nil {
			return nil, err
		}
		ops = append(ops, sub...)
	}
	return ops, nil
}

func (e *Elaborator) buildIntrinsicOp(spec intrinSpec, name string, values []float64, qubits []int, span simerr.Span) *circuit.Op {
	switch {
	case spec.single:
		return &circuit.Op{OpTag: circuit.OpSingle, Tag: circuit.Span(span), Kind: spec.kind, Qubit: qubits[0], Params: values}
	case spec.two:
		return &circuit.Op{OpTag: circuit.OpTwo, Tag: circuit.Span(span), TwoKind: spec.twoKind, Control: qubits[0], TargetQubit: qubits[1]}
	case spec.controlled:
		controls := append([]int{}, qubits[:spec.numCtrl]...)
		return &circuit.Op{
			OpTag:         circuit.OpControlled,
			Tag:           circuit.Span(span),
			Kind:          spec.kind,
			Params:        values,
			ControlQubits: controls,
			TargetQubit:   qubits[len(qubits)-1],
		}
	default:
		return nil
	}
}

func (e *Elaborator) handleMeasure(s MeasureStmt) {
	ops, err := e.lowerMeasure(s)
	if err != nil {
		e.emit(err)
		return
	}
	for _, op := range ops {
		e.sched.Place(op)
		e.classical = append(e.classical, circuit.ClassicalInstr{Op: op})
	}
}

// lowerMeasure resolves a measure statement's qubit/creg broadcasts into one
// OpMeasure per pair, shared by the bare and if-guarded forms.
func (e *Elaborator) lowerMeasure(s MeasureStmt) ([]*circuit.Op, error) {
	qubits, err := e.resolveArg(s.Qubit, e.qregs, "quantum")
	if err != nil {
		return nil, err
	}
	cbits, err := e.resolveArg(s.Creg, e.cregs, "classical")
	if err != nil {
		return nil, err
	}
	if len(qubits) != len(cbits) {
		return nil, simerr.Atf(simerr.KindSemantic, s.Span, "measure broadcast length mismatch: %d qubits, %d classical bits", len(qubits), len(cbits))
	}
	ops := make([]*circuit.Op, len(qubits))
	for i := range qubits {
		ops[i] = &circuit.Op{OpTag: circuit.OpMeasure, Tag: circuit.Span(s.Span), Qubit: qubits[i], CregIndex: cbits[i]}
	}
	return ops, nil
}

func (e *Elaborator) handleReset(s ResetStmt) {
	for _, op := range e.lowerReset(s) {
		e.sched.Place(op)
		e.classical = append(e.classical, circuit.ClassicalInstr{Op: op})
	}
}

// lowerReset resolves a reset statement's qubit broadcast into one OpReset
// per qubit, shared by the bare and if-guarded forms.
func (e *Elaborator) lowerReset(s ResetStmt) []*circuit.Op {
	qubits, err := e.resolveArg(s.Qubit, e.qregs, "quantum")
	if err != nil {
		e.emit(err)
		return nil
	}
	ops := make([]*circuit.Op, len(qubits))
	for i, q := range qubits {
		ops[i] = &circuit.Op{OpTag: circuit.OpReset, Tag: circuit.Span(s.Span), Qubit: q}
	}
	return ops
}

func (e *Elaborator) handleBarrier(s BarrierStmt) {
	var qubits []int
	for _, a := range s.Qubits {
		l, err := e.resolveArg(a, e.qregs, "quantum")
		if err != nil {
			e.emit(err)
			return
		}
		qubits = append(qubits, l...)
	}
	moment := e.sched.Barrier(qubits)
	e.barrierPoints = append(e.barrierPoints, moment)
}

func (e *Elaborator) handleIf(s IfStmt) {
	info, ok := e.cregs[s.Creg]
	if !ok {
		e.emit(simerr.Atf(simerr.KindSemantic, s.Span, "undefined classical register %q in if-guard", s.Creg))
		return
	}
	_ = info

	var ops []*circuit.Op
	switch inner := s.Inner.(type) {
	case GateCallStmt:
		lowered, err := e.lowerTopGateCall(inner)
		if err != nil {
			e.emit(err)
			return
		}
		ops = lowered
	case MeasureStmt:
		lowered, err := e.lowerMeasure(inner)
		if err != nil {
			e.emit(err)
			return
		}
		ops = lowered
	case ResetStmt:
		ops = e.lowerReset(inner)
	default:
		e.emit(simerr.At(simerr.KindSemantic, s.Span, "if-guard body must be a gate application, measure, or reset"))
		return
	}
	for _, op := range ops {
		guarded := &circuit.Op{
			OpTag:    circuit.OpIf,
			Tag:      circuit.Span(s.Span),
			CregName: s.Creg,
			IfValue:  s.Value,
			Inner:    op,
		}
		// A guard reads classical bits that measurements on other qubits
		// write, so it is ordered after every earlier operation and before
		// every later one.
		e.sched.Barrier(nil)
		e.sched.Place(guarded)
		e.sched.Barrier(nil)
		e.classical = append(e.classical, circuit.ClassicalInstr{Op: guarded})
	}
}
