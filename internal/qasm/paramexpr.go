package qasm

import (
	"math"

	"github.com/qdeck-labs/qsim/internal/simerr"
)

// evalExpr evaluates a parameter expression to a binary64 value. bindings
// maps formal parameter names (from an enclosing gate declaration) to the
// actual values substituted in at the call site; it is nil when evaluating
// a top-level gate-call parameter, where a bare identifier is an error.
func evalExpr(e Expr, bindings map[string]float64) (float64, error) {
	switch n := e.(type) {
	case NumberExpr:
		return n.Value, nil
	case PiExpr:
		return math.Pi, nil
	case IdentExpr:
		if v, ok := bindings[n.Name]; ok {
			return v, nil
		}
		return 0, simerr.Atf(simerr.KindSemantic, n.Span, "undefined parameter %q", n.Name)
	case UnaryExpr:
		v, err := evalExpr(n.Inner, bindings)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case BinaryExpr:
		l, err := evalExpr(n.Left, bindings)
		if err != nil {
			return 0, err
		}
		r, err := evalExpr(n.Right, bindings)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case '+':
			return l + r, nil
		case '-':
			return l - r, nil
		case '*':
			return l * r, nil
		case '/':
			return l / r, nil
		}
		return 0, nil
	case CallExpr:
		v, err := evalExpr(n.Arg, bindings)
		if err != nil {
			return 0, err
		}
		switch n.Func {
		case "sin":
			return math.Sin(v), nil
		case "cos":
			return math.Cos(v), nil
		case "tan":
			return math.Tan(v), nil
		case "exp":
			return math.Exp(v), nil
		case "ln":
			return math.Log(v), nil
		case "sqrt":
			return math.Sqrt(v), nil
		default:
			return 0, simerr.Atf(simerr.KindSemantic, n.Span, "unknown function %q", n.Func)
		}
	default:
		return 0, simerr.New(simerr.KindSemantic, "malformed parameter expression")
	}
}

// evalExprs evaluates a list of expressions in order.
func evalExprs(exprs []Expr, bindings map[string]float64) ([]float64, error) {
	out := make([]float64, len(exprs))
	for i, e := range exprs {
		v, err := evalExpr(e, bindings)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
