package qasm

import "github.com/qdeck-labs/qsim/internal/simerr"

// qelib1Source is the text of the standard OpenQASM 2.0 gate library
// (spec.md §6's "Included gate library" list), written purely in terms of
// the two language-primitive gates `U(theta,phi,lambda) q` and `CX c,t`,
// exactly as the real qelib1.inc does. The elaborator does not expand
// calls through this text: `include "qelib1.inc";` only enables the names
// in elaborator.go's intrinsics table, and parseQelib1 is its only reader.
const qelib1Source = `
gate u3(theta,phi,lambda) q { U(theta,phi,lambda) q; }
gate u2(phi,lambda) q { U(pi/2,phi,lambda) q; }
gate u1(lambda) q { U(0,0,lambda) q; }
gate cx c,t { CX c,t; }
gate id a { U(0,0,0) a; }
gate u0(gamma) q { U(0,0,0) q; }
gate x a { u3(pi,0,pi) a; }
gate y a { u3(pi,pi/2,pi/2) a; }
gate z a { u1(pi) a; }
gate h a { u2(0,pi) a; }
gate s a { u1(pi/2) a; }
gate sdg a { u1(-pi/2) a; }
gate t a { u1(pi/4) a; }
gate tdg a { u1(-pi/4) a; }
gate rx(theta) a { u3(theta,-pi/2,pi/2) a; }
gate ry(theta) a { u3(theta,0,0) a; }
gate rz(phi) a { u1(phi) a; }
gate cz a,b { h b; cx a,b; h b; }
gate cy a,b { sdg b; cx a,b; s b; }
gate ch a,b {
  h b;
  sdg b;
  cx a,b;
  h b;
  t b;
  cx a,b;
  t b;
  h b;
  s b;
  x b;
  s a;
}
gate ccx a,b,c {
  h c;
  cx b,c; tdg c;
  cx a,c; t c;
  cx b,c; tdg c;
  cx a,c; t b; t c; h c;
  cx a,b; t a; tdg b;
  cx a,b;
}
gate crz(lambda) a,b {
  u1(lambda/2) b;
  cx a,b;
  u1(-lambda/2) b;
  cx a,b;
}
gate cu1(lambda) a,b {
  u1(lambda/2) a;
  cx a,b;
  u1(-lambda/2) b;
  cx a,b;
  u1(lambda/2) b;
}
gate cu3(theta,phi,lambda) c,t {
  u1((lambda+phi)/2) c;
  u1((lambda-phi)/2) t;
  cx c,t;
  u3(-theta/2,0,-(phi+lambda)/2) t;
  cx c,t;
  u3(theta/2,phi,0) t;
}
gate swap a,b { cx a,b; cx b,a; cx a,b; }
`

// parseQelib1 parses the library text into its gate declarations. Panics on
// error, since this is fixed, checked-in source, not user input — a syntax
// error here is a bug in this package, not a malformed program.
func parseQelib1() []GateDecl {
	prog, err := Parse("OPENQASM 2.0;\n" + qelib1Source)
	if err != nil {
		panic(err)
	}
	var decls []GateDecl
	for _, st := range prog.Statements {
		if gd, ok := st.(GateDecl); ok {
			decls = append(decls, gd)
		}
	}
	return decls
}

// isPrimitive reports whether name is one of the two language-primitive
// gates (U, CX) that qelib1.inc itself is written in terms of and that
// never go through user-gate expansion.
func isPrimitive(name string) bool {
	return name == "U" || name == "CX"
}

func errUnsupportedGate(span simerr.Span, name string) error {
	return simerr.Atf(simerr.KindUnsupportedGate, span, "gate %q is not an intrinsic, qelib1, or user-defined gate", name)
}
