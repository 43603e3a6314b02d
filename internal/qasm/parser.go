package qasm

import (
	"strconv"

	"github.com/qdeck-labs/qsim/internal/simerr"
)

// Parser is a recursive-descent parser over a pre-lexed token stream.
type Parser struct {
	toks []Token
	pos  int
}

// Parse tokenizes and parses src into a Program.
func Parse(src string) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseProgram()
}

func (p *Parser) cur() Token {
	return p.toks[p.pos]
}

func (p *Parser) at(k TokenKind) bool {
	return p.cur().Kind == k
}

func (p *Parser) atKeyword(kw string) bool {
	return p.cur().Kind == TokIdent && p.cur().Text == kw
}

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k TokenKind, what string) (Token, error) {
	if !p.at(k) {
		return Token{}, simerr.Atf(simerr.KindParse, p.cur().Span(), "expected %s, found %q", what, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent(word string) error {
	if !p.atKeyword(word) {
		return simerr.Atf(simerr.KindParse, p.cur().Span(), "expected %q, found %q", word, p.cur().Text)
	}
	p.advance()
	return nil
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{}

	if p.atKeyword("OPENQASM") {
		span := p.cur().Span()
		p.advance()
		ver, err := p.expect(TokNumber, "version number")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokSemicolon, "';'"); err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, VersionStmt{Version: ver.Text})
		_ = span
	} else {
		return nil, simerr.Atf(simerr.KindParse, p.cur().Span(), "missing required OPENQASM 2.0; header")
	}

	for !p.at(TokEOF) {
		stmt, err := p.parseTopStmt()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func (p *Parser) parseTopStmt() (Stmt, error) {
	switch {
	case p.atKeyword("include"):
		return p.parseInclude()
	case p.atKeyword("qreg"):
		return p.parseQreg()
	case p.atKeyword("creg"):
		return p.parseCreg()
	case p.atKeyword("gate"):
		return p.parseGateDecl()
	case p.atKeyword("opaque"):
		return p.parseOpaque()
	default:
		return p.parseStmt()
	}
}

// parseStmt parses a statement that may occur at top level or inside a
// gate body / if-guard: gate calls, measure, reset, barrier, if.
func (p *Parser) parseStmt() (Stmt, error) {
	switch {
	case p.atKeyword("measure"):
		return p.parseMeasure()
	case p.atKeyword("reset"):
		return p.parseReset()
	case p.atKeyword("barrier"):
		return p.parseBarrier()
	case p.atKeyword("if"):
		return p.parseIf()
	case p.at(TokIdent):
		return p.parseGateCall()
	default:
		return nil, simerr.Atf(simerr.KindParse, p.cur().Span(), "unexpected token %q", p.cur().Text)
	}
}

func (p *Parser) parseInclude() (Stmt, error) {
	span := p.cur().Span()
	p.advance()
	tok, err := p.expect(TokString, "include path string")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon, "';'"); err != nil {
		return nil, err
	}
	return IncludeStmt{Path: tok.Text, Span: span}, nil
}

func (p *Parser) parseRegDecl() (string, int, simerr.Span, error) {
	span := p.cur().Span()
	p.advance() // qreg/creg keyword
	name, err := p.expect(TokIdent, "register name")
	if err != nil {
		return "", 0, span, err
	}
	if _, err := p.expect(TokLBracket, "'['"); err != nil {
		return "", 0, span, err
	}
	size, err := p.expect(TokNumber, "register size")
	if err != nil {
		return "", 0, span, err
	}
	if _, err := p.expect(TokRBracket, "']'"); err != nil {
		return "", 0, span, err
	}
	if _, err := p.expect(TokSemicolon, "';'"); err != nil {
		return "", 0, span, err
	}
	n, convErr := strconv.Atoi(size.Text)
	if convErr != nil {
		return "", 0, span, simerr.Atf(simerr.KindParse, size.Span(), "invalid register size %q", size.Text)
	}
	return name.Text, n, span, nil
}

func (p *Parser) parseQreg() (Stmt, error) {
	name, size, span, err := p.parseRegDecl()
	if err != nil {
		return nil, err
	}
	return QregStmt{Name: name, Size: size, Span: span}, nil
}

func (p *Parser) parseCreg() (Stmt, error) {
	name, size, span, err := p.parseRegDecl()
	if err != nil {
		return nil, err
	}
	return CregStmt{Name: name, Size: size, Span: span}, nil
}

func (p *Parser) parseIdentList() ([]string, error) {
	var names []string
	for {
		tok, err := p.expect(TokIdent, "identifier")
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Text)
		if p.at(TokComma) {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

func (p *Parser) parseGateDecl() (Stmt, error) {
	span := p.cur().Span()
	p.advance() // gate
	name, err := p.expect(TokIdent, "gate name")
	if err != nil {
		return nil, err
	}
	var params []string
	if p.at(TokLParen) {
		p.advance()
		if !p.at(TokRParen) {
			params, err = p.parseIdentList()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
	}
	args, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBrace, "'{'"); err != nil {
		return nil, err
	}
	var body []Stmt
	for !p.at(TokRBrace) {
		if p.atKeyword("barrier") {
			st, err := p.parseBarrier()
			if err != nil {
				return nil, err
			}
			body = append(body, st)
			continue
		}
		st, err := p.parseGateCall()
		if err != nil {
			return nil, err
		}
		body = append(body, st)
	}
	if _, err := p.expect(TokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return GateDecl{Name: name.Text, Params: params, Args: args, Body: body, Span: span}, nil
}

func (p *Parser) parseOpaque() (Stmt, error) {
	span := p.cur().Span()
	p.advance() // opaque
	name, err := p.expect(TokIdent, "gate name")
	if err != nil {
		return nil, err
	}
	var params []string
	if p.at(TokLParen) {
		p.advance()
		if !p.at(TokRParen) {
			params, err = p.parseIdentList()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
	}
	args, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon, "';'"); err != nil {
		return nil, err
	}
	return OpaqueDecl{Name: name.Text, Params: params, Args: args, Span: span}, nil
}

func (p *Parser) parseArg() (Arg, error) {
	tok, err := p.expect(TokIdent, "argument")
	if err != nil {
		return Arg{}, err
	}
	arg := Arg{Name: tok.Text, Span: tok.Span()}
	if p.at(TokLBracket) {
		p.advance()
		idx, err := p.expect(TokNumber, "index")
		if err != nil {
			return Arg{}, err
		}
		if _, err := p.expect(TokRBracket, "']'"); err != nil {
			return Arg{}, err
		}
		n, convErr := strconv.Atoi(idx.Text)
		if convErr != nil {
			return Arg{}, simerr.Atf(simerr.KindParse, idx.Span(), "invalid index %q", idx.Text)
		}
		arg.Indexed = true
		arg.Index = n
	}
	return arg, nil
}

func (p *Parser) parseArgList() ([]Arg, error) {
	var args []Arg
	for {
		a, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.at(TokComma) {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

func (p *Parser) parseGateCall() (Stmt, error) {
	name, err := p.expect(TokIdent, "gate name")
	if err != nil {
		return nil, err
	}
	var params []Expr
	if p.at(TokLParen) {
		p.advance()
		if !p.at(TokRParen) {
			for {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				params = append(params, e)
				if p.at(TokComma) {
					p.advance()
					continue
				}
				break
			}
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon, "';'"); err != nil {
		return nil, err
	}
	return GateCallStmt{Name: name.Text, Params: params, Args: args, Span: name.Span()}, nil
}

func (p *Parser) parseMeasure() (Stmt, error) {
	span := p.cur().Span()
	p.advance() // measure
	q, err := p.parseArg()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokArrow, "'->'"); err != nil {
		return nil, err
	}
	c, err := p.parseArg()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon, "';'"); err != nil {
		return nil, err
	}
	return MeasureStmt{Qubit: q, Creg: c, Span: span}, nil
}

func (p *Parser) parseReset() (Stmt, error) {
	span := p.cur().Span()
	p.advance() // reset
	q, err := p.parseArg()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon, "';'"); err != nil {
		return nil, err
	}
	return ResetStmt{Qubit: q, Span: span}, nil
}

func (p *Parser) parseBarrier() (Stmt, error) {
	span := p.cur().Span()
	p.advance() // barrier
	var qs []Arg
	if !p.at(TokSemicolon) {
		var err error
		qs, err = p.parseArgList()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokSemicolon, "';'"); err != nil {
		return nil, err
	}
	return BarrierStmt{Qubits: qs, Span: span}, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	span := p.cur().Span()
	p.advance() // if
	if _, err := p.expect(TokLParen, "'('"); err != nil {
		return nil, err
	}
	creg, err := p.expect(TokIdent, "classical register name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokEq, "'=='"); err != nil {
		return nil, err
	}
	val, err := p.expect(TokNumber, "comparison value")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen, "')'"); err != nil {
		return nil, err
	}
	inner, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	n, convErr := strconv.Atoi(val.Text)
	if convErr != nil {
		return nil, simerr.Atf(simerr.KindParse, val.Span(), "invalid comparison value %q", val.Text)
	}
	return IfStmt{Creg: creg.Text, Value: n, Inner: inner, Span: span}, nil
}

// --- Parameter expressions: precedence-climbing over +, -, *, /, unary -,
// parens, the constant pi, identifiers (formal parameter references), and
// the function calls sin/cos/tan/exp/ln/sqrt.

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseAddSub()
}

func (p *Parser) parseAddSub() (Expr, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for p.at(TokPlus) || p.at(TokMinus) {
		op := byte('+')
		if p.at(TokMinus) {
			op = '-'
		}
		p.advance()
		right, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMulDiv() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(TokStar) || p.at(TokSlash) {
		op := byte('*')
		if p.at(TokSlash) {
			op = '/'
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.at(TokMinus) {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return UnaryExpr{Op: '-', Inner: inner}, nil
	}
	if p.at(TokPlus) {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

var exprFuncs = map[string]bool{"sin": true, "cos": true, "tan": true, "exp": true, "ln": true, "sqrt": true}

func (p *Parser) parsePrimary() (Expr, error) {
	switch {
	case p.at(TokNumber):
		tok := p.advance()
		f, convErr := strconv.ParseFloat(tok.Text, 64)
		if convErr != nil {
			return nil, simerr.Atf(simerr.KindParse, tok.Span(), "invalid number %q", tok.Text)
		}
		return NumberExpr{Value: f}, nil
	case p.at(TokLParen):
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case p.atKeyword("pi"):
		p.advance()
		return PiExpr{}, nil
	case p.at(TokIdent) && exprFuncs[p.cur().Text]:
		tok := p.advance()
		if _, err := p.expect(TokLParen, "'('"); err != nil {
			return nil, err
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
		return CallExpr{Func: tok.Text, Arg: arg, Span: tok.Span()}, nil
	case p.at(TokIdent):
		tok := p.advance()
		return IdentExpr{Name: tok.Text, Span: tok.Span()}, nil
	default:
		return nil, simerr.Atf(simerr.KindParse, p.cur().Span(), "expected expression, found %q", p.cur().Text)
	}
}
