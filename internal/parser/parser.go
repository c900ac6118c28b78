// Package parser builds an expression tree (internal/ast) from a token
// stream (internal/lexer) using Pratt-style precedence climbing, following
// the grammar in the language specification: arithmetic, comparisons,
// logical operators, ternary, assignment, sequences, array/object literals,
// method chains, casts, safe navigation, and spreads.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/skillet/internal/ast"
	"github.com/cwbudde/skillet/internal/lexer"
	"github.com/cwbudde/skillet/internal/token"
)

// DefaultMaxDepth bounds expression nesting to guard against stack
// exhaustion in pathological input, per the resource-model guidance of
// capping recursion depth at parse time.
const DefaultMaxDepth = 256

// ParseError describes a single parse failure with its source position.
type ParseError struct {
	Message string
	Pos     token.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Message)
}

// Position implements errutil.PositionedError.
func (e *ParseError) Position() *token.Position { return &e.Pos }

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth overrides the default nesting-depth cap.
func WithMaxDepth(n int) Option {
	return func(p *Parser) { p.maxDepth = n }
}

// Parser consumes a token stream and produces an ast.Node.
type Parser struct {
	toks     []token.Token
	pos      int
	maxDepth int
	depth    int
	errs     []*ParseError
}

// New creates a Parser for src.
func New(src string, opts ...Option) *Parser {
	p := &Parser{
		toks:     lexer.Tokenize(src),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse scans and parses the whole input, returning the root node (a
// Sequence if the input contains top-level ';'-separated statements).
func Parse(src string, opts ...Option) (ast.Node, error) {
	p := New(src, opts...)
	node := p.parseSequence()
	if !p.at(token.EOF) {
		p.errorf("unexpected token %q", p.cur().Literal)
	}
	if len(p.errs) > 0 {
		return nil, p.errs[0]
	}
	return node, nil
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.errorf("expected %s, got %q", k, p.cur().Literal)
		return p.cur()
	}
	return p.advance()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, &ParseError{Message: fmt.Sprintf(format, args...), Pos: p.cur().Pos})
}

func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.errorf("expression nesting exceeds maximum depth %d", p.maxDepth)
		return false
	}
	return true
}

func (p *Parser) leave() { p.depth-- }

// identUpper returns the upper-cased literal of an IDENT token, used for
// keyword and operator-word matching (AND, OR, NOT, TRUE, FALSE, NULL).
func identUpper(t token.Token) string {
	if t.Kind != token.IDENT {
		return ""
	}
	return strings.ToUpper(t.Literal)
}

// --- grammar, loosest to tightest ---

// sequence := assignOrExpr (";" assignOrExpr)*
func (p *Parser) parseSequence() ast.Node {
	pos := p.cur().Pos
	first := p.parseAssignment()
	if !p.at(token.SEMI) {
		return first
	}
	exprs := []ast.Node{first}
	for p.at(token.SEMI) {
		p.advance()
		if p.at(token.EOF) {
			break
		}
		exprs = append(exprs, p.parseAssignment())
	}
	return &ast.Sequence{Exprs: exprs, Base: ast.NewBase(pos)}
}

// assignment := VARREF ":=" assignment | ternary
func (p *Parser) parseAssignment() ast.Node {
	if !p.enter() {
		return &ast.NullLit{}
	}
	defer p.leave()

	if p.at(token.VARREF) && p.peekAt(1).Kind == token.ASSIGN {
		pos := p.cur().Pos
		name := p.advance().Literal
		p.advance() // :=
		value := p.parseAssignment()
		return &ast.Assign{Name: name, Value: value, Base: ast.NewBase(pos)}
	}
	return p.parseTernary()
}

// ternary := orExpr ("?" ternary ":" ternary)?   (right-associative)
func (p *Parser) parseTernary() ast.Node {
	cond := p.parseOr()
	if !p.at(token.QUESTION) {
		return cond
	}
	pos := p.advance().Pos
	thenExpr := p.parseTernary()
	p.expect(token.COLON)
	elseExpr := p.parseTernary()
	return &ast.Ternary{Cond: cond, Then: thenExpr, Else: elseExpr, Base: ast.NewBase(pos)}
}

func (p *Parser) isOrWord() bool  { return p.at(token.OR_OR) || identUpper(p.cur()) == "OR" }
func (p *Parser) isAndWord() bool { return p.at(token.AND_AND) || identUpper(p.cur()) == "AND" }

// orExpr := andExpr (("OR"|"||") andExpr)*
func (p *Parser) parseOr() ast.Node {
	left := p.parseAnd()
	for p.isOrWord() {
		pos := p.advance().Pos
		right := p.parseAnd()
		left = &ast.Binary{Op: "OR", Left: left, Right: right, Base: ast.NewBase(pos)}
	}
	return left
}

// andExpr := cmpExpr (("AND"|"&&") cmpExpr)*
func (p *Parser) parseAnd() ast.Node {
	left := p.parseComparison()
	for p.isAndWord() {
		pos := p.advance().Pos
		right := p.parseComparison()
		left = &ast.Binary{Op: "AND", Left: left, Right: right, Base: ast.NewBase(pos)}
	}
	return left
}

var cmpOps = map[token.Kind]string{
	token.EQ: "==", token.NEQ: "!=", token.LT: "<", token.LE: "<=", token.GT: ">", token.GE: ">=",
}

// cmpExpr := addExpr (cmpOp addExpr)*
func (p *Parser) parseComparison() ast.Node {
	left := p.parseAdditive()
	for {
		op, ok := cmpOps[p.cur().Kind]
		if !ok {
			return left
		}
		pos := p.advance().Pos
		right := p.parseAdditive()
		left = &ast.Binary{Op: op, Left: left, Right: right, Base: ast.NewBase(pos)}
	}
}

// addExpr := mulExpr (("+"|"-") mulExpr)*
func (p *Parser) parseAdditive() ast.Node {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.cur().Literal
		pos := p.advance().Pos
		right := p.parseMultiplicative()
		left = &ast.Binary{Op: op, Left: left, Right: right, Base: ast.NewBase(pos)}
	}
	return left
}

// mulExpr := powExpr (("*"|"/"|"%") powExpr)*
func (p *Parser) parseMultiplicative() ast.Node {
	left := p.parsePower()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		op := p.cur().Literal
		pos := p.advance().Pos
		right := p.parsePower()
		left = &ast.Binary{Op: op, Left: left, Right: right, Base: ast.NewBase(pos)}
	}
	return left
}

// powExpr := unary ("^" powExpr)?    (right-associative)
func (p *Parser) parsePower() ast.Node {
	left := p.parseUnary()
	if p.at(token.CARET) {
		pos := p.advance().Pos
		right := p.parsePower()
		return &ast.Binary{Op: "^", Left: left, Right: right, Base: ast.NewBase(pos)}
	}
	return left
}

// unary := ("-"|"!"|"NOT") unary | postfix
func (p *Parser) parseUnary() ast.Node {
	if p.at(token.MINUS) || p.at(token.BANG) || identUpper(p.cur()) == "NOT" {
		op := p.cur().Literal
		if identUpper(p.cur()) == "NOT" {
			op = "NOT"
		}
		pos := p.advance().Pos
		operand := p.parseUnary()
		return &ast.Unary{Op: op, Operand: operand, Base: ast.NewBase(pos)}
	}
	return p.parsePostfix()
}

// postfix := primary ( "." IDENT call? | "&." IDENT call? | "[" index/slice "]" | "::" Type | "(" args ")" )*
func (p *Parser) parsePostfix() ast.Node {
	expr := p.parsePrimary()
	for {
		switch {
		case p.at(token.DOT) || p.at(token.SAFENAV):
			safe := p.at(token.SAFENAV)
			pos := p.advance().Pos
			name := p.identLikeName()
			if p.at(token.LPAREN) {
				args := p.parseArgs()
				expr = &ast.MethodCall{Receiver: expr, Name: name, Args: args, Safe: safe, Base: ast.NewBase(pos)}
			} else {
				expr = &ast.Property{Receiver: expr, Name: name, Safe: safe, Base: ast.NewBase(pos)}
			}
		case p.at(token.LBRACKET):
			expr = p.parseIndexOrSlice(expr)
		case p.at(token.CAST):
			pos := p.advance().Pos
			typeName := p.identLikeName()
			expr = &ast.Cast{Value: expr, Type: typeName, Base: ast.NewBase(pos)}
		case p.at(token.LPAREN):
			if call, ok := expr.(*ast.Ident); ok {
				args := p.parseArgs()
				expr = &ast.Call{Name: call.Name, Args: args, Base: ast.NewBase(call.Pos())}
			} else {
				return expr
			}
		default:
			return expr
		}
	}
}

// identLikeName reads a method/property/type name, which may itself carry
// a trailing '?' as part of the lexer's IDENT lexeme.
func (p *Parser) identLikeName() string {
	if p.at(token.IDENT) {
		return p.advance().Literal
	}
	p.errorf("expected identifier, got %q", p.cur().Literal)
	return ""
}

func (p *Parser) parseArgs() []ast.Node {
	p.expect(token.LPAREN)
	var args []ast.Node
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		if p.at(token.SPREAD) {
			pos := p.advance().Pos
			args = append(args, &ast.Spread{Value: p.parseAssignment(), Base: ast.NewBase(pos)})
		} else {
			args = append(args, p.parseAssignment())
		}
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseIndexOrSlice(receiver ast.Node) ast.Node {
	pos := p.advance().Pos // '['
	var low, high ast.Node
	isSlice := false

	if !p.at(token.COLON) {
		low = p.parseAssignment()
	}
	if p.at(token.COLON) {
		isSlice = true
		p.advance()
		if !p.at(token.RBRACKET) {
			high = p.parseAssignment()
		}
	}
	p.expect(token.RBRACKET)

	if isSlice {
		return &ast.Slice{Receiver: receiver, Low: low, High: high, Base: ast.NewBase(pos)}
	}
	return &ast.Index{Receiver: receiver, Index: low, Base: ast.NewBase(pos)}
}

// primary := number | string | TRUE | FALSE | NULL | VARREF | IDENT
//          | "(" assignment ")" | "[" arrayLit "]" | "{" objectLit "}"
func (p *Parser) parsePrimary() ast.Node {
	tok := p.cur()
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf("invalid number literal %q", tok.Literal)
		}
		return &ast.NumberLit{Value: v, Base: ast.NewBase(tok.Pos)}

	case token.STRING:
		p.advance()
		return &ast.StringLit{Value: tok.Literal, Base: ast.NewBase(tok.Pos)}

	case token.VARREF:
		p.advance()
		return &ast.VarRef{Name: tok.Literal, Base: ast.NewBase(tok.Pos)}

	case token.IDENT:
		switch identUpper(tok) {
		case "TRUE":
			p.advance()
			return &ast.BoolLit{Value: true, Base: ast.NewBase(tok.Pos)}
		case "FALSE":
			p.advance()
			return &ast.BoolLit{Value: false, Base: ast.NewBase(tok.Pos)}
		case "NULL":
			p.advance()
			return &ast.NullLit{Base: ast.NewBase(tok.Pos)}
		default:
			p.advance()
			return &ast.Ident{Name: tok.Literal, Base: ast.NewBase(tok.Pos)}
		}

	case token.LPAREN:
		p.advance()
		expr := p.parseAssignment()
		p.expect(token.RPAREN)
		return expr

	case token.LBRACKET:
		return p.parseArrayLit()

	case token.LBRACE:
		return p.parseObjectLit()

	default:
		p.errorf("unexpected token %q", tok.Literal)
		p.advance()
		return &ast.NullLit{Base: ast.NewBase(tok.Pos)}
	}
}

func (p *Parser) parseArrayLit() ast.Node {
	pos := p.advance().Pos // '['
	var elems []ast.Node
	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		if p.at(token.SPREAD) {
			spos := p.advance().Pos
			elems = append(elems, &ast.Spread{Value: p.parseAssignment(), Base: ast.NewBase(spos)})
		} else {
			elems = append(elems, p.parseAssignment())
		}
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayLit{Elems: elems, Base: ast.NewBase(pos)}
}

func (p *Parser) parseObjectLit() ast.Node {
	pos := p.advance().Pos // '{'
	var entries []ast.ObjectEntry
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		var key string
		if p.at(token.STRING) {
			key = p.advance().Literal
		} else if p.at(token.IDENT) {
			key = p.advance().Literal
		} else {
			p.errorf("expected object key, got %q", p.cur().Literal)
			p.advance()
		}
		p.expect(token.COLON)
		val := p.parseAssignment()
		entries = append(entries, ast.ObjectEntry{Key: key, Value: val})
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.ObjectLit{Entries: entries, Base: ast.NewBase(pos)}
}
