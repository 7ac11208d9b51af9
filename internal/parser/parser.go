// Package parser turns CEL source text into an ast.AST: a hand-written
// recursive-descent implementation of spec §4.3's grammar
// (expr/or/and/rel/calc/unary/member/primary), balancing commutative
// `||`/`&&` chains into shallow trees, expanding macros as call sites are
// assembled, and recording every diagnostic on a shared issues.Issues
// rather than stopping at the first syntax error.
//
// Grounded on internal/parser/universal.go's shape: a parser struct built
// once per call with its lookup tables (here, the macro registry and the
// option set) ready, consulted by many small parse* methods below.
package parser

import (
	"fmt"

	"github.com/oxhq/celcore/internal/ast"
	"github.com/oxhq/celcore/internal/constants"
	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/lexer"
	"github.com/oxhq/celcore/internal/macros"
	"github.com/oxhq/celcore/internal/ops"
	"github.com/oxhq/celcore/internal/source"
)

// abortParse unwinds the recursive descent once a hard cap (recursion
// depth or error-recovery budget) is exceeded. Recovered only by Parse.
type abortParse struct{}

// Parser holds one compilation's token stream and accumulated state. It is
// single-use: construct with Parse, never reused across sources.
type Parser struct {
	src    *source.Source
	tokens []lexer.Token
	pos    int

	factory *ast.Factory
	macros  *macros.Registry
	opts    Options
	issues  *issues.Issues

	depth         int
	recoveryCount int
}

// Parse lexes and parses src into an AST. The returned Issues always
// reflects every diagnostic recorded; per spec §7 the AST is nil exactly
// when Issues.HasErrors() is true.
func Parse(src *source.Source, macroReg *macros.Registry, opts Options) (*ast.AST, *issues.Issues) {
	is := issues.New()

	lx, err := lexer.New([]rune(src.Content()), opts.MaxExpressionCodePointSize)
	if err != nil {
		is.ErrorNoPos(issues.CodeExpressionSizeExceeded, "%s", err.Error())
		return nil, is
	}

	var tokens []lexer.Token
	for {
		tok, lerr := lx.Next()
		if lerr != nil {
			var le *lexer.Error
			if asLexError(lerr, &le) {
				is.Error(issues.CodeInvalidLiteral, 0, le.Offset, "%s", le.Msg)
			} else {
				is.Error(issues.CodeInvalidLiteral, 0, 0, "%s", lerr.Error())
			}
			return nil, is
		}
		tokens = append(tokens, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}

	if macroReg == nil {
		macroReg = macros.NewStandardRegistry()
	}

	p := &Parser{
		src:     src,
		tokens:  tokens,
		factory: ast.NewFactory(ast.NewIDGenerator(), ast.NewSourceInfo(src.Description())),
		macros:  macroReg,
		opts:    opts,
		issues:  is,
	}

	result := p.run()
	if is.HasErrors() {
		return nil, is
	}
	return &ast.AST{Expr: result, Source: p.factory.SourceInfo()}, is
}

func asLexError(err error, target **lexer.Error) bool {
	le, ok := err.(*lexer.Error)
	if ok {
		*target = le
	}
	return ok
}

// run drives the top-level expr rule and recovers an abortParse panic so
// Parse can return the issues collected before the abort.
func (p *Parser) run() (result *ast.Expr) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortParse); ok {
				result = nil
				return
			}
			panic(r)
		}
	}()

	e := p.parseExpr()
	if !p.curIs(lexer.EOF) {
		p.recordError(p.cur().Offset, issues.CodeMissingToken,
			"unexpected trailing input at %s", p.describeCur())
	}
	return e
}

// ---- token stream helpers ----

func (p *Parser) cur() lexer.Token { return p.tokens[p.pos] }

func (p *Parser) peekTok(off int) lexer.Token {
	i := p.pos + off
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) curIs(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) curIsPunct(text string) bool {
	t := p.cur()
	return t.Kind == lexer.Punct && t.Text == text
}

func (p *Parser) describeCur() string {
	t := p.cur()
	if t.Kind == lexer.Punct {
		return fmt.Sprintf("%q", t.Text)
	}
	if t.Kind == lexer.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

func (p *Parser) expectPunct(text string) bool {
	if p.curIsPunct(text) {
		p.advance()
		return true
	}
	p.recordError(p.cur().Offset, issues.CodeMissingToken, "expected %q, found %s", text, p.describeCur())
	return false
}

func (p *Parser) expectIdent() lexer.Token {
	if p.curIs(lexer.Ident) || p.curIs(lexer.In) {
		return p.advance()
	}
	p.recordError(p.cur().Offset, issues.CodeMissingToken, "expected identifier, found %s", p.describeCur())
	return lexer.Token{Kind: lexer.Ident, Text: "__error__", Offset: p.cur().Offset}
}

func (p *Parser) recordError(offset int32, code issues.Code, format string, args ...any) {
	p.issues.Error(code, 0, offset, format, args...)
	p.recoveryCount++
	if p.opts.MaxErrorRecoveryLimit > 0 && p.recoveryCount > p.opts.MaxErrorRecoveryLimit {
		p.issues.Error(issues.CodeRecoveryLimitExceeded, 0, offset, "error-recovery limit exceeded, aborting parse")
		panic(abortParse{})
	}
}

func (p *Parser) enterRule() {
	p.depth++
	if p.opts.MaxRecursionDepth > 0 && p.depth > p.opts.MaxRecursionDepth {
		p.issues.Error(issues.CodeRecursionLimitExceeded, 0, p.cur().Offset, "parser recursion depth exceeded")
		panic(abortParse{})
	}
}

func (p *Parser) exitRule() { p.depth-- }

// ---- grammar: expr / or / and / rel / calc ----

func (p *Parser) parseExpr() *ast.Expr {
	p.enterRule()
	defer p.exitRule()

	cond := p.parseOr()
	if !p.curIsPunct("?") {
		return cond
	}
	offset := p.cur().Offset
	p.advance()
	thenExpr := p.parseOr()
	p.expectPunct(":")
	elseExpr := p.parseOr()
	return p.factory.NewCall(offset, nil, ops.Conditional, []*ast.Expr{cond, thenExpr, elseExpr})
}

func (p *Parser) parseOr() *ast.Expr {
	p.enterRule()
	defer p.exitRule()

	terms := []*ast.Expr{p.parseAnd()}
	var offsets []int32
	for p.curIsPunct("||") {
		offsets = append(offsets, p.cur().Offset)
		p.advance()
		terms = append(terms, p.parseAnd())
	}
	return p.balance(ops.LogicalOr, terms, offsets)
}

func (p *Parser) parseAnd() *ast.Expr {
	p.enterRule()
	defer p.exitRule()

	terms := []*ast.Expr{p.parseRel()}
	var offsets []int32
	for p.curIsPunct("&&") {
		offsets = append(offsets, p.cur().Offset)
		p.advance()
		terms = append(terms, p.parseRel())
	}
	return p.balance(ops.LogicalAnd, terms, offsets)
}

// balance implements spec §4.3.1: a balanced binary tree over a left-folded
// chain of a commutative, associative operator, built by recursively
// splitting the term range at its middle operator. `&&`/`||` are the only
// chains this applies to (calc's +/-/*// chain is neither commutative as
// a whole nor associative across mixed operators, so it stays a plain
// left fold — see parseCalc).
func (p *Parser) balance(function string, terms []*ast.Expr, offsets []int32) *ast.Expr {
	var build func(lo, hi int) *ast.Expr
	build = func(lo, hi int) *ast.Expr {
		if lo == hi {
			return terms[lo]
		}
		mid := (lo + hi + 1) / 2
		left := build(lo, mid-1)
		right := build(mid, hi)
		return p.factory.NewCall(offsets[mid-1], nil, function, []*ast.Expr{left, right})
	}
	return build(0, len(terms)-1)
}

var relOps = map[string]string{
	"<": ops.Less, "<=": ops.LessEquals, ">": ops.Greater, ">=": ops.GreaterEquals,
	"==": ops.Equals, "!=": ops.NotEquals,
}

func (p *Parser) parseRel() *ast.Expr {
	p.enterRule()
	defer p.exitRule()

	left := p.parseCalc()
	if p.curIs(lexer.In) {
		offset := p.cur().Offset
		p.advance()
		right := p.parseCalc()
		return p.factory.NewCall(offset, nil, ops.In, []*ast.Expr{left, right})
	}
	if p.cur().Kind == lexer.Punct {
		if fn, ok := relOps[p.cur().Text]; ok {
			offset := p.cur().Offset
			p.advance()
			right := p.parseCalc()
			return p.factory.NewCall(offset, nil, fn, []*ast.Expr{left, right})
		}
	}
	return left
}

var calcOps = map[string]string{
	"+": ops.Add, "-": ops.Subtract, "*": ops.Multiply, "/": ops.Divide, "%": ops.Modulo,
}

func (p *Parser) parseCalc() *ast.Expr {
	p.enterRule()
	defer p.exitRule()

	left := p.parseUnary()
	for p.cur().Kind == lexer.Punct {
		fn, ok := calcOps[p.cur().Text]
		if !ok {
			break
		}
		offset := p.cur().Offset
		p.advance()
		right := p.parseUnary()
		left = p.factory.NewCall(offset, nil, fn, []*ast.Expr{left, right})
	}
	return left
}

func isNumericLiteral(t lexer.Token) bool {
	return t.Kind == lexer.Int || t.Kind == lexer.Uint || t.Kind == lexer.Double
}

// prefixOp is one lexed prefix `!` or `-` token, in left-to-right
// (outermost-first) order as encountered.
type prefixOp struct {
	offset int32
	not    bool // false means negate
}

// collapseRepeatedUnary folds each maximal run of adjacent same-operator
// prefixOps down to a single application when the run's length is odd, or
// away entirely when even — `!!!x` keeps one `!`, `--x` keeps none. Runs of
// differing operators (`!-!x`) are left alone either way.
func collapseRepeatedUnary(prefix []prefixOp) []prefixOp {
	var out []prefixOp
	for i := 0; i < len(prefix); {
		j := i
		for j < len(prefix) && prefix[j].not == prefix[i].not {
			j++
		}
		if (j-i)%2 == 1 {
			out = append(out, prefix[j-1])
		}
		i = j
	}
	return out
}

func (p *Parser) parseUnary() *ast.Expr {
	p.enterRule()
	defer p.exitRule()

	var prefix []prefixOp
	for {
		if p.curIsPunct("!") {
			prefix = append(prefix, prefixOp{offset: p.cur().Offset, not: true})
			p.advance()
			continue
		}
		if p.curIsPunct("-") && !isNumericLiteral(p.peekTok(1)) {
			prefix = append(prefix, prefixOp{offset: p.cur().Offset, not: false})
			p.advance()
			continue
		}
		break
	}
	if !p.opts.RetainRepeatedUnaryOperators {
		prefix = collapseRepeatedUnary(prefix)
	}

	var operand *ast.Expr
	if p.curIsPunct("-") && isNumericLiteral(p.peekTok(1)) {
		offset := p.cur().Offset
		p.advance()
		operand = p.buildNegativeLiteral(offset, p.advance())
	} else {
		operand = p.parseMember()
	}

	for i := len(prefix) - 1; i >= 0; i-- {
		fn := ops.Negate
		if prefix[i].not {
			fn = ops.LogicalNot
		}
		operand = p.factory.NewCall(prefix[i].offset, nil, fn, []*ast.Expr{operand})
	}
	return operand
}

func (p *Parser) buildNegativeLiteral(offset int32, lit lexer.Token) *ast.Expr {
	text := "-" + lit.Text
	switch lit.Kind {
	case lexer.Int:
		v, err := constants.DecodeIntLiteral(text)
		if err != nil {
			p.recordError(offset, issues.CodeInvalidLiteral, "%s", err.Error())
			return p.factory.NewIntConstant(offset, 0)
		}
		return p.factory.NewIntConstant(offset, v)
	case lexer.Uint:
		v, err := constants.DecodeUintLiteral(text)
		if err != nil {
			p.recordError(offset, issues.CodeInvalidLiteral, "%s", err.Error())
			return p.factory.NewUintConstant(offset, 0)
		}
		return p.factory.NewUintConstant(offset, v)
	default: // lexer.Double
		v, err := constants.DecodeDoubleLiteral(text)
		if err != nil {
			p.recordError(offset, issues.CodeInvalidLiteral, "%s", err.Error())
			return p.factory.NewDoubleConstant(offset, 0)
		}
		return p.factory.NewDoubleConstant(offset, v)
	}
}
