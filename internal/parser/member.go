package parser

import (
	"github.com/oxhq/celcore/internal/ast"
	"github.com/oxhq/celcore/internal/constants"
	"github.com/oxhq/celcore/internal/issues"
	"github.com/oxhq/celcore/internal/lexer"
	"github.com/oxhq/celcore/internal/ops"
)

// parseMember parses a primary expression followed by any chain of
// `.field`, `.method(args)`, `.?field`, `[index]`, `[?index]`, or (when the
// chain so far is a "pure" dotted name) a `{field: value, ...}` struct
// literal — spec §4.3's member rule.
func (p *Parser) parseMember() *ast.Expr {
	p.enterRule()
	defer p.exitRule()

	base, pendingName := p.parsePrimary()

	for {
		switch {
		case p.curIsPunct("."):
			offset := p.cur().Offset
			p.advance()
			idTok := p.expectIdent()
			switch {
			case p.curIsPunct("("):
				args := p.parseArgList()
				base = p.buildCallOrMacro(offset, base, idTok.Text, args)
				pendingName = ""
			case pendingName != "" && p.curIsPunct("{"):
				typeName := pendingName + "." + idTok.Text
				base = p.parseStructLiteral(typeName, offset)
				pendingName = ""
			default:
				base = p.factory.NewSelect(offset, base, idTok.Text, false)
				if pendingName != "" {
					pendingName += "." + idTok.Text
				}
			}

		case p.curIsPunct(".?"):
			offset := p.cur().Offset
			if !p.opts.EnableOptionalSyntax {
				p.recordError(offset, issues.CodeOptionalSyntaxDisabled, "optional field selection is disabled")
			}
			p.advance()
			idTok := p.expectIdent()
			base = p.factory.NewCall(offset, nil, ops.OptSelect, []*ast.Expr{base, p.factory.NewStringConstant(offset, idTok.Text)})
			pendingName = ""

		case p.curIsPunct("["):
			offset := p.cur().Offset
			p.advance()
			idx := p.parseExpr()
			p.expectPunct("]")
			base = p.factory.NewCall(offset, nil, ops.Index, []*ast.Expr{base, idx})
			pendingName = ""

		case p.curIsPunct("[?"):
			offset := p.cur().Offset
			if !p.opts.EnableOptionalSyntax {
				p.recordError(offset, issues.CodeOptionalSyntaxDisabled, "optional indexing is disabled")
			}
			p.advance()
			idx := p.parseExpr()
			p.expectPunct("]")
			base = p.factory.NewCall(offset, nil, ops.OptIndex, []*ast.Expr{base, idx})
			pendingName = ""

		default:
			return base
		}
	}
}

// parsePrimary parses the innermost grammar alternative: a (possibly
// absolute, possibly called, possibly struct-constructing) identifier, a
// parenthesized expr, a list/map literal, or a literal token. It returns
// the built Expr plus, when the Expr is a plain Ident or Select chain that
// could still become a struct type name, the dotted name built so far
// ("" once the chain can no longer be a type name).
func (p *Parser) parsePrimary() (*ast.Expr, string) {
	p.enterRule()
	defer p.exitRule()

	switch {
	case p.curIsPunct("."):
		offset := p.cur().Offset
		p.advance()
		idTok := p.expectIdent()
		name := "." + idTok.Text
		if p.curIsPunct("(") {
			args := p.parseArgList()
			return p.buildCallOrMacro(offset, nil, idTok.Text, args), ""
		}
		if p.curIsPunct("{") {
			return p.parseStructLiteral(name, offset), ""
		}
		return p.factory.NewIdent(offset, name), name

	case p.curIs(lexer.Ident):
		tok := p.advance()
		if p.opts.EnableReservedIdentifiers && lexer.IsReserved(tok.Text) {
			p.recordError(tok.Offset, issues.CodeReservedIdentifier, "%q is a reserved identifier", tok.Text)
		}
		if p.curIsPunct("(") {
			args := p.parseArgList()
			return p.buildCallOrMacro(tok.Offset, nil, tok.Text, args), ""
		}
		if p.curIsPunct("{") {
			return p.parseStructLiteral(tok.Text, tok.Offset), ""
		}
		return p.factory.NewIdent(tok.Offset, tok.Text), tok.Text

	case p.curIsPunct("("):
		p.advance()
		inner := p.parseExpr()
		p.expectPunct(")")
		return inner, ""

	case p.curIsPunct("["):
		return p.parseListLiteral(), ""

	case p.curIsPunct("{"):
		return p.parseMapLiteral(), ""

	case p.curIs(lexer.Int):
		tok := p.advance()
		return p.decodeIntToken(tok), ""

	case p.curIs(lexer.Uint):
		tok := p.advance()
		return p.decodeUintToken(tok), ""

	case p.curIs(lexer.Double):
		tok := p.advance()
		return p.decodeDoubleToken(tok), ""

	case p.curIs(lexer.String):
		tok := p.advance()
		return p.factory.NewStringConstant(tok.Offset, tok.Decoded), ""

	case p.curIs(lexer.Bytes):
		tok := p.advance()
		return p.factory.NewBytesConstant(tok.Offset, tok.DecodedRaw), ""

	case p.curIs(lexer.True):
		tok := p.advance()
		return p.factory.NewBoolConstant(tok.Offset, true), ""

	case p.curIs(lexer.False):
		tok := p.advance()
		return p.factory.NewBoolConstant(tok.Offset, false), ""

	case p.curIs(lexer.Null):
		tok := p.advance()
		return p.factory.NewNullConstant(tok.Offset), ""

	default:
		offset := p.cur().Offset
		p.recordError(offset, issues.CodeMissingToken, "unexpected %s", p.describeCur())
		p.advance()
		return p.factory.NewIdent(offset, "__error__"), ""
	}
}

func (p *Parser) parseArgList() []*ast.Expr {
	p.expectPunct("(")
	var args []*ast.Expr
	if !p.curIsPunct(")") {
		args = append(args, p.parseExpr())
		for p.curIsPunct(",") {
			p.advance()
			if p.curIsPunct(")") {
				break
			}
			args = append(args, p.parseExpr())
		}
	}
	p.expectPunct(")")
	return args
}

// buildCallOrMacro assembles a Call node at (target, name, args), first
// checking whether a macro with this (name, arity, receiver-style) key is
// registered: if it matches, the expansion replaces the plain call, and
// (when RetainMacroCalls is set) the original call skeleton is recorded in
// SourceInfo keyed by the expansion root's id, per spec §4.3.2.
func (p *Parser) buildCallOrMacro(offset int32, target *ast.Expr, name string, args []*ast.Expr) *ast.Expr {
	receiverStyle := target != nil
	if fn, ok := p.macros.Lookup(name, len(args), receiverStyle); ok {
		expanded, matched, err := fn(p.factory, target, args)
		if err != nil {
			p.recordError(offset, issues.CodeMacroCustomError, "%s", err.Error())
		} else if matched {
			if p.opts.RetainMacroCalls {
				original := p.factory.NewCall(offset, target, name, args)
				p.factory.SourceInfo().SetMacroCall(expanded.ID, original)
			}
			return expanded
		}
	}
	return p.factory.NewCall(offset, target, name, args)
}

func (p *Parser) parseStructLiteral(typeName string, offset int32) *ast.Expr {
	p.expectPunct("{")
	var entries []ast.StructEntry
	if !p.curIsPunct("}") {
		entries = append(entries, p.parseStructEntry())
		for p.curIsPunct(",") {
			p.advance()
			if p.curIsPunct("}") {
				break
			}
			entries = append(entries, p.parseStructEntry())
		}
	}
	p.expectPunct("}")
	return p.factory.NewStruct(offset, typeName, entries)
}

func (p *Parser) parseStructEntry() ast.StructEntry {
	optional := false
	if p.curIsPunct("?") {
		if !p.opts.EnableOptionalSyntax {
			p.recordError(p.cur().Offset, issues.CodeOptionalSyntaxDisabled, "optional field initializer is disabled")
		}
		p.advance()
		optional = true
	}
	fieldTok := p.expectIdent()
	p.expectPunct(":")
	value := p.parseExpr()
	return ast.StructEntry{Field: fieldTok.Text, Value: value, Optional: optional}
}

func (p *Parser) parseListLiteral() *ast.Expr {
	offset := p.cur().Offset
	p.expectPunct("[")
	var elems []ast.ListEntry
	if !p.curIsPunct("]") {
		elems = append(elems, p.parseListElem())
		for p.curIsPunct(",") {
			p.advance()
			if p.curIsPunct("]") {
				break
			}
			elems = append(elems, p.parseListElem())
		}
	}
	p.expectPunct("]")
	return p.factory.NewList(offset, elems)
}

func (p *Parser) parseListElem() ast.ListEntry {
	optional := false
	if p.curIsPunct("?") {
		if !p.opts.EnableOptionalSyntax {
			p.recordError(p.cur().Offset, issues.CodeOptionalSyntaxDisabled, "optional list element is disabled")
		}
		p.advance()
		optional = true
	}
	v := p.parseExpr()
	return ast.ListEntry{Value: v, Optional: optional}
}

func (p *Parser) parseMapLiteral() *ast.Expr {
	offset := p.cur().Offset
	p.expectPunct("{")
	var entries []ast.MapEntry
	if !p.curIsPunct("}") {
		entries = append(entries, p.parseMapEntry())
		for p.curIsPunct(",") {
			p.advance()
			if p.curIsPunct("}") {
				break
			}
			entries = append(entries, p.parseMapEntry())
		}
	}
	p.expectPunct("}")
	return p.factory.NewMap(offset, entries)
}

func (p *Parser) parseMapEntry() ast.MapEntry {
	optional := false
	if p.curIsPunct("?") {
		if !p.opts.EnableOptionalSyntax {
			p.recordError(p.cur().Offset, issues.CodeOptionalSyntaxDisabled, "optional map entry is disabled")
		}
		p.advance()
		optional = true
	}
	key := p.parseExpr()
	p.expectPunct(":")
	value := p.parseExpr()
	return ast.MapEntry{Key: key, Value: value, Optional: optional}
}

func (p *Parser) decodeIntToken(tok lexer.Token) *ast.Expr {
	v, err := constants.DecodeIntLiteral(tok.Text)
	if err != nil {
		p.recordError(tok.Offset, issues.CodeInvalidLiteral, "%s", err.Error())
		return p.factory.NewIntConstant(tok.Offset, 0)
	}
	return p.factory.NewIntConstant(tok.Offset, v)
}

func (p *Parser) decodeUintToken(tok lexer.Token) *ast.Expr {
	v, err := constants.DecodeUintLiteral(tok.Text)
	if err != nil {
		p.recordError(tok.Offset, issues.CodeInvalidLiteral, "%s", err.Error())
		return p.factory.NewUintConstant(tok.Offset, 0)
	}
	return p.factory.NewUintConstant(tok.Offset, v)
}

func (p *Parser) decodeDoubleToken(tok lexer.Token) *ast.Expr {
	v, err := constants.DecodeDoubleLiteral(tok.Text)
	if err != nil {
		p.recordError(tok.Offset, issues.CodeInvalidLiteral, "%s", err.Error())
		return p.factory.NewDoubleConstant(tok.Offset, 0)
	}
	return p.factory.NewDoubleConstant(tok.Offset, v)
}
