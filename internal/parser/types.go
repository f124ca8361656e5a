package parser

import (
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/token"
)

// parseType parses a full type expression: `union | of | intersection & terms`.
func (p *Parser) parseType() sigast.Type {
	first := p.parseIntersection()
	if !p.curIs(token.PIPE) {
		return first
	}
	tok := p.cur
	types := []sigast.Type{first}
	for p.curIs(token.PIPE) {
		p.advance()
		types = append(types, p.parseIntersection())
	}
	return &sigast.UnionType{Token: tok, Types: types}
}

func (p *Parser) parseIntersection() sigast.Type {
	first := p.parseOptional()
	if !p.curIs(token.AMP) {
		return first
	}
	tok := p.cur
	types := []sigast.Type{first}
	for p.curIs(token.AMP) {
		p.advance()
		types = append(types, p.parseOptional())
	}
	return &sigast.IntersectionType{Token: tok, Types: types}
}

func (p *Parser) parseOptional() sigast.Type {
	base := p.parsePrimaryType()
	for p.curIs(token.QUESTION) {
		tok := p.cur
		p.advance()
		base = &sigast.OptionalType{Token: tok, Elem: base}
	}
	return base
}

func (p *Parser) parsePrimaryType() sigast.Type {
	tok := p.cur
	switch p.cur.Type {
	case token.ANY:
		p.advance()
		return &sigast.BaseType{Token: tok, Base: sigast.BaseAny}
	case token.VOID:
		p.advance()
		return &sigast.BaseType{Token: tok, Base: sigast.BaseVoid}
	case token.BOOL:
		p.advance()
		return &sigast.BaseType{Token: tok, Base: sigast.BaseBool}
	case token.SELF:
		p.advance()
		return &sigast.BaseType{Token: tok, Base: sigast.BaseSelf}
	case token.INSTANCE:
		p.advance()
		return &sigast.BaseType{Token: tok, Base: sigast.BaseInstance}
	case token.CLASS:
		p.advance()
		return &sigast.BaseType{Token: tok, Base: sigast.BaseClass}
	case token.NIL:
		p.advance()
		return &sigast.BaseType{Token: tok, Base: sigast.BaseNil}
	case token.TOP:
		p.advance()
		return &sigast.BaseType{Token: tok, Base: sigast.BaseTop}
	case token.BOT:
		p.advance()
		return &sigast.BaseType{Token: tok, Base: sigast.BaseBot}
	case token.TRUE:
		p.advance()
		return &sigast.LiteralType{Token: tok, Kind: sigast.LiteralBool, Value: true}
	case token.FALSE:
		p.advance()
		return &sigast.LiteralType{Token: tok, Kind: sigast.LiteralBool, Value: false}
	case token.INT:
		p.advance()
		return &sigast.LiteralType{Token: tok, Kind: sigast.LiteralInteger, Value: tok.Literal}
	case token.STRING:
		p.advance()
		return &sigast.LiteralType{Token: tok, Kind: sigast.LiteralString, Value: tok.Literal}
	case token.SYMBOL:
		p.advance()
		return &sigast.LiteralType{Token: tok, Kind: sigast.LiteralSymbol, Value: tok.Literal}
	case token.TYPE_VAR:
		p.advance()
		return &sigast.VariableType{Token: tok, Name: tok.Lexeme}
	case token.CARET:
		p.advance()
		fn := p.parseFunctionType()
		return &sigast.ProcType{Token: tok, Fn: fn}
	case token.LPAREN:
		return p.parseTupleType()
	case token.LBRACE:
		return p.parseRecordType()
	case token.IDENT:
		if tok.Lexeme == "singleton" && p.peekIs(token.LPAREN) {
			p.advance() // 'singleton'
			p.advance() // '('
			name := p.parseTypeName()
			p.expect(token.RPAREN)
			return &sigast.ClassSingletonType{Token: tok, Name: name}
		}
		name := p.parseTypeName()
		return &sigast.AliasType{Token: tok, Name: name}
	case token.CONST_IDENT, token.COLON2:
		name := p.parseTypeName()
		args := p.parseTypeArgs()
		return &sigast.ClassInstanceType{Token: tok, Name: name, Args: args}
	case token.IFACE_IDENT:
		name := p.parseTypeName()
		args := p.parseTypeArgs()
		return &sigast.InterfaceType{Token: tok, Name: name, Args: args}
	default:
		p.syntaxErrorf("expected a type, got %s (%q)", p.cur.Type, p.cur.Lexeme)
		p.advance()
		return &sigast.BaseType{Token: tok, Base: sigast.BaseAny}
	}
}

func (p *Parser) parseTupleType() sigast.Type {
	tok := p.cur
	p.advance() // '('
	var elems []sigast.Type
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		elems = append(elems, p.parseType())
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return &sigast.TupleType{Token: tok, Elems: elems}
}

func (p *Parser) parseRecordType() sigast.Type {
	tok := p.cur
	p.advance() // '{'
	fields := make(map[string]sigast.Type)
	var order []string
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		name := p.cur.Lexeme
		if p.cur.Type != token.IDENT && p.cur.Type != token.CONST_IDENT {
			p.syntaxErrorf("expected a record field name, got %s", p.cur.Type)
		}
		p.advance()
		p.expect(token.COLON)
		fields[name] = p.parseType()
		order = append(order, name)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return &sigast.RecordType{Token: tok, Fields: fields, Order: order}
}

// parseFunctionType parses `(params)? block? -> return`, where params may be
// omitted entirely (bare `-> T`).
func (p *Parser) parseFunctionType() *sigast.FunctionType {
	tok := p.cur
	ft := &sigast.FunctionType{
		Token:            tok,
		RequiredKeywords: map[string]sigast.Param{},
		OptionalKeywords: map[string]sigast.Param{},
	}
	if p.curIs(token.LPAREN) {
		p.advance()
		p.parseParamList(ft)
		p.expect(token.RPAREN)
	}
	p.expect(token.ARROW)
	ft.ReturnType = p.parseType()
	return ft
}

// parseParamList parses the comma-separated parameter groups inside a
// function type's parens: positionals, optional positionals `?T`, `*rest`,
// trailing positionals after `*rest`, keywords `name: T`, optional keywords
// `?name: T`, and `**rest`. A `?` written after a parameter's type is read as
// part of that type (an optional type), not as an optional parameter.
func (p *Parser) parseParamList(ft *sigast.FunctionType) {
	sawRest := false
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		switch {
		case p.curIs(token.QUESTION):
			p.advance()
			if p.isKeywordParamStart() {
				name, param, _ := p.parseKeywordParam()
				ft.OptionalKeywords[name] = param
				ft.KeywordOrder = append(ft.KeywordOrder, name)
			} else {
				ft.OptionalPositionals = append(ft.OptionalPositionals, p.parseOneParam())
			}
		case p.curIs(token.STAR):
			p.advance()
			param := p.parseOneParam()
			ft.RestPositional = &param
			sawRest = true
		case p.curIs(token.DSTAR):
			p.advance()
			param := p.parseOneParam()
			ft.RestKeywords = &param
		case p.isKeywordParamStart():
			name, param, optional := p.parseKeywordParam()
			if optional {
				ft.OptionalKeywords[name] = param
			} else {
				ft.RequiredKeywords[name] = param
			}
			ft.KeywordOrder = append(ft.KeywordOrder, name)
		default:
			param := p.parseOneParam()
			optional := false
			if p.curIs(token.QUESTION) {
				p.advance()
				optional = true
			}
			switch {
			case sawRest:
				ft.TrailingPositionals = append(ft.TrailingPositionals, param)
			case optional:
				ft.OptionalPositionals = append(ft.OptionalPositionals, param)
			default:
				ft.RequiredPositionals = append(ft.RequiredPositionals, param)
			}
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
}

// isKeywordParamStart reports whether p.cur begins a `name: type` keyword
// parameter: a lowercase identifier immediately followed by ':'.
func (p *Parser) isKeywordParamStart() bool {
	return p.cur.Type == token.IDENT && p.peekIs(token.COLON)
}

func (p *Parser) parseKeywordParam() (string, sigast.Param, bool) {
	name := p.cur.Lexeme
	p.advance() // name
	p.advance() // ':'
	typ := p.parseType()
	optional := false
	if p.curIs(token.QUESTION) {
		p.advance()
		optional = true
	}
	return name, sigast.Param{Name: &name, Type: typ}, optional
}

// parseOneParam parses a positional parameter: `T` or `name: T`.
func (p *Parser) parseOneParam() sigast.Param {
	if p.cur.Type == token.IDENT && p.peekIs(token.COLON) {
		name := p.cur.Lexeme
		p.advance()
		p.advance()
		return sigast.Param{Name: &name, Type: p.parseType()}
	}
	return sigast.Param{Type: p.parseType()}
}
