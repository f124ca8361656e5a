package parser

import (
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/token"
)

// punctuationMethodNames are the operator-spelled method names accepted
// after `def` besides ordinary identifiers (spec §4.1).
var punctuationMethodNames = map[token.Type]string{
	token.EQ:        "==",
	token.LBRACKET:  "[]",
	token.BANG:      "!",
	token.STAR:      "*",
	token.DSTAR:     "**",
	token.AMP:       "&",
	token.PIPE:      "|",
	token.LT:        "<",
	token.LE:        "<=",
	token.GT:        ">",
	token.GE:        ">=",
	token.SHL:       "<<",
	token.SHR:       ">>",
	token.SPACESHIP: "<=>",
	token.SLASH:     "/",
	token.PERCENT:   "%",
	token.TILDE:     "~",
	token.CARET:     "^",
}

// parseMembers parses members until `end`, used by class/module/interface/
// extension bodies. interfaceOnly restricts accepted members to method defs
// and includes of other interfaces, per spec §4.1.
func (p *Parser) parseMembers(interfaceOnly bool) []sigast.Member {
	var members []sigast.Member
	activeVisibility := sigast.Public
	for !p.curIs(token.END) && !p.curIs(token.EOF) {
		anns := p.takeAnnotations()
		if p.curIs(token.END) || p.curIs(token.EOF) {
			break
		}
		before := p.cur
		m := p.parseMember(interfaceOnly, &activeVisibility)
		if m != nil {
			if mm, ok := m.(*sigast.MethodMember); ok {
				mm.Annotations = anns
			}
			members = append(members, m)
		}
		if p.cur == before {
			p.advance()
		}
	}
	p.expect(token.END)
	return members
}

func (p *Parser) parseMember(interfaceOnly bool, activeVisibility *sigast.Visibility) sigast.Member {
	switch p.cur.Type {
	case token.DEF:
		return p.parseMethodMember(interfaceOnly, *activeVisibility)
	case token.INCLUDE:
		return p.parseMixinMember(token.INCLUDE, interfaceOnly)
	case token.EXTEND:
		if interfaceOnly {
			p.semanticsErrorf("interfaces cannot use extend")
		}
		return p.parseMixinMember(token.EXTEND, interfaceOnly)
	case token.PREPEND:
		if interfaceOnly {
			p.semanticsErrorf("interfaces cannot use prepend")
		}
		return p.parseMixinMember(token.PREPEND, interfaceOnly)
	case token.ATTR_READER, token.ATTR_WRITER, token.ATTR_ACCESSOR:
		if interfaceOnly {
			p.semanticsErrorf("interfaces cannot declare attributes")
		}
		return p.parseAttrMember(*activeVisibility)
	case token.IVAR:
		if interfaceOnly {
			p.semanticsErrorf("interfaces cannot declare instance variables")
		}
		return p.parseIvarMember()
	case token.CIVAR:
		if interfaceOnly {
			p.semanticsErrorf("interfaces cannot declare class variables")
		}
		return p.parseCvarMember()
	case token.ALIAS:
		if interfaceOnly {
			p.semanticsErrorf("interfaces cannot declare method aliases")
		}
		return p.parseAliasMember()
	case token.PUBLIC:
		tok := p.cur
		p.advance()
		*activeVisibility = sigast.Public
		return &sigast.VisibilityMember{Token: tok, Visibility: sigast.Public}
	case token.PRIVATE:
		tok := p.cur
		p.advance()
		*activeVisibility = sigast.Private
		return &sigast.VisibilityMember{Token: tok, Visibility: sigast.Private}
	case token.CLASS:
		if interfaceOnly {
			p.semanticsErrorf("interfaces cannot declare nested classes")
		}
		return &sigast.NestedDecl{Token: p.cur, Decl: p.parseClassDecl()}
	case token.MODULE:
		if interfaceOnly {
			p.semanticsErrorf("interfaces cannot declare nested modules")
		}
		return &sigast.NestedDecl{Token: p.cur, Decl: p.parseModuleDecl()}
	case token.SELF:
		// self.@x: T — class-instance variable declared inside a module body.
		if p.peekIs(token.DOT) {
			return p.parseSelfClassIvar()
		}
		p.syntaxErrorf("unexpected 'self' outside a def")
		p.advance()
		return nil
	default:
		p.syntaxErrorf("unexpected member token: %s (%q)", p.cur.Type, p.cur.Lexeme)
		p.advance()
		return nil
	}
}

func (p *Parser) parseSelfClassIvar() sigast.Member {
	tok := p.cur
	p.advance() // self
	p.advance() // .
	if !p.curIs(token.IVAR) {
		p.syntaxErrorf("expected @name after self.")
		return nil
	}
	name := p.cur.Lexeme
	p.advance()
	p.expect(token.COLON)
	typ := p.parseType()
	return &sigast.ClassIvarMember{Token: tok, Name: name, Type: typ}
}

// parseMethodName accepts an ordinary identifier, a punctuation-named
// method, a predicate/bang-suffixed name (handled already by the lexer), or
// a backtick-quoted keyword identifier.
func (p *Parser) parseMethodName() string {
	if p.cur.Type == token.PLUS || p.cur.Type == token.MINUS {
		sign := "+"
		if p.cur.Type == token.MINUS {
			sign = "-"
		}
		p.advance()
		if p.curIs(token.AT) {
			p.advance()
			return sign + "@"
		}
		return sign
	}
	if name, ok := punctuationMethodNames[p.cur.Type]; ok {
		// []= needs the extra '=' merged on.
		p.advance()
		if name == "[]" {
			p.expect(token.RBRACKET)
			if p.curIs(token.ASSIGN) {
				p.advance()
				return "[]="
			}
			return "[]"
		}
		return name
	}
	switch p.cur.Type {
	case token.IDENT, token.CONST_IDENT:
		name := p.cur.Lexeme
		p.advance()
		if p.curIs(token.ASSIGN) {
			p.advance()
			name += "="
		}
		return name
	case token.BACKTICK_IDENT:
		name := p.cur.Lexeme
		p.advance()
		return name
	default:
		p.syntaxErrorf("expected a method name, got %s (%q)", p.cur.Type, p.cur.Lexeme)
		p.advance()
		return "?"
	}
}

func (p *Parser) parseMethodMember(interfaceOnly bool, visibility sigast.Visibility) sigast.Member {
	tok := p.cur
	p.advance() // 'def'

	kind := sigast.MethodInstance
	if p.curIs(token.SELF) {
		if interfaceOnly {
			p.semanticsErrorf("interfaces cannot declare self. methods")
		}
		p.advance()
		if p.curIs(token.QUESTION) {
			p.advance()
			kind = sigast.MethodSingletonInstance
		} else {
			kind = sigast.MethodSingleton
		}
		p.expect(token.DOT)
	}

	name := p.parseMethodName()
	p.expect(token.COLON)

	var overloads []*sigast.Overload
	overloads = append(overloads, p.parseOverload())
	for p.curIs(token.PIPE) {
		p.advance()
		overloads = append(overloads, p.parseOverload())
	}

	return &sigast.MethodMember{Token: tok, Name: name, Kind: kind, Overloads: overloads, Visibility: visibility}
}

func (p *Parser) parseOverload() *sigast.Overload {
	tok := p.cur
	if p.curIs(token.SUPER) {
		p.advance()
		return &sigast.Overload{Token: tok, IsSuper: true}
	}
	typeParams := p.parseTypeParams()

	ft := &sigast.FunctionType{
		Token:            p.cur,
		RequiredKeywords: map[string]sigast.Param{},
		OptionalKeywords: map[string]sigast.Param{},
	}
	if p.curIs(token.LPAREN) {
		p.advance()
		p.parseParamList(ft)
		p.expect(token.RPAREN)
	}

	var block *sigast.BlockSpec
	switch {
	case p.curIs(token.QUESTION) && p.peekIs(token.LBRACE):
		p.advance() // '?'
		p.advance() // '{'
		fn := p.parseFunctionType()
		p.expect(token.RBRACE)
		block = &sigast.BlockSpec{Fn: fn, Required: false}
	case p.curIs(token.LBRACE):
		p.advance() // '{'
		fn := p.parseFunctionType()
		p.expect(token.RBRACE)
		block = &sigast.BlockSpec{Fn: fn, Required: true}
	}

	p.expect(token.ARROW)
	// A top-level `|` after the return type separates overloads, so the
	// return type itself is parsed without union alternatives.
	ft.ReturnType = p.parseIntersection()

	return &sigast.Overload{Token: tok, TypeParams: typeParams, Block: block, Fn: ft}
}

func (p *Parser) parseMixinMember(kw token.Type, interfaceOnly bool) sigast.Member {
	tok := p.cur
	p.advance()
	var mk sigast.MixinKind
	switch kw {
	case token.INCLUDE:
		mk = sigast.MixinInclude
	case token.EXTEND:
		mk = sigast.MixinExtend
	case token.PREPEND:
		mk = sigast.MixinPrepend
	}
	if interfaceOnly {
		switch p.cur.Type {
		case token.IFACE_IDENT:
		default:
			p.semanticsErrorf("interfaces may only include other interfaces")
		}
	}
	name := p.parseTypeName()
	args := p.parseTypeArgs()
	return &sigast.MixinMember{Token: tok, Kind: mk, Name: name, Args: args}
}

func (p *Parser) parseAttrMember(visibility sigast.Visibility) sigast.Member {
	tok := p.cur
	var kind sigast.AttrKind
	switch p.cur.Type {
	case token.ATTR_READER:
		kind = sigast.AttrReader
	case token.ATTR_WRITER:
		kind = sigast.AttrWriter
	case token.ATTR_ACCESSOR:
		kind = sigast.AttrAccessor
	}
	p.advance()

	mk := sigast.MethodInstance
	if p.curIs(token.SELF) {
		p.advance()
		p.expect(token.DOT)
		mk = sigast.MethodSingleton
	}

	name := p.cur.Lexeme
	p.expect(token.IDENT)

	var ivarOverride *string
	var ivarNone bool
	if p.curIs(token.LPAREN) {
		p.advance()
		if p.curIs(token.IVAR) {
			iv := p.cur.Lexeme
			ivarOverride = &iv
			p.advance()
		} else {
			ivarNone = true
		}
		p.expect(token.RPAREN)
	}

	p.expect(token.COLON)
	typ := p.parseType()

	return &sigast.AttrMember{
		Token: tok, Kind: kind, Name: name, Type: typ,
		IvarOverride: ivarOverride, IvarNone: ivarNone,
		Kind_: mk, Visibility: visibility,
	}
}

func (p *Parser) parseIvarMember() sigast.Member {
	tok := p.cur
	name := p.cur.Lexeme // already includes the leading '@'
	p.advance()
	p.expect(token.COLON)
	typ := p.parseType()
	return &sigast.IvarMember{Token: tok, Name: name, Type: typ}
}

func (p *Parser) parseCvarMember() sigast.Member {
	tok := p.cur
	name := p.cur.Lexeme // already includes the leading '@@'
	p.advance()
	p.expect(token.COLON)
	typ := p.parseType()
	return &sigast.CvarMember{Token: tok, Name: name, Type: typ}
}

func (p *Parser) parseAliasMember() sigast.Member {
	tok := p.cur
	p.advance() // 'alias'

	kind := sigast.MethodInstance
	if p.curIs(token.SELF) {
		p.advance()
		p.expect(token.DOT)
		kind = sigast.MethodSingleton
	}
	newName := p.parseMethodName()

	if p.curIs(token.SELF) {
		p.advance()
		p.expect(token.DOT)
	}
	oldName := p.parseMethodName()

	return &sigast.AliasMember{Token: tok, NewName: newName, OldName: oldName, Kind: kind}
}
