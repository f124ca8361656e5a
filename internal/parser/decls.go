package parser

import (
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/token"
)

func (p *Parser) parseClassDecl() *sigast.ClassDecl {
	tok := p.cur
	p.advance() // 'class'
	name := p.parseTypeName()
	typeParams := p.parseTypeParams()

	var super *sigast.SuperSpec
	if p.curIs(token.LT) {
		superTok := p.cur
		p.advance()
		superName := p.parseTypeName()
		args := p.parseTypeArgs()
		super = &sigast.SuperSpec{Token: superTok, Name: superName, Args: args}
	}

	members := p.parseMembers(false)
	return &sigast.ClassDecl{Token: tok, Name: name, TypeParams: typeParams, Super: super, Members: members}
}

func (p *Parser) parseModuleDecl() *sigast.ModuleDecl {
	tok := p.cur
	p.advance() // 'module'
	name := p.parseTypeName()
	typeParams := p.parseTypeParams()

	var selfTypes []sigast.Type
	if p.curIs(token.COLON) {
		p.advance()
		selfTypes = append(selfTypes, p.parseType())
		for p.curIs(token.COMMA) {
			p.advance()
			selfTypes = append(selfTypes, p.parseType())
		}
	}

	members := p.parseMembers(false)
	return &sigast.ModuleDecl{Token: tok, Name: name, TypeParams: typeParams, SelfTypes: selfTypes, Members: members}
}

func (p *Parser) parseInterfaceDecl() *sigast.InterfaceDecl {
	tok := p.cur
	p.advance() // 'interface'
	if !p.curIs(token.IFACE_IDENT) {
		p.syntaxErrorf("interface name must start with an underscore and an uppercase letter")
	}
	name := p.parseTypeName()
	typeParams := p.parseTypeParams()
	members := p.parseMembers(true)
	return &sigast.InterfaceDecl{Token: tok, Name: name, TypeParams: typeParams, Members: members}
}

func (p *Parser) parseExtensionDecl() *sigast.ExtensionDecl {
	tok := p.cur
	p.advance() // 'extension'
	name := p.parseTypeName()
	typeParams := p.parseTypeParams()

	extName := ""
	if p.curIs(token.LPAREN) {
		p.advance()
		extName = p.cur.Lexeme
		if p.cur.Type != token.IDENT && p.cur.Type != token.CONST_IDENT {
			p.syntaxErrorf("expected an extension tag name")
		}
		p.advance()
		p.expect(token.RPAREN)
	} else {
		p.syntaxErrorf("expected (ExtensionTag) after extension name")
	}

	members := p.parseMembers(false)
	return &sigast.ExtensionDecl{Token: tok, Name: name, TypeParams: typeParams, ExtensionName: extName, Members: members}
}

// parseAliasDecl parses `type name = type`.
func (p *Parser) parseAliasDecl() *sigast.AliasDecl {
	tok := p.cur
	p.advance() // 'type'
	name := p.parseTypeName()
	p.expect(token.ASSIGN)
	typ := p.parseType()
	return &sigast.AliasDecl{Token: tok, Name: name, Type: typ}
}

// parseGlobalDecl parses `$name: type`.
func (p *Parser) parseGlobalDecl() *sigast.GlobalDecl {
	tok := p.cur
	name, _ := tok.Literal.(string) // the name without its leading '$'
	p.advance()
	p.expect(token.COLON)
	typ := p.parseType()
	return &sigast.GlobalDecl{Token: tok, Name: name, Type: typ}
}

// parseConstantDecl parses `NAME: type` or `::NAME: type`.
func (p *Parser) parseConstantDecl() *sigast.ConstantDecl {
	tok := p.cur
	name := p.parseTypeName()
	p.expect(token.COLON)
	typ := p.parseType()
	return &sigast.ConstantDecl{Token: tok, Name: name, Type: typ}
}
