// Package parser turns a signature-file token stream into a slice of
// sigast.Decl values (spec §4.1).
package parser

import (
	"fmt"

	"github.com/sigtools/sig/internal/lexer"
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigerrors"
	"github.com/sigtools/sig/internal/token"
)

// Parser is a recursive-descent parser with one token of lookahead.
type Parser struct {
	l    *lexer.Lexer
	file string

	cur  token.Token
	peek token.Token

	bag *sigerrors.Bag

	// pendingAnnotations is never written; annotations preceding a member
	// are collected by takeAnnotations instead.
	pendingAnnotations []string
}

// New creates a Parser reading from l, attributing diagnostics to file.
func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file, bag: &sigerrors.Bag{}}
	p.advance()
	p.advance()
	return p
}

// Parse lexes and parses an entire signature file, returning every
// top-level declaration parsed and the diagnostics bag (which may be
// non-empty even when a partial declaration list is returned).
func Parse(src, file string) ([]sigast.Decl, *sigerrors.Bag) {
	p := New(lexer.New(src), file)
	return p.ParseFile(), p.bag
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.nextNonNewline()
}

func (p *Parser) nextNonNewline() token.Token {
	tok := p.l.NextToken()
	for tok.Type == token.NEWLINE {
		tok = p.l.NextToken()
	}
	return tok
}

func (p *Parser) errorf(tok token.Token, code, format string, args ...interface{}) {
	p.bag.Addf(code, tok, p.file, fmt.Errorf(format, args...))
}

func (p *Parser) syntaxErrorf(format string, args ...interface{}) {
	p.errorf(p.cur, "P100", format, args...)
}

// semanticsErrorf reports a structural-rule violation (spec §4.1's
// SemanticsError) rather than a token-stream mismatch.
func (p *Parser) semanticsErrorf(format string, args ...interface{}) {
	p.bag.Add(sigerrors.New("P200", p.cur, p.file, &sigerrors.SemanticsError{
		Pos:     p.cur.Pos,
		Message: fmt.Sprintf(format, args...),
	}))
}

// expect checks p.cur's type, records a SyntaxError diagnostic and returns
// false if it doesn't match, otherwise advances and returns true.
func (p *Parser) expect(tt token.Type) bool {
	if p.cur.Type != tt {
		p.syntaxErrorf("expected %s, got %s (%q)", tt, p.cur.Type, p.cur.Lexeme)
		return false
	}
	p.advance()
	return true
}

func (p *Parser) curIs(tt token.Type) bool  { return p.cur.Type == tt }
func (p *Parser) peekIs(tt token.Type) bool { return p.peek.Type == tt }

// takeAnnotations consumes any %a<...> tokens immediately preceding the next
// declaration/member and returns their contents.
func (p *Parser) takeAnnotations() []string {
	var anns []string
	for p.curIs(token.ANNOTATION) {
		anns = append(anns, p.cur.Lexeme)
		p.advance()
	}
	return anns
}

// ParseFile parses every top-level declaration until EOF, recovering from a
// malformed declaration by skipping to the next plausible start token so one
// bad declaration doesn't abort the whole file.
func (p *Parser) ParseFile() []sigast.Decl {
	var decls []sigast.Decl
	for !p.curIs(token.EOF) {
		anns := p.takeAnnotations()
		if p.curIs(token.EOF) {
			break
		}
		before := p.cur
		d := p.parseTopLevelDecl(anns)
		if d != nil {
			decls = append(decls, d)
		}
		if p.cur == before {
			// No progress was made; avoid an infinite loop by skipping the
			// offending token.
			p.advance()
		}
	}
	return decls
}

func (p *Parser) parseTopLevelDecl(anns []string) sigast.Decl {
	switch p.cur.Type {
	case token.CLASS:
		return p.parseClassDecl()
	case token.MODULE:
		return p.parseModuleDecl()
	case token.INTERFACE:
		return p.parseInterfaceDecl()
	case token.EXTENSION:
		return p.parseExtensionDecl()
	case token.TYPE:
		return p.parseAliasDecl()
	case token.GVAR:
		return p.parseGlobalDecl()
	case token.CONST_IDENT, token.COLON2:
		return p.parseConstantDecl()
	default:
		p.syntaxErrorf("unexpected token at top level: %s (%q)", p.cur.Type, p.cur.Lexeme)
		return nil
	}
}

// parseTypeName parses a (possibly ::-qualified) type name starting at
// p.cur, which must be CONST_IDENT, TYPE_VAR (a single-letter class-like
// name), IFACE_IDENT, IDENT (alias), or COLON2.
func (p *Parser) parseTypeName() namespace.TypeName {
	ns := namespace.Empty()
	absolute := false
	if p.curIs(token.COLON2) {
		absolute = true
		p.advance()
	}
	var simple string
	switch p.cur.Type {
	case token.CONST_IDENT, token.TYPE_VAR, token.IFACE_IDENT, token.IDENT:
		simple = p.cur.Lexeme
		p.advance()
	default:
		p.syntaxErrorf("expected a type name, got %s", p.cur.Type)
	}
	for p.curIs(token.COLON2) {
		ns = ns.Append(simple)
		p.advance()
		switch p.cur.Type {
		case token.CONST_IDENT, token.TYPE_VAR, token.IFACE_IDENT, token.IDENT:
			simple = p.cur.Lexeme
			p.advance()
		default:
			p.syntaxErrorf("expected a type name segment, got %s", p.cur.Type)
		}
	}
	if absolute {
		ns = namespace.FromAbsolute(ns.Segments()...)
	} else if !ns.Empty() {
		ns = namespace.FromRelative(ns.Segments()...)
	}
	return namespace.TypeName{Namespace: ns, SimpleName: simple}
}

// parseTypeParams parses an optional `[A, B < Constraint, ...]` list.
func (p *Parser) parseTypeParams() []sigast.TypeParam {
	if !p.curIs(token.LBRACKET) {
		return nil
	}
	p.advance()
	var params []sigast.TypeParam
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		name := p.cur.Lexeme
		p.expect(token.TYPE_VAR)
		var constraint sigast.Type
		if p.curIs(token.LT) {
			p.advance()
			constraint = p.parseType()
		}
		params = append(params, sigast.TypeParam{Name: name, Constraint: constraint})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return params
}

// parseTypeArgs parses an optional `[T1, T2, ...]` application argument list.
func (p *Parser) parseTypeArgs() []sigast.Type {
	if !p.curIs(token.LBRACKET) {
		return nil
	}
	p.advance()
	var args []sigast.Type
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		args = append(args, p.parseType())
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return args
}
