package lexer_test

import (
	"testing"

	"github.com/sigtools/sig/internal/lexer"
	"github.com/sigtools/sig/internal/token"
)

func TestNextToken(t *testing.T) {
	input := "class Foo[A] < Bar\n  def f: (A) -> void\nend"

	want := []token.Type{
		token.CLASS, token.CONST_IDENT, token.LBRACKET, token.TYPE_VAR, token.RBRACKET,
		token.LT, token.CONST_IDENT, token.NEWLINE,
		token.DEF, token.IDENT, token.COLON, token.LPAREN, token.TYPE_VAR, token.RPAREN, token.ARROW, token.VOID, token.NEWLINE,
		token.END, token.EOF,
	}

	l := lexer.New(input)
	for i, tt := range want {
		got := l.NextToken()
		if got.Type != tt {
			t.Fatalf("token %d: want %s, got %s (%q)", i, tt, got.Type, got.Lexeme)
		}
	}
}

func TestSymbolAndIvar(t *testing.T) {
	l := lexer.New(":ok @x @@y $g")
	types := []token.Type{token.SYMBOL, token.IVAR, token.CIVAR, token.GVAR, token.EOF}
	for i, tt := range types {
		got := l.NextToken()
		if got.Type != tt {
			t.Fatalf("token %d: want %s, got %s (%q)", i, tt, got.Type, got.Lexeme)
		}
	}
}

func TestInterfaceIdent(t *testing.T) {
	l := lexer.New("_Each")
	tok := l.NextToken()
	if tok.Type != token.IFACE_IDENT || tok.Lexeme != "_Each" {
		t.Fatalf("got %v", tok)
	}
}

func TestAnnotationDelimiters(t *testing.T) {
	cases := []string{"%a{hello}", "%a(hello)", "%a<hello>", "%a|hello|", "%a[a[nested]b]"}
	want := []string{"hello", "hello", "hello", "hello", "a[nested]b"}
	for i, c := range cases {
		l := lexer.New(c)
		tok := l.NextToken()
		if tok.Type != token.ANNOTATION {
			t.Fatalf("case %d: want ANNOTATION, got %s", i, tok.Type)
		}
		if tok.Lexeme != want[i] {
			t.Fatalf("case %d: want %q, got %q", i, want[i], tok.Lexeme)
		}
	}
}

func TestCommentSkipped(t *testing.T) {
	l := lexer.New("# a comment\nclass")
	tok := l.NextToken()
	if tok.Type != token.NEWLINE {
		t.Fatalf("want NEWLINE, got %s", tok.Type)
	}
	tok = l.NextToken()
	if tok.Type != token.CLASS {
		t.Fatalf("want CLASS, got %s", tok.Type)
	}
}
