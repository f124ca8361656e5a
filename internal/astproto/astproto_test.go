package astproto_test

import (
	"testing"

	"github.com/sigtools/sig/internal/astproto"
	"github.com/sigtools/sig/internal/parser"
)

func TestEncodeDeclsClassWithMethod(t *testing.T) {
	decls, bag := parser.Parse("class Dog < Animal\n  def bark: (Int) -> void\nend", "dog.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}

	out := astproto.EncodeDecls(decls)
	list := out.Fields["declarations"].GetListValue().Values
	if len(list) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(list))
	}

	class := list[0].GetStructValue()
	if got := class.Fields["kind"].GetStringValue(); got != "ClassDecl" {
		t.Fatalf("expected kind ClassDecl, got %q", got)
	}
	if got := class.Fields["name"].GetStringValue(); got != "Dog" {
		t.Fatalf("expected name Dog, got %q", got)
	}

	super := class.Fields["fields"].GetStructValue().Fields["super"].GetStructValue()
	if got := super.Fields["name"].GetStringValue(); got != "Animal" {
		t.Fatalf("expected super name Animal, got %q", got)
	}

	children := class.Fields["children"].GetListValue().Values
	if len(children) != 1 {
		t.Fatalf("expected 1 member, got %d", len(children))
	}
	method := children[0].GetStructValue()
	if got := method.Fields["kind"].GetStringValue(); got != "MethodMember" {
		t.Fatalf("expected kind MethodMember, got %q", got)
	}
	if got := method.Fields["name"].GetStringValue(); got != "bark" {
		t.Fatalf("expected name bark, got %q", got)
	}
}

func TestEncodeDeclsAlias(t *testing.T) {
	decls, bag := parser.Parse("type foo = Int | String", "alias.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}

	out := astproto.EncodeDecls(decls)
	list := out.Fields["declarations"].GetListValue().Values
	if len(list) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(list))
	}
	alias := list[0].GetStructValue()
	if got := alias.Fields["kind"].GetStringValue(); got != "AliasDecl" {
		t.Fatalf("expected kind AliasDecl, got %q", got)
	}
	union := alias.Fields["fields"].GetStructValue().Fields["type"].GetStructValue()
	if got := union.Fields["kind"].GetStringValue(); got != "UnionType" {
		t.Fatalf("expected union type, got %q", got)
	}
	if n := len(union.Fields["children"].GetListValue().Values); n != 2 {
		t.Fatalf("expected 2 union members, got %d", n)
	}
}
