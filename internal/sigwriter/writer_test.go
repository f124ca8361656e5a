package sigwriter_test

import (
	"testing"

	"github.com/sigtools/sig/internal/parser"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigwriter"
)

func TestRoundTripClassWithSuperAndMethod(t *testing.T) {
	src := "class Dog < Animal\n  def speak: (volume: Int) -> void | [X] { (Int) -> X } -> X\nend"
	decls, bag := parser.Parse(src, "orig.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}
	out := sigwriter.WriteDecls(decls)

	decls2, bag2 := parser.Parse(out, "written.sig")
	if !bag2.Empty() {
		t.Fatalf("written text failed to reparse: %v\n%s", bag2.All(), out)
	}
	if len(decls2) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(decls2))
	}
	cd, ok := decls2[0].(*sigast.ClassDecl)
	if !ok {
		t.Fatalf("expected a ClassDecl, got %T", decls2[0])
	}
	if cd.Name.SimpleName != "Dog" {
		t.Errorf("expected name Dog, got %s", cd.Name.SimpleName)
	}
	if cd.Super == nil || cd.Super.Name.SimpleName != "Animal" {
		t.Errorf("expected super Animal, got %v", cd.Super)
	}
	if len(cd.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(cd.Members))
	}
	mm, ok := cd.Members[0].(*sigast.MethodMember)
	if !ok {
		t.Fatalf("expected a MethodMember, got %T", cd.Members[0])
	}
	if mm.Name != "speak" || len(mm.Overloads) != 2 {
		t.Errorf("expected speak with 2 overloads, got %s with %d", mm.Name, len(mm.Overloads))
	}
}

func TestRoundTripInterfaceAndAlias(t *testing.T) {
	src := "interface _Each[A]\n  def count: () -> Integer\nend\ntype foo = any"
	decls, bag := parser.Parse(src, "orig2.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}
	out := sigwriter.WriteDecls(decls)

	decls2, bag2 := parser.Parse(out, "written2.sig")
	if !bag2.Empty() {
		t.Fatalf("written text failed to reparse: %v\n%s", bag2.All(), out)
	}
	if len(decls2) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(decls2))
	}
	if _, ok := decls2[0].(*sigast.InterfaceDecl); !ok {
		t.Errorf("expected first decl to be an InterfaceDecl, got %T", decls2[0])
	}
	alias, ok := decls2[1].(*sigast.AliasDecl)
	if !ok {
		t.Fatalf("expected an AliasDecl, got %T", decls2[1])
	}
	if alias.Name.SimpleName != "foo" {
		t.Errorf("expected alias name foo, got %s", alias.Name.SimpleName)
	}
}
