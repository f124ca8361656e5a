package parser_test

import (
	"testing"

	"github.com/sigtools/sig/internal/parser"
	"github.com/sigtools/sig/internal/sigast"
)

func TestParserDeclarations(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"simple_class", "class Foo\nend"},
		{"class_with_super", "class Foo < Bar\nend"},
		{"generic_class", "class Box[A]\nend"},
		{"type_alias", "type foo = any"},
		{"absolute_constant", "::BAR: any"},
		{"interface", "interface _Each[A, B]\n  def each: (A) -> B\nend"},
		{"extension", "extension C (Pathname)\n  def basename: () -> String\nend"},
		{"module_self_type", "module M : Comparable\n  self.@x: Int\nend"},
		{"global", "$stdout: IO"},
		{"nested_class", "class Outer\n  class Inner\n  end\nend"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decls, bag := parser.Parse(tc.input, tc.name+".sig")
			if !bag.Empty() {
				for _, d := range bag.All() {
					t.Errorf("unexpected diagnostic: %s", d.Error())
				}
			}
			if len(decls) == 0 {
				t.Fatalf("expected at least one declaration")
			}
		})
	}
}

func TestSuperOverloadSentinel(t *testing.T) {
	src := "class Foo < Bar\n  def initialize: super | (x: Int) -> void\nend"
	decls, bag := parser.Parse(src, "super.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	cd, ok := decls[0].(*sigast.ClassDecl)
	if !ok {
		t.Fatalf("expected a ClassDecl")
	}
	mm, ok := cd.Members[0].(*sigast.MethodMember)
	if !ok {
		t.Fatalf("expected a MethodMember")
	}
	if len(mm.Overloads) != 2 {
		t.Fatalf("expected 2 overloads, got %d", len(mm.Overloads))
	}
	if !mm.Overloads[0].IsSuper {
		t.Errorf("expected first overload to be the super sentinel")
	}
	if mm.Overloads[1].IsSuper {
		t.Errorf("expected second overload to be concrete")
	}
}

func TestInterfaceRejectsSelfMethod(t *testing.T) {
	src := "interface _Foo\n  def self.bar: () -> void\nend"
	_, bag := parser.Parse(src, "iface.sig")
	if bag.Empty() {
		t.Fatalf("expected a semantics error for self. method inside an interface")
	}
}

func TestPunctuationMethodNames(t *testing.T) {
	src := "class Vector\n  def +: (other: Vector) -> Vector\n  def []: (i: Int) -> Int\n  def []=: (i: Int, v: Int) -> Int\n  def -@: () -> Vector\nend"
	decls, bag := parser.Parse(src, "vector.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	cd := decls[0].(*sigast.ClassDecl)
	var names []string
	for _, m := range cd.Members {
		if mm, ok := m.(*sigast.MethodMember); ok {
			names = append(names, mm.Name)
		}
	}
	want := map[string]bool{"+": true, "[]": true, "[]=": true, "-@": true}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected method name %q", n)
		}
		delete(want, n)
	}
	if len(want) != 0 {
		t.Errorf("missing method names: %v", want)
	}
}
