package environment_test

import (
	"testing"

	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/parser"
	"github.com/sigtools/sig/internal/sigerrors"
)

func TestEnvironmentMergesFragments(t *testing.T) {
	src := "class Foo\n  def a: () -> void\nend\nclass Foo\n  def b: () -> void\nend"
	decls, bag := parser.Parse(src, "frag.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}
	env := environment.New()
	insertBag := &sigerrors.Bag{}
	env.Insert(decls, "frag.sig", insertBag)
	if !insertBag.Empty() {
		t.Fatalf("unexpected insert diagnostics: %v", insertBag.All())
	}
	entry, ok := env.LookupClass("::Foo")
	if !ok {
		t.Fatalf("expected ::Foo to be indexed")
	}
	if len(entry.Fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(entry.Fragments))
	}
}

func TestEnvironmentRejectsSuperclassMismatch(t *testing.T) {
	src := "class Foo < Bar\nend\nclass Foo < Baz\nend"
	decls, bag := parser.Parse(src, "mismatch.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}
	env := environment.New()
	insertBag := &sigerrors.Bag{}
	env.Insert(decls, "mismatch.sig", insertBag)
	if insertBag.Empty() {
		t.Fatalf("expected a superclass mismatch diagnostic")
	}
}

func TestEnvironmentRejectsDuplicateInterface(t *testing.T) {
	src := "interface _Foo\nend\ninterface _Foo\nend"
	decls, bag := parser.Parse(src, "dup_iface.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}
	env := environment.New()
	insertBag := &sigerrors.Bag{}
	env.Insert(decls, "dup_iface.sig", insertBag)
	if insertBag.Empty() {
		t.Fatalf("expected a duplicate-interface diagnostic")
	}
}

func TestEnvironmentIndexesNestedClass(t *testing.T) {
	src := "class Outer\n  class Inner\n  end\nend"
	decls, bag := parser.Parse(src, "nested.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}
	env := environment.New()
	insertBag := &sigerrors.Bag{}
	env.Insert(decls, "nested.sig", insertBag)
	if !insertBag.Empty() {
		t.Fatalf("unexpected insert diagnostics: %v", insertBag.All())
	}
	if _, ok := env.LookupClass("::Outer::Inner"); !ok {
		t.Fatalf("expected ::Outer::Inner to be indexed")
	}
}
