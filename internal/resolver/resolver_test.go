package resolver_test

import (
	"testing"

	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/parser"
	"github.com/sigtools/sig/internal/resolver"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigerrors"
)

func buildEnv(t *testing.T, src, file string) (*environment.Environment, *sigerrors.Bag) {
	t.Helper()
	decls, bag := parser.Parse(src, file)
	if !bag.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}
	env := environment.New()
	env.Insert(decls, file, bag)
	if !bag.Empty() {
		t.Fatalf("unexpected insert diagnostics: %v", bag.All())
	}
	return env, bag
}

func TestResolverRewritesRelativeName(t *testing.T) {
	src := "class Box\n  def get: () -> Box\nend"
	env, _ := buildEnv(t, src, "resolve.sig")
	bag := &sigerrors.Bag{}
	resolver.New(env, bag).ResolveEnvironment()
	if !bag.Empty() {
		t.Fatalf("unexpected resolution diagnostics: %v", bag.All())
	}
	entry, _ := env.LookupClass("::Box")
	cd := entry.Fragments[0].Decl.(*sigast.ClassDecl)
	mm := cd.Members[0].(*sigast.MethodMember)
	ret := mm.Overloads[0].Fn.ReturnType.(*sigast.ClassInstanceType)
	if ret.Name.String() != "::Box" {
		t.Errorf("expected return type to resolve to ::Box, got %s", ret.Name.String())
	}
}

func TestResolverReportsNoTypeFound(t *testing.T) {
	src := "class Box\n  def get: () -> Missing\nend"
	env, _ := buildEnv(t, src, "missing.sig")
	bag := &sigerrors.Bag{}
	resolver.New(env, bag).ResolveEnvironment()
	if bag.Empty() {
		t.Fatalf("expected a NoTypeFoundError diagnostic")
	}
}

func TestResolverHonorsNestedContext(t *testing.T) {
	src := "class Outer\n  class Inner\n  end\n  def get: () -> Inner\nend"
	env, _ := buildEnv(t, src, "nested_ctx.sig")
	bag := &sigerrors.Bag{}
	resolver.New(env, bag).ResolveEnvironment()
	if !bag.Empty() {
		t.Fatalf("unexpected resolution diagnostics: %v", bag.All())
	}
	entry, _ := env.LookupClass("::Outer")
	cd := entry.Fragments[0].Decl.(*sigast.ClassDecl)
	mm := cd.Members[1].(*sigast.MethodMember)
	ret := mm.Overloads[0].Fn.ReturnType.(*sigast.ClassInstanceType)
	if ret.Name.String() != "::Outer::Inner" {
		t.Errorf("expected Inner to resolve within Outer's own namespace, got %s", ret.Name.String())
	}
}
