package constants_test

import (
	"testing"

	"github.com/sigtools/sig/internal/ancestors"
	"github.com/sigtools/sig/internal/constants"
	"github.com/sigtools/sig/internal/definition"
	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/parser"
	"github.com/sigtools/sig/internal/resolver"
	"github.com/sigtools/sig/internal/sigerrors"
)

func buildEnv(t *testing.T, src, file string) *environment.Environment {
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
	resolver.New(env, bag).ResolveEnvironment()
	if !bag.Empty() {
		t.Fatalf("unexpected resolution diagnostics: %v", bag.All())
	}
	return env
}

func TestConstantResolvesAbsolute(t *testing.T) {
	env := buildEnv(t, "class String\nend\n::VERSION: String", "const.sig")
	anc := ancestors.New(env)
	def := definition.New(env, anc)
	tbl := constants.New(env, def)
	bag := &sigerrors.Bag{}
	name := namespace.TypeName{Namespace: namespace.Root(), SimpleName: "VERSION"}
	entry, ok := tbl.Resolve(name, nil, "", bag)
	if !ok {
		t.Fatalf("expected ::VERSION to resolve")
	}
	if entry.Name != "::VERSION" {
		t.Errorf("expected ::VERSION, got %s", entry.Name)
	}
}

func TestConstantClassNameResolvesToSingleton(t *testing.T) {
	env := buildEnv(t, "class Foo\nend", "class_const.sig")
	anc := ancestors.New(env)
	def := definition.New(env, anc)
	tbl := constants.New(env, def)
	bag := &sigerrors.Bag{}
	name := namespace.TypeName{Namespace: namespace.FromRelative(), SimpleName: "Foo"}
	entry, ok := tbl.Resolve(name, namespace.Root().Ascend(), "", bag)
	if !ok {
		t.Fatalf("expected Foo to resolve as a constant naming the class itself")
	}
	if entry.Name != "::Foo" {
		t.Errorf("expected ::Foo, got %s", entry.Name)
	}
}
