package ancestors_test

import (
	"testing"

	"github.com/sigtools/sig/internal/ancestors"
	"github.com/sigtools/sig/internal/environment"
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

func TestAncestorsIncludesSuperChain(t *testing.T) {
	src := "class Animal\nend\nclass Dog < Animal\nend"
	env := buildEnv(t, src, "chain.sig")
	b := ancestors.New(env)
	bag := &sigerrors.Bag{}
	list := b.Build("::Dog", ancestors.Instance, bag)
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	var names []string
	for _, a := range list {
		names = append(names, a.Name)
	}
	wantSeen := map[string]bool{"::Dog": false, "::Animal": false, "::Object": false}
	for _, n := range names {
		if _, ok := wantSeen[n]; ok {
			wantSeen[n] = true
		}
	}
	for n, seen := range wantSeen {
		if !seen {
			t.Errorf("expected %s in ancestor list, got %v", n, names)
		}
	}
}

func TestAncestorsDetectsCycle(t *testing.T) {
	src := "class A < B\nend\nclass B < A\nend"
	env := buildEnv(t, src, "cycle.sig")
	b := ancestors.New(env)
	bag := &sigerrors.Bag{}
	b.Build("::A", ancestors.Instance, bag)
	if bag.Empty() {
		t.Fatalf("expected a RecursiveAncestorError diagnostic")
	}
}

func TestAncestorsIncludePrependOrdering(t *testing.T) {
	src := "module Logged\nend\nclass Service\n  prepend Logged\nend"
	env := buildEnv(t, src, "prepend.sig")
	b := ancestors.New(env)
	bag := &sigerrors.Bag{}
	list := b.Build("::Service", ancestors.Instance, bag)
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if len(list) < 2 {
		t.Fatalf("expected at least 2 ancestors, got %d", len(list))
	}
	if list[0].Name != "::Logged" {
		t.Errorf("expected prepended module to precede the class itself, got %s first", list[0].Name)
	}
}
