package runtimematch_test

import (
	"testing"

	"github.com/sigtools/sig/internal/parser"
	"github.com/sigtools/sig/internal/runtimematch"
	"github.com/sigtools/sig/internal/sigast"
)

func overloadsOf(t *testing.T, src string) []*sigast.Overload {
	t.Helper()
	decls, bag := parser.Parse(src, "match.sig")
	if !bag.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.All())
	}
	cd := decls[0].(*sigast.ClassDecl)
	mm := cd.Members[0].(*sigast.MethodMember)
	return mm.Overloads
}

func TestMatchExactArity(t *testing.T) {
	overloads := overloadsOf(t, "class C\n  def f: (Int) -> void | (Int, String) -> void\nend")
	call := runtimematch.CallShape{Positional: []runtimematch.Value{{}, {}}}
	r := runtimematch.Match(overloads, call)
	if !r.Ok() {
		t.Fatalf("expected a match, got mismatches: %v", r.Mismatches)
	}
}

func TestMatchReportsArityMismatch(t *testing.T) {
	overloads := overloadsOf(t, "class C\n  def f: (Int) -> void\nend")
	call := runtimematch.CallShape{Positional: []runtimematch.Value{{}, {}, {}}}
	r := runtimematch.Match(overloads, call)
	if r.Ok() {
		t.Fatalf("expected no match for a 3-arg call against a 1-arg overload")
	}
}

func TestMatchMissingRequiredBlock(t *testing.T) {
	overloads := overloadsOf(t, "class C\n  def f: () { (Int) -> void } -> void\nend")
	r := runtimematch.Match(overloads, runtimematch.CallShape{})
	if r.Ok() {
		t.Fatalf("expected a missing-block mismatch")
	}
	found := false
	for _, m := range r.Mismatches {
		if m.Kind == runtimematch.MissingBlockError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a MissingBlockError mismatch, got %v", r.Mismatches)
	}
}

func TestMatchUnexpectedBlockWeighsAsShapeError(t *testing.T) {
	overloads := overloadsOf(t, "class C\n  def f: () -> void\nend")
	r := runtimematch.Match(overloads, runtimematch.CallShape{HasBlock: true})
	if r.Ok() {
		t.Fatalf("expected an unexpected-block mismatch")
	}
}
