package validator_test

import (
	"testing"

	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/parser"
	"github.com/sigtools/sig/internal/resolver"
	"github.com/sigtools/sig/internal/sigerrors"
	"github.com/sigtools/sig/internal/validator"
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

func TestValidatorAcceptsMatchingArity(t *testing.T) {
	src := "class Int\nend\nclass Box[T]\nend\nclass IntBox < Box[Int]\nend"
	env := buildEnv(t, src, "arity_ok.sig")
	bag := &sigerrors.Bag{}
	validator.New(env, bag).Run()
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
}

func TestValidatorRejectsArityMismatch(t *testing.T) {
	src := "class Int\nend\nclass String\nend\nclass Box[T]\nend\nclass IntBox < Box[Int, String]\nend"
	env := buildEnv(t, src, "arity_bad.sig")
	bag := &sigerrors.Bag{}
	validator.New(env, bag).Run()
	if bag.Empty() {
		t.Fatalf("expected an InvalidTypeApplicationError diagnostic")
	}
}

func TestValidatorRejectsNonClassSelfType(t *testing.T) {
	src := "module Greet\n  : any\nend"
	env := buildEnv(t, src, "selftype_bad.sig")
	bag := &sigerrors.Bag{}
	validator.New(env, bag).Run()
	if bag.Empty() {
		t.Fatalf("expected a SemanticsError diagnostic for a non-class self-type")
	}
}

func TestValidatorAcceptsClassSelfType(t *testing.T) {
	src := "class Host\nend\nmodule Greet\n  : Host\nend"
	env := buildEnv(t, src, "selftype_ok.sig")
	bag := &sigerrors.Bag{}
	validator.New(env, bag).Run()
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
}
