package definition_test

import (
	"testing"

	"github.com/sigtools/sig/internal/ancestors"
	"github.com/sigtools/sig/internal/definition"
	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/parser"
	"github.com/sigtools/sig/internal/resolver"
	"github.com/sigtools/sig/internal/sigast"
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

func TestDefinitionInheritsMethods(t *testing.T) {
	src := "class Animal\n  def speak: () -> void\nend\nclass Dog < Animal\nend"
	env := buildEnv(t, src, "inherit.sig")
	anc := ancestors.New(env)
	def := definition.New(env, anc)
	bag := &sigerrors.Bag{}
	d := def.Build("::Dog", ancestors.Instance, bag)
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if _, ok := d.Methods["speak"]; !ok {
		t.Fatalf("expected Dog to inherit speak from Animal")
	}
}

func TestDefinitionResolvesSuperSentinel(t *testing.T) {
	src := "class Int\nend\n" +
		"class Animal\n  def speak: (volume: Int) -> void\nend\n" +
		"class Dog < Animal\n  def speak: super | () -> void\nend"
	env := buildEnv(t, src, "super.sig")
	anc := ancestors.New(env)
	def := definition.New(env, anc)
	bag := &sigerrors.Bag{}
	d := def.Build("::Dog", ancestors.Instance, bag)
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	m := d.Methods["speak"]
	if m == nil {
		t.Fatalf("expected a speak method")
	}
	if len(m.Overloads) != 2 {
		t.Fatalf("expected super's overload concatenated with the new one, got %d", len(m.Overloads))
	}
	if m.Overloads[0].IsSuper {
		t.Errorf("expected the super sentinel to have been replaced")
	}
}

func TestDefinitionSynthesizesAttrAccessor(t *testing.T) {
	src := "class Int\nend\nclass Point\n  attr_accessor x: Int\nend"
	env := buildEnv(t, src, "attr.sig")
	anc := ancestors.New(env)
	def := definition.New(env, anc)
	bag := &sigerrors.Bag{}
	d := def.Build("::Point", ancestors.Instance, bag)
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if _, ok := d.Methods["x"]; !ok {
		t.Errorf("expected synthesized reader x")
	}
	if _, ok := d.Methods["x="]; !ok {
		t.Errorf("expected synthesized writer x=")
	}
	if _, ok := d.InstanceVariables["@x"]; !ok {
		t.Errorf("expected synthesized backing ivar @x")
	}
}

func TestDefinitionAttrIvarOverride(t *testing.T) {
	src := "class Int\nend\nclass Point\n  attr_reader x(@raw_x): Int\nend"
	env := buildEnv(t, src, "attr_override.sig")
	anc := ancestors.New(env)
	def := definition.New(env, anc)
	bag := &sigerrors.Bag{}
	d := def.Build("::Point", ancestors.Instance, bag)
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if _, ok := d.InstanceVariables["@raw_x"]; !ok {
		t.Errorf("expected the overridden ivar name @raw_x to be used")
	}
	if _, ok := d.InstanceVariables["@x"]; ok {
		t.Errorf("did not expect the default ivar name @x to also be synthesized")
	}
}

func TestDefinitionVisibilityDoesNotLeakAcrossFragments(t *testing.T) {
	src := "class Foo\n  private\n  def a: () -> void\nend\n" +
		"class Foo\n  def b: () -> void\nend"
	env := buildEnv(t, src, "visibility.sig")
	anc := ancestors.New(env)
	def := definition.New(env, anc)
	bag := &sigerrors.Bag{}
	d := def.Build("::Foo", ancestors.Instance, bag)
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}

	a := d.Methods["a"]
	if a == nil {
		t.Fatalf("expected method a")
	}
	if a.Accessibility != sigast.Private {
		t.Errorf("expected a to stay private, got %v", a.Accessibility)
	}

	b := d.Methods["b"]
	if b == nil {
		t.Fatalf("expected method b")
	}
	if b.Accessibility != sigast.Public {
		t.Errorf("expected b in the second fragment to be public (private must not leak across fragments), got %v", b.Accessibility)
	}
}

func TestDefinitionAlias(t *testing.T) {
	src := "class Greeter\n  def hello: () -> void\n  alias hi hello\nend"
	env := buildEnv(t, src, "alias.sig")
	anc := ancestors.New(env)
	def := definition.New(env, anc)
	bag := &sigerrors.Bag{}
	d := def.Build("::Greeter", ancestors.Instance, bag)
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if _, ok := d.Methods["hi"]; !ok {
		t.Errorf("expected alias hi to be registered")
	}
}
