// Package definition folds a linearized ancestor list into a Definition:
// the resolved method table, instance/class/class-instance variables, and
// constants visible on a type name at a given level (spec §4.5).
package definition

import (
	"fmt"
	"strings"

	"github.com/sigtools/sig/internal/ancestors"
	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigerrors"
	"github.com/sigtools/sig/internal/token"
)

// MethodDef is one resolved entry of a Definition's method table.
type MethodDef struct {
	Name          string
	Overloads     []*sigast.Overload
	DefinedIn     string // absolute name of the earliest contributing ancestor
	ImplementedIn string // absolute name of the nearest concrete ancestor
	Accessibility sigast.Visibility
	Annotations   []string
}

// Definition is the folded view of a type name at instance or singleton
// level: its ancestor list plus the method/variable/constant tables built
// by walking it from most distant to nearest ancestor.
type Definition struct {
	Name      string
	Kind      ancestors.Kind
	Ancestors []ancestors.Ancestor

	Methods           map[string]*MethodDef
	InstanceVariables map[string]sigast.Type
	ClassVariables    map[string]sigast.Type
	Constants         map[string]sigast.Type
}

// Builder computes and memoizes Definitions per (name, kind).
type Builder struct {
	env   *environment.Environment
	anc   *ancestors.Builder
	cache map[key]*Definition
}

type key struct {
	name string
	kind ancestors.Kind
}

// New creates a Builder reading declarations from env and ancestor lists
// from anc.
func New(env *environment.Environment, anc *ancestors.Builder) *Builder {
	return &Builder{env: env, anc: anc, cache: map[key]*Definition{}}
}

// Build returns the memoized Definition for name at kind, computing it on
// first request.
func (b *Builder) Build(name string, kind ancestors.Kind, bag *sigerrors.Bag) *Definition {
	k := key{name, kind}
	if d, ok := b.cache[k]; ok {
		return d
	}
	d := &Definition{
		Name:              name,
		Kind:              kind,
		Ancestors:         b.anc.Build(name, kind, bag),
		Methods:           map[string]*MethodDef{},
		InstanceVariables: map[string]sigast.Type{},
		ClassVariables:    map[string]sigast.Type{},
		Constants:         map[string]sigast.Type{},
	}
	b.cache[k] = d

	// Fold from most distant to nearest: the ancestor list is produced
	// nearest-first (spec §4.4's algorithm walks outward from the target),
	// so iterate it in reverse.
	for i := len(d.Ancestors) - 1; i >= 0; i-- {
		b.foldAncestor(d, d.Ancestors[i], bag)
	}

	for name, m := range d.Methods {
		if containsSuper(m.Overloads) {
			bag.Add(sigerrors.New("D100", token.Token{}, "", &sigerrors.SuperOverloadMethodDefinitionError{Method: name, Owner: d.Name}))
		}
	}

	return d
}

func (b *Builder) foldAncestor(d *Definition, anc ancestors.Ancestor, bag *sigerrors.Bag) {
	entry, ok := b.env.LookupClass(anc.Name)
	var fragmentsByExt map[string][]sigast.Member
	var plainMembers []sigast.Member

	switch anc.Variant {
	case ancestors.VariantInstance, ancestors.VariantSingleton:
		if ok {
			for _, frag := range entry.Fragments {
				plainMembers = append(plainMembers, membersOf(frag.Decl)...)
			}
		} else if iface, ok := b.env.LookupInterface(anc.Name); ok {
			plainMembers = iface.Decl.Members
		}
	case ancestors.VariantExtensionInstance, ancestors.VariantExtensionSingleton:
		if ok {
			fragmentsByExt = map[string][]sigast.Member{}
			for _, ext := range entry.Extensions {
				if ext.Decl.ExtensionName == anc.ExtensionName {
					fragmentsByExt[anc.ExtensionName] = append(fragmentsByExt[anc.ExtensionName], ext.Decl.Members...)
				}
			}
			plainMembers = fragmentsByExt[anc.ExtensionName]
		}
	}

	wantSingleton := anc.Variant == ancestors.VariantSingleton || anc.Variant == ancestors.VariantExtensionSingleton

	for _, m := range plainMembers {
		switch mm := m.(type) {
		case *sigast.VisibilityMember:
			// No-op here: the parser already resolves each method/attr
			// member's own Visibility field against the public/private
			// marker active at its source position within its own fragment
			// (internal/parser/members.go resets that state fresh per
			// fragment), so folding must not re-derive visibility by
			// scanning markers across the concatenated fragment list.
		case *sigast.MethodMember:
			if methodBelongsToLevel(mm.Kind, wantSingleton) {
				b.foldMethod(d, anc.Name, mm, mm.Visibility, bag)
			}
		case *sigast.AttrMember:
			b.foldAttr(d, anc.Name, mm, mm.Visibility, wantSingleton)
		case *sigast.IvarMember:
			if !wantSingleton {
				b.foldVariable(d.InstanceVariables, mm.Name, mm.Type, bag)
			}
		case *sigast.ClassIvarMember:
			if wantSingleton {
				b.foldVariable(d.InstanceVariables, mm.Name, mm.Type, bag)
			}
		case *sigast.CvarMember:
			b.foldVariable(d.ClassVariables, mm.Name, mm.Type, bag)
		case *sigast.AliasMember:
			b.foldAlias(d, mm, wantSingleton)
		case *sigast.NestedDecl:
			d.Constants[mm.Decl.DeclName()] = &sigast.ClassSingletonType{Name: nestedName(anc.Name, mm.Decl.DeclName())}
		}
	}
}

func methodBelongsToLevel(kind sigast.MethodKind, wantSingleton bool) bool {
	switch kind {
	case sigast.MethodInstance:
		return !wantSingleton
	case sigast.MethodSingleton:
		return wantSingleton
	case sigast.MethodSingletonInstance:
		return true
	default:
		return false
	}
}

// foldMethod merges one method member's overload list into the
// accumulator, resolving a `super` sentinel against whatever overload list
// already exists for that name (spec §4.5).
func (b *Builder) foldMethod(d *Definition, ancName string, mm *sigast.MethodMember, visibility sigast.Visibility, bag *sigerrors.Bag) {
	existing, had := d.Methods[mm.Name]

	var folded []*sigast.Overload
	seenSuper := false
	for _, ov := range mm.Overloads {
		if ov.IsSuper {
			if seenSuper {
				bag.Add(sigerrors.New("D101", ov.Token, "", &sigerrors.DuplicatedMethodDefinitionError{Method: mm.Name, Owner: ancName}))
				continue
			}
			seenSuper = true
			if had {
				folded = append(folded, existing.Overloads...)
			}
			// With no inherited overloads the sentinel itself is kept in
			// place; Build's post-pass reports
			// SuperOverloadMethodDefinitionError for any that remain.
			if !had {
				folded = append(folded, ov)
			}
			continue
		}
		folded = append(folded, ov)
	}

	d.Methods[mm.Name] = &MethodDef{
		Name:          mm.Name,
		Overloads:     folded,
		DefinedIn:     firstNonEmpty(existingDefinedIn(existing, had), ancName),
		ImplementedIn: ancName,
		Accessibility: visibility,
		Annotations:   mm.Annotations,
	}
}

func existingDefinedIn(existing *MethodDef, had bool) string {
	if !had {
		return ""
	}
	return existing.DefinedIn
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func containsSuper(overloads []*sigast.Overload) bool {
	for _, ov := range overloads {
		if ov.IsSuper {
			return true
		}
	}
	return false
}

// foldAttr expands an attribute member into its synthesized accessor
// method(s) and, unless overridden to have no backing store, an instance
// variable entry (spec §4.5).
func (b *Builder) foldAttr(d *Definition, ancName string, am *sigast.AttrMember, visibility sigast.Visibility, wantSingleton bool) {
	if !methodBelongsToLevel(am.Kind_, wantSingleton) {
		return
	}

	ivarName := "@" + am.Name
	if am.IvarOverride != nil {
		ivarName = *am.IvarOverride
	}
	if !am.IvarNone {
		d.InstanceVariables[ivarName] = am.Type
	}

	readerFn := &sigast.FunctionType{ReturnType: am.Type, RequiredKeywords: map[string]sigast.Param{}, OptionalKeywords: map[string]sigast.Param{}}
	writerFn := &sigast.FunctionType{
		RequiredPositionals: []sigast.Param{{Type: am.Type}},
		ReturnType:          am.Type,
		RequiredKeywords:    map[string]sigast.Param{},
		OptionalKeywords:    map[string]sigast.Param{},
	}

	switch am.Kind {
	case sigast.AttrReader, sigast.AttrAccessor:
		d.Methods[am.Name] = &MethodDef{
			Name: am.Name, Overloads: []*sigast.Overload{{Fn: readerFn}},
			DefinedIn: ancName, ImplementedIn: ancName, Accessibility: visibility,
		}
	}
	switch am.Kind {
	case sigast.AttrWriter, sigast.AttrAccessor:
		d.Methods[am.Name+"="] = &MethodDef{
			Name: am.Name + "=", Overloads: []*sigast.Overload{{Fn: writerFn}},
			DefinedIn: ancName, ImplementedIn: ancName, Accessibility: visibility,
		}
	}
}

// foldVariable records a variable's type, checking that a conflicting
// redeclaration (a different type for the same name across fragments) is
// reported rather than silently overwritten.
func (b *Builder) foldVariable(table map[string]sigast.Type, name string, typ sigast.Type, bag *sigerrors.Bag) {
	if existing, ok := table[name]; ok {
		if !sameTypeSpelling(existing, typ) {
			bag.Add(sigerrors.New("D102", token.Token{}, "", &sigerrors.SemanticsError{
				Message: name + " is declared with conflicting types across fragments",
			}))
		}
		return
	}
	table[name] = typ
}

// foldAlias copies the referent method's current entry under the alias's
// new name. The referent must already exist in the accumulator (methods
// earlier in the same fold pass, or inherited from a more distant ancestor).
func (b *Builder) foldAlias(d *Definition, am *sigast.AliasMember, wantSingleton bool) {
	if !methodBelongsToLevel(am.Kind, wantSingleton) {
		return
	}
	if referent, ok := d.Methods[am.OldName]; ok {
		d.Methods[am.NewName] = &MethodDef{
			Name: am.NewName, Overloads: referent.Overloads,
			DefinedIn: referent.DefinedIn, ImplementedIn: referent.ImplementedIn,
			Accessibility: referent.Accessibility, Annotations: referent.Annotations,
		}
	}
}

func membersOf(d sigast.Decl) []sigast.Member {
	switch dd := d.(type) {
	case *sigast.ClassDecl:
		return dd.Members
	case *sigast.ModuleDecl:
		return dd.Members
	default:
		return nil
	}
}

// sameTypeSpelling compares two type expressions loosely, by their rendered
// form; exact structural equality is hard to define generically over the
// whole type-expression sum type, and source spelling matching is what the
// spec's "exact-equal types required" check means in practice.
func sameTypeSpelling(a, b sigast.Type) bool {
	return renderType(a) == renderType(b)
}

// nestedName builds the absolute TypeName a nested class/module declaration
// resolves to under owner.
func nestedName(owner, simple string) namespace.TypeName {
	trimmed := strings.TrimPrefix(owner, "::")
	var segs []string
	if trimmed != "" {
		segs = strings.Split(trimmed, "::")
	}
	return namespace.TypeName{Namespace: namespace.FromAbsolute(segs...), SimpleName: simple}
}

// renderType renders a type expression into a canonical string form, used
// only to compare two type expressions for equality (spec §4.5's
// "conflicting types across fragments" check). A proc type renders only its
// return type, so procs differing only in their parameters compare equal.
func renderType(t sigast.Type) string {
	r := &renderVisitor{}
	if t == nil {
		return ""
	}
	t.Accept(r)
	return r.out
}

type renderVisitor struct{ out string }

func (r *renderVisitor) VisitBase(t *sigast.BaseType) { r.out = t.Base.String() }
func (r *renderVisitor) VisitLiteral(t *sigast.LiteralType) {
	r.out = fmt.Sprintf("%v", t.Value)
}
func (r *renderVisitor) VisitVariable(t *sigast.VariableType) { r.out = t.Name }
func (r *renderVisitor) VisitClassInstance(t *sigast.ClassInstanceType) {
	r.out = t.Name.String() + renderArgs(t.Args)
}
func (r *renderVisitor) VisitClassSingleton(t *sigast.ClassSingletonType) {
	r.out = "singleton(" + t.Name.String() + ")"
}
func (r *renderVisitor) VisitInterface(t *sigast.InterfaceType) {
	r.out = t.Name.String() + renderArgs(t.Args)
}
func (r *renderVisitor) VisitAlias(t *sigast.AliasType) { r.out = t.Name.String() }
func (r *renderVisitor) VisitUnion(t *sigast.UnionType) {
	r.out = strings.Join(renderAll(t.Types), " | ")
}
func (r *renderVisitor) VisitIntersection(t *sigast.IntersectionType) {
	r.out = strings.Join(renderAll(t.Types), " & ")
}
func (r *renderVisitor) VisitOptional(t *sigast.OptionalType) {
	r.out = renderType(t.Elem) + "?"
}
func (r *renderVisitor) VisitTuple(t *sigast.TupleType) {
	r.out = "(" + strings.Join(renderAll(t.Elems), ", ") + ")"
}
func (r *renderVisitor) VisitRecord(t *sigast.RecordType) {
	var parts []string
	for _, name := range t.Order {
		parts = append(parts, name+": "+renderType(t.Fields[name]))
	}
	r.out = "{" + strings.Join(parts, ", ") + "}"
}
func (r *renderVisitor) VisitProc(t *sigast.ProcType) {
	r.out = "^" + renderFunc(t.Fn)
}

func renderArgs(args []sigast.Type) string {
	if len(args) == 0 {
		return ""
	}
	return "[" + strings.Join(renderAll(args), ", ") + "]"
}

func renderAll(types []sigast.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = renderType(t)
	}
	return out
}

func renderFunc(ft *sigast.FunctionType) string {
	if ft == nil {
		return "()"
	}
	return "(...) -> " + renderType(ft.ReturnType)
}
