// Package resolver rewrites type-name references inside a parsed
// declaration set from lexically-scoped spellings to absolute names,
// checking that every reference resolves to a declaration of matching kind.
package resolver

import (
	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigerrors"
	"github.com/sigtools/sig/internal/token"
)

// Resolver rewrites sigast.Type trees in place, replacing every
// ClassInstanceType/InterfaceType/AliasType/ClassSingletonType name with its
// absolute resolution.
type Resolver struct {
	env     *environment.Environment
	bag     *sigerrors.Bag
	curFile string
}

// New creates a Resolver checking references against env, appending
// diagnostics to bag.
func New(env *environment.Environment, bag *sigerrors.Bag) *Resolver {
	return &Resolver{env: env, bag: bag}
}

// ResolveEnvironment walks every fragment and extension in env, resolving
// every type reference reachable from its members. Super clauses and module
// self-types resolve in the context the declaration was written in; members
// resolve in the declaration's own namespace first, then outward. An
// extension whose target class/module is never declared is reported as
// NoTypeFoundError.
func (r *Resolver) ResolveEnvironment() {
	for _, c := range r.env.Classes {
		inner := r.context(c.Name.Namespace.Append(c.Name.SimpleName))
		for _, f := range c.Fragments {
			ctx := r.context(f.Context)
			r.curFile = f.File
			switch d := f.Decl.(type) {
			case *sigast.ClassDecl:
				if d.Super != nil {
					r.resolveTypeName(&d.Super.Name, ctx, d.Super.Token, namespace.KindClassLike)
					for i := range d.Super.Args {
						r.ResolveType(d.Super.Args[i], ctx)
					}
				}
				r.resolveMembers(d.Members, inner)
			case *sigast.ModuleDecl:
				for i := range d.SelfTypes {
					r.ResolveType(d.SelfTypes[i], ctx)
				}
				r.resolveMembers(d.Members, inner)
			}
		}
		for _, x := range c.Extensions {
			r.curFile = x.File
			if len(c.Fragments) == 0 && !isBuiltinBase(c.Name.SimpleName) {
				r.bag.Add(sigerrors.New("R100", x.Decl.Token, x.File, &sigerrors.NoTypeFoundError{Name: c.Name.String(), Pos: x.Decl.Token.Pos}))
			}
			r.resolveMembers(x.Decl.Members, inner)
		}
	}
	for _, i := range r.env.Interfaces {
		r.curFile = i.File
		r.resolveMembers(i.Decl.Members, r.context(i.Context))
	}
	for _, a := range r.env.Aliases {
		r.curFile = a.File
		r.ResolveType(a.Decl.Type, r.context(a.Context))
	}
	for _, c := range r.env.Constants {
		r.curFile = c.File
		r.ResolveType(c.Decl.Type, r.context(c.Context))
	}
	for _, g := range r.env.Globals {
		r.curFile = g.File
		r.ResolveType(g.Decl.Type, r.context(g.Context))
	}
}

// context computes the innermost-first ascent list for a fragment declared
// at absolute namespace ns.
func (r *Resolver) context(ns namespace.Namespace) []namespace.Namespace {
	return ns.Ascend()
}

func (r *Resolver) resolveMembers(members []sigast.Member, ctx []namespace.Namespace) {
	for _, m := range members {
		switch mm := m.(type) {
		case *sigast.MethodMember:
			for _, ov := range mm.Overloads {
				if ov.IsSuper {
					continue
				}
				r.resolveFunctionType(ov.Fn, ctx)
				if ov.Block != nil {
					r.resolveFunctionType(ov.Block.Fn, ctx)
				}
				for _, tp := range ov.TypeParams {
					if tp.Constraint != nil {
						r.ResolveType(tp.Constraint, ctx)
					}
				}
			}
		case *sigast.MixinMember:
			wantKind := namespace.KindClassLike
			if mm.Kind == sigast.MixinInclude || mm.Kind == sigast.MixinExtend {
				// include/extend targets may be interfaces or modules
				// (modules resolve through the class-like bucket), so the
				// name must resolve but its kind is not checked.
				wantKind = -1
			}
			r.resolveTypeName(&mm.Name, ctx, mm.Token, wantKind)
			for i := range mm.Args {
				r.ResolveType(mm.Args[i], ctx)
			}
		case *sigast.AttrMember:
			r.ResolveType(mm.Type, ctx)
		case *sigast.IvarMember:
			r.ResolveType(mm.Type, ctx)
		case *sigast.ClassIvarMember:
			r.ResolveType(mm.Type, ctx)
		case *sigast.CvarMember:
			r.ResolveType(mm.Type, ctx)
		case *sigast.NestedDecl:
			// Nested declarations are indexed and resolved as their own
			// top-level entries by ResolveEnvironment's outer loop.
		}
	}
}

func (r *Resolver) resolveFunctionType(ft *sigast.FunctionType, ctx []namespace.Namespace) {
	if ft == nil {
		return
	}
	resolveParams := func(ps []sigast.Param) {
		for i := range ps {
			r.ResolveType(ps[i].Type, ctx)
		}
	}
	resolveParams(ft.RequiredPositionals)
	resolveParams(ft.OptionalPositionals)
	if ft.RestPositional != nil {
		r.ResolveType(ft.RestPositional.Type, ctx)
	}
	resolveParams(ft.TrailingPositionals)
	for _, name := range ft.KeywordOrder {
		if p, ok := ft.RequiredKeywords[name]; ok {
			r.ResolveType(p.Type, ctx)
		}
		if p, ok := ft.OptionalKeywords[name]; ok {
			r.ResolveType(p.Type, ctx)
		}
	}
	if ft.RestKeywords != nil {
		r.ResolveType(ft.RestKeywords.Type, ctx)
	}
	r.ResolveType(ft.ReturnType, ctx)
}

// ResolveType recurses through a type expression, rewriting every name
// reference found in place.
func (r *Resolver) ResolveType(t sigast.Type, ctx []namespace.Namespace) {
	switch tt := t.(type) {
	case nil:
	case *sigast.ClassInstanceType:
		r.resolveTypeName(&tt.Name, ctx, tt.Token, namespace.KindClassLike)
		for i := range tt.Args {
			r.ResolveType(tt.Args[i], ctx)
		}
	case *sigast.ClassSingletonType:
		r.resolveTypeName(&tt.Name, ctx, tt.Token, namespace.KindClassLike)
	case *sigast.InterfaceType:
		r.resolveTypeName(&tt.Name, ctx, tt.Token, namespace.KindInterface)
		for i := range tt.Args {
			r.ResolveType(tt.Args[i], ctx)
		}
	case *sigast.AliasType:
		r.resolveTypeName(&tt.Name, ctx, tt.Token, namespace.KindAlias)
	case *sigast.UnionType:
		for i := range tt.Types {
			r.ResolveType(tt.Types[i], ctx)
		}
	case *sigast.IntersectionType:
		for i := range tt.Types {
			r.ResolveType(tt.Types[i], ctx)
		}
	case *sigast.OptionalType:
		r.ResolveType(tt.Elem, ctx)
	case *sigast.TupleType:
		for i := range tt.Elems {
			r.ResolveType(tt.Elems[i], ctx)
		}
	case *sigast.RecordType:
		for _, name := range tt.Order {
			r.ResolveType(tt.Fields[name], ctx)
		}
	case *sigast.ProcType:
		r.resolveFunctionType(tt.Fn, ctx)
	}
}

// resolveTypeName rewrites name in place to its absolute resolution,
// reporting NoTypeFoundError if nothing matches and a kind mismatch error if
// wantKind is non-negative and doesn't match what was found.
func (r *Resolver) resolveTypeName(name *namespace.TypeName, ctx []namespace.Namespace, tok token.Token, wantKind namespace.Kind) {
	if name.IsAbsolute() {
		if _, ok := r.env.Kind(name.String()); !ok {
			if !isBuiltinBase(name.SimpleName) {
				r.bag.Add(sigerrors.New("R100", tok, r.curFile, &sigerrors.NoTypeFoundError{Name: name.String(), Pos: tok.Pos}))
			}
			return
		}
		r.checkKind(*name, tok, wantKind)
		return
	}
	for _, ns := range ctx {
		candidate := namespace.TryPrefix(ns, *name)
		if _, ok := r.env.Kind(candidate.String()); ok {
			*name = candidate
			r.checkKind(*name, tok, wantKind)
			return
		}
	}
	if isBuiltinBase(name.SimpleName) {
		return
	}
	r.bag.Add(sigerrors.New("R100", tok, r.curFile, &sigerrors.NoTypeFoundError{Name: name.String(), Pos: tok.Pos}))
}

func (r *Resolver) checkKind(name namespace.TypeName, tok token.Token, wantKind namespace.Kind) {
	if wantKind < 0 {
		return
	}
	gotKind, ok := r.env.Kind(name.String())
	if !ok {
		return
	}
	if gotKind != wantKind {
		r.bag.Add(sigerrors.New("R101", tok, r.curFile, &sigerrors.InvalidTypeApplicationError{
			Name: name.String(), Pos: tok.Pos,
		}))
	}
}

// isBuiltinBase reports whether name refers to a well-known base-library
// constant such as Object or Kernel that every environment is expected to
// ship via pkg/embed, so unresolved references to it aren't reported when an
// embedder hasn't loaded the core library.
func isBuiltinBase(name string) bool {
	switch name {
	case "Object", "BasicObject", "Kernel", "Class", "Module":
		return true
	default:
		return false
	}
}
