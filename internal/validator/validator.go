// Package validator sweeps every type reference in a resolved environment
// and checks generic arity and self-type constraints (spec §4.7). It runs
// after the resolver has rewritten names to absolute form; names that did
// not resolve are reported by the resolver, not here.
package validator

import (
	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigerrors"
	"github.com/sigtools/sig/internal/token"
)

// Validator checks a resolved Environment and collects diagnostics; it is
// side-effect free otherwise.
type Validator struct {
	env *environment.Environment
	bag *sigerrors.Bag
}

// New creates a Validator checking env, appending diagnostics to bag.
func New(env *environment.Environment, bag *sigerrors.Bag) *Validator {
	return &Validator{env: env, bag: bag}
}

// Run sweeps every declaration in the environment.
func (v *Validator) Run() {
	for _, c := range v.env.Classes {
		for _, f := range c.Fragments {
			switch d := f.Decl.(type) {
			case *sigast.ClassDecl:
				if d.Super != nil {
					v.checkArity(d.Super.Name, d.Super.Args, d.Super.Token, f.File)
				}
				v.checkMembers(d.Members, f.File)
			case *sigast.ModuleDecl:
				for _, st := range d.SelfTypes {
					v.checkSelfType(st, f.File)
				}
				v.checkMembers(d.Members, f.File)
			}
		}
		for _, x := range c.Extensions {
			v.checkMembers(x.Decl.Members, x.File)
		}
	}
	for _, i := range v.env.Interfaces {
		v.checkMembers(i.Decl.Members, i.File)
	}
	for _, a := range v.env.Aliases {
		v.checkType(a.Decl.Type, a.File)
	}
	for _, c := range v.env.Constants {
		v.checkType(c.Decl.Type, c.File)
	}
	for _, g := range v.env.Globals {
		v.checkType(g.Decl.Type, g.File)
	}
}

func (v *Validator) checkMembers(members []sigast.Member, file string) {
	for _, m := range members {
		switch mm := m.(type) {
		case *sigast.MethodMember:
			for _, ov := range mm.Overloads {
				if ov.IsSuper || ov.Fn == nil {
					continue
				}
				v.checkFunctionType(ov.Fn, file)
				if ov.Block != nil {
					v.checkFunctionType(ov.Block.Fn, file)
				}
			}
		case *sigast.MixinMember:
			v.checkArity(mm.Name, mm.Args, mm.Token, file)
		case *sigast.AttrMember:
			v.checkType(mm.Type, file)
		case *sigast.IvarMember:
			v.checkType(mm.Type, file)
		case *sigast.ClassIvarMember:
			v.checkType(mm.Type, file)
		case *sigast.CvarMember:
			v.checkType(mm.Type, file)
		}
	}
}

func (v *Validator) checkFunctionType(ft *sigast.FunctionType, file string) {
	if ft == nil {
		return
	}
	for _, p := range ft.RequiredPositionals {
		v.checkType(p.Type, file)
	}
	for _, p := range ft.OptionalPositionals {
		v.checkType(p.Type, file)
	}
	if ft.RestPositional != nil {
		v.checkType(ft.RestPositional.Type, file)
	}
	for _, p := range ft.TrailingPositionals {
		v.checkType(p.Type, file)
	}
	for _, name := range ft.KeywordOrder {
		if p, ok := ft.RequiredKeywords[name]; ok {
			v.checkType(p.Type, file)
		}
		if p, ok := ft.OptionalKeywords[name]; ok {
			v.checkType(p.Type, file)
		}
	}
	if ft.RestKeywords != nil {
		v.checkType(ft.RestKeywords.Type, file)
	}
	v.checkType(ft.ReturnType, file)
}

func (v *Validator) checkType(t sigast.Type, file string) {
	switch tt := t.(type) {
	case nil:
	case *sigast.ClassInstanceType:
		v.checkArity(tt.Name, tt.Args, tt.Token, file)
		for _, a := range tt.Args {
			v.checkType(a, file)
		}
	case *sigast.InterfaceType:
		v.checkArity(tt.Name, tt.Args, tt.Token, file)
		for _, a := range tt.Args {
			v.checkType(a, file)
		}
	case *sigast.UnionType:
		for _, a := range tt.Types {
			v.checkType(a, file)
		}
	case *sigast.IntersectionType:
		for _, a := range tt.Types {
			v.checkType(a, file)
		}
	case *sigast.OptionalType:
		v.checkType(tt.Elem, file)
	case *sigast.TupleType:
		for _, a := range tt.Elems {
			v.checkType(a, file)
		}
	case *sigast.RecordType:
		for _, name := range tt.Order {
			v.checkType(tt.Fields[name], file)
		}
	case *sigast.ProcType:
		v.checkFunctionType(tt.Fn, file)
	}
}

// checkArity verifies that len(args) matches name's declared type-parameter
// count, for class-like and interface names (aliases are never applied with
// arguments per the data model). Names that did not resolve are skipped.
func (v *Validator) checkArity(name namespace.TypeName, args []sigast.Type, tok token.Token, file string) {
	if !name.IsAbsolute() {
		// Names should already be absolute after the resolver pass; an
		// unresolved relative name here means resolution already failed
		// and was reported there.
		return
	}
	var declaredParams int
	found := false
	if c, ok := v.env.LookupClass(name.String()); ok && len(c.Fragments) > 0 {
		found = true
		declaredParams = len(typeParamsOf(c.Fragments[0].Decl))
	} else if i, ok := v.env.LookupInterface(name.String()); ok {
		found = true
		declaredParams = len(i.Decl.TypeParams)
	}
	if !found {
		return
	}
	if len(args) != declaredParams {
		v.bag.Add(sigerrors.New("V100", tok, file, &sigerrors.InvalidTypeApplicationError{
			Name: name.String(), Expected: declaredParams, Actual: len(args), Pos: tok.Pos,
		}))
	}
}

func typeParamsOf(d sigast.Decl) []sigast.TypeParam {
	switch dd := d.(type) {
	case *sigast.ClassDecl:
		return dd.TypeParams
	case *sigast.ModuleDecl:
		return dd.TypeParams
	default:
		return nil
	}
}

// checkSelfType verifies a module's `: S` self-type is a class-instance or
// interface type, per spec §4.7.
func (v *Validator) checkSelfType(t sigast.Type, file string) {
	switch t.(type) {
	case *sigast.ClassInstanceType, *sigast.InterfaceType:
		v.checkType(t, file)
	default:
		v.bag.Add(sigerrors.New("V101", t.GetToken(), file, &sigerrors.SemanticsError{
			Message: "module self-type must be a class-instance or interface type",
			Pos:     t.GetToken().Pos,
		}))
	}
}
