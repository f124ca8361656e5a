// Package constants resolves constant references by namespace ascent,
// falling back to ancestor constants when nothing matches locally
// (spec §4.6).
package constants

import (
	"github.com/sigtools/sig/internal/ancestors"
	"github.com/sigtools/sig/internal/definition"
	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigerrors"
)

// Entry is a resolved constant: its type and the absolute name it was found
// under.
type Entry struct {
	Name string
	Type sigast.Type
}

// Table resolves constant references against an Environment, consulting the
// Definition builder for ancestor-constant fallback.
type Table struct {
	env *environment.Environment
	def *definition.Builder
}

// New creates a Table backed by env and def.
func New(env *environment.Environment, def *definition.Builder) *Table {
	return &Table{env: env, def: def}
}

// Resolve looks up a constant reference name (looked up directly when
// name.IsAbsolute() is true), given an ascent context (innermost-first,
// e.g. from Namespace.Ascend()). enclosing is the absolute name of the
// innermost enclosing class/module, used for the ancestor-constant
// fallback; it may be empty at the top level.
func (t *Table) Resolve(name namespace.TypeName, context []namespace.Namespace, enclosing string, bag *sigerrors.Bag) (Entry, bool) {
	if name.IsAbsolute() {
		return t.lookupAbsolute(name.String())
	}
	for _, ns := range context {
		candidate := namespace.TryPrefix(ns, name)
		if e, ok := t.lookupAbsolute(candidate.String()); ok {
			return e, true
		}
	}
	if enclosing != "" {
		d := t.def.Build(enclosing, ancestors.Instance, bag)
		if typ, ok := d.Constants[name.SimpleName]; ok {
			return Entry{Name: enclosing + "::" + name.SimpleName, Type: typ}, true
		}
		for _, anc := range d.Ancestors {
			ad := t.def.Build(anc.Name, ancestors.Instance, bag)
			if typ, ok := ad.Constants[name.SimpleName]; ok {
				return Entry{Name: anc.Name + "::" + name.SimpleName, Type: typ}, true
			}
		}
	}
	return Entry{}, false
}

func (t *Table) lookupAbsolute(absName string) (Entry, bool) {
	if c, ok := t.env.LookupConstant(absName); ok {
		return Entry{Name: absName, Type: c.Decl.Type}, true
	}
	if _, ok := t.env.LookupClass(absName); ok {
		return Entry{Name: absName, Type: &sigast.ClassSingletonType{Name: splitTypeName(absName)}}, true
	}
	return Entry{}, false
}

func splitTypeName(absName string) namespace.TypeName {
	// absName is rendered as "::A::B::C"; split off the last segment as the
	// simple name and the rest as the absolute namespace.
	segs := splitSegments(absName)
	if len(segs) == 0 {
		return namespace.TypeName{}
	}
	simple := segs[len(segs)-1]
	return namespace.TypeName{Namespace: namespace.FromAbsolute(segs[:len(segs)-1]...), SimpleName: simple}
}

func splitSegments(absName string) []string {
	trimmed := absName
	for len(trimmed) >= 2 && trimmed[:2] == "::" {
		trimmed = trimmed[2:]
		break
	}
	if trimmed == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i+1 < len(trimmed); i++ {
		if trimmed[i] == ':' && trimmed[i+1] == ':' {
			out = append(out, trimmed[start:i])
			start = i + 2
			i++
		}
	}
	out = append(out, trimmed[start:])
	return out
}
