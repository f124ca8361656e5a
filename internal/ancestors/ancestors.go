// Package ancestors linearizes a class or module's inheritance chain into an
// ordered ancestor list, used by the definition builder to fold members from
// most distant to nearest (spec §4.4).
package ancestors

import (
	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigerrors"
	"github.com/sigtools/sig/internal/token"
)

// Kind selects which linearization to compute for a given type name.
type Kind int

const (
	Instance Kind = iota
	Singleton
)

// Variant tags the role an Ancestor entry plays in the list (spec §4.4).
type Variant int

const (
	VariantInstance Variant = iota
	VariantSingleton
	VariantExtensionInstance
	VariantExtensionSingleton
)

// Ancestor is one entry of a linearized ancestor list.
type Ancestor struct {
	Variant       Variant
	Name          string // absolute TypeName string
	ExtensionName string // set only for the two Extension* variants
	Args          []sigast.Type
}

// Builder computes ancestor lists against env, memoizing per (name, kind).
type Builder struct {
	env   *environment.Environment
	cache map[cacheKey][]Ancestor
}

type cacheKey struct {
	name string
	kind Kind
}

// New creates a Builder reading class/module declarations from env.
func New(env *environment.Environment) *Builder {
	return &Builder{env: env, cache: map[cacheKey][]Ancestor{}}
}

// Build returns the linearized ancestor list for name at the given kind,
// computing and memoizing it on first request. bag receives a
// RecursiveAncestorError if the super chain cycles.
func (b *Builder) Build(name string, kind Kind, bag *sigerrors.Bag) []Ancestor {
	k := cacheKey{name, kind}
	if cached, ok := b.cache[k]; ok {
		return cached
	}
	var stack []string
	var out []Ancestor
	if kind == Instance {
		out = b.buildInstance(name, stack, bag)
	} else {
		out = b.buildSingleton(name, stack, bag)
	}
	b.cache[k] = out
	return out
}

func (b *Builder) buildInstance(name string, stack []string, bag *sigerrors.Bag) []Ancestor {
	if contains(stack, name) {
		bag.Add(sigerrors.New("A100", token.Token{}, "",&sigerrors.RecursiveAncestorError{Name: name, Chain: append(append([]string(nil), stack...), name)}))
		return nil
	}
	stack = append(stack, name)

	entry, ok := b.env.LookupClass(name)
	if !ok || len(entry.Fragments) == 0 {
		return nil
	}

	var out []Ancestor
	var mixinChain []Ancestor

	for _, frag := range entry.Fragments {
		members := membersOf(frag.Decl)
		for _, m := range members {
			mm, ok := m.(*sigast.MixinMember)
			if !ok || mm.Kind != sigast.MixinPrepend {
				continue
			}
			mixinChain = append(mixinChain, b.inlineMixin(mm, stack, bag)...)
		}
	}
	out = append(out, mixinChain...)

	out = append(out, Ancestor{Variant: VariantInstance, Name: name})
	for _, ext := range entry.Extensions {
		out = append(out, Ancestor{Variant: VariantExtensionInstance, Name: name, ExtensionName: ext.Decl.ExtensionName})
	}

	var includeChain []Ancestor
	for _, frag := range entry.Fragments {
		members := membersOf(frag.Decl)
		for _, m := range members {
			mm, ok := m.(*sigast.MixinMember)
			if !ok || mm.Kind != sigast.MixinInclude {
				continue
			}
			includeChain = append(includeChain, b.inlineMixin(mm, stack, bag)...)
		}
	}
	out = append(out, includeChain...)

	if super := superOf(entry); super != nil {
		out = append(out, b.buildInstance(super.Name.String(), stack, bag)...)
	} else if _, isModule := entry.Fragments[0].Decl.(*sigast.ModuleDecl); !isModule && name != "::Object" {
		// A class without an explicit super implicitly descends from the
		// base object type, unless this entry is itself the root.
		out = append(out, Ancestor{Variant: VariantInstance, Name: "::Object"})
	}

	return out
}

// inlineMixin resolves an include/prepend target's own ancestor chain and
// returns it as a sequence of Ancestor entries standing in for the mixin.
// Interfaces are recorded directly (they only matter for method resolution,
// never singleton linearization); class-like mixins (modules) are inlined
// recursively.
func (b *Builder) inlineMixin(mm *sigast.MixinMember, stack []string, bag *sigerrors.Bag) []Ancestor {
	absName := mm.Name.String()
	if _, ok := b.env.LookupInterface(absName); ok {
		return []Ancestor{{Variant: VariantInstance, Name: absName, Args: mm.Args}}
	}
	if contains(stack, absName) {
		bag.Add(sigerrors.New("A100", token.Token{}, "",&sigerrors.RecursiveAncestorError{Name: absName, Chain: append(append([]string(nil), stack...), absName)}))
		return nil
	}
	return b.buildInstance(absName, stack, bag)
}

func (b *Builder) buildSingleton(name string, stack []string, bag *sigerrors.Bag) []Ancestor {
	if contains(stack, name) {
		bag.Add(sigerrors.New("A100", token.Token{}, "",&sigerrors.RecursiveAncestorError{Name: name, Chain: append(append([]string(nil), stack...), name)}))
		return nil
	}
	stack = append(stack, name)

	entry, ok := b.env.LookupClass(name)
	if !ok || len(entry.Fragments) == 0 {
		return []Ancestor{{Variant: VariantSingleton, Name: "::Class"}}
	}

	out := []Ancestor{{Variant: VariantSingleton, Name: name}}
	for _, ext := range entry.Extensions {
		out = append(out, Ancestor{Variant: VariantExtensionSingleton, Name: name, ExtensionName: ext.Decl.ExtensionName})
	}

	for _, frag := range entry.Fragments {
		members := membersOf(frag.Decl)
		for _, m := range members {
			mm, ok := m.(*sigast.MixinMember)
			if !ok || mm.Kind != sigast.MixinExtend {
				continue
			}
			out = append(out, Ancestor{Variant: VariantInstance, Name: mm.Name.String(), Args: mm.Args})
		}
	}

	if super := superOf(entry); super != nil {
		out = append(out, b.buildSingleton(super.Name.String(), stack, bag)...)
	} else {
		out = append(out, Ancestor{Variant: VariantSingleton, Name: "::Class"})
	}

	return out
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

// superOf returns the explicit super clause of the first class fragment that
// declares one, or nil. The environment guarantees that every fragment
// declaring a super clause agrees on it.
func superOf(entry *environment.ClassEntry) *sigast.SuperSpec {
	for _, f := range entry.Fragments {
		if cd, isClass := f.Decl.(*sigast.ClassDecl); isClass && cd.Super != nil {
			return cd.Super
		}
	}
	return nil
}

func contains(stack []string, name string) bool {
	for _, s := range stack {
		if s == name {
			return true
		}
	}
	return false
}
