// Package environment indexes a collection of parsed signature files into
// disjoint maps keyed by absolute type name, merging class/module fragments
// declared across multiple files or multiple times in the same file.
package environment

import (
	"fmt"

	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigerrors"
)

// Fragment is one open piece of a class or module declaration, carrying the
// lexical context it was declared in so the resolver can walk it later.
type Fragment struct {
	Decl    sigast.Decl // *sigast.ClassDecl or *sigast.ModuleDecl
	Context namespace.Namespace
	File    string
}

// ExtensionFragment is an `extension` block contributing members to an
// already-declared class or module without affecting its ancestry.
type ExtensionFragment struct {
	Decl    *sigast.ExtensionDecl
	Context namespace.Namespace
	File    string
}

// ClassEntry is the merged record for a TypeName bucket of kind class-like.
type ClassEntry struct {
	Name       namespace.TypeName
	Fragments  []Fragment
	Extensions []ExtensionFragment
}

// IsModule reports whether every fragment is a ModuleDecl. A class-like
// entry mixing Class and Module fragments is rejected at insertion time, so
// once an entry exists this is consistent across all its fragments.
func (c *ClassEntry) IsModule() bool {
	if len(c.Fragments) == 0 {
		return false
	}
	_, ok := c.Fragments[0].Decl.(*sigast.ModuleDecl)
	return ok
}

// InterfaceEntry is the record for an interface declaration. Interfaces may
// not be reopened, so there is exactly one fragment.
type InterfaceEntry struct {
	Name    namespace.TypeName
	Decl    *sigast.InterfaceDecl
	Context namespace.Namespace
	File    string
}

// AliasEntry records a `type name = T` declaration.
type AliasEntry struct {
	Name    namespace.TypeName
	Decl    *sigast.AliasDecl
	Context namespace.Namespace
	File    string
}

// ConstantEntry records a `NAME: T` declaration.
type ConstantEntry struct {
	Name    namespace.TypeName
	Decl    *sigast.ConstantDecl
	Context namespace.Namespace
	File    string
}

// GlobalEntry records a `$name: T` declaration.
type GlobalEntry struct {
	Name    string
	Decl    *sigast.GlobalDecl
	Context namespace.Namespace
	File    string
}

// Environment is the disjoint-map index of every declaration inserted so
// far. It is built monotonically: declarations are added, then the whole
// set is resolved and validated by later stages.
type Environment struct {
	Classes    map[string]*ClassEntry
	Interfaces map[string]*InterfaceEntry
	Aliases    map[string]*AliasEntry
	Constants  map[string]*ConstantEntry
	Globals    map[string]*GlobalEntry
}

// New returns an empty Environment.
func New() *Environment {
	return &Environment{
		Classes:    map[string]*ClassEntry{},
		Interfaces: map[string]*InterfaceEntry{},
		Aliases:    map[string]*AliasEntry{},
		Constants:  map[string]*ConstantEntry{},
		Globals:    map[string]*GlobalEntry{},
	}
}

// key renders a TypeName's absolute form as a map key. ctx is the lexical
// context the name was declared in, used to make it absolute if it wasn't
// already written with a leading `::`.
func key(name namespace.TypeName, ctx namespace.Namespace) string {
	return name.Absolute(ctx).String()
}

// Insert adds every top-level declaration from one parsed file into the
// environment, starting in the root context. Errors (duplicate
// declarations, mismatched super clauses, kind clashes) are appended to bag
// rather than raised, so a caller can insert many files and collect every
// diagnostic from all of them.
func (e *Environment) Insert(decls []sigast.Decl, file string, bag *sigerrors.Bag) {
	for _, d := range decls {
		e.insertDecl(d, namespace.Root(), file, bag)
	}
}

func (e *Environment) insertDecl(d sigast.Decl, ctx namespace.Namespace, file string, bag *sigerrors.Bag) {
	switch dd := d.(type) {
	case *sigast.ClassDecl:
		e.insertClassLike(dd, dd.Name, ctx, file, bag, dd.Super)
		e.insertNested(dd.Name, ctx, dd.Members, file, bag)
	case *sigast.ModuleDecl:
		e.insertClassLike(dd, dd.Name, ctx, file, bag, nil)
		e.insertNested(dd.Name, ctx, dd.Members, file, bag)
	case *sigast.InterfaceDecl:
		k := key(dd.Name, ctx)
		if _, exists := e.Interfaces[k]; exists {
			bag.Addf("E100", dd.Token, file, fmt.Errorf("interface %s is already declared and cannot be reopened", dd.Name))
			return
		}
		e.Interfaces[k] = &InterfaceEntry{Name: dd.Name.Absolute(ctx), Decl: dd, Context: ctx, File: file}
	case *sigast.ExtensionDecl:
		k := key(dd.Name, ctx)
		entry, ok := e.Classes[k]
		if !ok {
			// The target may be declared later in the same insertion batch
			// or in another file; create a placeholder entry so the
			// extension has somewhere to live. If the target never
			// materializes the entry keeps an empty Fragments list, and the
			// resolver reports it as NoTypeFoundError.
			entry = &ClassEntry{Name: dd.Name.Absolute(ctx)}
			e.Classes[k] = entry
		}
		entry.Extensions = append(entry.Extensions, ExtensionFragment{Decl: dd, Context: ctx, File: file})
	case *sigast.AliasDecl:
		k := key(dd.Name, ctx)
		if _, exists := e.Aliases[k]; exists {
			bag.Addf("E101", dd.Token, file, fmt.Errorf("alias %s is already declared", dd.Name))
			return
		}
		e.Aliases[k] = &AliasEntry{Name: dd.Name.Absolute(ctx), Decl: dd, Context: ctx, File: file}
	case *sigast.ConstantDecl:
		k := key(dd.Name, ctx)
		if _, exists := e.Constants[k]; exists {
			bag.Addf("E102", dd.Token, file, fmt.Errorf("constant %s is already declared", dd.Name))
			return
		}
		e.Constants[k] = &ConstantEntry{Name: dd.Name.Absolute(ctx), Decl: dd, Context: ctx, File: file}
	case *sigast.GlobalDecl:
		if _, exists := e.Globals[dd.Name]; exists {
			bag.Addf("E103", dd.Token, file, fmt.Errorf("global $%s is already declared", dd.Name))
			return
		}
		e.Globals[dd.Name] = &GlobalEntry{Name: dd.Name, Decl: dd, Context: ctx, File: file}
	}
}

// insertClassLike merges a class or module fragment into its entry,
// checking that a module fragment is never merged with a class fragment and
// that every fragment's explicit super clause (when present) agrees.
func (e *Environment) insertClassLike(d sigast.Decl, name namespace.TypeName, ctx namespace.Namespace, file string, bag *sigerrors.Bag, super *sigast.SuperSpec) {
	k := key(name, ctx)
	entry, ok := e.Classes[k]
	if !ok {
		entry = &ClassEntry{Name: name.Absolute(ctx)}
		e.Classes[k] = entry
	}
	if len(entry.Fragments) > 0 {
		wantModule := entry.IsModule()
		gotModule := false
		if _, isMod := d.(*sigast.ModuleDecl); isMod {
			gotModule = true
		}
		if wantModule != gotModule {
			bag.Addf("E104", d.GetToken(), file, fmt.Errorf("%s is declared as both a class and a module", name))
			return
		}
		if super != nil {
			for _, f := range entry.Fragments {
				if cd, isClass := f.Decl.(*sigast.ClassDecl); isClass && cd.Super != nil && !superEqual(cd.Super, super) {
					bag.Add(&sigerrors.Diagnostic{Code: "E105", File: file, Pos: d.GetToken().Pos,
						Err: &sigerrors.SuperclassMismatchError{Name: name.String(), Pos: d.GetToken().Pos}})
					return
				}
			}
		}
	}
	entry.Fragments = append(entry.Fragments, Fragment{Decl: d, Context: ctx, File: file})
}

func superEqual(a, b *sigast.SuperSpec) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.Name.Equal(b.Name) || len(a.Args) != len(b.Args) {
		return false
	}
	return true
}

// insertNested walks NestedDecl members, inserting them under the owning
// declaration's own namespace as context, so a class nested inside `class A`
// is indexed as ::A::Nested.
func (e *Environment) insertNested(owner namespace.TypeName, ctx namespace.Namespace, members []sigast.Member, file string, bag *sigerrors.Bag) {
	innerCtx := owner.Namespace.Absolute(ctx).Append(owner.SimpleName)
	for _, m := range members {
		if nd, ok := m.(*sigast.NestedDecl); ok {
			e.insertDecl(nd.Decl, innerCtx, file, bag)
		}
	}
}

// Lookup finds a class/module entry by absolute TypeName string.
func (e *Environment) LookupClass(absName string) (*ClassEntry, bool) {
	c, ok := e.Classes[absName]
	return c, ok
}

// LookupInterface finds an interface entry by absolute TypeName string.
func (e *Environment) LookupInterface(absName string) (*InterfaceEntry, bool) {
	c, ok := e.Interfaces[absName]
	return c, ok
}

// LookupAlias finds an alias entry by absolute TypeName string.
func (e *Environment) LookupAlias(absName string) (*AliasEntry, bool) {
	c, ok := e.Aliases[absName]
	return c, ok
}

// LookupConstant finds a constant entry by absolute TypeName string.
func (e *Environment) LookupConstant(absName string) (*ConstantEntry, bool) {
	c, ok := e.Constants[absName]
	return c, ok
}

// Kind reports the syntactic bucket an absolute name resolves to, or false
// if it isn't declared anywhere.
func (e *Environment) Kind(absName string) (namespace.Kind, bool) {
	if _, ok := e.Classes[absName]; ok {
		return namespace.KindClassLike, true
	}
	if _, ok := e.Interfaces[absName]; ok {
		return namespace.KindInterface, true
	}
	if _, ok := e.Aliases[absName]; ok {
		return namespace.KindAlias, true
	}
	return 0, false
}
