// Package sigerrors defines the error taxonomy (spec §7) and a Diagnostic
// aggregate used by the parser, environment, resolver, builders, and
// validator to report failures with source location.
package sigerrors

import (
	"fmt"

	"github.com/sigtools/sig/internal/token"
)

// SyntaxError: the token stream did not match the grammar.
type SyntaxError struct {
	Pos     token.Position
	Message string
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("syntax error: %s", e.Message) }

// SemanticsError: well-formed syntactically but violates a structural rule,
// e.g. a `self.` method inside an interface.
type SemanticsError struct {
	Pos     token.Position
	Message string
}

func (e *SemanticsError) Error() string { return fmt.Sprintf("semantics error: %s", e.Message) }

// DuplicateDeclarationError: a constant/global/alias/interface name was
// declared more than once where reopening isn't allowed.
type DuplicateDeclarationError struct {
	Name string
	Pos  token.Position
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("%s is already declared", e.Name)
}

// SuperclassMismatchError: two fragments of the same class disagree on
// their explicit superclass.
type SuperclassMismatchError struct {
	Name string
	Pos  token.Position
}

func (e *SuperclassMismatchError) Error() string {
	return fmt.Sprintf("superclass mismatch for %s", e.Name)
}

// GenericParameterMismatchError: a class/module/interface was reopened with
// a different type-parameter arity than a prior fragment.
type GenericParameterMismatchError struct {
	Name string
	Pos  token.Position
}

func (e *GenericParameterMismatchError) Error() string {
	return fmt.Sprintf("generic parameter mismatch for %s", e.Name)
}

// NoTypeFoundError: a type name didn't resolve to any declaration.
type NoTypeFoundError struct {
	Name string
	Pos  token.Position
}

func (e *NoTypeFoundError) Error() string { return fmt.Sprintf("could not resolve type: %s", e.Name) }

// InvalidTypeApplicationError: a type application's argument count doesn't
// match the declared arity, or a name was used with the wrong syntactic
// kind (interface name resolving to a class, etc).
type InvalidTypeApplicationError struct {
	Name     string
	Expected int
	Actual   int
	Pos      token.Position
}

func (e *InvalidTypeApplicationError) Error() string {
	return fmt.Sprintf("%s expects %d type argument(s), given %d", e.Name, e.Expected, e.Actual)
}

// NoSuperclassFoundError: a class's `< Super` clause names an unresolvable
// superclass.
type NoSuperclassFoundError struct {
	Name string
	Pos  token.Position
}

func (e *NoSuperclassFoundError) Error() string {
	return fmt.Sprintf("could not resolve superclass: %s", e.Name)
}

// NoMixinFoundError: an include/extend/prepend names an unresolvable
// module.
type NoMixinFoundError struct {
	Name string
	Pos  token.Position
}

func (e *NoMixinFoundError) Error() string {
	return fmt.Sprintf("could not resolve mixin: %s", e.Name)
}

// RecursiveAncestorError: the superclass/mixin chain revisits a name
// already on the stack.
type RecursiveAncestorError struct {
	Name  string
	Chain []string
	Pos   token.Position
}

func (e *RecursiveAncestorError) Error() string {
	return fmt.Sprintf("recursive ancestor chain detected at %s: %v", e.Name, e.Chain)
}

// RecursiveAliasDefinitionError: an alias refers, directly or transitively,
// to itself.
type RecursiveAliasDefinitionError struct {
	Name string
	Pos  token.Position
}

func (e *RecursiveAliasDefinitionError) Error() string {
	return fmt.Sprintf("recursive alias definition: %s", e.Name)
}

// SuperOverloadMethodDefinitionError: a `super` sentinel remained
// unresolved after folding the ancestor chain.
type SuperOverloadMethodDefinitionError struct {
	Method string
	Owner  string
	Pos    token.Position
}

func (e *SuperOverloadMethodDefinitionError) Error() string {
	return fmt.Sprintf("%s#%s: no super method to inherit overloads from", e.Owner, e.Method)
}

// DuplicatedMethodDefinitionError: a method's overload list contains more
// than one `super` sentinel.
type DuplicatedMethodDefinitionError struct {
	Method string
	Owner  string
	Pos    token.Position
}

func (e *DuplicatedMethodDefinitionError) Error() string {
	return fmt.Sprintf("%s#%s: duplicated super overload", e.Owner, e.Method)
}

// Diagnostic wraps one underlying error with the file it was reported in
// and a short machine-readable code, matching the CLI surface's
// file/line/column/token requirement (spec §4.1, §6).
type Diagnostic struct {
	Code string
	File string
	Pos  token.Position
	Err  error
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%s: [%s] %s", d.File, d.Pos, d.Code, d.Err)
}

// New builds a Diagnostic from a code, token, file and underlying error.
func New(code string, tok token.Token, file string, err error) *Diagnostic {
	return &Diagnostic{Code: code, File: file, Pos: tok.Pos, Err: err}
}

// Bag accumulates diagnostics across a parse, environment build, resolution
// pass, or validator sweep, keyed loosely by nothing in particular — callers
// that need per-declaration grouping keep their own index into the slice.
type Bag struct {
	diags []*Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d *Diagnostic) { b.diags = append(b.diags, d) }

// Addf is a convenience for Add(New(...)).
func (b *Bag) Addf(code string, tok token.Token, file string, err error) {
	b.Add(New(code, tok, file, err))
}

// All returns every diagnostic collected so far, in report order.
func (b *Bag) All() []*Diagnostic { return b.diags }

// Empty reports whether no diagnostics were collected.
func (b *Bag) Empty() bool { return len(b.diags) == 0 }

// Merge appends another bag's diagnostics onto this one.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.diags = append(b.diags, other.diags...)
}
