package sigast

import "github.com/sigtools/sig/internal/token"

// Param is one function parameter: an optional name and a required type.
type Param struct {
	Name *string // nil for an unnamed positional parameter
	Type Type
}

// FunctionType is the shape of a single method overload's signature, minus
// the type-parameter list and block spec which live on Overload.
type FunctionType struct {
	Token               token.Token
	RequiredPositionals []Param
	OptionalPositionals []Param
	RestPositional      *Param // nil if absent
	TrailingPositionals []Param
	RequiredKeywords    map[string]Param
	KeywordOrder        []string // declaration order of RequiredKeywords ∪ OptionalKeywords keys
	OptionalKeywords    map[string]Param
	RestKeywords        *Param // nil if absent
	ReturnType          Type
}

func (f *FunctionType) GetToken() token.Token { return f.Token }

// BlockSpec is a proc parameter attached to a method type: `{ (A) -> B }`
// (required) or `?{ (A) -> B }` (optional).
type BlockSpec struct {
	Fn       *FunctionType
	Required bool
}

// TypeParam is one entry in a method or declaration's `[A, B, ...]` list,
// optionally constrained (`A < Comparable`).
type TypeParam struct {
	Name       string
	Constraint Type // nil if unconstrained
}

// Overload is one entry in a method's overload list: either a concrete
// method type (Fn plus type parameters and block) or the `super` sentinel.
type Overload struct {
	Token      token.Token
	IsSuper    bool
	TypeParams []TypeParam // empty unless IsSuper == false
	Block      *BlockSpec  // nil if the overload takes no block
	Fn         *FunctionType
}

func (o *Overload) GetToken() token.Token { return o.Token }
