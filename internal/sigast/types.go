// Package sigast defines the immutable AST the signature parser produces:
// type expressions, function/method types, class/module/interface members,
// and top-level declarations (spec §3).
package sigast

import (
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/token"
)

// Node is the base interface every AST node satisfies.
type Node interface {
	GetToken() token.Token
}

// Type is the sum type of type expressions. Concrete variants implement
// typeNode() as a marker and Accept for visitor-style traversal (the
// resolver, validator and writer all walk Type trees).
type Type interface {
	Node
	typeNode()
	Accept(v TypeVisitor)
}

// TypeVisitor dispatches over every Type variant. It is a plain interface
// with no default implementation to embed, so every implementation handles
// the full set of variants.
type TypeVisitor interface {
	VisitBase(*BaseType)
	VisitLiteral(*LiteralType)
	VisitVariable(*VariableType)
	VisitClassInstance(*ClassInstanceType)
	VisitClassSingleton(*ClassSingletonType)
	VisitInterface(*InterfaceType)
	VisitAlias(*AliasType)
	VisitUnion(*UnionType)
	VisitIntersection(*IntersectionType)
	VisitOptional(*OptionalType)
	VisitTuple(*TupleType)
	VisitRecord(*RecordType)
	VisitProc(*ProcType)
}

// Base enumerates the nullary built-in base types.
type Base int

const (
	BaseAny Base = iota
	BaseVoid
	BaseBool
	BaseSelf
	BaseInstance
	BaseClass
	BaseNil
	BaseTop
	BaseBot
)

func (b Base) String() string {
	switch b {
	case BaseAny:
		return "any"
	case BaseVoid:
		return "void"
	case BaseBool:
		return "bool"
	case BaseSelf:
		return "self"
	case BaseInstance:
		return "instance"
	case BaseClass:
		return "class"
	case BaseNil:
		return "nil"
	case BaseTop:
		return "top"
	case BaseBot:
		return "bot"
	default:
		return "?base"
	}
}

// BaseType is one of the nullary built-in bases.
type BaseType struct {
	Token token.Token
	Base  Base
}

func (t *BaseType) GetToken() token.Token { return t.Token }
func (t *BaseType) typeNode()             {}
func (t *BaseType) Accept(v TypeVisitor)  { v.VisitBase(t) }

// LiteralKind tags which Go type LiteralType.Value holds.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralSymbol
	LiteralInteger
	LiteralBool
)

// LiteralType is a singleton literal type, e.g. "ok", :ok, 1, true.
type LiteralType struct {
	Token token.Token
	Kind  LiteralKind
	Value interface{}
}

func (t *LiteralType) GetToken() token.Token { return t.Token }
func (t *LiteralType) typeNode()             {}
func (t *LiteralType) Accept(v TypeVisitor)  { v.VisitLiteral(t) }

// VariableType is an occurrence of a type-parameter variable, e.g. A.
type VariableType struct {
	Token token.Token
	Name  string
}

func (t *VariableType) GetToken() token.Token { return t.Token }
func (t *VariableType) typeNode()             {}
func (t *VariableType) Accept(v TypeVisitor)  { v.VisitVariable(t) }

// ClassInstanceType is an applied generic class/module type, e.g. Array[Int].
type ClassInstanceType struct {
	Token token.Token
	Name  namespace.TypeName
	Args  []Type
}

func (t *ClassInstanceType) GetToken() token.Token { return t.Token }
func (t *ClassInstanceType) typeNode()             {}
func (t *ClassInstanceType) Accept(v TypeVisitor)  { v.VisitClassInstance(t) }

// ClassSingletonType is the singleton type of a class, e.g. singleton(Foo).
type ClassSingletonType struct {
	Token token.Token
	Name  namespace.TypeName
}

func (t *ClassSingletonType) GetToken() token.Token { return t.Token }
func (t *ClassSingletonType) typeNode()             {}
func (t *ClassSingletonType) Accept(v TypeVisitor)  { v.VisitClassSingleton(t) }

// InterfaceType is an applied interface type, e.g. _Each[Int].
type InterfaceType struct {
	Token token.Token
	Name  namespace.TypeName
	Args  []Type
}

func (t *InterfaceType) GetToken() token.Token { return t.Token }
func (t *InterfaceType) typeNode()             {}
func (t *InterfaceType) Accept(v TypeVisitor)  { v.VisitInterface(t) }

// AliasType is a reference to a `type name = ...` alias, resolved lazily.
type AliasType struct {
	Token token.Token
	Name  namespace.TypeName
}

func (t *AliasType) GetToken() token.Token { return t.Token }
func (t *AliasType) typeNode()             {}
func (t *AliasType) Accept(v TypeVisitor)  { v.VisitAlias(t) }

// UnionType is `A | B | ...`.
type UnionType struct {
	Token token.Token
	Types []Type
}

func (t *UnionType) GetToken() token.Token { return t.Token }
func (t *UnionType) typeNode()             {}
func (t *UnionType) Accept(v TypeVisitor)  { v.VisitUnion(t) }

// IntersectionType is `A & B & ...`.
type IntersectionType struct {
	Token token.Token
	Types []Type
}

func (t *IntersectionType) GetToken() token.Token { return t.Token }
func (t *IntersectionType) typeNode()             {}
func (t *IntersectionType) Accept(v TypeVisitor)  { v.VisitIntersection(t) }

// OptionalType is `T?`.
type OptionalType struct {
	Token token.Token
	Elem  Type
}

func (t *OptionalType) GetToken() token.Token { return t.Token }
func (t *OptionalType) typeNode()             {}
func (t *OptionalType) Accept(v TypeVisitor)  { v.VisitOptional(t) }

// TupleType is `(A, B, ...)`.
type TupleType struct {
	Token token.Token
	Elems []Type
}

func (t *TupleType) GetToken() token.Token { return t.Token }
func (t *TupleType) typeNode()             {}
func (t *TupleType) Accept(v TypeVisitor)  { v.VisitTuple(t) }

// RecordType is `{ name: T, ... }`. Field order is preserved separately in
// Order since Go maps don't iterate deterministically.
type RecordType struct {
	Token  token.Token
	Fields map[string]Type
	Order  []string
}

func (t *RecordType) GetToken() token.Token { return t.Token }
func (t *RecordType) typeNode()             {}
func (t *RecordType) Accept(v TypeVisitor)  { v.VisitRecord(t) }

// ProcType is a first-class proc/lambda type: `^(T) -> R`.
type ProcType struct {
	Token token.Token
	Fn    *FunctionType
}

func (t *ProcType) GetToken() token.Token { return t.Token }
func (t *ProcType) typeNode()             {}
func (t *ProcType) Accept(v TypeVisitor)  { v.VisitProc(t) }
