package sigast

import (
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/token"
)

// Member is one item inside a class/module/interface/extension body.
type Member interface {
	Node
	memberNode()
}

// MethodKind distinguishes where a method def is callable.
type MethodKind int

const (
	MethodInstance          MethodKind = iota // def name: ...
	MethodSingleton                           // def self.name: ...
	MethodSingletonInstance                   // def self?.name: ... (both instance and singleton)
)

// Visibility is the accessibility of a method or synthesized accessor.
type Visibility int

const (
	Public Visibility = iota
	Private
)

// MethodMember is a `def` member: a name and its ordered overload list.
type MethodMember struct {
	Token       token.Token
	Name        string
	Kind        MethodKind
	Overloads   []*Overload
	Annotations []string
	Visibility  Visibility
}

func (m *MethodMember) GetToken() token.Token { return m.Token }
func (m *MethodMember) memberNode()           {}

// MixinKind distinguishes include/extend/prepend.
type MixinKind int

const (
	MixinInclude MixinKind = iota
	MixinExtend
	MixinPrepend
)

// MixinMember is an `include`/`extend`/`prepend` member.
type MixinMember struct {
	Token token.Token
	Kind  MixinKind
	Name  namespace.TypeName
	Args  []Type
}

func (m *MixinMember) GetToken() token.Token { return m.Token }
func (m *MixinMember) memberNode()           {}

// AttrKind distinguishes attr_reader/attr_writer/attr_accessor.
type AttrKind int

const (
	AttrReader AttrKind = iota
	AttrWriter
	AttrAccessor
)

// AttrMember is an `attr_reader`/`attr_writer`/`attr_accessor` member.
// IvarOverride, when non-nil, names the backing instance variable
// explicitly (`attr_reader name(@other): T`); IvarNone is set when `()` was
// written with no name, meaning no backing ivar is synthesized at all.
type AttrMember struct {
	Token        token.Token
	Kind         AttrKind
	Name         string
	Type         Type
	IvarOverride *string
	IvarNone     bool
	Kind_        MethodKind // instance or singleton attribute
	Visibility   Visibility
}

func (m *AttrMember) GetToken() token.Token { return m.Token }
func (m *AttrMember) memberNode()           {}

// IvarMember is an `@name: T` instance variable declaration.
type IvarMember struct {
	Token token.Token
	Name  string // includes the leading '@'
	Type  Type
}

func (m *IvarMember) GetToken() token.Token { return m.Token }
func (m *IvarMember) memberNode()           {}

// ClassIvarMember is a `self.@name: T` class-instance variable declaration.
type ClassIvarMember struct {
	Token token.Token
	Name  string
	Type  Type
}

func (m *ClassIvarMember) GetToken() token.Token { return m.Token }
func (m *ClassIvarMember) memberNode()           {}

// CvarMember is an `@@name: T` class variable declaration.
type CvarMember struct {
	Token token.Token
	Name  string // includes the leading '@@'
	Type  Type
}

func (m *CvarMember) GetToken() token.Token { return m.Token }
func (m *CvarMember) memberNode()           {}

// AliasMember is an `alias new_name old_name` member (or `alias self.new
// self.old` for singleton methods).
type AliasMember struct {
	Token   token.Token
	NewName string
	OldName string
	Kind    MethodKind
}

func (m *AliasMember) GetToken() token.Token { return m.Token }
func (m *AliasMember) memberNode()           {}

// VisibilityMember is a bare `public`/`private` marker that flips the
// active visibility for subsequent method-def members in the fragment.
type VisibilityMember struct {
	Token      token.Token
	Visibility Visibility
}

func (m *VisibilityMember) GetToken() token.Token { return m.Token }
func (m *VisibilityMember) memberNode()           {}

// NestedDecl wraps a nested class/module declaration that appears as a
// member inside another class/module body; it contributes a constant entry
// under the builder's rules (spec §4.5).
type NestedDecl struct {
	Token token.Token
	Decl  Decl
}

func (m *NestedDecl) GetToken() token.Token { return m.Token }
func (m *NestedDecl) memberNode()           {}
