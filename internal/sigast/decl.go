package sigast

import (
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/token"
)

// Decl is one top-level declaration variant (spec §3).
type Decl interface {
	Node
	declNode()
	// DeclName is the simple name the declaration binds, used by the
	// environment to index fragments.
	DeclName() string
}

// ClassDecl declares (or, as a fragment, reopens) a class.
type ClassDecl struct {
	Token      token.Token
	Name       namespace.TypeName
	TypeParams []TypeParam
	Super      *SuperSpec // nil for a class with no explicit superclass
	Members    []Member
}

// SuperSpec is the `< Super[args]` clause of a class declaration.
type SuperSpec struct {
	Token token.Token
	Name  namespace.TypeName
	Args  []Type
}

func (d *ClassDecl) GetToken() token.Token { return d.Token }
func (d *ClassDecl) declNode()             {}
func (d *ClassDecl) DeclName() string      { return d.Name.SimpleName }

// ModuleDecl declares (or reopens) a module. SelfTypes is the optional
// `: S1, S2` self-type constraint list.
type ModuleDecl struct {
	Token      token.Token
	Name       namespace.TypeName
	TypeParams []TypeParam
	SelfTypes  []Type
	Members    []Member
}

func (d *ModuleDecl) GetToken() token.Token { return d.Token }
func (d *ModuleDecl) declNode()             {}
func (d *ModuleDecl) DeclName() string      { return d.Name.SimpleName }

// InterfaceDecl declares an interface. Members are restricted by the parser
// to method defs and includes of other interfaces (spec §4.1).
type InterfaceDecl struct {
	Token      token.Token
	Name       namespace.TypeName
	TypeParams []TypeParam
	Members    []Member
}

func (d *InterfaceDecl) GetToken() token.Token { return d.Token }
func (d *InterfaceDecl) declNode()             {}
func (d *InterfaceDecl) DeclName() string      { return d.Name.SimpleName }

// ExtensionDecl reopens an existing class/module under a labeled fragment
// that contributes members without altering inheritance (spec §4.1, §4.4).
type ExtensionDecl struct {
	Token         token.Token
	Name          namespace.TypeName
	TypeParams    []TypeParam
	ExtensionName string
	Members       []Member
}

func (d *ExtensionDecl) GetToken() token.Token { return d.Token }
func (d *ExtensionDecl) declNode()             {}
func (d *ExtensionDecl) DeclName() string      { return d.Name.SimpleName }

// ConstantDecl declares a typed constant: `NAME: T`.
type ConstantDecl struct {
	Token token.Token
	Name  namespace.TypeName
	Type  Type
}

func (d *ConstantDecl) GetToken() token.Token { return d.Token }
func (d *ConstantDecl) declNode()             {}
func (d *ConstantDecl) DeclName() string      { return d.Name.SimpleName }

// GlobalDecl declares a typed global: `$name: T`.
type GlobalDecl struct {
	Token token.Token
	Name  string
	Type  Type
}

func (d *GlobalDecl) GetToken() token.Token { return d.Token }
func (d *GlobalDecl) declNode()             {}
func (d *GlobalDecl) DeclName() string      { return d.Name }

// AliasDecl declares a type alias: `type name = T`.
type AliasDecl struct {
	Token token.Token
	Name  namespace.TypeName
	Type  Type
}

func (d *AliasDecl) GetToken() token.Token { return d.Token }
func (d *AliasDecl) declNode()             {}
func (d *AliasDecl) DeclName() string      { return d.Name.SimpleName }
