// Package astproto turns a parsed declaration tree into a structpb.Struct
// tree for the `ast` CLI command (spec §6). An embedded .proto schema
// describing that shape is parsed at init, which checks the schema itself is
// well-formed; the emitted trees are not checked against it (spec.md calls JSON
// serialization of the AST out of core scope for an external collaborator
// to own; SPEC_FULL.md gives that collaborator a concrete home here).
package astproto

import (
	_ "embed"
	"fmt"

	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/token"
)

//go:embed schema.proto
var schemaSource string

func init() {
	accessor := protoparse.FileContentsFromMap(map[string]string{"schema.proto": schemaSource})
	p := protoparse.Parser{Accessor: accessor}
	if _, err := p.ParseFiles("schema.proto"); err != nil {
		panic(fmt.Sprintf("astproto: embedded schema.proto failed to parse: %v", err))
	}
}

// EncodeDecls renders every declaration as a structpb.Struct conforming to
// the embedded AstNode schema.
func EncodeDecls(decls []sigast.Decl) *structpb.Struct {
	nodes := make([]*structpb.Value, len(decls))
	for i, d := range decls {
		nodes[i] = structVal(encodeDecl(d))
	}
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"declarations": structpb.NewListValue(&structpb.ListValue{Values: nodes}),
		},
	}
}

func node(kind, name string, tok token.Token) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"kind":  structpb.NewStringValue(kind),
		"name":  structpb.NewStringValue(name),
		"token": structpb.NewStringValue(tok.Pos.String()),
	}}
}

func structVal(s *structpb.Struct) *structpb.Value { return structpb.NewStructValue(s) }

func setChildren(n *structpb.Struct, children []*structpb.Struct) {
	vals := make([]*structpb.Value, len(children))
	for i, c := range children {
		vals[i] = structVal(c)
	}
	n.Fields["children"] = structpb.NewListValue(&structpb.ListValue{Values: vals})
}

func setField(n *structpb.Struct, key string, child *structpb.Struct) {
	if n.Fields["fields"] == nil {
		n.Fields["fields"] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{}})
	}
	n.Fields["fields"].GetStructValue().Fields[key] = structVal(child)
}

func encodeDecl(d sigast.Decl) *structpb.Struct {
	switch dd := d.(type) {
	case *sigast.ClassDecl:
		n := node("ClassDecl", dd.Name.String(), dd.Token)
		if dd.Super != nil {
			setField(n, "super", node("SuperSpec", dd.Super.Name.String(), dd.Super.Token))
		}
		setChildren(n, encodeMembers(dd.Members))
		return n
	case *sigast.ModuleDecl:
		n := node("ModuleDecl", dd.Name.String(), dd.Token)
		setChildren(n, encodeMembers(dd.Members))
		return n
	case *sigast.InterfaceDecl:
		n := node("InterfaceDecl", dd.Name.String(), dd.Token)
		setChildren(n, encodeMembers(dd.Members))
		return n
	case *sigast.ExtensionDecl:
		n := node("ExtensionDecl", dd.Name.String(), dd.Token)
		setChildren(n, encodeMembers(dd.Members))
		return n
	case *sigast.ConstantDecl:
		n := node("ConstantDecl", dd.Name.String(), dd.Token)
		setField(n, "type", encodeType(dd.Type))
		return n
	case *sigast.GlobalDecl:
		n := node("GlobalDecl", dd.Name, dd.Token)
		setField(n, "type", encodeType(dd.Type))
		return n
	case *sigast.AliasDecl:
		n := node("AliasDecl", dd.Name.String(), dd.Token)
		setField(n, "type", encodeType(dd.Type))
		return n
	default:
		return node("UnknownDecl", "", token.Token{})
	}
}

func encodeMembers(members []sigast.Member) []*structpb.Struct {
	out := make([]*structpb.Struct, len(members))
	for i, m := range members {
		out[i] = encodeMember(m)
	}
	return out
}

func encodeMember(m sigast.Member) *structpb.Struct {
	switch mm := m.(type) {
	case *sigast.MethodMember:
		n := node("MethodMember", mm.Name, mm.Token)
		children := make([]*structpb.Struct, len(mm.Overloads))
		for i, ov := range mm.Overloads {
			if ov.IsSuper {
				children[i] = node("SuperOverload", "", ov.Token)
				continue
			}
			on := node("Overload", "", ov.Token)
			setField(on, "return", encodeType(ov.Fn.ReturnType))
			children[i] = on
		}
		setChildren(n, children)
		return n
	case *sigast.MixinMember:
		return node("MixinMember", mm.Name.String(), mm.Token)
	case *sigast.AttrMember:
		n := node("AttrMember", mm.Name, mm.Token)
		setField(n, "type", encodeType(mm.Type))
		return n
	case *sigast.IvarMember:
		n := node("IvarMember", mm.Name, mm.Token)
		setField(n, "type", encodeType(mm.Type))
		return n
	case *sigast.ClassIvarMember:
		n := node("ClassIvarMember", mm.Name, mm.Token)
		setField(n, "type", encodeType(mm.Type))
		return n
	case *sigast.CvarMember:
		n := node("CvarMember", mm.Name, mm.Token)
		setField(n, "type", encodeType(mm.Type))
		return n
	case *sigast.AliasMember:
		return node("AliasMember", mm.NewName, mm.Token)
	case *sigast.VisibilityMember:
		return node("VisibilityMember", "", mm.Token)
	case *sigast.NestedDecl:
		return encodeDecl(mm.Decl)
	default:
		return node("UnknownMember", "", token.Token{})
	}
}

// EncodeType renders a single type expression as a structpb.Struct, for
// callers (such as internal/rpcserver's constant query) that only need one
// type rather than a full declaration tree.
func EncodeType(t sigast.Type) *structpb.Struct {
	return encodeType(t)
}

func encodeType(t sigast.Type) *structpb.Struct {
	if t == nil {
		return node("NilType", "", token.Token{})
	}
	switch tt := t.(type) {
	case *sigast.BaseType:
		return node("BaseType", tt.Base.String(), tt.Token)
	case *sigast.LiteralType:
		return node("LiteralType", fmt.Sprintf("%v", tt.Value), tt.Token)
	case *sigast.VariableType:
		return node("VariableType", tt.Name, tt.Token)
	case *sigast.ClassInstanceType:
		n := node("ClassInstanceType", nameOf(tt.Name), tt.Token)
		setChildren(n, encodeTypes(tt.Args))
		return n
	case *sigast.ClassSingletonType:
		return node("ClassSingletonType", nameOf(tt.Name), tt.Token)
	case *sigast.InterfaceType:
		n := node("InterfaceType", nameOf(tt.Name), tt.Token)
		setChildren(n, encodeTypes(tt.Args))
		return n
	case *sigast.AliasType:
		return node("AliasType", nameOf(tt.Name), tt.Token)
	case *sigast.UnionType:
		n := node("UnionType", "", tt.Token)
		setChildren(n, encodeTypes(tt.Types))
		return n
	case *sigast.IntersectionType:
		n := node("IntersectionType", "", tt.Token)
		setChildren(n, encodeTypes(tt.Types))
		return n
	case *sigast.OptionalType:
		n := node("OptionalType", "", tt.Token)
		setChildren(n, []*structpb.Struct{encodeType(tt.Elem)})
		return n
	case *sigast.TupleType:
		n := node("TupleType", "", tt.Token)
		setChildren(n, encodeTypes(tt.Elems))
		return n
	case *sigast.RecordType:
		n := node("RecordType", "", tt.Token)
		for _, name := range tt.Order {
			setField(n, name, encodeType(tt.Fields[name]))
		}
		return n
	case *sigast.ProcType:
		n := node("ProcType", "", tt.Token)
		setField(n, "return", encodeType(tt.Fn.ReturnType))
		return n
	default:
		return node("UnknownType", "", token.Token{})
	}
}

func encodeTypes(types []sigast.Type) []*structpb.Struct {
	out := make([]*structpb.Struct, len(types))
	for i, t := range types {
		out[i] = encodeType(t)
	}
	return out
}

func nameOf(n namespace.TypeName) string { return n.String() }
