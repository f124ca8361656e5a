// Package sigwriter renders a parsed declaration tree back to signature-file
// source text. It never infers or reformats types — it just prints what the
// AST already holds so write(parse(text)) round-trips (spec §8.1).
package sigwriter

import (
	"bytes"
	"fmt"

	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/sigast"
)

// Printer writes a sequence of declarations to an internal buffer, tracking
// indent the way the teacher's own code printer does.
type Printer struct {
	buf    bytes.Buffer
	indent int
}

// New creates an empty Printer.
func New() *Printer { return &Printer{} }

// WriteDecls prints every declaration in order, one blank line apart.
func WriteDecls(decls []sigast.Decl) string {
	p := New()
	for i, d := range decls {
		if i > 0 {
			p.buf.WriteString("\n")
		}
		p.writeDecl(d)
	}
	return p.buf.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *Printer) line(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteString("\n")
}

func (p *Printer) writeDecl(d sigast.Decl) {
	switch dd := d.(type) {
	case *sigast.ClassDecl:
		p.writeClassDecl(dd)
	case *sigast.ModuleDecl:
		p.writeModuleDecl(dd)
	case *sigast.InterfaceDecl:
		p.writeInterfaceDecl(dd)
	case *sigast.ExtensionDecl:
		p.writeExtensionDecl(dd)
	case *sigast.ConstantDecl:
		p.line("%s: %s", dd.Name.String(), renderType(dd.Type))
	case *sigast.GlobalDecl:
		p.line("$%s: %s", dd.Name, renderType(dd.Type))
	case *sigast.AliasDecl:
		p.line("type %s = %s", dd.Name.String(), renderType(dd.Type))
	default:
		p.line("<?decl?>")
	}
}

func (p *Printer) writeClassDecl(d *sigast.ClassDecl) {
	header := "class " + d.Name.String() + renderTypeParams(d.TypeParams)
	if d.Super != nil {
		header += " < " + d.Super.Name.String() + renderTypeArgs(d.Super.Args)
	}
	p.line("%s", header)
	p.indent++
	p.writeMembers(d.Members)
	p.indent--
	p.line("end")
}

func (p *Printer) writeModuleDecl(d *sigast.ModuleDecl) {
	header := "module " + d.Name.String() + renderTypeParams(d.TypeParams)
	if len(d.SelfTypes) > 0 {
		parts := make([]string, len(d.SelfTypes))
		for i, st := range d.SelfTypes {
			parts[i] = renderType(st)
		}
		header += " : " + joinComma(parts)
	}
	p.line("%s", header)
	p.indent++
	p.writeMembers(d.Members)
	p.indent--
	p.line("end")
}

func (p *Printer) writeInterfaceDecl(d *sigast.InterfaceDecl) {
	p.line("interface %s%s", d.Name.String(), renderTypeParams(d.TypeParams))
	p.indent++
	p.writeMembers(d.Members)
	p.indent--
	p.line("end")
}

func (p *Printer) writeExtensionDecl(d *sigast.ExtensionDecl) {
	p.line("extension %s%s (%s)", d.Name.String(), renderTypeParams(d.TypeParams), d.ExtensionName)
	p.indent++
	p.writeMembers(d.Members)
	p.indent--
	p.line("end")
}

func (p *Printer) writeMembers(members []sigast.Member) {
	for _, m := range members {
		p.writeMember(m)
	}
}

func (p *Printer) writeMember(m sigast.Member) {
	switch mm := m.(type) {
	case *sigast.MethodMember:
		p.writeMethodMember(mm)
	case *sigast.MixinMember:
		p.line("%s %s%s", mixinKeyword(mm.Kind), mm.Name.String(), renderTypeArgs(mm.Args))
	case *sigast.AttrMember:
		p.writeAttrMember(mm)
	case *sigast.IvarMember:
		p.line("%s: %s", mm.Name, renderType(mm.Type))
	case *sigast.ClassIvarMember:
		p.line("self.%s: %s", mm.Name, renderType(mm.Type))
	case *sigast.CvarMember:
		p.line("%s: %s", mm.Name, renderType(mm.Type))
	case *sigast.AliasMember:
		if mm.Kind == sigast.MethodSingleton {
			p.line("alias self.%s self.%s", mm.NewName, mm.OldName)
		} else {
			p.line("alias %s %s", mm.NewName, mm.OldName)
		}
	case *sigast.VisibilityMember:
		if mm.Visibility == sigast.Private {
			p.line("private")
		} else {
			p.line("public")
		}
	case *sigast.NestedDecl:
		p.writeDecl(mm.Decl)
	default:
		p.line("<?member?>")
	}
}

func (p *Printer) writeMethodMember(mm *sigast.MethodMember) {
	prefix := "def "
	switch mm.Kind {
	case sigast.MethodSingleton:
		prefix = "def self."
	case sigast.MethodSingletonInstance:
		prefix = "def self?."
	}
	parts := make([]string, len(mm.Overloads))
	for i, ov := range mm.Overloads {
		parts[i] = renderOverload(ov)
	}
	p.line("%s%s: %s", prefix, mm.Name, joinPipe(parts))
}

func (p *Printer) writeAttrMember(am *sigast.AttrMember) {
	kw := "attr_reader"
	switch am.Kind {
	case sigast.AttrWriter:
		kw = "attr_writer"
	case sigast.AttrAccessor:
		kw = "attr_accessor"
	}
	prefix := ""
	if am.Kind_ == sigast.MethodSingleton {
		prefix = "self."
	}
	ivar := ""
	if am.IvarNone {
		ivar = "()"
	} else if am.IvarOverride != nil {
		ivar = "(" + *am.IvarOverride + ")"
	}
	p.line("%s %s%s%s: %s", kw, prefix, am.Name, ivar, renderType(am.Type))
}

func mixinKeyword(k sigast.MixinKind) string {
	switch k {
	case sigast.MixinExtend:
		return "extend"
	case sigast.MixinPrepend:
		return "prepend"
	default:
		return "include"
	}
}

func renderOverload(ov *sigast.Overload) string {
	if ov.IsSuper {
		return "super"
	}
	out := renderTypeParams(ov.TypeParams)
	out += "(" + renderParamList(ov.Fn) + ")"
	if ov.Block != nil {
		q := ""
		if !ov.Block.Required {
			q = "?"
		}
		out += " " + q + "{ " + renderFunctionSignature(ov.Block.Fn) + " }"
	}
	out += " -> " + renderType(ov.Fn.ReturnType)
	return out
}

func renderParamList(ft *sigast.FunctionType) string {
	var parts []string
	for _, p := range ft.RequiredPositionals {
		parts = append(parts, renderParam(p))
	}
	for _, p := range ft.OptionalPositionals {
		parts = append(parts, "?"+renderParam(p))
	}
	if ft.RestPositional != nil {
		parts = append(parts, "*"+renderParam(*ft.RestPositional))
	}
	for _, p := range ft.TrailingPositionals {
		parts = append(parts, renderParam(p))
	}
	for _, name := range ft.KeywordOrder {
		if param, ok := ft.RequiredKeywords[name]; ok {
			parts = append(parts, name+": "+renderType(param.Type))
			continue
		}
		if param, ok := ft.OptionalKeywords[name]; ok {
			parts = append(parts, "?"+name+": "+renderType(param.Type))
		}
	}
	if ft.RestKeywords != nil {
		parts = append(parts, "**"+renderParam(*ft.RestKeywords))
	}
	return joinComma(parts)
}

func renderParam(p sigast.Param) string {
	if p.Name != nil {
		return *p.Name + ": " + renderType(p.Type)
	}
	return renderType(p.Type)
}

func renderFunctionSignature(ft *sigast.FunctionType) string {
	return "(" + renderParamList(ft) + ") -> " + renderType(ft.ReturnType)
}

func renderTypeParams(tps []sigast.TypeParam) string {
	if len(tps) == 0 {
		return ""
	}
	parts := make([]string, len(tps))
	for i, tp := range tps {
		s := tp.Name
		if tp.Constraint != nil {
			s += " < " + renderType(tp.Constraint)
		}
		parts[i] = s
	}
	return "[" + joinComma(parts) + "]"
}

func renderTypeArgs(args []sigast.Type) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = renderType(a)
	}
	return "[" + joinComma(parts) + "]"
}

func joinComma(parts []string) string { return join(parts, ", ") }
func joinPipe(parts []string) string  { return join(parts, " | ") }

func join(parts []string, sep string) string {
	out := ""
	for i, s := range parts {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}

// renderVisitor renders a Type tree to its surface syntax.
type renderVisitor struct {
	out string
}

func renderType(t sigast.Type) string {
	if t == nil {
		return "<?type?>"
	}
	v := &renderVisitor{}
	t.Accept(v)
	return v.out
}

func (v *renderVisitor) VisitBase(t *sigast.BaseType) { v.out = t.Base.String() }

func (v *renderVisitor) VisitLiteral(t *sigast.LiteralType) {
	switch t.Kind {
	case sigast.LiteralString:
		v.out = fmt.Sprintf("%q", t.Value)
	case sigast.LiteralSymbol:
		v.out = fmt.Sprintf(":%v", t.Value)
	default:
		v.out = fmt.Sprintf("%v", t.Value)
	}
}

func (v *renderVisitor) VisitVariable(t *sigast.VariableType) { v.out = t.Name }

func (v *renderVisitor) VisitClassInstance(t *sigast.ClassInstanceType) {
	v.out = renderName(t.Name) + renderTypeArgs(t.Args)
}

func (v *renderVisitor) VisitClassSingleton(t *sigast.ClassSingletonType) {
	v.out = "singleton(" + renderName(t.Name) + ")"
}

func (v *renderVisitor) VisitInterface(t *sigast.InterfaceType) {
	v.out = renderName(t.Name) + renderTypeArgs(t.Args)
}

func (v *renderVisitor) VisitAlias(t *sigast.AliasType) { v.out = renderName(t.Name) }

func (v *renderVisitor) VisitUnion(t *sigast.UnionType) {
	v.out = joinPipe(renderAll(t.Types))
}

func (v *renderVisitor) VisitIntersection(t *sigast.IntersectionType) {
	v.out = join(renderAll(t.Types), " & ")
}

func (v *renderVisitor) VisitOptional(t *sigast.OptionalType) {
	v.out = renderType(t.Elem) + "?"
}

func (v *renderVisitor) VisitTuple(t *sigast.TupleType) {
	v.out = "(" + joinComma(renderAll(t.Elems)) + ")"
}

func (v *renderVisitor) VisitRecord(t *sigast.RecordType) {
	parts := make([]string, 0, len(t.Order))
	for _, name := range t.Order {
		parts = append(parts, name+": "+renderType(t.Fields[name]))
	}
	v.out = "{ " + joinComma(parts) + " }"
}

func (v *renderVisitor) VisitProc(t *sigast.ProcType) {
	v.out = "^" + renderFunctionSignature(t.Fn)
}

func renderAll(types []sigast.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = renderType(t)
	}
	return out
}

func renderName(n namespace.TypeName) string { return n.String() }
