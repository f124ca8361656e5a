// Package namespace represents the nested dotted namespaces that signature
// declarations live in, and the type names resolved against them.
package namespace

import "strings"

// Namespace is an ordered sequence of path segments, optionally rooted at
// the absolute top (::).
type Namespace struct {
	segments []string
	absolute bool
}

// Root is the empty absolute namespace (::).
func Root() Namespace { return Namespace{absolute: true} }

// Empty is the empty relative namespace.
func Empty() Namespace { return Namespace{} }

// FromAbsolute builds an absolute namespace from dotted segments, e.g.
// FromAbsolute("A", "B") is ::A::B.
func FromAbsolute(segs ...string) Namespace {
	return Namespace{segments: append([]string(nil), segs...), absolute: true}
}

// FromRelative builds a relative namespace from dotted segments.
func FromRelative(segs ...string) Namespace {
	return Namespace{segments: append([]string(nil), segs...), absolute: false}
}

// IsAbsolute reports whether this namespace is rooted at ::.
func (n Namespace) IsAbsolute() bool { return n.absolute }

// Segments returns the path segments, innermost-last.
func (n Namespace) Segments() []string { return append([]string(nil), n.segments...) }

// Empty reports whether the namespace has no segments (root or relative-empty).
func (n Namespace) Empty() bool { return len(n.segments) == 0 }

// Append returns a new namespace with seg appended.
func (n Namespace) Append(seg string) Namespace {
	segs := append(append([]string(nil), n.segments...), seg)
	return Namespace{segments: segs, absolute: n.absolute}
}

// Parent returns the namespace with its last segment removed. Parent of the
// root or of an empty relative namespace is itself.
func (n Namespace) Parent() Namespace {
	if len(n.segments) == 0 {
		return n
	}
	return Namespace{segments: append([]string(nil), n.segments[:len(n.segments)-1]...), absolute: n.absolute}
}

// Absolute rewrites a relative namespace to an absolute one by prefixing the
// given context namespace (which must itself be absolute). If n is already
// absolute it is returned unchanged.
func (n Namespace) Absolute(context Namespace) Namespace {
	if n.absolute {
		return n
	}
	segs := append(append([]string(nil), context.segments...), n.segments...)
	return Namespace{segments: segs, absolute: true}
}

// Ascend yields n, then its parent, up to and including the root, innermost
// first. Used by the resolver and constant table to walk enclosing scopes.
func (n Namespace) Ascend() []Namespace {
	out := make([]Namespace, 0, len(n.segments)+1)
	cur := n
	for {
		out = append(out, cur)
		if len(cur.segments) == 0 {
			break
		}
		cur = cur.Parent()
	}
	return out
}

// Equal reports structural equality.
func (n Namespace) Equal(o Namespace) bool {
	if n.absolute != o.absolute || len(n.segments) != len(o.segments) {
		return false
	}
	for i := range n.segments {
		if n.segments[i] != o.segments[i] {
			return false
		}
	}
	return true
}

// String renders the namespace in signature-file syntax, e.g. "::A::B" or
// "A::B" for a relative one, "::" for root.
func (n Namespace) String() string {
	prefix := ""
	if n.absolute {
		prefix = "::"
	}
	if len(n.segments) == 0 {
		if n.absolute {
			return "::"
		}
		return ""
	}
	return prefix + strings.Join(n.segments, "::")
}

// Kind is the syntactic kind a simple name carries, derived from its surface
// spelling: class-like (initial uppercase), interface (leading underscore +
// uppercase), or alias (all-lowercase).
type Kind int

const (
	KindClassLike Kind = iota
	KindInterface
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindClassLike:
		return "class-like"
	case KindInterface:
		return "interface"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// KindOf derives the syntactic Kind of a bare simple name from its spelling.
func KindOf(simpleName string) Kind {
	if strings.HasPrefix(simpleName, "_") && len(simpleName) > 1 && isUpper(rune(simpleName[1])) {
		return KindInterface
	}
	if len(simpleName) > 0 && isUpper(rune(simpleName[0])) {
		return KindClassLike
	}
	return KindAlias
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// TypeName is a namespace-qualified simple name, e.g. ::A::B::Foo.
type TypeName struct {
	Namespace  Namespace
	SimpleName string
}

// Kind derives the syntactic kind from SimpleName.
func (t TypeName) Kind() Kind { return KindOf(t.SimpleName) }

// IsAbsolute reports whether the TypeName's namespace is absolute.
func (t TypeName) IsAbsolute() bool { return t.Namespace.IsAbsolute() }

// Absolute rewrites a relative TypeName into an absolute one under context.
func (t TypeName) Absolute(context Namespace) TypeName {
	return TypeName{Namespace: t.Namespace.Absolute(context), SimpleName: t.SimpleName}
}

// Equal reports structural equality.
func (t TypeName) Equal(o TypeName) bool {
	return t.Namespace.Equal(o.Namespace) && t.SimpleName == o.SimpleName
}

// String renders "NamespaceString::SimpleName", or just SimpleName when the
// namespace is empty.
func (t TypeName) String() string {
	ns := t.Namespace.String()
	if ns == "" {
		return t.SimpleName
	}
	if ns == "::" {
		return "::" + t.SimpleName
	}
	return ns + "::" + t.SimpleName
}

// TryPrefix returns a new TypeName obtained by prepending ns to t's
// namespace, used by the resolver when trying "ns + T" at each ascent step.
func TryPrefix(ns Namespace, t TypeName) TypeName {
	segs := append(append([]string(nil), ns.Segments()...), t.Namespace.Segments()...)
	return TypeName{Namespace: Namespace{segments: segs, absolute: true}, SimpleName: t.SimpleName}
}
