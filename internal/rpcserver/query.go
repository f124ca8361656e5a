// Package rpcserver exposes the read-only signature queries (spec §6's
// list/ancestors/methods/method/constant/validate CLI commands) over gRPC,
// using a hand-written grpc.ServiceDesc in place of protoc-generated stubs
// — the same shortcut the teacher takes for its own dynamic gRPC surface
// (builtins_grpc.go's manually built ServiceDesc/MethodDesc), here because
// the query surface is small and fixed enough that stub generation buys
// nothing.
package rpcserver

import (
	"fmt"
	"sort"

	"github.com/sigtools/sig/internal/ancestors"
	"github.com/sigtools/sig/internal/cache"
	"github.com/sigtools/sig/internal/definition"
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/pipeline"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigerrors"
)

// Query answers the read-only lookups against one built pipeline context.
type Query struct {
	ctx *pipeline.Context

	diskCache   *cache.Cache
	contentHash string
}

// NewQuery wraps an already-built pipeline context.
func NewQuery(ctx *pipeline.Context) *Query { return &Query{ctx: ctx} }

// WithCache attaches an optional on-disk ancestor-list cache, keyed by
// contentHash (see cache.ContentHash), so repeated Ancestors lookups across
// process invocations over the same sources skip relinearization. Passing a
// nil c disables caching, matching the CLI's --no-cache flag.
func (q *Query) WithCache(c *cache.Cache, contentHash string) *Query {
	q.diskCache = c
	q.contentHash = contentHash
	return q
}

// List returns every declared class, module, interface, and alias name, in
// sorted order.
func (q *Query) List() []string {
	names := make([]string, 0, len(q.ctx.Env.Classes)+len(q.ctx.Env.Interfaces)+len(q.ctx.Env.Aliases))
	for name := range q.ctx.Env.Classes {
		names = append(names, name)
	}
	for name := range q.ctx.Env.Interfaces {
		names = append(names, name)
	}
	for name := range q.ctx.Env.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListKind returns declared names filtered to one declaration kind: "class",
// "module", or "interface". An empty filter behaves like List.
func (q *Query) ListKind(filter string) []string {
	var names []string
	switch filter {
	case "class":
		for name, entry := range q.ctx.Env.Classes {
			if !entry.IsModule() {
				names = append(names, name)
			}
		}
	case "module":
		for name, entry := range q.ctx.Env.Classes {
			if entry.IsModule() {
				names = append(names, name)
			}
		}
	case "interface":
		for name := range q.ctx.Env.Interfaces {
			names = append(names, name)
		}
	default:
		return q.List()
	}
	sort.Strings(names)
	return names
}

// Ancestors returns the linearized ancestor list for name at kind, checking
// the attached disk cache first when one is set via WithCache.
func (q *Query) Ancestors(name string, kind ancestors.Kind) ([]ancestors.Ancestor, error) {
	if q.diskCache != nil {
		if cached, hit, err := q.diskCache.Get(name, kind, q.contentHash); err == nil && hit {
			return cached, nil
		}
	}

	bag := &sigerrors.Bag{}
	list := q.ctx.Ancestors.Build(name, kind, bag)
	if !bag.Empty() {
		return nil, diagErr(bag)
	}

	if q.diskCache != nil {
		// Best-effort: a write failure shouldn't fail the query, the
		// in-process result is still correct and usable.
		_ = q.diskCache.Put(name, kind, q.contentHash, list)
	}
	return list, nil
}

// Methods returns the resolved method names visible on name at kind, sorted.
func (q *Query) Methods(name string, kind ancestors.Kind) ([]string, error) {
	def, err := q.definition(name, kind)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(def.Methods))
	for n := range def.Methods {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Method returns the resolved overload set for one method name on name at
// kind.
func (q *Query) Method(name string, kind ancestors.Kind, methodName string) (*definition.MethodDef, error) {
	def, err := q.definition(name, kind)
	if err != nil {
		return nil, err
	}
	m, ok := def.Methods[methodName]
	if !ok {
		return nil, fmt.Errorf("method %s not found on %s", methodName, name)
	}
	return m, nil
}

func (q *Query) definition(name string, kind ancestors.Kind) (*definition.Definition, error) {
	bag := &sigerrors.Bag{}
	def := q.ctx.Definitions.Build(name, kind, bag)
	if !bag.Empty() {
		return nil, diagErr(bag)
	}
	return def, nil
}

// Constant resolves one constant reference at the root namespace.
func (q *Query) Constant(name namespace.TypeName) (string, sigast.Type, error) {
	bag := &sigerrors.Bag{}
	entry, ok := q.ctx.Constants.Resolve(name, []namespace.Namespace{namespace.Root()}, "", bag)
	if !ok {
		return "", nil, fmt.Errorf("constant %s not found", name.String())
	}
	return entry.Name, entry.Type, nil
}

// Validate returns every diagnostic accumulated while building the
// pipeline context, rendered as strings.
func (q *Query) Validate() []string {
	diags := q.ctx.Diagnostics.All()
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Error()
	}
	return msgs
}

// AST returns every parsed declaration from one file, for the `ast` command
// served remotely; turning them into an astproto tree is left to the caller.
func (q *Query) AST(file string) ([]sigast.Decl, bool) {
	decls, ok := q.ctx.Decls[file]
	return decls, ok
}

func diagErr(bag *sigerrors.Bag) error {
	diags := bag.All()
	if len(diags) == 1 {
		return diags[0]
	}
	return fmt.Errorf("%d diagnostics, first: %v", len(diags), diags[0])
}
