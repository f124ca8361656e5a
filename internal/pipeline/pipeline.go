// Package pipeline runs a signature-file build through its staged
// transformation: parse, index, resolve, validate. It follows the
// teacher's own "ordered stage list, continue past errors" pipeline shape.
package pipeline

import (
	"github.com/sigtools/sig/internal/ancestors"
	"github.com/sigtools/sig/internal/constants"
	"github.com/sigtools/sig/internal/definition"
	"github.com/sigtools/sig/internal/environment"
	"github.com/sigtools/sig/internal/parser"
	"github.com/sigtools/sig/internal/resolver"
	"github.com/sigtools/sig/internal/sigast"
	"github.com/sigtools/sig/internal/sigerrors"
	"github.com/sigtools/sig/internal/validator"
)

// Source is one signature file to fold into a build: its contents and the
// path diagnostics should attribute it to.
type Source struct {
	File string
	Text string
}

// Context carries state between pipeline stages and is returned to the
// caller once every stage has run. Stages continue past errors so a caller
// (the CLI's `validate` command, or an LSP-style embedder) sees every
// diagnostic collected across every file and every stage, not just the
// first failure.
type Context struct {
	Decls       map[string][]sigast.Decl // per-file parse results
	Env         *environment.Environment
	Ancestors   *ancestors.Builder
	Definitions *definition.Builder
	Constants   *constants.Table
	Diagnostics *sigerrors.Bag

	pendingSources []Source
}

// Processor is one named stage of the build.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline is an ordered sequence of stages.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline running processors in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, always continuing to the next stage
// even if the current one added diagnostics.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}

// Default returns the standard parse → index → resolve → validate pipeline
// that Build runs (and so cmd/sig and cmd/sigd through it).
func Default() *Pipeline {
	return New(parseStage{}, indexStage{}, resolveStage{}, validateStage{})
}

// Build runs Default() against sources, starting from an empty Context.
func Build(sources []Source) *Context {
	ctx := &Context{
		Decls:       map[string][]sigast.Decl{},
		Diagnostics: &sigerrors.Bag{},
	}
	for _, src := range sources {
		ctx.pendingSources = append(ctx.pendingSources, src)
	}
	return Default().Run(ctx)
}

type parseStage struct{}

func (parseStage) Process(ctx *Context) *Context {
	for _, src := range ctx.pendingSources {
		decls, bag := parser.Parse(src.Text, src.File)
		ctx.Decls[src.File] = decls
		ctx.Diagnostics.Merge(bag)
	}
	return ctx
}

type indexStage struct{}

func (indexStage) Process(ctx *Context) *Context {
	ctx.Env = environment.New()
	for file, decls := range ctx.Decls {
		ctx.Env.Insert(decls, file, ctx.Diagnostics)
	}
	ctx.Ancestors = ancestors.New(ctx.Env)
	ctx.Definitions = definition.New(ctx.Env, ctx.Ancestors)
	ctx.Constants = constants.New(ctx.Env, ctx.Definitions)
	return ctx
}

type resolveStage struct{}

func (resolveStage) Process(ctx *Context) *Context {
	resolver.New(ctx.Env, ctx.Diagnostics).ResolveEnvironment()
	return ctx
}

type validateStage struct{}

func (validateStage) Process(ctx *Context) *Context {
	validator.New(ctx.Env, ctx.Diagnostics).Run()
	return ctx
}
