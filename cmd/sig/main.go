// Command sig is the signature-toolchain CLI: it loads a signature
// environment from a manifest, the builtin core library, and extra search
// paths, then answers the read-only queries spec'd for the command line —
// list, ancestors, methods, method, constant, validate, paths, parse, ast,
// and version. Like the teacher's own cmd/funxy/main.go, there is no flag
// framework: os.Args is walked by hand.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"

	"github.com/sigtools/sig/internal/ancestors"
	"github.com/sigtools/sig/internal/astproto"
	"github.com/sigtools/sig/internal/cache"
	"github.com/sigtools/sig/internal/cliterm"
	"github.com/sigtools/sig/internal/config"
	"github.com/sigtools/sig/internal/loader"
	"github.com/sigtools/sig/internal/namespace"
	"github.com/sigtools/sig/internal/pipeline"
	"github.com/sigtools/sig/internal/rpcserver"
)

type globalOptions struct {
	libraries []config.LibraryRef
	paths     []string
	noStdlib  bool
	noCache   bool
	logLevel  string
	logOutput string
}

// parseGlobalOptions pulls the global `-r LIBRARY`, `-I DIR`, `--no-stdlib`,
// `--log-level`, `--log-output` flags out of args wherever they appear,
// leaving the subcommand and its own arguments in order.
func parseGlobalOptions(args []string) (*globalOptions, []string) {
	opts := &globalOptions{}
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-r":
			i++
			if i >= len(args) {
				fail("-r requires a LIBRARY argument")
			}
			opts.libraries = append(opts.libraries, parseLibraryRef(args[i]))
		case "-I":
			i++
			if i >= len(args) {
				fail("-I requires a DIR argument")
			}
			opts.paths = append(opts.paths, args[i])
		case "--no-stdlib":
			opts.noStdlib = true
		case "--no-cache":
			opts.noCache = true
		case "--log-level":
			i++
			if i >= len(args) {
				fail("--log-level requires a value")
			}
			opts.logLevel = args[i]
		case "--log-output":
			i++
			if i >= len(args) {
				fail("--log-output requires a path")
			}
			opts.logOutput = args[i]
		default:
			rest = append(rest, args[i])
		}
	}
	return opts, rest
}

func parseLibraryRef(spec string) config.LibraryRef {
	if name, version, ok := strings.Cut(spec, ":"); ok {
		return config.LibraryRef{Name: name, Version: version}
	}
	return config.LibraryRef{Name: spec}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "sig: "+format+"\n", args...)
	os.Exit(1)
}

func setupLogger(opts *globalOptions) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(opts.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	var out io.Writer = os.Stderr
	if opts.logOutput != "" {
		f, err := os.OpenFile(opts.logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fail("cannot open --log-output %s: %v", opts.logOutput, err)
		}
		out = f
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// buildQuery loads every source reachable from opts (builtin core library,
// `-r` libraries, `-I` search paths, manifest paths) and runs the pipeline
// over them, returning a ready Query plus the built context's diagnostics.
func buildQuery(log *slog.Logger, opts *globalOptions, extraFiles []string) (*rpcserver.Query, *pipeline.Context) {
	libraryPath := os.Getenv("SIG_LIBRARY_PATH")
	if libraryPath == "" {
		libraryPath = "/usr/local/share/sig/libraries"
	}
	ld := loader.New(libraryPath)
	if opts.noStdlib {
		ld.NoBuiltin()
	} else {
		ld.Add(config.LibraryRef{Name: config.BuiltinLibraryName})
	}
	for _, lib := range opts.libraries {
		ld.Add(lib)
	}
	for _, dir := range opts.paths {
		ld.AddPath(dir)
	}

	if manifestPath, err := config.FindManifest("."); err == nil {
		if m, err := config.LoadManifest(manifestPath); err == nil {
			ld.FromManifest(m)
			log.Debug("loaded manifest", "path", manifestPath)
		}
	}

	found, err := ld.Load(context.Background())
	if err != nil {
		fail("loading sources: %v", err)
	}

	var sources []pipeline.Source
	contents := make(map[string][]byte)
	for dir, files := range found {
		for _, f := range files {
			path := dir + "/" + f.SubPath
			sources = append(sources, pipeline.Source{File: path, Text: string(f.Bytes)})
			contents[path] = f.Bytes
		}
	}
	for _, path := range extraFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			fail("reading %s: %v", path, err)
		}
		sources = append(sources, pipeline.Source{File: path, Text: string(data)})
		contents[path] = data
	}

	ctx := pipeline.Build(sources)
	q := rpcserver.NewQuery(ctx)
	if !opts.noCache {
		path := cachePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Warn("ancestor cache disabled", "error", err)
		} else if c, err := cache.Open(path); err != nil {
			log.Warn("ancestor cache disabled", "error", err)
		} else {
			q.WithCache(c, cache.ContentHash(contents))
		}
	}
	return q, ctx
}

// cachePath returns the on-disk location of the ancestor-list cache,
// overridable with SIG_CACHE_PATH the same way SIG_LIBRARY_PATH overrides
// the library search root.
func cachePath() string {
	if p := os.Getenv("SIG_CACHE_PATH"); p != "" {
		return p
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "sig", "ancestors.db")
}

func normalizeAbsoluteName(s string) string {
	if strings.HasPrefix(s, "::") {
		return s
	}
	return "::" + s
}

func parseTypeName(s string) namespace.TypeName {
	trimmed := strings.TrimPrefix(s, "::")
	segs := strings.Split(trimmed, "::")
	simple := segs[len(segs)-1]
	ns := namespace.FromAbsolute(segs[:len(segs)-1]...)
	return namespace.TypeName{Namespace: ns, SimpleName: simple}
}

func kindFlag(args []string) (ancestors.Kind, []string) {
	var rest []string
	kind := ancestors.Instance
	for _, a := range args {
		switch a {
		case "--instance":
			kind = ancestors.Instance
		case "--singleton":
			kind = ancestors.Singleton
		default:
			rest = append(rest, a)
		}
	}
	return kind, rest
}

func main() {
	args := os.Args[1:]
	opts, args := parseGlobalOptions(args)
	log := setupLogger(opts)

	if len(args) == 0 {
		fail("missing command (list, ancestors, methods, method, constant, validate, paths, parse, ast, version)")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "version":
		fmt.Println(config.Version)
	case "list":
		filter := ""
		for _, a := range args {
			switch a {
			case "--class":
				filter = "class"
			case "--module":
				filter = "module"
			case "--interface":
				filter = "interface"
			}
		}
		q, _ := buildQuery(log, opts, nil)
		for _, name := range q.ListKind(filter) {
			fmt.Println(name)
		}
	case "ancestors":
		kind, args := kindFlag(args)
		if len(args) != 1 {
			fail("ancestors expects exactly one TypeName argument")
		}
		q, ctx := buildQuery(log, opts, nil)
		list, err := q.Ancestors(normalizeAbsoluteName(args[0]), kind)
		if err != nil {
			printDiagnostics(log, ctx)
			fail("%v", err)
		}
		for _, a := range list {
			fmt.Println(a.Name)
		}
	case "methods":
		kind, args := kindFlag(args)
		if len(args) != 1 {
			fail("methods expects exactly one TypeName argument")
		}
		q, ctx := buildQuery(log, opts, nil)
		names, err := q.Methods(normalizeAbsoluteName(args[0]), kind)
		if err != nil {
			printDiagnostics(log, ctx)
			fail("%v", err)
		}
		for _, n := range names {
			fmt.Println(n)
		}
	case "method":
		kind, args := kindFlag(args)
		if len(args) != 2 {
			fail("method expects TypeName and MethodName arguments")
		}
		q, ctx := buildQuery(log, opts, nil)
		m, err := q.Method(normalizeAbsoluteName(args[0]), kind, args[1])
		if err != nil {
			printDiagnostics(log, ctx)
			fail("%v", err)
		}
		fmt.Printf("%s (defined in %s, implemented in %s, %d overload(s))\n",
			m.Name, m.DefinedIn, m.ImplementedIn, len(m.Overloads))
	case "constant":
		if len(args) != 1 {
			fail("constant expects exactly one Name argument")
		}
		q, ctx := buildQuery(log, opts, nil)
		name, _, err := q.Constant(parseTypeName(args[0]))
		if err != nil {
			printDiagnostics(log, ctx)
			fail("%v", err)
		}
		fmt.Println(name)
	case "validate":
		_, ctx := buildQuery(log, opts, nil)
		printer := cliterm.New(os.Stdout)
		printer.Diagnostics(ctx.Diagnostics)
		if !ctx.Diagnostics.Empty() {
			os.Exit(1)
		}
	case "paths":
		for _, p := range opts.paths {
			fmt.Println(p)
		}
	case "parse":
		if len(args) == 0 {
			fail("parse expects at least one FILE argument")
		}
		_, ctx := buildQuery(log, opts, args)
		printer := cliterm.New(os.Stdout)
		printer.Diagnostics(ctx.Diagnostics)
		if !ctx.Diagnostics.Empty() {
			os.Exit(1)
		}
	case "ast":
		q, ctx := buildQuery(log, opts, args)
		files := args
		if len(files) == 0 {
			for file := range ctx.Decls {
				files = append(files, file)
			}
		}
		for _, file := range files {
			decls, ok := q.AST(file)
			if !ok {
				continue
			}
			tree := astproto.EncodeDecls(decls)
			out, err := protojson.Marshal(tree)
			if err != nil {
				fail("encoding ast for %s: %v", file, err)
			}
			fmt.Println(string(out))
		}
	default:
		fail("unknown command %q", cmd)
	}
}

func printDiagnostics(log *slog.Logger, ctx *pipeline.Context) {
	if ctx.Diagnostics.Empty() {
		return
	}
	printer := cliterm.New(os.Stderr)
	printer.Diagnostics(ctx.Diagnostics)
}
