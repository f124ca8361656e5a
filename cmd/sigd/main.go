// Command sigd serves the same read-only queries cmd/sig answers on the
// command line over gRPC, for long-lived editor/build-tool integrations
// that don't want to re-run the pipeline on every query. It builds one
// pipeline.Context at startup from its -r/-I flags and a manifest, then
// serves internal/rpcserver.ServiceDesc against it until killed.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/grpc"

	"github.com/sigtools/sig/internal/cache"
	"github.com/sigtools/sig/internal/config"
	"github.com/sigtools/sig/internal/loader"
	"github.com/sigtools/sig/internal/pipeline"
	"github.com/sigtools/sig/internal/rpcserver"
)

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

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "sigd: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	addr := ":7777"
	var libraries []config.LibraryRef
	var paths []string
	noStdlib := false
	noCache := false

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-addr":
			i++
			if i >= len(args) {
				fail("-addr requires a value")
			}
			addr = args[i]
		case "-r":
			i++
			if i >= len(args) {
				fail("-r requires a LIBRARY argument")
			}
			name, version, _ := strings.Cut(args[i], ":")
			libraries = append(libraries, config.LibraryRef{Name: name, Version: version})
		case "-I":
			i++
			if i >= len(args) {
				fail("-I requires a DIR argument")
			}
			paths = append(paths, args[i])
		case "--no-stdlib":
			noStdlib = true
		case "--no-cache":
			noCache = true
		default:
			fail("unknown flag %q", args[i])
		}
	}

	libraryPath := os.Getenv("SIG_LIBRARY_PATH")
	if libraryPath == "" {
		libraryPath = "/usr/local/share/sig/libraries"
	}
	ld := loader.New(libraryPath)
	if noStdlib {
		ld.NoBuiltin()
	} else {
		ld.Add(config.LibraryRef{Name: config.BuiltinLibraryName})
	}
	for _, lib := range libraries {
		ld.Add(lib)
	}
	for _, dir := range paths {
		ld.AddPath(dir)
	}
	if manifestPath, err := config.FindManifest("."); err == nil {
		if m, err := config.LoadManifest(manifestPath); err == nil {
			ld.FromManifest(m)
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

	ctx := pipeline.Build(sources)
	if !ctx.Diagnostics.Empty() {
		for _, d := range ctx.Diagnostics.All() {
			fmt.Fprintln(os.Stderr, d.Error())
		}
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		fail("listen %s: %v", addr, err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	server := grpc.NewServer(grpc.UnaryInterceptor(rpcserver.LoggingInterceptor(log)))
	query := rpcserver.NewQuery(ctx)
	if !noCache {
		path := cachePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Warn("ancestor cache disabled", "error", err)
		} else if c, err := cache.Open(path); err != nil {
			log.Warn("ancestor cache disabled", "error", err)
		} else {
			query.WithCache(c, cache.ContentHash(contents))
		}
	}
	handler := &rpcserver.Handler{Query: query}
	server.RegisterService(&rpcserver.ServiceDesc, handler)

	fmt.Fprintf(os.Stderr, "sigd listening on %s\n", addr)
	if err := server.Serve(lis); err != nil {
		fail("serve: %v", err)
	}
}
