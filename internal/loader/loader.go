// Package loader implements the external loader protocol spec.md §6
// describes: each_signature/add/no_builtin!, plus the library-vendoring and
// version-selection policy SPEC_FULL.md adds on top of it.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
	"golang.org/x/sync/errgroup"

	"github.com/sigtools/sig/internal/config"
	"github.com/sigtools/sig/pkg/embed"
)

// Source is one signature file discovered by the loader: its sub-path
// relative to the directory it was found under, and its contents.
type Source struct {
	SubPath string
	Bytes   []byte
}

// Loader accumulates sources to load before a single Load() call, mirroring
// spec §6's add(library)/add(path)/no_builtin! configuration-before-loading
// protocol.
type Loader struct {
	libraryPath string // root of the vendored libraries ($SIG_LIBRARY_PATH in cmd/sig)
	libraries   []config.LibraryRef
	paths       []string
	noBuiltin   bool

	// Processing is allocated by New; Load and eachSignature neither read
	// nor write it.
	Processing map[string]bool
}

// New creates a Loader rooted at libraryPath (the directory vendored
// libraries live under; cmd/sig and cmd/sigd take it from
// $SIG_LIBRARY_PATH).
func New(libraryPath string) *Loader {
	return &Loader{libraryPath: libraryPath, Processing: make(map[string]bool)}
}

// Add configures a named library to load, per spec §6's `add(library: name)`.
func (l *Loader) Add(lib config.LibraryRef) { l.libraries = append(l.libraries, lib) }

// AddPath configures an extra directory to load signature files from
// directly, per spec §6's `add(path: dir)`.
func (l *Loader) AddPath(dir string) { l.paths = append(l.paths, dir) }

// NoBuiltin skips the embedded core library, per spec §6's `no_builtin!`.
func (l *Loader) NoBuiltin() { l.noBuiltin = true }

// FromManifest configures the loader from a parsed sig.yml.
func (l *Loader) FromManifest(m *config.Manifest) {
	for _, lib := range m.Libraries {
		l.Add(lib)
	}
	for _, p := range m.Paths {
		l.AddPath(p)
	}
	if m.NoBuiltin {
		l.NoBuiltin()
	}
}

// IncludesBuiltin reports whether the embedded core library should be
// loaded alongside everything else.
func (l *Loader) IncludesBuiltin() bool { return !l.noBuiltin }

// Load resolves every configured library and path to its signature files,
// reading file contents concurrently (bounded by an errgroup) per
// directory, and returns each source keyed by the resolved root it came
// from. The builtin library is skipped once NoBuiltin has been called.
func (l *Loader) Load(ctx context.Context) (map[string][]Source, error) {
	out := make(map[string][]Source)

	for _, lib := range l.libraries {
		if lib.Name == config.BuiltinLibraryName {
			if l.noBuiltin {
				continue
			}
			files, err := embed.Sources()
			if err != nil {
				return nil, fmt.Errorf("loading builtin library: %w", err)
			}
			sources := make([]Source, len(files))
			for i, f := range files {
				sources[i] = Source{SubPath: f.SubPath, Bytes: f.Bytes}
			}
			out[config.BuiltinLibraryName] = sources
			continue
		}

		dir, err := l.resolveLibraryDir(lib)
		if err != nil {
			return nil, err
		}
		sources, err := eachSignature(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("loading library %s: %w", lib.Name, err)
		}
		out[dir] = sources
	}

	for _, dir := range l.paths {
		sources, err := eachSignature(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("loading path %s: %w", dir, err)
		}
		out[dir] = sources
	}

	return out, nil
}

// resolveLibraryDir picks the vendored directory for a library reference
// under <libraryPath>/<name>/<version>. When Version is set, only a
// directory named exactly Version is accepted (version ranges are not
// interpreted); when it is empty, the highest valid semver directory on disk
// is selected.
func (l *Loader) resolveLibraryDir(lib config.LibraryRef) (string, error) {
	root := filepath.Join(l.libraryPath, lib.Name)
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("library %s not found under %s: %w", lib.Name, l.libraryPath, err)
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() && semver.IsValid(normalizeVersion(e.Name())) {
			versions = append(versions, e.Name())
		}
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("library %s has no versioned directories under %s", lib.Name, root)
	}

	if lib.Version != "" {
		for _, v := range versions {
			if v == lib.Version {
				return filepath.Join(root, v), nil
			}
		}
		return "", fmt.Errorf("library %s: version %s not vendored", lib.Name, lib.Version)
	}

	sort.Slice(versions, func(i, j int) bool {
		return semver.Compare(normalizeVersion(versions[i]), normalizeVersion(versions[j])) < 0
	})
	return filepath.Join(root, versions[len(versions)-1]), nil
}

func normalizeVersion(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// eachSignature walks dir collecting every recognized signature file,
// reading file contents with a bounded pool of goroutines.
func eachSignature(ctx context.Context, dir string) ([]Source, error) {
	var subPaths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !config.HasSourceExt(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		subPaths = append(subPaths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sources := make([]Source, len(subPaths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sub := range subPaths {
		i, sub := i, sub
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			data, err := os.ReadFile(filepath.Join(dir, sub))
			if err != nil {
				return err
			}
			sources[i] = Source{SubPath: sub, Bytes: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].SubPath < sources[j].SubPath })
	return sources, nil
}
