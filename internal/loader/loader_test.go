package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sigtools/sig/internal/config"
	"github.com/sigtools/sig/internal/loader"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderLoadsExtraPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.sig"), "class A\nend")
	writeFile(t, filepath.Join(dir, "nested", "b.sig"), "class B\nend")
	writeFile(t, filepath.Join(dir, "ignored.txt"), "not a signature file")

	l := loader.New(t.TempDir())
	l.AddPath(dir)

	out, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sources, ok := out[dir]
	if !ok {
		t.Fatalf("expected sources keyed by %s", dir)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 signature files, got %d", len(sources))
	}
}

func TestLoaderResolvesLibraryVersion(t *testing.T) {
	libRoot := t.TempDir()
	writeFile(t, filepath.Join(libRoot, "widgets", "v1.0.0", "widgets.sig"), "class Widget\nend")
	writeFile(t, filepath.Join(libRoot, "widgets", "v1.2.0", "widgets.sig"), "class Widget\nend")

	l := loader.New(libRoot)
	l.Add(config.LibraryRef{Name: "widgets"})

	out, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDir := filepath.Join(libRoot, "widgets", "v1.2.0")
	if _, ok := out[wantDir]; !ok {
		t.Fatalf("expected the highest version v1.2.0 selected, got keys %v", keysOf(out))
	}
}

func TestLoaderNoBuiltinFlag(t *testing.T) {
	l := loader.New(t.TempDir())
	if !l.IncludesBuiltin() {
		t.Fatalf("expected builtin to be included by default")
	}
	l.NoBuiltin()
	if l.IncludesBuiltin() {
		t.Fatalf("expected IncludesBuiltin to be false after NoBuiltin()")
	}
}

func keysOf(m map[string][]loader.Source) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
