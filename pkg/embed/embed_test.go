package embed_test

import (
	"strings"
	"testing"

	"github.com/sigtools/sig/pkg/embed"
)

func TestSourcesReturnsNonEmptyCoreLibrary(t *testing.T) {
	files, err := embed.Sources()
	if err != nil {
		t.Fatalf("Sources() error: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("Sources() returned no files")
	}

	var sawObject bool
	for _, f := range files {
		if len(f.Bytes) == 0 {
			t.Errorf("file %s is empty", f.SubPath)
		}
		if !strings.HasSuffix(f.SubPath, ".sig") {
			t.Errorf("file %s does not have a .sig extension", f.SubPath)
		}
		if f.SubPath == "object.sig" {
			sawObject = true
			if !strings.Contains(string(f.Bytes), "class Object") {
				t.Errorf("object.sig does not define Object")
			}
		}
	}
	if !sawObject {
		t.Fatal("object.sig not found among embedded sources")
	}
}

func TestSourcesAreSortedBySubPath(t *testing.T) {
	files, err := embed.Sources()
	if err != nil {
		t.Fatalf("Sources() error: %v", err)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1].SubPath >= files[i].SubPath {
			t.Fatalf("files not sorted: %s >= %s", files[i-1].SubPath, files[i].SubPath)
		}
	}
}
