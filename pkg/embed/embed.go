// Package embed vendors the core signature library — Object, Kernel,
// Comparable, Enumerable, and the handful of built-in classes every other
// signature file is implicitly written against — directly into the sig
// binary, so a fresh checkout resolves `Integer`, `String`, and friends
// without a separate install step.
//
// It deliberately does not depend on internal/loader: loader is the
// consumer here (it converts embed.File into loader.Source), and an
// import the other way would cycle.
package embed

import (
	"embed"
	"sort"
)

//go:embed core/*.sig
var coreFS embed.FS

// File is one embedded signature file: its path relative to core/, and its
// raw contents.
type File struct {
	SubPath string
	Bytes   []byte
}

// Sources returns every embedded core signature file, sorted by SubPath.
func Sources() ([]File, error) {
	entries, err := coreFS.ReadDir("core")
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := coreFS.ReadFile("core/" + e.Name())
		if err != nil {
			return nil, err
		}
		files = append(files, File{SubPath: e.Name(), Bytes: data})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].SubPath < files[j].SubPath })
	return files, nil
}
