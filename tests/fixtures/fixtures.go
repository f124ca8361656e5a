// Package fixtures loads golden/*.txtar archives — each bundling one or
// more named .sig sources plus a "want" section listing the fully
// qualified names the pipeline should declare — into pipeline.Source
// slices for table-driven golden tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"

	"github.com/sigtools/sig/internal/pipeline"
)

// Case is one parsed golden fixture: the sources to build and the set of
// top-level names the build is expected to declare.
type Case struct {
	Name    string
	Sources []pipeline.Source
	Want    []string
}

// Load parses a single .txtar fixture file into a Case. Every file section
// named "want" is treated as the expected-names list (one name per
// non-blank line) rather than a signature source.
func Load(path string) (*Case, error) {
	arc, err := txtar.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: parsing %s: %w", path, err)
	}

	c := &Case{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	for _, f := range arc.Files {
		if f.Name == "want" {
			for _, line := range strings.Split(string(f.Data), "\n") {
				line = strings.TrimSpace(line)
				if line != "" {
					c.Want = append(c.Want, line)
				}
			}
			continue
		}
		c.Sources = append(c.Sources, pipeline.Source{File: f.Name, Text: string(f.Data)})
	}
	return c, nil
}

// LoadDir parses every *.txtar fixture under dir, sorted by file name.
func LoadDir(dir string) ([]*Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var cases []*Case
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txtar" {
			continue
		}
		c, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}
