// Package config holds shared constants and the sig.yml manifest format.
package config

// Version is the current sig version.
// Set at build time via -ldflags "-X github.com/sigtools/sig/internal/config.Version=...".
var Version = "0.1.0"

// SourceFileExt is the canonical signature file extension.
const SourceFileExt = ".sig"

// SourceFileExtensions are all recognized signature file extensions.
var SourceFileExtensions = []string{".sig", ".rbs"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// BuiltinLibraryName is the name the loader's no_builtin! protocol step
// refers to when excluding the embedded core library (pkg/embed).
const BuiltinLibraryName = "builtin"

// ManifestFileNames are the names FindManifest looks for, in order.
var ManifestFileNames = []string{"sig.yml", "sig.yaml"}
