package localize

import (
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFile is the package manifest looked up for every dependency.
const ManifestFile = "package.json"

// Resolver locates the root directory of a package, as seen from a directory.
type Resolver interface {
	ResolvePackageRoot(fromDir, packageName string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(fromDir, packageName string) (string, error)

func (f ResolverFunc) ResolvePackageRoot(fromDir, packageName string) (string, error) {
	return f(fromDir, packageName)
}

// NodeResolver resolves packages the way Node does for "<pkg>/package.json":
// it walks from fromDir towards the filesystem root and returns the first
// <dir>/<marker>/<pkg> directory that holds a manifest. The returned path has
// its symlinks evaluated, so linked workspace packages resolve to their real
// location.
type NodeResolver struct {
	Marker string
}

// NewNodeResolver returns a resolver searching marker directories (node_modules by default).
func NewNodeResolver(marker string) *NodeResolver {
	if marker == "" {
		marker = DefaultMarker
	}
	return &NodeResolver{Marker: marker}
}

func (r *NodeResolver) ResolvePackageRoot(fromDir, packageName string) (string, error) {
	dir, err := filepath.Abs(fromDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", fromDir, err)
	}

	for {
		manifest := filepath.Join(dir, r.Marker, filepath.FromSlash(packageName), ManifestFile)
		if info, err := os.Stat(manifest); err == nil && !info.IsDir() {
			root, err := filepath.EvalSymlinks(filepath.Dir(manifest))
			if err != nil {
				return "", fmt.Errorf("failed to evaluate %s: %w", filepath.Dir(manifest), err)
			}
			return root, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s from %s", ErrPackageNotFound, packageName, fromDir)
		}
		dir = parent
	}
}
