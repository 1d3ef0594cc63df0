// Package manifest reads package.json files for the dependency names they declare.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FileName is the manifest file looked up next to sources.
const FileName = "package.json"

// Manifest holds the dependency sections of a package.json.
type Manifest struct {
	Path             string            `json:"-"`
	Name             string            `json:"name"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// Read parses the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	m.Path = path
	return &m, nil
}

// Nearest returns the manifest in dir or the closest ancestor of dir. It
// returns nil without an error when no ancestor has one.
func Nearest(dir string) (*Manifest, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return Read(candidate)
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to stat %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Externals returns the sorted package names from dependencies,
// devDependencies and peerDependencies.
func (m *Manifest) Externals() []string {
	if m == nil {
		return nil
	}

	seen := make(map[string]bool)
	for _, section := range []map[string]string{m.Dependencies, m.DevDependencies, m.PeerDependencies} {
		for name := range section {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
