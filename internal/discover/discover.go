// Package discover finds the JavaScript and TypeScript sources to localize.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/LegacyCodeHQ/localize/rewrite"
)

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"dist":         {},
	"build":        {},
	"coverage":     {},
}

// Options controls discovery.
type Options struct {
	// SkipDirs are extra directory names never descended into, such as the
	// dependency marker and its localized counterpart.
	SkipDirs []string
	// Match reports whether a file should be returned. Defaults to
	// rewrite.IsSupportedFile.
	Match func(path string) bool
}

func (o Options) match(path string) bool {
	if o.Match != nil {
		return o.Match(path)
	}
	return rewrite.IsSupportedFile(path)
}

func (o Options) skip(name string) bool {
	if _, ok := skipDirs[name]; ok {
		return true
	}
	for _, dir := range o.SkipDirs {
		if dir == name {
			return true
		}
	}
	return false
}

// Files expands paths into absolute source file paths. Directories are walked
// honoring git's view of the tree (or .gitignore outside a repository); files
// named explicitly are returned when they match, even if ignored.
func Files(paths []string, opts Options) ([]string, error) {
	seen := make(map[string]bool)
	var results []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			results = append(results, path)
		}
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			if opts.match(abs) {
				add(abs)
			}
			continue
		}

		found, err := walk(abs, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Strings(results)
	return results, nil
}

func walk(root string, opts Options) ([]string, error) {
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if opts.skip(name) || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(filepath.ToSlash(rel)) {
			return nil
		}

		if opts.match(path) {
			results = append(results, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return results, nil
}

// Changed returns the uncommitted source files (staged, unstaged and
// untracked) of the git repository containing dir, as absolute paths.
func Changed(dir string, opts Options) ([]string, error) {
	root, err := repositoryRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("%s is not inside a git repository: %w", dir, err)
	}

	files, err := uncommitted(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list uncommitted files: %w", err)
	}

	var results []string
	for _, rel := range files {
		if skipped(rel, opts) {
			continue
		}
		abs := filepath.Join(root, rel)
		if opts.match(abs) {
			results = append(results, abs)
		}
	}
	sort.Strings(results)
	return results, nil
}

func skipped(rel string, opts Options) bool {
	for _, part := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
		if opts.skip(part) {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
