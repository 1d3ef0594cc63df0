package discover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const gitCommandTimeout = 10 * time.Second

func runGit(dir string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("git command timed out after %s", gitCommandTimeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git command failed: %s", msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func repositoryRoot(dir string) (string, error) {
	out, err := runGit(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return filepath.FromSlash(strings.TrimSpace(string(out))), nil
}

// gitLsFiles returns tracked and untracked, non-ignored files under root,
// relative to root, or nil when root is not the top of a git work tree.
func gitLsFiles(root string) map[string]struct{} {
	if isDir, err := statDir(filepath.Join(root, ".git")); err != nil || !isDir {
		return nil
	}

	out, err := runGit(root, "ls-files", "--cached", "--others", "--exclude-standard")
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[filepath.FromSlash(line)] = struct{}{}
		}
	}
	return files
}

// uncommitted parses "git status --porcelain" into paths relative to the
// repository root. Deleted files are skipped; renames yield the new path.
func uncommitted(dir string) ([]string, error) {
	out, err := runGit(dir, "status", "--porcelain", "--untracked-files=all")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) < 4 {
			continue
		}
		if line[0] == 'D' || line[1] == 'D' {
			continue
		}
		name := line[3:]
		if _, renamed, ok := strings.Cut(name, " -> "); ok {
			name = renamed
		}
		files = append(files, filepath.FromSlash(strings.Trim(name, `"`)))
	}
	return files, nil
}
