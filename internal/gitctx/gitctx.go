package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultInclude selects Python sources at any depth.
var DefaultInclude = []string{"**/*.py"}

// Selection filters the files a mode returns.
type Selection struct {
	Include []string
	Exclude []string
}

func (s Selection) matches(path string) bool {
	include := s.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	return MatchesAny(path, include) && !MatchesAny(path, s.Exclude)
}

// File is a selected source and its content.
type File struct {
	Path    string
	Content string
}

// Staged returns added, copied, modified or renamed files in the index, with
// their staged content.
func Staged(ctx context.Context, sel Selection) ([]File, error) {
	paths, err := changedPaths(ctx, sel, "--cached")
	if err != nil {
		return nil, err
	}
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		content, err := gitOutput(ctx, "show", ":./"+filepath.ToSlash(p))
		if err != nil {
			return nil, fmt.Errorf("reading staged %s: %w", p, err)
		}
		files = append(files, File{Path: p, Content: content})
	}
	return files, nil
}

// Unstaged returns working tree files that differ from the index.
func Unstaged(ctx context.Context, sel Selection) ([]File, error) {
	paths, err := changedPaths(ctx, sel)
	if err != nil {
		return nil, err
	}
	return readWorkingTree(paths)
}

// Tracked returns every tracked file matching the selection.
func Tracked(ctx context.Context, sel Selection) ([]File, error) {
	out, err := gitOutput(ctx, "ls-files", "-z")
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	return readWorkingTree(filterPaths(splitNul(out), sel))
}

func changedPaths(ctx context.Context, sel Selection, extra ...string) ([]string, error) {
	args := append([]string{"diff"}, extra...)
	args = append(args, "--name-only", "--relative", "--diff-filter=ACMR", "-z")
	out, err := gitOutput(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("git diff: %w", err)
	}
	return filterPaths(splitNul(out), sel), nil
}

// readWorkingTree skips paths deleted from disk but still known to git.
func readWorkingTree(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		files = append(files, File{Path: p, Content: string(data)})
	}
	return files, nil
}

func filterPaths(paths []string, sel Selection) []string {
	var result []string
	for _, p := range paths {
		if sel.matches(p) {
			result = append(result, p)
		}
	}
	sort.Strings(result)
	return result
}

func splitNul(out string) []string {
	var paths []string
	for _, p := range strings.Split(out, "\x00") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// MatchesAny returns true if the path matches any of the given glob patterns.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}

// RepoRoot returns the top-level directory of the enclosing repository.
func RepoRoot(ctx context.Context) (string, error) {
	root, err := gitOutput(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(root), nil
}

func gitOutput(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
