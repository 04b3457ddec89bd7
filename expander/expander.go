// Package expander turns command line patterns into the list of files to process.
//
// A pattern is handled in one of two ways:
//
//  1. "." or anything ending in "/" is a directory: every file below it with one
//     of the configured extensions is picked up, skipping node_modules and
//     hidden (dot-named) entries.
//  2. Anything else is a glob ("**" supported). Wildcards do not match hidden
//     path segments unless the pattern spells the leading dot out. A glob with
//     no match is kept verbatim so that the missing file is reported when it is read.
//
// Usage:
//
//	files, err := expander.Expand([]string{"src/", "scripts/*.ts"}, expander.Options{})
package expander

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// dependencyDir is never descended into when expanding a directory.
const dependencyDir = "node_modules"

// Options control directory expansion.
type Options struct {
	// Extensions without the leading dot. Defaults to ts and tsx.
	Extensions []string

	// RespectGitignore drops files matched by .gitignore files below the expanded directory.
	RespectGitignore bool
}

// Expand resolves patterns to file paths, in pattern order.
func Expand(patterns []string, opts Options) ([]string, error) {
	var files []string

	for _, pattern := range patterns {
		if IsDirectoryPattern(pattern) {
			dir := pattern
			if dir == "." {
				dir = "./"
			}

			matches, err := expandDir(dir, opts)
			if err != nil {
				return nil, errors.Wrapf(err, "expanding %s", pattern)
			}
			files = append(files, matches...)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %s", pattern)
		}
		matches = visibleMatches(pattern, matches)
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}

	return files, nil
}

// IsDirectoryPattern reports whether pattern names a directory to expand recursively.
func IsDirectoryPattern(pattern string) bool {
	return pattern == "." || strings.HasSuffix(pattern, "/") || strings.HasSuffix(pattern, string(filepath.Separator))
}

// SourcePattern builds the glob matching files with the given extensions at any depth.
func SourcePattern(extensions []string) string {
	if len(extensions) == 0 {
		extensions = []string{"ts", "tsx"}
	}
	if len(extensions) == 1 {
		return "**/*." + extensions[0]
	}
	return "**/*.{" + strings.Join(extensions, ",") + "}"
}

// expandDir walks dir and collects files matching the source pattern.
func expandDir(dir string, opts Options) ([]string, error) {
	pattern := SourcePattern(opts.Extensions)

	var ignores *ignoreRules
	if opts.RespectGitignore {
		ignores = newIgnoreRules(dir)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != dir && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if d.Name() == dependencyDir {
				return filepath.SkipDir
			}
			if ignores != nil {
				ignores.load(path)
			}
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if ignores != nil && ignores.ignored(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking directory")
	}

	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// visibleMatches drops matches that reach a hidden segment through a wildcard.
func visibleMatches(pattern string, matches []string) []string {
	var dotted []string
	for _, seg := range strings.Split(filepath.ToSlash(pattern), "/") {
		if isHidden(seg) {
			dotted = append(dotted, seg)
		}
	}

	visible := matches[:0]
	for _, m := range matches {
		if spelledOut(dotted, m) {
			visible = append(visible, m)
		}
	}
	return visible
}

// spelledOut reports whether every hidden segment of path is matched by one of
// the dot-leading pattern segments.
func spelledOut(dotted []string, path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if !isHidden(seg) {
			continue
		}

		found := false
		for _, p := range dotted {
			if ok, _ := doublestar.Match(p, seg); ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
