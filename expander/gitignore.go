package expander

import (
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreRules holds the .gitignore files found while walking a directory tree.
// Rules of a directory apply to everything below it.
type ignoreRules struct {
	root  string
	rules map[string]*ignore.GitIgnore // dir -> compiled .gitignore, only dirs that have one
}

func newIgnoreRules(root string) *ignoreRules {
	return &ignoreRules{
		root:  filepath.Clean(root),
		rules: make(map[string]*ignore.GitIgnore),
	}
}

// load compiles dir/.gitignore if there is one.
func (r *ignoreRules) load(dir string) {
	dir = filepath.Clean(dir)
	if _, ok := r.rules[dir]; ok {
		return
	}

	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err == nil {
		r.rules[dir] = gi
	}
}

// ignored walks from the file's directory up to the root checking each loaded rule set.
func (r *ignoreRules) ignored(path string) bool {
	if len(r.rules) == 0 {
		return false
	}

	dir := filepath.Dir(path)
	for {
		if gi, ok := r.rules[dir]; ok {
			rel, err := filepath.Rel(dir, path)
			if err == nil && gi.MatchesPath(filepath.ToSlash(rel)) {
				return true
			}
		}

		if dir == r.root {
			return false
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
