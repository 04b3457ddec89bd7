package rewriter

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"tsalias/entities"
)

// Rewriter turns relative imports into alias imports.
type Rewriter struct {
	aliases []entities.AliasConfiguration
	logger  *slog.Logger
}

// New creates a Rewriter over the given aliases, tried in order.
func New(aliases []entities.AliasConfiguration, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	owned := make([]entities.AliasConfiguration, len(aliases))
	for i, alias := range aliases {
		owned[i] = entities.AliasConfiguration{Dir: filepath.Clean(alias.Dir), Prefix: alias.Prefix}
	}

	return &Rewriter{aliases: owned, logger: logger}
}

// Rewrite rewrites the leading import block of the file at filePath.
// When nothing is converted the input content is returned untouched.
func (r *Rewriter) Rewrite(filePath, content string) entities.RewriteResult {
	unchanged := entities.RewriteResult{Modified: false, Content: content}

	lines := strings.Split(content, "\n")

	block := ExtractImportBlock(lines)
	if block.Empty() {
		return unchanged
	}

	modified := false
	rebuilt := make([]string, 0, len(block.Lines))

	for _, idx := range block.Lines {
		// Block lines were selected with the same pattern, parsing always succeeds.
		stmt, _ := ParseImportLine(lines[idx])

		finalPath, converted := r.convertRelativeToAlias(stmt.Path, filePath)
		if converted {
			modified = true
			r.logger.Debug("aliased import",
				slog.String("file", filePath),
				slog.String("from", stmt.Path),
				slog.String("to", finalPath))
		}

		rebuilt = append(rebuilt, stmt.Line(finalPath))
	}

	if !modified {
		return unchanged
	}

	return entities.RewriteResult{
		Modified: true,
		Content:  strings.Join(reconstructFile(lines, rebuilt, block), "\n"),
	}
}

// convertRelativeToAlias maps a relative import path onto the first alias containing it.
func (r *Rewriter) convertRelativeToAlias(importPath, filePath string) (string, bool) {
	if !strings.HasPrefix(importPath, "./") && !strings.HasPrefix(importPath, "../") {
		return importPath, false
	}

	target := filepath.Join(filepath.Dir(filePath), filepath.FromSlash(importPath))

	for _, alias := range r.aliases {
		if !withinDir(alias.Dir, target) {
			continue
		}

		rel, err := filepath.Rel(alias.Dir, target)
		if err != nil {
			continue
		}
		if rel == "." {
			rel = ""
		}

		return alias.Prefix + "/" + filepath.ToSlash(rel), true
	}

	return importPath, false
}

// withinDir reports whether target is dir or lies below it.
// Comparison is on path segments, so "/a/src" does not contain "/a/src-backup".
func withinDir(dir, target string) bool {
	if target == dir {
		return true
	}

	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	return strings.HasPrefix(target, prefix)
}

// reconstructFile replaces the block span with the rebuilt import lines.
func reconstructFile(lines, imports []string, block entities.ImportBlock) []string {
	out := make([]string, 0, len(lines))
	out = append(out, lines[:block.Start]...)
	out = append(out, imports...)
	out = append(out, lines[block.End+1:]...)

	return out
}
