package rewriter

import (
	"regexp"
	"strings"

	"tsalias/entities"
)

// importLineRe matches a single-line `import ... from '<path>'` statement.
// Groups: text through the opening quote, the path, closing quote and rest of line.
var importLineRe = regexp.MustCompile(`^(\s*import\s+.+\s+from\s+['"])(.+)(['"].*)$`)

// IsImportLine reports whether line is a single-line import statement.
func IsImportLine(line string) bool {
	return importLineRe.MatchString(line)
}

// ExtractImportBlock locates the leading run of import lines.
// Blank lines do not end the block; the first other non-import line after an import does.
func ExtractImportBlock(lines []string) entities.ImportBlock {
	block := entities.ImportBlock{Start: -1, End: -1}

	for i, line := range lines {
		if IsImportLine(line) {
			if block.Start == -1 {
				block.Start = i
			}
			block.End = i
			block.Lines = append(block.Lines, i)
			continue
		}

		if block.Start != -1 && strings.TrimSpace(line) != "" {
			break
		}
	}

	return block
}

// ParseImportLine splits an import line around its quoted path.
func ParseImportLine(line string) (entities.ImportStatement, bool) {
	m := importLineRe.FindStringSubmatch(line)
	if m == nil {
		return entities.ImportStatement{}, false
	}

	return entities.ImportStatement{Prefix: m[1], Path: m[2], Suffix: m[3]}, true
}
