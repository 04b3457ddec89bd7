package rewriter

import (
	"bufio"
	"bytes"
	"strings"
)

// generatedHeaderLines is how many non-empty leading lines are inspected.
const generatedHeaderLines = 5

var generatedMarkers = []string{
	"@generated",
	"do not edit",
	"auto-generated",
	"autogenerated",
	"code generated",
	"automatically generated",
}

// IsGeneratedFile checks if a file is generated based on its first few lines.
func IsGeneratedFile(code []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(code))

	lineCount := 0
	for scanner.Scan() && lineCount < generatedHeaderLines {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lineCount++

		if isDirective(line) {
			continue
		}

		// Real code before any marker: not generated.
		if !isComment(line) {
			return false
		}

		lowercaseLine := strings.ToLower(line)
		for _, marker := range generatedMarkers {
			if strings.Contains(lowercaseLine, marker) {
				return true
			}
		}
	}

	return false
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "*")
}

// isDirective matches prologue strings such as 'use client'.
func isDirective(line string) bool {
	return strings.HasPrefix(line, "'use ") || strings.HasPrefix(line, "\"use ")
}
