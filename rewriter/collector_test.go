package rewriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tsalias/entities"
)

func TestExtractImportBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  entities.ImportBlock
	}{
		{
			name:  "no imports",
			input: "const a = 1\n",
			want:  entities.ImportBlock{Start: -1, End: -1},
		},
		{
			name:  "single import",
			input: "import a from './a'\n",
			want:  entities.ImportBlock{Start: 0, End: 0, Lines: []int{0}},
		},
		{
			name:  "block after header comment",
			input: "// header\n\nimport a from './a'\nimport b from './b'\n\nconst c = 1\n",
			want:  entities.ImportBlock{Start: 2, End: 3, Lines: []int{2, 3}},
		},
		{
			name:  "blank lines inside block",
			input: "import a from './a'\n\n\nimport b from 'b'\nfoo()\nimport c from './c'\n",
			want:  entities.ImportBlock{Start: 0, End: 3, Lines: []int{0, 3}},
		},
		{
			name:  "side effect import ends the block",
			input: "import a from './a'\nimport './styles.css'\nimport b from './b'\n",
			want:  entities.ImportBlock{Start: 0, End: 0, Lines: []int{0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractImportBlock(strings.Split(tt.input, "\n"))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseImportLine(t *testing.T) {
	tests := []struct {
		line   string
		want   entities.ImportStatement
		wantOK bool
	}{
		{
			line:   `import { a } from './a'`,
			want:   entities.ImportStatement{Prefix: `import { a } from '`, Path: `./a`, Suffix: `'`},
			wantOK: true,
		},
		{
			line:   `  import type { B } from "../b";`,
			want:   entities.ImportStatement{Prefix: `  import type { B } from "`, Path: `../b`, Suffix: `";`},
			wantOK: true,
		},
		{
			line:   `import x, { y } from '@/x' // keep`,
			want:   entities.ImportStatement{Prefix: `import x, { y } from '`, Path: `@/x`, Suffix: `' // keep`},
			wantOK: true,
		},
		{line: `import './side-effect'`},
		{line: `const a = require('./a')`},
		{line: ``},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseImportLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.Equal(t, tt.line, got.Line(got.Path))
			}
		})
	}
}
