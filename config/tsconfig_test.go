package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsalias/entities"
)

func writeTsconfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "tsconfig.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadAliases(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    func(root string) []entities.AliasConfiguration
	}{
		{
			name: "base url and paths",
			content: `{
  "compilerOptions": {
    "baseUrl": "./",
    "paths": { "@/*": ["src/*"] }
  }
}`,
			want: func(root string) []entities.AliasConfiguration {
				return []entities.AliasConfiguration{{Dir: filepath.Join(root, "src"), Prefix: "@"}}
			},
		},
		{
			name: "declaration order is kept",
			content: `{
  "compilerOptions": {
    "paths": {
      "~components/*": ["src/components/*"],
      "@lib/*": ["lib/*"],
      "@/*": ["src/*"],
      "#utils/*": ["src/utils/*"]
    }
  }
}`,
			want: func(root string) []entities.AliasConfiguration {
				return []entities.AliasConfiguration{
					{Dir: filepath.Join(root, "src", "components"), Prefix: "~components"},
					{Dir: filepath.Join(root, "lib"), Prefix: "@lib"},
					{Dir: filepath.Join(root, "src"), Prefix: "@"},
					{Dir: filepath.Join(root, "src", "utils"), Prefix: "#utils"},
				}
			},
		},
		{
			name: "only the first target is used",
			content: `{
  "compilerOptions": {
    "paths": { "@/*": ["src/*", "generated/*"] }
  }
}`,
			want: func(root string) []entities.AliasConfiguration {
				return []entities.AliasConfiguration{{Dir: filepath.Join(root, "src"), Prefix: "@"}}
			},
		},
		{
			name: "empty target list is skipped",
			content: `{
  "compilerOptions": {
    "paths": { "@empty/*": [], "@/*": ["src/*"] }
  }
}`,
			want: func(root string) []entities.AliasConfiguration {
				return []entities.AliasConfiguration{{Dir: filepath.Join(root, "src"), Prefix: "@"}}
			},
		},
		{
			name: "targets resolve against base url",
			content: `{
  "compilerOptions": {
    "baseUrl": "packages/web",
    "paths": { "@/*": ["./src/*"], "shared": ["../shared"] }
  }
}`,
			want: func(root string) []entities.AliasConfiguration {
				return []entities.AliasConfiguration{
					{Dir: filepath.Join(root, "packages", "web", "src"), Prefix: "@"},
					{Dir: filepath.Join(root, "packages", "shared"), Prefix: "shared"},
				}
			},
		},
		{
			name: "comments and trailing commas",
			content: `{
  // project settings
  "compilerOptions": {
    /* aliases */
    "paths": {
      "@/*": ["src/*"],
    },
  },
}`,
			want: func(root string) []entities.AliasConfiguration {
				return []entities.AliasConfiguration{{Dir: filepath.Join(root, "src"), Prefix: "@"}}
			},
		},
		{
			name: "repeated key keeps first position and last value",
			content: `{
  "compilerOptions": {
    "paths": {
      "@/*": ["old/*"],
      "@lib/*": ["lib/*"],
      "@/*": ["src/*"]
    }
  }
}`,
			want: func(root string) []entities.AliasConfiguration {
				return []entities.AliasConfiguration{
					{Dir: filepath.Join(root, "src"), Prefix: "@"},
					{Dir: filepath.Join(root, "lib"), Prefix: "@lib"},
				}
			},
		},
		{
			name: "repeated key emptied later is dropped",
			content: `{
  "compilerOptions": {
    "paths": { "@/*": ["src/*"], "@/*": [] }
  }
}`,
			want: func(string) []entities.AliasConfiguration {
				return []entities.AliasConfiguration{}
			},
		},
		{
			name:    "no compiler options",
			content: `{ "include": ["src"] }`,
			want: func(string) []entities.AliasConfiguration {
				return []entities.AliasConfiguration{}
			},
		},
		{
			name:    "null paths",
			content: `{ "compilerOptions": { "baseUrl": null, "paths": null } }`,
			want: func(string) []entities.AliasConfiguration {
				return []entities.AliasConfiguration{}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			path := writeTsconfig(t, root, tt.content)

			got, err := LoadAliases(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want(root), got)
		})
	}
}

func TestLoadAliasesRelativeConfigPath(t *testing.T) {
	root := t.TempDir()
	writeTsconfig(t, root, `{"compilerOptions": {"paths": {"@/*": ["src/*"]}}}`)
	chdirForTest(t, root)

	got, err := LoadAliases(DefaultConfigPath)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, filepath.IsAbs(got[0].Dir))
	assert.Equal(t, "src", filepath.Base(got[0].Dir))
}

func TestLoadAliasesErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid json", content: `{ "compilerOptions": `},
		{name: "paths is an array", content: `{ "compilerOptions": { "paths": ["src/*"] } }`},
		{name: "targets are not strings", content: `{ "compilerOptions": { "paths": { "@/*": [1] } } }`},
		{name: "base url is not a string", content: `{ "compilerOptions": { "baseUrl": 3 } }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTsconfig(t, t.TempDir(), tt.content)

			_, err := LoadAliases(path)
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, path, cfgErr.Path)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tsconfig.json")

		_, err := LoadAliases(path)

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.True(t, os.IsNotExist(errors.Cause(cfgErr.Err)))
	})
}
