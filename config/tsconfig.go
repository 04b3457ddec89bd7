package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tailscale/hujson"

	"tsalias/entities"
)

const wildcardSuffix = "/*"

// ConfigurationError reports a tsconfig that cannot be read or understood.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// tsconfig is the subset of tsconfig.json we care about.
// Paths stays raw so that declaration order survives decoding.
type tsconfig struct {
	CompilerOptions *struct {
		BaseURL *string         `json:"baseUrl"`
		Paths   json.RawMessage `json:"paths"`
	} `json:"compilerOptions"`
}

type pathMapping struct {
	pattern string
	targets []string
}

// LoadAliases reads the path mappings of a tsconfig file.
// Aliases are returned in declaration order with absolute target directories.
func LoadAliases(tsconfigPath string) ([]entities.AliasConfiguration, error) {
	absPath, err := filepath.Abs(tsconfigPath)
	if err != nil {
		return nil, &ConfigurationError{Path: tsconfigPath, Err: errors.Wrap(err, "resolving config path")}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &ConfigurationError{Path: absPath, Err: errors.Wrap(err, "reading config file")}
	}

	// tsconfig files routinely carry comments and trailing commas.
	data, err = hujson.Standardize(data)
	if err != nil {
		return nil, &ConfigurationError{Path: absPath, Err: errors.Wrap(err, "parsing config file")}
	}

	var cfg tsconfig
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		return nil, &ConfigurationError{Path: absPath, Err: errors.Wrap(err, "parsing config file")}
	}

	baseURL := "./"
	var rawPaths json.RawMessage
	if cfg.CompilerOptions != nil {
		if cfg.CompilerOptions.BaseURL != nil {
			baseURL = *cfg.CompilerOptions.BaseURL
		}
		rawPaths = cfg.CompilerOptions.Paths
	}

	mappings, err := decodePaths(rawPaths)
	if err != nil {
		return nil, &ConfigurationError{Path: absPath, Err: errors.Wrap(err, "parsing compilerOptions.paths")}
	}

	absBaseURL := resolvePath(filepath.Dir(absPath), baseURL)

	aliases := make([]entities.AliasConfiguration, 0, len(mappings))
	for _, m := range mappings {
		if len(m.targets) == 0 {
			continue
		}

		prefix := strings.TrimSuffix(m.pattern, wildcardSuffix)
		target := strings.TrimSuffix(m.targets[0], wildcardSuffix)

		aliases = append(aliases, entities.AliasConfiguration{
			Dir:    resolvePath(absBaseURL, target),
			Prefix: prefix,
		})
	}

	return aliases, nil
}

// decodePaths walks the paths object token by token to keep key order.
func decodePaths(raw json.RawMessage) ([]pathMapping, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "reading paths")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.Errorf("paths must be an object, got %v", tok)
	}

	var mappings []pathMapping
	// A repeated key keeps its first position but takes the last value.
	seen := make(map[string]int)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "reading alias pattern")
		}
		pattern, ok := tok.(string)
		if !ok {
			return nil, errors.Errorf("unexpected token %v", tok)
		}

		var targets []string
		err = dec.Decode(&targets)
		if err != nil {
			return nil, errors.Wrapf(err, "reading targets of %q", pattern)
		}

		if idx, dup := seen[pattern]; dup {
			mappings[idx].targets = targets
			continue
		}
		seen[pattern] = len(mappings)
		mappings = append(mappings, pathMapping{pattern: pattern, targets: targets})
	}

	return mappings, nil
}

// resolvePath resolves p against base unless p is already absolute.
func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
