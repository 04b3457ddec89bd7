package config

import (
	"strings"

	"github.com/spf13/pflag"
)

// DefaultConfigPath is used when --configPath is not given.
const DefaultConfigPath = "./tsconfig.json"

// DefaultExtensions are the file extensions picked up when a directory is expanded.
var DefaultExtensions = []string{"ts", "tsx"}

// Config holds the configuration for one tsalias invocation.
type Config struct {
	Patterns         []string
	ConfigPath       string
	Write            bool
	Diff             bool
	KeepGoing        bool
	SkipGenerated    bool
	RespectGitignore bool
	Extensions       []string
	Watch            bool
	NoColor          bool
	Verbose          bool
}

// New creates a Config with defaults applied.
func New() *Config {
	return &Config{
		ConfigPath: DefaultConfigPath,
		Extensions: append([]string(nil), DefaultExtensions...),
	}
}

// CheckOnly reports whether files are only inspected, not written.
func (c *Config) CheckOnly() bool {
	return !c.Write
}

// BindFlags registers the command line flags on fs.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "configPath", c.ConfigPath, "Path to tsconfig.json")
	fs.BoolVar(&c.Write, "write", false, "Write fixes to disk (default is check only)")
	fs.BoolVar(&c.Diff, "diff", false, "Print a diff of every change")
	fs.BoolVar(&c.KeepGoing, "keep-going", false, "Report unreadable files and continue")
	fs.BoolVar(&c.SkipGenerated, "skip-generated", false, "Skip generated files")
	fs.BoolVar(&c.RespectGitignore, "gitignore", false, "Honour .gitignore when expanding directories")
	fs.StringSliceVar(&c.Extensions, "ext", c.Extensions, "Extensions picked up when expanding directories")
	fs.BoolVar(&c.Watch, "watch", false, "Keep running and fix files as they change")
	fs.BoolVar(&c.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "Verbose logging")

	// --tsconfig is kept as an alias of --configPath.
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "tsconfig" {
			name = "configPath"
		}
		return pflag.NormalizedName(name)
	})
}

// NormalizeExtensions strips leading dots and blanks from the extension list.
func (c *Config) NormalizeExtensions() {
	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		exts = append(exts, DefaultExtensions...)
	}
	c.Extensions = exts
}
