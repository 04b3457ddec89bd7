package entities

// AliasConfiguration maps an absolute directory to the prefix that replaces it.
type AliasConfiguration struct {
	// Absolute target directory (e.g. "/home/me/project/src").
	Dir string

	// Alias prefix without the trailing "/*" (e.g. "@").
	Prefix string
}

// ImportStatement is a single-line import split around its quoted path.
type ImportStatement struct {
	Prefix string // Text up to and including the opening quote.
	Path   string // Quoted path contents.
	Suffix string // Closing quote and anything after it.
}

// Line rebuilds the statement with the given path.
func (s ImportStatement) Line(path string) string {
	return s.Prefix + path + s.Suffix
}

// ImportBlock is the leading run of import lines in a file.
// Start and End are line indexes (inclusive); Start is -1 when the file has no imports.
type ImportBlock struct {
	Start int
	End   int
	Lines []int // Indexes of the import lines inside the block.
}

// Empty reports whether no import line was found.
func (b ImportBlock) Empty() bool {
	return b.Start == -1
}

// RewriteResult is the outcome of rewriting one file's content.
type RewriteResult struct {
	Modified bool
	Content  string
}

// FileFailure records a file that could not be processed.
type FileFailure struct {
	Path string
	Err  error
}

// Summary counts the files examined by a batch.
type Summary struct {
	Modified int
	Total    int
	Failures []FileFailure
}
