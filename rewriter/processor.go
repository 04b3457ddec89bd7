package rewriter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"tsalias/config"
	"tsalias/entities"
)

// FileAccessError reports a source file that could not be read or written.
type FileAccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// ChangeFunc receives the old and new content of a file that needs fixing.
type ChangeFunc func(path, before, after string)

// Options control how files are processed.
type Options struct {
	CheckOnly     bool
	KeepGoing     bool
	SkipGenerated bool
	Logger        *slog.Logger
	OnChange      ChangeFunc
}

// FileProcessor applies a Rewriter to files on disk.
type FileProcessor struct {
	rewriter      *Rewriter
	checkOnly     bool
	skipGenerated bool
	logger        *slog.Logger
	onChange      ChangeFunc
}

// NewFileProcessor creates a FileProcessor. In check-only mode nothing is written.
func NewFileProcessor(r *Rewriter, opts Options) *FileProcessor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &FileProcessor{
		rewriter:      r,
		checkOnly:     opts.CheckOnly,
		skipGenerated: opts.SkipGenerated,
		logger:        logger,
		onChange:      opts.OnChange,
	}
}

// Process rewrites the imports of a single file.
// It reports whether the file was changed, or would be in check-only mode.
func (p *FileProcessor) Process(filename string) (bool, error) {
	code, err := os.ReadFile(filename)
	if err != nil {
		return false, &FileAccessError{Path: filename, Op: "read", Err: errors.Wrap(err, "reading file")}
	}

	if p.skipGenerated && IsGeneratedFile(code) {
		p.logger.Info("skipping generated file", slog.String("file", filename))
		return false, nil
	}

	result := p.rewriter.Rewrite(filename, string(code))
	if !result.Modified {
		return false, nil
	}

	if p.onChange != nil {
		p.onChange(filename, string(code), result.Content)
	}

	if p.checkOnly {
		p.logger.Info("would fix imports", slog.String("file", filename))
		return true, nil
	}

	// Existing files keep their permissions; the mode only applies on create.
	err = os.WriteFile(filename, []byte(result.Content), 0o644)
	if err != nil {
		return false, &FileAccessError{Path: filename, Op: "write", Err: errors.Wrap(err, "writing file")}
	}
	p.logger.Info("fixed imports", slog.String("file", filename))

	return true, nil
}

// ProcessFiles loads the aliases from configPath once and processes every file in order.
// Without KeepGoing the first file error stops the batch and the partial summary is returned.
func ProcessFiles(filePaths []string, configPath string, opts Options) (entities.Summary, error) {
	summary := entities.Summary{Total: len(filePaths)}

	aliases, err := config.LoadAliases(configPath)
	if err != nil {
		return summary, err
	}

	processor := NewFileProcessor(New(aliases, opts.Logger), opts)

	for _, file := range filePaths {
		absPath := file
		if !filepath.IsAbs(file) {
			absPath, err = filepath.Abs(file)
			if err != nil {
				return summary, errors.Wrapf(err, "resolving %s", file)
			}
		}

		modified, procErr := processor.Process(absPath)
		if modified {
			summary.Modified++
		}
		if procErr == nil {
			continue
		}

		if !opts.KeepGoing {
			return summary, procErr
		}

		processor.logger.Debug("skipping file after error", slog.String("file", absPath), slog.Any("error", procErr))
		summary.Failures = append(summary.Failures, entities.FileFailure{Path: absPath, Err: procErr})
	}

	return summary, nil
}
