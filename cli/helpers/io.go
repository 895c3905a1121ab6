package helpers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/compozy/pdftab/engine/batch"
	"github.com/compozy/pdftab/pkg/logger"
)

// ExpandInputs resolves each argument in order. Plain paths are kept as given
// and must exist; glob patterns expand to their matches sorted by path. A
// pattern without matches is an error, and a file named twice is read twice.
func ExpandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !hasMeta(arg) {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, NewCliError("INPUT_NOT_FOUND", "Input file not found", arg).WithCause(err)
			}
			if info.IsDir() {
				return nil, NewCliError("INPUT_IS_DIRECTORY", "Input is a directory", arg)
			}
			out = append(out, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, NewCliError("INVALID_GLOB", "Invalid glob pattern", arg).WithCause(err)
		}
		if len(matches) == 0 {
			return nil, NewCliError("NO_MATCHES", "Glob pattern matched no files", arg)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// ReadDocuments loads the files in order. The document name is the base name.
func ReadDocuments(ctx context.Context, paths []string) ([]batch.Document, error) {
	log := logger.FromContext(ctx)
	docs := make([]batch.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		log.Debug("Read input", "path", path, "bytes", len(data))
		docs = append(docs, batch.Document{Name: filepath.Base(path), Data: data})
	}
	return docs, nil
}

// WriteOutput writes data to path, or to stdout when path is empty or "-".
// Parent directories are created as needed.
func WriteOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == StdoutPath {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
