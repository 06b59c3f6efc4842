// Package ingest drives the document pipeline: discovery, chunking,
// collection assignment and submission to the vector store.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/calluna-labs/corpus/internal/chunk"
)

// exampleText is written as example.txt when the data directory holds
// no documents, so a run never operates on an empty corpus.
const exampleText = `Это своего рода «ужин размышлений» и обмен человеческими качествами полезности и интересов.`

// Document is a source file read into memory, immutable for the rest
// of the run.
type Document struct {
	// Content is the full text of the file.
	Content string

	// Name is the base file name including extension.
	Name string

	// ID is the file name without extension, used for collection
	// naming.
	ID string

	// WordCount is the number of whitespace-delimited tokens.
	WordCount int
}

// DiscoverFiles returns paths under dir matching the given extensions
// (without leading dot). The directory is created if missing. Results
// are sorted for deterministic runs.
func DiscoverFiles(dir string, extensions []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	var paths []string
	for _, ext := range extensions {
		pattern := filepath.Join(dir, "*."+strings.TrimPrefix(ext, "."))
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}

	sort.Strings(paths)
	return paths, nil
}

// LoadDocument reads a file into a Document.
func LoadDocument(path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	name := filepath.Base(path)
	text := string(content)
	return Document{
		Content:   text,
		Name:      name,
		ID:        strings.TrimSuffix(name, filepath.Ext(name)),
		WordCount: chunk.CountWords(text),
	}, nil
}

// WriteExample writes the placeholder example document into dir and
// returns its path.
func WriteExample(dir string) (string, error) {
	path := filepath.Join(dir, "example.txt")
	if err := os.WriteFile(path, []byte(exampleText), 0o644); err != nil {
		return "", fmt.Errorf("writing example document: %w", err)
	}
	return path, nil
}
