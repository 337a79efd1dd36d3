// Package ingest loads documents and splits them into overlapping chunks
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidPath is returned when a document path is empty or does not exist
	ErrInvalidPath = errors.New("invalid file path or file does not exist")

	// ErrNoReadableText is returned when a PDF yields no text after cleaning
	ErrNoReadableText = errors.New("no readable text could be extracted from the PDF")

	// ErrPDFExtraction is returned when the PDF cannot be parsed at all
	ErrPDFExtraction = errors.New("error extracting PDF")
)

// Document is the text of one input file
type Document struct {
	Name string // Base file name, used as claim metadata source
	Text string
}

// Chunk is one piece of a split document
type Chunk struct {
	Text   string
	Source string // Document name the chunk came from
	Index  int    // Position in the split output
}

// LoadFile reads a document from disk, choosing the loader by extension
func LoadFile(path string) (*Document, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInvalidPath
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return FromBytes(filepath.Base(path), "", data)
}

// FromBytes builds a document from uploaded bytes.
// fileType "pdf" or a .pdf name selects the PDF loader, anything else is text.
func FromBytes(name, fileType string, data []byte) (*Document, error) {
	if isPDF(name, fileType) {
		text, err := ExtractPDF(data)
		if err != nil {
			return nil, err
		}
		return &Document{Name: name, Text: text}, nil
	}

	return &Document{Name: name, Text: DecodeText(data)}, nil
}

// DecodeText decodes bytes as UTF-8, dropping invalid sequences
func DecodeText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

func isPDF(name, fileType string) bool {
	if strings.EqualFold(strings.TrimSpace(fileType), "pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
