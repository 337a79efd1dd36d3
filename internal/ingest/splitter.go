package ingest

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// DefaultSeparators are tried in order, coarsest first
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter is a recursive character splitter. Text is cut at the coarsest
// separator present; pieces still longer than the chunk size are split again
// with the next separator. Adjacent pieces are merged up to the chunk size,
// carrying up to the overlap between neighbouring chunks.
type Splitter struct {
	splitter textsplitter.RecursiveCharacter
}

// NewSplitter creates a splitter with the default separators
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 2000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &Splitter{splitter: textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators(DefaultSeparators),
	)}
}

// Split splits a document into ordered chunks
func (s *Splitter) Split(doc *Document) []Chunk {
	if doc == nil {
		return nil
	}
	texts := s.SplitText(doc.Text)
	chunks := make([]Chunk, 0, len(texts))
	for i, t := range texts {
		chunks = append(chunks, Chunk{Text: t, Source: doc.Name, Index: i})
	}
	return chunks
}

// SplitText splits raw text into chunk strings. Blank chunks are dropped.
func (s *Splitter) SplitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	// RecursiveCharacter never fails on plain text
	parts, _ := s.splitter.SplitText(text)
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
