// Package corpus holds the read-only evidence corpus claims are searched against
package corpus

import (
	"regexp"
	"strings"

	"github.com/ppiankov/claimaudit/internal/ingest"
)

// LocalSource is the item source used for chunks without a source name
const LocalSource = "Local Paper"

var termRe = regexp.MustCompile(`\w+`)

// Corpus is an immutable list of evidence chunks
type Corpus struct {
	chunks []ingest.Chunk
}

// Match is a chunk that shares at least one term with a query
type Match struct {
	Chunk  ingest.Chunk
	Source string // Chunk source name, or LocalSource
	Score  int    // Number of distinct query terms found in the chunk
}

// New creates a corpus over chunks. The slice is copied.
func New(chunks []ingest.Chunk) *Corpus {
	return &Corpus{chunks: append([]ingest.Chunk(nil), chunks...)}
}

// Len returns the number of chunks; safe on a nil corpus
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.chunks)
}

// Chunks returns a copy of the corpus chunks
func (c *Corpus) Chunks() []ingest.Chunk {
	if c == nil {
		return nil
	}
	return append([]ingest.Chunk(nil), c.chunks...)
}

// Search scores every chunk against the query and returns those with a
// positive score, in corpus order. A term counts once per chunk however
// often it occurs, and matches as a substring of the lower-cased text.
func (c *Corpus) Search(query string) []Match {
	if c == nil {
		return nil
	}
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}

	var matches []Match
	for _, chunk := range c.chunks {
		lower := strings.ToLower(chunk.Text)
		score := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		if score == 0 {
			continue
		}
		source := chunk.Source
		if source == "" {
			source = LocalSource
		}
		matches = append(matches, Match{Chunk: chunk, Source: source, Score: score})
	}
	return matches
}

// Terms returns the distinct lower-cased word terms of a query in first-seen order
func Terms(query string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, t := range termRe.FindAllString(strings.ToLower(query), -1) {
		if seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}
	return terms
}
