package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NoEvidenceText is the wire form of empty evidence
const NoEvidenceText = "No reliable evidence was found."

// EvidenceItem is a single piece of retrieved evidence, owned by one claim
type EvidenceItem struct {
	SourceQuery      string `json:"source_query"`      // Query that surfaced this item
	RetrievedContent string `json:"retrieved_content"` // Chunk text or web snippet
	Source           string `json:"source"`            // Corpus document name, "Local Paper" or "Web"
	RelevanceScore   int    `json:"relevance_score"`   // Query-term hits; 0 for web results
}

// Evidence is either empty or a list of items.
// On the wire empty evidence is the NoEvidenceText string, otherwise an array.
type Evidence struct {
	Items []EvidenceItem
}

// NoEvidence returns the empty variant
func NoEvidence() Evidence {
	return Evidence{}
}

// EvidenceOf returns the items variant, or the empty variant for no items
func EvidenceOf(items []EvidenceItem) Evidence {
	if len(items) == 0 {
		return NoEvidence()
	}
	return Evidence{Items: items}
}

// IsEmpty reports whether no evidence was found
func (e Evidence) IsEmpty() bool {
	return len(e.Items) == 0
}

// Len returns the number of evidence items
func (e Evidence) Len() int {
	return len(e.Items)
}

// MarshalJSON encodes empty evidence as the sentinel string
func (e Evidence) MarshalJSON() ([]byte, error) {
	if e.IsEmpty() {
		return json.Marshal(NoEvidenceText)
	}
	return json.Marshal(e.Items)
}

// UnmarshalJSON accepts either the sentinel string or an item array
func (e *Evidence) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		e.Items = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		e.Items = nil
		return nil
	case '[':
		var items []EvidenceItem
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		e.Items = items
		return nil
	default:
		return fmt.Errorf("evidence: unexpected JSON %q", data[:1])
	}
}

// WebSource is a synthesized or live web evidence source attached to a claim
type WebSource struct {
	Title          string `json:"title"`
	URL            string `json:"url"`
	Snippet        string `json:"snippet"`
	SourceType     string `json:"source_type"` // Government, Academic, Financial, Non-profit, News Media, Industry
	RelevanceScore int    `json:"relevance_score"`
	SearchQuery    string `json:"search_query"`
}
