package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitSentences splits text at '.', '!' or '?' followed by whitespace or
// the end of text, so decimals such as 75.5% stay whole. Trailing
// terminators are stripped and only sentences longer than minLen are kept.
func SplitSentences(text string, minLen int) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimRight(strings.TrimSpace(current.String()), ".!?")
		sentence = strings.TrimSpace(sentence)
		if utf8.RuneCountInString(sentence) > minLen {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		if r == '\n' || r == '\r' {
			r = ' '
		}
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			next, _ := utf8.DecodeRuneInString(text[i+1:])
			if i+1 >= len(text) || unicode.IsSpace(next) {
				flush()
			}
		}
	}
	if current.Len() > 0 {
		flush()
	}

	return sentences
}
