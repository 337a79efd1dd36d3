package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF extracts text page by page. Each non-empty cleaned page is
// prefixed with a "--- PAGE N ---" marker. Panics raised by the pdf library
// on malformed input are returned as ErrPDFExtraction.
func ExtractPDF(data []byte) (text string, err error) {
	defer recoverPDF(&err)

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPDFExtraction, err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		raw, err := pageText(page)
		if err != nil || strings.TrimSpace(raw) == "" {
			continue
		}
		cleaned := CleanText(raw)
		if cleaned == "" {
			continue
		}
		fmt.Fprintf(&b, "\n--- PAGE %d ---\n", i)
		b.WriteString(cleaned)
		b.WriteString("\n")
	}

	text = strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNoReadableText
	}
	return text, nil
}

// pageText recovers from the panics the pdf library raises on malformed content streams
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page text: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

func recoverPDF(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrPDFExtraction, r)
	}
}
