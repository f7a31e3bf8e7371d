package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lumora-ai/lumora/internal/store"
)

// TextExtractor turns raw file bytes into plain text. Rich formats (PDF,
// DOCX, ...) are external collaborators; the built-in extractor covers the
// plain-text family and degrades everything else to an empty string rather
// than failing ingestion.
type TextExtractor interface {
	Extract(content []byte, extension string) (string, error)
}

var (
	htmlTagPattern    = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>|<[^>]*>`)
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)
)

// PlainTextExtractor handles txt, md, csv and json pass-through plus a
// tag-stripping pass for html.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

func (e *PlainTextExtractor) Extract(content []byte, extension string) (string, error) {
	switch strings.ToLower(extension) {
	case ".txt", ".md", ".csv", ".json":
		return string(content), nil
	case ".html":
		text := htmlTagPattern.ReplaceAllString(string(content), "\n")
		text = blankLinesPattern.ReplaceAllString(text, "\n\n")
		return strings.TrimSpace(text), nil
	default:
		if store.ModalityForFilename("f"+extension) == store.ModalityDocument {
			// Known document format without a wired extractor.
			return "", nil
		}
		return "", fmt.Errorf("unsupported document extension %q", extension)
	}
}
