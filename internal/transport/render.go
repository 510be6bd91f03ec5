package transport

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	// Captures carry arbitrary user text; everything outside the UGC
	// allowlist is stripped before it reaches a browser.
	sanitizer = bluemonday.UGCPolicy()
)

// renderHTML converts capture markdown to sanitized HTML.
func renderHTML(source string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}
	return sanitizer.SanitizeBytes(buf.Bytes()), nil
}
