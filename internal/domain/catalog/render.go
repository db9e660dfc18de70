package catalog

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Typographer))

// RenderHTML converts a markdown body to HTML. Raw HTML in the source is
// omitted.
func RenderHTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderedPage is a page together with its HTML body.
type RenderedPage struct {
	Page
	HTML string `json:"html"`
}
