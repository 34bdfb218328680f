// Package richtext renders product descriptions to sanitized HTML. The CMS
// authors copy as html, markdown, or plaintext; whichever variant is present
// wins, in that order.
package richtext

import (
	"bytes"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/gildedlane/storefront-web/internal/catalog"
)

var (
	policy   = bluemonday.UGCPolicy()
	markdown = goldmark.New()
)

// Render converts the description to HTML safe for template injection.
// Returns empty when no variant is present.
func Render(d catalog.Description) template.HTML {
	switch {
	case d.HTML != "":
		return template.HTML(policy.Sanitize(d.HTML))
	case d.Markdown != "":
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(d.Markdown), &buf); err != nil {
			// Fall back to treating the source as plain text.
			return renderPlain(d.Markdown)
		}
		return template.HTML(policy.SanitizeBytes(buf.Bytes()))
	case d.Plaintext != "":
		return renderPlain(d.Plaintext)
	default:
		return ""
	}
}

func renderPlain(text string) template.HTML {
	escaped := html.EscapeString(strings.TrimSpace(text))
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML("<p>" + escaped + "</p>")
}
