// Package markdown flattens model answers, which usually arrive as
// Markdown, into plain text suitable for a chat message.
package markdown

import (
	"html"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var (
	reListItem   = regexp.MustCompile(`(?i)<li>\s*`)
	reBlockClose = regexp.MustCompile(`(?i)</(p|h[1-6]|li|pre|blockquote|tr)>`)
	reBreak      = regexp.MustCompile(`(?i)<br\s*/?>`)
	reTag        = regexp.MustCompile(`<[^>]+>`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
)

// ToHTML renders md with the common extensions and no typographic
// substitutions.
func ToHTML(md []byte) string {
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.FlagsNone})
	p := parser.NewWithExtensions(parser.CommonExtensions)
	return string(markdown.Render(p.Parse(md), renderer))
}

// ToPlainText renders md and strips the markup. List items keep a bullet
// and block elements are separated by line breaks.
func ToPlainText(md []byte) string {
	out := ToHTML(md)
	out = reListItem.ReplaceAllString(out, "• ")
	out = reBlockClose.ReplaceAllString(out, "\n")
	out = reBreak.ReplaceAllString(out, "\n")
	out = reTag.ReplaceAllString(out, "")
	out = html.UnescapeString(out)
	out = reBlankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
