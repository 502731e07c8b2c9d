package renderer

import (
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var markdownPolicy = bluemonday.UGCPolicy()

// Markdown renders text block content to sanitized HTML.
func Markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.HardLineBreak
	p := parser.NewWithExtensions(extensions)
	html := markdown.ToHTML([]byte(src), p, nil)
	return template.HTML(markdownPolicy.SanitizeBytes(html))
}
