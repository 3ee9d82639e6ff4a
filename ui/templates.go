package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": renderMarkdown,
		"inline":   renderInlineMarkdown,
		// chart markup is generated server-side from report data
		"svg": func(s string) template.HTML { return template.HTML(s) },
		"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) },
		"add": func(a, b int) int { return a + b },
	}
}

// renderMarkdown converts a markdown fragment to HTML. Raw HTML in the input
// is skipped.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.HrefTargetBlank | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}

// renderInlineMarkdown is renderMarkdown without the wrapping paragraph
func renderInlineMarkdown(md string) template.HTML {
	out := strings.TrimSpace(string(renderMarkdown(md)))
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return template.HTML(out)
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// Render to a buffer first so a template error never leaves a half-written page
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template error for %s: %v", templateName, err)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	if !strings.Contains(buf.String(), "</html>") {
		s.logger.Warn("rendered template %s appears truncated - missing </html> tag", templateName)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Error("error writing template response: %v", err)
	}
}
