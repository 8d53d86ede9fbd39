package views

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/eringen/minicodelab"
)

var funcs = template.FuncMap{
	"markdown":   Markdown,
	"formatDate": FormatDate,
	"tagClass":   TagClass,
	"tagColor":   TagColorClass,
	"joinTags":   minicodelab.JoinTags,
	"uploadURL":  minicodelab.UploadURL,
	"year":       func() int { return time.Now().Year() },
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Markdown converts a post body to HTML. Raw HTML in the source is
// dropped by the renderer.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// FormatDate renders a YYYY-MM-DD or RFC 3339 date as "Jan 2, 2006".
// Anything else is returned unchanged.
func FormatDate(s string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag tag-active"
	}
	return "tag"
}

var notionColors = map[string]bool{
	"default": true, "gray": true, "brown": true, "orange": true, "yellow": true,
	"green": true, "blue": true, "purple": true, "pink": true, "red": true,
}

// TagColorClass maps a Notion option color to a CSS class. Unknown colors
// fall back to the default palette entry.
func TagColorClass(color string) string {
	color = strings.ToLower(strings.TrimSpace(color))
	if !notionColors[color] {
		color = "default"
	}
	return "tag-" + color
}
