// Package markdown turns admin-authored Markdown into HTML and derives plain
// text excerpts.
package markdown

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	nethtml "golang.org/x/net/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
		// authors are trusted admins and may embed raw HTML
		htmlrenderer.WithUnsafe(),
	),
)

var (
	tagPattern        = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Render converts Markdown to HTML. Text that already starts with an HTML
// tag is returned unchanged.
func Render(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if looksLikeHTML(text) {
		return text
	}
	var buf bytes.Buffer
	if err := engine.Convert([]byte(text), &buf); err != nil {
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return strings.TrimSpace(buf.String())
}

// Excerpt returns up to max runes of plain text taken from HTML or Markdown
// content, ending with an ellipsis when truncated.
func Excerpt(content string, max int) string {
	plain := strings.TrimSpace(whitespacePattern.ReplaceAllString(plainText(Render(content)), " "))
	if max <= 0 || utf8.RuneCountInString(plain) <= max {
		return plain
	}
	runes := []rune(plain)
	cut := string(runes[:max])
	if runes[max] != ' ' {
		// avoid ending mid-word
		if i := strings.LastIndex(cut, " "); i > len(cut)/2 {
			cut = cut[:i]
		}
	}
	return strings.TrimSpace(cut) + "…"
}

// plainText returns the text nodes of an HTML fragment with entities
// decoded. Script and style bodies are dropped.
func plainText(fragment string) string {
	var (
		b    strings.Builder
		skip int
	)
	z := nethtml.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return b.String()
		case nethtml.StartTagToken:
			if name, _ := z.TagName(); isRawText(name) {
				skip++
			}
			b.WriteByte(' ')
		case nethtml.EndTagToken:
			if name, _ := z.TagName(); isRawText(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case nethtml.SelfClosingTagToken:
			b.WriteByte(' ')
		case nethtml.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawText(tag []byte) bool {
	return string(tag) == "script" || string(tag) == "style"
}

func looksLikeHTML(text string) bool {
	if !strings.HasPrefix(text, "<") {
		return false
	}
	return tagPattern.MatchString(text)
}
