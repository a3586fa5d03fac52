package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// urlPattern matches http(s) URLs up to the next whitespace. Angle brackets
// and quotes end a URL so embedded markup is never swallowed into an href.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

var displayPolicy = newDisplayPolicy()

// newDisplayPolicy allows line breaks, links and light inline formatting.
// Fully qualified links get target="_blank" rel="noopener" added.
func newDisplayPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowElements("br", "p", "b", "strong", "i", "em", "code", "pre", "ul", "ol", "li", "blockquote")
	return p
}

// FormatForDisplay converts an assistant reply to HTML: URLs become links
// that open in a new context and newlines become <br>. Markup in the reply
// is sanitised first, so replies cannot inject script or event handlers.
// Links are added to the sanitised text nodes, so a URL is linked even when
// net/url cannot parse it.
func FormatForDisplay(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	clean := displayPolicy.Sanitize(strings.ReplaceAll(text, "\n", "<br>"))

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(clean))
	inAnchor := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return b.String()
		}
		if tt != html.TextToken || inAnchor > 0 {
			if name, _ := z.TagName(); string(name) == "a" {
				switch tt {
				case html.StartTagToken:
					inAnchor++
				case html.EndTagToken:
					if inAnchor > 0 {
						inAnchor--
					}
				}
			}
			b.Write(z.Raw())
			continue
		}
		linkify(&b, string(z.Text()))
	}
}

// linkify writes text escaped, wrapping each URL in an anchor
func linkify(b *strings.Builder, text string) {
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		url := html.EscapeString(text[loc[0]:loc[1]])
		fmt.Fprintf(b, `<a href="%s" target="_blank" rel="noopener">%s</a>`, url, url)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
}

// EscapeUserText renders user input as inert text.
func EscapeUserText(text string) string {
	return html.EscapeString(text)
}
