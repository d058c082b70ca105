// Package markdown renders extracted HTML fragments as cleaned-up markdown,
// which keeps list and heading structure that plain text flattening loses.
package markdown

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var excessiveNewlines = regexp.MustCompile(`\n{3,}`)

// Convert turns an HTML fragment into markdown, stripping non-content
// elements first. Returns "" when the fragment has no usable content.
func Convert(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	// goquery wraps fragments in a synthetic html/body.
	sel := doc.Find("body")
	sel.Find("script, style, noscript, nav, form, iframe, svg, button, input").Each(func(_ int, s *goquery.Selection) { s.Remove() })

	body, err := sel.Html()
	if err != nil {
		return ""
	}

	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertString(body)
	if err != nil {
		return ""
	}

	out = excessiveNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
