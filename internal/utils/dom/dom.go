// Package dom wraps goquery behind a small read-only capability interface.
// Extraction code never touches the parse tree directly: every lookup returns
// an explicit "found" flag instead of a nil selection, so absent elements are
// handled at the call site rather than through silent empty strings.
package dom

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a read-only snapshot of a parsed HTML page.
type Document interface {
	// Exists reports whether at least one element matches the selector.
	Exists(selector string) bool
	// Text returns the trimmed text content of the first matching element.
	// ok is false when nothing matches.
	Text(selector string) (text string, ok bool)
	// HTML returns the inner HTML of the first matching element.
	// ok is false when nothing matches.
	HTML(selector string) (html string, ok bool)
	// Scan returns all elements matching the selector, in document order.
	Scan(selector string) []Node
}

// Node is one element captured during a broad structural scan.
type Node interface {
	// Tag returns the lowercase element name ("h1", "p", "div", ...).
	Tag() string
	// Text returns the trimmed text content of the element.
	Text() string
}

// Source produces Document snapshots of a page. A static source returns the
// same parsed tree every call; a live browser source re-reads the rendered
// markup, which is what makes readiness polling meaningful.
type Source interface {
	Snapshot(ctx context.Context) (Document, error)
	Close() error
}

type document struct {
	doc *goquery.Document
}

// Parse builds a Document from raw HTML.
func Parse(html string) (Document, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &document{doc: gq}, nil
}

func (d *document) Exists(selector string) bool {
	return d.doc.Find(selector).Length() > 0
}

func (d *document) Text(selector string) (string, bool) {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.First().Text()), true
}

func (d *document) HTML(selector string) (string, bool) {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return "", false
	}
	html, err := sel.First().Html()
	if err != nil {
		return "", false
	}
	return html, true
}

func (d *document) Scan(selector string) []Node {
	var nodes []Node
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &node{sel: s})
	})
	return nodes
}

type node struct {
	sel *goquery.Selection
}

func (n *node) Tag() string {
	return goquery.NodeName(n.sel)
}

func (n *node) Text() string {
	return strings.TrimSpace(n.sel.Text())
}

// StaticSource wraps an already-parsed Document as a Source. Snapshots always
// return the same tree; server-rendered pages never change after fetch.
type StaticSource struct {
	Doc Document
}

func (s *StaticSource) Snapshot(_ context.Context) (Document, error) {
	if s.Doc == nil {
		return nil, fmt.Errorf("document unavailable")
	}
	return s.Doc, nil
}

func (s *StaticSource) Close() error { return nil }
