// Package markdown parses notes into goldmark syntax trees that understand
// [[wiki-links]], and renders trees back to Markdown with fixed style choices.
package markdown

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Table, WikiLinks),
)

// Tree is a parsed note.
//
// Frontmatter is kept out of the syntax tree: Body is Source with the
// frontmatter block removed, and every offset reported by the tree is
// relative to Body.
type Tree struct {
	Source      []byte
	Body        []byte
	Frontmatter map[string]any
	Doc         *ast.Document
}

// Parse parses raw note text. It never fails: malformed Markdown degrades
// through the CommonMark grammar.
func Parse(src []byte) *Tree {
	fm, off := splitFrontmatter(src)
	body := src[off:]
	doc := md.Parser().Parse(text.NewReader(body)).(*ast.Document)
	return &Tree{
		Source:      src,
		Body:        body,
		Frontmatter: fm,
		Doc:         doc,
	}
}

// Prefix returns the raw text that precedes Body (the frontmatter block).
func (t *Tree) Prefix() []byte {
	return t.Source[:len(t.Source)-len(t.Body)]
}

// Children returns the top-level blocks of the document in order.
func (t *Tree) Children() []ast.Node {
	var out []ast.Node
	for c := t.Doc.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

// Title returns the note title: the frontmatter "title" if present, otherwise
// the text of the first depth-1 heading, otherwise the base name of path
// without its extension.
func (t *Tree) Title(path string) string {
	if t.Frontmatter != nil {
		if s, ok := t.Frontmatter["title"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	for c := t.Doc.FirstChild(); c != nil; c = c.NextSibling() {
		if h, ok := c.(*ast.Heading); ok && h.Level == 1 {
			if title := strings.TrimSpace(PlainText(h, t.Body)); title != "" {
				return title
			}
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PlainText returns the visible text of an inline container.
func PlainText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(c.Value)
		case *ast.CodeSpan:
			buf.WriteString(codeSpanText(c, source))
		case *WikiLink:
			buf.WriteString(c.Label())
		default:
			buf.WriteString(PlainText(c, source))
		}
	}
	return buf.String()
}

// FirstText returns the value of n's first child when that child is a text
// node, and false otherwise.
func FirstText(n ast.Node, source []byte) (string, bool) {
	c, ok := n.FirstChild().(*ast.Text)
	if !ok {
		return "", false
	}
	return string(c.Segment.Value(source)), true
}
