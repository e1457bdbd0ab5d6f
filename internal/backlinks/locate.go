// Package backlinks finds and rewrites the generated "Backlinks" section of
// a note.
package backlinks

import (
	"bytes"

	"github.com/yuin/goldmark/ast"

	"github.com/starford/janitor/internal/markdown"
)

// Heading is the text of the level-2 heading that opens the section.
const Heading = "Backlinks"

const closingMarker = "<!--"

// Block describes where a note's backlinks section is, or would go.
//
// When Present, the section runs from the Start heading up to (not including)
// Until, or to the end of the document when Until is nil. Otherwise
// InsertionPoint is the first closing-matter node, or nil to append.
type Block struct {
	Present        bool
	Start          ast.Node
	Until          ast.Node
	InsertionPoint ast.Node
}

// Locate finds the backlinks section among the top-level blocks of tree.
func Locate(tree *markdown.Tree) Block {
	var start ast.Node
	for c := tree.Doc.FirstChild(); c != nil; c = c.NextSibling() {
		if isBacklinksHeading(c, tree.Body) {
			start = c
			break
		}
	}

	if start == nil {
		var insertion ast.Node
		for c := tree.Doc.FirstChild(); c != nil; c = c.NextSibling() {
			if IsClosingMatter(c, tree.Body) {
				insertion = c
				break
			}
		}
		return Block{InsertionPoint: insertion}
	}

	var until ast.Node
	for c := start.NextSibling(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.Heading); ok || IsClosingMatter(c, tree.Body) {
			until = c
			break
		}
	}
	return Block{Present: true, Start: start, Until: until}
}

// Span returns the byte range of tree.Body occupied by the section. An absent
// section has an empty span at its insertion offset.
func (b Block) Span(tree *markdown.Tree) (start, end int) {
	if !b.Present {
		if b.InsertionPoint == nil {
			return len(tree.Body), len(tree.Body)
		}
		off := tree.Start(b.InsertionPoint)
		return off, off
	}
	start = tree.Start(b.Start)
	end = len(tree.Body)
	if b.Until != nil {
		end = tree.Start(b.Until)
	}
	return start, end
}

// Outside returns the top-level blocks of tree that are not part of the
// section, in document order.
func (b Block) Outside(tree *markdown.Tree) []ast.Node {
	var out []ast.Node
	inside := false
	for c := tree.Doc.FirstChild(); c != nil; c = c.NextSibling() {
		switch {
		case b.Present && c == b.Start:
			inside = true
		case inside && c == b.Until:
			inside = false
		}
		if !inside {
			out = append(out, c)
		}
	}
	return out
}

// IsClosingMatter reports whether n is a comment-like block whose text begins
// with "<!--". Such blocks mark trailing matter that generated sections must
// stay above.
func IsClosingMatter(n ast.Node, source []byte) bool {
	hb, ok := n.(*ast.HTMLBlock)
	if !ok || hb.Lines().Len() == 0 {
		return false
	}
	seg := hb.Lines().At(0)
	first := seg.Value(source)
	return bytes.HasPrefix(bytes.TrimLeft(first, " "), []byte(closingMarker))
}

func isBacklinksHeading(n ast.Node, source []byte) bool {
	h, ok := n.(*ast.Heading)
	if !ok || h.Level != 2 {
		return false
	}
	text, ok := markdown.FirstText(h, source)
	return ok && text == Heading
}
