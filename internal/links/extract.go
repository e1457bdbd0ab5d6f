// Package links extracts outbound wiki-links from parsed notes and folds them
// into a reverse index of backlinks.
package links

import (
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/starford/janitor/internal/backlinks"
	"github.com/starford/janitor/internal/markdown"
)

// Link is an outbound reference found in a note. Context is the closest
// enclosing block, or nil when the link sits outside any recognised block.
type Link struct {
	Target  string
	Context *markdown.Block
}

// Extract returns the wiki-links of tree in document order. Links inside the
// note's own backlinks section are skipped: they were generated from other
// notes and do not belong to this one.
func Extract(tree *markdown.Tree) []Link {
	var out []Link

	var visit func(n, context ast.Node)
	visit = func(n, context ast.Node) {
		if isBlockContent(n) {
			context = n
		}
		if wl, ok := n.(*markdown.WikiLink); ok {
			link := Link{Target: wl.Title()}
			if context != nil {
				link.Context = &markdown.Block{Node: context, Source: tree.Body}
			}
			out = append(out, link)
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			visit(c, context)
		}
	}

	for _, n := range backlinks.Locate(tree).Outside(tree) {
		visit(n, nil)
	}
	return out
}

// isBlockContent reports whether n can serve as a link's context.
func isBlockContent(n ast.Node) bool {
	switch n.(type) {
	case *ast.Paragraph, *ast.TextBlock,
		*ast.Heading,
		*ast.ThematicBreak,
		*ast.Blockquote,
		*ast.List,
		*east.Table,
		*ast.HTMLBlock,
		*ast.CodeBlock, *ast.FencedCodeBlock:
		return true
	default:
		return false
	}
}
