package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Block is a block-level node together with the text it was parsed from.
// Contexts captured from one note are rendered while rewriting another, so
// the node never travels without its source.
type Block struct {
	Node   ast.Node
	Source []byte
}

// Markdown renders the block.
func (b Block) Markdown() string {
	return Render(b.Node, b.Source)
}

// Excerpt renders the block and keeps its first line.
func (b Block) Excerpt() string {
	s := b.Markdown()
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, " \t\r\\")
}
