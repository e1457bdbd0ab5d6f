package markdown

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Start returns the offset in Body of the first byte of the line on which
// the top-level block n begins.
func (t *Tree) Start(n ast.Node) int {
	if fc, ok := n.(*ast.FencedCodeBlock); ok {
		// The fence line carries no content segment of its own.
		if fc.Info != nil {
			return lineStart(t.Body, fc.Info.Segment.Start)
		}
		if fc.Lines().Len() > 0 {
			return lineStart(t.Body, lineStart(t.Body, fc.Lines().At(0).Start)-1)
		}
	} else if seg, ok := firstSegment(n); ok {
		return lineStart(t.Body, seg.Start)
	}

	from := 0
	if prev := n.PreviousSibling(); prev != nil {
		from = t.End(prev)
	}
	return skipBlankLines(t.Body, from)
}

// End returns the offset in Body just past the last line belonging to n.
func (t *Tree) End(n ast.Node) int {
	if fc, ok := n.(*ast.FencedCodeBlock); ok {
		pos := nextLine(t.Body, t.Start(fc)+1)
		if fc.Lines().Len() > 0 {
			pos = fc.Lines().At(fc.Lines().Len() - 1).Stop
		}
		return skipFence(t.Body, pos)
	}
	if seg, ok := lastSegment(n); ok {
		return seg.Stop
	}
	return t.Start(n)
}

// skipFence steps over a closing code fence at the line starting at i.
func skipFence(src []byte, i int) int {
	line := src[i:]
	if j := bytes.IndexByte(line, '\n'); j >= 0 {
		line = line[:j+1]
	}
	trimmed := bytes.TrimLeft(line, " ")
	if bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~")) {
		return i + len(line)
	}
	return i
}

func firstSegment(n ast.Node) (text.Segment, bool) {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0), true
	}
	if tn, ok := n.(*ast.Text); ok {
		return tn.Segment, true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if seg, ok := firstSegment(c); ok {
			return seg, true
		}
	}
	return text.Segment{}, false
}

func lastSegment(n ast.Node) (text.Segment, bool) {
	if hb, ok := n.(*ast.HTMLBlock); ok && hb.HasClosure() {
		return hb.ClosureLine, true
	}
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(n.Lines().Len() - 1), true
	}
	if tn, ok := n.(*ast.Text); ok {
		return tn.Segment, true
	}
	for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
		if seg, ok := lastSegment(c); ok {
			return seg, true
		}
	}
	return text.Segment{}, false
}

func lineStart(src []byte, i int) int {
	if i > len(src) {
		i = len(src)
	}
	for i > 0 && src[i-1] != '\n' {
		i--
	}
	return i
}

// skipBlankLines advances from i to the start of the next line holding
// anything other than whitespace.
func skipBlankLines(src []byte, i int) int {
	i = nextLine(src, i)
	for i < len(src) {
		j := i
		for j < len(src) && (src[j] == ' ' || src[j] == '\t' || src[j] == '\r') {
			j++
		}
		if j < len(src) && src[j] != '\n' {
			return i
		}
		if j >= len(src) {
			return len(src)
		}
		i = j + 1
	}
	return len(src)
}

// nextLine returns i when it is at a line start, else the start of the
// following line.
func nextLine(src []byte, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(src) {
		return len(src)
	}
	if src[i-1] == '\n' {
		return i
	}
	for i < len(src) && src[i] != '\n' {
		i++
	}
	if i < len(src) {
		i++
	}
	return i
}
