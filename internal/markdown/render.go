package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Render serializes a document or block back to Markdown.
//
// Style is fixed so that output is a function of the tree alone: "*" bullets
// and emphasis, one space between list marker and content, ATX headings,
// "---" thematic breaks, fenced code with backticks, and every link written
// with an explicit (possibly empty) title.
func Render(n ast.Node, source []byte) string {
	r := &renderer{source: source}
	out := r.block(n)
	if _, ok := n.(*ast.Document); ok && out != "" {
		out += "\n"
	}
	return out
}

type renderer struct {
	source []byte
}

func (r *renderer) blocks(parent ast.Node, sep string) string {
	var parts []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		parts = append(parts, r.block(c))
	}
	return strings.Join(parts, sep)
}

func (r *renderer) block(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Document:
		return r.blocks(n, "\n\n")
	case *ast.Heading:
		marker := strings.Repeat("#", n.Level)
		if content := r.inlines(n); content != "" {
			return marker + " " + content
		}
		return marker
	case *ast.Paragraph, *ast.TextBlock:
		return r.inlines(n)
	case *ast.ThematicBreak:
		return "---"
	case *ast.CodeBlock:
		return prefixLines(trimNewline(r.lines(n)), "    ", "")
	case *ast.FencedCodeBlock:
		body := r.lines(n)
		fence := fenceFor(body, '`', 3)
		var info string
		if n.Info != nil {
			info = string(n.Info.Segment.Value(r.source))
		}
		return fence + info + "\n" + body + fence
	case *ast.Blockquote:
		return prefixLines(r.blocks(n, "\n\n"), "> ", ">")
	case *ast.List:
		return r.list(n)
	case *ast.ListItem:
		return r.blocks(n, "\n\n")
	case *ast.HTMLBlock:
		out := r.lines(n)
		if n.HasClosure() {
			out += string(n.ClosureLine.Value(r.source))
		}
		return trimNewline(out)
	case *east.Table:
		return r.table(n)
	default:
		if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
			return trimNewline(r.lines(n))
		}
		if n.Type() == ast.TypeInline {
			var b strings.Builder
			r.inline(&b, n)
			return b.String()
		}
		return r.blocks(n, "\n\n")
	}
}

func (r *renderer) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(r.source))
	}
	return b.String()
}

func (r *renderer) list(n *ast.List) string {
	sep := "\n"
	if !n.IsTight {
		sep = "\n\n"
	}
	num := n.Start
	var items []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		marker := "*"
		if n.IsOrdered() {
			marker = strconv.Itoa(num) + string(n.Marker)
			num++
		}
		body := r.blocks(c, sep)
		if body == "" {
			items = append(items, marker)
			continue
		}
		indent := strings.Repeat(" ", len(marker)+1)
		items = append(items, marker+" "+indentTail(body, indent))
	}
	return strings.Join(items, sep)
}

func (r *renderer) table(n *east.Table) string {
	var rows []string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(r.inlines(cell)))
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
		if _, ok := row.(*east.TableHeader); ok {
			rule := make([]string, len(n.Alignments))
			for i, a := range n.Alignments {
				switch a {
				case east.AlignLeft:
					rule[i] = ":---"
				case east.AlignRight:
					rule[i] = "---:"
				case east.AlignCenter:
					rule[i] = ":---:"
				default:
					rule[i] = "---"
				}
			}
			rows = append(rows, "| "+strings.Join(rule, " | ")+" |")
		}
	}
	return strings.Join(rows, "\n")
}

func (r *renderer) inlines(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(&b, c)
	}
	return b.String()
}

func (r *renderer) inline(b *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(r.source))
		switch {
		case n.HardLineBreak():
			b.WriteString("\\\n")
		case n.SoftLineBreak():
			b.WriteByte('\n')
		}
	case *ast.String:
		b.Write(n.Value)
	case *ast.Emphasis:
		marker := strings.Repeat("*", n.Level)
		b.WriteString(marker)
		b.WriteString(r.inlines(n))
		b.WriteString(marker)
	case *ast.CodeSpan:
		content := codeSpanText(n, r.source)
		fence := fenceFor(content, '`', 1)
		if strings.HasPrefix(content, "`") || strings.HasSuffix(content, "`") ||
			(strings.HasPrefix(content, " ") && strings.HasSuffix(content, " ") && strings.TrimSpace(content) != "") {
			content = " " + content + " "
		}
		b.WriteString(fence + content + fence)
	case *ast.Link:
		b.WriteString("[" + r.inlines(n) + "]")
		b.WriteString(destination(n.Destination, n.Title))
	case *ast.Image:
		b.WriteString("![" + r.inlines(n) + "]")
		b.WriteString(destination(n.Destination, n.Title))
	case *ast.AutoLink:
		b.WriteString("<" + string(n.Label(r.source)) + ">")
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(r.source))
		}
	case *WikiLink:
		b.WriteString("[[" + string(n.Target))
		if len(n.Alias) > 0 {
			b.WriteString("|" + string(n.Alias))
		}
		b.WriteString("]]")
	default:
		b.WriteString(r.inlines(n))
	}
}

// destination renders "(dest "title")". The title is always written, empty
// or not, so a link renders the same way on every cycle.
func destination(dest, title []byte) string {
	d := string(dest)
	if d == "" || strings.ContainsAny(d, " \t()<>") {
		d = "<" + strings.NewReplacer("<", `\<`, ">", `\>`).Replace(d) + ">"
	}
	t := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(string(title))
	return "(" + d + ` "` + t + `")`
}

func codeSpanText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
		case *ast.String:
			buf.Write(c.Value)
		}
	}
	return buf.String()
}

// fenceFor returns a run of ch longer than any run inside content, and at
// least minLen long.
func fenceFor(content string, ch byte, minLen int) string {
	longest, run := 0, 0
	for i := 0; i < len(content); i++ {
		if content[i] == ch {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat(string(ch), max(minLen, longest+1))
}

func trimNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}

// prefixLines prefixes every line of s; blank lines get blank instead.
func prefixLines(s, prefix, blank string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = blank
		} else {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// indentTail indents every non-blank line of s except the first.
func indentTail(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
