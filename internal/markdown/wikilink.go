package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindWikiLink is the node kind of a [[wiki-link]].
var KindWikiLink = ast.NewNodeKind("WikiLink")

// WikiLink is an inline [[Target]] or [[Target|Alias]] reference.
type WikiLink struct {
	ast.BaseInline
	Target []byte
	Alias  []byte
}

// Kind implements ast.Node.
func (n *WikiLink) Kind() ast.NodeKind {
	return KindWikiLink
}

// Dump implements ast.Node.
func (n *WikiLink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target": string(n.Target),
		"Alias":  string(n.Alias),
	}, nil)
}

// Title returns the title of the note the link points at.
func (n *WikiLink) Title() string {
	return string(n.Target)
}

// Label returns the text a reader sees: the alias when set, else the target.
func (n *WikiLink) Label() string {
	if len(n.Alias) > 0 {
		return string(n.Alias)
	}
	return string(n.Target)
}

// NewWikiLink returns a wiki-link node pointing at target.
func NewWikiLink(target, alias string) *WikiLink {
	n := &WikiLink{Target: []byte(target)}
	if alias != "" {
		n.Alias = []byte(alias)
	}
	return n
}

type wikiLinkParser struct{}

func (p *wikiLinkParser) Trigger() []byte {
	return []byte{'['}
}

func (p *wikiLinkParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 5 || line[0] != '[' || line[1] != '[' {
		return nil
	}
	end := bytes.Index(line[2:], []byte("]]"))
	if end < 0 {
		return nil
	}
	inner := line[2 : 2+end]
	if bytes.ContainsAny(inner, "[]\n") {
		return nil
	}
	target, alias := inner, []byte(nil)
	if i := bytes.IndexByte(inner, '|'); i >= 0 {
		target, alias = inner[:i], bytes.TrimSpace(inner[i+1:])
	}
	target = bytes.TrimSpace(target)
	if len(target) == 0 {
		return nil
	}
	block.Advance(2 + end + 2)
	return &WikiLink{
		Target: append([]byte(nil), target...),
		Alias:  append([]byte(nil), alias...),
	}
}

type wikiLinkExtension struct{}

// WikiLinks is a goldmark extension recognising [[wiki-links]].
// It runs ahead of the standard link parser so that [[x]] never becomes a
// bracketed link reference.
var WikiLinks goldmark.Extender = &wikiLinkExtension{}

func (e *wikiLinkExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&wikiLinkParser{}, 199),
	))
}
