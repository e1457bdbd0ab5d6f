package markdown

import (
	"testing"

	"github.com/yuin/goldmark/ast"
)

func wikiLinks(t *Tree) []*WikiLink {
	var out []*WikiLink
	_ = ast.Walk(t.Doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if wl, ok := n.(*WikiLink); ok && entering {
			out = append(out, wl)
		}
		return ast.WalkContinue, nil
	})
	return out
}

func TestParse_WikiLinks(t *testing.T) {
	tree := Parse([]byte("See [[Note A]] and [[Note B|the alias]].\n"))
	links := wikiLinks(tree)
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(links))
	}
	if links[0].Title() != "Note A" || links[0].Label() != "Note A" {
		t.Errorf("first link = %q/%q", links[0].Title(), links[0].Label())
	}
	if links[1].Title() != "Note B" || links[1].Label() != "the alias" {
		t.Errorf("second link = %q/%q", links[1].Title(), links[1].Label())
	}
}

func TestParse_NotWikiLinks(t *testing.T) {
	cases := []string{
		"[[ ]]\n",
		"[[|alias]]\n",
		"[[unclosed\n",
		"[regular](http://example.com)\n",
		"`[[in code]]`\n",
		"    [[indented code]]\n",
	}
	for _, c := range cases {
		if got := wikiLinks(Parse([]byte(c))); len(got) != 0 {
			t.Errorf("%q: expected no wiki-links, got %d", c, len(got))
		}
	}
}

func TestParse_RegularLinkStillParsed(t *testing.T) {
	tree := Parse([]byte("[text](http://example.com)\n"))
	p := tree.Doc.FirstChild()
	if _, ok := p.FirstChild().(*ast.Link); !ok {
		t.Fatalf("expected link, got %T", p.FirstChild())
	}
}

func TestParse_FrontmatterExcluded(t *testing.T) {
	src := []byte("---\ntitle: From FM\n---\n# Heading\n\nBody.\n")
	tree := Parse(src)
	if tree.Frontmatter["title"] != "From FM" {
		t.Errorf("frontmatter = %v", tree.Frontmatter)
	}
	if string(tree.Prefix()) != "---\ntitle: From FM\n---\n" {
		t.Errorf("prefix = %q", tree.Prefix())
	}
	if _, ok := tree.Doc.FirstChild().(*ast.Heading); !ok {
		t.Errorf("first block = %T, want heading", tree.Doc.FirstChild())
	}
}

func TestParse_InvalidFrontmatterFallback(t *testing.T) {
	src := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	tree := Parse(src)
	if tree.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	if len(tree.Prefix()) != 0 {
		t.Errorf("prefix = %q, want empty", tree.Prefix())
	}
}

func TestTitle(t *testing.T) {
	cases := []struct {
		src, path, want string
	}{
		{"---\ntitle: FM Title\n---\n# H1 Title\n", "x.md", "FM Title"},
		{"some text\n\n# My Heading\n", "x.md", "My Heading"},
		{"## Only H2\n", "Fallback Name.md", "Fallback Name"},
		{"# *Styled* title\n", "x.md", "Styled title"},
	}
	for _, c := range cases {
		if got := Parse([]byte(c.src)).Title(c.path); got != c.want {
			t.Errorf("Title(%q) = %q, want %q", c.src, got, c.want)
		}
	}
}

func TestRender_RoundTrip(t *testing.T) {
	cases := []string{
		"# Title\n\nSome *emphasis* and **strong** text with `code`.\n",
		"* one\n* two\n\n> quoted\n\n---\n\n1. first\n2. second\n",
		"## Section\n\nA paragraph\nspanning lines.\n\n```go\nfmt.Println(\"hi\")\n```\n",
		"<!-- comment -->\n",
		"| a | b |\n| --- | :---: |\n| c | d |\n",
		"* outer\n  * inner\n* next\n",
	}
	for _, c := range cases {
		tree := Parse([]byte(c))
		if got := Render(tree.Doc, tree.Body); got != c {
			t.Errorf("round trip mismatch\n got: %q\nwant: %q", got, c)
		}
	}
}

func TestRender_Normalises(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Title\n=====\n", "# Title\n"},
		{"- a\n- b\n", "* a\n* b\n"},
		{"_em_ and __strong__\n", "*em* and **strong**\n"},
		{"***\n", "---\n"},
		{"[x](http://a.b)\n", "[x](http://a.b \"\")\n"},
		{"[x](http://a.b 'T')\n", "[x](http://a.b \"T\")\n"},
		{"See [[A|alias]] and [[B]]\n", "See [[A|alias]] and [[B]]\n"},
	}
	for _, c := range cases {
		tree := Parse([]byte(c.in))
		if got := Render(tree.Doc, tree.Body); got != c.want {
			t.Errorf("Render(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRender_Stable(t *testing.T) {
	src := "Setext\n---\n\n+ item with [link](<a b>)\n+ *x*\n\n    code\n"
	first := Parse([]byte(src))
	once := Render(first.Doc, first.Body)
	second := Parse([]byte(once))
	twice := Render(second.Doc, second.Body)
	if once != twice {
		t.Errorf("render not stable\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestStart(t *testing.T) {
	src := "# Title\n\nPara one\nline two.\n\n> quote\n\n```\ncode\n```\n\n---\n\n## Backlinks\n<!-- end -->\n"
	tree := Parse([]byte(src))
	want := []string{"# Title", "Para one", "> quote", "```", "---", "## Backlinks", "<!-- end -->"}
	children := tree.Children()
	if len(children) != len(want) {
		t.Fatalf("children = %d, want %d", len(children), len(want))
	}
	for i, c := range children {
		off := tree.Start(c)
		got := string(tree.Body[off:])
		if len(got) < len(want[i]) || got[:len(want[i])] != want[i] {
			t.Errorf("child %d (%T) starts at %q, want prefix %q", i, c, got, want[i])
		}
	}
}

func TestBlockExcerpt(t *testing.T) {
	tree := Parse([]byte("First line with [[A]]\nsecond line.\n"))
	b := Block{Node: tree.Doc.FirstChild(), Source: tree.Body}
	if got := b.Excerpt(); got != "First line with [[A]]" {
		t.Errorf("Excerpt = %q", got)
	}
}
