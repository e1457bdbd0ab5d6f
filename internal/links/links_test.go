package links

import (
	"testing"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/starford/janitor/internal/markdown"
)

func extract(src string) []Link {
	return Extract(markdown.Parse([]byte(src)))
}

func TestExtract_ParagraphContext(t *testing.T) {
	got := extract("# Note\n\nSee [[A]] and [[B|bee]].\n")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Target != "A" || got[1].Target != "B" {
		t.Errorf("targets = %q, %q", got[0].Target, got[1].Target)
	}
	if _, ok := got[0].Context.Node.(*ast.Paragraph); !ok {
		t.Errorf("context = %T, want paragraph", got[0].Context.Node)
	}
	if got[0].Context.Node != got[1].Context.Node {
		t.Error("links in one paragraph should share a context")
	}
}

func TestExtract_ClosestBlockWins(t *testing.T) {
	cases := []struct {
		src  string
		want func(ast.Node) bool
		name string
	}{
		{"## About [[A]]\n", func(n ast.Node) bool { _, ok := n.(*ast.Heading); return ok }, "heading"},
		{"> quoted [[A]]\n", func(n ast.Node) bool { _, ok := n.(*ast.Paragraph); return ok }, "paragraph in quote"},
		{"* item [[A]]\n* other\n", func(n ast.Node) bool { _, ok := n.(*ast.TextBlock); return ok }, "tight list item text"},
		{"| [[A]] | b |\n| --- | --- |\n| c | d |\n", func(n ast.Node) bool { _, ok := n.(*east.Table); return ok }, "table"},
	}
	for _, c := range cases {
		got := extract(c.src)
		if len(got) != 1 {
			t.Fatalf("%s: len = %d, want 1", c.name, len(got))
		}
		if got[0].Context == nil || !c.want(got[0].Context.Node) {
			t.Errorf("%s: context = %#v", c.name, got[0].Context)
		}
	}
}

func TestExtract_SkipsBacklinksSection(t *testing.T) {
	src := "# Note\n\nOwn link to [[A]].\n\n## Backlinks\n* [[B]]\n\t* B says [[Note]]\n\n## Later\n\nMore [[C]].\n"
	got := extract(src)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Target != "A" || got[1].Target != "C" {
		t.Errorf("targets = %q, %q; want A, C", got[0].Target, got[1].Target)
	}
}

func TestExtract_SectionRunsToClosingMatter(t *testing.T) {
	src := "Body.\n\n## Backlinks\n* [[B]]\n\n<!-- footer [[X]] -->\n\nAfter [[D]].\n"
	got := extract(src)
	if len(got) != 1 || got[0].Target != "D" {
		t.Errorf("links = %+v, want only D", got)
	}
}

func TestBuildLinkMap(t *testing.T) {
	one := markdown.Parse([]byte("First [[A]] and again [[A]].\n\nSecond [[A]].\n"))
	notes := []NoteLinks{
		{Title: "One", Links: Extract(one)},
		{Title: "Two", Links: []Link{{Target: "A"}}},
		{Title: "Three", Links: []Link{{Target: "Missing"}}},
	}
	m := BuildLinkMap(notes)

	sources := m.Sources("A")
	if len(sources) != 2 {
		t.Fatalf("sources of A = %d, want 2", len(sources))
	}
	if got := len(sources["One"]); got != 3 {
		t.Errorf("contexts from One = %d, want 3", got)
	}
	if sources["One"][0].Node != sources["One"][1].Node {
		t.Error("duplicate contexts should be kept in order")
	}
	ctx, ok := sources["Two"]
	if !ok || len(ctx) != 0 {
		t.Errorf("Two should be present without contexts, got %v (present=%v)", ctx, ok)
	}

	dangling := m.Dangling(map[string]struct{}{"One": {}, "Two": {}, "Three": {}, "A": {}})
	if len(dangling) != 1 || dangling[0] != "Missing" {
		t.Errorf("dangling = %v, want [Missing]", dangling)
	}
}
