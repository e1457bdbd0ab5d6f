package backlinks

import (
	"testing"

	"github.com/yuin/goldmark/ast"

	"github.com/starford/janitor/internal/markdown"
)

func parse(s string) *markdown.Tree {
	return markdown.Parse([]byte(s))
}

func TestLocate_Present(t *testing.T) {
	tree := parse("# A\n\n## Backlinks\n* [[B]]\n\n## Next\n")
	b := Locate(tree)
	if !b.Present {
		t.Fatal("expected section to be present")
	}
	if h, ok := b.Until.(*ast.Heading); !ok || h.Level != 2 {
		t.Errorf("until = %T, want following heading", b.Until)
	}
	start, end := b.Span(tree)
	if got := string(tree.Body[start:end]); got != "## Backlinks\n* [[B]]\n\n" {
		t.Errorf("span = %q", got)
	}
}

func TestLocate_PresentToEnd(t *testing.T) {
	tree := parse("# A\n\n## Backlinks\n* [[B]]\n")
	b := Locate(tree)
	if !b.Present || b.Until != nil {
		t.Fatalf("present = %v, until = %v", b.Present, b.Until)
	}
	_, end := b.Span(tree)
	if end != len(tree.Body) {
		t.Errorf("end = %d, want %d", end, len(tree.Body))
	}
}

func TestLocate_PresentUntilClosingMatter(t *testing.T) {
	tree := parse("## Backlinks\n* [[B]]\n\n<!-- footer -->\n")
	b := Locate(tree)
	if !b.Present || !IsClosingMatter(b.Until, tree.Body) {
		t.Errorf("until = %T, want closing matter", b.Until)
	}
}

func TestLocate_Absent(t *testing.T) {
	tree := parse("# A\n\nText.\n\n<!-- footer -->\n\n<!-- second -->\n")
	b := Locate(tree)
	if b.Present {
		t.Fatal("expected section to be absent")
	}
	if b.InsertionPoint == nil || b.InsertionPoint != tree.Children()[2] {
		t.Errorf("insertion point = %v, want first comment", b.InsertionPoint)
	}

	b = Locate(parse("# A\n\nText.\n"))
	if b.Present || b.InsertionPoint != nil {
		t.Errorf("got %+v, want absent with no insertion point", b)
	}
}

func TestLocate_OnlyExactLevelTwoHeading(t *testing.T) {
	for _, src := range []string{
		"### Backlinks\n",
		"# Backlinks\n",
		"## Backlinks and more\n",
		"## *Backlinks*\n",
	} {
		if Locate(parse(src)).Present {
			t.Errorf("%q should not count as a backlinks section", src)
		}
	}
	if !Locate(parse("Backlinks\n---------\n")).Present {
		t.Error("setext level-2 heading should count")
	}
}

func TestRewrite_AppendsWhenAbsent(t *testing.T) {
	tree := parse("# A\n\nText.\n")
	got := string(Rewrite(tree, []Entry{{SourceTitle: "B"}}))
	want := "# A\n\nText.\n\n## Backlinks\n* [[B]]\n\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRewrite_PadsWhenNoTrailingNewline(t *testing.T) {
	got := string(Rewrite(parse("Text."), []Entry{{SourceTitle: "B"}}))
	want := "Text.\n\n## Backlinks\n* [[B]]\n\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRewrite_InsertsBeforeClosingMatter(t *testing.T) {
	tree := parse("# A\n\nText.\n\n<!-- footer -->\n")
	got := string(Rewrite(tree, []Entry{{SourceTitle: "B"}}))
	want := "# A\n\nText.\n\n## Backlinks\n* [[B]]\n\n<!-- footer -->\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRewrite_ReplacesExisting(t *testing.T) {
	tree := parse("# A\n\n## Backlinks\n* [[Old]]\n\n## Next\nx\n")
	got := string(Rewrite(tree, []Entry{{SourceTitle: "B"}, {SourceTitle: "C"}}))
	want := "# A\n\n## Backlinks\n* [[B]]\n* [[C]]\n\n## Next\nx\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRewrite_NoEntriesNoSection(t *testing.T) {
	src := "# A\n\nText.\n<!-- x -->\n"
	if got := string(Rewrite(parse(src), nil)); got != src {
		t.Errorf("got %q, want unchanged", got)
	}
}

func TestRewrite_EmptiedSectionIsRemoved(t *testing.T) {
	tree := parse("# A\n\nText.\n\n## Backlinks\n* [[Old]]\n\n<!-- footer -->\n")
	got := string(Rewrite(tree, nil))
	want := "# A\n\nText.\n\n<!-- footer -->\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRewrite_ContextsAndFrontmatter(t *testing.T) {
	source := parse("# B\n\nB mentions [[A]] here\nacross two lines.\n")
	ctx := markdown.Block{Node: source.Children()[1], Source: source.Body}

	target := parse("---\ntags: [x]\n---\n# A\n")
	got := string(Rewrite(target, []Entry{{SourceTitle: "B", Contexts: []markdown.Block{ctx, ctx}}}))
	want := "---\ntags: [x]\n---\n# A\n\n## Backlinks\n* [[B]]\n\t* B mentions [[A]] here\n\t* B mentions [[A]] here\n\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	source := parse("> B quotes [[A]]\n")
	ctx := markdown.Block{Node: source.Children()[0], Source: source.Body}
	entries := []Entry{{SourceTitle: "B", Contexts: []markdown.Block{ctx}}, {SourceTitle: "C"}}

	first := Rewrite(parse("# A\n\nBody.\n\n<!-- end -->\n"), entries)
	second := Rewrite(markdown.Parse(first), entries)
	if string(first) != string(second) {
		t.Errorf("second rewrite changed output\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestRewrite_KeepsCRLF(t *testing.T) {
	source := parse("B links [[A]]\r\nand more\r\n")
	ctx := markdown.Block{Node: source.Children()[0], Source: source.Body}
	entries := []Entry{{SourceTitle: "B", Contexts: []markdown.Block{ctx}}}

	first := Rewrite(parse("# A\r\n\r\ntext\r\n"), entries)
	want := "# A\r\n\r\ntext\r\n\r\n## Backlinks\r\n* [[B]]\r\n\t* B links [[A]]\r\n\r\n"
	if string(first) != want {
		t.Errorf("got %q\nwant %q", first, want)
	}
	if second := Rewrite(markdown.Parse(first), entries); string(second) != string(first) {
		t.Errorf("second rewrite changed output\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestEntries_SortedByScore(t *testing.T) {
	sources := map[string][]markdown.Block{"Low": nil, "High": nil, "Unranked": nil, "AlsoLow": nil}
	scores := map[string]float64{"Low": 0.1, "AlsoLow": 0.1, "High": 0.5}
	got := Entries(sources, scores)
	want := []string{"High", "AlsoLow", "Low", "Unranked"}
	for i, e := range got {
		if e.SourceTitle != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.SourceTitle, want[i])
		}
	}
}
