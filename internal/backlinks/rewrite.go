package backlinks

import (
	"bytes"
	"sort"
	"strings"

	"github.com/starford/janitor/internal/markdown"
)

// Entry is one note linking to the note being rewritten.
type Entry struct {
	SourceTitle string
	Contexts    []markdown.Block
}

// Entries orders sources by descending score. Sources without a score count
// as 0; equal scores fall back to title order so output is deterministic.
func Entries(sources map[string][]markdown.Block, scores map[string]float64) []Entry {
	out := make([]Entry, 0, len(sources))
	for title, contexts := range sources {
		out = append(out, Entry{SourceTitle: title, Contexts: contexts})
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := scores[out[i].SourceTitle], scores[out[j].SourceTitle]
		if si != sj {
			return si > sj
		}
		return out[i].SourceTitle < out[j].SourceTitle
	})
	return out
}

// Render renders the section for entries with "\n" line endings. No entries
// render as nothing, so an emptied section disappears together with its
// heading.
func Render(entries []Entry) string {
	return render(entries, "\n")
}

func render(entries []Entry, eol string) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## " + Heading + eol)
	for _, e := range entries {
		b.WriteString("* [[" + e.SourceTitle + "]]" + eol)
		for _, c := range e.Contexts {
			b.WriteString("\t* " + c.Excerpt() + eol)
		}
	}
	b.WriteString(eol)
	return b.String()
}

// Rewrite returns the note text with its backlinks section replaced by one
// rendered from entries. Bytes outside the section are copied unchanged and
// the section uses the note's line ending.
func Rewrite(tree *markdown.Tree, entries []Entry) []byte {
	start, end := Locate(tree).Span(tree)
	eol := lineEnding(tree.Source)
	section := render(entries, eol)

	var out bytes.Buffer
	out.Grow(len(tree.Source) + len(section) + 2)
	out.Write(tree.Prefix())
	head := tree.Body[:start]
	out.Write(head)
	if section != "" {
		out.WriteString(separator(head, eol))
		out.WriteString(section)
	}
	out.Write(tree.Body[end:])
	return out.Bytes()
}

// separator pads head so that an inserted section starts after a blank line.
func separator(head []byte, eol string) string {
	switch {
	case len(head) == 0, bytes.HasSuffix(head, []byte(eol+eol)), bytes.HasSuffix(head, []byte("\n\n")):
		return ""
	case bytes.HasSuffix(head, []byte("\n")):
		return eol
	default:
		return eol + eol
	}
}

// lineEnding returns "\r\n" when the first line of src ends with it, else "\n".
func lineEnding(src []byte) string {
	if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
