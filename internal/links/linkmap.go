package links

import (
	"sort"

	"github.com/starford/janitor/internal/markdown"
)

// NoteLinks is the outbound links of one note.
type NoteLinks struct {
	Title string
	Links []Link
}

// LinkMap maps a target title to the notes linking to it, each with the
// contexts of its links in the order they were found.
type LinkMap map[string]map[string][]markdown.Block

// BuildLinkMap folds the outbound links of every note into a LinkMap. A
// source appears under a target as soon as one link exists, even when none
// of its links captured a context.
func BuildLinkMap(notes []NoteLinks) LinkMap {
	m := make(LinkMap)
	for _, note := range notes {
		for _, link := range note.Links {
			sources, ok := m[link.Target]
			if !ok {
				sources = make(map[string][]markdown.Block)
				m[link.Target] = sources
			}
			contexts, ok := sources[note.Title]
			if !ok {
				contexts = []markdown.Block{}
			}
			if link.Context != nil {
				contexts = append(contexts, *link.Context)
			}
			sources[note.Title] = contexts
		}
	}
	return m
}

// Sources returns the notes linking to target.
func (m LinkMap) Sources(target string) map[string][]markdown.Block {
	return m[target]
}

// Dangling returns, sorted, the targets that match none of the given titles.
func (m LinkMap) Dangling(titles map[string]struct{}) []string {
	var out []string
	for target := range m {
		if _, ok := titles[target]; !ok {
			out = append(out, target)
		}
	}
	sort.Strings(out)
	return out
}
