// Package janitor runs the backlink maintenance pipeline over a directory of
// notes: read and parse every note, build the link map, rank the notes, and
// rewrite each note's backlinks section.
package janitor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/janitor/internal/apperr"
	"github.com/starford/janitor/internal/backlinks"
	"github.com/starford/janitor/internal/checksum"
	"github.com/starford/janitor/internal/index"
	"github.com/starford/janitor/internal/links"
	"github.com/starford/janitor/internal/markdown"
	"github.com/starford/janitor/internal/models"
	"github.com/starford/janitor/internal/rank"
	"github.com/starford/janitor/internal/storage"
)

// Janitor coordinates storage, parsing and ranking.
type Janitor struct {
	store        storage.Provider
	logger       *slog.Logger
	params       rank.Params
	workers      int
	dryRun       bool
	strictTitles bool
	recorder     Recorder
}

// Report summarises one run.
type Report struct {
	Notes    int
	Links    int
	Dangling []string
	// Changed lists, sorted, the notes whose content was (or in a dry run
	// would be) rewritten.
	Changed    []string
	DryRun     bool
	Iterations int
	Scores     rank.Scores
	Duration   time.Duration
}

type note struct {
	models.Note
	tree  *markdown.Tree
	links []links.Link
}

// New creates a Janitor over store.
func New(store storage.Provider, logger *slog.Logger, opts ...Option) *Janitor {
	j := &Janitor{
		store:   store,
		logger:  logger,
		params:  rank.DefaultParams(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run performs one full pass. Any read or write failure aborts the run;
// notes already written stay written.
func (j *Janitor) Run(ctx context.Context) (*Report, error) {
	started := time.Now()

	notes, err := j.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := j.checkTitles(notes); err != nil {
		return nil, err
	}

	outbound := make([]links.NoteLinks, len(notes))
	titles := make(map[string]struct{}, len(notes))
	linkCount := 0
	for i, n := range notes {
		outbound[i] = links.NoteLinks{Title: n.Title, Links: n.links}
		titles[n.Title] = struct{}{}
		linkCount += len(n.links)
	}
	linkMap := links.BuildLinkMap(outbound)

	graph := rank.NewGraph()
	for _, n := range notes {
		graph.AddNode(n.Title)
	}
	for _, n := range notes {
		for _, l := range n.links {
			graph.Link(n.Title, l.Target, 1)
		}
	}
	scores, iterations := graph.Rank(j.params)
	j.logger.Debug("janitor: ranked",
		slog.Int("nodes", graph.Len()),
		slog.Int("iterations", iterations),
	)

	changed, err := j.rewrite(ctx, notes, linkMap, scores)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Notes:      len(notes),
		Links:      linkCount,
		Dangling:   linkMap.Dangling(titles),
		Changed:    changed,
		DryRun:     j.dryRun,
		Iterations: iterations,
		Scores:     scores,
	}

	if j.recorder != nil {
		if err := j.recorder.Replace(ctx, snapshot(notes, scores)); err != nil {
			return nil, fmt.Errorf("janitor: record snapshot: %w", err)
		}
	}

	report.Duration = time.Since(started)
	j.logger.Info("janitor: run complete",
		slog.Int("notes", report.Notes),
		slog.Int("links", report.Links),
		slog.Int("dangling", len(report.Dangling)),
		slog.Int("changed", len(report.Changed)),
		slog.Bool("dry_run", report.DryRun),
		slog.Duration("took", report.Duration),
	)
	return report, nil
}

// load reads and parses every note concurrently.
func (j *Janitor) load(ctx context.Context) ([]note, error) {
	metas, err := j.store.List()
	if err != nil {
		return nil, fmt.Errorf("janitor: list notes: %w", err)
	}

	notes := make([]note, len(metas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.workers)
	for i, m := range metas {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := j.store.Read(m.Path)
			if err != nil {
				return fmt.Errorf("janitor: read %s: %w", m.Path, err)
			}
			tree := markdown.Parse(data)
			notes[i] = note{
				Note: models.Note{
					Path:     m.Path,
					Title:    tree.Title(m.Path),
					Content:  data,
					Checksum: checksum.Sum(data),
				},
				tree:  tree,
				links: links.Extract(tree),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return notes, nil
}

// checkTitles applies the duplicate title policy. Notes sharing a title are
// one node of the link graph.
func (j *Janitor) checkTitles(notes []note) error {
	seen := make(map[string]string, len(notes))
	for _, n := range notes {
		first, ok := seen[n.Title]
		if !ok {
			seen[n.Title] = n.Path
			continue
		}
		if j.strictTitles {
			return fmt.Errorf("janitor: %q used by %s and %s: %w", n.Title, first, n.Path, apperr.ErrDuplicateTitle)
		}
		j.logger.Warn("janitor: duplicate title",
			slog.String("title", n.Title),
			slog.String("path", n.Path),
			slog.String("first", first),
		)
	}
	return nil
}

// rewrite regenerates every note's backlinks section and writes the notes
// whose content changed.
func (j *Janitor) rewrite(ctx context.Context, notes []note, linkMap links.LinkMap, scores rank.Scores) ([]string, error) {
	dirty := make([]bool, len(notes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.workers)
	for i, n := range notes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries := backlinks.Entries(linkMap.Sources(n.Title), scores)
			updated := backlinks.Rewrite(n.tree, entries)
			if bytes.Equal(updated, n.Content) {
				return nil
			}
			dirty[i] = true
			if j.dryRun {
				return nil
			}
			if err := j.store.Write(n.Path, updated); err != nil {
				return fmt.Errorf("janitor: write %s: %w", n.Path, err)
			}
			notes[i].Checksum = checksum.Sum(updated)
			j.logger.Debug("janitor: updated", slog.String("path", n.Path), slog.Int("backlinks", len(entries)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var changed []string
	for i, d := range dirty {
		if d {
			changed = append(changed, notes[i].Path)
		}
	}
	sort.Strings(changed)
	return changed, nil
}

func snapshot(notes []note, scores rank.Scores) index.Snapshot {
	s := index.Snapshot{Ranks: scores}
	now := time.Now()
	for _, n := range notes {
		s.Notes = append(s.Notes, index.NoteRow{
			Path:      n.Path,
			Title:     n.Title,
			Checksum:  n.Checksum,
			UpdatedAt: now,
		})
		for _, l := range n.links {
			row := index.LinkRow{Source: n.Title, Target: l.Target}
			if l.Context != nil {
				row.Excerpt = l.Context.Excerpt()
			}
			s.Links = append(s.Links, row)
		}
	}
	return s
}
